package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"bookbazaar/internal/domain"
	"bookbazaar/internal/services"
)

// parseCatalogQuery reads the shared listing parameters. variantKey is
// the entity-specific enum filter: "condition" for books, "format"
// for notes.
func parseCatalogQuery(c *fiber.Ctx, variantKey string) (services.CatalogQuery, error) {
	q := services.CatalogQuery{
		Category: c.Query("category"),
		Variant:  c.Query(variantKey),
		Search:   c.Query("search"),
		SortBy:   c.Query("sortBy"),
		Order:    c.Query("order"),
		Page:     c.QueryInt("page", 0),
		Limit:    c.QueryInt("limit", 0),
	}

	if raw := c.Query("minPrice"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return q, domain.Validationf("minPrice must be a number")
		}
		q.MinPrice = &v
	}
	if raw := c.Query("maxPrice"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return q, domain.Validationf("maxPrice must be a number")
		}
		q.MaxPrice = &v
	}
	return q, nil
}

package services

import (
	"bookbazaar/internal/domain"
	"bookbazaar/internal/repositories"
)

const (
	defaultPage  = 1
	defaultLimit = 12
	maxLimit     = 100
)

// CatalogQuery carries raw listing parameters from the transport
// layer. SortBy is matched against a per-entity whitelist before it
// ever reaches a query.
type CatalogQuery struct {
	Category string
	Variant  string
	MinPrice *float64
	MaxPrice *float64
	Search   string
	SortBy   string
	Order    string
	Page     int
	Limit    int
}

// buildFilter sanitizes a query into a repository filter. Unknown sort
// keys are rejected rather than passed through.
func buildFilter(q CatalogQuery, sortable map[string]string, availableOnly bool) (repositories.CatalogFilter, error) {
	page := q.Page
	if page < 1 {
		page = defaultPage
	}
	limit := q.Limit
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	column := sortable["created_at"]
	if q.SortBy != "" {
		got, ok := sortable[q.SortBy]
		if !ok {
			return repositories.CatalogFilter{}, domain.Validationf("unknown sort key '%s'", q.SortBy)
		}
		column = got
	}

	order := "DESC"
	switch q.Order {
	case "", "desc", "DESC":
	case "asc", "ASC":
		order = "ASC"
	default:
		return repositories.CatalogFilter{}, domain.Validationf("order must be asc or desc")
	}

	if q.MinPrice != nil && *q.MinPrice < 0 {
		return repositories.CatalogFilter{}, domain.Validationf("minPrice must not be negative")
	}
	if q.MaxPrice != nil && *q.MaxPrice < 0 {
		return repositories.CatalogFilter{}, domain.Validationf("maxPrice must not be negative")
	}

	return repositories.CatalogFilter{
		CategoryID:    q.Category,
		Variant:       q.Variant,
		MinPrice:      q.MinPrice,
		MaxPrice:      q.MaxPrice,
		Search:        q.Search,
		SortColumn:    column,
		SortOrder:     order,
		Page:          page,
		Limit:         limit,
		AvailableOnly: availableOnly,
	}, nil
}

// totalPages computes ceil(count/limit).
func totalPages(count int64, limit int) int {
	if count == 0 {
		return 0
	}
	return int((count + int64(limit) - 1) / int64(limit))
}

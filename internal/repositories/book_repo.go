package repositories

import "bookbazaar/internal/models"

// CatalogFilter narrows a catalog listing. Zero values mean "no
// filter"; price bounds are inclusive and use pointers so an explicit
// 0 bound still applies. Page and Limit are assumed sanitized by the
// service, SortColumn/SortOrder whitelisted there as well.
type CatalogFilter struct {
	CategoryID    string
	Variant       string // book condition or note format
	MinPrice      *float64
	MaxPrice      *float64
	Search        string
	SortColumn    string
	SortOrder     string
	Page          int
	Limit         int
	AvailableOnly bool
}

// Offset returns the row offset for the current page.
func (f CatalogFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// BookRepository defines the interface for book data access.
type BookRepository interface {
	List(filter CatalogFilter) ([]models.Book, int64, error)
	GetByID(id string) (*models.Book, error)
	GetBySeller(sellerID string) ([]models.Book, error)
	Create(book *models.Book) error
	Save(book *models.Book) error
	Delete(id string) error
}

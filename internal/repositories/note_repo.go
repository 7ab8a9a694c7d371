package repositories

import "bookbazaar/internal/models"

// NoteRepository defines the interface for note data access.
type NoteRepository interface {
	List(filter CatalogFilter) ([]models.Note, int64, error)
	GetByID(id string) (*models.Note, error)
	GetBySeller(sellerID string) ([]models.Note, error)
	Create(note *models.Note) error
	Save(note *models.Note) error
	Delete(id string) error
}

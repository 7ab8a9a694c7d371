package repositories

import "bookbazaar/internal/models"

// ReviewRepository defines the interface for review data access.
type ReviewRepository interface {
	Create(review *models.Review) error
	GetByID(id string) (*models.Review, error)
	GetByItem(itemType models.ItemType, itemID string) ([]models.Review, error)
	Save(review *models.Review) error
	Delete(id string) error
}

package repositories

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bookbazaar/internal/domain"
	"bookbazaar/internal/models"
)

// sellerPublicFields limits preloaded seller records to public
// attributes. The password hash is additionally excluded from JSON.
func sellerPublicFields(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "contact_email", "phone")
}

// GORMBookRepository is a GORM implementation of BookRepository.
type GORMBookRepository struct {
	db *gorm.DB
}

// NewGORMBookRepository creates a new instance of GORMBookRepository.
func NewGORMBookRepository(db *gorm.DB) *GORMBookRepository {
	return &GORMBookRepository{db: db}
}

// List retrieves books matching the filter plus the total match count.
func (r *GORMBookRepository) List(filter CatalogFilter) ([]models.Book, int64, error) {
	q := r.db.Model(&models.Book{})
	if filter.AvailableOnly {
		q = q.Where("is_available = ?", true)
	}
	if filter.CategoryID != "" {
		q = q.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Variant != "" {
		q = q.Where("condition = ?", filter.Variant)
	}
	if filter.MinPrice != nil {
		q = q.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(author) LIKE ? OR LOWER(description) LIKE ?", like, like, like)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count books: %w", err)
	}

	var books []models.Book
	err := q.Order(filter.SortColumn + " " + filter.SortOrder).
		Offset(filter.Offset()).
		Limit(filter.Limit).
		Preload("Category").
		Preload("Seller", sellerPublicFields).
		Find(&books).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list books: %w", err)
	}
	return books, count, nil
}

// GetByID retrieves a single book with category, seller, images and
// reviews (with reviewer) attached.
func (r *GORMBookRepository) GetByID(id string) (*models.Book, error) {
	var book models.Book
	err := r.db.
		Preload("Category").
		Preload("Seller", sellerPublicFields).
		First(&book, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get book by ID %s: %w", id, err)
	}

	if err := r.db.Where("item_type = ? AND item_id = ?", models.ItemTypeBook, id).Find(&book.Images).Error; err != nil {
		return nil, fmt.Errorf("failed to load book images: %w", err)
	}
	err = r.db.Where("item_type = ? AND item_id = ?", models.ItemTypeBook, id).
		Preload("User", func(db *gorm.DB) *gorm.DB { return db.Select("id", "name") }).
		Order("created_at DESC").
		Find(&book.Reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load book reviews: %w", err)
	}
	return &book, nil
}

// GetBySeller retrieves a seller's books, including unavailable ones,
// newest first.
func (r *GORMBookRepository) GetBySeller(sellerID string) ([]models.Book, error) {
	var books []models.Book
	err := r.db.Where("seller_id = ?", sellerID).
		Preload("Category").
		Order("created_at DESC").
		Find(&books).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get books for seller %s: %w", sellerID, err)
	}
	return books, nil
}

// Create inserts a new book, assigning a fresh ID when absent.
func (r *GORMBookRepository) Create(book *models.Book) error {
	if book.ID == "" {
		book.ID = uuid.New().String()
	}
	if err := r.db.Omit(clause.Associations).Create(book).Error; err != nil {
		return fmt.Errorf("failed to create book: %w", err)
	}
	return nil
}

// Save persists every field of an existing book. Associations are
// never written back from here.
func (r *GORMBookRepository) Save(book *models.Book) error {
	res := r.db.Omit(clause.Associations).Save(book)
	if res.Error != nil {
		return fmt.Errorf("failed to update book: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a book permanently.
func (r *GORMBookRepository) Delete(id string) error {
	res := r.db.Delete(&models.Book{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete book: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

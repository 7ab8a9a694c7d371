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

// GORMNoteRepository is a GORM implementation of NoteRepository.
type GORMNoteRepository struct {
	db *gorm.DB
}

// NewGORMNoteRepository creates a new instance of GORMNoteRepository.
func NewGORMNoteRepository(db *gorm.DB) *GORMNoteRepository {
	return &GORMNoteRepository{db: db}
}

// List retrieves notes matching the filter plus the total match count.
// The filter's Variant selects on format; Search covers subject, topic
// and summary.
func (r *GORMNoteRepository) List(filter CatalogFilter) ([]models.Note, int64, error) {
	q := r.db.Model(&models.Note{})
	if filter.AvailableOnly {
		q = q.Where("is_available = ?", true)
	}
	if filter.CategoryID != "" {
		q = q.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Variant != "" {
		q = q.Where("format = ?", filter.Variant)
	}
	if filter.MinPrice != nil {
		q = q.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		q = q.Where("LOWER(subject) LIKE ? OR LOWER(topic) LIKE ? OR LOWER(summary) LIKE ?", like, like, like)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count notes: %w", err)
	}

	var notes []models.Note
	err := q.Order(filter.SortColumn + " " + filter.SortOrder).
		Offset(filter.Offset()).
		Limit(filter.Limit).
		Preload("Category").
		Preload("Seller", sellerPublicFields).
		Find(&notes).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notes: %w", err)
	}
	return notes, count, nil
}

// GetByID retrieves a single note with category, seller, images and
// reviews attached.
func (r *GORMNoteRepository) GetByID(id string) (*models.Note, error) {
	var note models.Note
	err := r.db.
		Preload("Category").
		Preload("Seller", sellerPublicFields).
		First(&note, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get note by ID %s: %w", id, err)
	}

	if err := r.db.Where("item_type = ? AND item_id = ?", models.ItemTypeNote, id).Find(&note.Images).Error; err != nil {
		return nil, fmt.Errorf("failed to load note images: %w", err)
	}
	err = r.db.Where("item_type = ? AND item_id = ?", models.ItemTypeNote, id).
		Preload("User", func(db *gorm.DB) *gorm.DB { return db.Select("id", "name") }).
		Order("created_at DESC").
		Find(&note.Reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load note reviews: %w", err)
	}
	return &note, nil
}

// GetBySeller retrieves a seller's notes, including unavailable ones,
// newest first.
func (r *GORMNoteRepository) GetBySeller(sellerID string) ([]models.Note, error) {
	var notes []models.Note
	err := r.db.Where("seller_id = ?", sellerID).
		Preload("Category").
		Order("created_at DESC").
		Find(&notes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get notes for seller %s: %w", sellerID, err)
	}
	return notes, nil
}

// Create inserts a new note, assigning a fresh ID when absent.
func (r *GORMNoteRepository) Create(note *models.Note) error {
	if note.ID == "" {
		note.ID = uuid.New().String()
	}
	if err := r.db.Omit(clause.Associations).Create(note).Error; err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}
	return nil
}

// Save persists every field of an existing note.
func (r *GORMNoteRepository) Save(note *models.Note) error {
	res := r.db.Omit(clause.Associations).Save(note)
	if res.Error != nil {
		return fmt.Errorf("failed to update note: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a note permanently.
func (r *GORMNoteRepository) Delete(id string) error {
	res := r.db.Delete(&models.Note{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete note: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

package services

import (
	"bookbazaar/internal/domain"
	"bookbazaar/internal/models"
	"bookbazaar/internal/repositories"
)

// ReviewService handles business logic for item reviews.
type ReviewService struct {
	reviews repositories.ReviewRepository
	books   repositories.BookRepository
	notes   repositories.NoteRepository
}

// NewReviewService creates a new ReviewService.
func NewReviewService(reviews repositories.ReviewRepository, books repositories.BookRepository, notes repositories.NoteRepository) *ReviewService {
	return &ReviewService{reviews: reviews, books: books, notes: notes}
}

// ListByItem returns all reviews for one catalog item, newest first.
func (s *ReviewService) ListByItem(itemType models.ItemType, itemID string) ([]models.Review, error) {
	if !models.ValidItemType(itemType) {
		return nil, domain.Validationf("item_type must be book or note")
	}
	return s.reviews.GetByItem(itemType, itemID)
}

// CreateReviewInput carries the fields accepted for a new review.
type CreateReviewInput struct {
	ItemType models.ItemType
	ItemID   string
	Rating   int
	Comment  string
}

// Create records a review. The referenced item must exist; the same
// user may review the same item more than once.
func (s *ReviewService) Create(caller *models.User, in CreateReviewInput) (*models.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, domain.Validationf("rating must be between 1 and 5")
	}
	if _, err := resolveItem(s.books, s.notes, in.ItemType, in.ItemID); err != nil {
		return nil, err
	}

	review := &models.Review{
		Rating:   in.Rating,
		Comment:  in.Comment,
		ItemType: in.ItemType,
		ItemID:   in.ItemID,
		UserID:   caller.ID,
	}
	if err := s.reviews.Create(review); err != nil {
		return nil, err
	}
	return review, nil
}

// ReviewPatch carries optional review fields; nil means unchanged.
type ReviewPatch struct {
	Rating  *int
	Comment *string
}

// Update modifies a review under author-or-admin rules.
func (s *ReviewService) Update(caller *models.User, id string, patch ReviewPatch) (*models.Review, error) {
	review, err := s.reviews.GetByID(id)
	if err != nil {
		return nil, err
	}
	if review.UserID != caller.ID && !caller.Roles.Has(models.RoleAdmin) {
		return nil, domain.ErrForbidden
	}

	if patch.Rating != nil {
		if *patch.Rating < 1 || *patch.Rating > 5 {
			return nil, domain.Validationf("rating must be between 1 and 5")
		}
		review.Rating = *patch.Rating
	}
	if patch.Comment != nil {
		review.Comment = *patch.Comment
	}

	if err := s.reviews.Save(review); err != nil {
		return nil, err
	}
	return review, nil
}

// Delete removes a review under author-or-admin rules.
func (s *ReviewService) Delete(caller *models.User, id string) error {
	review, err := s.reviews.GetByID(id)
	if err != nil {
		return err
	}
	if review.UserID != caller.ID && !caller.Roles.Has(models.RoleAdmin) {
		return domain.ErrForbidden
	}
	return s.reviews.Delete(id)
}

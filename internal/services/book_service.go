package services

import (
	"github.com/shopspring/decimal"

	"bookbazaar/internal/domain"
	"bookbazaar/internal/models"
	"bookbazaar/internal/repositories"
	"bookbazaar/pkg/logger"
	"bookbazaar/pkg/rabbitmq"
)

// bookSortKeys maps caller-facing sort keys to columns.
var bookSortKeys = map[string]string{
	"created_at": "created_at",
	"price":      "price",
	"title":      "title",
	"author":     "author",
}

// BookService handles business logic for book listings: filtering,
// ownership rules and availability derivation.
type BookService struct {
	books  repositories.BookRepository
	events rabbitmq.Publisher
	log    *logger.Logger
}

// NewBookService creates a new BookService.
func NewBookService(books repositories.BookRepository, events rabbitmq.Publisher, log *logger.Logger) *BookService {
	return &BookService{books: books, events: events, log: log}
}

// BookListResult is one page of a book listing.
type BookListResult struct {
	Books      []models.Book
	Count      int64
	TotalPages int
	Page       int
}

// List returns the public, available-only view of the catalog.
func (s *BookService) List(q CatalogQuery) (*BookListResult, error) {
	if q.Variant != "" && !models.ValidCondition(models.Condition(q.Variant)) {
		return nil, domain.Validationf("unknown condition '%s'", q.Variant)
	}
	filter, err := buildFilter(q, bookSortKeys, true)
	if err != nil {
		return nil, err
	}

	books, count, err := s.books.List(filter)
	if err != nil {
		return nil, err
	}
	return &BookListResult{
		Books:      books,
		Count:      count,
		TotalPages: totalPages(count, filter.Limit),
		Page:       filter.Page,
	}, nil
}

// Get returns full book detail, or ErrNotFound.
func (s *BookService) Get(id string) (*models.Book, error) {
	return s.books.GetByID(id)
}

// CreateBookInput carries the fields accepted when listing a book.
type CreateBookInput struct {
	Title       string
	Author      string
	ISBN        string
	Edition     string
	Condition   models.Condition
	Price       decimal.Decimal
	Quantity    *int
	CategoryID  *string
	Description string
}

// Create lists a new book. Only sellers and admins may create; the
// owning seller is always the caller, regardless of payload.
func (s *BookService) Create(caller *models.User, in CreateBookInput) (*models.Book, error) {
	if !caller.Roles.HasAny(models.RoleSeller, models.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	if in.Title == "" || len(in.Title) > 255 {
		return nil, domain.Validationf("title must be 1-255 characters")
	}
	if in.Author == "" || len(in.Author) > 100 {
		return nil, domain.Validationf("author must be 1-100 characters")
	}
	condition := in.Condition
	if condition == "" {
		condition = models.ConditionGood
	}
	if !models.ValidCondition(condition) {
		return nil, domain.Validationf("unknown condition '%s'", condition)
	}
	if in.Price.IsNegative() {
		return nil, domain.Validationf("price must not be negative")
	}
	quantity := 1
	if in.Quantity != nil {
		quantity = *in.Quantity
	}
	if quantity < 0 {
		return nil, domain.Validationf("quantity must not be negative")
	}

	book := &models.Book{
		Title:       in.Title,
		Author:      in.Author,
		ISBN:        in.ISBN,
		Edition:     in.Edition,
		Condition:   condition,
		Price:       in.Price,
		Quantity:    quantity,
		CategoryID:  in.CategoryID,
		SellerID:    caller.ID,
		Description: in.Description,
		IsAvailable: quantity > 0,
	}
	if err := s.books.Create(book); err != nil {
		return nil, err
	}
	return book, nil
}

// BookPatch carries a partial update; nil fields stay unchanged. An
// explicit zero quantity is a real value and drives availability.
type BookPatch struct {
	Title       *string
	Author      *string
	ISBN        *string
	Edition     *string
	Condition   *models.Condition
	Price       *decimal.Decimal
	Quantity    *int
	CategoryID  *string
	Description *string
}

// Update applies a partial update under owner-or-admin rules and
// re-derives availability from the resulting quantity.
func (s *BookService) Update(caller *models.User, id string, patch BookPatch) (*models.Book, error) {
	book, err := s.books.GetByID(id)
	if err != nil {
		return nil, err
	}
	if book.SellerID != caller.ID && !caller.Roles.Has(models.RoleAdmin) {
		return nil, domain.ErrForbidden
	}

	if patch.Title != nil {
		if *patch.Title == "" || len(*patch.Title) > 255 {
			return nil, domain.Validationf("title must be 1-255 characters")
		}
		book.Title = *patch.Title
	}
	if patch.Author != nil {
		if *patch.Author == "" || len(*patch.Author) > 100 {
			return nil, domain.Validationf("author must be 1-100 characters")
		}
		book.Author = *patch.Author
	}
	if patch.ISBN != nil {
		book.ISBN = *patch.ISBN
	}
	if patch.Edition != nil {
		book.Edition = *patch.Edition
	}
	if patch.Condition != nil {
		if !models.ValidCondition(*patch.Condition) {
			return nil, domain.Validationf("unknown condition '%s'", *patch.Condition)
		}
		book.Condition = *patch.Condition
	}
	if patch.Price != nil {
		if patch.Price.IsNegative() {
			return nil, domain.Validationf("price must not be negative")
		}
		book.Price = *patch.Price
	}
	if patch.Quantity != nil {
		if *patch.Quantity < 0 {
			return nil, domain.Validationf("quantity must not be negative")
		}
		book.Quantity = *patch.Quantity
	}
	if patch.CategoryID != nil {
		book.CategoryID = patch.CategoryID
	}
	if patch.Description != nil {
		book.Description = *patch.Description
	}

	wasAvailable := book.IsAvailable
	book.IsAvailable = book.Quantity > 0

	if err := s.books.Save(book); err != nil {
		return nil, err
	}

	if wasAvailable && !book.IsAvailable {
		err := s.events.PublishListingSoldOut(map[string]interface{}{
			"item_type": models.ItemTypeBook,
			"item_id":   book.ID,
			"seller_id": book.SellerID,
		})
		if err != nil {
			s.log.Warn().Err(err).Str("book_id", book.ID).Msg("failed to publish sold-out event")
		}
	}
	return book, nil
}

// Delete removes a book permanently under owner-or-admin rules.
func (s *BookService) Delete(caller *models.User, id string) error {
	book, err := s.books.GetByID(id)
	if err != nil {
		return err
	}
	if book.SellerID != caller.ID && !caller.Roles.Has(models.RoleAdmin) {
		return domain.ErrForbidden
	}
	return s.books.Delete(id)
}

// ListMine returns the caller's own books, including unavailable ones.
func (s *BookService) ListMine(caller *models.User) ([]models.Book, error) {
	if !caller.Roles.HasAny(models.RoleSeller, models.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	return s.books.GetBySeller(caller.ID)
}

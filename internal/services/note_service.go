package services

import (
	"github.com/shopspring/decimal"

	"bookbazaar/internal/domain"
	"bookbazaar/internal/models"
	"bookbazaar/internal/repositories"
	"bookbazaar/pkg/logger"
	"bookbazaar/pkg/rabbitmq"
)

var noteSortKeys = map[string]string{
	"created_at": "created_at",
	"price":      "price",
	"subject":    "subject",
	"topic":      "topic",
}

// NoteService handles business logic for study-note listings,
// mirroring BookService.
type NoteService struct {
	notes  repositories.NoteRepository
	events rabbitmq.Publisher
	log    *logger.Logger
}

// NewNoteService creates a new NoteService.
func NewNoteService(notes repositories.NoteRepository, events rabbitmq.Publisher, log *logger.Logger) *NoteService {
	return &NoteService{notes: notes, events: events, log: log}
}

// NoteListResult is one page of a note listing.
type NoteListResult struct {
	Notes      []models.Note
	Count      int64
	TotalPages int
	Page       int
}

// List returns the public, available-only view of the notes catalog.
// The query's Variant filters on format.
func (s *NoteService) List(q CatalogQuery) (*NoteListResult, error) {
	if q.Variant != "" && !models.ValidFormat(models.Format(q.Variant)) {
		return nil, domain.Validationf("unknown format '%s'", q.Variant)
	}
	filter, err := buildFilter(q, noteSortKeys, true)
	if err != nil {
		return nil, err
	}

	notes, count, err := s.notes.List(filter)
	if err != nil {
		return nil, err
	}
	return &NoteListResult{
		Notes:      notes,
		Count:      count,
		TotalPages: totalPages(count, filter.Limit),
		Page:       filter.Page,
	}, nil
}

// Get returns full note detail, or ErrNotFound.
func (s *NoteService) Get(id string) (*models.Note, error) {
	return s.notes.GetByID(id)
}

// CreateNoteInput carries the fields accepted when listing notes.
type CreateNoteInput struct {
	Subject    string
	Topic      string
	Format     models.Format
	Summary    string
	Price      decimal.Decimal
	Quantity   *int
	CategoryID *string
}

// Create lists new study notes. Only sellers and admins may create;
// the owning seller is always the caller.
func (s *NoteService) Create(caller *models.User, in CreateNoteInput) (*models.Note, error) {
	if !caller.Roles.HasAny(models.RoleSeller, models.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	if in.Subject == "" || len(in.Subject) > 100 {
		return nil, domain.Validationf("subject must be 1-100 characters")
	}
	if in.Topic == "" || len(in.Topic) > 255 {
		return nil, domain.Validationf("topic must be 1-255 characters")
	}
	format := in.Format
	if format == "" {
		format = models.FormatDigital
	}
	if !models.ValidFormat(format) {
		return nil, domain.Validationf("unknown format '%s'", format)
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

	note := &models.Note{
		Subject:     in.Subject,
		Topic:       in.Topic,
		Format:      format,
		Summary:     in.Summary,
		Price:       in.Price,
		Quantity:    quantity,
		CategoryID:  in.CategoryID,
		SellerID:    caller.ID,
		IsAvailable: quantity > 0,
	}
	if err := s.notes.Create(note); err != nil {
		return nil, err
	}
	return note, nil
}

// NotePatch carries a partial update; nil fields stay unchanged.
type NotePatch struct {
	Subject    *string
	Topic      *string
	Format     *models.Format
	Summary    *string
	Price      *decimal.Decimal
	Quantity   *int
	CategoryID *string
}

// Update applies a partial update under owner-or-admin rules and
// re-derives availability from the resulting quantity.
func (s *NoteService) Update(caller *models.User, id string, patch NotePatch) (*models.Note, error) {
	note, err := s.notes.GetByID(id)
	if err != nil {
		return nil, err
	}
	if note.SellerID != caller.ID && !caller.Roles.Has(models.RoleAdmin) {
		return nil, domain.ErrForbidden
	}

	if patch.Subject != nil {
		if *patch.Subject == "" || len(*patch.Subject) > 100 {
			return nil, domain.Validationf("subject must be 1-100 characters")
		}
		note.Subject = *patch.Subject
	}
	if patch.Topic != nil {
		if *patch.Topic == "" || len(*patch.Topic) > 255 {
			return nil, domain.Validationf("topic must be 1-255 characters")
		}
		note.Topic = *patch.Topic
	}
	if patch.Format != nil {
		if !models.ValidFormat(*patch.Format) {
			return nil, domain.Validationf("unknown format '%s'", *patch.Format)
		}
		note.Format = *patch.Format
	}
	if patch.Summary != nil {
		note.Summary = *patch.Summary
	}
	if patch.Price != nil {
		if patch.Price.IsNegative() {
			return nil, domain.Validationf("price must not be negative")
		}
		note.Price = *patch.Price
	}
	if patch.Quantity != nil {
		if *patch.Quantity < 0 {
			return nil, domain.Validationf("quantity must not be negative")
		}
		note.Quantity = *patch.Quantity
	}
	if patch.CategoryID != nil {
		note.CategoryID = patch.CategoryID
	}

	wasAvailable := note.IsAvailable
	note.IsAvailable = note.Quantity > 0

	if err := s.notes.Save(note); err != nil {
		return nil, err
	}

	if wasAvailable && !note.IsAvailable {
		err := s.events.PublishListingSoldOut(map[string]interface{}{
			"item_type": models.ItemTypeNote,
			"item_id":   note.ID,
			"seller_id": note.SellerID,
		})
		if err != nil {
			s.log.Warn().Err(err).Str("note_id", note.ID).Msg("failed to publish sold-out event")
		}
	}
	return note, nil
}

// Delete removes a note permanently under owner-or-admin rules.
func (s *NoteService) Delete(caller *models.User, id string) error {
	note, err := s.notes.GetByID(id)
	if err != nil {
		return err
	}
	if note.SellerID != caller.ID && !caller.Roles.Has(models.RoleAdmin) {
		return domain.ErrForbidden
	}
	return s.notes.Delete(id)
}

// ListMine returns the caller's own notes, including unavailable ones.
func (s *NoteService) ListMine(caller *models.User) ([]models.Note, error) {
	if !caller.Roles.HasAny(models.RoleSeller, models.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	return s.notes.GetBySeller(caller.ID)
}

package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"bookbazaar/internal/middleware"
	"bookbazaar/internal/models"
	"bookbazaar/internal/services"
)

// NoteHandler handles HTTP requests for study-note listings.
type NoteHandler struct {
	service  *services.NoteService
	validate *validator.Validate
}

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(service *services.NoteService) *NoteHandler {
	return &NoteHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the note routes, mirroring the book surface.
func (h *NoteHandler) RegisterRoutes(router fiber.Router, protect fiber.Handler) {
	notes := router.Group("/notes")
	notes.Get("/", h.HandleList)
	notes.Get("/seller/my-notes", protect, middleware.RequireRoles(models.RoleSeller, models.RoleAdmin), h.HandleMyNotes)
	notes.Get("/:id", h.HandleGet)
	notes.Post("/", protect, middleware.RequireRoles(models.RoleSeller, models.RoleAdmin), h.HandleCreate)
	notes.Put("/:id", protect, h.HandleUpdate)
	notes.Delete("/:id", protect, h.HandleDelete)
}

// HandleList returns the public notes catalog with filters, sorting and
// pagination.
func (h *NoteHandler) HandleList(c *fiber.Ctx) error {
	q, err := parseCatalogQuery(c, "format")
	if err != nil {
		return respondError(c, err)
	}

	result, err := h.service.List(q)
	if err != nil {
		return respondError(c, err)
	}
	return respondList(c, result.Notes, result.Count, result.TotalPages, result.Page)
}

// HandleGet returns one note with its relations.
func (h *NoteHandler) HandleGet(c *fiber.Ctx) error {
	note, err := h.service.Get(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, "", note)
}

// CreateNoteRequest is the request body for listing study notes.
type CreateNoteRequest struct {
	Subject    string  `json:"subject" validate:"required,min=1,max=100"`
	Topic      string  `json:"topic" validate:"required,min=1,max=255"`
	Format     string  `json:"format"`
	Summary    string  `json:"summary"`
	Price      float64 `json:"price" validate:"gte=0"`
	Quantity   *int    `json:"quantity"`
	CategoryID *string `json:"category_id"`
}

// HandleCreate lists new study notes owned by the caller.
func (h *NoteHandler) HandleCreate(c *fiber.Ctx) error {
	var req CreateNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	note, err := h.service.Create(middleware.CurrentUser(c), services.CreateNoteInput{
		Subject:    req.Subject,
		Topic:      req.Topic,
		Format:     models.Format(req.Format),
		Summary:    req.Summary,
		Price:      decimal.NewFromFloat(req.Price),
		Quantity:   req.Quantity,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return respondCreated(c, "Note created successfully", note)
}

// UpdateNoteRequest is the request body for partial note updates.
type UpdateNoteRequest struct {
	Subject    *string  `json:"subject"`
	Topic      *string  `json:"topic"`
	Format     *string  `json:"format"`
	Summary    *string  `json:"summary"`
	Price      *float64 `json:"price"`
	Quantity   *int     `json:"quantity"`
	CategoryID *string  `json:"category_id"`
}

// HandleUpdate applies a partial update under owner-or-admin rules.
func (h *NoteHandler) HandleUpdate(c *fiber.Ctx) error {
	var req UpdateNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadRequest(c, "Invalid request body")
	}

	patch := services.NotePatch{
		Subject:    req.Subject,
		Topic:      req.Topic,
		Summary:    req.Summary,
		Quantity:   req.Quantity,
		CategoryID: req.CategoryID,
	}
	if req.Format != nil {
		format := models.Format(*req.Format)
		patch.Format = &format
	}
	if req.Price != nil {
		price := decimal.NewFromFloat(*req.Price)
		patch.Price = &price
	}

	note, err := h.service.Update(middleware.CurrentUser(c), c.Params("id"), patch)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, "Note updated successfully", note)
}

// HandleDelete removes a note under owner-or-admin rules.
func (h *NoteHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Delete(middleware.CurrentUser(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return respondOK(c, "Note deleted successfully", nil)
}

// HandleMyNotes returns the caller's own notes, including unavailable
// ones.
func (h *NoteHandler) HandleMyNotes(c *fiber.Ctx) error {
	notes, err := h.service.ListMine(middleware.CurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return respondCount(c, notes, int64(len(notes)))
}

package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"bookbazaar/internal/middleware"
	"bookbazaar/internal/models"
	"bookbazaar/internal/services"
)

// BookHandler handles HTTP requests for book listings.
type BookHandler struct {
	service  *services.BookService
	validate *validator.Validate
}

// NewBookHandler creates a new BookHandler.
func NewBookHandler(service *services.BookService) *BookHandler {
	return &BookHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the book routes. Reads are public; writes
// require a session plus seller/admin or ownership.
func (h *BookHandler) RegisterRoutes(router fiber.Router, protect fiber.Handler) {
	books := router.Group("/books")
	books.Get("/", h.HandleList)
	books.Get("/seller/my-books", protect, middleware.RequireRoles(models.RoleSeller, models.RoleAdmin), h.HandleMyBooks)
	books.Get("/:id", h.HandleGet)
	books.Post("/", protect, middleware.RequireRoles(models.RoleSeller, models.RoleAdmin), h.HandleCreate)
	books.Put("/:id", protect, h.HandleUpdate)
	books.Delete("/:id", protect, h.HandleDelete)
}

// HandleList returns the public book catalog with filters, sorting and
// pagination.
func (h *BookHandler) HandleList(c *fiber.Ctx) error {
	q, err := parseCatalogQuery(c, "condition")
	if err != nil {
		return respondError(c, err)
	}

	result, err := h.service.List(q)
	if err != nil {
		return respondError(c, err)
	}
	return respondList(c, result.Books, result.Count, result.TotalPages, result.Page)
}

// HandleGet returns one book with its relations.
func (h *BookHandler) HandleGet(c *fiber.Ctx) error {
	book, err := h.service.Get(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, "", book)
}

// CreateBookRequest is the request body for listing a book. A supplied
// seller id would be ignored: the owner is always the caller.
type CreateBookRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=255"`
	Author      string  `json:"author" validate:"required,min=1,max=100"`
	ISBN        string  `json:"isbn"`
	Edition     string  `json:"edition"`
	Condition   string  `json:"condition"`
	Price       float64 `json:"price" validate:"gte=0"`
	Quantity    *int    `json:"quantity"`
	CategoryID  *string `json:"category_id"`
	Description string  `json:"description"`
}

// HandleCreate lists a new book owned by the caller.
func (h *BookHandler) HandleCreate(c *fiber.Ctx) error {
	var req CreateBookRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	book, err := h.service.Create(middleware.CurrentUser(c), services.CreateBookInput{
		Title:       req.Title,
		Author:      req.Author,
		ISBN:        req.ISBN,
		Edition:     req.Edition,
		Condition:   models.Condition(req.Condition),
		Price:       decimal.NewFromFloat(req.Price),
		Quantity:    req.Quantity,
		CategoryID:  req.CategoryID,
		Description: req.Description,
	})
	if err != nil {
		return respondError(c, err)
	}
	return respondCreated(c, "Book created successfully", book)
}

// UpdateBookRequest is the request body for partial book updates.
// Absent fields stay unchanged; an explicit zero quantity applies and
// drives availability.
type UpdateBookRequest struct {
	Title       *string  `json:"title"`
	Author      *string  `json:"author"`
	ISBN        *string  `json:"isbn"`
	Edition     *string  `json:"edition"`
	Condition   *string  `json:"condition"`
	Price       *float64 `json:"price"`
	Quantity    *int     `json:"quantity"`
	CategoryID  *string  `json:"category_id"`
	Description *string  `json:"description"`
}

// HandleUpdate applies a partial update under owner-or-admin rules.
func (h *BookHandler) HandleUpdate(c *fiber.Ctx) error {
	var req UpdateBookRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadRequest(c, "Invalid request body")
	}

	patch := services.BookPatch{
		Title:       req.Title,
		Author:      req.Author,
		ISBN:        req.ISBN,
		Edition:     req.Edition,
		Quantity:    req.Quantity,
		CategoryID:  req.CategoryID,
		Description: req.Description,
	}
	if req.Condition != nil {
		condition := models.Condition(*req.Condition)
		patch.Condition = &condition
	}
	if req.Price != nil {
		price := decimal.NewFromFloat(*req.Price)
		patch.Price = &price
	}

	book, err := h.service.Update(middleware.CurrentUser(c), c.Params("id"), patch)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, "Book updated successfully", book)
}

// HandleDelete removes a book under owner-or-admin rules.
func (h *BookHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Delete(middleware.CurrentUser(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return respondOK(c, "Book deleted successfully", nil)
}

// HandleMyBooks returns the caller's own books, including unavailable
// ones.
func (h *BookHandler) HandleMyBooks(c *fiber.Ctx) error {
	books, err := h.service.ListMine(middleware.CurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return respondCount(c, books, int64(len(books)))
}

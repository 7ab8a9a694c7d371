package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"bookbazaar/internal/middleware"
	"bookbazaar/internal/models"
	"bookbazaar/internal/services"
)

// CategoryHandler handles HTTP requests for categories.
type CategoryHandler struct {
	service  *services.CategoryService
	validate *validator.Validate
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(service *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the category routes. Reads are public,
// writes are admin-only.
func (h *CategoryHandler) RegisterRoutes(router fiber.Router, protect fiber.Handler) {
	categories := router.Group("/categories")
	categories.Get("/", h.HandleList)
	categories.Get("/:id", h.HandleGet)
	categories.Post("/", protect, middleware.RequireRoles(models.RoleAdmin), h.HandleCreate)
	categories.Put("/:id", protect, middleware.RequireRoles(models.RoleAdmin), h.HandleUpdate)
	categories.Delete("/:id", protect, middleware.RequireRoles(models.RoleAdmin), h.HandleDelete)
}

// HandleList returns every category ordered by name.
func (h *CategoryHandler) HandleList(c *fiber.Ctx) error {
	categories, err := h.service.List()
	if err != nil {
		return respondError(c, err)
	}
	return respondCount(c, categories, int64(len(categories)))
}

// HandleGet returns one category with its available books and notes.
func (h *CategoryHandler) HandleGet(c *fiber.Ctx) error {
	category, err := h.service.Get(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, "", category)
}

// CategoryRequest is the request body for creating a category.
type CategoryRequest struct {
	Name        string `json:"category_name" validate:"required,min=2,max=100"`
	Description string `json:"description"`
}

// HandleCreate adds a new category.
func (h *CategoryHandler) HandleCreate(c *fiber.Ctx) error {
	var req CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	category, err := h.service.Create(middleware.CurrentUser(c), req.Name, req.Description)
	if err != nil {
		return respondError(c, err)
	}
	return respondCreated(c, "Category created successfully", category)
}

// UpdateCategoryRequest is the request body for partial category
// updates.
type UpdateCategoryRequest struct {
	Name        *string `json:"category_name"`
	Description *string `json:"description"`
}

// HandleUpdate applies a partial update to a category.
func (h *CategoryHandler) HandleUpdate(c *fiber.Ctx) error {
	var req UpdateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadRequest(c, "Invalid request body")
	}

	category, err := h.service.Update(middleware.CurrentUser(c), c.Params("id"), services.CategoryPatch{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, "Category updated successfully", category)
}

// HandleDelete removes a category; listings referencing it keep their
// entries with the category cleared.
func (h *CategoryHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Delete(middleware.CurrentUser(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return respondOK(c, "Category deleted successfully", nil)
}

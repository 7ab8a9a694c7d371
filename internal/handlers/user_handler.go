package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"bookbazaar/internal/middleware"
	"bookbazaar/internal/services"
)

// UserHandler handles the administrative user surface.
type UserHandler struct {
	service  *services.UserService
	validate *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the user admin routes. Everything requires a
// session; per-operation access rules live in the service.
func (h *UserHandler) RegisterRoutes(router fiber.Router, protect fiber.Handler) {
	users := router.Group("/users", protect)
	users.Get("/", h.HandleList)
	users.Get("/:id", h.HandleGet)
	users.Put("/:id/roles", h.HandleUpdateRoles)
	users.Put("/:id/deactivate", h.HandleDeactivate)
}

// HandleList returns every user. Admin only.
func (h *UserHandler) HandleList(c *fiber.Ctx) error {
	users, err := h.service.List(middleware.CurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return respondCount(c, users, int64(len(users)))
}

// HandleGet returns one user. Callers may fetch themselves; admins may
// fetch anyone.
func (h *UserHandler) HandleGet(c *fiber.Ctx) error {
	user, err := h.service.Get(middleware.CurrentUser(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, "", user)
}

// UpdateRolesRequest is the request body for replacing a user's roles.
type UpdateRolesRequest struct {
	Roles []string `json:"roles" validate:"required,min=1,dive,oneof=buyer seller admin"`
}

// HandleUpdateRoles replaces a user's role set. Admin only.
func (h *UserHandler) HandleUpdateRoles(c *fiber.Ctx) error {
	var req UpdateRolesRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	user, err := h.service.UpdateRoles(middleware.CurrentUser(c), c.Params("id"), req.Roles)
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, "User roles updated successfully", user)
}

// HandleDeactivate soft-disables a user. Admin only.
func (h *UserHandler) HandleDeactivate(c *fiber.Ctx) error {
	user, err := h.service.Deactivate(middleware.CurrentUser(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, "User deactivated successfully", user)
}

package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"bookbazaar/internal/middleware"
	"bookbazaar/internal/services"
)

// AuthHandler handles HTTP requests for authentication and the
// caller's own account.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the authentication routes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, protect fiber.Handler) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Get("/me", protect, h.HandleMe)
	authRoutes.Put("/profile", protect, h.HandleUpdateProfile)
	authRoutes.Put("/change-password", protect, h.HandleChangePassword)
}

// RegisterRequest is the request body for registration.
type RegisterRequest struct {
	Name         string   `json:"name" validate:"required,min=2,max=100"`
	Phone        string   `json:"phone" validate:"required"`
	Address      string   `json:"address"`
	ContactEmail string   `json:"contact_email" validate:"required,email"`
	Password     string   `json:"password" validate:"required,min=6"`
	Roles        []string `json:"roles" validate:"omitempty,dive,oneof=buyer seller admin"`
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	user, token, err := h.authService.Register(services.RegisterInput{
		Name:     req.Name,
		Phone:    req.Phone,
		Address:  req.Address,
		Email:    req.ContactEmail,
		Password: req.Password,
		Roles:    req.Roles,
	})
	if err != nil {
		return respondError(c, err)
	}

	return respondCreated(c, "User registered successfully", fiber.Map{
		"user":  user,
		"token": token,
		"roles": user.Roles,
	})
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	ContactEmail string `json:"contact_email" validate:"required,email"`
	Password     string `json:"password" validate:"required"`
}

// HandleLogin handles user login and issues a session token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	user, token, err := h.authService.Login(req.ContactEmail, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	return respondOK(c, "Login successful", fiber.Map{
		"user":  user,
		"token": token,
		"roles": user.Roles,
	})
}

// HandleMe returns the authenticated caller.
func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	return respondOK(c, "", middleware.CurrentUser(c))
}

// ProfileRequest is the request body for profile updates; absent
// fields stay unchanged.
type ProfileRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// HandleUpdateProfile applies a partial profile update to the caller.
func (h *AuthHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	var req ProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadRequest(c, "Invalid request body")
	}

	caller := middleware.CurrentUser(c)
	user, err := h.authService.UpdateProfile(caller.ID, services.ProfilePatch{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, "Profile updated successfully", user)
}

// ChangePasswordRequest is the request body for password changes.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

// HandleChangePassword verifies the current password and stores the
// new one.
func (h *AuthHandler) HandleChangePassword(c *fiber.Ctx) error {
	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	caller := middleware.CurrentUser(c)
	if err := h.authService.ChangePassword(caller.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return respondError(c, err)
	}
	return respondOK(c, "Password changed successfully", nil)
}

package handlers

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"bookbazaar/internal/domain"
)

// Response is the API envelope shared by every endpoint.
type Response struct {
	Success     bool        `json:"success"`
	Message     string      `json:"message,omitempty"`
	Data        interface{} `json:"data,omitempty"`
	Count       *int64      `json:"count,omitempty"`
	TotalPages  *int        `json:"totalPages,omitempty"`
	CurrentPage *int        `json:"currentPage,omitempty"`
}

func respondOK(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(Response{Success: true, Message: message, Data: data})
}

func respondCreated(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(Response{Success: true, Message: message, Data: data})
}

func respondList(c *fiber.Ctx, data interface{}, count int64, totalPages, currentPage int) error {
	return c.JSON(Response{
		Success:     true,
		Data:        data,
		Count:       &count,
		TotalPages:  &totalPages,
		CurrentPage: &currentPage,
	})
}

func respondCount(c *fiber.Ctx, data interface{}, count int64) error {
	return c.JSON(Response{Success: true, Data: data, Count: &count})
}

// respondError maps the domain error taxonomy onto HTTP statuses.
// Unexpected errors become an opaque 500; details go to the log only.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "Internal server error"

	switch {
	case domain.IsValidation(err):
		status = fiber.StatusBadRequest
		message = err.Error()
	case errors.Is(err, domain.ErrDuplicateEmail):
		status = fiber.StatusBadRequest
		message = err.Error()
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrAccountDeactivated),
		errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrExpiredToken):
		status = fiber.StatusUnauthorized
		message = err.Error()
	case errors.Is(err, domain.ErrForbidden):
		status = fiber.StatusForbidden
		message = "Not authorized to perform this action"
	case errors.Is(err, domain.ErrNotFound):
		status = fiber.StatusNotFound
		message = "Resource not found"
	default:
		log.Error().Err(err).Str("path", c.Path()).Msg("unexpected error")
	}

	return c.Status(status).JSON(Response{Success: false, Message: message})
}

// respondBadRequest reports a malformed request body.
func respondBadRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(Response{Success: false, Message: message})
}

// respondValidation reports request DTO validation failures with a
// per-field breakdown.
func respondValidation(c *fiber.Ctx, err error) error {
	fields := make(map[string]string)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, e := range verrs {
			fields[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": "Validation failed",
		"errors":  fields,
	})
}

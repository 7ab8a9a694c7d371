package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"bookbazaar/internal/models"
	"bookbazaar/internal/services"
)

const userContextKey = "current_user"

// bearerToken extracts the token from an Authorization header.
func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// AuthRequired verifies the bearer token and re-loads the referenced
// user from the store. The user must still exist and be active;
// downstream role checks see the live role set, not the token claims.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Not authorized to access this route. Please login.",
			})
		}

		user, err := authService.ResolveUser(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Invalid or expired token",
			})
		}

		c.Locals(userContextKey, user)
		return c.Next()
	}
}

// RequireRoles rejects callers whose live role set does not intersect
// allowed (OR semantics). Must run after AuthRequired.
func RequireRoles(allowed ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Not authorized to access this route. Please login.",
			})
		}
		if !user.Roles.HasAny(allowed...) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"message": "User roles are not authorized to access this route",
			})
		}
		return c.Next()
	}
}

// OptionalAuth resolves the caller when a valid token is present but
// never rejects the request; anonymous callers simply stay anonymous.
func OptionalAuth(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token := bearerToken(c); token != "" {
			if user, err := authService.ResolveUser(token); err == nil {
				c.Locals(userContextKey, user)
			}
		}
		return c.Next()
	}
}

// CurrentUser returns the authenticated caller, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userContextKey).(*models.User)
	return user
}

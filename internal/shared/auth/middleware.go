package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// fiber locals keys where the middleware stores the authenticated identity
const (
	LocalsUserID = "auth_user_id"
	LocalsRole   = "auth_role"
)

const RoleAdmin = "admin"

// Middleware returns a fiber handler that requires a valid bearer token and
// injects the authenticated user id and role into the request locals
func Middleware(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "no token, authorization denied",
			})
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		claims, err := ValidateToken(secret, tokenStr)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "token is not valid",
			})
		}

		c.Locals(LocalsUserID, claims.UserID)
		c.Locals(LocalsRole, claims.Role)
		return c.Next()
	}
}

// RequireAdmin rejects the request when the authenticated role is not admin.
// Must run after Middleware
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if role, _ := c.Locals(LocalsRole).(string); role != RoleAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"message": "access denied",
			})
		}
		return c.Next()
	}
}

package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/cardledger/cardledger/internal/identity"
)

const userIDHeader = "x-user-id"

// UserAuth resolves the x-user-id header against the user store and
// attaches the caller's id and role to the request. The header is trusted
// to come from an upstream gateway; the middleware only verifies the user
// exists and is active.
func UserAuth(users identity.Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := strings.TrimSpace(c.Get(userIDHeader))
		if userID == "" {
			return fiber.NewError(http.StatusUnauthorized, "missing user ID in headers")
		}

		user, err := users.FindByID(c.UserContext(), userID)
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "invalid user ID")
		}
		if !user.IsActive {
			return fiber.NewError(http.StatusUnauthorized, "user is inactive")
		}

		c.Locals("user_id", user.ID)
		c.Locals("user_role", string(user.Role))
		return c.Next()
	}
}

package middleware

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/finquest/finquest/services"
	"github.com/finquest/finquest/utils"
)

const userIDKey = "user_id"

// AuthRequired validates the Authorization bearer token and stores the
// subject's user ID in the request context.
func AuthRequired(tokens *services.TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return utils.SendUnauthorized(c, "Missing authorization header")
		}

		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
			return utils.SendUnauthorized(c, "Invalid authorization header")
		}

		userID, err := tokens.Verify(token)
		if err != nil {
			slog.Debug("Auth required: token rejected", slog.String("error", err.Error()))
			return utils.SendUnauthorized(c, "Invalid or expired token")
		}

		c.Locals(userIDKey, userID)
		return c.Next()
	}
}

// UserID returns the authenticated subject set by AuthRequired.
func UserID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(userIDKey).(uuid.UUID)
	return id, ok
}

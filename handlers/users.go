package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/finquest/finquest/middleware"
	webmodels "github.com/finquest/finquest/models"
	"github.com/finquest/finquest/utils"
)

// GetProfile returns the authenticated user's profile with derived level.
func GetProfile(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := middleware.UserID(c)
		if !ok {
			return utils.SendUnauthorized(c, "Authentication required")
		}

		user, err := webApp.UserService.GetProfile(c.Context(), userID)
		if err != nil {
			return utils.MapServiceError(c, err)
		}
		return utils.SendSuccess(c, webmodels.NewUserResponse(user), "")
	}
}

// Leaderboard returns the top users ranked by XP.
func Leaderboard(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		users, err := webApp.UserService.Leaderboard(c.Context(), c.QueryInt("limit", 10))
		if err != nil {
			return utils.MapServiceError(c, err)
		}
		return utils.SendSuccess(c, webmodels.NewLeaderboard(users), "")
	}
}

// ListAchievements returns all achievement definitions.
func ListAchievements(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		achievements, err := webApp.UserService.ListAchievements(c.Context())
		if err != nil {
			return utils.MapServiceError(c, err)
		}
		return utils.SendSuccess(c, achievements, "")
	}
}

// ListUserAchievements returns the achievements the caller holds.
func ListUserAchievements(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := middleware.UserID(c)
		if !ok {
			return utils.SendUnauthorized(c, "Authentication required")
		}

		rows, err := webApp.UserService.ListUserAchievements(c.Context(), userID)
		if err != nil {
			return utils.MapServiceError(c, err)
		}
		return utils.SendSuccess(c, rows, "")
	}
}

// GrantAchievement grants the named achievement to the caller. Granting an
// achievement the caller already holds is a no-op.
func GrantAchievement(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := middleware.UserID(c)
		if !ok {
			return utils.SendUnauthorized(c, "Authentication required")
		}
		achievementID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return utils.SendBadRequest(c, "Invalid achievement id", nil)
		}

		if err := webApp.UserService.GrantAchievement(c.Context(), userID, achievementID); err != nil {
			return utils.MapServiceError(c, err)
		}
		return utils.SendSuccess(c, nil, "Achievement granted")
	}
}

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/finquest/finquest/middleware"
	webmodels "github.com/finquest/finquest/models"
	"github.com/finquest/finquest/utils"
)

// ListGames returns games filtered by optional type query.
func ListGames(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		games, err := webApp.GameService.ListByType(c.Context(), c.Query("type"))
		if err != nil {
			return utils.MapServiceError(c, err)
		}
		return utils.SendSuccess(c, games, "")
	}
}

// ListUncompletedGames returns games the caller has not completed yet.
func ListUncompletedGames(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := middleware.UserID(c)
		if !ok {
			return utils.SendUnauthorized(c, "Authentication required")
		}

		games, err := webApp.GameService.ListUncompleted(c.Context(), userID)
		if err != nil {
			return utils.MapServiceError(c, err)
		}
		return utils.SendSuccess(c, games, "")
	}
}

// ListStorylineGames returns the ordered storyline games.
func ListStorylineGames(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		games, err := webApp.GameService.ListStoryline(c.Context())
		if err != nil {
			return utils.MapServiceError(c, err)
		}
		return utils.SendSuccess(c, games, "")
	}
}

// RecordGamePlay stores a play; a completed play grants the game's rewards.
func RecordGamePlay(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := middleware.UserID(c)
		if !ok {
			return utils.SendUnauthorized(c, "Authentication required")
		}
		gameID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return utils.SendBadRequest(c, "Invalid game id", nil)
		}

		var req webmodels.GamePlayRequest
		if !utils.ParseAndValidate(c, &req) {
			return nil
		}

		if err := webApp.GameService.RecordPlay(c.Context(), userID, gameID, req.Completed); err != nil {
			return utils.MapServiceError(c, err)
		}
		return utils.SendSuccess(c, nil, "Play recorded")
	}
}

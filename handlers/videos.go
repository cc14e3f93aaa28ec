package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/finquest/finquest/middleware"
	"github.com/finquest/finquest/utils"
)

// ListVideos returns the educational video catalog.
func ListVideos(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		videos, err := webApp.VideoService.List(c.Context())
		if err != nil {
			return utils.MapServiceError(c, err)
		}
		return utils.SendSuccess(c, videos, "")
	}
}

// SaveVideo bookmarks a video for the caller.
func SaveVideo(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := middleware.UserID(c)
		if !ok {
			return utils.SendUnauthorized(c, "Authentication required")
		}
		videoID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return utils.SendBadRequest(c, "Invalid video id", nil)
		}

		if err := webApp.VideoService.Save(c.Context(), userID, videoID); err != nil {
			return utils.MapServiceError(c, err)
		}
		return utils.SendSuccess(c, nil, "Video saved")
	}
}

// ListSavedVideos returns the caller's bookmarked videos.
func ListSavedVideos(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := middleware.UserID(c)
		if !ok {
			return utils.SendUnauthorized(c, "Authentication required")
		}

		saved, err := webApp.VideoService.ListSaved(c.Context(), userID)
		if err != nil {
			return utils.MapServiceError(c, err)
		}
		return utils.SendSuccess(c, saved, "")
	}
}

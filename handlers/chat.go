package handlers

import (
	"github.com/gofiber/fiber/v2"

	webmodels "github.com/finquest/finquest/models"
	"github.com/finquest/finquest/utils"
)

// Chat proxies a tutoring question to the chat assistant.
func Chat(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req webmodels.ChatRequest
		if !utils.ParseAndValidate(c, &req) {
			return nil
		}

		reply, err := webApp.ChatService.Ask(c.Context(), req.Message)
		if err != nil {
			return utils.MapServiceError(c, err)
		}
		return utils.SendSuccess(c, webmodels.ChatResponse{Reply: reply}, "")
	}
}

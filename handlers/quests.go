package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	dbmodels "github.com/finquest/finquest/database/models"
	"github.com/finquest/finquest/middleware"
	webmodels "github.com/finquest/finquest/models"
	"github.com/finquest/finquest/utils"
)

// ListQuests returns quest definitions, optionally filtered by category.
func ListQuests(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		quests, err := webApp.QuestService.ListQuests(c.Context(),
			c.Query("category"), c.QueryInt("limit", 50), c.QueryInt("offset", 0))
		if err != nil {
			return utils.MapServiceError(c, err)
		}
		return utils.SendSuccess(c, quests, "")
	}
}

// GetQuest returns a single quest definition.
func GetQuest(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		questID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return utils.SendBadRequest(c, "Invalid quest id", nil)
		}

		quest, err := webApp.QuestService.GetQuest(c.Context(), questID)
		if err != nil {
			return utils.MapServiceError(c, err)
		}
		return utils.SendSuccess(c, quest, "")
	}
}

// StartQuest begins the quest for the caller, making it their current quest.
func StartQuest(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := middleware.UserID(c)
		if !ok {
			return utils.SendUnauthorized(c, "Authentication required")
		}
		questID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return utils.SendBadRequest(c, "Invalid quest id", nil)
		}

		uq, err := webApp.QuestService.Start(c.Context(), userID, questID)
		if err != nil {
			return utils.MapServiceError(c, err)
		}
		return utils.SendSuccess(c, webmodels.NewUserQuestResponse(uq), "Quest started")
	}
}

// UpdateQuestProgress stores the caller's progress; reaching 100 completes
// the quest and grants its rewards.
func UpdateQuestProgress(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := middleware.UserID(c)
		if !ok {
			return utils.SendUnauthorized(c, "Authentication required")
		}
		questID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return utils.SendBadRequest(c, "Invalid quest id", nil)
		}

		var req webmodels.ProgressUpdateRequest
		if !utils.ParseAndValidate(c, &req) {
			return nil
		}

		uq, err := webApp.QuestService.UpdateProgress(c.Context(), userID, questID, req.Progress)
		if err != nil {
			return utils.MapServiceError(c, err)
		}

		message := "Progress updated"
		if uq.Status == dbmodels.UserQuestStatusCompleted {
			message = "Quest completed"
		}
		return utils.SendSuccess(c, webmodels.NewUserQuestResponse(uq), message)
	}
}

// ListUserQuests returns the caller's progress rows, filterable by status.
func ListUserQuests(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := middleware.UserID(c)
		if !ok {
			return utils.SendUnauthorized(c, "Authentication required")
		}

		rows, err := webApp.QuestService.ListUserQuests(c.Context(), userID, c.Query("status"))
		if err != nil {
			return utils.MapServiceError(c, err)
		}
		return utils.SendSuccess(c, webmodels.NewUserQuestList(rows), "")
	}
}

// ListCompletedQuests returns the caller's completed quest rows.
func ListCompletedQuests(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := middleware.UserID(c)
		if !ok {
			return utils.SendUnauthorized(c, "Authentication required")
		}

		rows, err := webApp.QuestService.ListCompleted(c.Context(), userID)
		if err != nil {
			return utils.MapServiceError(c, err)
		}
		return utils.SendSuccess(c, webmodels.NewUserQuestList(rows), "")
	}
}

// CreateQuest adds a quest definition.
func CreateQuest(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req webmodels.QuestCreateRequest
		if !utils.ParseAndValidate(c, &req) {
			return nil
		}

		quest := &dbmodels.Quest{
			Title:               req.Title,
			Description:         req.Description,
			Category:            req.Category,
			Difficulty:          req.Difficulty,
			PositionX:           req.PositionX,
			PositionY:           req.PositionY,
			SequenceOrder:       req.SequenceOrder,
			PrerequisiteQuestID: req.PrerequisiteQuestID,
			XPReward:            req.XPReward,
			CoinReward:          req.CoinReward,
		}
		if err := webApp.QuestService.CreateQuest(c.Context(), quest); err != nil {
			return utils.MapServiceError(c, err)
		}
		return utils.SendCreated(c, quest, "Quest created")
	}
}

// UpdateQuest replaces a quest definition.
func UpdateQuest(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		questID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return utils.SendBadRequest(c, "Invalid quest id", nil)
		}

		var req webmodels.QuestUpdateRequest
		if !utils.ParseAndValidate(c, &req) {
			return nil
		}

		quest := &dbmodels.Quest{
			ID:                  questID,
			Title:               req.Title,
			Description:         req.Description,
			Category:            req.Category,
			Difficulty:          req.Difficulty,
			PositionX:           req.PositionX,
			PositionY:           req.PositionY,
			SequenceOrder:       req.SequenceOrder,
			PrerequisiteQuestID: req.PrerequisiteQuestID,
			XPReward:            req.XPReward,
			CoinReward:          req.CoinReward,
			Status:              req.Status,
		}
		if quest.Status == "" {
			quest.Status = dbmodels.QuestStatusActive
		}
		if err := webApp.QuestService.UpdateQuest(c.Context(), quest); err != nil {
			return utils.MapServiceError(c, err)
		}
		return utils.SendSuccess(c, quest, "Quest updated")
	}
}

// DeleteQuest removes a quest definition.
func DeleteQuest(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		questID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return utils.SendBadRequest(c, "Invalid quest id", nil)
		}

		if err := webApp.QuestService.DeleteQuest(c.Context(), questID); err != nil {
			return utils.MapServiceError(c, err)
		}
		return utils.SendNoContent(c)
	}
}

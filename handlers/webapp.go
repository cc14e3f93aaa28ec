package handlers

import (
	"github.com/finquest/finquest/config"
	"github.com/finquest/finquest/database"
	"github.com/finquest/finquest/services"
)

// WebApp holds the dependencies every handler draws from.
type WebApp struct {
	Config       *config.Config
	DB           *database.DB
	AuthService  *services.AuthService
	QuestService *services.QuestService
	UserService  *services.UserService
	GameService  *services.GameService
	VideoService *services.VideoService
	ChatService  *services.ChatService
	Version      string
}

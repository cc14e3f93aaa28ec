package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Game struct {
	bun.BaseModel `bun:"table:games,alias:g"`

	ID          uuid.UUID `bun:"id,pk,type:uuid"`
	Name        string    `bun:"name,notnull"`
	Description string    `bun:"description"`
	IconURL     string    `bun:"icon_url"`
	GameType    string    `bun:"game_type,notnull"`
	Category    string    `bun:"category"`
	XPReward    int       `bun:"xp_reward,notnull,default:0"`
	CoinReward  int       `bun:"coin_reward,notnull,default:0"`

	// Storyline games carry a position in the quest narrative; zero for
	// standalone minigames.
	StorylineOrder int `bun:"storyline_order,notnull,default:0"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

const (
	GameTypeQuest    = "quest"
	GameTypeMinigame = "minigame"
)

// UserGame records a play of a game by a user.
type UserGame struct {
	bun.BaseModel `bun:"table:user_games,alias:ug"`

	ID        int64     `bun:"id,pk,autoincrement"`
	UserID    uuid.UUID `bun:"user_id,notnull,type:uuid"`
	GameID    uuid.UUID `bun:"game_id,notnull,type:uuid"`
	Completed bool      `bun:"completed,notnull,default:false"`
	PlayedAt  time.Time `bun:"played_at,notnull,default:current_timestamp"`

	Game *Game `bun:"rel:belongs-to,join:game_id=id"`
}

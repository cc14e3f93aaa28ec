package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Quest struct {
	bun.BaseModel `bun:"table:quests,alias:q"`

	ID          uuid.UUID `bun:"id,pk,type:uuid"`
	Title       string    `bun:"title,notnull"`
	Description string    `bun:"description,notnull"`
	Category    string    `bun:"category,notnull"`
	Difficulty  int       `bun:"difficulty,notnull,default:1"`

	// Map layout coordinates, opaque to the progression engine.
	PositionX float64 `bun:"position_x,notnull,default:0"`
	PositionY float64 `bun:"position_y,notnull,default:0"`

	SequenceOrder       int        `bun:"sequence_order,notnull,default:0"`
	PrerequisiteQuestID *uuid.UUID `bun:"prerequisite_quest_id,type:uuid"`

	XPReward   int `bun:"xp_reward,notnull,default:20"`
	CoinReward int `bun:"coin_reward,notnull,default:15"`

	// Authoring-time flag, distinct from per-user progress.
	Status string `bun:"status,notnull,default:'active'"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

const (
	QuestStatusActive   = "active"
	QuestStatusInactive = "inactive"
)

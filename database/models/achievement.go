package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Achievement struct {
	bun.BaseModel `bun:"table:achievements,alias:a"`

	ID           uuid.UUID `bun:"id,pk,type:uuid"`
	Title        string    `bun:"title,notnull"`
	Description  string    `bun:"description"`
	IconURL      string    `bun:"icon_url"`
	RewardType   string    `bun:"reward_type,notnull"`
	RewardAmount int64     `bun:"reward_amount,notnull,default:0"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

const (
	RewardTypeXP    = "xp"
	RewardTypeCoins = "coins"
	RewardTypeBadge = "badge"
)

// UserAchievement records a grant, unique per (user, achievement).
type UserAchievement struct {
	bun.BaseModel `bun:"table:user_achievements,alias:ua"`

	UserID        uuid.UUID `bun:"user_id,pk,type:uuid"`
	AchievementID uuid.UUID `bun:"achievement_id,pk,type:uuid"`
	AchievedAt    time.Time `bun:"achieved_at,notnull,default:current_timestamp"`

	Achievement *Achievement `bun:"rel:belongs-to,join:achievement_id=id"`
}

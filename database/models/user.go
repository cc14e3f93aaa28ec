package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           uuid.UUID `bun:"id,pk,type:uuid"`
	Username     string    `bun:"username,notnull,unique"`
	Email        string    `bun:"email,notnull,unique"`
	PasswordHash string    `bun:"password_hash,notnull"`
	AvatarURL    string    `bun:"avatar_url"`

	// Stats. Level is derived from XP at read time, never stored.
	XP            int64 `bun:"xp,notnull,default:0"`
	Coins         int64 `bun:"coins,notnull,default:0"`
	StreakCount   int   `bun:"streak_count,notnull,default:0"`
	LongestStreak int   `bun:"longest_streak,notnull,default:0"`

	LastCheckin *time.Time `bun:"last_checkin"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

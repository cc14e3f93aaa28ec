package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Video struct {
	bun.BaseModel `bun:"table:videos,alias:v"`

	ID              uuid.UUID `bun:"id,pk,type:uuid"`
	Title           string    `bun:"title,notnull"`
	URL             string    `bun:"url,notnull"`
	DurationSeconds int       `bun:"duration_seconds"`
	CreatedAt       time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

type UserSavedVideo struct {
	bun.BaseModel `bun:"table:user_saved_videos,alias:usv"`

	UserID  uuid.UUID `bun:"user_id,pk,type:uuid"`
	VideoID uuid.UUID `bun:"video_id,pk,type:uuid"`
	SavedAt time.Time `bun:"saved_at,notnull,default:current_timestamp"`

	Video *Video `bun:"rel:belongs-to,join:video_id=id"`
}

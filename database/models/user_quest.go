package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UserQuest tracks a single user's progress against a single quest.
// Transitions are one-directional: locked -> in_progress -> completed.
type UserQuest struct {
	bun.BaseModel `bun:"table:user_quests,alias:uq"`

	UserID  uuid.UUID `bun:"user_id,pk,type:uuid"`
	QuestID uuid.UUID `bun:"quest_id,pk,type:uuid"`

	Status   string `bun:"status,notnull,default:'locked'"`
	Progress int    `bun:"progress,notnull,default:0"`

	// At most one row per user carries is_current=true. Enforced by the
	// progress engine inside the start transaction, not by the schema.
	IsCurrent bool `bun:"is_current,notnull,default:false"`

	StartedAt   *time.Time `bun:"started_at"`
	CompletedAt *time.Time `bun:"completed_at"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`

	Quest *Quest `bun:"rel:belongs-to,join:quest_id=id"`
}

const (
	UserQuestStatusLocked     = "locked"
	UserQuestStatusInProgress = "in_progress"
	UserQuestStatusCompleted  = "completed"
)

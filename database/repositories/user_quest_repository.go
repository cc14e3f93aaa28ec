package repositories

import (
	"context"
	"log/slog"
	"time"

	"github.com/finquest/finquest/database/models"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type UserQuestRepository interface {
	Get(ctx context.Context, userID, questID uuid.UUID) (*models.UserQuest, error)
	// List returns a user's quest progress rows, newest started first,
	// optionally filtered by status.
	List(ctx context.Context, userID uuid.UUID, status string) ([]*models.UserQuest, error)

	// GetForUpdate loads the row under a row-level lock so concurrent
	// transitions on the same (user, quest) serialize.
	GetForUpdate(ctx context.Context, db bun.IDB, userID, questID uuid.UUID) (*models.UserQuest, error)
	// ClearCurrent drops the is_current flag from every row of the user.
	ClearCurrent(ctx context.Context, db bun.IDB, userID uuid.UUID) error
	Upsert(ctx context.Context, db bun.IDB, uq *models.UserQuest) error
	SetProgress(ctx context.Context, db bun.IDB, userID, questID uuid.UUID, progress int) error
	// Complete performs the guarded transition into completed. It returns
	// false when the row was not in_progress anymore, which callers treat
	// as "someone else already completed it" and must not grant rewards.
	Complete(ctx context.Context, db bun.IDB, userID, questID uuid.UUID, at time.Time) (bool, error)
}

type userQuestRepository struct {
	db *bun.DB
}

func NewUserQuestRepository(db *bun.DB) UserQuestRepository {
	return &userQuestRepository{db: db}
}

func (r *userQuestRepository) Get(ctx context.Context, userID, questID uuid.UUID) (*models.UserQuest, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	uq := new(models.UserQuest)
	err := r.db.NewSelect().
		Model(uq).
		Relation("Quest").
		Where("uq.user_id = ? AND uq.quest_id = ?", userID, questID).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return uq, nil
}

func (r *userQuestRepository) List(ctx context.Context, userID uuid.UUID, status string) ([]*models.UserQuest, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var rows []*models.UserQuest
	q := r.db.NewSelect().
		Model(&rows).
		Relation("Quest").
		Where("uq.user_id = ?", userID).
		Order("uq.started_at DESC NULLS LAST")
	if status != "" {
		q = q.Where("uq.status = ?", status)
	}
	err := q.Scan(ctx)
	if err != nil {
		slog.Error("Failed to list user quests",
			slog.String("type", "db"),
			slog.String("operation", "List"),
			slog.String("user_id", userID.String()),
			slog.Any("error", err))
		return nil, err
	}
	return rows, nil
}

func (r *userQuestRepository) GetForUpdate(ctx context.Context, db bun.IDB, userID, questID uuid.UUID) (*models.UserQuest, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	uq := new(models.UserQuest)
	err := db.NewSelect().
		Model(uq).
		Where("user_id = ? AND quest_id = ?", userID, questID).
		For("UPDATE").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return uq, nil
}

func (r *userQuestRepository) ClearCurrent(ctx context.Context, db bun.IDB, userID uuid.UUID) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := db.NewUpdate().
		Model((*models.UserQuest)(nil)).
		Set("is_current = FALSE").
		Set("updated_at = ?", time.Now()).
		Where("user_id = ? AND is_current = TRUE", userID).
		Exec(ctx)
	return err
}

func (r *userQuestRepository) Upsert(ctx context.Context, db bun.IDB, uq *models.UserQuest) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	now := time.Now()
	if uq.CreatedAt.IsZero() {
		uq.CreatedAt = now
	}
	uq.UpdatedAt = now
	_, err := db.NewInsert().
		Model(uq).
		On("CONFLICT (user_id, quest_id) DO UPDATE").
		Set("status = EXCLUDED.status").
		Set("progress = EXCLUDED.progress").
		Set("is_current = EXCLUDED.is_current").
		Set("started_at = EXCLUDED.started_at").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

func (r *userQuestRepository) SetProgress(ctx context.Context, db bun.IDB, userID, questID uuid.UUID, progress int) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := db.NewUpdate().
		Model((*models.UserQuest)(nil)).
		Set("progress = ?", progress).
		Set("updated_at = ?", time.Now()).
		Where("user_id = ? AND quest_id = ?", userID, questID).
		Exec(ctx)
	return err
}

func (r *userQuestRepository) Complete(ctx context.Context, db bun.IDB, userID, questID uuid.UUID, at time.Time) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := db.NewUpdate().
		Model((*models.UserQuest)(nil)).
		Set("status = ?", models.UserQuestStatusCompleted).
		Set("progress = 100").
		Set("is_current = FALSE").
		Set("completed_at = ?", at).
		Set("updated_at = ?", at).
		Where("user_id = ? AND quest_id = ?", userID, questID).
		Where("status = ?", models.UserQuestStatusInProgress).
		Exec(ctx)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

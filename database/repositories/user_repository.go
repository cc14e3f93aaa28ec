package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/finquest/finquest/database/models"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetByIdentifier matches either the username or the email column.
	// Both are unique, so at most one row can match.
	GetByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	GetTopByXP(ctx context.Context, limit int) ([]*models.User, error)

	// IncrementStats applies xp/coin deltas with an atomic in-database add.
	IncrementStats(ctx context.Context, db bun.IDB, id uuid.UUID, xpDelta, coinsDelta int64) error
	// TouchStreak advances the daily check-in streak. The row is locked for
	// the duration so concurrent check-ins for the same user serialize.
	TouchStreak(ctx context.Context, db bun.IDB, id uuid.UUID, now time.Time) error
}

type userRepository struct {
	db *bun.DB
}

func NewUserRepository(db *bun.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	_, err := r.db.NewInsert().Model(user).Exec(ctx)
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	user := new(models.User)
	err := r.db.NewSelect().
		Model(user).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	user := new(models.User)
	err := r.db.NewSelect().
		Model(user).
		Where("email = ?", email).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) GetByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	user := new(models.User)
	err := r.db.NewSelect().
		Model(user).
		Where("username = ?", identifier).
		WhereOr("email = lower(?)", identifier).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) GetTopByXP(ctx context.Context, limit int) ([]*models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var users []*models.User
	err := r.db.NewSelect().
		Model(&users).
		Order("xp DESC").
		Limit(limit).
		Scan(ctx)
	return users, err
}

func (r *userRepository) IncrementStats(ctx context.Context, db bun.IDB, id uuid.UUID, xpDelta, coinsDelta int64) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	start := time.Now()
	res, err := db.NewUpdate().
		Model((*models.User)(nil)).
		Set("xp = xp + ?", xpDelta).
		Set("coins = coins + ?", coinsDelta).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		slog.Error("Failed to increment user stats",
			slog.String("type", "db"),
			slog.String("operation", "IncrementStats"),
			slog.String("user_id", id.String()),
			slog.Any("error", err))
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("user %s: %w", id, sql.ErrNoRows)
	}

	slog.Debug("Incremented user stats",
		slog.String("type", "db"),
		slog.String("operation", "IncrementStats"),
		slog.String("user_id", id.String()),
		slog.Int64("xp_delta", xpDelta),
		slog.Int64("coins_delta", coinsDelta),
		slog.Duration("took", time.Since(start)))
	return nil
}

func (r *userRepository) TouchStreak(ctx context.Context, db bun.IDB, id uuid.UUID, now time.Time) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	user := new(models.User)
	err := db.NewSelect().
		Model(user).
		Where("id = ?", id).
		For("UPDATE").
		Scan(ctx)
	if err != nil {
		return err
	}

	today := now.Truncate(24 * time.Hour)
	switch {
	case user.LastCheckin == nil:
		user.StreakCount = 1
	case user.LastCheckin.Truncate(24 * time.Hour).Equal(today):
		// Already checked in today.
		return nil
	case user.LastCheckin.Truncate(24 * time.Hour).Equal(today.AddDate(0, 0, -1)):
		user.StreakCount++
	default:
		user.StreakCount = 1
	}
	if user.StreakCount > user.LongestStreak {
		user.LongestStreak = user.StreakCount
	}

	_, err = db.NewUpdate().
		Model((*models.User)(nil)).
		Set("streak_count = ?", user.StreakCount).
		Set("longest_streak = ?", user.LongestStreak).
		Set("last_checkin = ?", now).
		Set("updated_at = ?", now).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

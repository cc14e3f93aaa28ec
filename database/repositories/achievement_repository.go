package repositories

import (
	"context"
	"time"

	"github.com/finquest/finquest/database/models"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type AchievementRepository interface {
	Create(ctx context.Context, achievement *models.Achievement) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Achievement, error)
	List(ctx context.Context) ([]*models.Achievement, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.UserAchievement, error)

	// Grant inserts the (user, achievement) record if absent. Returns false
	// when the grant already existed, so callers can keep reward application
	// idempotent.
	Grant(ctx context.Context, db bun.IDB, userID, achievementID uuid.UUID, at time.Time) (bool, error)
}

type achievementRepository struct {
	db *bun.DB
}

func NewAchievementRepository(db *bun.DB) AchievementRepository {
	return &achievementRepository{db: db}
}

func (r *achievementRepository) Create(ctx context.Context, achievement *models.Achievement) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if achievement.ID == uuid.Nil {
		achievement.ID = uuid.New()
	}
	achievement.CreatedAt = time.Now()
	_, err := r.db.NewInsert().Model(achievement).Exec(ctx)
	return err
}

func (r *achievementRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Achievement, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	achievement := new(models.Achievement)
	err := r.db.NewSelect().
		Model(achievement).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return achievement, nil
}

func (r *achievementRepository) List(ctx context.Context) ([]*models.Achievement, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var achievements []*models.Achievement
	err := r.db.NewSelect().
		Model(&achievements).
		Order("created_at ASC").
		Scan(ctx)
	return achievements, err
}

func (r *achievementRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.UserAchievement, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var rows []*models.UserAchievement
	err := r.db.NewSelect().
		Model(&rows).
		Relation("Achievement").
		Where("ua.user_id = ?", userID).
		Order("ua.achieved_at DESC").
		Scan(ctx)
	return rows, err
}

func (r *achievementRepository) Grant(ctx context.Context, db bun.IDB, userID, achievementID uuid.UUID, at time.Time) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	grant := &models.UserAchievement{
		UserID:        userID,
		AchievementID: achievementID,
		AchievedAt:    at,
	}
	res, err := db.NewInsert().
		Model(grant).
		On("CONFLICT (user_id, achievement_id) DO NOTHING").
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

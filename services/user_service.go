package services

import (
	"context"
	"database/sql"

	"github.com/finquest/finquest/database/models"
	"github.com/finquest/finquest/database/repositories"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UserService serves profiles, the XP leaderboard and achievement reads.
type UserService struct {
	db           TxRunner
	users        repositories.UserRepository
	achievements repositories.AchievementRepository
	rewards      *RewardService
}

func NewUserService(db TxRunner, users repositories.UserRepository, achievements repositories.AchievementRepository, rewards *RewardService) *UserService {
	return &UserService{
		db:           db,
		users:        users,
		achievements: achievements,
		rewards:      rewards,
	}
}

// GetProfile returns the user row for the authenticated subject.
func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, storeErr(err, ErrNotFound)
	}
	return user, nil
}

// Leaderboard returns the top users ordered by XP descending.
func (s *UserService) Leaderboard(ctx context.Context, limit int) ([]*models.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	users, err := s.users.GetTopByXP(ctx, limit)
	if err != nil {
		return nil, storeErr(err, ErrUnavailable)
	}
	return users, nil
}

// ListAchievements returns all achievement definitions.
func (s *UserService) ListAchievements(ctx context.Context) ([]*models.Achievement, error) {
	achievements, err := s.achievements.List(ctx)
	if err != nil {
		return nil, storeErr(err, ErrUnavailable)
	}
	return achievements, nil
}

// ListUserAchievements returns the achievements the user holds.
func (s *UserService) ListUserAchievements(ctx context.Context, userID uuid.UUID) ([]*models.UserAchievement, error) {
	rows, err := s.achievements.ListForUser(ctx, userID)
	if err != nil {
		return nil, storeErr(err, ErrUnavailable)
	}
	return rows, nil
}

// GrantAchievement grants the achievement to the user, applying its reward
// exactly once. Safe to call repeatedly.
func (s *UserService) GrantAchievement(ctx context.Context, userID, achievementID uuid.UUID) error {
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		return s.rewards.GrantAchievementIfMissing(ctx, tx, userID, achievementID)
	})
	if err != nil {
		if inTaxonomy(err) {
			return err
		}
		return storeErr(err, ErrUnavailable)
	}
	return nil
}

package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/finquest/finquest/database/models"
	"github.com/finquest/finquest/database/repositories"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RewardService is the ledger applying XP/coin deltas and achievement grants.
// Mutating methods take a bun.IDB so callers can run them inside the same
// transaction as the state transition that earned the reward.
type RewardService struct {
	users        repositories.UserRepository
	achievements repositories.AchievementRepository
}

func NewRewardService(users repositories.UserRepository, achievements repositories.AchievementRepository) *RewardService {
	return &RewardService{
		users:        users,
		achievements: achievements,
	}
}

// GrantQuestRewards credits xp and coins in a single atomic in-database add.
func (s *RewardService) GrantQuestRewards(ctx context.Context, db bun.IDB, userID uuid.UUID, xp, coins int64) error {
	if xp < 0 || coins < 0 {
		return fmt.Errorf("%w: reward deltas must be non-negative", ErrInvalidState)
	}
	if err := s.users.IncrementStats(ctx, db, userID, xp, coins); err != nil {
		return storeErr(err, ErrNotFound)
	}

	slog.Info("Quest rewards granted",
		slog.String("user_id", userID.String()),
		slog.Int64("xp", xp),
		slog.Int64("coins", coins))
	return nil
}

// GrantAchievementIfMissing grants the achievement and applies its reward
// exactly once per (user, achievement). A repeated call is a no-op.
func (s *RewardService) GrantAchievementIfMissing(ctx context.Context, db bun.IDB, userID, achievementID uuid.UUID) error {
	achievement, err := s.achievements.GetByID(ctx, achievementID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: achievement %s", ErrNotFound, achievementID)
		}
		return storeErr(err, ErrNotFound)
	}

	granted, err := s.achievements.Grant(ctx, db, userID, achievementID, time.Now())
	if err != nil {
		return storeErr(err, ErrUnavailable)
	}
	if !granted {
		// Already held; reward was applied when the grant was first recorded.
		return nil
	}

	switch achievement.RewardType {
	case models.RewardTypeXP:
		err = s.users.IncrementStats(ctx, db, userID, achievement.RewardAmount, 0)
	case models.RewardTypeCoins:
		err = s.users.IncrementStats(ctx, db, userID, 0, achievement.RewardAmount)
	case models.RewardTypeBadge:
		// Badges carry no numeric reward; the grant record is the reward.
	default:
		return fmt.Errorf("%w: unknown reward type %q", ErrInvalidState, achievement.RewardType)
	}
	if err != nil {
		return storeErr(err, ErrUnavailable)
	}

	slog.Info("Achievement granted",
		slog.String("user_id", userID.String()),
		slog.String("achievement_id", achievementID.String()),
		slog.String("reward_type", achievement.RewardType))
	return nil
}

// CheckInStreak records daily activity for streak tracking inside the
// caller's transaction.
func (s *RewardService) CheckInStreak(ctx context.Context, db bun.IDB, userID uuid.UUID, now time.Time) error {
	if err := s.users.TouchStreak(ctx, db, userID, now); err != nil {
		return storeErr(err, ErrNotFound)
	}
	return nil
}

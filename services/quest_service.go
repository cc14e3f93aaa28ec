package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	lru "github.com/hashicorp/golang-lru"

	"github.com/finquest/finquest/database/models"
	"github.com/finquest/finquest/database/repositories"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// TxRunner is the transactional boundary the engine runs its atomic
// transitions under. *bun.DB satisfies it.
type TxRunner interface {
	RunInTx(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context, tx bun.Tx) error) error
}

const questCacheSize = 256

// QuestService owns the per-(user, quest) state machine:
// locked -> in_progress -> completed, with completion-triggered rewards.
type QuestService struct {
	db         TxRunner
	quests     repositories.QuestRepository
	userQuests repositories.UserQuestRepository
	rewards    *RewardService
	cache      *lru.Cache
}

func NewQuestService(db TxRunner, quests repositories.QuestRepository, userQuests repositories.UserQuestRepository, rewards *RewardService) *QuestService {
	cache, _ := lru.New(questCacheSize)
	return &QuestService{
		db:         db,
		quests:     quests,
		userQuests: userQuests,
		rewards:    rewards,
		cache:      cache,
	}
}

// GetQuest returns the quest definition, via the read cache.
func (s *QuestService) GetQuest(ctx context.Context, questID uuid.UUID) (*models.Quest, error) {
	if cached, ok := s.cache.Get(questID); ok {
		return cached.(*models.Quest), nil
	}

	quest, err := s.quests.GetByID(ctx, questID)
	if err != nil {
		return nil, storeErr(err, fmt.Errorf("%w: quest %s", ErrNotFound, questID))
	}
	s.cache.Add(questID, quest)
	return quest, nil
}

// ListQuests returns quest definitions with optional category filter.
func (s *QuestService) ListQuests(ctx context.Context, category string, limit, offset int) ([]*models.Quest, error) {
	quests, err := s.quests.List(ctx, category, limit, offset)
	if err != nil {
		return nil, storeErr(err, ErrUnavailable)
	}
	return quests, nil
}

// Start transitions the user's progress on the quest to in_progress. The
// quest must exist, be active, and have its prerequisite (if any) completed
// by this user. The started quest becomes the user's single current quest.
func (s *QuestService) Start(ctx context.Context, userID, questID uuid.UUID) (*models.UserQuest, error) {
	quest, err := s.GetQuest(ctx, questID)
	if err != nil {
		return nil, err
	}
	if quest.Status != models.QuestStatusActive {
		return nil, fmt.Errorf("%w: quest %s", ErrNotFound, questID)
	}

	// Prerequisite satisfaction is checked at start time only.
	if quest.PrerequisiteQuestID != nil {
		pre, err := s.userQuests.Get(ctx, userID, *quest.PrerequisiteQuestID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrPrerequisiteNotMet
			}
			return nil, storeErr(err, ErrPrerequisiteNotMet)
		}
		if pre.Status != models.UserQuestStatusCompleted {
			return nil, ErrPrerequisiteNotMet
		}
	}

	now := time.Now()
	var result *models.UserQuest
	err = s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		existing, err := s.userQuests.GetForUpdate(ctx, tx, userID, questID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}

		uq := &models.UserQuest{
			UserID:    userID,
			QuestID:   questID,
			Status:    models.UserQuestStatusInProgress,
			IsCurrent: true,
			StartedAt: &now,
		}
		if existing != nil {
			if existing.Status == models.UserQuestStatusCompleted {
				return fmt.Errorf("%w: quest already completed", ErrInvalidState)
			}
			uq.Progress = existing.Progress
			uq.CreatedAt = existing.CreatedAt
			if existing.StartedAt != nil {
				uq.StartedAt = existing.StartedAt
			}
		}

		if err := s.userQuests.ClearCurrent(ctx, tx, userID); err != nil {
			return err
		}
		if err := s.userQuests.Upsert(ctx, tx, uq); err != nil {
			return err
		}
		result = uq
		return nil
	})
	if err != nil {
		if inTaxonomy(err) {
			return nil, err
		}
		return nil, storeErr(err, ErrUnavailable)
	}

	slog.Info("Quest started",
		slog.String("user_id", userID.String()),
		slog.String("quest_id", questID.String()))
	return result, nil
}

// UpdateProgress clamps value to [0,100] and stores it. Reaching 100
// atomically transitions the quest to completed and grants the quest's
// rewards exactly once; the whole transition rolls back if any part of the
// reward grant fails.
func (s *QuestService) UpdateProgress(ctx context.Context, userID, questID uuid.UUID, value int) (*models.UserQuest, error) {
	quest, err := s.GetQuest(ctx, questID)
	if err != nil {
		return nil, err
	}

	clamped := value
	if clamped < 0 {
		clamped = 0
	}
	if clamped > 100 {
		clamped = 100
	}

	now := time.Now()
	var result *models.UserQuest
	err = s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		uq, err := s.userQuests.GetForUpdate(ctx, tx, userID, questID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: quest not started", ErrInvalidState)
			}
			return err
		}
		if uq.Status != models.UserQuestStatusInProgress {
			return fmt.Errorf("%w: quest is %s", ErrInvalidState, uq.Status)
		}

		if clamped < 100 {
			if err := s.userQuests.SetProgress(ctx, tx, userID, questID, clamped); err != nil {
				return err
			}
			uq.Progress = clamped
			uq.UpdatedAt = now
			result = uq
			return nil
		}

		// The guarded update only matches rows still in_progress, so two
		// racing completions cannot both reach the reward grant.
		completed, err := s.userQuests.Complete(ctx, tx, userID, questID, now)
		if err != nil {
			return err
		}
		if !completed {
			return fmt.Errorf("%w: quest already completed", ErrInvalidState)
		}

		if err := s.rewards.GrantQuestRewards(ctx, tx, userID, int64(quest.XPReward), int64(quest.CoinReward)); err != nil {
			return err
		}
		if err := s.rewards.CheckInStreak(ctx, tx, userID, now); err != nil {
			return err
		}

		uq.Status = models.UserQuestStatusCompleted
		uq.Progress = 100
		uq.IsCurrent = false
		uq.CompletedAt = &now
		uq.UpdatedAt = now
		result = uq
		return nil
	})
	if err != nil {
		if inTaxonomy(err) {
			return nil, err
		}
		return nil, storeErr(err, ErrUnavailable)
	}

	if result.Status == models.UserQuestStatusCompleted {
		slog.Info("Quest completed",
			slog.String("user_id", userID.String()),
			slog.String("quest_id", questID.String()),
			slog.Int("xp_reward", quest.XPReward),
			slog.Int("coin_reward", quest.CoinReward))
	}
	return result, nil
}

// ListUserQuests returns the user's progress rows, optionally filtered by a
// valid status value.
func (s *QuestService) ListUserQuests(ctx context.Context, userID uuid.UUID, status string) ([]*models.UserQuest, error) {
	switch status {
	case "", models.UserQuestStatusLocked, models.UserQuestStatusInProgress, models.UserQuestStatusCompleted:
	default:
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidState, status)
	}

	rows, err := s.userQuests.List(ctx, userID, status)
	if err != nil {
		return nil, storeErr(err, ErrUnavailable)
	}
	return rows, nil
}

// ListCompleted returns only the user's completed quests.
func (s *QuestService) ListCompleted(ctx context.Context, userID uuid.UUID) ([]*models.UserQuest, error) {
	return s.ListUserQuests(ctx, userID, models.UserQuestStatusCompleted)
}

// CreateQuest adds a quest definition, rejecting prerequisite cycles.
func (s *QuestService) CreateQuest(ctx context.Context, quest *models.Quest) error {
	if quest.ID == uuid.Nil {
		quest.ID = uuid.New()
	}
	if quest.Status == "" {
		quest.Status = models.QuestStatusActive
	}
	if err := s.validatePrerequisite(ctx, quest); err != nil {
		return err
	}
	if err := s.quests.Create(ctx, quest); err != nil {
		return storeErr(err, ErrUnavailable)
	}
	s.cache.Add(quest.ID, quest)
	return nil
}

// UpdateQuest updates a quest definition and invalidates the cache entry.
func (s *QuestService) UpdateQuest(ctx context.Context, quest *models.Quest) error {
	if err := s.validatePrerequisite(ctx, quest); err != nil {
		return err
	}
	found, err := s.quests.Update(ctx, quest)
	if err != nil {
		return storeErr(err, ErrUnavailable)
	}
	if !found {
		return fmt.Errorf("%w: quest %s", ErrNotFound, quest.ID)
	}
	s.cache.Remove(quest.ID)
	return nil
}

// DeleteQuest removes a quest definition.
func (s *QuestService) DeleteQuest(ctx context.Context, questID uuid.UUID) error {
	found, err := s.quests.Delete(ctx, questID)
	if err != nil {
		return storeErr(err, ErrUnavailable)
	}
	if !found {
		return fmt.Errorf("%w: quest %s", ErrNotFound, questID)
	}
	s.cache.Remove(questID)
	return nil
}

// validatePrerequisite walks the prerequisite chain and rejects self
// references and cycles; quests must form a DAG.
func (s *QuestService) validatePrerequisite(ctx context.Context, quest *models.Quest) error {
	if quest.PrerequisiteQuestID == nil {
		return nil
	}
	if *quest.PrerequisiteQuestID == quest.ID {
		return fmt.Errorf("%w: quest cannot be its own prerequisite", ErrConflict)
	}

	seen := map[uuid.UUID]bool{quest.ID: true}
	current := *quest.PrerequisiteQuestID
	for {
		if seen[current] {
			return fmt.Errorf("%w: prerequisite cycle through quest %s", ErrConflict, current)
		}
		seen[current] = true

		pre, err := s.quests.GetByID(ctx, current)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: prerequisite quest %s", ErrNotFound, current)
			}
			return storeErr(err, ErrUnavailable)
		}
		if pre.PrerequisiteQuestID == nil {
			return nil
		}
		current = *pre.PrerequisiteQuestID
	}
}

func inTaxonomy(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInvalidState) ||
		errors.Is(err, ErrPrerequisiteNotMet) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrUnavailable)
}

package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/finquest/finquest/database/models"
	"github.com/finquest/finquest/database/repositories"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// GameService serves the learning-game catalog and records plays.
type GameService struct {
	db      TxRunner
	games   repositories.GameRepository
	rewards *RewardService
}

func NewGameService(db TxRunner, games repositories.GameRepository, rewards *RewardService) *GameService {
	return &GameService{
		db:      db,
		games:   games,
		rewards: rewards,
	}
}

// ListByType returns games of the given type, or all games for "".
func (s *GameService) ListByType(ctx context.Context, gameType string) ([]*models.Game, error) {
	switch gameType {
	case "", models.GameTypeQuest, models.GameTypeMinigame:
	default:
		return nil, fmt.Errorf("%w: unknown game type %q", ErrInvalidState, gameType)
	}
	games, err := s.games.ListByType(ctx, gameType)
	if err != nil {
		return nil, storeErr(err, ErrUnavailable)
	}
	return games, nil
}

// ListUncompleted returns games the user has not yet completed.
func (s *GameService) ListUncompleted(ctx context.Context, userID uuid.UUID) ([]*models.Game, error) {
	games, err := s.games.ListUncompleted(ctx, userID)
	if err != nil {
		return nil, storeErr(err, ErrUnavailable)
	}
	return games, nil
}

// ListStoryline returns the ordered storyline games.
func (s *GameService) ListStoryline(ctx context.Context) ([]*models.Game, error) {
	games, err := s.games.ListStoryline(ctx)
	if err != nil {
		return nil, storeErr(err, ErrUnavailable)
	}
	return games, nil
}

// RecordPlay stores a play record; a completed play grants the game's
// rewards in the same transaction.
func (s *GameService) RecordPlay(ctx context.Context, userID, gameID uuid.UUID, completed bool) error {
	game, err := s.games.GetByID(ctx, gameID)
	if err != nil {
		return storeErr(err, fmt.Errorf("%w: game %s", ErrNotFound, gameID))
	}

	err = s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		play := &models.UserGame{
			UserID:    userID,
			GameID:    gameID,
			Completed: completed,
			PlayedAt:  time.Now(),
		}
		if err := s.games.RecordPlay(ctx, tx, play); err != nil {
			return err
		}
		if completed {
			return s.rewards.GrantQuestRewards(ctx, tx, userID, int64(game.XPReward), int64(game.CoinReward))
		}
		return nil
	})
	if err != nil {
		if inTaxonomy(err) {
			return err
		}
		return storeErr(err, ErrUnavailable)
	}
	return nil
}

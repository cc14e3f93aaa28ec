package repositories

import (
	"context"
	"time"

	"github.com/finquest/finquest/database/models"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type GameRepository interface {
	ListByType(ctx context.Context, gameType string) ([]*models.Game, error)
	// ListUncompleted returns games the user has no completed play for.
	ListUncompleted(ctx context.Context, userID uuid.UUID) ([]*models.Game, error)
	ListStoryline(ctx context.Context) ([]*models.Game, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Game, error)
	RecordPlay(ctx context.Context, db bun.IDB, play *models.UserGame) error
}

type gameRepository struct {
	db *bun.DB
}

func NewGameRepository(db *bun.DB) GameRepository {
	return &gameRepository{db: db}
}

func (r *gameRepository) ListByType(ctx context.Context, gameType string) ([]*models.Game, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var games []*models.Game
	q := r.db.NewSelect().Model(&games)
	if gameType != "" {
		q = q.Where("game_type = ?", gameType)
	}
	err := q.Order("name ASC").Scan(ctx)
	return games, err
}

func (r *gameRepository) ListUncompleted(ctx context.Context, userID uuid.UUID) ([]*models.Game, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var games []*models.Game
	err := r.db.NewSelect().
		Model(&games).
		Where("g.id NOT IN (SELECT game_id FROM user_games WHERE user_id = ? AND completed = TRUE)", userID).
		Order("g.name ASC").
		Scan(ctx)
	return games, err
}

func (r *gameRepository) ListStoryline(ctx context.Context) ([]*models.Game, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var games []*models.Game
	err := r.db.NewSelect().
		Model(&games).
		Where("game_type = ? AND storyline_order > 0", models.GameTypeQuest).
		Order("storyline_order ASC").
		Scan(ctx)
	return games, err
}

func (r *gameRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Game, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	game := new(models.Game)
	err := r.db.NewSelect().
		Model(game).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return game, nil
}

func (r *gameRepository) RecordPlay(ctx context.Context, db bun.IDB, play *models.UserGame) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if play.PlayedAt.IsZero() {
		play.PlayedAt = time.Now()
	}
	_, err := db.NewInsert().Model(play).Exec(ctx)
	return err
}

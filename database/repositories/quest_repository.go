package repositories

import (
	"context"
	"time"

	"github.com/finquest/finquest/database/models"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type QuestRepository interface {
	Create(ctx context.Context, quest *models.Quest) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Quest, error)
	List(ctx context.Context, category string, limit, offset int) ([]*models.Quest, error)
	Update(ctx context.Context, quest *models.Quest) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type questRepository struct {
	db *bun.DB
}

func NewQuestRepository(db *bun.DB) QuestRepository {
	return &questRepository{db: db}
}

func (r *questRepository) Create(ctx context.Context, quest *models.Quest) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if quest.ID == uuid.Nil {
		quest.ID = uuid.New()
	}
	quest.CreatedAt = time.Now()
	quest.UpdatedAt = time.Now()
	_, err := r.db.NewInsert().Model(quest).Exec(ctx)
	return err
}

func (r *questRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Quest, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	quest := new(models.Quest)
	err := r.db.NewSelect().
		Model(quest).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return quest, nil
}

func (r *questRepository) List(ctx context.Context, category string, limit, offset int) ([]*models.Quest, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var quests []*models.Quest
	q := r.db.NewSelect().
		Model(&quests).
		Order("sequence_order ASC", "title ASC")
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	err := q.Scan(ctx)
	return quests, err
}

func (r *questRepository) Update(ctx context.Context, quest *models.Quest) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	quest.UpdatedAt = time.Now()
	res, err := r.db.NewUpdate().
		Model(quest).
		WherePK().
		Exec(ctx)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *questRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.db.NewDelete().
		Model((*models.Quest)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

package repositories

import (
	"context"
	"time"

	"github.com/finquest/finquest/database/models"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type VideoRepository interface {
	List(ctx context.Context) ([]*models.Video, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Video, error)
	// Save marks a video as saved by the user; saving twice is a no-op.
	Save(ctx context.Context, userID, videoID uuid.UUID) error
	ListSaved(ctx context.Context, userID uuid.UUID) ([]*models.UserSavedVideo, error)
}

type videoRepository struct {
	db *bun.DB
}

func NewVideoRepository(db *bun.DB) VideoRepository {
	return &videoRepository{db: db}
}

func (r *videoRepository) List(ctx context.Context) ([]*models.Video, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var videos []*models.Video
	err := r.db.NewSelect().
		Model(&videos).
		Order("created_at DESC").
		Scan(ctx)
	return videos, err
}

func (r *videoRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	video := new(models.Video)
	err := r.db.NewSelect().
		Model(video).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return video, nil
}

func (r *videoRepository) Save(ctx context.Context, userID, videoID uuid.UUID) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	saved := &models.UserSavedVideo{
		UserID:  userID,
		VideoID: videoID,
		SavedAt: time.Now(),
	}
	_, err := r.db.NewInsert().
		Model(saved).
		On("CONFLICT (user_id, video_id) DO NOTHING").
		Exec(ctx)
	return err
}

func (r *videoRepository) ListSaved(ctx context.Context, userID uuid.UUID) ([]*models.UserSavedVideo, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var rows []*models.UserSavedVideo
	err := r.db.NewSelect().
		Model(&rows).
		Relation("Video").
		Where("usv.user_id = ?", userID).
		Order("usv.saved_at DESC").
		Scan(ctx)
	return rows, err
}

package services

import (
	"context"
	"fmt"

	"github.com/finquest/finquest/database/models"
	"github.com/finquest/finquest/database/repositories"
	"github.com/google/uuid"
)

// VideoService serves the educational video catalog and per-user saved lists.
type VideoService struct {
	videos repositories.VideoRepository
}

func NewVideoService(videos repositories.VideoRepository) *VideoService {
	return &VideoService{videos: videos}
}

// List returns all videos.
func (s *VideoService) List(ctx context.Context) ([]*models.Video, error) {
	videos, err := s.videos.List(ctx)
	if err != nil {
		return nil, storeErr(err, ErrUnavailable)
	}
	return videos, nil
}

// Save bookmarks the video for the user. Saving twice is a no-op.
func (s *VideoService) Save(ctx context.Context, userID, videoID uuid.UUID) error {
	if _, err := s.videos.GetByID(ctx, videoID); err != nil {
		return storeErr(err, fmt.Errorf("%w: video %s", ErrNotFound, videoID))
	}
	if err := s.videos.Save(ctx, userID, videoID); err != nil {
		return storeErr(err, ErrUnavailable)
	}
	return nil
}

// ListSaved returns the user's bookmarked videos.
func (s *VideoService) ListSaved(ctx context.Context, userID uuid.UUID) ([]*models.UserSavedVideo, error) {
	saved, err := s.videos.ListSaved(ctx, userID)
	if err != nil {
		return nil, storeErr(err, ErrUnavailable)
	}
	return saved, nil
}

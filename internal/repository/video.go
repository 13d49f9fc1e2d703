package repository

import (
	"context"

	"github.com/videotube/backend/internal/model"
	ctxutil "github.com/videotube/backend/pkg/context"
	"github.com/videotube/backend/pkg/logger"
	"gorm.io/gorm"
)

type VideoRepository struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

// GetByIDs loads videos with their owners. The result order is whatever the
// store returns; callers reorder against their reference list.
func (r *VideoRepository) GetByIDs(ctx context.Context, ids []uint) ([]model.Video, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetByIDs")

	if len(ids) == 0 {
		return nil, nil
	}

	var videos []model.Video
	result := r.db.WithContext(ctx).
		Preload("Owner").
		Where("id IN ?", ids).
		Find(&videos)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to fetch videos").
			Int("requested", len(ids)).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	return videos, nil
}

package repository

import (
	"context"

	"github.com/videotube/backend/internal/model"
	ctxutil "github.com/videotube/backend/pkg/context"
	"github.com/videotube/backend/pkg/logger"
	"gorm.io/gorm"
)

// SubscriptionRepository reads the subscription edges; this service never
// writes them.
type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// CountSubscribers counts edges targeting the channel.
func (r *SubscriptionRepository) CountSubscribers(ctx context.Context, channelID uint) (int64, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "CountSubscribers")

	var count int64
	result := r.db.WithContext(ctx).
		Model(&model.Subscription{}).
		Where("channel_id = ?", channelID).
		Count(&count)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to count subscribers").
			Uint("channel_id", channelID).
			Err(result.Error).
			Log()
		return 0, result.Error
	}

	return count, nil
}

// CountSubscribedTo counts edges sourced from the user.
func (r *SubscriptionRepository) CountSubscribedTo(ctx context.Context, userID uint) (int64, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "CountSubscribedTo")

	var count int64
	result := r.db.WithContext(ctx).
		Model(&model.Subscription{}).
		Where("subscriber_id = ?", userID).
		Count(&count)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to count subscribed-to channels").
			Uint("user_id", userID).
			Err(result.Error).
			Log()
		return 0, result.Error
	}

	return count, nil
}

// IsSubscribed reports whether a viewer→channel edge exists.
func (r *SubscriptionRepository) IsSubscribed(ctx context.Context, subscriberID, channelID uint) (bool, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "IsSubscribed")

	var count int64
	result := r.db.WithContext(ctx).
		Model(&model.Subscription{}).
		Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		Count(&count)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to check subscription").
			Uint("subscriber_id", subscriberID).
			Uint("channel_id", channelID).
			Err(result.Error).
			Log()
		return false, result.Error
	}

	return count > 0, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/videotube/backend/internal/constants"
	"github.com/videotube/backend/internal/dto"
	apperrors "github.com/videotube/backend/internal/errors"
	ctxutil "github.com/videotube/backend/pkg/context"
	"github.com/videotube/backend/pkg/logger"
	"gorm.io/gorm"
)

// ChannelService serves the public channel profile and the per-user watch
// history.
type ChannelService struct {
	users    UserStore
	subs     SubscriptionStore
	videos   VideoStore
	cache    StatsCache
	statsTTL time.Duration
}

// NewChannelService wires the aggregation reads. cache may be nil, in which
// case subscriber counts are computed on every request.
func NewChannelService(users UserStore, subs SubscriptionStore, videos VideoStore, cache StatsCache, statsTTL time.Duration) *ChannelService {
	return &ChannelService{
		users:    users,
		subs:     subs,
		videos:   videos,
		cache:    cache,
		statsTTL: statsTTL,
	}
}

// GetChannelProfile returns the channel page for username as seen by viewerID.
// Subscriber counts may come from the cache; the viewer-specific IsSubscribed
// flag is always computed fresh.
func (s *ChannelService) GetChannelProfile(ctx context.Context, viewerID uint, username string) (*dto.ChannelProfileResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "GetChannelProfile")

	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "Username is missing")
	}

	channel, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrChannelNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	stats, err := s.channelStats(ctx, channel.ID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	isSubscribed, err := s.subs.IsSubscribed(ctx, viewerID, channel.ID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return &dto.ChannelProfileResponse{
		FullName:                 channel.FullName,
		Username:                 channel.Username,
		SubscribersCount:         stats.SubscribersCount,
		ChannelSubscribedToCount: stats.ChannelSubscribedToCount,
		IsSubscribed:             isSubscribed,
		Avatar:                   channel.Avatar,
		CoverImage:               channel.CoverImage,
		Email:                    channel.Email,
	}, nil
}

// channelStats returns the viewer-independent counters, going through the
// cache when one is configured. Cache failures degrade to a direct count.
func (s *ChannelService) channelStats(ctx context.Context, channelID uint) (*dto.ChannelStats, error) {
	key := fmt.Sprintf("%s%d", constants.CacheKeyChannelStats, channelID)

	if s.cache != nil {
		var cached dto.ChannelStats
		found, err := s.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			logger.WarnWithContext(ctx, "Channel stats cache read failed").
				Uint("channel_id", channelID).
				Err(err).
				Log()
		} else if found {
			return &cached, nil
		}
	}

	subscribers, err := s.subs.CountSubscribers(ctx, channelID)
	if err != nil {
		return nil, err
	}
	subscribedTo, err := s.subs.CountSubscribedTo(ctx, channelID)
	if err != nil {
		return nil, err
	}

	stats := &dto.ChannelStats{
		SubscribersCount:         subscribers,
		ChannelSubscribedToCount: subscribedTo,
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, stats, s.statsTTL); err != nil {
			logger.WarnWithContext(ctx, "Channel stats cache write failed").
				Uint("channel_id", channelID).
				Err(err).
				Log()
		}
	}

	return stats, nil
}

// GetWatchHistory resolves the user's stored video id list into full entries,
// preserving the stored order. Ids whose video no longer exists are skipped.
func (s *ChannelService) GetWatchHistory(ctx context.Context, userID uint) ([]dto.WatchHistoryEntry, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "GetWatchHistory")

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	ids := []uint(user.WatchHistory)
	videos, err := s.videos.GetByIDs(ctx, ids)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	byID := make(map[uint]*dto.WatchHistoryEntry, len(videos))
	for i := range videos {
		v := &videos[i]
		byID[v.ID] = &dto.WatchHistoryEntry{
			ID:          v.ID,
			VideoFile:   v.VideoFile,
			Thumbnail:   v.Thumbnail,
			Title:       v.Title,
			Description: v.Description,
			Duration:    v.Duration,
			Views:       v.Views,
			CreatedAt:   v.CreatedAt,
			Owner: dto.WatchHistoryOwner{
				FullName: v.Owner.FullName,
				Username: v.Owner.Username,
				Avatar:   v.Owner.Avatar,
			},
		}
	}

	entries := make([]dto.WatchHistoryEntry, 0, len(ids))
	for _, id := range ids {
		if entry, ok := byID[id]; ok {
			entries = append(entries, *entry)
		}
	}

	return entries, nil
}

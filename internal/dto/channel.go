package dto

import "time"

type ChannelProfileResponse struct {
	FullName                 string `json:"fullName"`
	Username                 string `json:"username"`
	SubscribersCount         int64  `json:"subscribersCount"`
	ChannelSubscribedToCount int64  `json:"channelSubscribedToCount"`
	IsSubscribed             bool   `json:"isSubscribed"`
	Avatar                   string `json:"avatar"`
	CoverImage               string `json:"coverImage,omitempty"`
	Email                    string `json:"email"`
}

// ChannelStats is the viewer-independent part of a channel profile; it is the
// unit cached in Redis.
type ChannelStats struct {
	SubscribersCount         int64 `json:"subscribersCount"`
	ChannelSubscribedToCount int64 `json:"channelSubscribedToCount"`
}

// WatchHistoryOwner is the owner projection nested in each history entry.
type WatchHistoryOwner struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

type WatchHistoryEntry struct {
	ID          uint              `json:"id"`
	VideoFile   string            `json:"videoFile"`
	Thumbnail   string            `json:"thumbnail"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Duration    float64           `json:"duration"`
	Views       int64             `json:"views"`
	CreatedAt   time.Time         `json:"createdAt"`
	Owner       WatchHistoryOwner `json:"owner"`
}

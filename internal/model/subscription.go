package model

import "gorm.io/gorm"

// Subscription is an edge from a subscriber to a channel. This service only
// reads these rows for aggregation; writes happen elsewhere.
type Subscription struct {
	gorm.Model
	SubscriberID uint `gorm:"column:subscriber_id;not null;uniqueIndex:idx_subscriptions_edge"`
	ChannelID    uint `gorm:"column:channel_id;not null;uniqueIndex:idx_subscriptions_edge"`
	Subscriber   User `gorm:"foreignKey:SubscriberID"`
	Channel      User `gorm:"foreignKey:ChannelID"`
}

package service

import (
	"context"
	"time"

	"github.com/videotube/backend/internal/model"
)

// Store interfaces consumed by the services. The gorm repositories satisfy
// them; tests substitute fakes.

type UserStore interface {
	GetByID(ctx context.Context, id uint) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByIdentifier(ctx context.Context, identifier string) (*model.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	Create(ctx context.Context, user *model.User) error
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error
	UpdatePassword(ctx context.Context, id uint, hashedPassword string) error
	SetRefreshToken(ctx context.Context, id uint, token string) error
	RotateRefreshToken(ctx context.Context, id uint, oldToken, newToken string) error
	ClearRefreshToken(ctx context.Context, id uint) error
}

type SubscriptionStore interface {
	CountSubscribers(ctx context.Context, channelID uint) (int64, error)
	CountSubscribedTo(ctx context.Context, userID uint) (int64, error)
	IsSubscribed(ctx context.Context, subscriberID, channelID uint) (bool, error)
}

type VideoStore interface {
	GetByIDs(ctx context.Context, ids []uint) ([]model.Video, error)
}

// MediaRelay uploads local temp files to the media host and deletes remote
// objects by URL.
type MediaRelay interface {
	Upload(ctx context.Context, localPath string) (string, error)
	Delete(ctx context.Context, fileURL string) error
}

// StatsCache is the slice of the redis client the channel service uses.
type StatsCache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/videotube/backend/internal/model"
	"gorm.io/gorm"
)

// In-memory fakes standing in for the gorm repositories, the media relay and
// the redis cache.

type fakeUserStore struct {
	users  map[uint]*model.User
	nextID uint
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uint]*model.User)}
}

func (f *fakeUserStore) add(user *model.User) *model.User {
	if user.ID == 0 {
		f.nextID++
		user.ID = f.nextID
	} else if user.ID > f.nextID {
		f.nextID = user.ID
	}
	f.users[user.ID] = user
	return user
}

func (f *fakeUserStore) GetByID(_ context.Context, id uint) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserStore) GetByIdentifier(_ context.Context, identifier string) (*model.User, error) {
	for _, u := range f.users {
		if u.Username == identifier || u.Email == identifier {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserStore) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	for _, u := range f.users {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) Create(_ context.Context, user *model.User) error {
	f.nextID++
	user.ID = f.nextID
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserStore) UpdateFields(_ context.Context, id uint, fields map[string]interface{}) error {
	u, ok := f.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for column, value := range fields {
		s, _ := value.(string)
		switch column {
		case "full_name":
			u.FullName = s
		case "email":
			u.Email = s
		case "avatar":
			u.Avatar = s
		case "cover_image":
			u.CoverImage = s
		case "password":
			u.Password = s
		case "refresh_token":
			u.RefreshToken = s
		default:
			return fmt.Errorf("unexpected column %q", column)
		}
	}
	return nil
}

func (f *fakeUserStore) UpdatePassword(ctx context.Context, id uint, hashedPassword string) error {
	return f.UpdateFields(ctx, id, map[string]interface{}{"password": hashedPassword})
}

func (f *fakeUserStore) SetRefreshToken(ctx context.Context, id uint, token string) error {
	return f.UpdateFields(ctx, id, map[string]interface{}{"refresh_token": token})
}

func (f *fakeUserStore) RotateRefreshToken(_ context.Context, id uint, oldToken, newToken string) error {
	u, ok := f.users[id]
	if !ok || u.RefreshToken != oldToken {
		return gorm.ErrRecordNotFound
	}
	u.RefreshToken = newToken
	return nil
}

func (f *fakeUserStore) ClearRefreshToken(ctx context.Context, id uint) error {
	return f.SetRefreshToken(ctx, id, "")
}

type fakeMedia struct {
	failPaths map[string]bool
	uploaded  []string
	deleted   []string
}

func newFakeMedia() *fakeMedia {
	return &fakeMedia{failPaths: make(map[string]bool)}
}

func (f *fakeMedia) Upload(_ context.Context, localPath string) (string, error) {
	if localPath == "" {
		return "", nil
	}
	if f.failPaths[localPath] {
		return "", fmt.Errorf("upload refused")
	}
	f.uploaded = append(f.uploaded, localPath)
	return "https://cdn.test/media/" + filepath.Base(localPath), nil
}

func (f *fakeMedia) Delete(_ context.Context, fileURL string) error {
	f.deleted = append(f.deleted, fileURL)
	return nil
}

type fakeSubscriptionStore struct {
	subscribers  map[uint]int64
	subscribedTo map[uint]int64
	edges        map[[2]uint]bool
	failCounts   bool
}

func newFakeSubscriptionStore() *fakeSubscriptionStore {
	return &fakeSubscriptionStore{
		subscribers:  make(map[uint]int64),
		subscribedTo: make(map[uint]int64),
		edges:        make(map[[2]uint]bool),
	}
}

func (f *fakeSubscriptionStore) CountSubscribers(_ context.Context, channelID uint) (int64, error) {
	if f.failCounts {
		return 0, fmt.Errorf("count query refused")
	}
	return f.subscribers[channelID], nil
}

func (f *fakeSubscriptionStore) CountSubscribedTo(_ context.Context, userID uint) (int64, error) {
	if f.failCounts {
		return 0, fmt.Errorf("count query refused")
	}
	return f.subscribedTo[userID], nil
}

func (f *fakeSubscriptionStore) IsSubscribed(_ context.Context, subscriberID, channelID uint) (bool, error) {
	return f.edges[[2]uint{subscriberID, channelID}], nil
}

type fakeVideoStore struct {
	videos map[uint]model.Video
}

func newFakeVideoStore() *fakeVideoStore {
	return &fakeVideoStore{videos: make(map[uint]model.Video)}
}

func (f *fakeVideoStore) GetByIDs(_ context.Context, ids []uint) ([]model.Video, error) {
	var out []model.Video
	for _, id := range ids {
		if v, ok := f.videos[id]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

type fakeStatsCache struct {
	data map[string][]byte
	sets int
	gets int
}

func newFakeStatsCache() *fakeStatsCache {
	return &fakeStatsCache{data: make(map[string][]byte)}
}

func (f *fakeStatsCache) GetJSON(_ context.Context, key string, dest any) (bool, error) {
	f.gets++
	raw, ok := f.data[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (f *fakeStatsCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	f.sets++
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.data[key] = raw
	return nil
}

package repository

import (
	"context"
	"time"

	"github.com/videotube/backend/internal/model"
	ctxutil "github.com/videotube/backend/pkg/context"
	"github.com/videotube/backend/pkg/logger"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetByID")

	start := time.Now()
	var user model.User
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&user)
	if result.Error != nil {
		logger.DebugWithContext(ctx, "Failed to get user by ID").
			Uint("user_id", id).
			Duration(time.Since(start)).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	return &user, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetByUsername")

	var user model.User
	result := r.db.WithContext(ctx).Where("username = ?", username).First(&user)
	if result.Error != nil {
		logger.DebugWithContext(ctx, "Failed to get user by username").
			String("username", username).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	return &user, nil
}

// GetByIdentifier matches a login identifier against username or email.
func (r *UserRepository) GetByIdentifier(ctx context.Context, identifier string) (*model.User, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetByIdentifier")

	var user model.User
	result := r.db.WithContext(ctx).
		Where("username = ? OR email = ?", identifier, identifier).
		First(&user)
	if result.Error != nil {
		logger.DebugWithContext(ctx, "Failed to get user by identifier").
			String("identifier", identifier).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	return &user, nil
}

// ExistsByUsernameOrEmail reports whether any record holds either value.
func (r *UserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "ExistsByUsernameOrEmail")

	var count int64
	result := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to check user existence").
			String("username", username).
			String("email", email).
			Err(result.Error).
			Log()
		return false, result.Error
	}

	return count > 0, nil
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "Create")

	start := time.Now()
	result := r.db.WithContext(ctx).Create(user)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to create user").
			String("username", user.Username).
			Duration(time.Since(start)).
			Err(result.Error).
			Log()
		return result.Error
	}

	logger.InfoWithContext(ctx, "User created").
		String("username", user.Username).
		Uint("user_id", user.ID).
		Duration(time.Since(start)).
		Log()

	return nil
}

// UpdateFields applies a field-scoped update, bypassing full model validation.
func (r *UserRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "UpdateFields")

	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update user fields").
			Uint("user_id", id).
			Err(result.Error).
			Log()
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uint, hashedPassword string) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "UpdatePassword")
	return r.UpdateFields(ctx, id, map[string]interface{}{"password": hashedPassword})
}

// SetRefreshToken overwrites the persisted refresh token unconditionally.
// Used by login, where no previous token needs to match.
func (r *UserRepository) SetRefreshToken(ctx context.Context, id uint, token string) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "SetRefreshToken")
	return r.UpdateFields(ctx, id, map[string]interface{}{"refresh_token": token})
}

// RotateRefreshToken replaces the persisted refresh token only when the
// currently stored value equals oldToken. The compare-and-swap makes rotation
// safe under concurrent refresh calls: exactly one caller wins, the rest get
// gorm.ErrRecordNotFound.
func (r *UserRepository) RotateRefreshToken(ctx context.Context, id uint, oldToken, newToken string) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "RotateRefreshToken")

	start := time.Now()
	result := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ? AND refresh_token = ?", id, oldToken).
		Update("refresh_token", newToken)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to rotate refresh token").
			Uint("user_id", id).
			Duration(time.Since(start)).
			Err(result.Error).
			Log()
		return result.Error
	}
	if result.RowsAffected == 0 {
		logger.WarnWithContext(ctx, "Refresh token rotation lost the compare-and-swap").
			Uint("user_id", id).
			Log()
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *UserRepository) ClearRefreshToken(ctx context.Context, id uint) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "ClearRefreshToken")
	return r.UpdateFields(ctx, id, map[string]interface{}{"refresh_token": ""})
}

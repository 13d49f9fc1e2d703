package service

import (
	"context"
	"errors"
	"strings"

	"github.com/videotube/backend/internal/dto"
	apperrors "github.com/videotube/backend/internal/errors"
	"github.com/videotube/backend/internal/model"
	ctxutil "github.com/videotube/backend/pkg/context"
	"github.com/videotube/backend/pkg/logger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService holds registration, session lifecycle and profile maintenance.
type UserService struct {
	users  UserStore
	tokens *TokenService
	media  MediaRelay
}

func NewUserService(users UserStore, tokens *TokenService, media MediaRelay) *UserService {
	return &UserService{
		users:  users,
		tokens: tokens,
		media:  media,
	}
}

// Register creates an account from the multipart registration form. avatarPath
// and coverPath are local temp files already saved by the handler; the relay
// removes them after upload. The avatar is mandatory, the cover image is not,
// and a failed cover upload degrades to no cover rather than failing the
// registration.
func (s *UserService) Register(ctx context.Context, req *dto.RegisterRequest, avatarPath, coverPath string) (*dto.UserResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Register")

	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.ToLower(strings.TrimSpace(req.Email))
	fullName := strings.TrimSpace(req.FullName)

	if username == "" || email == "" || fullName == "" || strings.TrimSpace(req.Password) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "All fields are required")
	}

	exists, err := s.users.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if exists {
		return nil, apperrors.ErrUserExists
	}

	if avatarPath == "" {
		return nil, apperrors.ErrAvatarNeeded
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	avatarURL, err := s.media.Upload(ctx, avatarPath)
	if err != nil || avatarURL == "" {
		logger.ErrorWithContext(ctx, "Avatar upload failed").
			String("username", username).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrUploadFailed, err)
	}

	coverURL := ""
	if coverPath != "" {
		coverURL, err = s.media.Upload(ctx, coverPath)
		if err != nil {
			logger.WarnWithContext(ctx, "Cover image upload failed, continuing without cover").
				String("username", username).
				Err(err).
				Log()
			coverURL = ""
		}
	}

	user := &model.User{
		Username:   username,
		Email:      email,
		FullName:   fullName,
		Password:   string(hashed),
		Avatar:     avatarURL,
		CoverImage: coverURL,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	created, err := s.users.GetByID(ctx, user.ID)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to read back created user").
			Uint("user_id", user.ID).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "User registered").
		Uint("user_id", created.ID).
		String("username", created.Username).
		Log()

	return dto.NewUserResponse(created), nil
}

// Login verifies credentials against username or email, issues a fresh token
// pair and persists the refresh token.
func (s *UserService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Login")

	identifier := strings.ToLower(strings.TrimSpace(req.Identifier))
	if identifier == "" || req.Password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "Username or email and password are required")
	}

	user, err := s.users.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		logger.WarnWithContext(ctx, "Login rejected, password mismatch").
			Uint("user_id", user.ID).
			Log()
		return nil, apperrors.ErrInvalidCredentials
	}

	accessToken, refreshToken, err := s.issueTokenPair(user)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.users.SetRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "User logged in").
		Uint("user_id", user.ID).
		String("username", user.Username).
		Log()

	return &dto.LoginResponse{
		User:         *dto.NewUserResponse(user),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Logout invalidates the persisted refresh token for the user.
func (s *UserService) Logout(ctx context.Context, userID uint) error {
	ctx = ctxutil.WithOperation(ctx, "service", "Logout")

	if err := s.users.ClearRefreshToken(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "User logged out").
		Uint("user_id", userID).
		Log()

	return nil
}

// RefreshTokens exchanges a valid stored refresh token for a new pair. The
// incoming token must verify, must belong to an existing user, and must equal
// the persisted token; the swap to the new token is conditional on the old one
// still being current, so a reused or raced token is rejected.
func (s *UserService) RefreshTokens(ctx context.Context, incoming string) (*dto.TokenPairResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "RefreshTokens")

	if incoming == "" {
		return nil, apperrors.WithMessage(apperrors.ErrUnauthorized, "Refresh token is required")
	}

	userID, err := s.tokens.VerifyRefreshToken(incoming)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperrors.ErrInvalidRefreshToken
	}

	if user.RefreshToken == "" || user.RefreshToken != incoming {
		logger.WarnWithContext(ctx, "Refresh token does not match stored token").
			Uint("user_id", user.ID).
			Log()
		return nil, apperrors.WithMessage(apperrors.ErrInvalidRefreshToken, "Refresh token is expired or used")
	}

	accessToken, refreshToken, err := s.issueTokenPair(user)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.users.RotateRefreshToken(ctx, user.ID, incoming, refreshToken); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidRefreshToken, "Refresh token is expired or used")
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Tokens refreshed").
		Uint("user_id", user.ID).
		Log()

	return &dto.TokenPairResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// ChangePassword verifies the old password before storing the new hash.
func (s *UserService) ChangePassword(ctx context.Context, userID uint, req *dto.ChangePasswordRequest) error {
	ctx = ctxutil.WithOperation(ctx, "service", "ChangePassword")

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		return apperrors.ErrIncorrectPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.users.UpdatePassword(ctx, userID, string(hashed)); err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Password changed").
		Uint("user_id", userID).
		Log()

	return nil
}

// UpdateAccountDetails updates full name and/or email. At least one field must
// be present.
func (s *UserService) UpdateAccountDetails(ctx context.Context, userID uint, req *dto.UpdateAccountRequest) (*dto.UserResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "UpdateAccountDetails")

	fullName := strings.TrimSpace(req.FullName)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if fullName == "" && email == "" {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "At least one of fullName or email is required")
	}

	fields := map[string]interface{}{}
	if fullName != "" {
		fields["full_name"] = fullName
	}
	if email != "" {
		fields["email"] = email
	}

	if err := s.users.UpdateFields(ctx, userID, fields); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Account details updated").
		Uint("user_id", userID).
		Log()

	return dto.NewUserResponse(user), nil
}

// UpdateAvatar replaces the avatar image.
func (s *UserService) UpdateAvatar(ctx context.Context, userID uint, localPath string) (*dto.UserResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "UpdateAvatar")
	return s.replaceImage(ctx, userID, localPath, "avatar")
}

// UpdateCoverImage replaces the cover image.
func (s *UserService) UpdateCoverImage(ctx context.Context, userID uint, localPath string) (*dto.UserResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "UpdateCoverImage")
	return s.replaceImage(ctx, userID, localPath, "cover_image")
}

// replaceImage uploads the new asset, persists its URL, then best-effort
// deletes the previous remote asset. The old asset is only removed after the
// new URL is durably stored, so a failure never leaves the profile pointing at
// a deleted object.
func (s *UserService) replaceImage(ctx context.Context, userID uint, localPath, column string) (*dto.UserResponse, error) {
	if localPath == "" {
		return nil, apperrors.ErrFileRequired
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	oldURL := user.Avatar
	if column == "cover_image" {
		oldURL = user.CoverImage
	}

	newURL, err := s.media.Upload(ctx, localPath)
	if err != nil || newURL == "" {
		logger.ErrorWithContext(ctx, "Image upload failed").
			Uint("user_id", userID).
			String("field", column).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrUploadFailed, err)
	}

	if err := s.users.UpdateFields(ctx, userID, map[string]interface{}{column: newURL}); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if oldURL != "" {
		if err := s.media.Delete(ctx, oldURL); err != nil {
			logger.WarnWithContext(ctx, "Failed to delete replaced media asset").
				Uint("user_id", userID).
				String("url", oldURL).
				Err(err).
				Log()
		}
	}

	updated, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Profile image updated").
		Uint("user_id", userID).
		String("field", column).
		Log()

	return dto.NewUserResponse(updated), nil
}

func (s *UserService) issueTokenPair(user *model.User) (string, string, error) {
	accessToken, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return "", "", err
	}
	refreshToken, err := s.tokens.GenerateRefreshToken(user.ID)
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

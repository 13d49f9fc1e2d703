package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	configs "github.com/videotube/backend/config"
	apperrors "github.com/videotube/backend/internal/errors"
	"github.com/videotube/backend/internal/model"
)

// TokenService issues and verifies the access/refresh JWT pair. The two token
// kinds are signed with separate secrets and are not interchangeable.
type TokenService struct {
	cfg configs.JWTConfig
}

func NewTokenService(cfg *configs.Config) *TokenService {
	return &TokenService{cfg: cfg.JWT}
}

// GenerateAccessToken creates the short-lived token embedding identity,
// username, email and full name.
func (s *TokenService) GenerateAccessToken(user *model.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":   user.ID,
		"username":  user.Username,
		"email":     user.Email,
		"full_name": user.FullName,
		"iat":       now.Unix(),
		"exp":       now.Add(s.cfg.AccessExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.AccessSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

// GenerateRefreshToken creates the long-lived token embedding identity only.
func (s *TokenService) GenerateRefreshToken(userID uint) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"iat":     now.Unix(),
		"exp":     now.Add(s.cfg.RefreshExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.RefreshSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return signed, nil
}

// ValidateAccessToken checks signature and expiry and returns the claims.
func (s *TokenService) ValidateAccessToken(tokenString string) (jwt.MapClaims, error) {
	return s.validate(tokenString, s.cfg.AccessSecret)
}

// VerifyRefreshToken checks signature and expiry and returns the embedded
// user id. Verification failures surface as auth errors carrying the
// underlying message.
func (s *TokenService) VerifyRefreshToken(tokenString string) (uint, error) {
	claims, err := s.validate(tokenString, s.cfg.RefreshSecret)
	if err != nil {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidRefreshToken, err.Error())
	}

	idFloat, ok := claims["user_id"].(float64)
	if !ok {
		return 0, apperrors.ErrInvalidRefreshToken
	}
	return uint(idFloat), nil
}

func (s *TokenService) validate(tokenString, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

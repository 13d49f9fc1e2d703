package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/videotube/backend/internal/constants"
	"github.com/videotube/backend/internal/service"
	ctxutil "github.com/videotube/backend/pkg/context"
	"github.com/videotube/backend/pkg/logger"
)

type JWTMiddleware struct {
	tokens *service.TokenService
	users  service.UserStore
}

func NewJWTMiddleware(tokens *service.TokenService, users service.UserStore) *JWTMiddleware {
	return &JWTMiddleware{
		tokens: tokens,
		users:  users,
	}
}

// RequireAuth validates the access token and loads the user. The token is
// taken from the accessToken cookie first, then from the Authorization bearer
// header.
func (m *JWTMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := m.extractToken(c)
		if tokenString == "" {
			logger.WarnWithContext(c.Request.Context(), "Missing access token").
				String("path", c.Request.URL.Path).
				String("method", c.Request.Method).
				Log()
			m.reject(c)
			return
		}

		claims, err := m.tokens.ValidateAccessToken(tokenString)
		if err != nil {
			logger.WarnWithContext(c.Request.Context(), "Invalid or expired access token").
				String("path", c.Request.URL.Path).
				Err(err).
				Log()
			m.reject(c)
			return
		}

		userIDFloat, ok := claims["user_id"].(float64)
		if !ok {
			logger.WarnWithContext(c.Request.Context(), "Access token missing user id").
				String("path", c.Request.URL.Path).
				Log()
			m.reject(c)
			return
		}
		userID := uint(userIDFloat)

		ctx := ctxutil.WithUserID(c.Request.Context(), userID)
		user, err := m.users.GetByID(ctx, userID)
		if err != nil {
			logger.WarnWithContext(ctx, "Token user not found").
				Uint("user_id", userID).
				Err(err).
				Log()
			m.reject(c)
			return
		}

		c.Request = c.Request.WithContext(ctx)
		c.Set(constants.GinKeyUserID, userID)
		c.Set(constants.GinKeyUsername, user.Username)
		c.Set(constants.GinKeyUser, user)

		c.Next()
	}
}

func (m *JWTMiddleware) extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(constants.CookieAccessToken); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader(constants.HeaderAuthorization)
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

func (m *JWTMiddleware) reject(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(http.StatusUnauthorized, constants.MsgUnauthorized))
	c.Abort()
}

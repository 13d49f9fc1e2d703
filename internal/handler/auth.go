package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	configs "github.com/videotube/backend/config"
	"github.com/videotube/backend/internal/constants"
	"github.com/videotube/backend/internal/dto"
	apperrors "github.com/videotube/backend/internal/errors"
	"github.com/videotube/backend/internal/service"
	ctxutil "github.com/videotube/backend/pkg/context"
	"github.com/videotube/backend/pkg/logger"
	"github.com/videotube/backend/pkg/validation"
)

type AuthHandler struct {
	userService *service.UserService
	cfg         *configs.Config
}

func NewAuthHandler(userService *service.UserService, cfg *configs.Config) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		cfg:         cfg,
	}
}

// Register handles the multipart registration form. The avatar and cover
// files are staged into the temp dir before being relayed to the media host.
func (h *AuthHandler) Register(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Register")

	var req dto.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		logger.WarnWithContext(ctx, "Invalid registration request").
			Err(err).
			Log()
		c.JSON(http.StatusBadRequest,
			constants.BuildErrorResponse(http.StatusBadRequest, validation.MessageFor(err)))
		return
	}

	avatarPath, err := saveUpload(c, constants.FormFieldAvatar, h.cfg.App.TempDir)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to stage avatar file").
			Err(err).
			Log()
		c.JSON(http.StatusBadRequest,
			constants.BuildErrorResponse(http.StatusBadRequest, "Could not read avatar file"))
		return
	}
	coverPath, err := saveUpload(c, constants.FormFieldCoverImage, h.cfg.App.TempDir)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to stage cover image file").
			Err(err).
			Log()
		c.JSON(http.StatusBadRequest,
			constants.BuildErrorResponse(http.StatusBadRequest, "Could not read cover image file"))
		return
	}

	logger.InfoWithContext(ctx, "User registration attempt").
		String("username", req.Username).
		Log()

	user, err := h.userService.Register(ctx, &req, avatarPath, coverPath)
	if err != nil {
		logger.WarnWithContext(ctx, "Registration failed").
			String("username", req.Username).
			Err(err).
			Log()
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse(status, apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusCreated,
		constants.BuildSuccessResponse(http.StatusCreated, "User registered successfully", user))
}

// Login authenticates against username or email and sets the session cookies.
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Login")

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WarnWithContext(ctx, "Invalid login request").
			Err(err).
			Log()
		c.JSON(http.StatusBadRequest,
			constants.BuildErrorResponse(http.StatusBadRequest, validation.MessageFor(err)))
		return
	}

	response, err := h.userService.Login(ctx, &req)
	if err != nil {
		logger.WarnWithContext(ctx, "Login failed").
			String("identifier", req.Identifier).
			Err(err).
			Log()
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse(status, apperrors.GetErrorMessage(err)))
		return
	}

	h.setAuthCookies(c, response.AccessToken, response.RefreshToken)

	c.JSON(http.StatusOK,
		constants.BuildSuccessResponse(http.StatusOK, "User logged in successfully", response))
}

// Logout invalidates the refresh token and clears the session cookies.
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Logout")

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized,
			constants.BuildErrorResponse(http.StatusUnauthorized, constants.MsgUnauthorized))
		return
	}

	if err := h.userService.Logout(ctx, userID); err != nil {
		logger.ErrorWithContext(ctx, "Logout failed").
			Uint("user_id", userID).
			Err(err).
			Log()
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse(status, apperrors.GetErrorMessage(err)))
		return
	}

	h.clearAuthCookies(c)

	c.JSON(http.StatusOK,
		constants.BuildSuccessResponse(http.StatusOK, "User logged out", nil))
}

// RefreshToken exchanges the refresh token for a new pair. The cookie takes
// precedence over the request body.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "RefreshToken")

	incoming, _ := c.Cookie(constants.CookieRefreshToken)
	if incoming == "" {
		var req dto.RefreshTokenRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			incoming = req.RefreshToken
		}
	}

	response, err := h.userService.RefreshTokens(ctx, incoming)
	if err != nil {
		logger.WarnWithContext(ctx, "Token refresh failed").
			Err(err).
			Log()
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse(status, apperrors.GetErrorMessage(err)))
		return
	}

	h.setAuthCookies(c, response.AccessToken, response.RefreshToken)

	c.JSON(http.StatusOK,
		constants.BuildSuccessResponse(http.StatusOK, "Access token refreshed", response))
}

func (h *AuthHandler) setAuthCookies(c *gin.Context, accessToken, refreshToken string) {
	c.SetCookie(constants.CookieAccessToken, accessToken,
		int(h.cfg.JWT.AccessExpiry.Seconds()), "/", "", true, true)
	c.SetCookie(constants.CookieRefreshToken, refreshToken,
		int(h.cfg.JWT.RefreshExpiry.Seconds()), "/", "", true, true)
}

func (h *AuthHandler) clearAuthCookies(c *gin.Context) {
	c.SetCookie(constants.CookieAccessToken, "", -1, "/", "", true, true)
	c.SetCookie(constants.CookieRefreshToken, "", -1, "/", "", true, true)
}

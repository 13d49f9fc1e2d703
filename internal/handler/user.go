package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	configs "github.com/videotube/backend/config"
	"github.com/videotube/backend/internal/constants"
	"github.com/videotube/backend/internal/dto"
	apperrors "github.com/videotube/backend/internal/errors"
	"github.com/videotube/backend/internal/model"
	"github.com/videotube/backend/internal/service"
	ctxutil "github.com/videotube/backend/pkg/context"
	"github.com/videotube/backend/pkg/logger"
	"github.com/videotube/backend/pkg/validation"
)

type UserHandler struct {
	userService    *service.UserService
	channelService *service.ChannelService
	cfg            *configs.Config
}

func NewUserHandler(userService *service.UserService, channelService *service.ChannelService, cfg *configs.Config) *UserHandler {
	return &UserHandler{
		userService:    userService,
		channelService: channelService,
		cfg:            cfg,
	}
}

// ChangePassword verifies the old password and stores the new one.
func (h *UserHandler) ChangePassword(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "ChangePassword")

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized,
			constants.BuildErrorResponse(http.StatusUnauthorized, constants.MsgUnauthorized))
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest,
			constants.BuildErrorResponse(http.StatusBadRequest, validation.MessageFor(err)))
		return
	}

	if err := h.userService.ChangePassword(ctx, userID, &req); err != nil {
		logger.WarnWithContext(ctx, "Password change failed").
			Uint("user_id", userID).
			Err(err).
			Log()
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse(status, apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK,
		constants.BuildSuccessResponse(http.StatusOK, "Password changed successfully", nil))
}

// GetCurrentUser returns the authenticated user's profile. The record was
// already loaded by the auth middleware; no second store read.
func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	v, exists := c.Get(constants.GinKeyUser)
	user, ok := v.(*model.User)
	if !exists || !ok {
		c.JSON(http.StatusUnauthorized,
			constants.BuildErrorResponse(http.StatusUnauthorized, constants.MsgUnauthorized))
		return
	}

	c.JSON(http.StatusOK,
		constants.BuildSuccessResponse(http.StatusOK, "Current user fetched", dto.NewUserResponse(user)))
}

// UpdateAccount changes full name and/or email.
func (h *UserHandler) UpdateAccount(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "UpdateAccount")

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized,
			constants.BuildErrorResponse(http.StatusUnauthorized, constants.MsgUnauthorized))
		return
	}

	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest,
			constants.BuildErrorResponse(http.StatusBadRequest, validation.MessageFor(err)))
		return
	}

	user, err := h.userService.UpdateAccountDetails(ctx, userID, &req)
	if err != nil {
		logger.WarnWithContext(ctx, "Account update failed").
			Uint("user_id", userID).
			Err(err).
			Log()
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse(status, apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK,
		constants.BuildSuccessResponse(http.StatusOK, "Account details updated", user))
}

// UpdateAvatar replaces the avatar from a multipart upload.
func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	h.updateImage(c, "UpdateAvatar", constants.FormFieldAvatar, h.userService.UpdateAvatar, "Avatar updated")
}

// UpdateCoverImage replaces the cover image from a multipart upload.
func (h *UserHandler) UpdateCoverImage(c *gin.Context) {
	h.updateImage(c, "UpdateCoverImage", constants.FormFieldCoverImage, h.userService.UpdateCoverImage, "Cover image updated")
}

func (h *UserHandler) updateImage(
	c *gin.Context,
	function, field string,
	update func(ctx context.Context, userID uint, localPath string) (*dto.UserResponse, error),
	message string,
) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", function)

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized,
			constants.BuildErrorResponse(http.StatusUnauthorized, constants.MsgUnauthorized))
		return
	}

	localPath, err := saveUpload(c, field, h.cfg.App.TempDir)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to stage uploaded file").
			Uint("user_id", userID).
			String("field", field).
			Err(err).
			Log()
		c.JSON(http.StatusBadRequest,
			constants.BuildErrorResponse(http.StatusBadRequest, "Could not read uploaded file"))
		return
	}

	user, err := update(ctx, userID, localPath)
	if err != nil {
		logger.WarnWithContext(ctx, "Image update failed").
			Uint("user_id", userID).
			String("field", field).
			Err(err).
			Log()
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse(status, apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK,
		constants.BuildSuccessResponse(http.StatusOK, message, user))
}

// GetWatchHistory returns the user's watched videos in stored order.
func (h *UserHandler) GetWatchHistory(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "GetWatchHistory")

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized,
			constants.BuildErrorResponse(http.StatusUnauthorized, constants.MsgUnauthorized))
		return
	}

	history, err := h.channelService.GetWatchHistory(ctx, userID)
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse(status, apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK,
		constants.BuildSuccessResponse(http.StatusOK, "Watch history fetched", history))
}

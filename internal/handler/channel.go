package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/videotube/backend/internal/constants"
	apperrors "github.com/videotube/backend/internal/errors"
	"github.com/videotube/backend/internal/service"
	ctxutil "github.com/videotube/backend/pkg/context"
	"github.com/videotube/backend/pkg/logger"
)

type ChannelHandler struct {
	channelService *service.ChannelService
}

func NewChannelHandler(channelService *service.ChannelService) *ChannelHandler {
	return &ChannelHandler{
		channelService: channelService,
	}
}

// GetChannelProfile returns the channel page for the username in the path, as
// seen by the authenticated viewer.
func (h *ChannelHandler) GetChannelProfile(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "GetChannelProfile")

	viewerID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized,
			constants.BuildErrorResponse(http.StatusUnauthorized, constants.MsgUnauthorized))
		return
	}

	username := c.Param("username")

	profile, err := h.channelService.GetChannelProfile(ctx, viewerID, username)
	if err != nil {
		logger.WarnWithContext(ctx, "Channel profile lookup failed").
			String("username", username).
			Err(err).
			Log()
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse(status, apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK,
		constants.BuildSuccessResponse(http.StatusOK, "Channel profile fetched", profile))
}

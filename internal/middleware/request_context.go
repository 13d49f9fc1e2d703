package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/videotube/backend/internal/constants"
	ctxutil "github.com/videotube/backend/pkg/context"
	"github.com/videotube/backend/pkg/logger"
)

// RequestContext seeds the request-scoped context: request id, client ip,
// user agent and start time. An incoming X-Request-ID is honored, otherwise a
// new id is generated; either way it is echoed back in the response.
func RequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(constants.HeaderXRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "http", c.FullPath())
		ctx = ctxutil.WithValue(ctx, constants.CtxKeyRequestID, requestID)
		c.Request = c.Request.WithContext(ctx)

		c.Header(constants.HeaderXRequestID, requestID)

		c.Next()

		logger.InfoWithContext(ctx, "Request completed").
			String("method", c.Request.Method).
			String("path", c.Request.URL.Path).
			Int("status_code", c.Writer.Status()).
			Int("response_size", c.Writer.Size()).
			Duration(ctxutil.GetDuration(ctx)).
			Log()
	}
}

package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"pinboard.app/api/common/logger"
)

const RequestIDHeader = "X-Request-Id"

// RequestID propagates or assigns an X-Request-Id and attaches it to the log context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(RequestIDHeader)
		if rid == "" || len(rid) > 128 {
			rid = uuid.NewString()
		}
		c.Header(RequestIDHeader, rid)

		ctx := logger.WithLogFields(c.Request.Context(), logger.LogFields{HTTPRequestID: logger.Ptr(rid)})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

package router

import (
	"github.com/gin-gonic/gin"

	"pinboard.app/api/internal/http/handler"
	"pinboard.app/api/internal/http/middleware"
)

// EventRequestRouter mounts the join-request endpoints. Submission is rate limited per IP
// when a limiter is given.
func EventRequestRouter(rg *gin.RouterGroup, h *handler.EventRequestHandler, limiter *middleware.IPRateLimiter) {
	send := []gin.HandlerFunc{h.Send}
	if limiter != nil {
		send = append([]gin.HandlerFunc{middleware.RateLimitByIP(limiter)}, send...)
	}

	rg.POST("/send-event-request", send...)
	rg.GET("/get-pending-event-requests", h.ListPending)
	rg.POST("/update-event-request-status", h.UpdateStatus)
}

package router

import (
	"github.com/gin-gonic/gin"

	"pinboard.app/api/internal/http/handler"
	"pinboard.app/api/internal/http/middleware"
	"pinboard.app/api/internal/metrics"
	"pinboard.app/api/internal/service"
)

type RouterConfig struct {
	DB            handler.Pinger
	Metrics       *metrics.Metrics
	SubmitLimiter *middleware.IPRateLimiter
}

func SetupRoutes(router *gin.Engine, services *service.Services, cfg RouterConfig) {
	handler.ConfigureBinding()

	router.GET("/health", handler.NewHealthHandler(cfg.DB).Check)
	router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))

	reqHandler := handler.NewEventRequestHandler(services.EventRequests())
	EventRequestRouter(router.Group(""), reqHandler, cfg.SubmitLimiter)

	userHandler := handler.NewUserHandler(services.Users())
	UserRouter(router.Group(""), userHandler)

	pinHandler := handler.NewPinHandler(services.Pins())
	PinRouter(router.Group("/pins"), pinHandler)
}

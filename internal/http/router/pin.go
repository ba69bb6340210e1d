package router

import (
	"github.com/gin-gonic/gin"

	"pinboard.app/api/internal/http/handler"
)

func PinRouter(rg *gin.RouterGroup, h *handler.PinHandler) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
}

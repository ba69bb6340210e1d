package router

import (
	"github.com/gin-gonic/gin"

	"pinboard.app/api/internal/http/handler"
)

func UserRouter(rg *gin.RouterGroup, h *handler.UserHandler) {
	rg.POST("/users", h.Upsert)
	rg.GET("/users/:uid", h.Get)
	rg.POST("/update-location", h.UpdateLocation)
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pinboard.app/api/internal/http/dto"
	"pinboard.app/api/internal/model"
	"pinboard.app/api/internal/service"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) Upsert(c *gin.Context) {
	var req dto.UpsertUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.userService.Upsert(c.Request.Context(), req.UID, req.DisplayName, req.ProfileImageURL)
	if err != nil {
		respondError(c, err, "upsert user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": dto.ToUserResponse(user)})
}

func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.userService.Get(c.Request.Context(), c.Param("uid"))
	if err != nil {
		respondError(c, err, "get user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": dto.ToUserResponse(user)})
}

func (h *UserHandler) UpdateLocation(c *gin.Context) {
	var req dto.UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.userService.UpdateLocation(c.Request.Context(), req.UID, model.Location{
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
	})
	if err != nil {
		respondError(c, err, "update location")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": dto.ToUserResponse(user)})
}

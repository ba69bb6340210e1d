package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pinboard.app/api/common/id"
	"pinboard.app/api/internal/http/dto"
	"pinboard.app/api/internal/model"
	"pinboard.app/api/internal/service"
)

type PinHandler struct {
	pinService service.PinService
}

func NewPinHandler(pinService service.PinService) *PinHandler {
	return &PinHandler{pinService: pinService}
}

func (h *PinHandler) Create(c *gin.Context) {
	var req dto.CreatePinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	pin, err := h.pinService.Create(c.Request.Context(), service.CreatePinParams{
		OwnerUID:    req.OwnerUID,
		Latitude:    *req.Latitude,
		Longitude:   *req.Longitude,
		EventDate:   req.EventDate,
		Title:       req.Title,
		Category:    model.PinCategory(req.Category),
		Description: req.Description,
		Location:    req.Location,
		CityCountry: req.CityCountry,
	})
	if err != nil {
		respondError(c, err, "create pin")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"pin": dto.ToPinResponse(pin)})
}

func (h *PinHandler) Get(c *gin.Context) {
	pinID, err := id.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pin, err := h.pinService.Get(c.Request.Context(), pinID)
	if err != nil {
		respondError(c, err, "get pin")
		return
	}

	c.JSON(http.StatusOK, gin.H{"pin": dto.ToPinResponse(pin)})
}

func (h *PinHandler) List(c *gin.Context) {
	pins, err := h.pinService.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "list pins")
		return
	}

	resp := make([]dto.PinResponse, len(pins))
	for i := range pins {
		resp[i] = dto.ToPinResponse(&pins[i])
	}

	c.JSON(http.StatusOK, gin.H{"pins": resp})
}

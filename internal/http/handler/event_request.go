package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"pinboard.app/api/common/logger"
	"pinboard.app/api/internal/http/dto"
	"pinboard.app/api/internal/model"
	"pinboard.app/api/internal/service"
)

type EventRequestHandler struct {
	reqService service.EventRequestService
}

func NewEventRequestHandler(reqService service.EventRequestService) *EventRequestHandler {
	return &EventRequestHandler{reqService: reqService}
}

// Send creates a pending join request for a pin.
func (h *EventRequestHandler) Send(c *gin.Context) {
	var req dto.SendEventRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	ctx := logger.WithLogFields(c.Request.Context(), logger.LogFields{
		UID:   logger.Ptr(req.SenderUID),
		PinID: logger.Ptr(int64(req.EventID)),
	})
	c.Request = c.Request.WithContext(ctx)

	created, err := h.reqService.Submit(ctx, service.SubmitParams{
		SenderUID:      req.SenderUID,
		SenderUsername: req.SenderUsername,
		ReceiverUID:    req.ReceiverUID,
		PinID:          int64(req.EventID),
		PinTitle:       req.EventTitle,
	})
	if err != nil {
		respondError(c, err, "send event request")
		return
	}

	c.JSON(http.StatusCreated, dto.SendEventRequestResponse{
		Message: "event request sent",
		Request: dto.ToEventRequestResponse(created),
	})
}

// ListPending returns the receiver's pending requests, newest first.
func (h *EventRequestHandler) ListPending(c *gin.Context) {
	var q dto.ListPendingQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	reqs, err := h.reqService.ListPending(c.Request.Context(), q.ReceiverUID)
	if err != nil {
		respondError(c, err, "list pending event requests")
		return
	}

	resp := dto.ListPendingResponse{
		Requests: make([]dto.EventRequestResponse, len(reqs)),
	}
	for i := range reqs {
		resp.Requests[i] = dto.ToEventRequestResponse(&reqs[i])
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateStatus accepts or declines a request.
func (h *EventRequestHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateEventRequestStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	ctx := logger.WithLogFields(c.Request.Context(), logger.LogFields{
		EventRequestID: logger.Ptr(int64(req.RequestID)),
	})
	c.Request = c.Request.WithContext(ctx)

	resolved, err := h.reqService.Resolve(ctx, int64(req.RequestID), model.EventRequestStatus(req.Status))
	if err != nil {
		respondError(c, err, "update event request status")
		return
	}

	slog.InfoContext(ctx, "event request status updated", "status", resolved.Status)
	c.JSON(http.StatusOK, dto.UpdateEventRequestStatusResponse{
		Message: "event request " + string(resolved.Status),
	})
}

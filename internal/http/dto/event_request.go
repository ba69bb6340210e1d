package dto

import (
	"time"

	"pinboard.app/api/internal/model"
)

type SendEventRequestRequest struct {
	SenderUID      string `json:"sender_uid" binding:"required"`
	SenderUsername string `json:"sender_username" binding:"required"`
	ReceiverUID    string `json:"receiver_uid" binding:"required"`
	EventID        ID     `json:"event_id" binding:"required"`
	EventTitle     string `json:"event_title" binding:"required,max=255"`
}

type UpdateEventRequestStatusRequest struct {
	RequestID ID     `json:"requestId" binding:"required"`
	Status    string `json:"status" binding:"required"`
}

type ListPendingQuery struct {
	ReceiverUID string `form:"receiver_uid" binding:"required"`
}

type EventRequestResponse struct {
	ID             int64      `json:"id,string"`
	SenderUID      string     `json:"sender_uid"`
	SenderUsername string     `json:"sender_username"`
	ReceiverUID    string     `json:"receiver_uid"`
	EventID        int64      `json:"event_id,string"`
	EventTitle     string     `json:"event_title"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty"`
}

func ToEventRequestResponse(r *model.EventRequest) EventRequestResponse {
	return EventRequestResponse{
		ID:             r.ID,
		SenderUID:      r.SenderUID,
		SenderUsername: r.SenderUsername,
		ReceiverUID:    r.ReceiverUID,
		EventID:        r.PinID,
		EventTitle:     r.PinTitle,
		Status:         string(r.Status),
		CreatedAt:      r.CreatedAt,
		ResolvedAt:     r.ResolvedAt,
	}
}

type SendEventRequestResponse struct {
	Message string               `json:"message"`
	Request EventRequestResponse `json:"request"`
}

type ListPendingResponse struct {
	Requests []EventRequestResponse `json:"requests"`
}

type UpdateEventRequestStatusResponse struct {
	Message string `json:"message"`
}

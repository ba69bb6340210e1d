package model

import "time"

type EventRequestStatus string

const (
	EventRequestStatusPending  EventRequestStatus = "pending"
	EventRequestStatusAccepted EventRequestStatus = "accepted"
	EventRequestStatusDeclined EventRequestStatus = "declined"
)

func (s EventRequestStatus) IsValid() bool {
	switch s {
	case EventRequestStatusPending, EventRequestStatusAccepted, EventRequestStatusDeclined:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition may leave s.
func (s EventRequestStatus) IsTerminal() bool {
	return s == EventRequestStatusAccepted || s == EventRequestStatusDeclined
}

// IsDecision reports whether s is a value a receiver may resolve a request to.
func (s EventRequestStatus) IsDecision() bool {
	return s.IsTerminal()
}

// EventRequest is one sender's request to join a receiver-owned pin.
// SenderUsername and PinTitle are copied at submission time.
type EventRequest struct {
	ID             int64              `json:"id"`
	SenderUID      string             `json:"sender_uid"`
	SenderUsername string             `json:"sender_username"`
	ReceiverUID    string             `json:"receiver_uid"`
	PinID          int64              `json:"pin_id"`
	PinTitle       string             `json:"pin_title"`
	Status         EventRequestStatus `json:"status"`
	CreatedAt      time.Time          `json:"created_at"`
	ResolvedAt     *time.Time         `json:"resolved_at,omitempty"`
}

// Transition describes what resolving a request to a decision would do.
type Transition int

const (
	// TransitionApply moves a pending request to the decision.
	TransitionApply Transition = iota
	// TransitionNoop means the request already holds the decision.
	TransitionNoop
	// TransitionForbidden means the request already holds the opposite decision.
	TransitionForbidden
)

// TransitionTo classifies resolving r to decision. decision must satisfy IsDecision.
func (r EventRequest) TransitionTo(decision EventRequestStatus) Transition {
	switch {
	case r.Status == EventRequestStatusPending:
		return TransitionApply
	case r.Status == decision:
		return TransitionNoop
	default:
		return TransitionForbidden
	}
}

func (r EventRequest) IsPending() bool {
	return r.Status == EventRequestStatusPending
}

package store

import (
	"context"
	"errors"
	"time"

	"pinboard.app/api/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a write would violate a uniqueness rule,
// such as a second pending request for the same (sender, receiver, pin).
var ErrConflict = errors.New("conflict")

// UserStore defines the contract for user data access
type UserStore interface {
	GetByUID(ctx context.Context, uid string) (*model.User, error)
	Exists(ctx context.Context, uid string) (bool, error)
	// Upsert creates the user or refreshes the profile. A nil ProfileImageURL keeps the stored one.
	Upsert(ctx context.Context, user *model.User) error
	UpdateLocation(ctx context.Context, uid string, loc model.Location) (*model.User, error)
}

// PinStore defines the contract for pin and attendee data access
type PinStore interface {
	Create(ctx context.Context, pin *model.Pin) error
	GetByID(ctx context.Context, id int64) (*model.Pin, error)
	List(ctx context.Context) ([]model.Pin, error)
	// AddAttendeeIfAbsent adds uid to the pin's attendee set. It reports false when
	// uid was already present or is the owner. Returns ErrNotFound for a missing pin.
	AddAttendeeIfAbsent(ctx context.Context, pinID int64, uid string) (bool, error)
}

// EventRequestStore defines the contract for join-request data access
type EventRequestStore interface {
	// Create inserts a pending request. Returns ErrConflict when one is already pending
	// for the same sender, receiver and pin.
	Create(ctx context.Context, req *model.EventRequest) error
	// GetByIDForUpdate locks the row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id int64) (*model.EventRequest, error)
	// Resolve moves a pending request to status. Returns ErrConflict if it is no longer pending.
	Resolve(ctx context.Context, id int64, status model.EventRequestStatus, resolvedAt time.Time) (*model.EventRequest, error)
	ListPendingByReceiver(ctx context.Context, receiverUID string) ([]model.EventRequest, error)
}

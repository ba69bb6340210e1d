package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"pinboard.app/api/core/db"
	"pinboard.app/api/internal/model"
)

const (
	eventRequestColumns = `id, sender_uid, sender_username, receiver_uid, pin_id, pin_title, status, created_at, resolved_at`

	onePendingConstraint = "uq_event_requests_one_pending"
	uniqueViolation      = "23505"
)

type eventRequestStore struct {
	q db.Querier
}

func newEventRequestStore(q db.Querier) EventRequestStore {
	return &eventRequestStore{q: q}
}

// Create relies on the partial unique index over pending rows. A concurrent
// insert for the same triple blocks until the first commits, then hits DO NOTHING.
func (s *eventRequestStore) Create(ctx context.Context, req *model.EventRequest) error {
	row := s.q.QueryRow(ctx, `
		INSERT INTO event_requests (id, sender_uid, sender_username, receiver_uid, pin_id, pin_title, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, 'pending', $7)
		ON CONFLICT (sender_uid, receiver_uid, pin_id) WHERE status = 'pending' DO NOTHING
		RETURNING `+eventRequestColumns,
		req.ID, req.SenderUID, req.SenderUsername, req.ReceiverUID, req.PinID, req.PinTitle, req.CreatedAt,
	)
	saved, err := scanEventRequest(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrConflict
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == onePendingConstraint {
			return ErrConflict
		}
		return err
	}
	*req = *saved
	return nil
}

func (s *eventRequestStore) GetByIDForUpdate(ctx context.Context, id int64) (*model.EventRequest, error) {
	req, err := scanEventRequest(s.q.QueryRow(ctx,
		`SELECT `+eventRequestColumns+` FROM event_requests WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return req, nil
}

func (s *eventRequestStore) Resolve(ctx context.Context, id int64, status model.EventRequestStatus, resolvedAt time.Time) (*model.EventRequest, error) {
	row := s.q.QueryRow(ctx, `
		UPDATE event_requests
		SET status = $2, resolved_at = $3
		WHERE id = $1 AND status = 'pending'
		RETURNING `+eventRequestColumns,
		id, string(status), resolvedAt,
	)
	req, err := scanEventRequest(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return req, nil
}

func (s *eventRequestStore) ListPendingByReceiver(ctx context.Context, receiverUID string) ([]model.EventRequest, error) {
	rows, err := s.q.Query(ctx, `
		SELECT `+eventRequestColumns+`
		FROM event_requests
		WHERE receiver_uid = $1 AND status = 'pending'
		ORDER BY created_at DESC, id DESC`,
		receiverUID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reqs := []model.EventRequest{}
	for rows.Next() {
		req, err := scanEventRequest(rows)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, *req)
	}
	return reqs, rows.Err()
}

func scanEventRequest(row pgx.Row) (*model.EventRequest, error) {
	var (
		r      model.EventRequest
		status string
	)
	err := row.Scan(
		&r.ID, &r.SenderUID, &r.SenderUsername, &r.ReceiverUID, &r.PinID, &r.PinTitle,
		&status, &r.CreatedAt, &r.ResolvedAt,
	)
	if err != nil {
		return nil, err
	}
	r.Status = model.EventRequestStatus(status)
	if !r.Status.IsValid() {
		return nil, fmt.Errorf("event request %d: unknown status %q", r.ID, status)
	}
	r.CreatedAt = r.CreatedAt.UTC()
	if r.ResolvedAt != nil {
		t := r.ResolvedAt.UTC()
		r.ResolvedAt = &t
	}
	return &r, nil
}

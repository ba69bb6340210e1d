package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"pinboard.app/api/core/db"
	"pinboard.app/api/internal/model"
)

// selectPins aggregates the attendee set alongside each pin so reads never
// observe a pin without its attendees.
const selectPins = `
	SELECT p.id, p.owner_uid, p.latitude, p.longitude, p.event_date, p.title,
		p.category, p.description, p.location, p.city_country, p.created_at,
		COALESCE(array_agg(a.uid ORDER BY a.added_at, a.uid) FILTER (WHERE a.uid IS NOT NULL), '{}') AS attendees
	FROM pins p
	LEFT JOIN pin_attendees a ON a.pin_id = p.id`

type pinStore struct {
	q db.Querier
}

func newPinStore(q db.Querier) PinStore {
	return &pinStore{q: q}
}

func (s *pinStore) Create(ctx context.Context, pin *model.Pin) error {
	err := s.q.QueryRow(ctx, `
		INSERT INTO pins (id, owner_uid, latitude, longitude, event_date, title, category, description, location, city_country)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at`,
		pin.ID, pin.OwnerUID, pin.Latitude, pin.Longitude, pin.EventDate, pin.Title,
		string(pin.Category), pin.Description, pin.Location, pin.CityCountry,
	).Scan(&pin.CreatedAt)
	if err != nil {
		return err
	}
	pin.CreatedAt = pin.CreatedAt.UTC()
	pin.Attendees = []string{}
	return nil
}

func (s *pinStore) GetByID(ctx context.Context, id int64) (*model.Pin, error) {
	row := s.q.QueryRow(ctx, selectPins+` WHERE p.id = $1 GROUP BY p.id`, id)
	pin, err := scanPin(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return pin, nil
}

func (s *pinStore) List(ctx context.Context) ([]model.Pin, error) {
	rows, err := s.q.Query(ctx, selectPins+` GROUP BY p.id ORDER BY p.event_date, p.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pins := []model.Pin{}
	for rows.Next() {
		pin, err := scanPin(rows)
		if err != nil {
			return nil, err
		}
		pins = append(pins, *pin)
	}
	return pins, rows.Err()
}

func (s *pinStore) AddAttendeeIfAbsent(ctx context.Context, pinID int64, uid string) (bool, error) {
	// FOR SHARE keeps the pin alive until commit without serializing unrelated accepts.
	var owner string
	err := s.q.QueryRow(ctx, `SELECT owner_uid FROM pins WHERE id = $1 FOR SHARE`, pinID).Scan(&owner)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, ErrNotFound
		}
		return false, fmt.Errorf("locking pin: %w", err)
	}
	if owner == uid {
		return false, nil
	}

	tag, err := s.q.Exec(ctx, `
		INSERT INTO pin_attendees (pin_id, uid)
		VALUES ($1, $2)
		ON CONFLICT (pin_id, uid) DO NOTHING`,
		pinID, uid,
	)
	if err != nil {
		return false, fmt.Errorf("inserting attendee: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func scanPin(row pgx.Row) (*model.Pin, error) {
	var (
		p        model.Pin
		category string
	)
	err := row.Scan(
		&p.ID, &p.OwnerUID, &p.Latitude, &p.Longitude, &p.EventDate, &p.Title,
		&category, &p.Description, &p.Location, &p.CityCountry, &p.CreatedAt,
		&p.Attendees,
	)
	if err != nil {
		return nil, err
	}
	p.Category = model.PinCategory(category)
	p.EventDate = p.EventDate.UTC()
	p.CreatedAt = p.CreatedAt.UTC()
	if p.Attendees == nil {
		p.Attendees = []string{}
	}
	return &p, nil
}

package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"pinboard.app/api/core/db"
	"pinboard.app/api/internal/model"
)

const userColumns = `uid, display_name, profile_image_url, latitude, longitude, created_at, updated_at`

type userStore struct {
	q db.Querier
}

func newUserStore(q db.Querier) UserStore {
	return &userStore{q: q}
}

func (s *userStore) GetByUID(ctx context.Context, uid string) (*model.User, error) {
	row := s.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE uid = $1`, uid)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userStore) Exists(ctx context.Context, uid string) (bool, error) {
	var exists bool
	err := s.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE uid = $1)`, uid).Scan(&exists)
	return exists, err
}

func (s *userStore) Upsert(ctx context.Context, user *model.User) error {
	row := s.q.QueryRow(ctx, `
		INSERT INTO users (uid, display_name, profile_image_url)
		VALUES ($1, $2, $3)
		ON CONFLICT (uid) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			profile_image_url = COALESCE(EXCLUDED.profile_image_url, users.profile_image_url),
			updated_at = now()
		RETURNING `+userColumns,
		user.UID, user.DisplayName, user.ProfileImageURL,
	)
	saved, err := scanUser(row)
	if err != nil {
		return err
	}
	*user = *saved
	return nil
}

func (s *userStore) UpdateLocation(ctx context.Context, uid string, loc model.Location) (*model.User, error) {
	row := s.q.QueryRow(ctx, `
		INSERT INTO users (uid, latitude, longitude)
		VALUES ($1, $2, $3)
		ON CONFLICT (uid) DO UPDATE SET
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			updated_at = now()
		RETURNING `+userColumns,
		uid, loc.Latitude, loc.Longitude,
	)
	return scanUser(row)
}

func scanUser(row pgx.Row) (*model.User, error) {
	var (
		u        model.User
		lat, lng *float64
	)
	if err := row.Scan(&u.UID, &u.DisplayName, &u.ProfileImageURL, &lat, &lng, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	if lat != nil && lng != nil {
		u.Location = &model.Location{Latitude: *lat, Longitude: *lng}
	}
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return &u, nil
}


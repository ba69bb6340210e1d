package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"pinboard.app/api/internal/model"
	"pinboard.app/api/internal/store"
)

type UserService interface {
	Upsert(ctx context.Context, uid, displayName string, profileImageURL *string) (*model.User, error)
	Get(ctx context.Context, uid string) (*model.User, error)
	UpdateLocation(ctx context.Context, uid string, loc model.Location) (*model.User, error)
}

type userService struct {
	userStore store.UserStore
}

func NewUserService(userStore store.UserStore) UserService {
	return &userService{userStore: userStore}
}

func (s *userService) Upsert(ctx context.Context, uid, displayName string, profileImageURL *string) (*model.User, error) {
	uid = strings.TrimSpace(uid)
	displayName = strings.TrimSpace(displayName)
	if uid == "" {
		return nil, required("uid")
	}
	if displayName == "" {
		return nil, required("display_name")
	}

	user := &model.User{
		UID:             uid,
		DisplayName:     displayName,
		ProfileImageURL: profileImageURL,
	}
	if err := s.userStore.Upsert(ctx, user); err != nil {
		slog.ErrorContext(ctx, "failed to upsert user",
			"error", err,
			"uid", uid,
		)
		return nil, fmt.Errorf("upserting user: %w", err)
	}

	slog.InfoContext(ctx, "user upserted", "uid", uid)
	return user, nil
}

func (s *userService) Get(ctx context.Context, uid string) (*model.User, error) {
	user, err := s.userStore.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return user, nil
}

func (s *userService) UpdateLocation(ctx context.Context, uid string, loc model.Location) (*model.User, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return nil, required("uid")
	}
	if err := validateCoordinate(loc.Latitude, loc.Longitude); err != nil {
		return nil, err
	}

	user, err := s.userStore.UpdateLocation(ctx, uid, loc)
	if err != nil {
		slog.ErrorContext(ctx, "failed to update user location",
			"error", err,
			"uid", uid,
		)
		return nil, fmt.Errorf("updating location: %w", err)
	}
	return user, nil
}

func validateCoordinate(lat, lng float64) error {
	if lat < -90 || lat > 90 {
		return invalid("latitude", "must be between -90 and 90")
	}
	if lng < -180 || lng > 180 {
		return invalid("longitude", "must be between -180 and 180")
	}
	return nil
}

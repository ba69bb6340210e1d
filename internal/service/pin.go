package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"pinboard.app/api/common/id"
	"pinboard.app/api/common/logger"
	"pinboard.app/api/internal/model"
	"pinboard.app/api/internal/store"
)

type CreatePinParams struct {
	OwnerUID    string
	Latitude    float64
	Longitude   float64
	EventDate   time.Time
	Title       string
	Category    model.PinCategory
	Description string
	Location    string
	CityCountry string
}

func (p CreatePinParams) validate() error {
	if strings.TrimSpace(p.OwnerUID) == "" {
		return required("owner_uid")
	}
	if strings.TrimSpace(p.Title) == "" {
		return required("title")
	}
	if p.EventDate.IsZero() {
		return required("event_date")
	}
	if !p.Category.IsValid() {
		return invalid("category", fmt.Sprintf("unknown category %q", p.Category))
	}
	return validateCoordinate(p.Latitude, p.Longitude)
}

type PinService interface {
	Create(ctx context.Context, params CreatePinParams) (*model.Pin, error)
	Get(ctx context.Context, id int64) (*model.Pin, error)
	List(ctx context.Context) ([]model.Pin, error)
}

type pinService struct {
	pinStore store.PinStore
	txRunner TxRunner
}

func NewPinService(pinStore store.PinStore, txRunner TxRunner) PinService {
	return &pinService{
		pinStore: pinStore,
		txRunner: txRunner,
	}
}

func (s *pinService) Create(ctx context.Context, params CreatePinParams) (*model.Pin, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	pin := &model.Pin{
		ID:          id.New(),
		OwnerUID:    params.OwnerUID,
		Latitude:    params.Latitude,
		Longitude:   params.Longitude,
		EventDate:   params.EventDate.UTC(),
		Title:       strings.TrimSpace(params.Title),
		Category:    params.Category,
		Description: params.Description,
		Location:    params.Location,
		CityCountry: params.CityCountry,
	}
	ctx = logger.WithLogFields(ctx, logger.LogFields{PinID: logger.Ptr(pin.ID), UID: logger.Ptr(pin.OwnerUID)})

	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		exists, err := stores.Users().Exists(ctx, params.OwnerUID)
		if err != nil {
			return fmt.Errorf("checking owner: %w", err)
		}
		if !exists {
			return ErrUserNotFound
		}
		return stores.Pins().Create(ctx, pin)
	})
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
		slog.ErrorContext(ctx, "failed to create pin", "error", err)
		return nil, fmt.Errorf("creating pin: %w", err)
	}

	slog.InfoContext(ctx, "pin created", "category", pin.Category)
	return pin, nil
}

func (s *pinService) Get(ctx context.Context, pinID int64) (*model.Pin, error) {
	pin, err := s.pinStore.GetByID(ctx, pinID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPinNotFound
		}
		return nil, fmt.Errorf("getting pin: %w", err)
	}
	return pin, nil
}

func (s *pinService) List(ctx context.Context) ([]model.Pin, error) {
	pins, err := s.pinStore.List(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list pins", "error", err)
		return nil, fmt.Errorf("listing pins: %w", err)
	}
	return pins, nil
}

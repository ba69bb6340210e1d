package dto

import (
	"time"

	"pinboard.app/api/internal/model"
)

type CreatePinRequest struct {
	OwnerUID    string    `json:"owner_uid" binding:"required"`
	Latitude    *float64  `json:"latitude" binding:"required"`
	Longitude   *float64  `json:"longitude" binding:"required"`
	EventDate   time.Time `json:"event_date"`
	Title       string    `json:"title" binding:"required,max=255"`
	Category    string    `json:"category" binding:"required"`
	Description string    `json:"description" binding:"max=4000"`
	Location    string    `json:"location" binding:"max=255"`
	CityCountry string    `json:"city_country" binding:"max=255"`
}

type PinResponse struct {
	ID          int64     `json:"id,string"`
	OwnerUID    string    `json:"owner_uid"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	EventDate   time.Time `json:"event_date"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	CityCountry string    `json:"city_country"`
	Attendees   []string  `json:"attendees"`
	CreatedAt   time.Time `json:"created_at"`
}

func ToPinResponse(p *model.Pin) PinResponse {
	attendees := p.Attendees
	if attendees == nil {
		attendees = []string{}
	}
	return PinResponse{
		ID:          p.ID,
		OwnerUID:    p.OwnerUID,
		Latitude:    p.Latitude,
		Longitude:   p.Longitude,
		EventDate:   p.EventDate,
		Title:       p.Title,
		Category:    string(p.Category),
		Description: p.Description,
		Location:    p.Location,
		CityCountry: p.CityCountry,
		Attendees:   attendees,
		CreatedAt:   p.CreatedAt,
	}
}

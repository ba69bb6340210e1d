package model

import (
	"slices"
	"time"
)

type PinCategory string

const (
	PinCategoryTrip       PinCategory = "trip"
	PinCategoryParty      PinCategory = "party"
	PinCategoryAttraction PinCategory = "attraction"
	PinCategoryFood       PinCategory = "food"
	PinCategoryNightlife  PinCategory = "nightlife"
	PinCategoryBeach      PinCategory = "beach"
	PinCategorySport      PinCategory = "sport"
	PinCategoryOther      PinCategory = "other"
)

var pinCategories = []PinCategory{
	PinCategoryTrip,
	PinCategoryParty,
	PinCategoryAttraction,
	PinCategoryFood,
	PinCategoryNightlife,
	PinCategoryBeach,
	PinCategorySport,
	PinCategoryOther,
}

func (c PinCategory) IsValid() bool {
	return slices.Contains(pinCategories, c)
}

// Pin is a geotagged event. Attendees holds the approved uids; it never
// contains OwnerUID and is only grown by accepting an EventRequest.
type Pin struct {
	ID          int64       `json:"id"`
	OwnerUID    string      `json:"owner_uid"`
	Latitude    float64     `json:"latitude"`
	Longitude   float64     `json:"longitude"`
	EventDate   time.Time   `json:"event_date"`
	Title       string      `json:"title"`
	Category    PinCategory `json:"category"`
	Description string      `json:"description"`
	Location    string      `json:"location"`
	CityCountry string      `json:"city_country"`
	Attendees   []string    `json:"attendees"`
	CreatedAt   time.Time   `json:"created_at"`
}

func (p Pin) HasAttendee(uid string) bool {
	return slices.Contains(p.Attendees, uid)
}

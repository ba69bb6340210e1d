package model

import "time"

// Location is a WGS84 coordinate.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type User struct {
	UID             string    `json:"uid"`
	DisplayName     string    `json:"display_name"`
	ProfileImageURL *string   `json:"profile_image_url,omitempty"`
	Location        *Location `json:"location,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

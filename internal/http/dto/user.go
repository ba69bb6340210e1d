package dto

import (
	"time"

	"pinboard.app/api/internal/model"
)

type UpsertUserRequest struct {
	UID             string  `json:"uid" binding:"required,max=128"`
	DisplayName     string  `json:"display_name" binding:"required,min=1,max=255"`
	ProfileImageURL *string `json:"profile_image_url,omitempty" binding:"omitempty,url,max=2048"`
}

// UpdateLocationRequest uses pointers so that 0 is a valid coordinate.
type UpdateLocationRequest struct {
	UID       string   `json:"uid" binding:"required"`
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
}

type LocationResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type UserResponse struct {
	UID             string            `json:"uid"`
	DisplayName     string            `json:"display_name"`
	ProfileImageURL *string           `json:"profile_image_url,omitempty"`
	Location        *LocationResponse `json:"location,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

func ToUserResponse(u *model.User) *UserResponse {
	resp := &UserResponse{
		UID:             u.UID,
		DisplayName:     u.DisplayName,
		ProfileImageURL: u.ProfileImageURL,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
	if u.Location != nil {
		resp.Location = &LocationResponse{Latitude: u.Location.Latitude, Longitude: u.Location.Longitude}
	}
	return resp
}

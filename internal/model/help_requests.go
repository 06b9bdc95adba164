package model

import "time"

// HelpRequest is a relief intake entry ("Food, Medicine" etc.).
// No moderation lifecycle: submitted by a member, triaged by admins.
type HelpRequest struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Latitude  float64   `json:"lat"`
	Longitude float64   `json:"lng"`
	Needs     []string  `json:"needs"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"createdAt"`
}

type CreateHelpRequest struct {
	Name      string   `json:"name" validate:"required"`
	Phone     string   `json:"phone" validate:"required"`
	Latitude  float64  `json:"lat" validate:"latitude"`
	Longitude float64  `json:"lng" validate:"longitude"`
	Needs     []string `json:"needs" validate:"required,min=1"`
	Details   string   `json:"details"`
}

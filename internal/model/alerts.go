package model

import "time"

// Alert severities used by the official feed.
const (
	AlertImmediate = "immediate"
	AlertWatch     = "watch"
	AlertAdvisory  = "advisory"
)

// Alert is an official notice published by an admin. Alerts have no
// status machine: created by admin, deleted by admin, otherwise immutable.
type Alert struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Severity  string    `json:"severity"`
	Source    string    `json:"source"`
	Icon      string    `json:"icon,omitempty"`
	Timestamp time.Time `json:"timestamp"`

	// Area is the affected region outline, decoded from the stored
	// polyline. Empty for point-less advisories.
	Area [][]float64 `json:"area,omitempty"`
}

type CreateAlertRequest struct {
	Title    string      `json:"title" validate:"required"`
	Content  string      `json:"content" validate:"required"`
	Severity string      `json:"severity" validate:"required"`
	Source   string      `json:"source"`
	Icon     string      `json:"icon"`
	Area     [][]float64 `json:"area"`
}

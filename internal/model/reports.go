package model

import (
	"time"
)

// Report statuses. Transitions are pending -> approved or
// pending -> rejected only; both end states are terminal.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Known report types. Unknown values are accepted and fall back
// to the default rendering on the map.
const (
	TypeFlood        = "flood"
	TypeLandslide    = "landslide"
	TypeRoadBlock    = "road-block"
	TypeSafeZone     = "safe-zone"
	TypeRescueNeeded = "rescue-needed"
	TypeMedical      = "medical"
)

// Report severities. A report submitted without a severity is
// treated as low.
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

type Report struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	Severity    string    `json:"severity"`
	Status      string    `json:"status"`
	Latitude    float64   `json:"lat"`
	Longitude   float64   `json:"lng"`
	SubmittedBy string    `json:"submittedBy"`
	Timestamp   time.Time `json:"timestamp"`
}

type CreateReportRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Type        string  `json:"type" validate:"required"`
	Severity    string  `json:"severity"`
	Latitude    float64 `json:"lat" validate:"latitude"`
	Longitude   float64 `json:"lng" validate:"longitude"`
	SubmittedBy string  `json:"submittedBy"`
}

package model

import "time"

// SituationReport is an uploaded field document (photo, scanned form).
// The file itself lives in object storage; only the URL is kept here.
type SituationReport struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	SubmittedBy string    `json:"submittedBy"`
	Timestamp   time.Time `json:"timestamp"`
	FileName    string    `json:"fileName,omitempty"`
	FileType    string    `json:"fileType,omitempty"`
	FileURL     string    `json:"fileUrl,omitempty"`
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// FileRef points at one uploaded file in object storage. The sequence is
// set once at intake and its order is preserved; the first entry that
// classifies as an image is the dashboard's primary preview.
type FileRef struct {
	URL string `json:"url"`
	// FileKey is the object storage key, set only for files uploaded through
	// intake. External references have none and cannot be presigned.
	FileKey    string     `json:"fileKey,omitempty"`
	Name       string     `json:"name"`
	MIMEType   string     `json:"mimeType"`
	SizeBytes  int64      `json:"sizeBytes"`
	CapturedAt *time.Time `json:"capturedAt,omitempty"`
}

// Note is one dashboard annotation. Notes are append-only.
type Note struct {
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Lead is the central entity: one customer service request flowing through
// the intake and analysis pipeline.
type Lead struct {
	ID          int64
	CompanyID   *uuid.UUID
	Name        string
	Email       string
	Phone       string
	Category    string
	Description string
	Files       []FileRef
	Status      Status
	Analysis    Analysis
	Notes       []Note
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

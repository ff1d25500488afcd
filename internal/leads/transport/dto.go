// Package transport defines the wire-level request and response shapes for
// the leads module.
package transport

import (
	"time"

	"leadpilot_backend/internal/leads/domain"
)

// SubmitRequest is the JSON body variant of the intake form, used when the
// frontend pre-uploaded files and submits references.
type SubmitRequest struct {
	Company         string       `json:"company"`
	Name            string       `json:"name" validate:"required,max=200"`
	Email           string       `json:"email" validate:"required,email"`
	Phone           string       `json:"phone" validate:"required"`
	Category        string       `json:"category" validate:"required,max=100"`
	Description     string       `json:"description" validate:"required,max=5000"`
	ConfirmNoPhotos bool         `json:"confirmNoPhotos"`
	FileURLs        []FileRefDTO `json:"fileUrls" validate:"dive"`
}

// FileRefDTO mirrors domain.FileRef on the wire.
type FileRefDTO struct {
	URL       string `json:"url" validate:"required,url"`
	Name      string `json:"name"`
	MimeType  string `json:"mimeType"`
	SizeBytes int64  `json:"sizeBytes"`
}

// ToDomain converts wire file references to domain refs.
func (f FileRefDTO) ToDomain() domain.FileRef {
	return domain.FileRef{
		URL:       f.URL,
		Name:      f.Name,
		MIMEType:  f.MimeType,
		SizeBytes: f.SizeBytes,
	}
}

// SubmitResponse confirms intake to the customer.
type SubmitResponse struct {
	Success       bool  `json:"success"`
	LeadID        int64 `json:"leadId"`
	FilesUploaded int   `json:"filesUploaded"`
}

// UpdateStatusRequest moves a lead to a contractor-assignable status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// AddNoteRequest appends one annotation to a lead.
type AddNoteRequest struct {
	Text string `json:"text"`
}

// LeadResponse is the dashboard view of one lead.
type LeadResponse struct {
	ID          int64            `json:"id"`
	CompanyID   *string          `json:"companyId,omitempty"`
	Name        string           `json:"name"`
	Email       string           `json:"email"`
	Phone       string           `json:"phone"`
	Category    string           `json:"category"`
	Description string           `json:"description"`
	FileURLs    []domain.FileRef `json:"fileUrls"`
	Status      string           `json:"status"`
	AIAnalysis  domain.Analysis  `json:"aiAnalysis"`
	Notes       []domain.Note    `json:"notes"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// FromDomain converts a lead entity to its response shape.
func FromDomain(lead *domain.Lead) LeadResponse {
	resp := LeadResponse{
		ID:          lead.ID,
		Name:        lead.Name,
		Email:       lead.Email,
		Phone:       lead.Phone,
		Category:    lead.Category,
		Description: lead.Description,
		FileURLs:    lead.Files,
		Status:      string(lead.Status),
		AIAnalysis:  lead.Analysis,
		Notes:       lead.Notes,
		CreatedAt:   lead.CreatedAt,
		UpdatedAt:   lead.UpdatedAt,
	}
	if lead.CompanyID != nil {
		id := lead.CompanyID.String()
		resp.CompanyID = &id
	}
	if resp.FileURLs == nil {
		resp.FileURLs = []domain.FileRef{}
	}
	if resp.Notes == nil {
		resp.Notes = []domain.Note{}
	}
	return resp
}

// CountsResponse is the dashboard aggregate view.
type CountsResponse struct {
	Total     int            `json:"total"`
	NewLast24 int            `json:"newLast24h"`
	ByStatus  map[string]int `json:"byStatus"`
}

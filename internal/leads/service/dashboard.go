package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"leadpilot_backend/internal/adapters/storage"
	"leadpilot_backend/internal/leads/domain"
	"leadpilot_backend/internal/leads/repository"
	"leadpilot_backend/platform/apperr"
	"leadpilot_backend/platform/sanitize"

	"github.com/google/uuid"
)

// ListQuery narrows the dashboard listing. Zero values mean "no filter".
type ListQuery struct {
	CompanyID *uuid.UUID
	Status    string
	Category  string
	Search    string
	Since     *time.Time
	Until     *time.Time
	Limit     int
}

// List returns leads most-recent-first. Contractors are scoped to their own
// company; a nil companyID lists globally (admin).
func (s *Service) List(ctx context.Context, query ListQuery) ([]*domain.Lead, error) {
	filter := repository.ListFilter{
		CompanyID: query.CompanyID,
		Category:  strings.TrimSpace(query.Category),
		Search:    strings.TrimSpace(query.Search),
		Since:     query.Since,
		Until:     query.Until,
		Limit:     query.Limit,
	}

	if query.Status != "" {
		parsed := domain.Status(query.Status)
		if !parsed.Valid() {
			return nil, apperr.Validation("unknown status filter")
		}
		filter.Status = &parsed
	}

	leads, err := s.repo.List(ctx, filter)
	if err != nil {
		s.log.DatabaseError("leads.list", err)
		return nil, apperr.Wrap(apperr.KindInternal, "could not load leads", err)
	}
	return leads, nil
}

// Get loads one lead, scoped to the caller's company when set.
func (s *Service) Get(ctx context.Context, id int64, companyID *uuid.UUID) (*domain.Lead, error) {
	var lead *domain.Lead
	var err error
	if companyID != nil {
		lead, err = s.repo.GetByIDForCompany(ctx, id, *companyID)
	} else {
		lead, err = s.repo.GetByID(ctx, id)
	}
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("lead not found")
	}
	if err != nil {
		s.log.DatabaseError("leads.get", err)
		return nil, apperr.Wrap(apperr.KindInternal, "could not load lead", err)
	}
	return lead, nil
}

// FileDownloadURL issues a short-lived presigned link for one of a lead's
// stored files, scoped the same way as Get. Files submitted as external
// references carry no storage key and cannot be presigned.
func (s *Service) FileDownloadURL(ctx context.Context, id int64, fileIndex int, companyID *uuid.UUID) (*storage.PresignedURL, error) {
	if s.blobs == nil {
		return nil, apperr.NotFound("file storage is not configured")
	}

	lead, err := s.Get(ctx, id, companyID)
	if err != nil {
		return nil, err
	}
	if fileIndex < 0 || fileIndex >= len(lead.Files) {
		return nil, apperr.NotFound("file not found")
	}

	file := lead.Files[fileIndex]
	if file.FileKey == "" {
		return nil, apperr.NotFound("file is not held in storage")
	}

	presigned, err := s.blobs.GenerateDownloadURL(ctx, file.FileKey)
	if err != nil {
		s.log.WithLead(id).Error("presign download failed", "fileKey", file.FileKey, "error", err)
		return nil, apperr.Wrap(apperr.KindInternal, "could not generate download link", err)
	}
	return presigned, nil
}

// Counts aggregates the dashboard headline numbers.
func (s *Service) Counts(ctx context.Context, companyID *uuid.UUID) (*repository.StatusCounts, error) {
	counts, err := s.repo.CountsByStatus(ctx, companyID)
	if err != nil {
		s.log.DatabaseError("leads.counts", err)
		return nil, apperr.Wrap(apperr.KindInternal, "could not load counts", err)
	}
	return counts, nil
}

// UpdateStatus performs a contractor-driven status change. The pipeline owns
// processing; contractors may only assign the post-intake statuses.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status string, companyID *uuid.UUID) error {
	target := domain.Status(status)
	if !target.ContractorAssignable() {
		return apperr.Validation("invalid lead status")
	}

	err := s.repo.UpdateStatus(ctx, id, target, companyID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("lead not found")
	}
	if err != nil {
		s.log.DatabaseError("leads.update_status", err)
		return apperr.Wrap(apperr.KindInternal, "could not update lead", err)
	}
	return nil
}

// AddNote appends one annotation to a lead. Notes are append-only.
func (s *Service) AddNote(ctx context.Context, id int64, text string, companyID *uuid.UUID) error {
	cleaned := strings.TrimSpace(sanitize.Text(text))
	if cleaned == "" {
		return apperr.Validation("note text is required")
	}

	err := s.repo.AppendNote(ctx, id, companyID, cleaned)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("lead not found")
	}
	if err != nil {
		s.log.DatabaseError("leads.add_note", err)
		return apperr.Wrap(apperr.KindInternal, "could not add note", err)
	}
	return nil
}

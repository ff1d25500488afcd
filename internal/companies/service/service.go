// Package service implements company provisioning and lookup.
package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"leadpilot_backend/internal/auth/password"
	"leadpilot_backend/internal/companies/repository"
	"leadpilot_backend/internal/events"
	"leadpilot_backend/platform/apperr"
	"leadpilot_backend/platform/logger"

	"github.com/google/uuid"
)

// Slugs are the public URL handle of a company, locked at creation.
var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

type Service struct {
	repo *repository.Repository
	bus  events.Bus
	log  *logger.Logger
}

func New(repo *repository.Repository, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, log: log}
}

// CreateInput provisions a tenant: the company record plus its first
// contractor login.
type CreateInput struct {
	Name            string
	Slug            string
	Email           string
	Phone           string
	ContractorName  string
	ContractorEmail string
	Password        string
}

// Create provisions a company and its contractor account atomically.
func (s *Service) Create(ctx context.Context, input CreateInput) (*repository.Company, error) {
	slug := strings.ToLower(strings.TrimSpace(input.Slug))
	if !slugPattern.MatchString(slug) {
		return nil, apperr.Validation("slug must be lowercase letters, digits, and hyphens")
	}
	if len(input.Password) < 8 {
		return nil, apperr.Validation("password must be at least 8 characters")
	}

	hash, err := password.Hash(input.Password)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "could not create company", err)
	}

	company, err := s.repo.Create(ctx, repository.CreateParams{
		Name:            strings.TrimSpace(input.Name),
		Slug:            slug,
		Email:           strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:           strings.TrimSpace(input.Phone),
		ContractorName:  strings.TrimSpace(input.ContractorName),
		ContractorEmail: strings.ToLower(strings.TrimSpace(input.ContractorEmail)),
		PasswordHash:    hash,
	})
	switch {
	case errors.Is(err, repository.ErrSlugTaken):
		return nil, apperr.Conflict("slug already in use")
	case errors.Is(err, repository.ErrEmailTaken):
		return nil, apperr.Conflict("email already in use")
	case err != nil:
		s.log.DatabaseError("companies.create", err)
		return nil, apperr.Wrap(apperr.KindInternal, "could not create company", err)
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.CompanyCreated{
			BaseEvent:    events.NewBaseEvent(),
			CompanyID:    company.ID,
			Slug:         company.Slug,
			ContactEmail: company.Email,
		})
	}
	return company, nil
}

// List returns all companies for the admin dashboard.
func (s *Service) List(ctx context.Context) ([]*repository.Company, error) {
	companies, err := s.repo.List(ctx)
	if err != nil {
		s.log.DatabaseError("companies.list", err)
		return nil, apperr.Wrap(apperr.KindInternal, "could not load companies", err)
	}
	return companies, nil
}

// GetBySlug loads intake-form branding for a public slug.
func (s *Service) GetBySlug(ctx context.Context, slug string) (*repository.Company, error) {
	company, err := s.repo.GetBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("company not found")
	}
	if err != nil {
		s.log.DatabaseError("companies.get_by_slug", err)
		return nil, apperr.Wrap(apperr.KindInternal, "could not load company", err)
	}
	return company, nil
}

// Contact returns the notification address for a company.
func (s *Service) Contact(ctx context.Context, id uuid.UUID) (name, email string, err error) {
	company, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return "", "", apperr.NotFound("company not found")
	}
	if err != nil {
		s.log.DatabaseError("companies.contact", err)
		return "", "", apperr.Wrap(apperr.KindInternal, "could not load company", err)
	}
	return company.Name, company.Email, nil
}

// ResolveSlug maps a slug to a company id for lead intake. Unknown slugs
// resolve to nil so the lead is stored unscoped rather than rejected.
func (s *Service) ResolveSlug(ctx context.Context, slug string) (*uuid.UUID, error) {
	company, err := s.repo.GetBySlug(ctx, slug)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		s.log.DatabaseError("companies.resolve_slug", err)
		return nil, nil
	}
	id := company.ID
	return &id, nil
}

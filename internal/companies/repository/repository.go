// Package repository persists contractor companies and their login accounts.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrSlugTaken  = errors.New("slug already in use")
	ErrEmailTaken = errors.New("email already in use")
)

const uniqueViolation = "23505"

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Company is one contractor tenant. Rows are immutable after creation.
type Company struct {
	ID        uuid.UUID
	Name      string
	Slug      string
	Email     string
	Phone     string
	CreatedAt time.Time
}

// CreateParams creates a company together with its first contractor login.
type CreateParams struct {
	Name            string
	Slug            string
	Email           string
	Phone           string
	ContractorName  string
	ContractorEmail string
	PasswordHash    string
}

// Create inserts the company and its contractor user in one transaction.
// Either both rows commit or neither does.
func (r *Repository) Create(ctx context.Context, params CreateParams) (*Company, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var company Company
	err = tx.QueryRow(ctx, `
		INSERT INTO companies (name, slug, email, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, slug, email, phone, created_at
	`, params.Name, params.Slug, params.Email, params.Phone).Scan(
		&company.ID,
		&company.Name,
		&company.Slug,
		&company.Email,
		&company.Phone,
		&company.CreatedAt,
	)
	if err != nil {
		return nil, mapConstraint(err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO users (email, password_hash, name, role, company_id)
		VALUES ($1, $2, $3, 'contractor', $4)
	`, params.ContractorEmail, params.PasswordHash, params.ContractorName, company.ID)
	if err != nil {
		return nil, mapConstraint(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &company, nil
}

// List returns all companies, newest first.
func (r *Repository) List(ctx context.Context) ([]*Company, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, slug, email, phone, created_at
		FROM companies
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	companies := make([]*Company, 0)
	for rows.Next() {
		var company Company
		if err := rows.Scan(
			&company.ID,
			&company.Name,
			&company.Slug,
			&company.Email,
			&company.Phone,
			&company.CreatedAt,
		); err != nil {
			return nil, err
		}
		companies = append(companies, &company)
	}
	return companies, rows.Err()
}

// GetByID loads one company by primary key.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Company, error) {
	var company Company
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, slug, email, phone, created_at
		FROM companies
		WHERE id = $1
	`, id).Scan(
		&company.ID,
		&company.Name,
		&company.Slug,
		&company.Email,
		&company.Phone,
		&company.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &company, nil
}

// GetBySlug loads one company by its public slug.
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*Company, error) {
	var company Company
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, slug, email, phone, created_at
		FROM companies
		WHERE slug = $1
	`, slug).Scan(
		&company.ID,
		&company.Name,
		&company.Slug,
		&company.Email,
		&company.Phone,
		&company.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &company, nil
}

func mapConstraint(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		switch pgErr.ConstraintName {
		case "companies_slug_key":
			return ErrSlugTaken
		case "users_email_key":
			return ErrEmailTaken
		}
	}
	return err
}

// Package repository persists leads in Postgres. JSON-shaped columns
// (file_urls, ai_analysis, notes) go through defensive double-decode on read
// because historical rows may hold either native JSON or a JSON string.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"leadpilot_backend/internal/leads/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("lead not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const leadColumns = `id, company_id, name, email, phone, category, description,
	file_urls, status, ai_analysis, notes, created_at, updated_at`

// Create inserts a new lead. Every lead starts in processing with a pending
// placeholder analysis; the returned id only exists once the row committed.
func (r *Repository) Create(ctx context.Context, lead *domain.Lead) (int64, error) {
	filesJSON, err := json.Marshal(lead.Files)
	if err != nil {
		return 0, fmt.Errorf("marshal file_urls: %w", err)
	}
	analysisJSON, err := json.Marshal(domain.PendingAnalysis())
	if err != nil {
		return 0, fmt.Errorf("marshal ai_analysis: %w", err)
	}

	var id int64
	err = r.pool.QueryRow(ctx, `
		INSERT INTO leads (company_id, name, email, phone, category, description, file_urls, status, ai_analysis, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, '[]'::jsonb)
		RETURNING id
	`, lead.CompanyID, lead.Name, lead.Email, lead.Phone, lead.Category, lead.Description,
		filesJSON, domain.StatusProcessing, analysisJSON).Scan(&id)
	if err != nil {
		return 0, err
	}

	return id, nil
}

// GetByID loads a single lead.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Lead, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)
	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return lead, err
}

// GetByIDForCompany loads a lead scoped to a company. Contractors can only
// read leads belonging to their own company.
func (r *Repository) GetByIDForCompany(ctx context.Context, id int64, companyID uuid.UUID) (*domain.Lead, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1 AND company_id = $2`, id, companyID)
	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return lead, err
}

// ListProcessing returns the oldest leads still in processing, capped at
// limit. The sweep feeds on this.
func (r *Repository) ListProcessing(ctx context.Context, limit int) ([]*domain.Lead, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		WHERE status = $1
		ORDER BY created_at ASC
		LIMIT $2
	`, domain.StatusProcessing, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanLeads(rows)
}

// CompleteProcessing writes the pipeline's terminal state for a lead: status
// and analysis in one full-row write, guarded so only a lead still in
// processing is updated. Returns false when another caller already finished
// the lead, which makes concurrent advance calls safe.
func (r *Repository) CompleteProcessing(ctx context.Context, id int64, status domain.Status, analysis domain.Analysis) (bool, error) {
	analysisJSON, err := json.Marshal(analysis)
	if err != nil {
		return false, fmt.Errorf("marshal ai_analysis: %w", err)
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE leads
		SET status = $1, ai_analysis = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4
	`, status, analysisJSON, id, domain.StatusProcessing)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() == 1, nil
}

// UpdateStatus performs a contractor-driven status change, scoped to the
// contractor's company unless companyID is nil (admin).
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.Status, companyID *uuid.UUID) error {
	var tag pgconn.CommandTag
	var err error
	if companyID != nil {
		tag, err = r.pool.Exec(ctx, `
			UPDATE leads SET status = $1, updated_at = NOW()
			WHERE id = $2 AND company_id = $3
		`, status, id, *companyID)
	} else {
		tag, err = r.pool.Exec(ctx, `
			UPDATE leads SET status = $1, updated_at = NOW()
			WHERE id = $2
		`, status, id)
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListFilter narrows the dashboard listing.
type ListFilter struct {
	CompanyID *uuid.UUID
	Status    *domain.Status
	Category  string
	Search    string
	Since     *time.Time
	Until     *time.Time
	Limit     int
}

// List returns leads most-recent-first. A nil CompanyID lists globally (admin).
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]*domain.Lead, error) {
	query, args := buildListQuery(filter)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanLeads(rows)
}

func buildListQuery(filter ListFilter) (string, []interface{}) {
	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	query := `SELECT ` + leadColumns + ` FROM leads WHERE 1=1`
	args := make([]interface{}, 0, 7)

	if filter.CompanyID != nil {
		args = append(args, *filter.CompanyID)
		query += fmt.Sprintf(" AND company_id = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		query += fmt.Sprintf(" AND (name ILIKE $%d OR email ILIKE $%d OR phone ILIKE $%d OR description ILIKE $%d)", n, n, n, n)
	}
	if filter.Since != nil {
		args = append(args, *filter.Since)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if filter.Until != nil {
		args = append(args, *filter.Until)
		query += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))

	return query, args
}

func scanLeads(rows pgx.Rows) ([]*domain.Lead, error) {
	leads := make([]*domain.Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return leads, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLead(row rowScanner) (*domain.Lead, error) {
	var (
		lead        domain.Lead
		filesRaw    []byte
		analysisRaw []byte
		notesRaw    []byte
		createdAt   time.Time
		updatedAt   time.Time
	)

	err := row.Scan(&lead.ID, &lead.CompanyID, &lead.Name, &lead.Email, &lead.Phone,
		&lead.Category, &lead.Description, &filesRaw, &lead.Status, &analysisRaw,
		&notesRaw, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if err := decodeJSONColumn(filesRaw, &lead.Files); err != nil {
		return nil, fmt.Errorf("decode file_urls for lead %d: %w", lead.ID, err)
	}
	if err := decodeJSONColumn(analysisRaw, &lead.Analysis); err != nil {
		return nil, fmt.Errorf("decode ai_analysis for lead %d: %w", lead.ID, err)
	}
	if err := decodeJSONColumn(notesRaw, &lead.Notes); err != nil {
		return nil, fmt.Errorf("decode notes for lead %d: %w", lead.ID, err)
	}

	lead.CreatedAt = createdAt
	lead.UpdatedAt = updatedAt
	return &lead, nil
}

// decodeJSONColumn tolerates both a native JSON value and a JSON value that
// was stored as a quoted string (double-encoded by older writers).
func decodeJSONColumn(raw []byte, target interface{}) error {
	if len(raw) == 0 {
		return nil
	}

	var inner string
	if err := json.Unmarshal(raw, &inner); err == nil {
		if inner == "" {
			return nil
		}
		return json.Unmarshal([]byte(inner), target)
	}

	return json.Unmarshal(raw, target)
}

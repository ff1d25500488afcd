package repository

import (
	"context"

	"github.com/google/uuid"
)

// StatusCounts holds the dashboard's aggregate view of a company's leads.
type StatusCounts struct {
	ByStatus  map[string]int
	Total     int
	NewLast24 int
}

// CountsByStatus aggregates lead counts per status plus the "new in the last
// 24 hours" figure. A nil companyID aggregates globally (admin).
func (r *Repository) CountsByStatus(ctx context.Context, companyID *uuid.UUID) (*StatusCounts, error) {
	query := `
		SELECT status, COUNT(*), COUNT(*) FILTER (WHERE created_at > NOW() - INTERVAL '24 hours')
		FROM leads
	`
	args := make([]interface{}, 0, 1)
	if companyID != nil {
		query += ` WHERE company_id = $1`
		args = append(args, *companyID)
	}
	query += ` GROUP BY status`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := &StatusCounts{ByStatus: make(map[string]int)}
	for rows.Next() {
		var status string
		var total, recent int
		if err := rows.Scan(&status, &total, &recent); err != nil {
			return nil, err
		}
		counts.ByStatus[status] = total
		counts.Total += total
		counts.NewLast24 += recent
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return counts, nil
}

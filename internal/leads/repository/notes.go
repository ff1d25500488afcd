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
)

// AppendNote adds one note to a lead. Notes are append-only: the existing
// list is read, the note is appended, and the full list is written back.
// Concurrent appends to the same lead may lose one note (last writer wins);
// no locking is used.
func (r *Repository) AppendNote(ctx context.Context, id int64, companyID *uuid.UUID, text string) error {
	var notesRaw []byte
	var err error
	if companyID != nil {
		err = r.pool.QueryRow(ctx, `SELECT notes FROM leads WHERE id = $1 AND company_id = $2`, id, *companyID).Scan(&notesRaw)
	} else {
		err = r.pool.QueryRow(ctx, `SELECT notes FROM leads WHERE id = $1`, id).Scan(&notesRaw)
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	notes := make([]domain.Note, 0)
	if err := decodeJSONColumn(notesRaw, &notes); err != nil {
		return fmt.Errorf("decode notes for lead %d: %w", id, err)
	}

	notes = append(notes, domain.Note{Text: text, Timestamp: time.Now().UTC()})

	updated, err := json.Marshal(notes)
	if err != nil {
		return fmt.Errorf("marshal notes: %w", err)
	}

	_, err = r.pool.Exec(ctx, `UPDATE leads SET notes = $1, updated_at = NOW() WHERE id = $2`, updated, id)
	return err
}

package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"pilemap/domain/sheet"
	"pilemap/internal/errors"
	"pilemap/ports"
)

// ImportHistoryRepository persists the extraction audit trail in Postgres.
type ImportHistoryRepository struct {
	db *sqlx.DB
}

// NewImportHistoryRepository creates an import history repository.
func NewImportHistoryRepository(db *sqlx.DB) *ImportHistoryRepository {
	return &ImportHistoryRepository{db: db}
}

// EnsureSchema creates the import_history table when absent.
func (r *ImportHistoryRepository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS import_history (
			id UUID PRIMARY KEY,
			sheet_name TEXT NOT NULL,
			row_count INTEGER NOT NULL,
			is_fallback BOOLEAN NOT NULL,
			mode TEXT NOT NULL,
			letters JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return errors.Wrap(err, "failed to create import_history table")
	}
	return nil
}

// Record inserts one audit row for a successful extraction.
func (r *ImportHistoryRepository) Record(ctx context.Context, rec ports.ImportRecord) error {
	lettersJSON, err := json.Marshal(rec.Letters)
	if err != nil {
		return errors.Wrap(err, "failed to marshal column letters")
	}

	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO import_history (id, sheet_name, row_count, is_fallback, mode, letters, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err = r.db.ExecContext(ctx, query,
		rec.ID,
		rec.SheetName,
		rec.RowCount,
		rec.IsFallback,
		rec.Mode,
		lettersJSON,
		rec.CreatedAt,
	)
	if err != nil {
		return errors.Wrap(err, "failed to insert import record")
	}
	return nil
}

// Recent returns the latest import records, newest first.
func (r *ImportHistoryRepository) Recent(ctx context.Context, limit int) ([]ports.ImportRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, sheet_name, row_count, is_fallback, mode, letters, created_at
		FROM import_history
		ORDER BY created_at DESC
		LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query import history")
	}
	defer rows.Close()

	var records []ports.ImportRecord
	for rows.Next() {
		var rec ports.ImportRecord
		var lettersJSON []byte
		if err := rows.Scan(&rec.ID, &rec.SheetName, &rec.RowCount, &rec.IsFallback, &rec.Mode, &lettersJSON, &rec.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan import record")
		}
		var letters sheet.ColumnLetters
		if err := json.Unmarshal(lettersJSON, &letters); err == nil {
			rec.Letters = letters
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate import history")
	}
	return records, nil
}

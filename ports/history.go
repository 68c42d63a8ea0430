package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"pilemap/domain/sheet"
)

// ImportRecord is one audit entry for a successful extraction.
type ImportRecord struct {
	ID         uuid.UUID           `json:"id"`
	SheetName  string              `json:"sheet_name"`
	RowCount   int                 `json:"row_count"`
	IsFallback bool                `json:"is_fallback"`
	Mode       string              `json:"mode"` // "auto" or "manual"
	Letters    sheet.ColumnLetters `json:"letters"`
	CreatedAt  time.Time           `json:"created_at"`
}

// ImportHistory stores the audit trail of extractions. Writes happen
// opportunistically after a successful extraction and are never allowed to
// fail the extraction itself.
type ImportHistory interface {
	Record(ctx context.Context, rec ImportRecord) error
	Recent(ctx context.Context, limit int) ([]ImportRecord, error)
}

package sheet

import (
	"strings"

	"pilemap/internal/errors"
)

// DefaultBlankStreakLimit is how many consecutive fully blank rows the
// extractor tolerates before treating the remainder as trailing noise.
const DefaultBlankStreakLimit = 25

// Extract walks rows from startOffset, coercing the five mapped cells of
// every non-blank row into synchronized sequences. Isolated blank rows are
// skipped; a run of blankStreakLimit consecutive blanks stops the scan.
// Fails with NO_DATA_FOUND when zero rows survive.
//
// The caller stamps SheetName and IsFallback on the result.
func Extract(raw RawSheet, mapping ColumnMapping, startOffset, blankStreakLimit int) (*ExtractionResult, error) {
	if blankStreakLimit <= 0 {
		blankStreakLimit = DefaultBlankStreakLimit
	}
	if startOffset < 0 {
		startOffset = 0
	}

	result := &ExtractionResult{}
	blanks := 0
	for i := startOffset; i < len(raw); i++ {
		cells := [5]string{
			raw.Cell(i, mapping.Frame),
			raw.Cell(i, mapping.Pole),
			raw.Cell(i, mapping.X),
			raw.Cell(i, mapping.Y),
			raw.Cell(i, mapping.Z),
		}
		if rowBlank(cells) {
			blanks++
			if blanks >= blankStreakLimit {
				break
			}
			continue
		}
		blanks = 0
		result.Frame = append(result.Frame, Coerce(cells[0]))
		result.Pole = append(result.Pole, Coerce(cells[1]))
		result.X = append(result.X, Coerce(cells[2]))
		result.Y = append(result.Y, Coerce(cells[3]))
		result.Z = append(result.Z, Coerce(cells[4]))
	}

	if len(result.Pole) == 0 {
		return nil, errors.NoDataFound()
	}
	return result, nil
}

// rowBlank reports whether all five mapped cells are empty after trimming.
func rowBlank(cells [5]string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

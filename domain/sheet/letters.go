package sheet

import (
	"strings"

	"pilemap/internal/errors"
)

// MaxLetterLen is the longest column letter the codec accepts (A through ZZZ).
const MaxLetterLen = 3

// SanitizeLetter normalizes a user-entered column letter: uppercase, strip
// anything outside A-Z, truncate to MaxLetterLen. Idempotent.
func SanitizeLetter(input string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(input) {
		if r < 'A' || r > 'Z' {
			continue
		}
		b.WriteRune(r)
		if b.Len() == MaxLetterLen {
			break
		}
	}
	return b.String()
}

// LetterIndex converts a spreadsheet column letter to its zero-based column
// index: A=0, Z=25, AA=26. The input is sanitized first; an input that
// sanitizes to nothing yields an INVALID_COLUMN_LETTER error.
func LetterIndex(letters string) (int, error) {
	clean := SanitizeLetter(letters)
	if clean == "" {
		return 0, errors.InvalidColumnLetter("column", letters)
	}
	index := 0
	for _, r := range clean {
		index = index*26 + int(r-'A'+1)
	}
	return index - 1, nil
}

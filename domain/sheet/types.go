package sheet

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"pilemap/internal/errors"
)

// Field identifies one of the five semantic columns of a pile record.
type Field string

const (
	FieldFrame Field = "frame"
	FieldPole  Field = "pole"
	FieldX     Field = "x"
	FieldY     Field = "y"
	FieldZ     Field = "z"
)

// Fields lists the five semantic fields in canonical order.
var Fields = [5]Field{FieldFrame, FieldPole, FieldX, FieldY, FieldZ}

// ColumnLetters holds the user-chosen column letters for the five fields.
type ColumnLetters struct {
	Frame string `json:"frame"`
	Pole  string `json:"pole"`
	X     string `json:"x"`
	Y     string `json:"y"`
	Z     string `json:"z"`
}

// Sanitized returns a copy with every letter run through SanitizeLetter.
func (l ColumnLetters) Sanitized() ColumnLetters {
	return ColumnLetters{
		Frame: SanitizeLetter(l.Frame),
		Pole:  SanitizeLetter(l.Pole),
		X:     SanitizeLetter(l.X),
		Y:     SanitizeLetter(l.Y),
		Z:     SanitizeLetter(l.Z),
	}
}

// ColumnMapping holds the resolved zero-based column index for each field.
// All five indices must resolve before any extraction call.
type ColumnMapping struct {
	Frame int
	Pole  int
	X     int
	Y     int
	Z     int
}

// Index returns the resolved column index for a field.
func (m ColumnMapping) Index(f Field) int {
	switch f {
	case FieldFrame:
		return m.Frame
	case FieldPole:
		return m.Pole
	case FieldX:
		return m.X
	case FieldY:
		return m.Y
	case FieldZ:
		return m.Z
	}
	return -1
}

// ResolveLetters converts the five column letters into column indices,
// failing with INVALID_COLUMN_LETTER naming the offending field.
func ResolveLetters(letters ColumnLetters) (ColumnMapping, error) {
	var mapping ColumnMapping
	pairs := []struct {
		field  Field
		letter string
		dst    *int
	}{
		{FieldFrame, letters.Frame, &mapping.Frame},
		{FieldPole, letters.Pole, &mapping.Pole},
		{FieldX, letters.X, &mapping.X},
		{FieldY, letters.Y, &mapping.Y},
		{FieldZ, letters.Z, &mapping.Z},
	}
	for _, p := range pairs {
		idx, err := LetterIndex(p.letter)
		if err != nil {
			return ColumnMapping{}, errors.InvalidColumnLetter(string(p.field), p.letter)
		}
		*p.dst = idx
	}
	return mapping, nil
}

// RawSheet is an ordered, possibly ragged grid of raw cell values. It is
// created fresh on every load call and never mutated.
type RawSheet [][]string

// Cell returns the raw value at (row, col), or "" when the cell is absent.
func (s RawSheet) Cell(row, col int) string {
	if row < 0 || row >= len(s) {
		return ""
	}
	r := s[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}

// RowCount returns the number of rows in the grid.
func (s RawSheet) RowCount() int {
	return len(s)
}

// ValueKind discriminates coerced cell values.
type ValueKind int

const (
	ValueEmpty ValueKind = iota
	ValueNumber
	ValueText
)

// Value is a coerced cell: a finite number, a trimmed string, or empty.
type Value struct {
	Kind   ValueKind
	Number float64
	Text   string
}

// NumberValue builds a numeric Value.
func NumberValue(n float64) Value {
	return Value{Kind: ValueNumber, Number: n}
}

// TextValue builds a textual Value from an already trimmed string.
func TextValue(s string) Value {
	return Value{Kind: ValueText, Text: s}
}

// IsEmpty reports whether the value carries no content.
func (v Value) IsEmpty() bool {
	return v.Kind == ValueEmpty
}

// AsNumber returns the numeric content and whether the value is numeric.
func (v Value) AsNumber() (float64, bool) {
	if v.Kind == ValueNumber {
		return v.Number, true
	}
	return 0, false
}

// String renders the value the way it would display in a cell.
func (v Value) String() string {
	switch v.Kind {
	case ValueNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case ValueText:
		return v.Text
	}
	return ""
}

// MarshalJSON emits numbers as JSON numbers, text as strings, and empty
// values as "".
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case ValueNumber:
		return []byte(strconv.FormatFloat(v.Number, 'f', -1, 64)), nil
	case ValueText:
		return json.Marshal(v.Text)
	}
	return []byte(`""`), nil
}

// UnmarshalJSON mirrors MarshalJSON: numbers become numeric values, strings
// become text, and "" becomes empty.
func (v *Value) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*v = NumberValue(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*v = Value{}
		return nil
	}
	*v = TextValue(s)
	return nil
}

// Coerce converts a raw cell into a Value: trimmed empty stays empty, a
// finite numeric parse wins, anything else keeps the trimmed text. Applied
// uniformly to all five fields.
func Coerce(raw string) Value {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Value{}
	}
	if n, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsNaN(n) && !math.IsInf(n, 0) {
		return NumberValue(n)
	}
	return TextValue(trimmed)
}

// ExtractionResult carries the five synchronized value sequences produced by
// a scan, the resolved sheet name, and whether header detection fell back.
// Consumers derive the row count as the minimum sequence length.
type ExtractionResult struct {
	SheetName  string  `json:"sheet_name"`
	IsFallback bool    `json:"is_fallback"`
	Frame      []Value `json:"frame"`
	Pole       []Value `json:"pole"`
	X          []Value `json:"x"`
	Y          []Value `json:"y"`
	Z          []Value `json:"z"`
}

// RowCount returns the minimum length across the five sequences.
func (r *ExtractionResult) RowCount() int {
	n := len(r.Frame)
	for _, m := range []int{len(r.Pole), len(r.X), len(r.Y), len(r.Z)} {
		if m < n {
			n = m
		}
	}
	return n
}

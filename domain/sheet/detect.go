package sheet

// Detection is the outcome of a header scan. When no row qualifies the
// detector does not fail: it reports row 0 with IsFallback set so the caller
// can still surface extracted data and prompt for corrected column letters.
type Detection struct {
	HeaderRow  int
	IsFallback bool
}

// DataStartOffset is the row index of the first data row, immediately after
// the header in both the matched and the fallback case.
func (d Detection) DataStartOffset() int {
	return d.HeaderRow + 1
}

// DetectHeader scans rows top to bottom and returns the first row where all
// five mapped cells satisfy their field's acceptance rule.
func DetectHeader(raw RawSheet, mapping ColumnMapping, rules HeaderRules) Detection {
	for i := range raw {
		if headerRowMatches(raw, i, mapping, rules) {
			return Detection{HeaderRow: i}
		}
	}
	return Detection{HeaderRow: 0, IsFallback: true}
}

func headerRowMatches(raw RawSheet, row int, mapping ColumnMapping, rules HeaderRules) bool {
	for _, field := range Fields {
		text := NormalizeHeader(raw.Cell(row, mapping.Index(field)))
		if !rules[field].Match(text) {
			return false
		}
	}
	return true
}

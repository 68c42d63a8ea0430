package excel

import (
	"bytes"
	"context"
	"encoding/csv"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"pilemap/domain/sheet"
	"pilemap/internal/errors"
	"pilemap/ports"
)

// DefaultTargetSheet is the sheet the standard piling path resolves against.
const DefaultTargetSheet = "piling information"

var workbookExts = map[string]bool{
	".xlsx": true,
	".xlsm": true,
	".xltx": true,
	".xltm": true,
}

var delimitedExts = map[string]bool{
	".csv": true,
	".txt": true,
	".tsv": true,
}

// Loader opens workbook and delimited-text blobs into raw row/cell grids.
// It implements ports.SheetLoader and holds no state; every call produces a
// fresh RawSheet owned by the caller.
type Loader struct{}

// NewLoader creates a sheet loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load resolves the request's format by extension and dispatches. Workbooks
// resolve a sheet by fuzzy name match (standard path) or require exactly one
// sheet (custom path); delimited text is its own single logical sheet.
func (l *Loader) Load(_ context.Context, req ports.LoadRequest) (*ports.LoadedSheet, error) {
	ext := strings.ToLower(filepath.Ext(req.Filename))
	switch {
	case workbookExts[ext]:
		return l.loadWorkbook(req)
	case delimitedExts[ext]:
		return l.loadDelimited(req, ext)
	default:
		return nil, errors.UnsupportedFormat(ext)
	}
}

func (l *Loader) loadWorkbook(req ports.LoadRequest) (*ports.LoadedSheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(req.Content))
	if err != nil {
		return nil, errors.WithCause(errors.UnsupportedFormat(strings.ToLower(filepath.Ext(req.Filename))), err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	var name string
	if req.SingleSheet {
		if len(sheets) > 1 {
			return nil, errors.MultipleSheets(len(sheets))
		}
		if len(sheets) == 0 {
			return nil, errors.EmptySheet("workbook")
		}
		name = sheets[0]
	} else {
		target := req.TargetSheet
		if target == "" {
			target = DefaultTargetSheet
		}
		name = resolveSheetName(sheets, target)
		if name == "" {
			return nil, errors.SheetNotFound(target)
		}
	}

	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read sheet %q", name)
	}
	if len(rows) == 0 {
		return nil, errors.EmptySheet(name)
	}
	return &ports.LoadedSheet{Name: name, Rows: sheet.RawSheet(rows)}, nil
}

// resolveSheetName normalizes all candidate names and accepts an exact match
// first, else the first candidate containing the target as a substring.
func resolveSheetName(candidates []string, target string) string {
	want := sheet.NormalizeHeader(target)
	for _, c := range candidates {
		if sheet.NormalizeHeader(c) == want {
			return c
		}
	}
	for _, c := range candidates {
		if strings.Contains(sheet.NormalizeHeader(c), want) {
			return c
		}
	}
	return ""
}

func (l *Loader) loadDelimited(req ports.LoadRequest, ext string) (*ports.LoadedSheet, error) {
	r := csv.NewReader(bytes.NewReader(req.Content))
	r.Comma = delimiterFor(ext, req.Content)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse delimited text")
	}
	if len(records) == 0 {
		return nil, errors.EmptySheet(logicalSheetName(req.Filename))
	}
	return &ports.LoadedSheet{Name: logicalSheetName(req.Filename), Rows: sheet.RawSheet(records)}, nil
}

// delimiterFor picks tab for .tsv and sniffs the first line otherwise,
// preferring tab, then semicolon, then comma.
func delimiterFor(ext string, content []byte) rune {
	if ext == ".tsv" {
		return '\t'
	}
	line := content
	if i := bytes.IndexByte(content, '\n'); i >= 0 {
		line = content[:i]
	}
	switch {
	case bytes.ContainsRune(line, '\t'):
		return '\t'
	case bytes.ContainsRune(line, ';') && !bytes.ContainsRune(line, ','):
		return ';'
	default:
		return ','
	}
}

// logicalSheetName is the base filename without extension, used as the
// resolved sheet name for delimited text.
func logicalSheetName(filename string) string {
	base := filepath.Base(filename)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" || name == "." {
		return "worksheet"
	}
	return name
}

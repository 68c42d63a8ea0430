package ports

import (
	"context"

	"pilemap/domain/sheet"
)

// LoadRequest describes one sheet-loading call. Content is an already-read,
// immutable blob; the loader never touches a file system path. Filename is
// used only as the format hint and as the logical sheet name for delimited
// text.
type LoadRequest struct {
	Content []byte
	// Filename supplies the extension-based format hint.
	Filename string
	// TargetSheet is the workbook sheet to resolve by fuzzy name match on
	// the standard path. Ignored when SingleSheet is set.
	TargetSheet string
	// SingleSheet selects the custom-upload path: the workbook must contain
	// exactly one sheet.
	SingleSheet bool
}

// LoadedSheet is a resolved sheet name plus its raw row/cell grid.
type LoadedSheet struct {
	Name string
	Rows sheet.RawSheet
}

// SheetLoader opens a workbook or delimited-text blob and yields a raw grid.
type SheetLoader interface {
	Load(ctx context.Context, req LoadRequest) (*LoadedSheet, error)
}

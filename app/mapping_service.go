package app

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"pilemap/adapters/excel"
	"pilemap/domain/sheet"
	"pilemap/internal"
	"pilemap/ports"
)

// ExtractOptions are the named, overridable knobs of the extraction engine.
type ExtractOptions struct {
	// TargetSheet is the workbook sheet resolved on the standard path.
	TargetSheet string
	// BlankStreakLimit is how many consecutive blank rows end the scan.
	BlankStreakLimit int
	// PreviewRowCap bounds how many rows UI previews show. The engine's own
	// output is never truncated.
	PreviewRowCap int
}

// DefaultExtractOptions returns the documented defaults.
func DefaultExtractOptions() ExtractOptions {
	return ExtractOptions{
		TargetSheet:      excel.DefaultTargetSheet,
		BlankStreakLimit: sheet.DefaultBlankStreakLimit,
		PreviewRowCap:    2000,
	}
}

// ExtractRequest is one mapping-session invocation: an immutable content
// blob, the filename supplying the format hint, the user's column letters,
// and whether the custom single-sheet upload path applies.
type ExtractRequest struct {
	Content     []byte
	Filename    string
	Letters     sheet.ColumnLetters
	SingleSheet bool
}

// MappingState is the previously persisted UI state: chosen letters and the
// last discovered data-start offset, either of which may be absent.
type MappingState struct {
	Letters         *sheet.ColumnLetters `json:"letters,omitempty"`
	DataStartOffset *int                 `json:"data_start_offset,omitempty"`
}

// MappingService orchestrates loading, header detection and row extraction
// in two modes: auto-detect and manual remap. It owns no mutable state; all
// state lives in the inputs and the injected cache.
type MappingService struct {
	loader ports.SheetLoader
	cache  ports.MappingCache
	rules  sheet.HeaderRules
	opts   ExtractOptions
	logger *internal.Logger
}

// NewMappingService creates a mapping service with the default header rules.
func NewMappingService(loader ports.SheetLoader, cache ports.MappingCache, opts ExtractOptions, logger *internal.Logger) *MappingService {
	if opts.BlankStreakLimit <= 0 {
		opts.BlankStreakLimit = sheet.DefaultBlankStreakLimit
	}
	if opts.TargetSheet == "" {
		opts.TargetSheet = excel.DefaultTargetSheet
	}
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	return &MappingService{
		loader: loader,
		cache:  cache,
		rules:  sheet.DefaultHeaderRules(),
		opts:   opts,
		logger: logger,
	}
}

// Options exposes the effective extraction options.
func (s *MappingService) Options() ExtractOptions {
	return s.opts
}

// RunAutoDetect loads the content, finds the header row, mirrors the
// data-start offset into the cache, and extracts. Header-not-found is a
// flagged degraded success, never an error.
func (s *MappingService) RunAutoDetect(ctx context.Context, req ExtractRequest) (*sheet.ExtractionResult, error) {
	mapping, err := sheet.ResolveLetters(req.Letters)
	if err != nil {
		return nil, err
	}

	loaded, err := s.load(ctx, req)
	if err != nil {
		return nil, err
	}

	detection := sheet.DetectHeader(loaded.Rows, mapping, s.rules)
	if detection.IsFallback {
		s.logger.Warn("no header row matched in sheet %q; falling back to row 0", loaded.Name)
	} else {
		s.logger.Debug("header detected at row %d in sheet %q", detection.HeaderRow, loaded.Name)
	}
	s.rememberOffset(ctx, detection.DataStartOffset())

	result, err := sheet.Extract(loaded.Rows, mapping, detection.DataStartOffset(), s.opts.BlankStreakLimit)
	if err != nil {
		return nil, err
	}
	result.SheetName = loaded.Name
	result.IsFallback = detection.IsFallback

	s.rememberLetters(ctx, req.Letters.Sanitized())
	return result, nil
}

// RunManualRemap loads the content and extracts directly at the cached
// data-start offset, defaulting to 0 when the cache is empty or
// unparseable. Detection is never invoked; the offset is trusted
// unconditionally even when it points at a header row.
func (s *MappingService) RunManualRemap(ctx context.Context, req ExtractRequest) (*sheet.ExtractionResult, error) {
	mapping, err := sheet.ResolveLetters(req.Letters)
	if err != nil {
		return nil, err
	}

	loaded, err := s.load(ctx, req)
	if err != nil {
		return nil, err
	}

	offset := s.cachedOffset(ctx)
	result, err := sheet.Extract(loaded.Rows, mapping, offset, s.opts.BlankStreakLimit)
	if err != nil {
		return nil, err
	}
	result.SheetName = loaded.Name

	s.rememberLetters(ctx, req.Letters.Sanitized())
	return result, nil
}

// State returns the persisted letters and offset for UI restoration.
func (s *MappingService) State(ctx context.Context) MappingState {
	state := MappingState{}
	if offset, ok := s.readOffset(ctx); ok {
		state.DataStartOffset = &offset
	}
	if raw, ok, err := s.cache.Get(ctx, ports.CacheKeyColumnLetters); err == nil && ok {
		var letters sheet.ColumnLetters
		if json.Unmarshal([]byte(raw), &letters) == nil {
			state.Letters = &letters
		}
	}
	return state
}

func (s *MappingService) load(ctx context.Context, req ExtractRequest) (*ports.LoadedSheet, error) {
	return s.loader.Load(ctx, ports.LoadRequest{
		Content:     req.Content,
		Filename:    req.Filename,
		TargetSheet: s.opts.TargetSheet,
		SingleSheet: req.SingleSheet,
	})
}

// cachedOffset reads the last data-start offset, treating absence,
// corruption and cache errors alike as "not present".
func (s *MappingService) cachedOffset(ctx context.Context) int {
	offset, ok := s.readOffset(ctx)
	if !ok {
		return 0
	}
	return offset
}

func (s *MappingService) readOffset(ctx context.Context) (int, bool) {
	raw, ok, err := s.cache.Get(ctx, ports.CacheKeyDataStartOffset)
	if err != nil {
		s.logger.Warn("mapping cache read failed: %v", err)
		return 0, false
	}
	if !ok {
		return 0, false
	}
	offset, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || offset < 0 {
		return 0, false
	}
	return offset, true
}

// rememberOffset mirrors the discovered offset into the cache. Cache
// failures are logged and swallowed; they never fail the session.
func (s *MappingService) rememberOffset(ctx context.Context, offset int) {
	if err := s.cache.Set(ctx, ports.CacheKeyDataStartOffset, strconv.Itoa(offset)); err != nil {
		s.logger.Warn("failed to cache data-start offset: %v", err)
	}
}

func (s *MappingService) rememberLetters(ctx context.Context, letters sheet.ColumnLetters) {
	encoded, err := json.Marshal(letters)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, ports.CacheKeyColumnLetters, string(encoded)); err != nil {
		s.logger.Warn("failed to cache column letters: %v", err)
	}
}

package ui

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"pilemap/app"
	"pilemap/domain/pile"
	"pilemap/domain/sheet"
	"pilemap/internal/errors"
	"pilemap/ports"
)

// maxUploadBytes bounds multipart parsing memory.
const maxUploadBytes = 64 << 20

type previewPayload struct {
	Frame []sheet.Value `json:"frame"`
	Pole  []sheet.Value `json:"pole"`
	X     []sheet.Value `json:"x"`
	Y     []sheet.Value `json:"y"`
	Z     []sheet.Value `json:"z"`
}

type extractResponse struct {
	Sheet      string                 `json:"sheet"`
	IsFallback bool                   `json:"is_fallback"`
	Rows       int                    `json:"rows"`
	Truncated  bool                   `json:"truncated"`
	Preview    previewPayload         `json:"preview"`
	Summary    *app.ExtractionSummary `json:"summary"`
	ImportID   string                 `json:"import_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleExtract runs the standard auto-detect path.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	s.runExtraction(w, r, "auto", false)
}

// handleRemap runs the manual remap path using the cached offset.
func (s *Server) handleRemap(w http.ResponseWriter, r *http.Request) {
	s.runExtraction(w, r, "manual", false)
}

// handleCustomUpload runs auto-detect against a single-sheet custom upload.
func (s *Server) handleCustomUpload(w http.ResponseWriter, r *http.Request) {
	s.runExtraction(w, r, "auto", true)
}

func (s *Server) runExtraction(w http.ResponseWriter, r *http.Request, mode string, singleSheet bool) {
	req, err := s.parseExtractRequest(r, singleSheet)
	if err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.extract(r, req, mode)
	if err != nil {
		s.writeError(w, err)
		return
	}

	summary := app.Summarize(result)
	resp := extractResponse{
		Sheet:      result.SheetName,
		IsFallback: result.IsFallback,
		Rows:       result.RowCount(),
		Summary:    summary,
	}
	resp.Preview, resp.Truncated = s.buildPreview(result)
	resp.ImportID = s.recordImport(r, result, req.Letters, mode)

	s.writeJSON(w, http.StatusOK, resp)
}

// handleGrade extracts and forwards the grouped trackers to the grading
// service. mode=project grades in one call; the default fans out per
// tracker with bounded concurrency.
func (s *Server) handleGrade(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseExtractRequest(r, false)
	if err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.extract(r, req, r.FormValue("extract_mode"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	trackers := pile.BuildTrackers(result)
	if len(trackers) == 0 {
		s.writeError(w, errors.NoDataFound())
		return
	}

	constraints, err := parseConstraints(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	trackerType := r.FormValue("tracker_type")
	if trackerType == "" {
		trackerType = "flat"
	}

	var graded *pile.ProjectGradingResponse
	if r.FormValue("grade_mode") == "project" {
		graded, err = s.grader.GradeProject(r.Context(), pile.ProjectGradingRequest{
			TrackerType: trackerType,
			Piles:       pile.AllPiles(trackers),
			Constraints: constraints,
		})
	} else {
		graded, err = s.gradePerTracker(r, trackerType, trackers, constraints)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, graded)
}

// handleReport renders a markdown import report to HTML.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseExtractRequest(r, false)
	if err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.extract(r, req, r.FormValue("extract_mode"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	md := app.BuildImportReport(result, req.Letters.Sanitized(), reportMode(r), app.Summarize(result))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(app.RenderReportHTML(md))
}

func (s *Server) handleMappingState(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.mapping.State(r.Context()))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.writeJSON(w, http.StatusOK, []ports.ImportRecord{})
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	records, err := s.history.Recent(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if records == nil {
		records = []ports.ImportRecord{}
	}
	s.writeJSON(w, http.StatusOK, records)
}

func (s *Server) extract(r *http.Request, req app.ExtractRequest, mode string) (*sheet.ExtractionResult, error) {
	if mode == "manual" {
		return s.mapping.RunManualRemap(r.Context(), req)
	}
	return s.mapping.RunAutoDetect(r.Context(), req)
}

// gradePerTracker fans out one grading call per tracker. Graders that
// implement batched fan-out handle the concurrency themselves; otherwise the
// trackers are graded sequentially.
func (s *Server) gradePerTracker(r *http.Request, trackerType string, trackers []pile.Tracker, constraints pile.Constraints) (*pile.ProjectGradingResponse, error) {
	if batch, ok := s.grader.(interface {
		GradeTrackers(ctx context.Context, trackerType string, trackers []pile.Tracker, constraints pile.Constraints) (*pile.ProjectGradingResponse, error)
	}); ok {
		return batch.GradeTrackers(r.Context(), trackerType, trackers, constraints)
	}

	aggregate := &pile.ProjectGradingResponse{Success: true, Constraints: constraints}
	for _, t := range trackers {
		resp, err := s.grader.GradeTracker(r.Context(), pile.TrackerGradingRequest{
			TrackerID:   t.TrackerID,
			TrackerType: trackerType,
			Piles:       t.Piles,
			Constraints: constraints,
		})
		if err != nil {
			return nil, err
		}
		aggregate.TotalCut += resp.TotalCut
		aggregate.TotalFill += resp.TotalFill
		aggregate.Piles = append(aggregate.Piles, resp.Piles...)
		aggregate.Violations = append(aggregate.Violations, resp.Violations...)
	}
	return aggregate, nil
}

func (s *Server) parseExtractRequest(r *http.Request, singleSheet bool) (app.ExtractRequest, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return app.ExtractRequest{}, errors.New(errors.CodeUnsupportedFormat, "request must be multipart form data with a file part")
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return app.ExtractRequest{}, errors.New(errors.CodeUnsupportedFormat, "missing file upload")
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return app.ExtractRequest{}, errors.Wrap(err, "failed to read uploaded file")
	}

	return app.ExtractRequest{
		Content:  content,
		Filename: header.Filename,
		Letters: sheet.ColumnLetters{
			Frame: r.FormValue("frame"),
			Pole:  r.FormValue("pole"),
			X:     r.FormValue("x"),
			Y:     r.FormValue("y"),
			Z:     r.FormValue("z"),
		},
		SingleSheet: singleSheet,
	}, nil
}

func parseConstraints(r *http.Request) (pile.Constraints, error) {
	c := pile.Constraints{TargetHeightPercentage: 0.5}
	fields := []struct {
		name     string
		dst      *float64
		required bool
	}{
		{"min_reveal_height", &c.MinRevealHeight, true},
		{"max_reveal_height", &c.MaxRevealHeight, true},
		{"pile_install_tolerance", &c.PileInstallTolerance, true},
		{"max_incline", &c.MaxIncline, true},
		{"target_height_percentage", &c.TargetHeightPercentage, false},
		{"max_angle_rotation", &c.MaxAngleRotation, false},
	}
	for _, f := range fields {
		raw := r.FormValue(f.name)
		if raw == "" {
			if f.required {
				return c, errors.ConfigInvalid("missing constraint field " + f.name)
			}
			continue
		}
		val, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return c, errors.ConfigInvalid("constraint field " + f.name + " must be numeric")
		}
		*f.dst = val
	}
	for _, f := range []struct {
		name string
		dst  **float64
	}{
		{"max_segment_deflection_deg", &c.MaxSegmentDeflectionDeg},
		{"max_cumulative_deflection_deg", &c.MaxCumulativeDeflectionDeg},
	} {
		if raw := r.FormValue(f.name); raw != "" {
			val, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return c, errors.ConfigInvalid("constraint field " + f.name + " must be numeric")
			}
			*f.dst = &val
		}
	}
	return c, nil
}

func (s *Server) buildPreview(result *sheet.ExtractionResult) (previewPayload, bool) {
	n := result.RowCount()
	truncated := false
	if s.previewCap > 0 && n > s.previewCap {
		n = s.previewCap
		truncated = true
	}
	return previewPayload{
		Frame: result.Frame[:n],
		Pole:  result.Pole[:n],
		X:     result.X[:n],
		Y:     result.Y[:n],
		Z:     result.Z[:n],
	}, truncated
}

// recordImport writes the audit row. Failures are logged, never surfaced.
func (s *Server) recordImport(r *http.Request, result *sheet.ExtractionResult, letters sheet.ColumnLetters, mode string) string {
	if s.history == nil {
		return ""
	}
	rec := ports.ImportRecord{
		ID:         uuid.New(),
		SheetName:  result.SheetName,
		RowCount:   result.RowCount(),
		IsFallback: result.IsFallback,
		Mode:       mode,
		Letters:    letters.Sanitized(),
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.history.Record(r.Context(), rec); err != nil {
		s.logger.Warn("failed to record import history: %v", err)
		return ""
	}
	return rec.ID.String()
}

func reportMode(r *http.Request) string {
	if r.FormValue("extract_mode") == "manual" {
		return "manual"
	}
	return "auto"
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.CodeInvalidColumnLetter, errors.CodeUnsupportedFormat, errors.CodeConfigInvalid:
		status = http.StatusBadRequest
	case errors.CodeSheetNotFound, errors.CodeEmptySheet, errors.CodeMultipleSheets, errors.CodeNoDataFound:
		status = http.StatusUnprocessableEntity
	case errors.CodeExternalService:
		status = http.StatusBadGateway
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed: %v", err)
	}
	s.writeJSON(w, status, map[string]string{
		"error": err.Error(),
		"code":  errors.GetCode(err),
	})
}

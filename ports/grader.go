package ports

import (
	"context"

	"pilemap/domain/pile"
)

// Grader is the opaque downstream grading service. It accepts the extracted
// pile sequences (already grouped into trackers) plus project constraints
// and returns graded elevations, cut/fill totals and violations.
type Grader interface {
	GradeTracker(ctx context.Context, req pile.TrackerGradingRequest) (*pile.TrackerGradingResponse, error)
	GradeProject(ctx context.Context, req pile.ProjectGradingRequest) (*pile.ProjectGradingResponse, error)
}

package pile

// Pile is a single foundation point inside a tracker, in the wire shape the
// grading service accepts. PileID encodes "tracker.pole" as a float, the
// identifier format the grading backend expects.
type Pile struct {
	PileID            float64 `json:"pile_id"`
	PileInTracker     int     `json:"pile_in_tracker"`
	Northing          float64 `json:"northing"`
	Easting           float64 `json:"easting"`
	InitialElevation  float64 `json:"initial_elevation"`
	FloodingAllowance float64 `json:"flooding_allowance"`
}

// Constraints mirrors the grading service's constraint payload. The wire
// name "target_height_percantage" preserves the service's field spelling.
type Constraints struct {
	MinRevealHeight            float64  `json:"min_reveal_height"`
	MaxRevealHeight            float64  `json:"max_reveal_height"`
	PileInstallTolerance       float64  `json:"pile_install_tolerance"`
	MaxIncline                 float64  `json:"max_incline"`
	TargetHeightPercentage     float64  `json:"target_height_percantage"`
	MaxAngleRotation           float64  `json:"max_angle_rotation"`
	MaxSegmentDeflectionDeg    *float64 `json:"max_segment_deflection_deg,omitempty"`
	MaxCumulativeDeflectionDeg *float64 `json:"max_cumulative_deflection_deg,omitempty"`
}

// Tracker groups the piles of one frame, ordered by pole position.
type Tracker struct {
	TrackerID int
	Piles     []Pile
}

// PileResult is one graded pile as returned by the grading service.
type PileResult struct {
	PileID            float64 `json:"pile_id"`
	PileInTracker     int     `json:"pile_in_tracker"`
	Northing          float64 `json:"northing"`
	Easting           float64 `json:"easting"`
	InitialElevation  float64 `json:"initial_elevation"`
	FinalElevation    float64 `json:"final_elevation"`
	PileRevealed      float64 `json:"pile_revealed"`
	TotalHeight       float64 `json:"total_height"`
	CutFill           float64 `json:"cut_fill"`
	FloodingAllowance float64 `json:"flooding_allowance"`
}

// Violation reports a reveal-height constraint breach for one pile.
type Violation struct {
	PileID float64 `json:"pile_id"`
	Type   string  `json:"type"`
	Value  float64 `json:"value"`
	Limit  float64 `json:"limit"`
}

// TrackerGradingRequest grades a single tracker.
type TrackerGradingRequest struct {
	TrackerID   int         `json:"tracker_id"`
	TrackerType string      `json:"tracker_type"`
	Piles       []Pile      `json:"piles"`
	Constraints Constraints `json:"constraints"`
}

// TrackerGradingResponse is the grading service's per-tracker result.
type TrackerGradingResponse struct {
	TrackerID   int          `json:"tracker_id"`
	TrackerType string       `json:"tracker_type"`
	Piles       []PileResult `json:"piles"`
	TotalCut    float64      `json:"total_cut"`
	TotalFill   float64      `json:"total_fill"`
	Violations  []Violation  `json:"violations"`
	Success     bool         `json:"success"`
	Message     string       `json:"message"`
	Constraints Constraints  `json:"constraints"`
}

// ProjectGradingRequest grades every tracker of a project in one call.
type ProjectGradingRequest struct {
	TrackerType string      `json:"tracker_type"`
	Piles       []Pile      `json:"piles"`
	Constraints Constraints `json:"constraints"`
}

// ProjectGradingResponse is the grading service's whole-project result.
type ProjectGradingResponse struct {
	TotalCut    float64      `json:"total_cut"`
	TotalFill   float64      `json:"total_fill"`
	Piles       []PileResult `json:"piles"`
	Violations  []Violation  `json:"violations"`
	Success     bool         `json:"success"`
	Message     string       `json:"message"`
	Constraints Constraints  `json:"constraints"`
}

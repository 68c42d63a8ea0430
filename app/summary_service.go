package app

import (
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"pilemap/domain/sheet"
)

// AxisSummary describes one coordinate axis of an extraction.
type AxisSummary struct {
	Field  string  `json:"field"`
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// ExtractionSummary gives reviewers a quick sanity read of an extraction:
// per-axis statistics plus a north-south terrain slope estimate (linear
// regression of elevation on northing).
type ExtractionSummary struct {
	Rows            int           `json:"rows"`
	Trackers        int           `json:"trackers"`
	Axes            []AxisSummary `json:"axes"`
	NorthSouthSlope float64       `json:"north_south_slope"`
	SlopeValid      bool          `json:"slope_valid"`
}

// Summarize computes the extraction summary. Non-numeric cells are ignored
// per axis; an axis with no numeric values reports zeroed statistics.
func Summarize(res *sheet.ExtractionResult) *ExtractionSummary {
	summary := &ExtractionSummary{Rows: res.RowCount()}

	trackerIDs := make(map[int]bool)
	for i := 0; i < summary.Rows; i++ {
		if frame, ok := res.Frame[i].AsNumber(); ok {
			trackerIDs[int(frame)] = true
		}
	}
	summary.Trackers = len(trackerIDs)

	axes := []struct {
		field  sheet.Field
		values []sheet.Value
	}{
		{sheet.FieldX, res.X},
		{sheet.FieldY, res.Y},
		{sheet.FieldZ, res.Z},
	}
	for _, axis := range axes {
		summary.Axes = append(summary.Axes, summarizeAxis(string(axis.field), numericValues(axis.values, summary.Rows)))
	}

	ys := numericPairs(res.Y, res.Z, summary.Rows)
	if len(ys) >= 2 {
		northings := make([]float64, len(ys))
		elevations := make([]float64, len(ys))
		for i, p := range ys {
			northings[i] = p[0]
			elevations[i] = p[1]
		}
		if spread(northings) > 0 {
			_, slope := stat.LinearRegression(northings, elevations, nil, false)
			summary.NorthSouthSlope = slope
			summary.SlopeValid = true
		}
	}
	return summary
}

func summarizeAxis(field string, values []float64) AxisSummary {
	axis := AxisSummary{Field: field, Count: len(values)}
	if len(values) == 0 {
		return axis
	}
	axis.Min, _ = stats.Min(values)
	axis.Max, _ = stats.Max(values)
	axis.Mean, _ = stats.Mean(values)
	axis.StdDev, _ = stats.StandardDeviation(values)
	return axis
}

func numericValues(values []sheet.Value, limit int) []float64 {
	var out []float64
	for i := 0; i < limit && i < len(values); i++ {
		if n, ok := values[i].AsNumber(); ok {
			out = append(out, n)
		}
	}
	return out
}

// numericPairs collects rows where both values are numeric.
func numericPairs(a, b []sheet.Value, limit int) [][2]float64 {
	var out [][2]float64
	for i := 0; i < limit && i < len(a) && i < len(b); i++ {
		av, aok := a[i].AsNumber()
		bv, bok := b[i].AsNumber()
		if aok && bok {
			out = append(out, [2]float64{av, bv})
		}
	}
	return out
}

func spread(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return max - min
}

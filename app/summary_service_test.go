package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pilemap/domain/sheet"
)

func summaryResult() *sheet.ExtractionResult {
	res := &sheet.ExtractionResult{}
	rows := [][5]float64{
		{1, 1, 100, 200, 10},
		{1, 2, 102, 210, 11},
		{2, 1, 104, 220, 12},
	}
	for _, r := range rows {
		res.Frame = append(res.Frame, sheet.NumberValue(r[0]))
		res.Pole = append(res.Pole, sheet.NumberValue(r[1]))
		res.X = append(res.X, sheet.NumberValue(r[2]))
		res.Y = append(res.Y, sheet.NumberValue(r[3]))
		res.Z = append(res.Z, sheet.NumberValue(r[4]))
	}
	return res
}

func TestSummarize(t *testing.T) {
	summary := Summarize(summaryResult())

	assert.Equal(t, 3, summary.Rows)
	assert.Equal(t, 2, summary.Trackers)
	require.Len(t, summary.Axes, 3)

	x := summary.Axes[0]
	assert.Equal(t, "x", x.Field)
	assert.Equal(t, 3, x.Count)
	assert.Equal(t, 100.0, x.Min)
	assert.Equal(t, 104.0, x.Max)
	assert.Equal(t, 102.0, x.Mean)

	// Elevation rises 1 unit per 10 units of northing.
	require.True(t, summary.SlopeValid)
	assert.InDelta(t, 0.1, summary.NorthSouthSlope, 1e-9)
}

func TestSummarizeIgnoresNonNumeric(t *testing.T) {
	res := summaryResult()
	res.Z[1] = sheet.TextValue("N/A")

	summary := Summarize(res)
	z := summary.Axes[2]
	assert.Equal(t, "z", z.Field)
	assert.Equal(t, 2, z.Count)
}

func TestSummarizeNoSlopeWithoutSpread(t *testing.T) {
	res := &sheet.ExtractionResult{}
	for i := 0; i < 2; i++ {
		res.Frame = append(res.Frame, sheet.NumberValue(1))
		res.Pole = append(res.Pole, sheet.NumberValue(float64(i+1)))
		res.X = append(res.X, sheet.NumberValue(100))
		res.Y = append(res.Y, sheet.NumberValue(200))
		res.Z = append(res.Z, sheet.NumberValue(float64(10+i)))
	}

	summary := Summarize(res)
	assert.False(t, summary.SlopeValid, "identical northings give no regression")
}

func TestSummarizeEmptyAxis(t *testing.T) {
	res := &sheet.ExtractionResult{
		Frame: []sheet.Value{sheet.NumberValue(1)},
		Pole:  []sheet.Value{sheet.NumberValue(1)},
		X:     []sheet.Value{sheet.TextValue("?")},
		Y:     []sheet.Value{sheet.NumberValue(200)},
		Z:     []sheet.Value{sheet.NumberValue(10)},
	}

	summary := Summarize(res)
	x := summary.Axes[0]
	assert.Equal(t, 0, x.Count)
	assert.Equal(t, 0.0, x.Min)
	assert.False(t, summary.SlopeValid)
}

package grading

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pilemap/domain/pile"
	"pilemap/internal/errors"
)

func testConstraints() pile.Constraints {
	return pile.Constraints{
		MinRevealHeight:        1.0,
		MaxRevealHeight:        2.5,
		PileInstallTolerance:   0.05,
		MaxIncline:             0.15,
		TargetHeightPercentage: 0.5,
	}
}

func testTracker(id int) pile.Tracker {
	return pile.Tracker{
		TrackerID: id,
		Piles: []pile.Pile{
			{PileID: float64(id) + 0.1, PileInTracker: 1, Northing: 200, Easting: 100, InitialElevation: 10},
		},
	}
}

func TestGradeTracker(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/grade-tracker", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req pile.TrackerGradingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 7, req.TrackerID)

		json.NewEncoder(w).Encode(pile.TrackerGradingResponse{
			TrackerID: req.TrackerID,
			TotalCut:  1.5,
			Success:   true,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	resp, err := client.GradeTracker(context.Background(), pile.TrackerGradingRequest{
		TrackerID:   7,
		TrackerType: "flat",
		Piles:       testTracker(7).Piles,
		Constraints: testConstraints(),
	})
	require.NoError(t, err)
	assert.Equal(t, 7, resp.TrackerID)
	assert.Equal(t, 1.5, resp.TotalCut)
	assert.True(t, resp.Success)
}

// The constraint payload keeps the grading service's wire spelling.
func TestConstraintWireSpelling(t *testing.T) {
	raw, err := json.Marshal(testConstraints())
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"target_height_percantage":0.5`)
}

func TestGradeProject(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/grade-project", r.URL.Path)
		json.NewEncoder(w).Encode(pile.ProjectGradingResponse{TotalFill: 3.2, Success: true})
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	resp, err := client.GradeProject(context.Background(), pile.ProjectGradingRequest{
		TrackerType: "flat",
		Piles:       testTracker(1).Piles,
		Constraints: testConstraints(),
	})
	require.NoError(t, err)
	assert.Equal(t, 3.2, resp.TotalFill)
}

func TestGradeTrackersAggregates(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		var req pile.TrackerGradingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		json.NewEncoder(w).Encode(pile.TrackerGradingResponse{
			TrackerID: req.TrackerID,
			TotalCut:  1,
			TotalFill: 2,
			Piles:     []pile.PileResult{{PileID: float64(req.TrackerID)}},
			Success:   true,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	trackers := []pile.Tracker{testTracker(1), testTracker(2), testTracker(3)}

	resp, err := client.GradeTrackers(context.Background(), "flat", trackers, testConstraints())
	require.NoError(t, err)
	assert.Equal(t, int64(3), calls.Load())
	assert.Equal(t, 3.0, resp.TotalCut)
	assert.Equal(t, 6.0, resp.TotalFill)
	assert.Len(t, resp.Piles, 3)
	assert.True(t, resp.Success)
}

func TestGradeTrackersFailFast(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req pile.TrackerGradingRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.TrackerID == 2 {
			http.Error(w, "solver diverged", http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(pile.TrackerGradingResponse{TrackerID: req.TrackerID, Success: true})
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	_, err := client.GradeTrackers(context.Background(), "flat",
		[]pile.Tracker{testTracker(1), testTracker(2)}, testConstraints())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tracker 2")
}

func TestGradeStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad payload", http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	_, err := client.GradeTracker(context.Background(), pile.TrackerGradingRequest{})
	require.Error(t, err)
	assert.Equal(t, errors.CodeExternalService, errors.GetCode(err))
	assert.Contains(t, err.Error(), "400")
}

func TestGradeTransportError(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", 100*time.Millisecond)
	_, err := client.GradeTracker(context.Background(), pile.TrackerGradingRequest{})
	require.Error(t, err)
	assert.Equal(t, errors.CodeExternalService, errors.GetCode(err))
}

func TestGradeInvalidResponseBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	_, err := client.GradeTracker(context.Background(), pile.TrackerGradingRequest{})
	require.Error(t, err)
	assert.Equal(t, errors.CodeExternalService, errors.GetCode(err))
}

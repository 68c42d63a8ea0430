package pile

import (
	"testing"

	"pilemap/domain/sheet"
)

func numRow(frame, pole, x, y, z float64) []sheet.Value {
	return []sheet.Value{
		sheet.NumberValue(frame),
		sheet.NumberValue(pole),
		sheet.NumberValue(x),
		sheet.NumberValue(y),
		sheet.NumberValue(z),
	}
}

func resultFromRows(rows ...[]sheet.Value) *sheet.ExtractionResult {
	res := &sheet.ExtractionResult{}
	for _, r := range rows {
		res.Frame = append(res.Frame, r[0])
		res.Pole = append(res.Pole, r[1])
		res.X = append(res.X, r[2])
		res.Y = append(res.Y, r[3])
		res.Z = append(res.Z, r[4])
	}
	return res
}

func TestBuildTrackersGroupsAndSorts(t *testing.T) {
	res := resultFromRows(
		numRow(2, 2, 10, 20, 5),
		numRow(1, 1, 11, 21, 6),
		numRow(2, 1, 12, 22, 7),
		numRow(1, 2, 13, 23, 8),
	)

	trackers := BuildTrackers(res)
	if len(trackers) != 2 {
		t.Fatalf("trackers = %d, want 2", len(trackers))
	}
	if trackers[0].TrackerID != 1 || trackers[1].TrackerID != 2 {
		t.Errorf("tracker order = [%d %d], want [1 2]", trackers[0].TrackerID, trackers[1].TrackerID)
	}
	for _, tr := range trackers {
		if len(tr.Piles) != 2 {
			t.Fatalf("tracker %d piles = %d, want 2", tr.TrackerID, len(tr.Piles))
		}
		if tr.Piles[0].PileInTracker != 1 || tr.Piles[1].PileInTracker != 2 {
			t.Errorf("tracker %d pile order = [%d %d], want [1 2]",
				tr.TrackerID, tr.Piles[0].PileInTracker, tr.Piles[1].PileInTracker)
		}
	}
}

func TestBuildTrackersPileID(t *testing.T) {
	res := resultFromRows(numRow(12, 3, 1, 2, 3))
	trackers := BuildTrackers(res)
	if len(trackers) != 1 {
		t.Fatalf("trackers = %d, want 1", len(trackers))
	}
	if got := trackers[0].Piles[0].PileID; got != 12.3 {
		t.Errorf("PileID = %v, want 12.3", got)
	}
}

func TestBuildTrackersAxisAssignment(t *testing.T) {
	res := resultFromRows(numRow(1, 1, 100, 200, 10.5))
	p := BuildTrackers(res)[0].Piles[0]
	if p.Easting != 100 {
		t.Errorf("Easting = %v, want 100", p.Easting)
	}
	if p.Northing != 200 {
		t.Errorf("Northing = %v, want 200", p.Northing)
	}
	if p.InitialElevation != 10.5 {
		t.Errorf("InitialElevation = %v, want 10.5", p.InitialElevation)
	}
}

// Rows carrying any non-numeric cell are excluded from grading payloads.
func TestBuildTrackersSkipsNonNumericRows(t *testing.T) {
	res := resultFromRows(
		numRow(1, 1, 100, 200, 10),
		[]sheet.Value{sheet.NumberValue(1), sheet.TextValue("N/A"), sheet.NumberValue(101), sheet.NumberValue(201), sheet.NumberValue(11)},
		[]sheet.Value{sheet.NumberValue(1), sheet.NumberValue(3), sheet.Value{}, sheet.NumberValue(202), sheet.NumberValue(12)},
	)

	trackers := BuildTrackers(res)
	if len(trackers) != 1 {
		t.Fatalf("trackers = %d, want 1", len(trackers))
	}
	if len(trackers[0].Piles) != 1 {
		t.Errorf("piles = %d, want 1 (non-numeric rows skipped)", len(trackers[0].Piles))
	}
}

func TestAllPiles(t *testing.T) {
	res := resultFromRows(
		numRow(1, 1, 0, 0, 0),
		numRow(1, 2, 0, 0, 0),
		numRow(2, 1, 0, 0, 0),
	)
	piles := AllPiles(BuildTrackers(res))
	if len(piles) != 3 {
		t.Errorf("AllPiles = %d, want 3", len(piles))
	}
}

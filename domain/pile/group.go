package pile

import (
	"fmt"
	"sort"
	"strconv"

	"pilemap/domain/sheet"
)

// BuildTrackers groups an extraction result into trackers keyed by the
// integer frame value. Rows where any of the five values fails to coerce to
// a number are skipped, matching how the grading backend drops non-numeric
// tracker rows before building a project. Trackers come back ordered by id
// and their piles ordered by pole position.
func BuildTrackers(res *sheet.ExtractionResult) []Tracker {
	byID := make(map[int]*Tracker)
	n := res.RowCount()
	for i := 0; i < n; i++ {
		frame, ok := res.Frame[i].AsNumber()
		if !ok {
			continue
		}
		pole, ok := res.Pole[i].AsNumber()
		if !ok {
			continue
		}
		x, ok := res.X[i].AsNumber()
		if !ok {
			continue
		}
		y, ok := res.Y[i].AsNumber()
		if !ok {
			continue
		}
		z, ok := res.Z[i].AsNumber()
		if !ok {
			continue
		}

		trackerID := int(frame)
		poleNum := int(pole)
		t, exists := byID[trackerID]
		if !exists {
			t = &Tracker{TrackerID: trackerID}
			byID[trackerID] = t
		}
		t.Piles = append(t.Piles, Pile{
			PileID:           pileID(trackerID, poleNum),
			PileInTracker:    poleNum,
			Northing:         y,
			Easting:          x,
			InitialElevation: z,
		})
	}

	trackers := make([]Tracker, 0, len(byID))
	for _, t := range byID {
		sort.Slice(t.Piles, func(a, b int) bool {
			return t.Piles[a].PileInTracker < t.Piles[b].PileInTracker
		})
		trackers = append(trackers, *t)
	}
	sort.Slice(trackers, func(a, b int) bool {
		return trackers[a].TrackerID < trackers[b].TrackerID
	})
	return trackers
}

// AllPiles flattens trackers into one pile list for whole-project grading.
func AllPiles(trackers []Tracker) []Pile {
	var piles []Pile
	for _, t := range trackers {
		piles = append(piles, t.Piles...)
	}
	return piles
}

// pileID encodes "tracker.pole" as the float identifier the grading service
// uses, e.g. tracker 12 pole 3 becomes 12.3.
func pileID(trackerID, poleNum int) float64 {
	id, err := strconv.ParseFloat(fmt.Sprintf("%d.%d", trackerID, poleNum), 64)
	if err != nil {
		return float64(trackerID)
	}
	return id
}

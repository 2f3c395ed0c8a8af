package booking

import (
	"fmt"
	"sort"
	"time"

	"github.com/commonshq/reserva/internal/model"
)

// ConflictResult annotates one candidate occurrence with the existing
// bookings it overlaps.
type ConflictResult struct {
	OccurrenceIndex int              `json:"occurrence_index"`
	Occurrence      model.Occurrence `json:"occurrence"`
	Start           time.Time        `json:"start"`
	End             time.Time        `json:"end"`
	HasConflict     bool             `json:"has_conflict"`
	Conflicts       []AtomicBooking  `json:"conflicts,omitempty"`
}

// FindConflicts checks every candidate occurrence against the existing
// bookings on any resource the selected resource occupies.
//
// The candidate index doubles as the occurrence index inside the activity
// being edited: when editingActivityID is set, the existing booking for
// (editingActivityID, i) is excluded from candidate i's check so an edit
// never conflicts with its own prior state. Bookings of the same activity at
// a different index still count.
//
// A candidate whose end precedes its start yields an *InvalidIntervalError;
// unparsable candidate data yields ErrInvalidInput. Both abort the call with
// no partial result. Malformed *existing* records that reach this function
// are counted as conflicts rather than ignored: a missed double-booking is
// worse than a dismissible warning.
func FindConflicts(
	candidates []model.Occurrence,
	resourceID string,
	editingActivityID string,
	existing []AtomicBooking,
	occ Occupancy,
) ([]ConflictResult, []Diagnostic, error) {
	if resourceID == "" {
		return nil, nil, fmt.Errorf("%w: empty candidate resource id", ErrInvalidInput)
	}

	relevant := occ[resourceID]
	if relevant == nil {
		// Unknown or freshly created resource: it conflicts only with
		// itself.
		relevant = IDSet{resourceID: {}}
	}

	var diags []Diagnostic
	results := make([]ConflictResult, 0, len(candidates))

	for i, cand := range candidates {
		if cand.StartDate == "" || cand.EndDate == "" || cand.StartTime == "" || cand.EndTime == "" {
			return nil, nil, fmt.Errorf("%w: candidate occurrence %d is incomplete", ErrInvalidInput, i)
		}
		start, end, err := interval(cand)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: candidate occurrence %d: %v", ErrInvalidInput, i, err)
		}
		if end.Before(start) {
			return nil, nil, &InvalidIntervalError{
				OccurrenceIndex: i,
				Start:           cand.StartDate + " " + cand.StartTime,
				End:             cand.EndDate + " " + cand.EndTime,
			}
		}

		res := ConflictResult{
			OccurrenceIndex: i,
			Occurrence:      cand,
			Start:           start,
			End:             end,
		}

		if start.Equal(end) {
			// Degenerate zero-length candidate: never conflicting, but
			// worth telling the author about.
			diags = append(diags, occDiag(editingActivityID, i, SeverityWarning, CodeZeroLength,
				fmt.Sprintf("candidate occurrence %d has zero length", i)))
			results = append(results, res)
			continue
		}

		for _, b := range existing {
			if !relevant.Has(b.ResourceID) {
				continue
			}
			if editingActivityID != "" && b.ActivityID == editingActivityID && b.OccurrenceIndex == i {
				continue
			}
			if b.End.Before(b.Start) {
				// Should have been filtered by Materialize; treat
				// conservatively as conflicting.
				diags = append(diags, occDiag(b.ActivityID, b.OccurrenceIndex, SeverityError, CodeInvalidInterval,
					"existing booking has an invalid interval; treated as conflicting"))
				res.Conflicts = append(res.Conflicts, b)
				continue
			}
			if overlaps(start, end, b.Start, b.End) {
				res.Conflicts = append(res.Conflicts, b)
			}
		}

		sort.Slice(res.Conflicts, func(x, y int) bool {
			a, b := res.Conflicts[x], res.Conflicts[y]
			if !a.Start.Equal(b.Start) {
				return a.Start.Before(b.Start)
			}
			if a.ActivityID != b.ActivityID {
				return a.ActivityID < b.ActivityID
			}
			return a.OccurrenceIndex < b.OccurrenceIndex
		})
		res.HasConflict = len(res.Conflicts) > 0
		results = append(results, res)
	}

	return results, diags, nil
}

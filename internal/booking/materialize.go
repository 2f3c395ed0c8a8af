package booking

import (
	"fmt"
	"time"

	"github.com/commonshq/reserva/internal/model"
)

// AtomicBooking is one (activity, occurrence) pair flattened into a directly
// comparable interval. It is derived on every evaluation and never persisted.
type AtomicBooking struct {
	ActivityID      string    `json:"activity_id"`
	OccurrenceIndex int       `json:"occurrence_index"`
	ResourceID      string    `json:"resource_id"`
	Title           string    `json:"title"`
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
}

// Materialize flattens every activity's occurrence list into atomic bookings.
// Output order is the insertion order of (activity, occurrence) pairs.
//
// Occurrences with missing or unparsable dates are skipped and reported. A
// zero-length occurrence can never conflict under half-open semantics, so it
// is skipped too. A reversed interval (end before start) is normalized to
// [min,max) and reported: the record is broken, but the slot it points at
// must keep blocking new bookings.
func Materialize(activities []model.Activity) ([]AtomicBooking, []Diagnostic) {
	var diags []Diagnostic
	out := make([]AtomicBooking, 0, len(activities))

	for _, act := range activities {
		for i, occ := range act.DatesAndTimes {
			resourceID := occ.ResourceID
			if resourceID == "" {
				resourceID = act.ResourceID
			}
			if resourceID == "" {
				diags = append(diags, occDiag(act.ID, i, SeverityWarning, CodeMissingResource,
					fmt.Sprintf("activity %q occurrence %d references no resource", act.Title, i)))
				continue
			}
			if occ.StartDate == "" || occ.EndDate == "" {
				diags = append(diags, occDiag(act.ID, i, SeverityWarning, CodeMissingDates,
					fmt.Sprintf("activity %q occurrence %d is missing dates", act.Title, i)))
				continue
			}
			start, end, err := interval(occ)
			if err != nil {
				diags = append(diags, occDiag(act.ID, i, SeverityWarning, CodeUnparsableDates,
					fmt.Sprintf("activity %q occurrence %d: %v", act.Title, i, err)))
				continue
			}
			if end.Before(start) {
				// Reversed stored interval: occupy [min,max) rather than
				// drop the row, so the slot still blocks new bookings.
				diags = append(diags, occDiag(act.ID, i, SeverityError, CodeInvalidInterval,
					fmt.Sprintf("activity %q occurrence %d ends before it starts; occupying the span between the two instants", act.Title, i)))
				start, end = end, start
			}
			if start.Equal(end) {
				diags = append(diags, occDiag(act.ID, i, SeverityWarning, CodeZeroLength,
					fmt.Sprintf("activity %q occurrence %d has zero length", act.Title, i)))
				continue
			}
			out = append(out, AtomicBooking{
				ActivityID:      act.ID,
				OccurrenceIndex: i,
				ResourceID:      resourceID,
				Title:           act.Title,
				Start:           start,
				End:             end,
			})
		}
	}
	return out, diags
}

func interval(occ model.Occurrence) (time.Time, time.Time, error) {
	start, err := combine(occ.StartDate, occ.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := combine(occ.EndDate, occ.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func occDiag(activityID string, index int, sev Severity, code, msg string) Diagnostic {
	return Diagnostic{
		Severity:        sev,
		Code:            code,
		Message:         msg,
		ActivityID:      activityID,
		OccurrenceIndex: index,
	}
}

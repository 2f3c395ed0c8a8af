// Package guard runs the collision engine against the current database
// snapshot. It is the single path both for the live form-feedback endpoint
// and for the pre-commit validation on activity writes, so the two can never
// disagree about what counts as a conflict.
package guard

import (
	"github.com/commonshq/reserva/internal/booking"
	"github.com/commonshq/reserva/internal/db"
	"github.com/commonshq/reserva/internal/model"
)

// Check evaluates candidate occurrences for a host against everything
// currently booked. resourceID is the activity's top-level resource;
// occurrences carrying their own resource override are grouped and checked
// against that resource instead. editingActivityID is empty for a new
// activity.
func Check(store db.Store, host, resourceID, editingActivityID string, occurrences []model.Occurrence) ([]booking.ConflictResult, []booking.Diagnostic, error) {
	resources, err := store.ListResources(host)
	if err != nil {
		return nil, nil, err
	}
	activities, err := store.ListActivities(host)
	if err != nil {
		return nil, nil, err
	}

	occ, diags, err := booking.BuildOccupancy(resources)
	if err != nil {
		return nil, nil, err
	}
	bookings, mDiags := booking.Materialize(activities)
	diags = append(diags, mDiags...)

	// Group candidate indexes by their effective resource. Each group is
	// evaluated with the full candidate list so the positional self-exclusion
	// indexes stay aligned with the stored occurrence indexes.
	groups := make(map[string][]int)
	order := make([]string, 0, 2)
	for i, o := range occurrences {
		rid := o.ResourceID
		if rid == "" {
			rid = resourceID
		}
		if _, seen := groups[rid]; !seen {
			order = append(order, rid)
		}
		groups[rid] = append(groups[rid], i)
	}

	results := make([]booking.ConflictResult, len(occurrences))
	for _, rid := range order {
		groupResults, groupDiags, err := booking.FindConflicts(occurrences, rid, editingActivityID, bookings, occ)
		if err != nil {
			return nil, nil, err
		}
		inGroup := make(map[int]bool, len(groups[rid]))
		for _, i := range groups[rid] {
			results[i] = groupResults[i]
			inGroup[i] = true
		}
		// Candidate diagnostics repeat per group; keep only the ones for
		// occurrences this group owns.
		for _, d := range groupDiags {
			if inGroup[d.OccurrenceIndex] {
				diags = append(diags, d)
			}
		}
	}
	return results, diags, nil
}

// HasConflict reports whether any candidate occurrence in results collides.
func HasConflict(results []booking.ConflictResult) bool {
	for _, r := range results {
		if r.HasConflict {
			return true
		}
	}
	return false
}

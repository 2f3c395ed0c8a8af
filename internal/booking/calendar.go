package booking

import (
	"fmt"

	"github.com/commonshq/reserva/internal/model"
)

// AnnotatedBooking is an atomic booking decorated for the calendar view. The
// decoration is presentation only and never feeds back into conflict checks.
type AnnotatedBooking struct {
	AtomicBooking
	ResourceLabel string `json:"resource_label"`
	Color         string `json:"color"`

	// ComboResourceID is set when the booked resource is contained in a
	// combo, so the calendar can filter by either.
	ComboResourceID string `json:"combo_resource_id,omitempty"`
}

const unknownResourceColor = "hsla(0, 0%, 62%, 0.9)"

// ResourceColors assigns a deterministic color to every resource, hues spread
// evenly over the legend order (label, then id).
func ResourceColors(resources []model.Resource) map[string]string {
	legend := SortedForLegend(resources)
	colors := make(map[string]string, len(legend))
	for i, r := range legend {
		hue := i * 360 / len(legend)
		colors[r.ID] = fmt.Sprintf("hsla(%d, 62%%, 57%%, 0.9)", hue)
	}
	return colors
}

// AnnotateCalendar flattens the snapshot into display-ready bookings. Pure:
// identical inputs always yield identical output, so callers may cache the
// result keyed on the snapshot.
func AnnotateCalendar(activities []model.Activity, resources []model.Resource) ([]AnnotatedBooking, []Diagnostic, error) {
	occ, diags, err := BuildOccupancy(resources)
	if err != nil {
		return nil, nil, err
	}
	bookings, mDiags := Materialize(activities)
	diags = append(diags, mDiags...)

	byID := make(map[string]model.Resource, len(resources))
	comboIDs := make(IDSet)
	for _, r := range resources {
		byID[r.ID] = r
		if r.IsCombo {
			comboIDs.add(r.ID)
		}
	}
	colors := ResourceColors(resources)

	// For a plain resource inside one or more combos, report the first
	// enclosing combo in legend order so the choice is stable.
	legend := SortedForLegend(resources)
	enclosingCombo := func(id string) string {
		if comboIDs.Has(id) {
			return ""
		}
		for _, r := range legend {
			if r.IsCombo && occ[r.ID].Has(id) {
				return r.ID
			}
		}
		return ""
	}

	out := make([]AnnotatedBooking, 0, len(bookings))
	for _, b := range bookings {
		ab := AnnotatedBooking{AtomicBooking: b}
		if r, ok := byID[b.ResourceID]; ok {
			ab.ResourceLabel = r.Label
			ab.Color = colors[r.ID]
			ab.ComboResourceID = enclosingCombo(r.ID)
		} else {
			ab.Color = unknownResourceColor
			diags = append(diags, occDiag(b.ActivityID, b.OccurrenceIndex, SeverityWarning, CodeUnknownResource,
				fmt.Sprintf("booking references unknown resource %q", b.ResourceID)))
		}
		out = append(out, ab)
	}
	return out, diags, nil
}

package booking

import (
	"fmt"
	"sort"

	"github.com/commonshq/reserva/internal/model"
)

// IDSet is a set of resource ids.
type IDSet map[string]struct{}

func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s IDSet) add(id string) { s[id] = struct{}{} }

// Occupancy maps a resource id to the full set of resource ids whose bookings
// must be checked when booking it: itself, every resource it transitively
// contains if it is a combo, every combo that transitively contains it, and
// every sibling combo it shares a member with.
type Occupancy map[string]IDSet

// BuildOccupancy resolves the resource graph for the given snapshot.
//
// Dangling combo members (ids absent from the snapshot) are dropped from the
// closure and reported as warnings; membership cycles are reported as errors
// and broken at the first repeated id. Neither aborts the build.
func BuildOccupancy(resources []model.Resource) (Occupancy, []Diagnostic, error) {
	var diags []Diagnostic

	byID := make(map[string]*model.Resource, len(resources))
	for i := range resources {
		r := &resources[i]
		if r.ID == "" {
			return nil, nil, fmt.Errorf("%w: resource %d has no id", ErrInvalidInput, i)
		}
		if _, dup := byID[r.ID]; dup {
			return nil, nil, fmt.Errorf("%w: duplicate resource id %q", ErrInvalidInput, r.ID)
		}
		byID[r.ID] = r
	}

	// Transitive member closure per combo. Combos nested inside a combo are
	// part of the closure themselves, so a booking on an inner combo blocks
	// the outer one.
	closures := make(map[string]IDSet)
	for i := range resources {
		c := &resources[i]
		if !c.IsCombo {
			continue
		}
		if len(c.MemberIDs) == 0 {
			diags = append(diags, Diagnostic{
				Severity:        SeverityWarning,
				Code:            CodeEmptyCombo,
				Message:         fmt.Sprintf("combo %q has no members", c.Label),
				ResourceID:      c.ID,
				OccurrenceIndex: -1,
			})
		}
		closure := make(IDSet)
		onPath := IDSet{c.ID: {}}
		diags = expandMembers(c, c, byID, closure, onPath, diags)
		closures[c.ID] = closure
	}

	occ := make(Occupancy, len(resources))
	for id := range byID {
		occ[id] = IDSet{id: {}}
	}
	for comboID, closure := range closures {
		for m := range closure {
			occ[comboID].add(m)
			occ[m].add(comboID)
		}
	}

	// Sibling combos sharing any member block each other.
	comboIDs := make([]string, 0, len(closures))
	for id := range closures {
		comboIDs = append(comboIDs, id)
	}
	sort.Strings(comboIDs)
	for i := 0; i < len(comboIDs); i++ {
		for j := i + 1; j < len(comboIDs); j++ {
			a, b := comboIDs[i], comboIDs[j]
			if intersects(closures[a], closures[b]) {
				occ[a].add(b)
				occ[b].add(a)
			}
		}
	}

	return occ, diags, nil
}

// expandMembers walks the membership graph below root, filling closure.
// onPath carries the ids currently on the walk so a cycle is detected rather
// than looped on.
func expandMembers(root, cur *model.Resource, byID map[string]*model.Resource,
	closure, onPath IDSet, diags []Diagnostic) []Diagnostic {

	for _, mid := range cur.MemberIDs {
		if onPath.Has(mid) {
			diags = append(diags, Diagnostic{
				Severity:        SeverityError,
				Code:            CodeComboCycle,
				Message:         fmt.Sprintf("combo %q reaches itself through member %q", root.Label, mid),
				ResourceID:      root.ID,
				OccurrenceIndex: -1,
			})
			continue
		}
		member, ok := byID[mid]
		if !ok {
			diags = append(diags, Diagnostic{
				Severity:        SeverityWarning,
				Code:            CodeDanglingMember,
				Message:         fmt.Sprintf("combo %q lists unknown resource %q", root.Label, mid),
				ResourceID:      root.ID,
				OccurrenceIndex: -1,
			})
			continue
		}
		if closure.Has(mid) {
			continue
		}
		closure.add(mid)
		if member.IsCombo {
			onPath.add(mid)
			diags = expandMembers(root, member, byID, closure, onPath, diags)
			delete(onPath, mid)
		}
	}
	return diags
}

func intersects(a, b IDSet) bool {
	if len(b) < len(a) {
		a, b = b, a
	}
	for id := range a {
		if b.Has(id) {
			return true
		}
	}
	return false
}

// SortedForLegend returns the resources ordered by label, with id as the
// tie-break, for stable legend/color assignment.
func SortedForLegend(resources []model.Resource) []model.Resource {
	out := make([]model.Resource, len(resources))
	copy(out, resources)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Label != out[j].Label {
			return out[i].Label < out[j].Label
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Bookable filters the snapshot down to resources that can be selected for a
// new booking. Non-bookable resources stay in the occupancy map regardless.
func Bookable(resources []model.Resource) []model.Resource {
	out := make([]model.Resource, 0, len(resources))
	for _, r := range resources {
		if r.IsBookable {
			out = append(out, r)
		}
	}
	return out
}

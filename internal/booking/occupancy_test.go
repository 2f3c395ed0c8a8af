package booking

import (
	"errors"
	"testing"

	"github.com/commonshq/reserva/internal/model"
)

func plain(id, label string) model.Resource {
	return model.Resource{ID: id, Label: label, IsBookable: true}
}

func combo(id, label string, members ...string) model.Resource {
	return model.Resource{ID: id, Label: label, IsCombo: true, IsBookable: true, MemberIDs: members}
}

func TestBuildOccupancyEmpty(t *testing.T) {
	occ, diags, err := BuildOccupancy(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(occ) != 0 || len(diags) != 0 {
		t.Fatalf("expected empty occupancy, got %v (%v)", occ, diags)
	}
}

func TestBuildOccupancyPlainAndCombo(t *testing.T) {
	occ, diags, err := BuildOccupancy([]model.Resource{
		plain("room-a", "Room A"),
		plain("room-b", "Room B"),
		combo("combo-1", "Whole Floor", "room-a", "room-b"),
		plain("studio", "Studio"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	for _, want := range []string{"combo-1", "room-a", "room-b"} {
		if !occ["combo-1"].Has(want) {
			t.Errorf("combo-1 occupancy missing %q", want)
		}
	}
	if !occ["room-a"].Has("combo-1") {
		t.Errorf("room-a should be blocked by combo-1")
	}
	if occ["studio"].Has("combo-1") || occ["combo-1"].Has("studio") {
		t.Errorf("studio must stay disjoint from combo-1")
	}
	if len(occ["studio"]) != 1 {
		t.Errorf("studio occupancy should be itself only, got %v", occ["studio"])
	}
}

func TestBuildOccupancySiblingCombos(t *testing.T) {
	occ, _, err := BuildOccupancy([]model.Resource{
		plain("room-a", "Room A"),
		plain("room-b", "Room B"),
		plain("room-c", "Room C"),
		plain("room-d", "Room D"),
		combo("combo-1", "AB", "room-a", "room-b"),
		combo("combo-2", "BC", "room-b", "room-c"),
		combo("combo-3", "D", "room-d"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !occ["combo-1"].Has("combo-2") || !occ["combo-2"].Has("combo-1") {
		t.Errorf("combos sharing room-b must block each other")
	}
	if occ["combo-1"].Has("combo-3") || occ["combo-3"].Has("combo-1") {
		t.Errorf("combos without shared members must not be linked")
	}
}

func TestBuildOccupancyNestedCombo(t *testing.T) {
	occ, diags, err := BuildOccupancy([]model.Resource{
		plain("room-a", "Room A"),
		plain("room-b", "Room B"),
		combo("inner", "Inner", "room-a"),
		combo("outer", "Outer", "inner", "room-b"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if !occ["outer"].Has("room-a") {
		t.Errorf("outer combo must transitively occupy room-a")
	}
	if !occ["room-a"].Has("outer") {
		t.Errorf("room-a must be blocked by the outer combo")
	}
}

func TestBuildOccupancyCycleReported(t *testing.T) {
	occ, diags, err := BuildOccupancy([]model.Resource{
		plain("room-a", "Room A"),
		combo("x", "X", "y", "room-a"),
		combo("y", "Y", "x"),
	})
	if err != nil {
		t.Fatalf("cycle must not be fatal: %v", err)
	}
	found := false
	for _, d := range diags {
		if d.Code == CodeComboCycle && d.Severity == SeverityError {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a combo_cycle diagnostic, got %v", diags)
	}
	if !occ["x"].Has("room-a") {
		t.Errorf("members outside the cycle must still resolve")
	}
}

func TestBuildOccupancyDanglingMember(t *testing.T) {
	occ, diags, err := BuildOccupancy([]model.Resource{
		plain("room-a", "Room A"),
		combo("combo-1", "C", "room-a", "ghost"),
	})
	if err != nil {
		t.Fatalf("dangling member must not be fatal: %v", err)
	}
	if !occ["combo-1"].Has("room-a") {
		t.Errorf("valid member must still be in the closure")
	}
	if occ["combo-1"].Has("ghost") {
		t.Errorf("dangling member must be dropped from the closure")
	}
	if len(diags) != 1 || diags[0].Code != CodeDanglingMember || diags[0].Severity != SeverityWarning {
		t.Fatalf("expected one dangling_member warning, got %v", diags)
	}
}

func TestBuildOccupancyInvalidInput(t *testing.T) {
	_, _, err := BuildOccupancy([]model.Resource{{Label: "no id"}})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	_, _, err = BuildOccupancy([]model.Resource{plain("a", "A"), plain("a", "A again")})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for duplicate id, got %v", err)
	}
}

func TestSortedForLegend(t *testing.T) {
	got := SortedForLegend([]model.Resource{
		plain("z", "Atelier"),
		plain("a", "Atelier"),
		plain("m", "Basement"),
	})
	wantIDs := []string{"a", "z", "m"}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Fatalf("legend order %d: want %q got %q", i, id, got[i].ID)
		}
	}
}

package booking

import (
	"errors"
	"reflect"
	"testing"

	"github.com/commonshq/reserva/internal/model"
)

func snapshot(t *testing.T, resources []model.Resource, activities []model.Activity) ([]AtomicBooking, Occupancy) {
	t.Helper()
	occ, _, err := BuildOccupancy(resources)
	if err != nil {
		t.Fatalf("BuildOccupancy: %v", err)
	}
	bookings, _ := Materialize(activities)
	return bookings, occ
}

func singleOccurrenceActivity(id, resourceID, startDate, startTime, endDate, endTime string) model.Activity {
	return model.Activity{
		ID: id, Title: id, ResourceID: resourceID,
		DatesAndTimes: []model.Occurrence{occurrence(startDate, startTime, endDate, endTime)},
	}
}

func TestFindConflictsOverlap(t *testing.T) {
	resources := []model.Resource{plain("r", "Room")}
	existing := []model.Activity{
		singleOccurrenceActivity("a1", "r", "2024-01-01", "09:00", "2024-01-01", "11:00"),
	}
	bookings, occ := snapshot(t, resources, existing)

	results, diags, err := FindConflicts(
		[]model.Occurrence{occurrence("2024-01-01", "10:30", "2024-01-01", "12:00")},
		"r", "", bookings, occ)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if len(results) != 1 || !results[0].HasConflict {
		t.Fatalf("expected a conflict, got %+v", results)
	}
	if len(results[0].Conflicts) != 1 || results[0].Conflicts[0].ActivityID != "a1" {
		t.Fatalf("conflict list must name a1, got %+v", results[0].Conflicts)
	}
}

func TestFindConflictsHalfOpenBoundary(t *testing.T) {
	resources := []model.Resource{plain("r", "Room")}
	existing := []model.Activity{
		singleOccurrenceActivity("a1", "r", "2024-01-01", "08:00", "2024-01-01", "10:00"),
	}
	bookings, occ := snapshot(t, resources, existing)

	// Starts exactly when the existing one ends: back-to-back is allowed.
	results, _, err := FindConflicts(
		[]model.Occurrence{occurrence("2024-01-01", "10:00", "2024-01-01", "12:00")},
		"r", "", bookings, occ)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results[0].HasConflict {
		t.Fatalf("touching edges must not conflict: %+v", results[0])
	}
}

func TestFindConflictsDayBoundary(t *testing.T) {
	resources := []model.Resource{plain("r", "Room")}
	existing := []model.Activity{
		singleOccurrenceActivity("a1", "r", "2024-03-01", "09:00", "2024-03-01", "23:59"),
	}
	bookings, occ := snapshot(t, resources, existing)

	results, _, err := FindConflicts(
		[]model.Occurrence{occurrence("2024-03-02", "00:00", "2024-03-02", "10:00")},
		"r", "", bookings, occ)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results[0].HasConflict {
		t.Fatalf("day D 23:59 and day D+1 00:00 must not conflict")
	}
}

func TestFindConflictsComboTransitivity(t *testing.T) {
	resources := []model.Resource{
		plain("room-a", "Room A"),
		combo("combo-1", "Floor", "room-a"),
	}
	existing := []model.Activity{
		singleOccurrenceActivity("a1", "room-a", "2024-02-01", "14:00", "2024-02-01", "15:00"),
	}
	bookings, occ := snapshot(t, resources, existing)

	results, _, err := FindConflicts(
		[]model.Occurrence{occurrence("2024-02-01", "14:30", "2024-02-01", "14:45")},
		"combo-1", "", bookings, occ)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !results[0].HasConflict {
		t.Fatalf("booking the combo must collide with its member's booking")
	}
}

func TestFindConflictsSiblingCombos(t *testing.T) {
	resources := []model.Resource{
		plain("room-a", "Room A"), plain("room-b", "Room B"),
		plain("room-c", "Room C"), plain("room-d", "Room D"),
		combo("combo-1", "AB", "room-a", "room-b"),
		combo("combo-2", "BC", "room-b", "room-c"),
		combo("combo-3", "D", "room-d"),
	}
	existing := []model.Activity{
		singleOccurrenceActivity("a1", "combo-1", "2024-02-01", "10:00", "2024-02-01", "12:00"),
	}
	bookings, occ := snapshot(t, resources, existing)

	cand := []model.Occurrence{occurrence("2024-02-01", "11:00", "2024-02-01", "13:00")}

	results, _, err := FindConflicts(cand, "combo-2", "", bookings, occ)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !results[0].HasConflict {
		t.Fatalf("combos sharing room-b must conflict")
	}

	results, _, err = FindConflicts(cand, "combo-3", "", bookings, occ)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results[0].HasConflict {
		t.Fatalf("disjoint combo must not conflict")
	}
}

func TestFindConflictsSelfExclusionOnEdit(t *testing.T) {
	resources := []model.Resource{plain("r", "Room")}
	existing := []model.Activity{
		singleOccurrenceActivity("a1", "r", "2024-01-01", "10:00", "2024-01-01", "11:00"),
		singleOccurrenceActivity("a2", "r", "2024-01-01", "11:00", "2024-01-01", "11:20"),
	}
	bookings, occ := snapshot(t, resources, existing)

	// a1's occurrence 0 moved to 10:30–11:30. Its own prior state overlaps
	// but is excluded; a2's 11:00–11:20 is a genuine conflict.
	results, _, err := FindConflicts(
		[]model.Occurrence{occurrence("2024-01-01", "10:30", "2024-01-01", "11:30")},
		"r", "a1", bookings, occ)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !results[0].HasConflict {
		t.Fatalf("edit must still see other activities' bookings")
	}
	for _, c := range results[0].Conflicts {
		if c.ActivityID == "a1" {
			t.Fatalf("edit flagged against its own prior state: %+v", c)
		}
	}
}

func TestFindConflictsSameActivityOtherIndex(t *testing.T) {
	resources := []model.Resource{plain("r", "Room")}
	existing := []model.Activity{{
		ID: "a1", Title: "Series", ResourceID: "r",
		DatesAndTimes: []model.Occurrence{
			occurrence("2024-01-01", "10:00", "2024-01-01", "11:00"),
			occurrence("2024-01-02", "10:00", "2024-01-02", "11:00"),
		},
	}}
	bookings, occ := snapshot(t, resources, existing)

	// Candidate index 0 of a1 now overlaps a1's occurrence 1: an activity
	// cannot double-book a resource against its own other occurrence.
	results, _, err := FindConflicts(
		[]model.Occurrence{occurrence("2024-01-02", "10:30", "2024-01-02", "11:30")},
		"r", "a1", bookings, occ)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !results[0].HasConflict {
		t.Fatalf("other occurrence of the same activity must count")
	}
}

func TestFindConflictsDisjointResources(t *testing.T) {
	resources := []model.Resource{plain("r1", "Room 1"), plain("r2", "Room 2")}
	existing := []model.Activity{
		singleOccurrenceActivity("a1", "r1", "2024-01-01", "10:00", "2024-01-01", "12:00"),
	}
	bookings, occ := snapshot(t, resources, existing)

	results, _, err := FindConflicts(
		[]model.Occurrence{occurrence("2024-01-01", "10:00", "2024-01-01", "12:00")},
		"r2", "", bookings, occ)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results[0].HasConflict {
		t.Fatalf("fully overlapping time on a disjoint resource must not conflict")
	}
}

func TestFindConflictsUnknownResourceDefaultsToSelf(t *testing.T) {
	bookings := []AtomicBooking{}
	results, _, err := FindConflicts(
		[]model.Occurrence{occurrence("2024-01-01", "10:00", "2024-01-01", "12:00")},
		"fresh", "", bookings, Occupancy{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results[0].HasConflict {
		t.Fatalf("unknown resource with no bookings must be free")
	}
}

func TestFindConflictsZeroLengthCandidate(t *testing.T) {
	resources := []model.Resource{plain("r", "Room")}
	existing := []model.Activity{
		singleOccurrenceActivity("a1", "r", "2024-01-01", "09:00", "2024-01-01", "17:00"),
	}
	bookings, occ := snapshot(t, resources, existing)

	results, diags, err := FindConflicts(
		[]model.Occurrence{occurrence("2024-01-01", "10:00", "2024-01-01", "10:00")},
		"r", "", bookings, occ)
	if err != nil {
		t.Fatalf("degenerate candidate must not be fatal: %v", err)
	}
	if results[0].HasConflict {
		t.Fatalf("zero-length candidate must never conflict")
	}
	if len(diags) != 1 || diags[0].Code != CodeZeroLength {
		t.Fatalf("expected zero_length warning, got %v", diags)
	}
}

func TestFindConflictsInvalidInterval(t *testing.T) {
	_, _, err := FindConflicts(
		[]model.Occurrence{occurrence("2024-01-02", "10:00", "2024-01-01", "10:00")},
		"r", "", nil, Occupancy{})
	var iie *InvalidIntervalError
	if !errors.As(err, &iie) {
		t.Fatalf("expected InvalidIntervalError, got %v", err)
	}
	if iie.OccurrenceIndex != 0 {
		t.Fatalf("error must name the occurrence: %+v", iie)
	}
}

func TestFindConflictsInvalidInput(t *testing.T) {
	if _, _, err := FindConflicts(nil, "", "", nil, Occupancy{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty resource id: expected ErrInvalidInput, got %v", err)
	}
	_, _, err := FindConflicts(
		[]model.Occurrence{occurrence("garbage", "10:00", "2024-01-01", "11:00")},
		"r", "", nil, Occupancy{})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("unparsable candidate: expected ErrInvalidInput, got %v", err)
	}
}

func TestFindConflictsDeterministic(t *testing.T) {
	resources := []model.Resource{
		plain("room-a", "Room A"), plain("room-b", "Room B"),
		combo("combo-1", "Floor", "room-a", "room-b"),
	}
	existing := []model.Activity{
		singleOccurrenceActivity("a3", "room-b", "2024-01-01", "10:00", "2024-01-01", "12:00"),
		singleOccurrenceActivity("a1", "room-a", "2024-01-01", "09:00", "2024-01-01", "11:00"),
		singleOccurrenceActivity("a2", "combo-1", "2024-01-01", "09:00", "2024-01-01", "11:00"),
	}
	bookings, occ := snapshot(t, resources, existing)
	cand := []model.Occurrence{occurrence("2024-01-01", "09:30", "2024-01-01", "10:30")}

	first, _, err := FindConflicts(cand, "combo-1", "", bookings, occ)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, _, err := FindConflicts(cand, "combo-1", "", bookings, occ)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differed:\n%+v\n%+v", i, first, again)
		}
	}

	// Conflicts ordered by start, then activity id.
	got := first[0].Conflicts
	if len(got) != 3 {
		t.Fatalf("expected 3 conflicts, got %+v", got)
	}
	if got[0].ActivityID != "a1" || got[1].ActivityID != "a2" || got[2].ActivityID != "a3" {
		t.Fatalf("unexpected conflict order: %+v", got)
	}
}

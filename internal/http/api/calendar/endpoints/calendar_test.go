package endpoints

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/commonshq/reserva/internal/db"
	"github.com/commonshq/reserva/internal/http/api"
	"github.com/commonshq/reserva/internal/http/api/calendar/packets"
	"github.com/commonshq/reserva/internal/model"
)

func newTestRouter(store db.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api.MountGroup(r, api.GroupConfig{Prefix: "/api"}, CalendarModule(store))
	return r
}

func seedStore() *db.MemStore {
	return &db.MemStore{
		Resources: []model.Resource{
			{ID: "r1", Label: "Workshop", IsBookable: true},
			{ID: "r2", Label: "Annex", IsBookable: true},
			{ID: "loft", Label: "Loft", IsBookable: false},
		},
		Activities: []model.Activity{{
			ID: "a1", Title: "Pottery class", ResourceID: "r1",
			DatesAndTimes: []model.Occurrence{{
				StartDate: "2024-05-01", StartTime: "09:00",
				EndDate: "2024-05-01", EndTime: "11:00",
			}},
		}},
	}
}

func doRequest(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshaling request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Host = "example.org"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetCalendar(t *testing.T) {
	r := newTestRouter(seedStore())

	w := doRequest(t, r, http.MethodGet, "/api/calendar", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var response packets.CalendarResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(response.Bookings) != 1 {
		t.Fatalf("expected one booking, got %d", len(response.Bookings))
	}
	b := response.Bookings[0]
	if b.ResourceLabel != "Workshop" {
		t.Errorf("resource label = %q, want Workshop", b.ResourceLabel)
	}
	if b.Color == "" {
		t.Errorf("booking has no color assigned")
	}
	if b.Title != "Pottery class" {
		t.Errorf("title = %q", b.Title)
	}
}

func TestGetLegend(t *testing.T) {
	r := newTestRouter(seedStore())

	w := doRequest(t, r, http.MethodGet, "/api/calendar/resources", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var legend []packets.LegendEntry
	if err := json.Unmarshal(w.Body.Bytes(), &legend); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	// Non-bookable resources stay out of the legend; bookable ones come
	// back in label order with a color each.
	if len(legend) != 2 {
		t.Fatalf("expected two legend entries, got %d", len(legend))
	}
	if legend[0].Label != "Annex" || legend[1].Label != "Workshop" {
		t.Errorf("legend out of order: %q, %q", legend[0].Label, legend[1].Label)
	}
	for _, entry := range legend {
		if entry.Color == "" {
			t.Errorf("legend entry %q has no color", entry.ID)
		}
	}
}

func TestCheckConflictsOverlap(t *testing.T) {
	r := newTestRouter(seedStore())

	request := packets.ConflictCheckRequest{
		ResourceID: "r1",
		Occurrences: []packets.OccurrencePayload{{
			StartDate: "2024-05-01", StartTime: "10:00",
			EndDate: "2024-05-01", EndTime: "12:00",
		}},
	}
	w := doRequest(t, r, http.MethodPost, "/api/calendar/conflicts", request)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var response packets.ConflictCheckResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !response.HasConflict {
		t.Fatalf("expected a conflict against the seeded booking: %+v", response)
	}
	if len(response.Results) != 1 || len(response.Results[0].Conflicts) != 1 {
		t.Fatalf("unexpected result shape: %+v", response.Results)
	}
	if response.Results[0].Conflicts[0].ActivityID != "a1" {
		t.Errorf("conflict points at %q, want a1", response.Results[0].Conflicts[0].ActivityID)
	}
}

func TestCheckConflictsFreeSlot(t *testing.T) {
	r := newTestRouter(seedStore())

	request := packets.ConflictCheckRequest{
		ResourceID: "r2",
		Occurrences: []packets.OccurrencePayload{{
			StartDate: "2024-05-01", StartTime: "10:00",
			EndDate: "2024-05-01", EndTime: "12:00",
		}},
	}
	w := doRequest(t, r, http.MethodPost, "/api/calendar/conflicts", request)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var response packets.ConflictCheckResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if response.HasConflict {
		t.Fatalf("r2 is free, yet: %+v", response)
	}
}

func TestCheckConflictsInvertedInterval(t *testing.T) {
	r := newTestRouter(seedStore())

	request := packets.ConflictCheckRequest{
		ResourceID: "r1",
		Occurrences: []packets.OccurrencePayload{{
			StartDate: "2024-05-01", StartTime: "12:00",
			EndDate: "2024-05-01", EndTime: "10:00",
		}},
	}
	w := doRequest(t, r, http.MethodPost, "/api/calendar/conflicts", request)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for an inverted interval, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCheckConflictsRejectsMissingResource(t *testing.T) {
	r := newTestRouter(seedStore())

	w := doRequest(t, r, http.MethodPost, "/api/calendar/conflicts", gin.H{
		"occurrences": []gin.H{{
			"start_date": "2024-05-01", "start_time": "10:00",
			"end_date": "2024-05-01", "end_time": "11:00",
		}},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without resource_id, got %d: %s", w.Code, w.Body.String())
	}
}

package packets

import "github.com/commonshq/reserva/internal/booking"

type CalendarResponse struct {
	Bookings    []booking.AnnotatedBooking `json:"bookings"`
	Diagnostics []booking.Diagnostic       `json:"diagnostics,omitempty"`
}

type LegendEntry struct {
	ID        string   `json:"id"`
	Label     string   `json:"label"`
	IsCombo   bool     `json:"is_combo"`
	MemberIDs []string `json:"member_ids,omitempty"`
	Color     string   `json:"color"`
}

type ConflictCheckResponse struct {
	Results     []booking.ConflictResult `json:"results"`
	HasConflict bool                     `json:"has_conflict"`
	Diagnostics []booking.Diagnostic     `json:"diagnostics,omitempty"`
}

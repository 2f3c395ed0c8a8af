package packets

import (
	"time"

	"github.com/commonshq/reserva/internal/booking"
	"github.com/commonshq/reserva/internal/model"
)

type ResourceResponse struct {
	ID          string   `json:"id"`
	Label       string   `json:"label"`
	Description *string  `json:"description,omitempty"`
	IsCombo     bool     `json:"is_combo"`
	IsBookable  bool     `json:"is_bookable"`
	MemberIDs   []string `json:"member_ids,omitempty"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

func NewResourceResponse(r *model.Resource) ResourceResponse {
	return ResourceResponse{
		ID:          r.ID,
		Label:       r.Label,
		Description: r.Description,
		IsCombo:     r.IsCombo,
		IsBookable:  r.IsBookable,
		MemberIDs:   r.MemberIDs,
		CreatedAt:   r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   r.UpdatedAt.Format(time.RFC3339),
	}
}

type ActivityResponse struct {
	ID            string               `json:"id"`
	Title         string               `json:"title"`
	ResourceID    string               `json:"resource_id"`
	DatesAndTimes []model.Occurrence   `json:"dates_and_times"`
	Diagnostics   []booking.Diagnostic `json:"diagnostics,omitempty"`
	CreatedAt     string               `json:"created_at"`
	UpdatedAt     string               `json:"updated_at"`
}

func NewActivityResponse(a *model.Activity, diags []booking.Diagnostic) ActivityResponse {
	return ActivityResponse{
		ID:            a.ID,
		Title:         a.Title,
		ResourceID:    a.ResourceID,
		DatesAndTimes: a.DatesAndTimes,
		Diagnostics:   diags,
		CreatedAt:     a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     a.UpdatedAt.Format(time.RFC3339),
	}
}

// ConflictDetail is attached to a rejected write so the client can show
// which occurrences clash and with what.
type ConflictDetail struct {
	Results     []booking.ConflictResult `json:"results"`
	Diagnostics []booking.Diagnostic     `json:"diagnostics,omitempty"`
}

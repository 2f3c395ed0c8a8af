package model

import "time"

// Resource is a bookable unit (a room, a tool, a floor). A combo resource is
// composed of other resources and books all of them at once.
type Resource struct {
	ID          string    `db:"id" json:"id"`
	Host        string    `db:"host" json:"host"`
	Label       string    `db:"label" json:"label"`
	Description *string   `db:"description" json:"description,omitempty"`
	IsCombo     bool      `db:"is_combo" json:"is_combo"`
	IsBookable  bool      `db:"is_bookable" json:"is_bookable"`
	CreatedBy   *int      `db:"created_by" json:"created_by,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`

	// MemberIDs is populated from the combo membership table; empty for
	// plain resources.
	MemberIDs []string `db:"-" json:"member_ids,omitempty"`
}

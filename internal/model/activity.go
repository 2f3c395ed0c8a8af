package model

import "time"

// Occurrence is one date/time block of an activity. Dates are naive
// "2006-01-02" strings and times naive "15:04" strings in the host's local
// context; no timezone conversion happens anywhere in the engine.
type Occurrence struct {
	StartDate string `db:"start_date" json:"start_date"`
	EndDate   string `db:"end_date" json:"end_date"`
	StartTime string `db:"start_time" json:"start_time"`
	EndTime   string `db:"end_time" json:"end_time"`

	// ResourceID overrides the owning activity's resource for this
	// occurrence when set.
	ResourceID string `db:"resource_id" json:"resource_id,omitempty"`

	// Capacity is carried for attendee bookkeeping; the collision engine
	// ignores it.
	Capacity *int `db:"capacity" json:"capacity,omitempty"`
}

// Activity owns 1..N occurrences. Occurrences are replaced as a unit whenever
// the schedule is edited.
type Activity struct {
	ID          string    `db:"id" json:"id"`
	Host        string    `db:"host" json:"host"`
	Title       string    `db:"title" json:"title"`
	AuthorID    *int      `db:"author_id" json:"author_id,omitempty"`
	ResourceID  string    `db:"resource_id" json:"resource_id"`
	IsPublished bool      `db:"is_published" json:"is_published"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`

	DatesAndTimes []Occurrence `db:"-" json:"dates_and_times"`
}

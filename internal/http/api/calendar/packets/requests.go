package packets

// ConflictCheckRequest is posted by the booking form on every relevant edit
// to get live feedback before anything is persisted.
type ConflictCheckRequest struct {
	ResourceID string `json:"resource_id" binding:"required"`

	// EditingActivityID is set when the form edits an existing activity so
	// its own stored occurrences are not reported against it.
	EditingActivityID string `json:"editing_activity_id"`

	Occurrences []OccurrencePayload `json:"occurrences" binding:"required,min=1"`
}

type OccurrencePayload struct {
	StartDate  string `json:"start_date" binding:"required"`
	EndDate    string `json:"end_date" binding:"required"`
	StartTime  string `json:"start_time" binding:"required"`
	EndTime    string `json:"end_time" binding:"required"`
	ResourceID string `json:"resource_id"`
}

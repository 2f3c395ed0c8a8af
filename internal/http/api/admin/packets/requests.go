package packets

// CreateResourceRequest registers a bookable resource; combos list the ids
// they are composed of.
type CreateResourceRequest struct {
	Label       string   `json:"label" binding:"required"`
	Description *string  `json:"description"`
	IsCombo     bool     `json:"is_combo"`
	IsBookable  *bool    `json:"is_bookable"`
	MemberIDs   []string `json:"member_ids"`
}

type UpdateResourceRequest struct {
	Label       string   `json:"label" binding:"required"`
	Description *string  `json:"description"`
	IsBookable  *bool    `json:"is_bookable"`
	MemberIDs   []string `json:"member_ids"`
}

// OccurrencePayload mirrors one entry of an activity's dates-and-times list.
type OccurrencePayload struct {
	StartDate  string `json:"start_date" binding:"required"`
	EndDate    string `json:"end_date" binding:"required"`
	StartTime  string `json:"start_time" binding:"required"`
	EndTime    string `json:"end_time" binding:"required"`
	ResourceID string `json:"resource_id"`
	Capacity   *int   `json:"capacity"`
}

type CreateActivityRequest struct {
	Title         string              `json:"title" binding:"required"`
	ResourceID    string              `json:"resource_id" binding:"required"`
	DatesAndTimes []OccurrencePayload `json:"dates_and_times" binding:"required,min=1"`

	// IgnoreConflicts lets an admin push a booking through despite the
	// conflict guard.
	IgnoreConflicts bool `json:"ignore_conflicts"`
}

type UpdateActivityRequest struct {
	Title           string              `json:"title" binding:"required"`
	ResourceID      string              `json:"resource_id" binding:"required"`
	DatesAndTimes   []OccurrencePayload `json:"dates_and_times" binding:"required,min=1"`
	IgnoreConflicts bool                `json:"ignore_conflicts"`
}

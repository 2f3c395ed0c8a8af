package booking

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks structurally broken input: a resource without an id,
// a candidate occurrence with unparsable dates, an empty selected resource.
// These are call-site bugs, not user errors, and abort the whole call.
var ErrInvalidInput = errors.New("booking: invalid input")

// InvalidIntervalError is returned when a candidate occurrence ends before it
// starts. It is user-correctable and meant to surface in form validation.
type InvalidIntervalError struct {
	OccurrenceIndex int
	Start           string
	End             string
}

func (e *InvalidIntervalError) Error() string {
	return fmt.Sprintf("booking: occurrence %d ends before it starts (%s > %s)",
		e.OccurrenceIndex, e.Start, e.End)
}

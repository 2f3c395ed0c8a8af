package booking

// Severity of a data-quality diagnostic. Errors mark records the engine could
// not take at face value; warnings mark records it could interpret but that
// need cleanup.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Diagnostic codes.
const (
	CodeDanglingMember  = "dangling_member"
	CodeEmptyCombo      = "empty_combo"
	CodeComboCycle      = "combo_cycle"
	CodeMissingDates    = "missing_dates"
	CodeUnparsableDates = "unparsable_dates"
	CodeInvalidInterval = "invalid_interval"
	CodeZeroLength      = "zero_length"
	CodeMissingResource = "missing_resource"
	CodeUnknownResource = "unknown_resource"
)

// Diagnostic reports a non-fatal data-quality issue found while processing a
// snapshot. The computation always proceeds past these; they exist so legacy
// junk is never silently hidden.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`

	ResourceID string `json:"resource_id,omitempty"`
	ActivityID string `json:"activity_id,omitempty"`

	// OccurrenceIndex is -1 when the diagnostic is not about a specific
	// occurrence.
	OccurrenceIndex int `json:"occurrence_index"`
}

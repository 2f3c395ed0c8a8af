package booking

import "time"

// Layouts used by the stored occurrence fields.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// combine joins a naive calendar date and time-of-day into one comparable
// instant. The values are pinned to UTC only to get a total order; no
// timezone conversion is implied.
func combine(date, clock string) (time.Time, error) {
	return time.ParseInLocation(DateLayout+" "+TimeLayout, date+" "+clock, time.UTC)
}

// overlaps reports whether the half-open intervals [s1,e1) and [s2,e2)
// intersect. Touching edges do not overlap, so back-to-back bookings are
// allowed.
func overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

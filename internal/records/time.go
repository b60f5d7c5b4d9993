package records

import "time"

// TimeLayout is the on-disk timestamp format: local time, microsecond
// precision, no zone. Files written by earlier tools use the same shape.
const TimeLayout = "2006-01-02T15:04:05.000000"

// timeNow is a package-level variable for testability.
var timeNow = time.Now

// Now returns the current time formatted with TimeLayout.
func Now() string {
	return FormatTime(timeNow())
}

// FormatTime formats t with TimeLayout.
func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}

// SetClock replaces the clock used by Now and returns a func restoring
// the previous one. Intended for tests in other packages.
func SetClock(now func() time.Time) (restore func()) {
	prev := timeNow
	timeNow = now
	return func() { timeNow = prev }
}

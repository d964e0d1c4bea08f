package utils

import (
	"strconv"
	"time"
)

// FormatLocal renders a decoded timestamp in loc, or "-" when absent.
// Decoded timestamps are UTC; this is the only place they change zone.
func FormatLocal(t *time.Time, loc *time.Location) string {
	if t == nil {
		return "-"
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format("2006-01-02 15:04:05 MST")
}

// FormatFloat renders an optional float with the given precision, or "-".
func FormatFloat(f *float64, prec int) string {
	if f == nil {
		return "-"
	}
	return strconv.FormatFloat(*f, 'f', prec, 64)
}

// FormatString renders an optional string, or "-".
func FormatString(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

// Age returns how long before now the timestamp t was taken, or 0 when t is nil.
func Age(t *time.Time, now time.Time) time.Duration {
	if t == nil {
		return 0
	}
	return now.Sub(*t)
}

package types

import (
	"strings"
	"time"
)

// DateOnlyFormat is the display convention for date-typed form values.
const DateOnlyFormat = "2006-01-02"

// ParseDateValue coerces a form value into a time. Accepted shapes are
// time.Time, *time.Time, RFC3339 strings and date-only strings.
func ParseDateValue(v any) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		return val, !val.IsZero()
	case *time.Time:
		if val == nil || val.IsZero() {
			return time.Time{}, false
		}
		return *val, true
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return time.Time{}, false
		}
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t, true
		}
		if t, err := time.Parse(DateOnlyFormat, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DaysUntil returns the whole-day difference between a target date and now.
// Negative values mean the target is already in the past.
func DaysUntil(target, now time.Time) int {
	return int(target.Sub(now).Hours() / 24)
}

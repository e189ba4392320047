package utils

import (
	"fmt"
	"strings"
	"time"
)

const layoutDate = "2006-01-02"

// NormalizeBookingDate parses a client-supplied booking date and strips any
// time-of-day component, returning the canonical YYYY-MM-DD form. Accepts a
// plain date or an RFC3339 timestamp.
func NormalizeBookingDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("empty date")
	}
	if t, err := time.ParseInLocation(layoutDate, s, time.Local); err == nil {
		return t.Format(layoutDate), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(time.Local).Format(layoutDate), nil
	}
	return "", fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
}

// FormatDate formats a time to YYYY-MM-DD in local timezone.
func FormatDate(t time.Time) string {
	return t.In(time.Local).Format(layoutDate)
}

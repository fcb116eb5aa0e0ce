package utils

import (
	"fmt"
	"strconv"
	"time"
)

// DefaultCheckInHour is applied when a stay boundary arrives as a bare date.
const DefaultCheckInHour = 15

// ParseInt parses query string values with a fallback default
func ParseInt(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

// ParseStayTime accepts either an RFC 3339 timestamp or a bare YYYY-MM-DD
// date. Bare dates resolve to 15:00 UTC on that day so that date-only
// bookings line up with the hotel check-in hour.
func ParseStayTime(s string) (time.Time, error) {
	if len(s) == 10 {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
		}
		return time.Date(d.Year(), d.Month(), d.Day(), DefaultCheckInHour, 0, 0, 0, time.UTC), nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}

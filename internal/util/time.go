package util

import (
	"time"

	"github.com/kapu/youtube-dashboard-go/internal/domain"
)

// Snapshot dates are calendar days in UTC, matching the upstream API's
// RFC 3339 timestamps.

func DayUTC(t time.Time) string {
	return t.UTC().Format(domain.DateLayout)
}

func DaysBefore(t time.Time, days int) string {
	return DayUTC(t.AddDate(0, 0, -days))
}

func ParseDay(s string) (time.Time, error) {
	return time.ParseInLocation(domain.DateLayout, s, time.UTC)
}

// IsDay reports whether s is a well-formed calendar-day key.
func IsDay(s string) bool {
	_, err := ParseDay(s)
	return err == nil
}

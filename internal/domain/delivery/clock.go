package delivery

import (
	"time"
)

// LocalNow converts a UTC instant into the user's local wall-clock time.
// An unknown or malformed zone name is non-fatal: the instant is kept in UTC
// so the user's evaluation can still proceed, only less accurately.
func LocalNow(tzName string, utcNow time.Time) time.Time {
	if tzName == "" {
		return utcNow.UTC()
	}
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return utcNow.UTC()
	}
	return utcNow.In(loc)
}

// DateOf reduces a timestamp to its calendar date, normalized to midnight
// UTC so dates from different zones compare and store consistently.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

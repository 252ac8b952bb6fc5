// Package timeutil provides the 5-minute boundary rounding used when
// scheduling group sessions.
package timeutil

import "time"

// NextBoundary returns the next instant after now whose minute is a multiple
// of five, at second zero. A time already on a boundary advances a full five
// minutes, matching "you will be pinged as soon as the clock hits
// minute % 5 == 0".
func NextBoundary(now time.Time) time.Time {
	t := now.Truncate(time.Minute)
	add := 5 - t.Minute()%5
	return t.Add(time.Duration(add) * time.Minute)
}

// FormatHHMM renders t as HH:MM in UTC for start-time announcements.
func FormatHHMM(t time.Time) string {
	return t.UTC().Format("15:04")
}

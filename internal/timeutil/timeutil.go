package timeutil

import (
	"fmt"
	"time"
)

// MinutesBetween returns the number of whole minutes from a to b.
// Negative when b is before a.
func MinutesBetween(a, b time.Time) int {
	return int(b.Sub(a) / time.Minute)
}

// FormatHoursMinutes renders a minute count as "Hh Mm", e.g. 135 -> "2h 15m"
func FormatHoursMinutes(minutes int) string {
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

// FormatClock renders a minute count as "H:MM", e.g. 135 -> "2:15"
func FormatClock(minutes int) string {
	return fmt.Sprintf("%d:%02d", minutes/60, minutes%60)
}

// FormatDate renders a timestamp in the dashboard's readable format
func FormatDate(t time.Time) string {
	return t.Format("Jan 02, 2006 15:04")
}

package timeutil

import (
	"testing"
	"time"
)

func TestMinutesBetween(t *testing.T) {
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		a    time.Time
		b    time.Time
		want int
	}{
		{"exact hour", base, base.Add(1 * time.Hour), 60},
		{"truncates seconds", base, base.Add(12*time.Minute + 59*time.Second), 12},
		{"zero", base, base, 0},
		{"negative", base.Add(30 * time.Minute), base, -30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MinutesBetween(tt.a, tt.b); got != tt.want {
				t.Errorf("MinutesBetween() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFormatHoursMinutes(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "0h 0m"},
		{59, "0h 59m"},
		{60, "1h 0m"},
		{135, "2h 15m"},
		{480, "8h 0m"},
	}

	for _, tt := range tests {
		if got := FormatHoursMinutes(tt.minutes); got != tt.want {
			t.Errorf("FormatHoursMinutes(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{5, "0:05"},
		{65, "1:05"},
		{600, "10:00"},
	}

	for _, tt := range tests {
		if got := FormatClock(tt.minutes); got != tt.want {
			t.Errorf("FormatClock(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}

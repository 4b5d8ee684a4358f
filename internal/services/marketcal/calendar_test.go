package marketcal

import (
	"testing"
	"time"
)

func eastern(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("no tzdata available: %v", err)
	}
	return loc
}

func TestIsOpen_RegularHours(t *testing.T) {
	loc := eastern(t)
	cal := New()

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		// Monday 2026-03-09
		{"open bell inclusive", time.Date(2026, 3, 9, 9, 30, 0, 0, loc), true},
		{"one minute before open", time.Date(2026, 3, 9, 9, 29, 0, 0, loc), false},
		{"midday", time.Date(2026, 3, 9, 12, 0, 0, 0, loc), true},
		{"last trading minute", time.Date(2026, 3, 9, 15, 59, 0, 0, loc), true},
		{"close bell exclusive", time.Date(2026, 3, 9, 16, 0, 0, 0, loc), false},
		{"evening", time.Date(2026, 3, 9, 20, 0, 0, 0, loc), false},
		{"saturday midday", time.Date(2026, 3, 14, 12, 0, 0, 0, loc), false},
		{"sunday midday", time.Date(2026, 3, 15, 12, 0, 0, 0, loc), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := cal.IsOpen(tc.at); got != tc.want {
				t.Errorf("IsOpen(%v) = %v, want %v", tc.at, got, tc.want)
			}
		})
	}
}

func TestIsOpen_ConvertsFromOtherZones(t *testing.T) {
	loc := eastern(t)
	cal := New()

	// 12:00 Eastern expressed as UTC should still read as open.
	midday := time.Date(2026, 3, 9, 12, 0, 0, 0, loc).UTC()
	if !cal.IsOpen(midday) {
		t.Error("expected midday Eastern (given in UTC) to be open")
	}
}

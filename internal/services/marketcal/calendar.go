// Package marketcal answers "is the US equity market open right now".
package marketcal

import "time"

const (
	openMinute  = 9*60 + 30 // 09:30
	closeMinute = 16 * 60   // 16:00
)

// Calendar models NYSE/NASDAQ regular trading hours. Holidays are not
// tracked; a holiday behaves like an open weekday, which only changes which
// lookup the price resolver tries first.
type Calendar struct {
	location *time.Location
}

func New() *Calendar {
	return &Calendar{location: mustLoadLocation()}
}

func mustLoadLocation() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		// No tzdata on this host. EST keeps behavior sane year-round.
		return time.FixedZone("EST", -5*60*60)
	}
	return loc
}

// IsOpen reports whether the given instant falls within regular trading
// hours: weekdays 09:30 inclusive to 16:00 exclusive, Eastern time.
func (c *Calendar) IsOpen(t time.Time) bool {
	local := t.In(c.location)

	switch local.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}

	minute := local.Hour()*60 + local.Minute()
	return minute >= openMinute && minute < closeMinute
}

// IsOpenNow is IsOpen at the current wall clock.
func (c *Calendar) IsOpenNow() bool {
	return c.IsOpen(time.Now())
}

package pitchsmart

import (
	"fmt"
	"time"
)

// Date is a plain calendar date with no time-of-day and no timezone.
// Game dates are entered as YYYY-MM-DD strings; parsing them through
// time.Time in UTC and reading them back in a local zone shifts the day
// in negative-offset zones, so the engine works on raw y/m/d components
// instead.
type Date struct {
	Year  int
	Month int
	Day   int
}

// NewDate returns the date for the given year, month and day.
func NewDate(year, month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// ParseDate parses a YYYY-MM-DD string. ok is false for empty or
// malformed input.
func ParseDate(s string) (Date, bool) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, false
	}
	return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}, true
}

// IsZero reports whether d is the zero Date ("no date").
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// AddDays returns the date n calendar days after d, normalizing across
// month and year boundaries.
func (d Date) AddDays(n int) Date {
	t := time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
	return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

// Before reports whether d is strictly earlier than o.
func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

// String formats d as YYYY-MM-DD. The zero Date formats as "".
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

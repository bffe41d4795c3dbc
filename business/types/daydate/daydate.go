// Package daydate represents a calendar date with no time of day and no
// timezone. Date arithmetic on this type cannot drift across DST changes the
// way adding hours to a time.Time can.
package daydate

import (
	"fmt"
	"time"
)

const layout = "2006-01-02"

// Date represents a calendar date.
type Date struct {
	year  int
	month time.Month
	day   int
}

// New constructs a Date from its parts. The parts are normalized the same
// way time.Date normalizes them.
func New(year int, month time.Month, day int) Date {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return Date{t.Year(), t.Month(), t.Day()}
}

// FromTime returns the calendar date of the specified moment in the moment's
// own location.
func FromTime(t time.Time) Date {
	return Date{t.Year(), t.Month(), t.Day()}
}

// Time returns the midnight instant of the date in the specified location.
func (d Date) Time(loc *time.Location) time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, loc)
}

// AddDays returns the date moved by the specified number of calendar days.
func (d Date) AddDays(days int) Date {
	return New(d.year, d.month, d.day+days)
}

// Before reports whether d is before d2.
func (d Date) Before(d2 Date) bool {
	if d.year != d2.year {
		return d.year < d2.year
	}
	if d.month != d2.month {
		return d.month < d2.month
	}
	return d.day < d2.day
}

// After reports whether d is after d2.
func (d Date) After(d2 Date) bool {
	return d2.Before(d)
}

// String returns the date in YYYY-MM-DD form.
func (d Date) String() string {
	return d.Time(time.UTC).Format(layout)
}

// Equal provides support for the go-cmp package and testing.
func (d Date) Equal(d2 Date) bool {
	return d == d2
}

// MarshalText provides support for logging and any marshal needs.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// =============================================================================

// Parse parses a string in YYYY-MM-DD form and returns a date.
func Parse(value string) (Date, error) {
	t, err := time.Parse(layout, value)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q", value)
	}

	return FromTime(t), nil
}

// MustParse parses the string value and returns a date. If an error occurs
// the function panics.
func MustParse(value string) Date {
	d, err := Parse(value)
	if err != nil {
		panic(err)
	}

	return d
}

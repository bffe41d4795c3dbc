// Package clock represents a wall-clock time of day with minute resolution.
package clock

import (
	"fmt"
)

// Time represents a time of day as minutes since midnight. Cross-midnight
// values are not representable.
type Time struct {
	minutes int
}

// FromMinutes constructs a Time from minutes since midnight.
func FromMinutes(minutes int) (Time, error) {
	if minutes < 0 || minutes >= 24*60 {
		return Time{}, fmt.Errorf("minutes out of range: %d", minutes)
	}

	return Time{minutes}, nil
}

// Minutes returns the minutes since midnight.
func (t Time) Minutes() int {
	return t.minutes
}

// Add returns the time moved forward by the specified number of minutes.
// The result may not be representable as a time of day; callers performing
// interval math should work on Minutes directly.
func (t Time) Add(minutes int) Time {
	return Time{t.minutes + minutes}
}

// Before reports whether t is before t2.
func (t Time) Before(t2 Time) bool {
	return t.minutes < t2.minutes
}

// String returns the value in HH:MM form.
func (t Time) String() string {
	return fmt.Sprintf("%02d:%02d", t.minutes/60, t.minutes%60)
}

// Equal provides support for the go-cmp package and testing.
func (t Time) Equal(t2 Time) bool {
	return t.minutes == t2.minutes
}

// MarshalText provides support for logging and any marshal needs.
func (t Time) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// =============================================================================

// Parse parses a string in HH:MM form and returns a time of day if the value
// complies with the rules for a wall-clock time.
func Parse(value string) (Time, error) {
	var hours, minutes int
	if _, err := fmt.Sscanf(value, "%d:%d", &hours, &minutes); err != nil {
		return Time{}, fmt.Errorf("invalid time %q", value)
	}

	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return Time{}, fmt.Errorf("invalid time %q", value)
	}

	return Time{hours*60 + minutes}, nil
}

// MustParse parses the string value and returns a time of day. If an error
// occurs the function panics.
func MustParse(value string) Time {
	t, err := Parse(value)
	if err != nil {
		panic(err)
	}

	return t
}

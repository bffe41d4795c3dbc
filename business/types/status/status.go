// Package status represents the reservation status type in the system.
package status

import "fmt"

// The set of statuses that can be used. Cancellation has no endpoint yet;
// the value exists so the state is representable and the reminder path can
// exclude it.
var (
	Confirmed = newStatus("CONFIRMED")
	Cancelled = newStatus("CANCELLED")
)

// =============================================================================

// Set of known statuses.
var statuses = make(map[string]Status)

// Status represents a reservation status in the system.
type Status struct {
	value string
}

func newStatus(status string) Status {
	s := Status{status}
	statuses[status] = s
	return s
}

// String returns the name of the status.
func (s Status) String() string {
	return s.value
}

// Equal provides support for the go-cmp package and testing.
func (s Status) Equal(s2 Status) bool {
	return s.value == s2.value
}

// MarshalText provides support for logging and any marshal needs.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.value), nil
}

// =============================================================================

// Parse parses the string value and returns a status if one exists.
func Parse(value string) (Status, error) {
	status, exists := statuses[value]
	if !exists {
		return Status{}, fmt.Errorf("invalid status %q", value)
	}

	return status, nil
}

// MustParse parses the string value and returns a status if one exists. If
// an error occurs the function panics.
func MustParse(value string) Status {
	status, err := Parse(value)
	if err != nil {
		panic(err)
	}

	return status
}

// Package money represents a monetary amount in the system.
package money

import (
	"database/sql"
	"fmt"
)

// Null represents an amount of money in cents that can be absent.
type Null struct {
	cents int64
	valid bool
}

// NewNull constructs a present amount from cents.
func NewNull(cents int64) (Null, error) {
	if cents < 0 {
		return Null{}, fmt.Errorf("negative amount: %d", cents)
	}

	return Null{cents, true}, nil
}

// ToSQLNullInt64 converts a Null value to a sql NullInt64.
func ToSQLNullInt64(n Null) sql.NullInt64 {
	return sql.NullInt64{
		Int64: n.cents,
		Valid: n.valid,
	}
}

// Cents returns the amount in cents and whether it is present.
func (n Null) Cents() (int64, bool) {
	return n.cents, n.valid
}

// String returns the amount in decimal form, or NULL when absent.
func (n Null) String() string {
	if !n.valid {
		return "NULL"
	}

	return fmt.Sprintf("%d.%02d", n.cents/100, n.cents%100)
}

// Equal provides support for the go-cmp package and testing.
func (n Null) Equal(n2 Null) bool {
	return n.cents == n2.cents && n.valid == n2.valid
}

// MarshalText provides support for logging and any marshal needs.
func (n Null) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

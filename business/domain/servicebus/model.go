package servicebus

import (
	"time"

	"github.com/google/uuid"
	"github.com/jcpaschoal/agendex/business/types/money"
	"github.com/jcpaschoal/agendex/business/types/name"
)

// Service represents a bookable service a tenant offers.
type Service struct {
	ID              uuid.UUID
	TenantID        uuid.UUID
	Name            name.Name
	DurationMinutes int
	Price           money.Null
	Enabled         bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

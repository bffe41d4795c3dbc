package workerbus

import (
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/jcpaschoal/agendex/business/types/clock"
	"github.com/jcpaschoal/agendex/business/types/daydate"
	"github.com/jcpaschoal/agendex/business/types/name"
)

// Worker represents a bookable member of a tenant's staff.
type Worker struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	Name         name.Name
	Email        *mail.Address
	OpensAt      clock.Time
	ClosesAt     clock.Time
	SlotMinutes  int
	BreakMinutes int
	ServiceIDs   []uuid.UUID
	Holidays     []daydate.Date
	Enabled      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OnHoliday reports whether the worker takes the specified date off.
func (w Worker) OnHoliday(d daydate.Date) bool {
	for _, h := range w.Holidays {
		if h.Equal(d) {
			return true
		}
	}

	return false
}

// OffersService reports whether the service is assigned to the worker.
func (w Worker) OffersService(serviceID uuid.UUID) bool {
	for _, id := range w.ServiceIDs {
		if id == serviceID {
			return true
		}
	}

	return false
}

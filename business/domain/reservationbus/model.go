package reservationbus

import (
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/jcpaschoal/agendex/business/types/clock"
	"github.com/jcpaschoal/agendex/business/types/daydate"
	"github.com/jcpaschoal/agendex/business/types/name"
	"github.com/jcpaschoal/agendex/business/types/phone"
	"github.com/jcpaschoal/agendex/business/types/status"
)

// Client represents the contact record captured by the booking form.
type Client struct {
	Name  name.Name
	Email mail.Address
	Phone phone.Null
}

// Reservation represents a committed booking on a worker's calendar.
type Reservation struct {
	ID              uuid.UUID
	TenantID        uuid.UUID
	WorkerID        uuid.UUID
	ServiceID       uuid.NullUUID
	Day             daydate.Date
	Start           clock.Time
	DurationMinutes int
	Client          Client
	Notes           string
	Status          status.Status
	ReminderSent    bool
	ReminderSentAt  *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewReservation contains information needed to commit a new booking.
type NewReservation struct {
	TenantID  uuid.UUID
	WorkerID  uuid.UUID
	ServiceID uuid.NullUUID
	Day       daydate.Date
	Start     clock.Time
	Client    Client
	Notes     string
}

// Slot represents a bookable opening on a worker's calendar. Slots are
// derived values: they are computed fresh on every availability query and
// never persisted or cached.
type Slot struct {
	WorkerID uuid.UUID
	Day      daydate.Date
	Start    clock.Time
}

package bookingapp

import (
	"encoding/json"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/jcpaschoal/agendex/app/sdk/errs"
	"github.com/jcpaschoal/agendex/business/domain/reservationbus"
	"github.com/jcpaschoal/agendex/business/types/clock"
	"github.com/jcpaschoal/agendex/business/types/daydate"
	"github.com/jcpaschoal/agendex/business/types/name"
	"github.com/jcpaschoal/agendex/business/types/phone"
)

// =============================================================================
// Availability (Output)
// =============================================================================

// Availability represents the open slots for a worker on a day.
type Availability struct {
	WorkerID string   `json:"workerId"`
	Day      string   `json:"day"`
	Slots    []string `json:"slots"`
}

// Encode implements the web.Encoder interface.
func (a Availability) Encode() ([]byte, string, error) {
	data, err := json.Marshal(a)
	return data, "application/json", err
}

func toAppAvailability(workerID uuid.UUID, day daydate.Date, slots []reservationbus.Slot) Availability {
	starts := make([]string, len(slots))
	for i, slot := range slots {
		starts[i] = slot.Start.String()
	}

	return Availability{
		WorkerID: workerID.String(),
		Day:      day.String(),
		Slots:    starts,
	}
}

// =============================================================================
// Booking (Output)
// =============================================================================

// Booking represents a committed reservation as shown to the public caller.
type Booking struct {
	ID          string `json:"id"`
	WorkerID    string `json:"workerId"`
	ServiceID   string `json:"serviceId,omitempty"`
	Day         string `json:"day"`
	Start       string `json:"start"`
	Duration    int    `json:"durationMinutes"`
	ClientName  string `json:"clientName"`
	ClientEmail string `json:"clientEmail"`
	Status      string `json:"status"`
	DateCreated string `json:"dateCreated"`
}

// Encode implements the web.Encoder interface.
func (b Booking) Encode() ([]byte, string, error) {
	data, err := json.Marshal(b)
	return data, "application/json", err
}

// HTTPStatus implements the web package httpStatus interface so a fresh
// booking responds 201.
func (b Booking) HTTPStatus() int {
	return 201
}

func toAppBooking(bus reservationbus.Reservation) Booking {
	app := Booking{
		ID:          bus.ID.String(),
		WorkerID:    bus.WorkerID.String(),
		Day:         bus.Day.String(),
		Start:       bus.Start.String(),
		Duration:    bus.DurationMinutes,
		ClientName:  bus.Client.Name.String(),
		ClientEmail: bus.Client.Email.Address,
		Status:      bus.Status.String(),
		DateCreated: bus.CreatedAt.Format(time.RFC3339),
	}

	if bus.ServiceID.Valid {
		app.ServiceID = bus.ServiceID.UUID.String()
	}

	return app
}

// =============================================================================
// NewBooking (Input)
// =============================================================================

// NewBooking defines the data needed from the public booking form.
type NewBooking struct {
	WorkerID    string `json:"workerId" validate:"required,uuid"`
	ServiceID   string `json:"serviceId" validate:"omitempty,uuid"`
	Day         string `json:"day" validate:"required"`
	Start       string `json:"start" validate:"required"`
	ClientName  string `json:"clientName" validate:"required,min=2,max=80"`
	ClientEmail string `json:"clientEmail" validate:"required,email"`
	ClientPhone string `json:"clientPhone"`
	Notes       string `json:"notes" validate:"max=500"`
}

// Decode implements the web.Decoder interface.
func (app *NewBooking) Decode(data []byte) error {
	return json.Unmarshal(data, app)
}

// Validate checks the data in the model is considered clean.
func (app NewBooking) Validate() error {
	if err := errs.Check(app); err != nil {
		return errs.New(errs.InvalidArgument, fmt.Errorf("validate: %w", err))
	}
	return nil
}

func toBusNewReservation(app NewBooking, tenantID uuid.UUID) (reservationbus.NewReservation, error) {
	workerID, err := uuid.Parse(app.WorkerID)
	if err != nil {
		return reservationbus.NewReservation{}, fmt.Errorf("parse worker id: %w", err)
	}

	var serviceID uuid.NullUUID
	if app.ServiceID != "" {
		id, err := uuid.Parse(app.ServiceID)
		if err != nil {
			return reservationbus.NewReservation{}, fmt.Errorf("parse service id: %w", err)
		}
		serviceID = uuid.NullUUID{UUID: id, Valid: true}
	}

	day, err := daydate.Parse(app.Day)
	if err != nil {
		return reservationbus.NewReservation{}, fmt.Errorf("parse day: %w", err)
	}

	start, err := clock.Parse(app.Start)
	if err != nil {
		return reservationbus.NewReservation{}, fmt.Errorf("parse start: %w", err)
	}

	clientName, err := name.Parse(app.ClientName)
	if err != nil {
		return reservationbus.NewReservation{}, fmt.Errorf("parse client name: %w", err)
	}

	clientEmail, err := mail.ParseAddress(app.ClientEmail)
	if err != nil {
		return reservationbus.NewReservation{}, fmt.Errorf("parse client email: %w", err)
	}

	clientPhone, err := phone.ParseNull(app.ClientPhone)
	if err != nil {
		return reservationbus.NewReservation{}, fmt.Errorf("parse client phone: %w", err)
	}

	bus := reservationbus.NewReservation{
		TenantID:  tenantID,
		WorkerID:  workerID,
		ServiceID: serviceID,
		Day:       day,
		Start:     start,
		Client: reservationbus.Client{
			Name:  clientName,
			Email: *clientEmail,
			Phone: clientPhone,
		},
		Notes: app.Notes,
	}

	return bus, nil
}

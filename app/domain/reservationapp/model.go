package reservationapp

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
// Reservation (Output)
// =============================================================================

// Reservation represents a reservation as shown to tenant staff. Unlike the
// public booking view it carries the full contact record and reminder state.
type Reservation struct {
	ID             string `json:"id"`
	WorkerID       string `json:"workerId"`
	ServiceID      string `json:"serviceId,omitempty"`
	Day            string `json:"day"`
	Start          string `json:"start"`
	Duration       int    `json:"durationMinutes"`
	ClientName     string `json:"clientName"`
	ClientEmail    string `json:"clientEmail"`
	ClientPhone    string `json:"clientPhone,omitempty"`
	Notes          string `json:"notes,omitempty"`
	Status         string `json:"status"`
	ReminderSent   bool   `json:"reminderSent"`
	ReminderSentAt string `json:"reminderSentAt,omitempty"`
	DateCreated    string `json:"dateCreated"`
	DateUpdated    string `json:"dateUpdated"`
}

// Encode implements the web.Encoder interface.
func (r Reservation) Encode() ([]byte, string, error) {
	data, err := json.Marshal(r)
	return data, "application/json", err
}

func toAppReservation(bus reservationbus.Reservation) Reservation {
	app := Reservation{
		ID:           bus.ID.String(),
		WorkerID:     bus.WorkerID.String(),
		Day:          bus.Day.String(),
		Start:        bus.Start.String(),
		Duration:     bus.DurationMinutes,
		ClientName:   bus.Client.Name.String(),
		ClientEmail:  bus.Client.Email.Address,
		Notes:        bus.Notes,
		Status:       bus.Status.String(),
		ReminderSent: bus.ReminderSent,
		DateCreated:  bus.CreatedAt.Format(time.RFC3339),
		DateUpdated:  bus.UpdatedAt.Format(time.RFC3339),
	}

	if bus.ServiceID.Valid {
		app.ServiceID = bus.ServiceID.UUID.String()
	}

	if bus.Client.Phone.Valid() {
		app.ClientPhone = bus.Client.Phone.String()
	}

	if bus.ReminderSentAt != nil {
		app.ReminderSentAt = bus.ReminderSentAt.Format(time.RFC3339)
	}

	return app
}

func toAppReservations(resvs []reservationbus.Reservation) []Reservation {
	app := make([]Reservation, len(resvs))
	for i, res := range resvs {
		app[i] = toAppReservation(res)
	}
	return app
}

// =============================================================================
// CreatedReservation (Output)
// =============================================================================

// CreatedReservation wraps a fresh reservation so the create handler can
// respond 201.
type CreatedReservation struct {
	Reservation
}

// HTTPStatus implements the web package httpStatus interface.
func (CreatedReservation) HTTPStatus() int {
	return 201
}

// =============================================================================
// NewReservation (Input)
// =============================================================================

// NewReservation defines the data needed to book on behalf of a client.
type NewReservation struct {
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
func (app *NewReservation) Decode(data []byte) error {
	return json.Unmarshal(data, app)
}

// Validate checks the data in the model is considered clean.
func (app NewReservation) Validate() error {
	if err := errs.Check(app); err != nil {
		return errs.New(errs.InvalidArgument, fmt.Errorf("validate: %w", err))
	}
	return nil
}

func toBusNewReservation(app NewReservation, tenantID uuid.UUID) (reservationbus.NewReservation, error) {
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

package bookingapp

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBooking() NewBooking {
	return NewBooking{
		WorkerID:    uuid.NewString(),
		Day:         "2026-09-10",
		Start:       "10:00",
		ClientName:  "Cliente Um",
		ClientEmail: "cliente@example.com",
	}
}

func TestNewBookingValidate(t *testing.T) {
	require.NoError(t, validBooking().Validate())

	nb := validBooking()
	nb.WorkerID = "not-a-uuid"
	assert.Error(t, nb.Validate())

	nb = validBooking()
	nb.ClientEmail = "not-an-email"
	assert.Error(t, nb.Validate())

	nb = validBooking()
	nb.ClientName = "x"
	assert.Error(t, nb.Validate())

	nb = validBooking()
	nb.Day = ""
	assert.Error(t, nb.Validate())
}

func TestToBusNewReservation(t *testing.T) {
	tenantID := uuid.New()

	nb := validBooking()
	serviceID := uuid.NewString()
	nb.ServiceID = serviceID
	nb.ClientPhone = "+5511999998888"
	nb.Notes = "fundos"

	bus, err := toBusNewReservation(nb, tenantID)
	require.NoError(t, err)

	assert.Equal(t, tenantID, bus.TenantID)
	assert.Equal(t, nb.WorkerID, bus.WorkerID.String())
	require.True(t, bus.ServiceID.Valid)
	assert.Equal(t, serviceID, bus.ServiceID.UUID.String())
	assert.Equal(t, "2026-09-10", bus.Day.String())
	assert.Equal(t, "10:00", bus.Start.String())
	assert.Equal(t, "Cliente Um", bus.Client.Name.String())
	assert.Equal(t, "cliente@example.com", bus.Client.Email.Address)
	assert.True(t, bus.Client.Phone.Valid())
	assert.Equal(t, "fundos", bus.Notes)
}

func TestToBusNewReservation_BadDay(t *testing.T) {
	nb := validBooking()
	nb.Day = "10/09/2026"

	_, err := toBusNewReservation(nb, uuid.New())
	assert.Error(t, err)
}

func TestToBusNewReservation_BadStart(t *testing.T) {
	nb := validBooking()
	nb.Start = "25:00"

	_, err := toBusNewReservation(nb, uuid.New())
	assert.Error(t, err)
}

package notifybus_test

import (
	"context"
	"errors"
	"io"
	"net/mail"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jcpaschoal/agendex/business/domain/notifybus"
	"github.com/jcpaschoal/agendex/business/domain/reservationbus"
	"github.com/jcpaschoal/agendex/business/domain/servicebus"
	"github.com/jcpaschoal/agendex/business/domain/tenantbus"
	"github.com/jcpaschoal/agendex/business/domain/workerbus"
	"github.com/jcpaschoal/agendex/business/types/clock"
	"github.com/jcpaschoal/agendex/business/types/daydate"
	"github.com/jcpaschoal/agendex/business/types/money"
	"github.com/jcpaschoal/agendex/business/types/name"
	"github.com/jcpaschoal/agendex/business/types/status"
	"github.com/jcpaschoal/agendex/foundation/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	mu     sync.Mutex
	sent   []notifybus.Envelope
	failTo map[string]bool
}

func (m *fakeMailer) Send(_ context.Context, env notifybus.Envelope) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failTo[env.To.Address] {
		return errors.New("smtp: connection reset")
	}

	m.sent = append(m.sent, env)
	return nil
}

func (m *fakeMailer) envelopes() []notifybus.Envelope {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]notifybus.Envelope(nil), m.sent...)
}

// =============================================================================

func newEvent() notifybus.Event {
	workerEmail := mail.Address{Address: "paulo@studio.example.com"}

	return notifybus.Event{
		Tenant: tenantbus.Tenant{
			ID:          uuid.New(),
			Name:        name.MustParse("Studio Teste"),
			Timezone:    time.UTC,
			SenderEmail: mail.Address{Address: "no-reply@studio.example.com"},
			OwnerName:   name.MustParse("Dona Maria"),
			OwnerEmail:  mail.Address{Address: "maria@studio.example.com"},
			Enabled:     true,
		},
		Worker: workerbus.Worker{
			ID:    uuid.New(),
			Name:  name.MustParse("Paulo"),
			Email: &workerEmail,
		},
		Reservation: reservationbus.Reservation{
			ID:    uuid.New(),
			Day:   daydate.MustParse("2026-09-10"),
			Start: clock.MustParse("10:00"),
			Client: reservationbus.Client{
				Name:  name.MustParse("Cliente Um"),
				Email: mail.Address{Address: "cliente@example.com"},
			},
			Status: status.Confirmed,
		},
	}
}

func newRouter(t *testing.T, mailer notifybus.Mailer) *notifybus.Router {
	t.Helper()

	log := logger.New(io.Discard, logger.LevelInfo, "TEST", nil)
	router, err := notifybus.NewRouter(log, mailer)
	require.NoError(t, err)

	return router
}

// =============================================================================

func TestConfirmation_ReplyToCrossover(t *testing.T) {
	mailer := &fakeMailer{failTo: map[string]bool{}}
	router := newRouter(t, mailer)

	evt := newEvent()
	delivery, err := router.Confirmation(context.Background(), evt)
	require.NoError(t, err)
	assert.Equal(t, notifybus.Delivery{Client: true, Business: true}, delivery)

	sent := mailer.envelopes()
	require.Len(t, sent, 2)

	client, business := sent[0], sent[1]

	assert.Equal(t, "cliente@example.com", client.To.Address)
	require.NotNil(t, client.ReplyTo)
	assert.Equal(t, "paulo@studio.example.com", client.ReplyTo.Address)

	assert.Equal(t, "paulo@studio.example.com", business.To.Address)
	require.NotNil(t, business.ReplyTo)
	assert.Equal(t, "cliente@example.com", business.ReplyTo.Address)

	for _, env := range sent {
		assert.Equal(t, "no-reply@studio.example.com", env.From.Address)
		assert.Contains(t, env.Subject, "Booking confirmed")
		assert.Contains(t, env.HTMLBody, "Cliente Um")
		assert.Contains(t, env.HTMLBody, "2026-09-10")
		assert.Contains(t, env.HTMLBody, "10:00")
	}
}

func TestConfirmation_OwnerFallback(t *testing.T) {
	mailer := &fakeMailer{failTo: map[string]bool{}}
	router := newRouter(t, mailer)

	evt := newEvent()
	evt.Worker.Email = nil

	_, err := router.Confirmation(context.Background(), evt)
	require.NoError(t, err)

	sent := mailer.envelopes()
	require.Len(t, sent, 2)
	assert.Equal(t, "maria@studio.example.com", sent[1].To.Address)
}

func TestConfirmation_SkipsLegWithoutRecipient(t *testing.T) {
	mailer := &fakeMailer{failTo: map[string]bool{}}
	router := newRouter(t, mailer)

	evt := newEvent()
	evt.Worker.Email = nil
	evt.Tenant.OwnerEmail = mail.Address{}

	delivery, err := router.Confirmation(context.Background(), evt)
	require.NoError(t, err)

	// Só a perna do cliente sai; a do negócio é pulada sem erro.
	assert.Equal(t, notifybus.Delivery{Client: true, Business: false}, delivery)

	sent := mailer.envelopes()
	require.Len(t, sent, 1)
	assert.Equal(t, "cliente@example.com", sent[0].To.Address)
}

func TestConfirmation_TransportFailure(t *testing.T) {
	mailer := &fakeMailer{failTo: map[string]bool{"cliente@example.com": true}}
	router := newRouter(t, mailer)

	delivery, err := router.Confirmation(context.Background(), newEvent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client leg")
	assert.Equal(t, notifybus.Delivery{}, delivery)
}

func TestConfirmation_ServiceAndPrice(t *testing.T) {
	mailer := &fakeMailer{failTo: map[string]bool{}}
	router := newRouter(t, mailer)

	price, err := money.NewNull(25000)
	require.NoError(t, err)

	evt := newEvent()
	evt.Service = &servicebus.Service{
		ID:              uuid.New(),
		Name:            name.MustParse("Coloração"),
		DurationMinutes: 90,
		Price:           price,
	}
	evt.Reservation.Notes = "Alergia a amônia"

	_, err = router.Confirmation(context.Background(), evt)
	require.NoError(t, err)

	sent := mailer.envelopes()
	require.Len(t, sent, 2)

	body := sent[0].HTMLBody
	assert.Contains(t, body, "Coloração")
	assert.Contains(t, body, "250.00")
	assert.Contains(t, body, "Alergia a amônia")
}

func TestConfirmation_WithoutService(t *testing.T) {
	mailer := &fakeMailer{failTo: map[string]bool{}}
	router := newRouter(t, mailer)

	_, err := router.Confirmation(context.Background(), newEvent())
	require.NoError(t, err)

	sent := mailer.envelopes()
	require.Len(t, sent, 2)

	// Sem serviço não pode sobrar rótulo órfão no corpo.
	body := sent[0].HTMLBody
	assert.False(t, strings.Contains(body, "Service"), "body should not mention a service: %s", body)
	assert.False(t, strings.Contains(body, "Price"), "body should not mention a price: %s", body)
}

func TestReminder_Subject(t *testing.T) {
	mailer := &fakeMailer{failTo: map[string]bool{}}
	router := newRouter(t, mailer)

	delivery, err := router.Reminder(context.Background(), newEvent())
	require.NoError(t, err)
	assert.Equal(t, notifybus.Delivery{Client: true, Business: true}, delivery)

	sent := mailer.envelopes()
	require.Len(t, sent, 2)
	assert.Contains(t, sent[0].Subject, "Reminder")
	assert.Contains(t, sent[0].Subject, "10:00")
}

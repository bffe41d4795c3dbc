package reminderbus_test

import (
	"context"
	"errors"
	"io"
	"net/mail"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jcpaschoal/agendex/business/domain/notifybus"
	"github.com/jcpaschoal/agendex/business/domain/reminderbus"
	"github.com/jcpaschoal/agendex/business/domain/reservationbus"
	"github.com/jcpaschoal/agendex/business/domain/reservationbus/stores/reservationmem"
	"github.com/jcpaschoal/agendex/business/domain/servicebus"
	"github.com/jcpaschoal/agendex/business/domain/tenantbus"
	"github.com/jcpaschoal/agendex/business/domain/workerbus"
	"github.com/jcpaschoal/agendex/business/types/clock"
	"github.com/jcpaschoal/agendex/business/types/daydate"
	"github.com/jcpaschoal/agendex/business/types/name"
	"github.com/jcpaschoal/agendex/business/types/status"
	"github.com/jcpaschoal/agendex/foundation/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Storers and a capturing mailer.

type tenantStore struct {
	tenants map[uuid.UUID]tenantbus.Tenant
}

func (s *tenantStore) Create(_ context.Context, t tenantbus.Tenant) error {
	s.tenants[t.ID] = t
	return nil
}

func (s *tenantStore) Update(_ context.Context, t tenantbus.Tenant) error {
	s.tenants[t.ID] = t
	return nil
}

func (s *tenantStore) QueryByID(_ context.Context, tenantID uuid.UUID) (tenantbus.Tenant, error) {
	t, exists := s.tenants[tenantID]
	if !exists {
		return tenantbus.Tenant{}, tenantbus.ErrNotFound
	}
	return t, nil
}

func (s *tenantStore) QueryBySlug(_ context.Context, slug string) (tenantbus.Tenant, error) {
	for _, t := range s.tenants {
		if t.Slug == slug {
			return t, nil
		}
	}
	return tenantbus.Tenant{}, tenantbus.ErrNotFound
}

func (s *tenantStore) QueryEnabled(_ context.Context) ([]tenantbus.Tenant, error) {
	var tenants []tenantbus.Tenant
	for _, t := range s.tenants {
		if t.Enabled {
			tenants = append(tenants, t)
		}
	}
	return tenants, nil
}

type workerStore struct {
	workers map[uuid.UUID]workerbus.Worker
}

func (s *workerStore) QueryByID(_ context.Context, tenantID uuid.UUID, workerID uuid.UUID) (workerbus.Worker, error) {
	w, exists := s.workers[workerID]
	if !exists || w.TenantID != tenantID {
		return workerbus.Worker{}, workerbus.ErrNotFound
	}
	return w, nil
}

type serviceStore struct {
	services map[uuid.UUID]servicebus.Service
}

func (s *serviceStore) QueryByID(_ context.Context, tenantID uuid.UUID, serviceID uuid.UUID) (servicebus.Service, error) {
	svc, exists := s.services[serviceID]
	if !exists || svc.TenantID != tenantID {
		return servicebus.Service{}, servicebus.ErrNotFound
	}
	return svc, nil
}

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

func (m *fakeMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

// =============================================================================

type fixture struct {
	core   *reminderbus.Core
	resBus *reservationbus.Core
	store  *reservationmem.Store
	mailer *fakeMailer
	tenant tenantbus.Tenant
	worker workerbus.Worker
}

func newFixture(t *testing.T, tz *time.Location) *fixture {
	t.Helper()

	log := logger.New(io.Discard, logger.LevelInfo, "TEST", nil)

	tenant := tenantbus.Tenant{
		ID:             uuid.New(),
		Name:           name.MustParse("Studio Teste"),
		Slug:           "studio-teste",
		Timezone:       tz,
		SenderEmail:    mail.Address{Address: "no-reply@studio.example.com"},
		OwnerName:      name.MustParse("Dona Maria"),
		OwnerEmail:     mail.Address{Address: "maria@studio.example.com"},
		MaxAdvanceDays: 30,
		Enabled:        true,
	}

	worker := workerbus.Worker{
		ID:          uuid.New(),
		TenantID:    tenant.ID,
		Name:        name.MustParse("Paulo"),
		OpensAt:     clock.MustParse("09:00"),
		ClosesAt:    clock.MustParse("18:00"),
		SlotMinutes: 30,
		Enabled:     true,
	}

	tenantBus := tenantbus.NewCore(log, &tenantStore{tenants: map[uuid.UUID]tenantbus.Tenant{tenant.ID: tenant}})
	workerBus := workerbus.NewCore(log, &workerStore{workers: map[uuid.UUID]workerbus.Worker{worker.ID: worker}})
	serviceBus := servicebus.NewCore(log, &serviceStore{services: map[uuid.UUID]servicebus.Service{}})

	store := reservationmem.NewStore()
	resBus := reservationbus.NewCore(log, tenantBus, workerBus, serviceBus, store)

	mailer := &fakeMailer{failTo: map[string]bool{}}
	notify, err := notifybus.NewRouter(log, mailer)
	require.NoError(t, err)

	return &fixture{
		core:   reminderbus.NewCore(log, tenantBus, workerBus, serviceBus, resBus, notify),
		resBus: resBus,
		store:  store,
		mailer: mailer,
		tenant: tenant,
		worker: worker,
	}
}

// seed inserts a confirmed reservation directly into the store.
func (f *fixture) seed(t *testing.T, day daydate.Date, start string, clientEmail string) reservationbus.Reservation {
	t.Helper()

	now := time.Now()
	res := reservationbus.Reservation{
		ID:              uuid.New(),
		TenantID:        f.tenant.ID,
		WorkerID:        f.worker.ID,
		Day:             day,
		Start:           clock.MustParse(start),
		DurationMinutes: 30,
		Client: reservationbus.Client{
			Name:  name.MustParse("Cliente Teste"),
			Email: mail.Address{Address: clientEmail},
		},
		Status:    status.Confirmed,
		CreatedAt: now,
		UpdatedAt: now,
	}

	require.NoError(t, f.store.Create(context.Background(), res))
	return res
}

// =============================================================================

func TestSweep_SendsAndMarks(t *testing.T) {
	f := newFixture(t, time.UTC)
	ctx := context.Background()

	now := time.Date(2026, 9, 9, 12, 0, 0, 0, time.UTC)
	tomorrow := daydate.MustParse("2026-09-10")

	res := f.seed(t, tomorrow, "10:00", "cliente@example.com")
	f.seed(t, tomorrow.AddDays(1), "10:00", "depois@example.com")

	report, err := f.core.Sweep(ctx, now)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Total)
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, 0, report.Failed)

	// Cada lembrete tem duas pernas: cliente e negócio.
	assert.Equal(t, 2, f.mailer.count())

	got, err := f.store.QueryByID(ctx, f.tenant.ID, res.ID)
	require.NoError(t, err)
	assert.True(t, got.ReminderSent)
}

func TestSweep_SecondRunIsIdempotent(t *testing.T) {
	f := newFixture(t, time.UTC)
	ctx := context.Background()

	now := time.Date(2026, 9, 9, 12, 0, 0, 0, time.UTC)
	f.seed(t, daydate.MustParse("2026-09-10"), "10:00", "cliente@example.com")

	report, err := f.core.Sweep(ctx, now)
	require.NoError(t, err)
	require.Equal(t, 1, report.Succeeded)

	sentAfterFirst := f.mailer.count()

	report, err = f.core.Sweep(ctx, now.Add(time.Hour))
	require.NoError(t, err)

	assert.Equal(t, 0, report.Total)
	assert.Equal(t, sentAfterFirst, f.mailer.count())
}

func TestSweep_PartialFailure(t *testing.T) {
	f := newFixture(t, time.UTC)
	ctx := context.Background()

	now := time.Date(2026, 9, 9, 12, 0, 0, 0, time.UTC)
	tomorrow := daydate.MustParse("2026-09-10")

	f.seed(t, tomorrow, "09:00", "um@example.com")
	bad := f.seed(t, tomorrow, "10:00", "quebrado@example.com")
	f.seed(t, tomorrow, "11:00", "tres@example.com")

	f.mailer.failTo["quebrado@example.com"] = true

	report, err := f.core.Sweep(ctx, now)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 2, report.Succeeded)
	assert.Equal(t, 1, report.Failed)

	// The failed reservation stays unmarked and is retried by the next run.
	got, err := f.store.QueryByID(ctx, f.tenant.ID, bad.ID)
	require.NoError(t, err)
	assert.False(t, got.ReminderSent)

	f.mailer.failTo = map[string]bool{}

	report, err = f.core.Sweep(ctx, now.Add(time.Hour))
	require.NoError(t, err)

	assert.Equal(t, 1, report.Total)
	assert.Equal(t, 1, report.Succeeded)
}

func TestSweep_TenantLocalTomorrow(t *testing.T) {
	sp, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	f := newFixture(t, sp)
	ctx := context.Background()

	// 01:00 UTC em 10/09 ainda é a noite de 09/09 em São Paulo, então o
	// "amanhã" do tenant é 10/09 e não 11/09.
	now := time.Date(2026, 9, 10, 1, 0, 0, 0, time.UTC)

	due := f.seed(t, daydate.MustParse("2026-09-10"), "10:00", "cliente@example.com")
	f.seed(t, daydate.MustParse("2026-09-11"), "10:00", "outro@example.com")

	report, err := f.core.Sweep(ctx, now)
	require.NoError(t, err)

	require.Equal(t, 1, report.Total)
	assert.Equal(t, 1, report.Succeeded)
	require.Len(t, report.Items, 1)
	assert.Equal(t, due.ID, report.Items[0].ReservationID)
}

func TestSweep_SkipsDisabledTenant(t *testing.T) {
	f := newFixture(t, time.UTC)
	ctx := context.Background()

	f.tenant.Enabled = false
	log := logger.New(io.Discard, logger.LevelInfo, "TEST", nil)
	tenantBus := tenantbus.NewCore(log, &tenantStore{tenants: map[uuid.UUID]tenantbus.Tenant{f.tenant.ID: f.tenant}})
	workerBus := workerbus.NewCore(log, &workerStore{workers: map[uuid.UUID]workerbus.Worker{f.worker.ID: f.worker}})
	serviceBus := servicebus.NewCore(log, &serviceStore{services: map[uuid.UUID]servicebus.Service{}})
	resBus := reservationbus.NewCore(log, tenantBus, workerBus, serviceBus, f.store)
	notify, err := notifybus.NewRouter(log, f.mailer)
	require.NoError(t, err)
	core := reminderbus.NewCore(log, tenantBus, workerBus, serviceBus, resBus, notify)

	now := time.Date(2026, 9, 9, 12, 0, 0, 0, time.UTC)
	f.seed(t, daydate.MustParse("2026-09-10"), "10:00", "cliente@example.com")

	report, err := core.Sweep(ctx, now)
	require.NoError(t, err)

	assert.Equal(t, 0, report.Total)
	assert.Equal(t, 0, f.mailer.count())
}

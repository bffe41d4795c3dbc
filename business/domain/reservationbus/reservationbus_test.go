package reservationbus_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/mail"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/jcpaschoal/agendex/business/domain/reservationbus"
	"github.com/jcpaschoal/agendex/business/domain/reservationbus/stores/reservationmem"
	"github.com/jcpaschoal/agendex/business/domain/servicebus"
	"github.com/jcpaschoal/agendex/business/domain/tenantbus"
	"github.com/jcpaschoal/agendex/business/domain/workerbus"
	"github.com/jcpaschoal/agendex/business/types/clock"
	"github.com/jcpaschoal/agendex/business/types/daydate"
	"github.com/jcpaschoal/agendex/business/types/name"
	"github.com/jcpaschoal/agendex/foundation/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// In-memory storers for the lookup domains.

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

// =============================================================================

type fixture struct {
	core    *reservationbus.Core
	store   *reservationmem.Store
	tenant  tenantbus.Tenant
	worker  workerbus.Worker
	service servicebus.Service
	day     daydate.Date
}

// newFixture builds an engine over in-memory storers: one enabled tenant in
// UTC, one worker 09:00-18:00 on a 30 minute grid, one 90 minute service
// assigned to the worker. The fixture day is tomorrow so it always sits
// inside the booking horizon.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := logger.New(io.Discard, logger.LevelInfo, "TEST", nil)

	tenant := tenantbus.Tenant{
		ID:             uuid.New(),
		Name:           name.MustParse("Studio Teste"),
		Slug:           "studio-teste",
		Timezone:       time.UTC,
		SenderEmail:    mail.Address{Address: "no-reply@studio.example.com"},
		OwnerName:      name.MustParse("Dona Maria"),
		OwnerEmail:     mail.Address{Address: "maria@studio.example.com"},
		MaxAdvanceDays: 30,
		Enabled:        true,
	}

	service := servicebus.Service{
		ID:              uuid.New(),
		TenantID:        tenant.ID,
		Name:            name.MustParse("Coloração"),
		DurationMinutes: 90,
		Enabled:         true,
	}

	worker := workerbus.Worker{
		ID:          uuid.New(),
		TenantID:    tenant.ID,
		Name:        name.MustParse("Paulo"),
		OpensAt:     clock.MustParse("09:00"),
		ClosesAt:    clock.MustParse("18:00"),
		SlotMinutes: 30,
		ServiceIDs:  []uuid.UUID{service.ID},
		Enabled:     true,
	}

	tenantBus := tenantbus.NewCore(log, &tenantStore{tenants: map[uuid.UUID]tenantbus.Tenant{tenant.ID: tenant}})
	workerBus := workerbus.NewCore(log, &workerStore{workers: map[uuid.UUID]workerbus.Worker{worker.ID: worker}})
	serviceBus := servicebus.NewCore(log, &serviceStore{services: map[uuid.UUID]servicebus.Service{service.ID: service}})

	store := reservationmem.NewStore()

	return &fixture{
		core:    reservationbus.NewCore(log, tenantBus, workerBus, serviceBus, store),
		store:   store,
		tenant:  tenant,
		worker:  worker,
		service: service,
		day:     daydate.FromTime(time.Now().UTC()).AddDays(1),
	}
}

func (f *fixture) newReservation(start string) reservationbus.NewReservation {
	return reservationbus.NewReservation{
		TenantID: f.tenant.ID,
		WorkerID: f.worker.ID,
		Day:      f.day,
		Start:    clock.MustParse(start),
		Client: reservationbus.Client{
			Name:  name.MustParse("Cliente Um"),
			Email: mail.Address{Address: "cliente@example.com"},
		},
	}
}

func slotStarts(slots []reservationbus.Slot) []string {
	starts := make([]string, len(slots))
	for i, s := range slots {
		starts[i] = s.Start.String()
	}
	return starts
}

// =============================================================================

func TestAvailability_EmptyCalendar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	slots, err := f.core.Availability(ctx, f.tenant.ID, f.worker.ID, uuid.NullUUID{}, f.day)
	require.NoError(t, err)

	var expected []string
	for m := 9 * 60; m+30 <= 18*60; m += 30 {
		c, err := clock.FromMinutes(m)
		require.NoError(t, err)
		expected = append(expected, c.String())
	}

	if diff := cmp.Diff(expected, slotStarts(slots)); diff != "" {
		t.Fatalf("slot mismatch (-want +got):\n%s", diff)
	}
}

func TestAvailability_BreakBuffer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Worker com intervalo de 15 minutos entre atendimentos.
	f.worker.BreakMinutes = 15
	log := logger.New(io.Discard, logger.LevelInfo, "TEST", nil)
	workerBus := workerbus.NewCore(log, &workerStore{workers: map[uuid.UUID]workerbus.Worker{f.worker.ID: f.worker}})
	tenantBus := tenantbus.NewCore(log, &tenantStore{tenants: map[uuid.UUID]tenantbus.Tenant{f.tenant.ID: f.tenant}})
	serviceBus := servicebus.NewCore(log, &serviceStore{services: map[uuid.UUID]servicebus.Service{f.service.ID: f.service}})
	core := reservationbus.NewCore(log, tenantBus, workerBus, serviceBus, f.store)

	_, err := core.Create(ctx, f.newReservation("10:00"))
	require.NoError(t, err)

	slots, err := core.Availability(ctx, f.tenant.ID, f.worker.ID, uuid.NullUUID{}, f.day)
	require.NoError(t, err)

	starts := slotStarts(slots)

	// The booking occupies [10:00, 10:30) and the buffer extends the block
	// back to 09:45. The 09:30 and 10:00 starts collide; 10:30 begins right
	// at the booking's end and stays open.
	assert.NotContains(t, starts, "09:30")
	assert.NotContains(t, starts, "10:00")
	assert.Contains(t, starts, "09:00")
	assert.Contains(t, starts, "10:30")
	assert.Contains(t, starts, "11:00")
}

func TestAvailability_ServiceDuration(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	serviceID := uuid.NullUUID{UUID: f.service.ID, Valid: true}

	slots, err := f.core.Availability(ctx, f.tenant.ID, f.worker.ID, serviceID, f.day)
	require.NoError(t, err)

	// 90 minute span: the last start that still fits before 18:00 is 16:30.
	require.NotEmpty(t, slots)
	assert.Equal(t, "16:30", slots[len(slots)-1].Start.String())
	assert.Len(t, slots, 16)
}

func TestAvailability_Holiday(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.worker.Holidays = []daydate.Date{f.day}
	log := logger.New(io.Discard, logger.LevelInfo, "TEST", nil)
	workerBus := workerbus.NewCore(log, &workerStore{workers: map[uuid.UUID]workerbus.Worker{f.worker.ID: f.worker}})
	tenantBus := tenantbus.NewCore(log, &tenantStore{tenants: map[uuid.UUID]tenantbus.Tenant{f.tenant.ID: f.tenant}})
	serviceBus := servicebus.NewCore(log, &serviceStore{services: map[uuid.UUID]servicebus.Service{f.service.ID: f.service}})
	core := reservationbus.NewCore(log, tenantBus, workerBus, serviceBus, f.store)

	slots, err := core.Availability(ctx, f.tenant.ID, f.worker.ID, uuid.NullUUID{}, f.day)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestAvailability_OutsideHorizon(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	past := daydate.FromTime(time.Now().UTC()).AddDays(-1)
	slots, err := f.core.Availability(ctx, f.tenant.ID, f.worker.ID, uuid.NullUUID{}, past)
	require.NoError(t, err)
	assert.Empty(t, slots)

	far := daydate.FromTime(time.Now().UTC()).AddDays(f.tenant.MaxAdvanceDays + 1)
	slots, err = f.core.Availability(ctx, f.tenant.ID, f.worker.ID, uuid.NullUUID{}, far)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestAvailability_DisabledWorker(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.worker.Enabled = false
	log := logger.New(io.Discard, logger.LevelInfo, "TEST", nil)
	workerBus := workerbus.NewCore(log, &workerStore{workers: map[uuid.UUID]workerbus.Worker{f.worker.ID: f.worker}})
	tenantBus := tenantbus.NewCore(log, &tenantStore{tenants: map[uuid.UUID]tenantbus.Tenant{f.tenant.ID: f.tenant}})
	serviceBus := servicebus.NewCore(log, &serviceStore{services: map[uuid.UUID]servicebus.Service{f.service.ID: f.service}})
	core := reservationbus.NewCore(log, tenantBus, workerBus, serviceBus, f.store)

	_, err := core.Availability(ctx, f.tenant.ID, f.worker.ID, uuid.NullUUID{}, f.day)
	assert.ErrorIs(t, err, reservationbus.ErrWorkerUnavailable)
}

func TestAvailability_ServiceNotOffered(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	other := uuid.NullUUID{UUID: uuid.New(), Valid: true}

	_, err := f.core.Availability(ctx, f.tenant.ID, f.worker.ID, other, f.day)
	assert.ErrorIs(t, err, reservationbus.ErrServiceNotOffered)
}

// =============================================================================

func TestCreate_Success(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.core.Create(ctx, f.newReservation("10:00"))
	require.NoError(t, err)

	assert.Equal(t, "CONFIRMED", res.Status.String())
	assert.Equal(t, f.worker.SlotMinutes, res.DurationMinutes)
	assert.False(t, res.ReminderSent)

	got, err := f.core.QueryByID(ctx, f.tenant.ID, res.ID)
	require.NoError(t, err)
	assert.Equal(t, res.ID, got.ID)
}

func TestCreate_SameSlotTwice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.core.Create(ctx, f.newReservation("10:00"))
	require.NoError(t, err)

	_, err = f.core.Create(ctx, f.newReservation("10:00"))
	assert.ErrorIs(t, err, reservationbus.ErrSlotUnavailable)
}

func TestCreate_OverlappingService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// 90 minutos a partir das 10:00 ocupam [10:00, 11:30).
	nr := f.newReservation("10:00")
	nr.ServiceID = uuid.NullUUID{UUID: f.service.ID, Valid: true}
	_, err := f.core.Create(ctx, nr)
	require.NoError(t, err)

	_, err = f.core.Create(ctx, f.newReservation("11:00"))
	assert.ErrorIs(t, err, reservationbus.ErrSlotUnavailable)

	_, err = f.core.Create(ctx, f.newReservation("11:30"))
	assert.NoError(t, err)
}

func TestCreate_OffGridStart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.core.Create(ctx, f.newReservation("10:10"))
	assert.ErrorIs(t, err, reservationbus.ErrSlotUnavailable)
}

func TestCreate_DateOutOfRange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	nr := f.newReservation("10:00")
	nr.Day = daydate.FromTime(time.Now().UTC()).AddDays(-1)
	_, err := f.core.Create(ctx, nr)
	assert.ErrorIs(t, err, reservationbus.ErrDateOutOfRange)

	nr.Day = daydate.FromTime(time.Now().UTC()).AddDays(f.tenant.MaxAdvanceDays + 1)
	_, err = f.core.Create(ctx, nr)
	assert.ErrorIs(t, err, reservationbus.ErrDateOutOfRange)
}

func TestCreate_ServiceNotOffered(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	nr := f.newReservation("10:00")
	nr.ServiceID = uuid.NullUUID{UUID: uuid.New(), Valid: true}

	_, err := f.core.Create(ctx, nr)
	assert.ErrorIs(t, err, reservationbus.ErrServiceNotOffered)
}

func TestCreate_UnknownWorker(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	nr := f.newReservation("10:00")
	nr.WorkerID = uuid.New()

	_, err := f.core.Create(ctx, nr)
	assert.ErrorIs(t, err, workerbus.ErrNotFound)
}

// =============================================================================

func TestMarkReminderSent_Once(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.core.Create(ctx, f.newReservation("10:00"))
	require.NoError(t, err)

	due, err := f.core.QueryDueReminder(ctx, f.tenant.ID, f.day)
	require.NoError(t, err)
	require.Len(t, due, 1)

	now := time.Now()
	require.NoError(t, f.core.MarkReminderSent(ctx, res.ID, now))

	err = f.core.MarkReminderSent(ctx, res.ID, now)
	assert.ErrorIs(t, err, reservationbus.ErrAlreadyReminded)

	due, err = f.core.QueryDueReminder(ctx, f.tenant.ID, f.day)
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestQueryDueReminder_Selection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.core.Create(ctx, f.newReservation("10:00"))
	require.NoError(t, err)

	otherDay := f.newReservation("10:00")
	otherDay.Day = f.day.AddDays(1)
	_, err = f.core.Create(ctx, otherDay)
	require.NoError(t, err)

	due, err := f.core.QueryDueReminder(ctx, f.tenant.ID, f.day)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, res.ID, due[0].ID)
}

// =============================================================================

func TestErrorsAreDistinct(t *testing.T) {
	// Os sentinelas precisam continuar distinguíveis via errors.Is.
	wrapped := fmt.Errorf("create: %w", reservationbus.ErrSlotUnavailable)
	assert.True(t, errors.Is(wrapped, reservationbus.ErrSlotUnavailable))
	assert.False(t, errors.Is(wrapped, reservationbus.ErrDateOutOfRange))
}

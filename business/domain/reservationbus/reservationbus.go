// Package reservationbus implements the scheduling engine: availability
// calculation, the reservation conflict guard, and the reminder-sent state
// transition. The datastore is the single source of truth; nothing in this
// package caches slot or reservation state across invocations.
package reservationbus

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jcpaschoal/agendex/business/domain/servicebus"
	"github.com/jcpaschoal/agendex/business/domain/tenantbus"
	"github.com/jcpaschoal/agendex/business/domain/workerbus"
	"github.com/jcpaschoal/agendex/business/sdk/order"
	"github.com/jcpaschoal/agendex/business/sdk/page"
	"github.com/jcpaschoal/agendex/business/types/daydate"
	"github.com/jcpaschoal/agendex/business/types/status"
	"github.com/jcpaschoal/agendex/foundation/logger"
	"github.com/jcpaschoal/agendex/foundation/otel"
)

var (
	ErrNotFound          = errors.New("reservation not found")
	ErrSlotUnavailable   = errors.New("slot is not available")
	ErrWorkerUnavailable = errors.New("worker is not taking bookings")
	ErrDateOutOfRange    = errors.New("date is in the past or beyond the booking horizon")
	ErrServiceNotOffered = errors.New("service is not offered by the worker")
	ErrAlreadyReminded   = errors.New("reminder already sent")
)

// Storer defines the behavior required by the reservationbus to interact
// with the database. Create and MarkReminderSent are conditional writes: the
// implementation must guarantee that only one of two concurrent commits for
// the same slot succeeds, and that the reminder flag transitions at most
// once.
type Storer interface {
	Create(ctx context.Context, res Reservation) error
	QueryByID(ctx context.Context, tenantID uuid.UUID, reservationID uuid.UUID) (Reservation, error)
	QueryByWorkerDay(ctx context.Context, tenantID uuid.UUID, workerID uuid.UUID, day daydate.Date) ([]Reservation, error)
	Query(ctx context.Context, filter QueryFilter, orderBy order.By, page page.Page) ([]Reservation, error)
	Count(ctx context.Context, filter QueryFilter) (int, error)
	QueryDueReminder(ctx context.Context, tenantID uuid.UUID, day daydate.Date) ([]Reservation, error)
	MarkReminderSent(ctx context.Context, reservationID uuid.UUID, sentAt time.Time) error
}

// Core manages the set of APIs for reservation access.
type Core struct {
	log        *logger.Logger
	storer     Storer
	tenantBus  *tenantbus.Core
	workerBus  *workerbus.Core
	serviceBus *servicebus.Core
}

// NewCore constructs a core for reservation api access.
func NewCore(log *logger.Logger, tenantBus *tenantbus.Core, workerBus *workerbus.Core, serviceBus *servicebus.Core, storer Storer) *Core {
	return &Core{
		log:        log,
		storer:     storer,
		tenantBus:  tenantBus,
		workerBus:  workerBus,
		serviceBus: serviceBus,
	}
}

// Create attempts to commit a booking. The availability read the caller
// acted on may be stale by now, so the booking is re-validated against the
// current state of the store and the final insert is conditional: when two
// commits race for the same slot exactly one succeeds and the other receives
// ErrSlotUnavailable. The caller must re-query availability on that error;
// no retry happens here.
func (c *Core) Create(ctx context.Context, nr NewReservation) (Reservation, error) {
	ctx, span := otel.AddSpan(ctx, "business.reservationbus.create")
	defer span.End()

	tenant, err := c.tenantBus.QueryByID(ctx, nr.TenantID)
	if err != nil {
		return Reservation{}, fmt.Errorf("query tenant: %w", err)
	}

	worker, err := c.workerBus.QueryByID(ctx, nr.TenantID, nr.WorkerID)
	if err != nil {
		return Reservation{}, fmt.Errorf("query worker: %w", err)
	}

	if !worker.Enabled {
		return Reservation{}, ErrWorkerUnavailable
	}

	duration, err := c.resolveDuration(ctx, worker, nr.ServiceID)
	if err != nil {
		return Reservation{}, err
	}

	today := daydate.FromTime(time.Now().In(tenant.Timezone))
	if err := checkHorizon(nr.Day, today, tenant.MaxAdvanceDays); err != nil {
		return Reservation{}, err
	}

	// Commit-time re-validation. The conditional insert below closes the
	// exact-slot race; this read rejects requests whose interval overlaps a
	// booking committed since the caller's availability query.
	open, err := c.slotOpen(ctx, worker, nr.Day, nr.Start, duration)
	if err != nil {
		return Reservation{}, fmt.Errorf("revalidate: %w", err)
	}
	if !open {
		return Reservation{}, ErrSlotUnavailable
	}

	now := time.Now()

	res := Reservation{
		ID:              uuid.New(),
		TenantID:        nr.TenantID,
		WorkerID:        nr.WorkerID,
		ServiceID:       nr.ServiceID,
		Day:             nr.Day,
		Start:           nr.Start,
		DurationMinutes: duration,
		Client:          nr.Client,
		Notes:           nr.Notes,
		Status:          status.Confirmed,
		ReminderSent:    false,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := c.storer.Create(ctx, res); err != nil {
		return Reservation{}, fmt.Errorf("create: %w", err)
	}

	return res, nil
}

// QueryByID finds the reservation by the specified ID inside the tenant.
func (c *Core) QueryByID(ctx context.Context, tenantID uuid.UUID, reservationID uuid.UUID) (Reservation, error) {
	ctx, span := otel.AddSpan(ctx, "business.reservationbus.queryByID")
	defer span.End()

	res, err := c.storer.QueryByID(ctx, tenantID, reservationID)
	if err != nil {
		return Reservation{}, fmt.Errorf("query: reservationID[%s]: %w", reservationID, err)
	}

	return res, nil
}

// Query retrieves a list of existing reservations.
func (c *Core) Query(ctx context.Context, filter QueryFilter, orderBy order.By, page page.Page) ([]Reservation, error) {
	ctx, span := otel.AddSpan(ctx, "business.reservationbus.query")
	defer span.End()

	resvs, err := c.storer.Query(ctx, filter, orderBy, page)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	return resvs, nil
}

// Count returns the total number of reservations for the filter.
func (c *Core) Count(ctx context.Context, filter QueryFilter) (int, error) {
	ctx, span := otel.AddSpan(ctx, "business.reservationbus.count")
	defer span.End()

	return c.storer.Count(ctx, filter)
}

// QueryDueReminder returns the tenant's reservations on the specified day
// that are confirmed and have not been reminded. An empty result is a
// normal outcome, not an error.
func (c *Core) QueryDueReminder(ctx context.Context, tenantID uuid.UUID, day daydate.Date) ([]Reservation, error) {
	ctx, span := otel.AddSpan(ctx, "business.reservationbus.queryDueReminder")
	defer span.End()

	resvs, err := c.storer.QueryDueReminder(ctx, tenantID, day)
	if err != nil {
		return nil, fmt.Errorf("query due: tenantID[%s] day[%s]: %w", tenantID, day, err)
	}

	return resvs, nil
}

// MarkReminderSent transitions reminder_sent false -> true for the
// reservation. The write is conditioned on the flag still being false: a
// concurrent sweep that already marked the reservation surfaces as
// ErrAlreadyReminded and the transition never runs twice.
func (c *Core) MarkReminderSent(ctx context.Context, reservationID uuid.UUID, sentAt time.Time) error {
	ctx, span := otel.AddSpan(ctx, "business.reservationbus.markReminderSent")
	defer span.End()

	if err := c.storer.MarkReminderSent(ctx, reservationID, sentAt); err != nil {
		return fmt.Errorf("mark: reservationID[%s]: %w", reservationID, err)
	}

	return nil
}

// =============================================================================

// resolveDuration determines the interval width the booking occupies: the
// service duration when a service is specified, otherwise one grid step.
func (c *Core) resolveDuration(ctx context.Context, worker workerbus.Worker, serviceID uuid.NullUUID) (int, error) {
	if !serviceID.Valid {
		return worker.SlotMinutes, nil
	}

	if !worker.OffersService(serviceID.UUID) {
		return 0, ErrServiceNotOffered
	}

	service, err := c.serviceBus.QueryByID(ctx, worker.TenantID, serviceID.UUID)
	if err != nil {
		return 0, fmt.Errorf("query service: %w", err)
	}

	return service.DurationMinutes, nil
}

func checkHorizon(day daydate.Date, today daydate.Date, maxAdvanceDays int) error {
	if day.Before(today) {
		return fmt.Errorf("day[%s]: %w", day, ErrDateOutOfRange)
	}

	if day.After(today.AddDays(maxAdvanceDays)) {
		return fmt.Errorf("day[%s]: %w", day, ErrDateOutOfRange)
	}

	return nil
}

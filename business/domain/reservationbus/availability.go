package reservationbus

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jcpaschoal/agendex/business/domain/workerbus"
	"github.com/jcpaschoal/agendex/business/sdk/timegrid"
	"github.com/jcpaschoal/agendex/business/types/clock"
	"github.com/jcpaschoal/agendex/business/types/daydate"
	"github.com/jcpaschoal/agendex/business/types/status"
	"github.com/jcpaschoal/agendex/foundation/otel"
)

// Availability computes the open slots for a worker on a given day. The
// result is derived fresh from the current reservation state on every call.
// Days in the past, beyond the tenant's booking horizon, or on which the
// worker is on holiday yield an empty result rather than an error.
func (c *Core) Availability(ctx context.Context, tenantID uuid.UUID, workerID uuid.UUID, serviceID uuid.NullUUID, day daydate.Date) ([]Slot, error) {
	ctx, span := otel.AddSpan(ctx, "business.reservationbus.availability")
	defer span.End()

	tenant, err := c.tenantBus.QueryByID(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("query tenant: %w", err)
	}

	worker, err := c.workerBus.QueryByID(ctx, tenantID, workerID)
	if err != nil {
		return nil, fmt.Errorf("query worker: %w", err)
	}

	if !worker.Enabled {
		return nil, ErrWorkerUnavailable
	}

	duration, err := c.resolveDuration(ctx, worker, serviceID)
	if err != nil {
		return nil, err
	}

	today := daydate.FromTime(time.Now().In(tenant.Timezone))
	if err := checkHorizon(day, today, tenant.MaxAdvanceDays); err != nil {
		return []Slot{}, nil
	}

	if worker.OnHoliday(day) {
		return []Slot{}, nil
	}

	grid := timegrid.Grid{
		Open:        worker.OpensAt,
		Close:       worker.ClosesAt,
		StepMinutes: worker.SlotMinutes,
		SpanMinutes: duration,
	}

	starts, err := timegrid.Generate(grid)
	if err != nil {
		return nil, fmt.Errorf("generate grid: %w", err)
	}

	booked, err := c.storer.QueryByWorkerDay(ctx, tenantID, workerID, day)
	if err != nil {
		return nil, fmt.Errorf("query reservations: %w", err)
	}

	blocked := blockedIntervals(booked, worker.BreakMinutes)

	slots := make([]Slot, 0, len(starts))
	for _, start := range starts {
		if overlapsAny(start.Minutes(), start.Minutes()+duration, blocked) {
			continue
		}
		slots = append(slots, Slot{
			WorkerID: workerID,
			Day:      day,
			Start:    start,
		})
	}

	return slots, nil
}

// slotOpen reports whether the candidate interval is a member of the
// worker's current open grid. Used by Create to re-validate against state
// committed after the caller's availability read.
func (c *Core) slotOpen(ctx context.Context, worker workerbus.Worker, day daydate.Date, start clock.Time, duration int) (bool, error) {
	if worker.OnHoliday(day) {
		return false, nil
	}

	grid := timegrid.Grid{
		Open:        worker.OpensAt,
		Close:       worker.ClosesAt,
		StepMinutes: worker.SlotMinutes,
		SpanMinutes: duration,
	}

	starts, err := timegrid.Generate(grid)
	if err != nil {
		return false, fmt.Errorf("generate grid: %w", err)
	}

	onGrid := false
	for _, s := range starts {
		if s.Equal(start) {
			onGrid = true
			break
		}
	}
	if !onGrid {
		return false, nil
	}

	booked, err := c.storer.QueryByWorkerDay(ctx, worker.TenantID, worker.ID, day)
	if err != nil {
		return false, fmt.Errorf("query reservations: %w", err)
	}

	blocked := blockedIntervals(booked, worker.BreakMinutes)

	return !overlapsAny(start.Minutes(), start.Minutes()+duration, blocked), nil
}

// interval is half-open [from, to) in minutes since midnight.
type interval struct {
	from int
	to   int
}

// blockedIntervals extends each confirmed reservation backwards by the
// worker's break buffer, so a candidate must leave the buffer clear before
// the existing booking starts. A candidate beginning exactly when the
// booking ends is fine. Cancelled rows never block.
func blockedIntervals(resvs []Reservation, breakMinutes int) []interval {
	blocked := make([]interval, 0, len(resvs))
	for _, r := range resvs {
		if !r.Status.Equal(status.Confirmed) {
			continue
		}
		blocked = append(blocked, interval{
			from: r.Start.Minutes() - breakMinutes,
			to:   r.Start.Minutes() + r.DurationMinutes,
		})
	}

	return blocked
}

func overlapsAny(from int, to int, blocked []interval) bool {
	for _, b := range blocked {
		if from < b.to && b.from < to {
			return true
		}
	}

	return false
}

// Package reminderbus runs the day-before reminder sweep. For every enabled
// tenant it selects the reservations dated tomorrow in the tenant's own
// timezone that are still confirmed and unreminded, delivers the reminder,
// and marks the reservation. Failures are isolated per item.
package reminderbus

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jcpaschoal/agendex/business/domain/notifybus"
	"github.com/jcpaschoal/agendex/business/domain/reservationbus"
	"github.com/jcpaschoal/agendex/business/domain/servicebus"
	"github.com/jcpaschoal/agendex/business/domain/tenantbus"
	"github.com/jcpaschoal/agendex/business/domain/workerbus"
	"github.com/jcpaschoal/agendex/business/types/daydate"
	"github.com/jcpaschoal/agendex/foundation/logger"
	"github.com/jcpaschoal/agendex/foundation/otel"
)

// itemTimeout bounds the render+send+mark work for a single reservation so
// one slow SMTP conversation cannot stall the whole sweep.
const itemTimeout = 30 * time.Second

// Core manages the reminder sweep.
type Core struct {
	log            *logger.Logger
	tenantBus      *tenantbus.Core
	workerBus      *workerbus.Core
	serviceBus     *servicebus.Core
	reservationBus *reservationbus.Core
	notify         *notifybus.Router
}

// NewCore constructs a core for sweep access.
func NewCore(log *logger.Logger, tenantBus *tenantbus.Core, workerBus *workerbus.Core, serviceBus *servicebus.Core, reservationBus *reservationbus.Core, notify *notifybus.Router) *Core {
	return &Core{
		log:            log,
		tenantBus:      tenantBus,
		workerBus:      workerBus,
		serviceBus:     serviceBus,
		reservationBus: reservationBus,
		notify:         notify,
	}
}

// Sweep processes the due set for every enabled tenant. "Tomorrow" is
// evaluated per tenant against the tenant's timezone at the specified
// moment. The returned error covers only the tenant listing; everything
// after that is reported per item.
func (c *Core) Sweep(ctx context.Context, now time.Time) (Report, error) {
	ctx, span := otel.AddSpan(ctx, "business.reminderbus.sweep")
	defer span.End()

	tenants, err := c.tenantBus.QueryEnabled(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("query tenants: %w", err)
	}

	var report Report

	for _, tenant := range tenants {
		tomorrow := tomorrowFor(now, tenant)

		due, err := c.reservationBus.QueryDueReminder(ctx, tenant.ID, tomorrow)
		if err != nil {
			// O tenant fica para a próxima varredura horária.
			c.log.Error(ctx, "sweep: query due set failed",
				"tenant_id", tenant.ID, "day", tomorrow, "err", err)
			continue
		}

		for _, res := range due {
			report.add(c.process(ctx, tenant, res, now))
		}
	}

	c.log.Info(ctx, "sweep: done",
		"total", report.Total, "succeeded", report.Succeeded, "failed", report.Failed)

	return report, nil
}

// process handles a single reservation: resolve the parties, send, then
// mark. Send happens before mark, so a crash between the two can produce a
// duplicate email but never a silently dropped one.
func (c *Core) process(ctx context.Context, tenant tenantbus.Tenant, res reservationbus.Reservation, now time.Time) Item {
	ctx, cancel := context.WithTimeout(ctx, itemTimeout)
	defer cancel()

	item := Item{
		ReservationID: res.ID,
		TenantID:      tenant.ID,
	}

	worker, err := c.workerBus.QueryByID(ctx, tenant.ID, res.WorkerID)
	if err != nil {
		item.Error = fmt.Sprintf("query worker: %s", err)
		c.log.Error(ctx, "sweep: item failed", "reservation_id", res.ID, "err", err)
		return item
	}

	var service *servicebus.Service
	if res.ServiceID.Valid {
		svc, err := c.serviceBus.QueryByID(ctx, tenant.ID, res.ServiceID.UUID)
		if err != nil {
			item.Error = fmt.Sprintf("query service: %s", err)
			c.log.Error(ctx, "sweep: item failed", "reservation_id", res.ID, "err", err)
			return item
		}
		service = &svc
	}

	evt := notifybus.Event{
		Tenant:      tenant,
		Worker:      worker,
		Service:     service,
		Reservation: res,
	}

	delivery, err := c.notify.Reminder(ctx, evt)
	if err != nil {
		item.Error = fmt.Sprintf("send: %s", err)
		c.log.Error(ctx, "sweep: item failed", "reservation_id", res.ID, "err", err)
		return item
	}

	if !delivery.Business {
		c.log.Info(ctx, "sweep: business leg not delivered", "reservation_id", res.ID)
	}

	if err := c.reservationBus.MarkReminderSent(ctx, res.ID, now); err != nil {
		// Outro sweep marcou primeiro: o lembrete foi tratado.
		if errors.Is(err, reservationbus.ErrAlreadyReminded) {
			c.log.Info(ctx, "sweep: already marked", "reservation_id", res.ID)
			item.Sent = true
			return item
		}

		item.Error = fmt.Sprintf("mark: %s", err)
		c.log.Error(ctx, "sweep: item failed", "reservation_id", res.ID, "err", err)
		return item
	}

	item.Sent = true

	return item
}

// tomorrowFor is the tenant-local calendar date one day ahead of now.
func tomorrowFor(now time.Time, tenant tenantbus.Tenant) daydate.Date {
	return daydate.FromTime(now.In(tenant.Timezone)).AddDays(1)
}

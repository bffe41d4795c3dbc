// Package bookingapp maintains the public booking surface: availability
// lookups and bookings made through a tenant's public page.
package bookingapp

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/jcpaschoal/agendex/app/sdk/errs"
	"github.com/jcpaschoal/agendex/app/sdk/mid"
	"github.com/jcpaschoal/agendex/business/domain/notifybus"
	"github.com/jcpaschoal/agendex/business/domain/reservationbus"
	"github.com/jcpaschoal/agendex/business/domain/servicebus"
	"github.com/jcpaschoal/agendex/business/domain/workerbus"
	"github.com/jcpaschoal/agendex/business/sdk/web"
	"github.com/jcpaschoal/agendex/business/types/daydate"
	"github.com/jcpaschoal/agendex/foundation/logger"
)

type app struct {
	log            *logger.Logger
	reservationBus *reservationbus.Core
	workerBus      *workerbus.Core
	serviceBus     *servicebus.Core
	notify         *notifybus.Router
}

func newApp(log *logger.Logger, reservationBus *reservationbus.Core, workerBus *workerbus.Core, serviceBus *servicebus.Core, notify *notifybus.Router) *app {
	return &app{
		log:            log,
		reservationBus: reservationBus,
		workerBus:      workerBus,
		serviceBus:     serviceBus,
		notify:         notify,
	}
}

// availability returns the open slots of a worker on a day.
func (a *app) availability(ctx context.Context, r *http.Request) web.Encoder {
	tenantID, err := mid.GetTenantID(ctx)
	if err != nil {
		return errs.Errorf(errs.Internal, "tenant missing in context: %s", err)
	}

	values := r.URL.Query()

	workerID, err := uuid.Parse(values.Get("worker_id"))
	if err != nil {
		return errs.NewFieldErrors("worker_id", err)
	}

	var serviceID uuid.NullUUID
	if raw := values.Get("service_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return errs.NewFieldErrors("service_id", err)
		}
		serviceID = uuid.NullUUID{UUID: id, Valid: true}
	}

	day, err := daydate.Parse(values.Get("date"))
	if err != nil {
		return errs.NewFieldErrors("date", err)
	}

	slots, err := a.reservationBus.Availability(ctx, tenantID, workerID, serviceID, day)
	if err != nil {
		return mapBusError(err, "availability: workerID[%s] day[%s]", workerID, day)
	}

	return toAppAvailability(workerID, day, slots)
}

// create commits a booking and sends the confirmation mail. The booking is
// durable before any mail goes out; a mail failure never rolls it back.
func (a *app) create(ctx context.Context, r *http.Request) web.Encoder {
	var app NewBooking
	if err := web.Decode(r, &app); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	tenantID, err := mid.GetTenantID(ctx)
	if err != nil {
		return errs.Errorf(errs.Internal, "tenant missing in context: %s", err)
	}

	nr, err := toBusNewReservation(app, tenantID)
	if err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	res, err := a.reservationBus.Create(ctx, nr)
	if err != nil {
		return mapBusError(err, "create: req[%+v]", app)
	}

	a.sendConfirmation(ctx, res)

	return toAppBooking(res)
}

// sendConfirmation delivers the confirmation mail best effort.
func (a *app) sendConfirmation(ctx context.Context, res reservationbus.Reservation) {
	tenant, err := mid.GetTenant(ctx)
	if err != nil {
		a.log.Error(ctx, "booking: confirmation skipped", "err", err)
		return
	}

	worker, err := a.workerBus.QueryByID(ctx, res.TenantID, res.WorkerID)
	if err != nil {
		a.log.Error(ctx, "booking: confirmation skipped", "reservation_id", res.ID, "err", err)
		return
	}

	var service *servicebus.Service
	if res.ServiceID.Valid {
		svc, err := a.serviceBus.QueryByID(ctx, res.TenantID, res.ServiceID.UUID)
		if err != nil {
			a.log.Error(ctx, "booking: confirmation skipped", "reservation_id", res.ID, "err", err)
			return
		}
		service = &svc
	}

	evt := notifybus.Event{
		Tenant:      tenant,
		Worker:      worker,
		Service:     service,
		Reservation: res,
	}

	delivery, err := a.notify.Confirmation(ctx, evt)
	if err != nil {
		a.log.Error(ctx, "booking: confirmation mail failed", "reservation_id", res.ID, "err", err)
		return
	}

	if !delivery.Client || !delivery.Business {
		a.log.Info(ctx, "booking: confirmation partially delivered",
			"reservation_id", res.ID, "client", delivery.Client, "business", delivery.Business)
	}
}

// mapBusError translates business sentinels into client facing errors.
func mapBusError(err error, format string, v ...any) *errs.Error {
	switch {
	case errors.Is(err, workerbus.ErrNotFound):
		return errs.New(errs.NotFound, workerbus.ErrNotFound)

	case errors.Is(err, servicebus.ErrNotFound):
		return errs.New(errs.NotFound, servicebus.ErrNotFound)

	case errors.Is(err, reservationbus.ErrWorkerUnavailable):
		return errs.New(errs.Unavailable, reservationbus.ErrWorkerUnavailable)

	case errors.Is(err, reservationbus.ErrServiceNotOffered):
		return errs.New(errs.InvalidArgument, reservationbus.ErrServiceNotOffered)

	case errors.Is(err, reservationbus.ErrDateOutOfRange):
		return errs.New(errs.InvalidArgument, reservationbus.ErrDateOutOfRange)

	case errors.Is(err, reservationbus.ErrSlotUnavailable):
		return errs.New(errs.Aborted, reservationbus.ErrSlotUnavailable)
	}

	args := append(v, err)
	return errs.Errorf(errs.InternalOnlyLog, format+": %s", args...)
}

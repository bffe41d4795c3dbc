// Package reservationapp maintains the authenticated agenda surface used by
// tenant staff.
package reservationapp

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/jcpaschoal/agendex/app/sdk/errs"
	"github.com/jcpaschoal/agendex/app/sdk/mid"
	"github.com/jcpaschoal/agendex/app/sdk/query"
	"github.com/jcpaschoal/agendex/business/domain/reservationbus"
	"github.com/jcpaschoal/agendex/business/domain/servicebus"
	"github.com/jcpaschoal/agendex/business/domain/workerbus"
	"github.com/jcpaschoal/agendex/business/sdk/order"
	"github.com/jcpaschoal/agendex/business/sdk/page"
	"github.com/jcpaschoal/agendex/business/sdk/web"
)

type app struct {
	reservationBus *reservationbus.Core
}

func newApp(reservationBus *reservationbus.Core) *app {
	return &app{
		reservationBus: reservationBus,
	}
}

// create books a slot on behalf of a client.
func (a *app) create(ctx context.Context, r *http.Request) web.Encoder {
	var app NewReservation
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

	return &CreatedReservation{Reservation: toAppReservation(res)}
}

// query returns a page of reservations for the tenant's agenda.
func (a *app) query(ctx context.Context, r *http.Request) web.Encoder {
	tenantID, err := mid.GetTenantID(ctx)
	if err != nil {
		return errs.Errorf(errs.Internal, "tenant missing in context: %s", err)
	}

	qp := parseQueryParams(r)

	pg, err := page.Parse(qp.Page, qp.Rows)
	if err != nil {
		return errs.NewFieldErrors("page", err)
	}

	filter, err := parseFilter(qp, tenantID)
	if err != nil {
		if v, ok := err.(*errs.Error); ok {
			return v
		}
		return errs.NewFieldErrors("filter", err)
	}

	orderBy, err := order.Parse(orderByFields, qp.OrderBy, reservationbus.DefaultOrderBy)
	if err != nil {
		return errs.NewFieldErrors("order", err)
	}

	resvs, err := a.reservationBus.Query(ctx, filter, orderBy, pg)
	if err != nil {
		return errs.Errorf(errs.Internal, "query: %s", err)
	}

	total, err := a.reservationBus.Count(ctx, filter)
	if err != nil {
		return errs.Errorf(errs.Internal, "count: %s", err)
	}

	return query.NewResult(toAppReservations(resvs), total, pg)
}

// queryByID returns a single reservation inside the caller's tenant.
func (a *app) queryByID(ctx context.Context, r *http.Request) web.Encoder {
	tenantID, err := mid.GetTenantID(ctx)
	if err != nil {
		return errs.Errorf(errs.Internal, "tenant missing in context: %s", err)
	}

	reservationID, err := uuid.Parse(web.Param(r, "reservation_id"))
	if err != nil {
		return errs.NewFieldErrors("reservation_id", err)
	}

	res, err := a.reservationBus.QueryByID(ctx, tenantID, reservationID)
	if err != nil {
		if errors.Is(err, reservationbus.ErrNotFound) {
			return errs.New(errs.NotFound, reservationbus.ErrNotFound)
		}
		return errs.Errorf(errs.InternalOnlyLog, "query: reservationID[%s]: %s", reservationID, err)
	}

	return toAppReservation(res)
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

// Package all binds all the routes into the specified app.
package all

import (
	"github.com/jcpaschoal/agendex/app/domain/bookingapp"
	"github.com/jcpaschoal/agendex/app/domain/checkapp"
	"github.com/jcpaschoal/agendex/app/domain/reservationapp"
	"github.com/jcpaschoal/agendex/app/domain/sweepapp"
	"github.com/jcpaschoal/agendex/app/sdk/mux"
	"github.com/jcpaschoal/agendex/business/sdk/web"
)

// Routes constructs the add value which provides the implementation of
// of RouteAdder for specifying what routes to bind to this instance.
func Routes() add {
	return add{}
}

type add struct{}

func (add) Add(app *web.App, cfg mux.Config) {
	checkapp.Routes(app, checkapp.Config{
		Build: cfg.Build,
		Log:   cfg.Log,
		DB:    cfg.DB,
	})

	bookingapp.Routes(app, bookingapp.Config{
		Log:            cfg.Log,
		TenantBus:      cfg.BusConfig.TenantBus,
		WorkerBus:      cfg.BusConfig.WorkerBus,
		ServiceBus:     cfg.BusConfig.ServiceBus,
		ReservationBus: cfg.BusConfig.ReservationBus,
		Notify:         cfg.BusConfig.Notify,
	})

	reservationapp.Routes(app, reservationapp.Config{
		Auth:           cfg.AuthConfig.Auth,
		ReservationBus: cfg.BusConfig.ReservationBus,
	})

	sweepapp.Routes(app, sweepapp.Config{
		Auth:        cfg.AuthConfig.Auth,
		ReminderBus: cfg.BusConfig.ReminderBus,
	})
}

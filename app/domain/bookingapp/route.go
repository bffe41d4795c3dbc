package bookingapp

import (
	"net/http"

	"github.com/jcpaschoal/agendex/app/sdk/mid"
	"github.com/jcpaschoal/agendex/business/domain/notifybus"
	"github.com/jcpaschoal/agendex/business/domain/reservationbus"
	"github.com/jcpaschoal/agendex/business/domain/servicebus"
	"github.com/jcpaschoal/agendex/business/domain/tenantbus"
	"github.com/jcpaschoal/agendex/business/domain/workerbus"
	"github.com/jcpaschoal/agendex/business/sdk/web"
	"github.com/jcpaschoal/agendex/foundation/logger"
)

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log            *logger.Logger
	TenantBus      *tenantbus.Core
	WorkerBus      *workerbus.Core
	ServiceBus     *servicebus.Core
	ReservationBus *reservationbus.Core
	Notify         *notifybus.Router
}

// Routes adds specific routes for this group.
func Routes(app *web.App, cfg Config) {
	const version = "v1"

	// O slug na URL resolve o tenant das rotas públicas.
	tenant := mid.ResolveTenant(cfg.TenantBus)

	api := newApp(cfg.Log, cfg.ReservationBus, cfg.WorkerBus, cfg.ServiceBus, cfg.Notify)

	app.HandlerFunc(http.MethodGet, version, "/public/{tenant}/availability", api.availability, tenant)
	app.HandlerFunc(http.MethodPost, version, "/public/{tenant}/reservations", api.create, tenant)
}

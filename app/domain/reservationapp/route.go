package reservationapp

import (
	"net/http"

	"github.com/jcpaschoal/agendex/app/sdk/auth"
	"github.com/jcpaschoal/agendex/app/sdk/mid"
	"github.com/jcpaschoal/agendex/business/domain/reservationbus"
	"github.com/jcpaschoal/agendex/business/sdk/web"
	"github.com/jcpaschoal/agendex/business/types/role"
)

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Auth           *auth.Auth
	ReservationBus *reservationbus.Core
}

// Routes adds specific routes for this group.
func Routes(app *web.App, cfg Config) {
	const version = "v1"

	authen := mid.Authenticate(cfg.Auth)
	staff := mid.Authorize(cfg.Auth, role.Admin, role.Operator)
	admin := mid.Authorize(cfg.Auth, role.Admin)

	api := newApp(cfg.ReservationBus)

	app.HandlerFunc(http.MethodGet, version, "/reservations", api.query, authen, staff)
	app.HandlerFunc(http.MethodGet, version, "/reservations/{reservation_id}", api.queryByID, authen, staff)
	app.HandlerFunc(http.MethodPost, version, "/reservations", api.create, authen, admin)
}

package sweepapp

import (
	"net/http"

	"github.com/jcpaschoal/agendex/app/sdk/auth"
	"github.com/jcpaschoal/agendex/app/sdk/mid"
	"github.com/jcpaschoal/agendex/business/domain/reminderbus"
	"github.com/jcpaschoal/agendex/business/sdk/web"
	"github.com/jcpaschoal/agendex/business/types/role"
)

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Auth        *auth.Auth
	ReminderBus *reminderbus.Core
}

// Routes adds specific routes for this group.
func Routes(app *web.App, cfg Config) {
	const version = "v1"

	authen := mid.Authenticate(cfg.Auth)
	admin := mid.Authorize(cfg.Auth, role.Admin)

	api := newApp(cfg.ReminderBus)

	app.HandlerFunc(http.MethodPost, version, "/reminders/sweep", api.sweep, authen, admin)
}

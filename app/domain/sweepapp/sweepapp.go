// Package sweepapp exposes the reminder sweep for on-demand runs. The
// hourly cron trigger uses the same business entry point.
package sweepapp

import (
	"context"
	"net/http"
	"time"

	"github.com/jcpaschoal/agendex/app/sdk/errs"
	"github.com/jcpaschoal/agendex/business/domain/reminderbus"
	"github.com/jcpaschoal/agendex/business/sdk/web"
)

type app struct {
	reminderBus *reminderbus.Core
}

func newApp(reminderBus *reminderbus.Core) *app {
	return &app{
		reminderBus: reminderBus,
	}
}

// sweep runs the reminder sweep now and reports the per-item outcomes.
func (a *app) sweep(ctx context.Context, r *http.Request) web.Encoder {
	report, err := a.reminderBus.Sweep(ctx, time.Now())
	if err != nil {
		return errs.Errorf(errs.InternalOnlyLog, "sweep: %s", err)
	}

	return toAppReport(report)
}

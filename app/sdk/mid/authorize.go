package mid

import (
	"context"
	"net/http"

	"github.com/jcpaschoal/agendex/app/sdk/auth"
	"github.com/jcpaschoal/agendex/app/sdk/errs"
	"github.com/jcpaschoal/agendex/business/sdk/web"
	"github.com/jcpaschoal/agendex/business/types/role"
)

// Authorize valida se o chamador autenticado possui uma das roles exigidas
// pela rota.
func Authorize(ath *auth.Auth, allowedRoles ...role.Role) web.MidFunc {
	m := func(next web.HandlerFunc) web.HandlerFunc {
		h := func(ctx context.Context, r *http.Request) web.Encoder {
			claims := GetClaims(ctx)

			if err := ath.Authorize(ctx, claims, allowedRoles...); err != nil {
				return errs.New(errs.PermissionDenied, err)
			}

			return next(ctx, r)
		}

		return h
	}

	return m
}

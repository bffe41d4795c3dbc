package mid

import (
	"context"
	"errors"
	"net/http"

	"github.com/jcpaschoal/agendex/app/sdk/errs"
	"github.com/jcpaschoal/agendex/business/domain/tenantbus"
	"github.com/jcpaschoal/agendex/business/sdk/web"
)

// ResolveTenant resolve o tenant das rotas públicas a partir do slug na URL.
// Um tenant inexistente ou desabilitado responde 404: rotas públicas não
// revelam quais slugs existem.
func ResolveTenant(tenantBus *tenantbus.Core) web.MidFunc {
	m := func(next web.HandlerFunc) web.HandlerFunc {
		h := func(ctx context.Context, r *http.Request) web.Encoder {
			slug := web.Param(r, "tenant")
			if slug == "" {
				return errs.New(errs.NotFound, errors.New("tenant not found"))
			}

			tenant, err := tenantBus.QueryBySlug(ctx, slug)
			if err != nil {
				if errors.Is(err, tenantbus.ErrNotFound) {
					return errs.New(errs.NotFound, errors.New("tenant not found"))
				}
				return errs.Errorf(errs.InternalOnlyLog, "query tenant: slug[%s]: %s", slug, err)
			}

			if !tenant.Enabled {
				return errs.New(errs.NotFound, errors.New("tenant not found"))
			}

			ctx = setTenantID(ctx, tenant.ID)
			ctx = setTenant(ctx, tenant)

			return next(ctx, r)
		}

		return h
	}

	return m
}

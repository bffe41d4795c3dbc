// Package mid provides app level middleware support.
package mid

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jcpaschoal/agendex/app/sdk/auth"
	"github.com/jcpaschoal/agendex/business/domain/tenantbus"
	"github.com/jcpaschoal/agendex/business/sdk/web"
)

func checkIsError(e web.Encoder) error {
	err, hasError := e.(error)
	if hasError {
		return err
	}

	return nil
}

// =============================================================================

type ctxKey int

const (
	claimKey ctxKey = iota + 1
	keyTenantID
	keyTenant
)

func setTenantID(ctx context.Context, tenantID uuid.UUID) context.Context {
	return context.WithValue(ctx, keyTenantID, tenantID)
}

// GetTenantID returns the tenant id bound to the request, either from the
// token claims or from the public slug resolution.
func GetTenantID(ctx context.Context) (uuid.UUID, error) {
	v, ok := ctx.Value(keyTenantID).(uuid.UUID)
	if !ok {
		return uuid.Nil, errors.New("tenant id not found in context")
	}
	return v, nil
}

func setTenant(ctx context.Context, tenant tenantbus.Tenant) context.Context {
	return context.WithValue(ctx, keyTenant, tenant)
}

// GetTenant returns the resolved tenant from the context.
func GetTenant(ctx context.Context) (tenantbus.Tenant, error) {
	v, ok := ctx.Value(keyTenant).(tenantbus.Tenant)
	if !ok {
		return tenantbus.Tenant{}, errors.New("tenant not found in context")
	}
	return v, nil
}

func setClaims(ctx context.Context, claims auth.Claims) context.Context {
	return context.WithValue(ctx, claimKey, claims)
}

// GetClaims returns the claims from the context.
func GetClaims(ctx context.Context) auth.Claims {
	v, ok := ctx.Value(claimKey).(auth.Claims)
	if !ok {
		return auth.Claims{}
	}
	return v
}

// GetSubjectID returns the subject id from the claims.
func GetSubjectID(ctx context.Context) uuid.UUID {
	v := GetClaims(ctx)

	subjectID, err := uuid.Parse(v.Subject)
	if err != nil {
		return uuid.UUID{}
	}

	return subjectID
}

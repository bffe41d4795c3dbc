// Package tenantbus provides business access to tenant data. A tenant is one
// business using the system and is the unit of data isolation: every engine
// operation is scoped by tenant id.
package tenantbus

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jcpaschoal/agendex/foundation/logger"
	"github.com/jcpaschoal/agendex/foundation/otel"
)

var (
	ErrNotFound   = errors.New("tenant not found")
	ErrUniqueSlug = errors.New("slug is not unique")
)

// Storer defines the behavior required by the tenantbus to interact with the
// database.
type Storer interface {
	Create(ctx context.Context, t Tenant) error
	Update(ctx context.Context, t Tenant) error
	QueryByID(ctx context.Context, tenantID uuid.UUID) (Tenant, error)
	QueryBySlug(ctx context.Context, slug string) (Tenant, error)
	QueryEnabled(ctx context.Context) ([]Tenant, error)
}

// Core manages the set of APIs for tenant access.
type Core struct {
	storer Storer
	log    *logger.Logger
}

// NewCore constructs a core for tenant api access.
func NewCore(log *logger.Logger, storer Storer) *Core {
	return &Core{
		storer: storer,
		log:    log,
	}
}

// Create adds a new tenant to the system.
func (c *Core) Create(ctx context.Context, nt NewTenant) (Tenant, error) {
	ctx, span := otel.AddSpan(ctx, "business.tenantbus.create")
	defer span.End()

	now := time.Now()

	t := Tenant{
		ID:             uuid.New(),
		Name:           nt.Name,
		Slug:           nt.Slug,
		Timezone:       nt.Timezone,
		SenderEmail:    nt.SenderEmail,
		OwnerName:      nt.OwnerName,
		OwnerEmail:     nt.OwnerEmail,
		MaxAdvanceDays: nt.MaxAdvanceDays,
		Enabled:        true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := c.storer.Create(ctx, t); err != nil {
		return Tenant{}, fmt.Errorf("create: %w", err)
	}

	return t, nil
}

// Update modifies data about a tenant.
func (c *Core) Update(ctx context.Context, t Tenant, ut UpdateTenant) (Tenant, error) {
	ctx, span := otel.AddSpan(ctx, "business.tenantbus.update")
	defer span.End()

	if ut.Name != nil {
		t.Name = *ut.Name
	}

	if ut.Timezone != nil {
		t.Timezone = ut.Timezone
	}

	if ut.MaxAdvanceDays != nil {
		t.MaxAdvanceDays = *ut.MaxAdvanceDays
	}

	if ut.Enabled != nil {
		t.Enabled = *ut.Enabled
	}

	t.UpdatedAt = time.Now()

	if err := c.storer.Update(ctx, t); err != nil {
		return Tenant{}, fmt.Errorf("update: %w", err)
	}

	return t, nil
}

// QueryByID finds the tenant by the specified ID.
func (c *Core) QueryByID(ctx context.Context, tenantID uuid.UUID) (Tenant, error) {
	ctx, span := otel.AddSpan(ctx, "business.tenantbus.queryByID")
	defer span.End()

	tenant, err := c.storer.QueryByID(ctx, tenantID)
	if err != nil {
		return Tenant{}, fmt.Errorf("query: tenantID[%s]: %w", tenantID, err)
	}

	return tenant, nil
}

// QueryBySlug returns the tenant for the specified slug string. The public
// booking surface resolves tenants this way.
func (c *Core) QueryBySlug(ctx context.Context, slug string) (Tenant, error) {
	ctx, span := otel.AddSpan(ctx, "business.tenantbus.queryBySlug")
	defer span.End()

	tenant, err := c.storer.QueryBySlug(ctx, slug)
	if err != nil {
		return Tenant{}, fmt.Errorf("query by slug[%s]: %w", slug, err)
	}

	return tenant, nil
}

// QueryEnabled returns the enabled tenants. The reminder sweep walks this
// set since "tomorrow" is evaluated on each tenant's calendar.
func (c *Core) QueryEnabled(ctx context.Context) ([]Tenant, error) {
	ctx, span := otel.AddSpan(ctx, "business.tenantbus.queryEnabled")
	defer span.End()

	tenants, err := c.storer.QueryEnabled(ctx)
	if err != nil {
		return nil, fmt.Errorf("query enabled: %w", err)
	}

	return tenants, nil
}

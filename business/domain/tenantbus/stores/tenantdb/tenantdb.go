// Package tenantdb contains tenant related CRUD functionality.
package tenantdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jcpaschoal/agendex/business/domain/tenantbus"
	"github.com/jcpaschoal/agendex/business/sdk/sqldb"
	"github.com/jcpaschoal/agendex/foundation/logger"
	"github.com/jmoiron/sqlx"
)

// Store manages the set of APIs for tenant database access.
type Store struct {
	log *logger.Logger
	db  sqlx.ExtContext
}

// NewStore constructs the api for data access.
func NewStore(log *logger.Logger, db *sqlx.DB) *Store {
	return &Store{
		log: log,
		db:  db,
	}
}

// Create inserts a new tenant into the database.
func (s *Store) Create(ctx context.Context, t tenantbus.Tenant) error {
	const q = `
	INSERT INTO "public"."tenant"
		(tenant_id, name, slug, timezone, sender_email, owner_name, owner_email, max_advance_days, enabled, created_at, updated_at)
	VALUES
		(:tenant_id, :name, :slug, :timezone, :sender_email, :owner_name, :owner_email, :max_advance_days, :enabled, :created_at, :updated_at)`

	if err := sqldb.NamedExecContext(ctx, s.log, s.db, q, toDBTenant(t)); err != nil {
		var dupErr sqldb.ErrDBDuplicatedEntry
		if errors.As(err, &dupErr) {
			if dupErr.Column == "slug" || dupErr.Column == "uq_tenant_slug" {
				return fmt.Errorf("namedexeccontext: %w", tenantbus.ErrUniqueSlug)
			}
		}
		return fmt.Errorf("namedexeccontext: %w", err)
	}

	return nil
}

// Update replaces a tenant document in the database.
func (s *Store) Update(ctx context.Context, t tenantbus.Tenant) error {
	const q = `
	UPDATE
		"public"."tenant"
	SET
		name = :name,
		timezone = :timezone,
		max_advance_days = :max_advance_days,
		enabled = :enabled,
		updated_at = :updated_at
	WHERE
		tenant_id = :tenant_id`

	if err := sqldb.NamedExecContext(ctx, s.log, s.db, q, toDBTenant(t)); err != nil {
		return fmt.Errorf("namedexeccontext: %w", err)
	}

	return nil
}

// QueryByID gets the specified tenant from the database.
func (s *Store) QueryByID(ctx context.Context, tenantID uuid.UUID) (tenantbus.Tenant, error) {
	data := struct {
		ID string `db:"tenant_id"`
	}{
		ID: tenantID.String(),
	}

	const q = `
	SELECT
		tenant_id, name, slug, timezone, sender_email, owner_name, owner_email, max_advance_days, enabled, created_at, updated_at
	FROM
		"public"."tenant"
	WHERE
		tenant_id = :tenant_id`

	var dbT tenantDB
	if err := sqldb.NamedQueryStruct(ctx, s.log, s.db, q, data, &dbT); err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			return tenantbus.Tenant{}, fmt.Errorf("db: %w", tenantbus.ErrNotFound)
		}
		return tenantbus.Tenant{}, fmt.Errorf("db: %w", err)
	}

	return toBusTenant(dbT)
}

// QueryBySlug gets the tenant for the specified slug.
func (s *Store) QueryBySlug(ctx context.Context, slug string) (tenantbus.Tenant, error) {
	data := struct {
		Slug string `db:"slug"`
	}{
		Slug: slug,
	}

	const q = `
	SELECT
		tenant_id, name, slug, timezone, sender_email, owner_name, owner_email, max_advance_days, enabled, created_at, updated_at
	FROM
		"public"."tenant"
	WHERE
		slug = :slug`

	var dbT tenantDB
	if err := sqldb.NamedQueryStruct(ctx, s.log, s.db, q, data, &dbT); err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			return tenantbus.Tenant{}, fmt.Errorf("db: %w", tenantbus.ErrNotFound)
		}
		return tenantbus.Tenant{}, fmt.Errorf("db: %w", err)
	}

	return toBusTenant(dbT)
}

// QueryEnabled returns the enabled tenants.
func (s *Store) QueryEnabled(ctx context.Context) ([]tenantbus.Tenant, error) {
	const q = `
	SELECT
		tenant_id, name, slug, timezone, sender_email, owner_name, owner_email, max_advance_days, enabled, created_at, updated_at
	FROM
		"public"."tenant"
	WHERE
		enabled = true
	ORDER BY
		slug`

	var dbTs []tenantDB
	if err := sqldb.NamedQuerySlice(ctx, s.log, s.db, q, struct{}{}, &dbTs); err != nil {
		return nil, fmt.Errorf("db: %w", err)
	}

	return toBusTenants(dbTs)
}

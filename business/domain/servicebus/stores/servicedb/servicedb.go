// Package servicedb contains service related read functionality.
package servicedb

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jcpaschoal/agendex/business/domain/servicebus"
	"github.com/jcpaschoal/agendex/business/sdk/sqldb"
	"github.com/jcpaschoal/agendex/foundation/logger"
	"github.com/jmoiron/sqlx"
)

// Store manages the set of APIs for service database access.
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

// QueryByID gets the specified service from the database.
func (s *Store) QueryByID(ctx context.Context, tenantID uuid.UUID, serviceID uuid.UUID) (servicebus.Service, error) {
	data := struct {
		TenantID  string `db:"tenant_id"`
		ServiceID string `db:"service_id"`
	}{
		TenantID:  tenantID.String(),
		ServiceID: serviceID.String(),
	}

	const q = `
	SELECT
		service_id, tenant_id, name, duration_minutes, price_cents, enabled, created_at, updated_at
	FROM
		"public"."service"
	WHERE
		service_id = :service_id AND tenant_id = :tenant_id`

	var dbS serviceDB
	if err := sqldb.NamedQueryStruct(ctx, s.log, s.db, q, data, &dbS); err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			return servicebus.Service{}, fmt.Errorf("db: %w", servicebus.ErrNotFound)
		}
		return servicebus.Service{}, fmt.Errorf("db: %w", err)
	}

	return toBusService(dbS)
}

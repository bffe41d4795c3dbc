// Package workerdb contains worker related read functionality.
package workerdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jcpaschoal/agendex/business/domain/workerbus"
	"github.com/jcpaschoal/agendex/business/sdk/sqldb"
	"github.com/jcpaschoal/agendex/foundation/logger"
	"github.com/jmoiron/sqlx"
)

// Store manages the set of APIs for worker database access.
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

// QueryByID gets the specified worker, its holiday set and its assigned
// services from the database.
func (s *Store) QueryByID(ctx context.Context, tenantID uuid.UUID, workerID uuid.UUID) (workerbus.Worker, error) {
	data := struct {
		TenantID string `db:"tenant_id"`
		WorkerID string `db:"worker_id"`
	}{
		TenantID: tenantID.String(),
		WorkerID: workerID.String(),
	}

	const q = `
	SELECT
		worker_id, tenant_id, name, email, opens_min, closes_min, slot_minutes, break_minutes, enabled, created_at, updated_at
	FROM
		"public"."worker"
	WHERE
		worker_id = :worker_id AND tenant_id = :tenant_id`

	var dbW workerDB
	if err := sqldb.NamedQueryStruct(ctx, s.log, s.db, q, data, &dbW); err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			return workerbus.Worker{}, fmt.Errorf("db: %w", workerbus.ErrNotFound)
		}
		return workerbus.Worker{}, fmt.Errorf("db: %w", err)
	}

	const qHolidays = `
	SELECT
		day
	FROM
		"public"."worker_holiday"
	WHERE
		worker_id = :worker_id
	ORDER BY
		day`

	var dbHs []holidayDB
	if err := sqldb.NamedQuerySlice(ctx, s.log, s.db, qHolidays, data, &dbHs); err != nil {
		return workerbus.Worker{}, fmt.Errorf("db holidays: %w", err)
	}

	const qServices = `
	SELECT
		service_id
	FROM
		"public"."worker_service"
	WHERE
		worker_id = :worker_id`

	var dbSs []workerServiceDB
	if err := sqldb.NamedQuerySlice(ctx, s.log, s.db, qServices, data, &dbSs); err != nil {
		return workerbus.Worker{}, fmt.Errorf("db services: %w", err)
	}

	return toBusWorker(dbW, dbHs, dbSs)
}

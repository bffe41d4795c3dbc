// Package reservationdb contains reservation related CRUD functionality. The
// unique index uq_reservation_slot on (worker_id, day, start_min) over
// confirmed rows is the arbiter for concurrent bookings of the same slot.
package reservationdb

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jcpaschoal/agendex/business/domain/reservationbus"
	"github.com/jcpaschoal/agendex/business/sdk/order"
	"github.com/jcpaschoal/agendex/business/sdk/page"
	"github.com/jcpaschoal/agendex/business/sdk/sqldb"
	"github.com/jcpaschoal/agendex/business/types/daydate"
	"github.com/jcpaschoal/agendex/foundation/logger"
	"github.com/jmoiron/sqlx"
)

// Store manages the set of APIs for reservation database access.
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

// Create inserts a new reservation into the database. A unique violation on
// the slot index means a concurrent booking won the slot and is reported as
// reservationbus.ErrSlotUnavailable.
func (s *Store) Create(ctx context.Context, res reservationbus.Reservation) error {
	const q = `
	INSERT INTO "public"."reservation"
		(reservation_id, tenant_id, worker_id, service_id, day, start_min, duration_minutes,
		 client_name, client_email, client_phone, notes, status, reminder_sent, reminder_sent_at,
		 created_at, updated_at)
	VALUES
		(:reservation_id, :tenant_id, :worker_id, :service_id, :day, :start_min, :duration_minutes,
		 :client_name, :client_email, :client_phone, :notes, :status, :reminder_sent, :reminder_sent_at,
		 :created_at, :updated_at)`

	if err := sqldb.NamedExecContext(ctx, s.log, s.db, q, toDBReservation(res)); err != nil {
		var dupErr sqldb.ErrDBDuplicatedEntry
		if errors.As(err, &dupErr) {
			return fmt.Errorf("db: %w", reservationbus.ErrSlotUnavailable)
		}
		return fmt.Errorf("namedexeccontext: %w", err)
	}

	return nil
}

// QueryByID gets the specified reservation from the database.
func (s *Store) QueryByID(ctx context.Context, tenantID uuid.UUID, reservationID uuid.UUID) (reservationbus.Reservation, error) {
	data := struct {
		TenantID      string `db:"tenant_id"`
		ReservationID string `db:"reservation_id"`
	}{
		TenantID:      tenantID.String(),
		ReservationID: reservationID.String(),
	}

	const q = `
	SELECT
		reservation_id, tenant_id, worker_id, service_id, day, start_min, duration_minutes,
		client_name, client_email, client_phone, notes, status, reminder_sent, reminder_sent_at,
		created_at, updated_at
	FROM
		"public"."reservation"
	WHERE
		reservation_id = :reservation_id AND tenant_id = :tenant_id`

	var dbRes reservationDB
	if err := sqldb.NamedQueryStruct(ctx, s.log, s.db, q, data, &dbRes); err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			return reservationbus.Reservation{}, fmt.Errorf("db: %w", reservationbus.ErrNotFound)
		}
		return reservationbus.Reservation{}, fmt.Errorf("db: %w", err)
	}

	return toBusReservation(dbRes)
}

// QueryByWorkerDay gets all reservations for a worker on the specified day,
// any status. The caller decides which statuses block the calendar.
func (s *Store) QueryByWorkerDay(ctx context.Context, tenantID uuid.UUID, workerID uuid.UUID, day daydate.Date) ([]reservationbus.Reservation, error) {
	data := struct {
		TenantID string    `db:"tenant_id"`
		WorkerID string    `db:"worker_id"`
		Day      time.Time `db:"day"`
	}{
		TenantID: tenantID.String(),
		WorkerID: workerID.String(),
		Day:      day.Time(time.UTC),
	}

	const q = `
	SELECT
		reservation_id, tenant_id, worker_id, service_id, day, start_min, duration_minutes,
		client_name, client_email, client_phone, notes, status, reminder_sent, reminder_sent_at,
		created_at, updated_at
	FROM
		"public"."reservation"
	WHERE
		tenant_id = :tenant_id AND worker_id = :worker_id AND day = :day
	ORDER BY
		start_min ASC`

	var dbResvs []reservationDB
	if err := sqldb.NamedQuerySlice(ctx, s.log, s.db, q, data, &dbResvs); err != nil {
		return nil, fmt.Errorf("namedqueryslice: %w", err)
	}

	return toBusReservations(dbResvs)
}

// Query retrieves a list of existing reservations from the database.
func (s *Store) Query(ctx context.Context, filter reservationbus.QueryFilter, orderBy order.By, page page.Page) ([]reservationbus.Reservation, error) {
	data := map[string]any{
		"offset":        (page.Number() - 1) * page.RowsPerPage(),
		"rows_per_page": page.RowsPerPage(),
	}

	const q = `
	SELECT
		reservation_id, tenant_id, worker_id, service_id, day, start_min, duration_minutes,
		client_name, client_email, client_phone, notes, status, reminder_sent, reminder_sent_at,
		created_at, updated_at
	FROM
		"public"."reservation"`

	buf := bytes.NewBufferString(q)
	applyFilter(filter, data, buf)

	orderByClause, err := orderByClause(orderBy)
	if err != nil {
		return nil, err
	}

	buf.WriteString(orderByClause)
	buf.WriteString(" OFFSET :offset ROWS FETCH NEXT :rows_per_page ROWS ONLY")

	var dbResvs []reservationDB
	if err := sqldb.NamedQuerySlice(ctx, s.log, s.db, buf.String(), data, &dbResvs); err != nil {
		return nil, fmt.Errorf("namedqueryslice: %w", err)
	}

	return toBusReservations(dbResvs)
}

// Count returns the total number of reservations in the DB.
func (s *Store) Count(ctx context.Context, filter reservationbus.QueryFilter) (int, error) {
	data := map[string]any{}

	const q = `
	SELECT
		count(1)
	FROM
		"public"."reservation"`

	buf := bytes.NewBufferString(q)
	applyFilter(filter, data, buf)

	var count struct {
		Count int `db:"count"`
	}
	if err := sqldb.NamedQueryStruct(ctx, s.log, s.db, buf.String(), data, &count); err != nil {
		return 0, fmt.Errorf("db: %w", err)
	}

	return count.Count, nil
}

// QueryDueReminder gets the tenant's confirmed, not yet reminded
// reservations on the specified day.
func (s *Store) QueryDueReminder(ctx context.Context, tenantID uuid.UUID, day daydate.Date) ([]reservationbus.Reservation, error) {
	data := struct {
		TenantID string    `db:"tenant_id"`
		Day      time.Time `db:"day"`
	}{
		TenantID: tenantID.String(),
		Day:      day.Time(time.UTC),
	}

	const q = `
	SELECT
		reservation_id, tenant_id, worker_id, service_id, day, start_min, duration_minutes,
		client_name, client_email, client_phone, notes, status, reminder_sent, reminder_sent_at,
		created_at, updated_at
	FROM
		"public"."reservation"
	WHERE
		tenant_id = :tenant_id AND day = :day AND status = 'CONFIRMED' AND reminder_sent = false
	ORDER BY
		start_min ASC`

	var dbResvs []reservationDB
	if err := sqldb.NamedQuerySlice(ctx, s.log, s.db, q, data, &dbResvs); err != nil {
		return nil, fmt.Errorf("namedqueryslice: %w", err)
	}

	return toBusReservations(dbResvs)
}

// MarkReminderSent flips reminder_sent to true for the reservation. The
// update is conditioned on the flag still being false so the transition
// happens at most once even under concurrent sweeps.
func (s *Store) MarkReminderSent(ctx context.Context, reservationID uuid.UUID, sentAt time.Time) error {
	data := struct {
		ReservationID string    `db:"reservation_id"`
		SentAt        time.Time `db:"sent_at"`
	}{
		ReservationID: reservationID.String(),
		SentAt:        sentAt.UTC(),
	}

	const q = `
	UPDATE
		"public"."reservation"
	SET
		reminder_sent = true,
		reminder_sent_at = :sent_at,
		updated_at = :sent_at
	WHERE
		reservation_id = :reservation_id AND reminder_sent = false`

	count, err := sqldb.NamedExecContextCount(ctx, s.log, s.db, q, data)
	if err != nil {
		return fmt.Errorf("namedexeccontextcount: %w", err)
	}

	if count == 0 {
		return fmt.Errorf("db: %w", reservationbus.ErrAlreadyReminded)
	}

	return nil
}

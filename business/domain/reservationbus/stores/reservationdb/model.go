package reservationdb

import (
	"database/sql"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/jcpaschoal/agendex/business/domain/reservationbus"
	"github.com/jcpaschoal/agendex/business/types/clock"
	"github.com/jcpaschoal/agendex/business/types/daydate"
	"github.com/jcpaschoal/agendex/business/types/name"
	"github.com/jcpaschoal/agendex/business/types/phone"
	"github.com/jcpaschoal/agendex/business/types/status"
)

// reservationDB represents the structure of the reservation table in the
// database.
type reservationDB struct {
	ID              uuid.UUID      `db:"reservation_id"`
	TenantID        uuid.UUID      `db:"tenant_id"`
	WorkerID        uuid.UUID      `db:"worker_id"`
	ServiceID       uuid.NullUUID  `db:"service_id"`
	Day             time.Time      `db:"day"`
	StartMin        int            `db:"start_min"`
	DurationMinutes int            `db:"duration_minutes"`
	ClientName      string         `db:"client_name"`
	ClientEmail     string         `db:"client_email"`
	ClientPhone     sql.NullString `db:"client_phone"`
	Notes           string         `db:"notes"`
	Status          string         `db:"status"`
	ReminderSent    bool           `db:"reminder_sent"`
	ReminderSentAt  sql.NullTime   `db:"reminder_sent_at"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

func toDBReservation(bus reservationbus.Reservation) reservationDB {
	db := reservationDB{
		ID:              bus.ID,
		TenantID:        bus.TenantID,
		WorkerID:        bus.WorkerID,
		ServiceID:       bus.ServiceID,
		Day:             bus.Day.Time(time.UTC),
		StartMin:        bus.Start.Minutes(),
		DurationMinutes: bus.DurationMinutes,
		ClientName:      bus.Client.Name.String(),
		ClientEmail:     bus.Client.Email.Address,
		ClientPhone:     phone.ToSQLNullString(bus.Client.Phone),
		Notes:           bus.Notes,
		Status:          bus.Status.String(),
		ReminderSent:    bus.ReminderSent,
		CreatedAt:       bus.CreatedAt.UTC(),
		UpdatedAt:       bus.UpdatedAt.UTC(),
	}

	if bus.ReminderSentAt != nil {
		db.ReminderSentAt = sql.NullTime{Time: bus.ReminderSentAt.UTC(), Valid: true}
	}

	return db
}

func toBusReservation(db reservationDB) (reservationbus.Reservation, error) {
	clientName, err := name.Parse(db.ClientName)
	if err != nil {
		return reservationbus.Reservation{}, fmt.Errorf("parse client name: %w", err)
	}

	clientPhone, err := phone.ParseNull(db.ClientPhone.String)
	if err != nil {
		return reservationbus.Reservation{}, fmt.Errorf("parse client phone: %w", err)
	}

	start, err := clock.FromMinutes(db.StartMin)
	if err != nil {
		return reservationbus.Reservation{}, fmt.Errorf("parse start: %w", err)
	}

	sts, err := status.Parse(db.Status)
	if err != nil {
		return reservationbus.Reservation{}, fmt.Errorf("parse status: %w", err)
	}

	var sentAt *time.Time
	if db.ReminderSentAt.Valid {
		t := db.ReminderSentAt.Time.In(time.Local)
		sentAt = &t
	}

	bus := reservationbus.Reservation{
		ID:              db.ID,
		TenantID:        db.TenantID,
		WorkerID:        db.WorkerID,
		ServiceID:       db.ServiceID,
		Day:             daydate.FromTime(db.Day),
		Start:           start,
		DurationMinutes: db.DurationMinutes,
		Client: reservationbus.Client{
			Name:  clientName,
			Email: mail.Address{Address: db.ClientEmail},
			Phone: clientPhone,
		},
		Notes:          db.Notes,
		Status:         sts,
		ReminderSent:   db.ReminderSent,
		ReminderSentAt: sentAt,
		CreatedAt:      db.CreatedAt.In(time.Local),
		UpdatedAt:      db.UpdatedAt.In(time.Local),
	}

	return bus, nil
}

func toBusReservations(dbs []reservationDB) ([]reservationbus.Reservation, error) {
	bus := make([]reservationbus.Reservation, len(dbs))

	for i, db := range dbs {
		var err error
		bus[i], err = toBusReservation(db)
		if err != nil {
			return nil, err
		}
	}

	return bus, nil
}

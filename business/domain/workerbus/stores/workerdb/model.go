package workerdb

import (
	"database/sql"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/jcpaschoal/agendex/business/domain/workerbus"
	"github.com/jcpaschoal/agendex/business/types/clock"
	"github.com/jcpaschoal/agendex/business/types/daydate"
	"github.com/jcpaschoal/agendex/business/types/name"
)

// workerDB represents the structure of the worker table in the database.
type workerDB struct {
	ID           uuid.UUID      `db:"worker_id"`
	TenantID     uuid.UUID      `db:"tenant_id"`
	Name         string         `db:"name"`
	Email        sql.NullString `db:"email"`
	OpensMin     int            `db:"opens_min"`
	ClosesMin    int            `db:"closes_min"`
	SlotMinutes  int            `db:"slot_minutes"`
	BreakMinutes int            `db:"break_minutes"`
	Enabled      bool           `db:"enabled"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

type holidayDB struct {
	Day time.Time `db:"day"`
}

type workerServiceDB struct {
	ServiceID uuid.UUID `db:"service_id"`
}

func toBusWorker(db workerDB, dbHs []holidayDB, dbSs []workerServiceDB) (workerbus.Worker, error) {
	nme, err := name.Parse(db.Name)
	if err != nil {
		return workerbus.Worker{}, fmt.Errorf("parse name: %w", err)
	}

	opens, err := clock.FromMinutes(db.OpensMin)
	if err != nil {
		return workerbus.Worker{}, fmt.Errorf("parse opening time: %w", err)
	}

	closes, err := clock.FromMinutes(db.ClosesMin)
	if err != nil {
		return workerbus.Worker{}, fmt.Errorf("parse closing time: %w", err)
	}

	var email *mail.Address
	if db.Email.Valid {
		email, err = mail.ParseAddress(db.Email.String)
		if err != nil {
			return workerbus.Worker{}, fmt.Errorf("parse email: %w", err)
		}
	}

	holidays := make([]daydate.Date, len(dbHs))
	for i, h := range dbHs {
		holidays[i] = daydate.FromTime(h.Day)
	}

	serviceIDs := make([]uuid.UUID, len(dbSs))
	for i, s := range dbSs {
		serviceIDs[i] = s.ServiceID
	}

	return workerbus.Worker{
		ID:           db.ID,
		TenantID:     db.TenantID,
		Name:         nme,
		Email:        email,
		OpensAt:      opens,
		ClosesAt:     closes,
		SlotMinutes:  db.SlotMinutes,
		BreakMinutes: db.BreakMinutes,
		ServiceIDs:   serviceIDs,
		Holidays:     holidays,
		Enabled:      db.Enabled,
		CreatedAt:    db.CreatedAt,
		UpdatedAt:    db.UpdatedAt,
	}, nil
}

package servicedb

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jcpaschoal/agendex/business/domain/servicebus"
	"github.com/jcpaschoal/agendex/business/types/money"
	"github.com/jcpaschoal/agendex/business/types/name"
)

// serviceDB represents the structure of the service table in the database.
type serviceDB struct {
	ID              uuid.UUID     `db:"service_id"`
	TenantID        uuid.UUID     `db:"tenant_id"`
	Name            string        `db:"name"`
	DurationMinutes int           `db:"duration_minutes"`
	PriceCents      sql.NullInt64 `db:"price_cents"`
	Enabled         bool          `db:"enabled"`
	CreatedAt       time.Time     `db:"created_at"`
	UpdatedAt       time.Time     `db:"updated_at"`
}

func toBusService(db serviceDB) (servicebus.Service, error) {
	nme, err := name.Parse(db.Name)
	if err != nil {
		return servicebus.Service{}, fmt.Errorf("parse name: %w", err)
	}

	var price money.Null
	if db.PriceCents.Valid {
		price, err = money.NewNull(db.PriceCents.Int64)
		if err != nil {
			return servicebus.Service{}, fmt.Errorf("parse price: %w", err)
		}
	}

	return servicebus.Service{
		ID:              db.ID,
		TenantID:        db.TenantID,
		Name:            nme,
		DurationMinutes: db.DurationMinutes,
		Price:           price,
		Enabled:         db.Enabled,
		CreatedAt:       db.CreatedAt,
		UpdatedAt:       db.UpdatedAt,
	}, nil
}

package tenantdb

import (
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/jcpaschoal/agendex/business/domain/tenantbus"
	"github.com/jcpaschoal/agendex/business/types/name"
)

// tenantDB represents the structure of the tenant table in the database.
type tenantDB struct {
	ID             uuid.UUID `db:"tenant_id"`
	Name           string    `db:"name"`
	Slug           string    `db:"slug"`
	Timezone       string    `db:"timezone"`
	SenderEmail    string    `db:"sender_email"`
	OwnerName      string    `db:"owner_name"`
	OwnerEmail     string    `db:"owner_email"`
	MaxAdvanceDays int       `db:"max_advance_days"`
	Enabled        bool      `db:"enabled"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func toDBTenant(bus tenantbus.Tenant) tenantDB {
	return tenantDB{
		ID:             bus.ID,
		Name:           bus.Name.String(),
		Slug:           bus.Slug,
		Timezone:       bus.Timezone.String(),
		SenderEmail:    bus.SenderEmail.Address,
		OwnerName:      bus.OwnerName.String(),
		OwnerEmail:     bus.OwnerEmail.Address,
		MaxAdvanceDays: bus.MaxAdvanceDays,
		Enabled:        bus.Enabled,
		CreatedAt:      bus.CreatedAt,
		UpdatedAt:      bus.UpdatedAt,
	}
}

func toBusTenant(db tenantDB) (tenantbus.Tenant, error) {
	nme, err := name.Parse(db.Name)
	if err != nil {
		return tenantbus.Tenant{}, fmt.Errorf("parse name: %w", err)
	}

	owner, err := name.Parse(db.OwnerName)
	if err != nil {
		return tenantbus.Tenant{}, fmt.Errorf("parse owner name: %w", err)
	}

	loc, err := time.LoadLocation(db.Timezone)
	if err != nil {
		return tenantbus.Tenant{}, fmt.Errorf("load timezone: %w", err)
	}

	return tenantbus.Tenant{
		ID:             db.ID,
		Name:           nme,
		Slug:           db.Slug,
		Timezone:       loc,
		SenderEmail:    mail.Address{Name: db.Name, Address: db.SenderEmail},
		OwnerName:      owner,
		OwnerEmail:     mail.Address{Name: db.OwnerName, Address: db.OwnerEmail},
		MaxAdvanceDays: db.MaxAdvanceDays,
		Enabled:        db.Enabled,
		CreatedAt:      db.CreatedAt,
		UpdatedAt:      db.UpdatedAt,
	}, nil
}

func toBusTenants(dbTs []tenantDB) ([]tenantbus.Tenant, error) {
	bus := make([]tenantbus.Tenant, len(dbTs))
	for i, dbT := range dbTs {
		t, err := toBusTenant(dbT)
		if err != nil {
			return nil, err
		}
		bus[i] = t
	}

	return bus, nil
}

package tenantbus

import (
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/jcpaschoal/agendex/business/types/name"
)

// Tenant represents a business using the system.
type Tenant struct {
	ID             uuid.UUID
	Name           name.Name
	Slug           string
	Timezone       *time.Location
	SenderEmail    mail.Address
	OwnerName      name.Name
	OwnerEmail     mail.Address
	MaxAdvanceDays int
	Enabled        bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewTenant contains information needed to create a new tenant.
type NewTenant struct {
	Name           name.Name
	Slug           string
	Timezone       *time.Location
	SenderEmail    mail.Address
	OwnerName      name.Name
	OwnerEmail     mail.Address
	MaxAdvanceDays int
}

// UpdateTenant contains information needed to update a tenant.
type UpdateTenant struct {
	Name           *name.Name
	Timezone       *time.Location
	MaxAdvanceDays *int
	Enabled        *bool
}

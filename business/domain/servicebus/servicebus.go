// Package servicebus provides business access to the services a tenant
// offers. Service duration drives the width of the interval a reservation
// occupies on a worker's calendar.
package servicebus

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jcpaschoal/agendex/foundation/logger"
	"github.com/jcpaschoal/agendex/foundation/otel"
)

var ErrNotFound = errors.New("service not found")

// Storer defines the behavior required by the servicebus to interact with
// the database.
type Storer interface {
	QueryByID(ctx context.Context, tenantID uuid.UUID, serviceID uuid.UUID) (Service, error)
}

// Core manages the set of APIs for service access.
type Core struct {
	storer Storer
	log    *logger.Logger
}

// NewCore constructs a core for service api access.
func NewCore(log *logger.Logger, storer Storer) *Core {
	return &Core{
		storer: storer,
		log:    log,
	}
}

// QueryByID finds the service by the specified ID inside the tenant.
func (c *Core) QueryByID(ctx context.Context, tenantID uuid.UUID, serviceID uuid.UUID) (Service, error) {
	ctx, span := otel.AddSpan(ctx, "business.servicebus.queryByID")
	defer span.End()

	service, err := c.storer.QueryByID(ctx, tenantID, serviceID)
	if err != nil {
		return Service{}, fmt.Errorf("query: serviceID[%s]: %w", serviceID, err)
	}

	return service, nil
}

// Package workerbus provides business access to worker data. Workers are
// configured outside the engine; the engine reads their working hours,
// holiday set and break configuration when computing availability.
package workerbus

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jcpaschoal/agendex/foundation/logger"
	"github.com/jcpaschoal/agendex/foundation/otel"
)

var ErrNotFound = errors.New("worker not found")

// Storer defines the behavior required by the workerbus to interact with the
// database.
type Storer interface {
	QueryByID(ctx context.Context, tenantID uuid.UUID, workerID uuid.UUID) (Worker, error)
}

// Core manages the set of APIs for worker access.
type Core struct {
	storer Storer
	log    *logger.Logger
}

// NewCore constructs a core for worker api access.
func NewCore(log *logger.Logger, storer Storer) *Core {
	return &Core{
		storer: storer,
		log:    log,
	}
}

// QueryByID finds the worker by the specified ID inside the tenant. Workers
// from other tenants are not visible.
func (c *Core) QueryByID(ctx context.Context, tenantID uuid.UUID, workerID uuid.UUID) (Worker, error) {
	ctx, span := otel.AddSpan(ctx, "business.workerbus.queryByID")
	defer span.End()

	worker, err := c.storer.QueryByID(ctx, tenantID, workerID)
	if err != nil {
		return Worker{}, fmt.Errorf("query: workerID[%s]: %w", workerID, err)
	}

	return worker, nil
}

// Package servicecache contains service related read functionality with a
// read-through cache.
package servicecache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jcpaschoal/agendex/business/domain/servicebus"
	"github.com/jcpaschoal/agendex/foundation/logger"
	"github.com/viccon/sturdyc"
)

// Store manages the set of APIs for service data and caching.
type Store struct {
	log    *logger.Logger
	storer servicebus.Storer
	cache  *sturdyc.Client[servicebus.Service]
}

// NewStore constructs the api for data and caching access.
func NewStore(log *logger.Logger, storer servicebus.Storer, ttl time.Duration) *Store {
	const capacity = 10000
	const numShards = 10
	const evictionPercentage = 10

	return &Store{
		log:    log,
		storer: storer,
		cache:  sturdyc.New[servicebus.Service](capacity, numShards, ttl, evictionPercentage),
	}
}

// QueryByID gets the specified service from the cache or the database.
func (s *Store) QueryByID(ctx context.Context, tenantID uuid.UUID, serviceID uuid.UUID) (servicebus.Service, error) {
	fetch := func(ctx context.Context) (servicebus.Service, error) {
		return s.storer.QueryByID(ctx, tenantID, serviceID)
	}

	return s.cache.GetOrFetch(ctx, tenantID.String()+":"+serviceID.String(), fetch)
}

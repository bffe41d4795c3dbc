// Package workercache contains worker related read functionality with a
// read-through cache. Worker configuration is mutated rarely and only by
// tenant configuration, so a short TTL is safe; reservations and slots are
// never cached.
package workercache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jcpaschoal/agendex/business/domain/workerbus"
	"github.com/jcpaschoal/agendex/foundation/logger"
	"github.com/viccon/sturdyc"
)

// Store manages the set of APIs for worker data and caching.
type Store struct {
	log    *logger.Logger
	storer workerbus.Storer
	cache  *sturdyc.Client[workerbus.Worker]
}

// NewStore constructs the api for data and caching access.
func NewStore(log *logger.Logger, storer workerbus.Storer, ttl time.Duration) *Store {
	const capacity = 10000
	const numShards = 10
	const evictionPercentage = 10

	return &Store{
		log:    log,
		storer: storer,
		cache:  sturdyc.New[workerbus.Worker](capacity, numShards, ttl, evictionPercentage),
	}
}

// QueryByID gets the specified worker from the cache or the database.
func (s *Store) QueryByID(ctx context.Context, tenantID uuid.UUID, workerID uuid.UUID) (workerbus.Worker, error) {
	fetch := func(ctx context.Context) (workerbus.Worker, error) {
		return s.storer.QueryByID(ctx, tenantID, workerID)
	}

	return s.cache.GetOrFetch(ctx, tenantID.String()+":"+workerID.String(), fetch)
}

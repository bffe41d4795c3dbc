// Package tenantcache contains tenant related CRUD functionality with a
// read-through cache. Tenant configuration changes rarely and is read on
// every public booking request.
package tenantcache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jcpaschoal/agendex/business/domain/tenantbus"
	"github.com/jcpaschoal/agendex/foundation/logger"
	"github.com/viccon/sturdyc"
)

// Store manages the set of APIs for tenant data and caching.
type Store struct {
	log    *logger.Logger
	storer tenantbus.Storer
	cache  *sturdyc.Client[tenantbus.Tenant]
}

// NewStore constructs the api for data and caching access.
func NewStore(log *logger.Logger, storer tenantbus.Storer, ttl time.Duration) *Store {
	const capacity = 10000
	const numShards = 10
	const evictionPercentage = 10

	return &Store{
		log:    log,
		storer: storer,
		cache:  sturdyc.New[tenantbus.Tenant](capacity, numShards, ttl, evictionPercentage),
	}
}

// Create inserts a new tenant into the database.
func (s *Store) Create(ctx context.Context, t tenantbus.Tenant) error {
	if err := s.storer.Create(ctx, t); err != nil {
		return err
	}

	s.writeCache(t)

	return nil
}

// Update replaces a tenant document in the database.
func (s *Store) Update(ctx context.Context, t tenantbus.Tenant) error {
	if err := s.storer.Update(ctx, t); err != nil {
		return err
	}

	s.writeCache(t)

	return nil
}

// QueryByID gets the specified tenant from the database.
func (s *Store) QueryByID(ctx context.Context, tenantID uuid.UUID) (tenantbus.Tenant, error) {
	fetch := func(ctx context.Context) (tenantbus.Tenant, error) {
		t, err := s.storer.QueryByID(ctx, tenantID)
		if err != nil {
			return tenantbus.Tenant{}, err
		}

		s.cache.Set("slug:"+t.Slug, t)

		return t, nil
	}

	return s.cache.GetOrFetch(ctx, "id:"+tenantID.String(), fetch)
}

// QueryBySlug gets the tenant for the specified slug.
func (s *Store) QueryBySlug(ctx context.Context, slug string) (tenantbus.Tenant, error) {
	fetch := func(ctx context.Context) (tenantbus.Tenant, error) {
		t, err := s.storer.QueryBySlug(ctx, slug)
		if err != nil {
			return tenantbus.Tenant{}, err
		}

		s.cache.Set("id:"+t.ID.String(), t)

		return t, nil
	}

	return s.cache.GetOrFetch(ctx, "slug:"+slug, fetch)
}

// QueryEnabled returns the enabled tenants. The sweep needs the current set,
// so this call always goes to the database.
func (s *Store) QueryEnabled(ctx context.Context) ([]tenantbus.Tenant, error) {
	return s.storer.QueryEnabled(ctx)
}

// writeCache performs a cache write for the specified tenant under both of
// its lookup keys.
func (s *Store) writeCache(t tenantbus.Tenant) {
	s.cache.Set("id:"+t.ID.String(), t)
	s.cache.Set("slug:"+t.Slug, t)
}

// Package reservationmem provides an in-memory reservation store. It obeys
// the same conditional-write contract as the database store: one winner per
// slot and a single reminder transition. Used by tests and local tooling.
package reservationmem

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jcpaschoal/agendex/business/domain/reservationbus"
	"github.com/jcpaschoal/agendex/business/sdk/order"
	"github.com/jcpaschoal/agendex/business/sdk/page"
	"github.com/jcpaschoal/agendex/business/types/daydate"
	"github.com/jcpaschoal/agendex/business/types/status"
)

// Store manages an in-memory set of reservations.
type Store struct {
	mu           sync.Mutex
	reservations map[uuid.UUID]reservationbus.Reservation
}

// NewStore constructs an empty in-memory store.
func NewStore() *Store {
	return &Store{
		reservations: make(map[uuid.UUID]reservationbus.Reservation),
	}
}

// Create inserts a new reservation. The slot check and the insert happen
// under one lock, so of two concurrent creates for the same slot exactly one
// succeeds.
func (s *Store) Create(_ context.Context, res reservationbus.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.reservations {
		if r.WorkerID != res.WorkerID {
			continue
		}
		if !r.Day.Equal(res.Day) || !r.Start.Equal(res.Start) {
			continue
		}
		if r.Status.Equal(status.Confirmed) {
			return fmt.Errorf("mem: %w", reservationbus.ErrSlotUnavailable)
		}
	}

	s.reservations[res.ID] = res

	return nil
}

// QueryByID gets the specified reservation.
func (s *Store) QueryByID(_ context.Context, tenantID uuid.UUID, reservationID uuid.UUID) (reservationbus.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, exists := s.reservations[reservationID]
	if !exists || res.TenantID != tenantID {
		return reservationbus.Reservation{}, fmt.Errorf("mem: %w", reservationbus.ErrNotFound)
	}

	return res, nil
}

// QueryByWorkerDay gets all reservations for a worker on the specified day.
func (s *Store) QueryByWorkerDay(_ context.Context, tenantID uuid.UUID, workerID uuid.UUID, day daydate.Date) ([]reservationbus.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var resvs []reservationbus.Reservation
	for _, r := range s.reservations {
		if r.TenantID == tenantID && r.WorkerID == workerID && r.Day.Equal(day) {
			resvs = append(resvs, r)
		}
	}

	sortByStart(resvs)

	return resvs, nil
}

// Query retrieves a list of existing reservations.
func (s *Store) Query(_ context.Context, filter reservationbus.QueryFilter, orderBy order.By, page page.Page) ([]reservationbus.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resvs := s.match(filter)

	sortBy(resvs, orderBy)

	offset := (page.Number() - 1) * page.RowsPerPage()
	if offset >= len(resvs) {
		return []reservationbus.Reservation{}, nil
	}

	end := offset + page.RowsPerPage()
	if end > len(resvs) {
		end = len(resvs)
	}

	return resvs[offset:end], nil
}

// Count returns the total number of reservations matching the filter.
func (s *Store) Count(_ context.Context, filter reservationbus.QueryFilter) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.match(filter)), nil
}

// QueryDueReminder gets the tenant's confirmed, not yet reminded
// reservations on the specified day.
func (s *Store) QueryDueReminder(_ context.Context, tenantID uuid.UUID, day daydate.Date) ([]reservationbus.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var resvs []reservationbus.Reservation
	for _, r := range s.reservations {
		if r.TenantID != tenantID || !r.Day.Equal(day) {
			continue
		}
		if !r.Status.Equal(status.Confirmed) || r.ReminderSent {
			continue
		}
		resvs = append(resvs, r)
	}

	sortByStart(resvs)

	return resvs, nil
}

// MarkReminderSent flips reminder_sent to true at most once.
func (s *Store) MarkReminderSent(_ context.Context, reservationID uuid.UUID, sentAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, exists := s.reservations[reservationID]
	if !exists || res.ReminderSent {
		return fmt.Errorf("mem: %w", reservationbus.ErrAlreadyReminded)
	}

	res.ReminderSent = true
	res.ReminderSentAt = &sentAt
	res.UpdatedAt = sentAt
	s.reservations[reservationID] = res

	return nil
}

// =============================================================================

func (s *Store) match(filter reservationbus.QueryFilter) []reservationbus.Reservation {
	var resvs []reservationbus.Reservation

	for _, r := range s.reservations {
		if r.TenantID != filter.TenantID {
			continue
		}
		if filter.WorkerID != nil && r.WorkerID != *filter.WorkerID {
			continue
		}
		if filter.Day != nil && !r.Day.Equal(*filter.Day) {
			continue
		}
		if filter.Status != nil && !r.Status.Equal(*filter.Status) {
			continue
		}
		resvs = append(resvs, r)
	}

	return resvs
}

func sortByStart(resvs []reservationbus.Reservation) {
	sort.Slice(resvs, func(i, j int) bool {
		return resvs[i].Start.Minutes() < resvs[j].Start.Minutes()
	})
}

func sortBy(resvs []reservationbus.Reservation, orderBy order.By) {
	asc := orderBy.Direction == order.ASC

	less := func(i, j int) bool {
		a, b := resvs[i], resvs[j]

		var before bool
		switch orderBy.Field {
		case reservationbus.OrderByID:
			before = a.ID.String() < b.ID.String()
		case reservationbus.OrderByStart:
			before = a.Start.Minutes() < b.Start.Minutes()
		case reservationbus.OrderByStatus:
			before = a.Status.String() < b.Status.String()
		case reservationbus.OrderByCreatedAt:
			before = a.CreatedAt.Before(b.CreatedAt)
		default:
			if !a.Day.Equal(b.Day) {
				before = a.Day.Before(b.Day)
			} else {
				before = a.Start.Minutes() < b.Start.Minutes()
			}
		}

		if asc {
			return before
		}
		return !before
	}

	sort.Slice(resvs, less)
}

package reservationmem_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jcpaschoal/agendex/business/domain/reservationbus"
	"github.com/jcpaschoal/agendex/business/domain/reservationbus/stores/reservationmem"
	"github.com/jcpaschoal/agendex/business/types/clock"
	"github.com/jcpaschoal/agendex/business/types/daydate"
	"github.com/jcpaschoal/agendex/business/types/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reservation(tenantID uuid.UUID, workerID uuid.UUID, day daydate.Date, start string) reservationbus.Reservation {
	now := time.Now()
	return reservationbus.Reservation{
		ID:              uuid.New(),
		TenantID:        tenantID,
		WorkerID:        workerID,
		Day:             day,
		Start:           clock.MustParse(start),
		DurationMinutes: 30,
		Status:          status.Confirmed,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func TestCreate_ConcurrentSameSlot(t *testing.T) {
	store := reservationmem.NewStore()
	ctx := context.Background()

	tenantID := uuid.New()
	workerID := uuid.New()
	day := daydate.MustParse("2026-09-10")

	const attempts = 8

	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- store.Create(ctx, reservation(tenantID, workerID, day, "10:00"))
		}()
	}

	wg.Wait()
	close(results)

	var succeeded, conflicted int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, reservationbus.ErrSlotUnavailable):
			conflicted++
		default:
			t.Fatalf("unexpected error: %s", err)
		}
	}

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, conflicted)
}

func TestCreate_CancelledSlotReopens(t *testing.T) {
	store := reservationmem.NewStore()
	ctx := context.Background()

	tenantID := uuid.New()
	workerID := uuid.New()
	day := daydate.MustParse("2026-09-10")

	cancelled := reservation(tenantID, workerID, day, "10:00")
	cancelled.Status = status.Cancelled
	require.NoError(t, store.Create(ctx, cancelled))

	// Uma linha cancelada não segura o slot.
	require.NoError(t, store.Create(ctx, reservation(tenantID, workerID, day, "10:00")))
}

func TestMarkReminderSent_Transition(t *testing.T) {
	store := reservationmem.NewStore()
	ctx := context.Background()

	tenantID := uuid.New()
	workerID := uuid.New()
	day := daydate.MustParse("2026-09-10")

	res := reservation(tenantID, workerID, day, "10:00")
	require.NoError(t, store.Create(ctx, res))

	sentAt := time.Now()
	require.NoError(t, store.MarkReminderSent(ctx, res.ID, sentAt))

	err := store.MarkReminderSent(ctx, res.ID, sentAt)
	assert.ErrorIs(t, err, reservationbus.ErrAlreadyReminded)

	err = store.MarkReminderSent(ctx, uuid.New(), sentAt)
	assert.ErrorIs(t, err, reservationbus.ErrAlreadyReminded)

	got, err := store.QueryByID(ctx, tenantID, res.ID)
	require.NoError(t, err)
	assert.True(t, got.ReminderSent)
	require.NotNil(t, got.ReminderSentAt)
}

func TestQueryDueReminder_Filters(t *testing.T) {
	store := reservationmem.NewStore()
	ctx := context.Background()

	tenantID := uuid.New()
	workerID := uuid.New()
	day := daydate.MustParse("2026-09-10")

	due := reservation(tenantID, workerID, day, "09:00")
	require.NoError(t, store.Create(ctx, due))

	cancelled := reservation(tenantID, workerID, day, "10:00")
	cancelled.Status = status.Cancelled
	require.NoError(t, store.Create(ctx, cancelled))

	reminded := reservation(tenantID, workerID, day, "11:00")
	require.NoError(t, store.Create(ctx, reminded))
	require.NoError(t, store.MarkReminderSent(ctx, reminded.ID, time.Now()))

	otherDay := reservation(tenantID, workerID, day.AddDays(1), "09:00")
	require.NoError(t, store.Create(ctx, otherDay))

	got, err := store.QueryDueReminder(ctx, tenantID, day)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, due.ID, got[0].ID)
}

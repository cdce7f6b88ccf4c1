package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sheikh-saqib/point-ledger/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBalanceStore_UnknownAccountIsZero(t *testing.T) {
	s := NewBalanceStore(Latency{})

	point, err := s.Get(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), point.ID)
	assert.Zero(t, point.Point)
}

func TestBalanceStore_SetOverwrites(t *testing.T) {
	ctx := context.Background()
	s := NewBalanceStore(Latency{})
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	_, err := s.Set(ctx, 1, 100, at)
	require.NoError(t, err)
	saved, err := s.Set(ctx, 1, 40, at.Add(time.Second))
	require.NoError(t, err)
	assert.Equal(t, models.UserPoint{ID: 1, Point: 40, UpdatedAt: at.Add(time.Second)}, saved)

	got, err := s.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, saved, got)
}

func TestHistoryStore_IDsIncreaseAcrossAccounts(t *testing.T) {
	ctx := context.Background()
	s := NewHistoryStore(Latency{})
	at := time.Now()

	id1, err := s.Append(ctx, 1, 10, models.Charge, at)
	require.NoError(t, err)
	id2, err := s.Append(ctx, 2, 20, models.Charge, at)
	require.NoError(t, err)
	id3, err := s.Append(ctx, 1, 5, models.Use, at)
	require.NoError(t, err)

	assert.Equal(t, int64(1), id1)
	assert.Less(t, id1, id2)
	assert.Less(t, id2, id3)

	entries, err := s.ListFor(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, id1, entries[0].ID)
	assert.Equal(t, models.Use, entries[1].Type)
	assert.Equal(t, int64(5), entries[1].Amount)
}

func TestHistoryStore_ListForReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewHistoryStore(Latency{})
	_, err := s.Append(ctx, 1, 10, models.Charge, time.Now())
	require.NoError(t, err)

	entries, err := s.ListFor(ctx, 1)
	require.NoError(t, err)
	entries[0].Amount = 999

	again, err := s.ListFor(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(10), again[0].Amount)

	empty, err := s.ListFor(ctx, 7)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestHistoryStore_ConcurrentAppendsGetUniqueIDs(t *testing.T) {
	ctx := context.Background()
	s := NewHistoryStore(Latency{})

	const n = 200
	ids := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := s.Append(ctx, 1, 1, models.Charge, time.Now())
			assert.NoError(t, err)
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool, n)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
}

func TestLatency_HonoursContext(t *testing.T) {
	s := NewBalanceStore(Latency{Min: time.Second, Max: time.Second})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := s.Get(ctx, 1)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

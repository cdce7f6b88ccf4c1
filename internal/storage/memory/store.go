package memory

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	interfaces "github.com/sheikh-saqib/point-ledger/internal/interfaces"
	"github.com/sheikh-saqib/point-ledger/internal/models"
)

// Latency is an artificial delay applied to every store call, drawn
// uniformly from [Min, Max]. The zero value adds no delay.
type Latency struct {
	Min time.Duration
	Max time.Duration
}

func (l Latency) wait(ctx context.Context) error {
	d := l.Min
	if l.Max > l.Min {
		d += rand.N(l.Max - l.Min + 1)
	}
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// BalanceStore keeps balances in a map. It is safe for concurrent use.
type BalanceStore struct {
	mu      sync.RWMutex
	points  map[int64]models.UserPoint
	latency Latency
}

func NewBalanceStore(latency Latency) *BalanceStore {
	return &BalanceStore{
		points:  make(map[int64]models.UserPoint),
		latency: latency,
	}
}

// Get returns the balance of accountID, or a zero balance for an unknown account.
func (s *BalanceStore) Get(ctx context.Context, accountID int64) (models.UserPoint, error) {
	if err := s.latency.wait(ctx); err != nil {
		return models.UserPoint{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	point, exists := s.points[accountID]
	if !exists {
		return models.EmptyUserPoint(accountID), nil
	}
	return point, nil
}

// Set upserts the balance of accountID.
func (s *BalanceStore) Set(ctx context.Context, accountID int64, balance int64, at time.Time) (models.UserPoint, error) {
	if err := s.latency.wait(ctx); err != nil {
		return models.UserPoint{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	point := models.UserPoint{ID: accountID, Point: balance, UpdatedAt: at}
	s.points[accountID] = point
	return point, nil
}

// HistoryStore keeps every entry in one slice, in insertion order.
type HistoryStore struct {
	mu      sync.RWMutex
	entries []models.PointHistory
	nextID  int64
	latency Latency
}

func NewHistoryStore(latency Latency) *HistoryStore {
	return &HistoryStore{
		entries: make([]models.PointHistory, 0),
		nextID:  1,
		latency: latency,
	}
}

func (s *HistoryStore) Append(ctx context.Context, accountID int64, amount int64, kind models.TransactionType, at time.Time) (int64, error) {
	if err := s.latency.wait(ctx); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.entries = append(s.entries, models.PointHistory{
		ID:        id,
		UserID:    accountID,
		Amount:    amount,
		Type:      kind,
		UpdatedAt: at,
	})
	return id, nil
}

// ListFor returns a copy of the entries of accountID so callers can't modify
// the store's state.
func (s *HistoryStore) ListFor(ctx context.Context, accountID int64) ([]models.PointHistory, error) {
	if err := s.latency.wait(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.PointHistory, 0)
	for _, e := range s.entries {
		if e.UserID == accountID {
			result = append(result, e)
		}
	}
	return result, nil
}

var (
	_ interfaces.BalanceStore = (*BalanceStore)(nil)
	_ interfaces.HistoryStore = (*HistoryStore)(nil)
)

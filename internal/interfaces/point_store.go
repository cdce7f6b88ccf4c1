package interfaces

import (
	"context"
	"time"

	"github.com/sheikh-saqib/point-ledger/internal/models"
)

// BalanceStore holds the current balance of every account.
// Get never reports an unknown account: it returns a zero balance instead.
type BalanceStore interface {
	Get(ctx context.Context, accountID int64) (models.UserPoint, error)
	Set(ctx context.Context, accountID int64, balance int64, at time.Time) (models.UserPoint, error)
}

// HistoryStore is the append-only log of committed mutations.
// ListFor returns entries in insertion order.
type HistoryStore interface {
	Append(ctx context.Context, accountID int64, amount int64, kind models.TransactionType, at time.Time) (int64, error)
	ListFor(ctx context.Context, accountID int64) ([]models.PointHistory, error)
}

package events

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sheikh-saqib/point-ledger/internal/models"
)

const PointChangedTopic = "point_changed"

// PointChanged is emitted after a charge or use has been committed.
type PointChanged struct {
	EventID    string                 `json:"event_id"`
	AccountID  int64                  `json:"account_id"`
	Type       models.TransactionType `json:"type"`
	Amount     int64                  `json:"amount"`
	Balance    int64                  `json:"balance"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func NewPointChanged(kind models.TransactionType, amount int64, balance models.UserPoint) PointChanged {
	return PointChanged{
		EventID:    uuid.New().String(),
		AccountID:  balance.ID,
		Type:       kind,
		Amount:     amount,
		Balance:    balance.Point,
		OccurredAt: balance.UpdatedAt,
	}
}

// Key orders events of one account on keyed transports.
func (e PointChanged) Key() string {
	return strconv.FormatInt(e.AccountID, 10)
}

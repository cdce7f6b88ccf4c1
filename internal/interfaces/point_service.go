package interfaces

import (
	"context"

	"github.com/sheikh-saqib/point-ledger/internal/models"
)

// PointService is what transports call. *ledger.Ledger implements it.
type PointService interface {
	GetBalance(ctx context.Context, accountID int64) (models.UserPoint, error)
	GetHistory(ctx context.Context, accountID int64) ([]models.PointHistory, error)
	Charge(ctx context.Context, accountID, amount int64) (models.UserPoint, error)
	Use(ctx context.Context, accountID, amount int64) (models.UserPoint, error)
}

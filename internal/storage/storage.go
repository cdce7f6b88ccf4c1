package storage

import (
	"context"
	"fmt"

	"github.com/sheikh-saqib/point-ledger/internal/config"
	interfaces "github.com/sheikh-saqib/point-ledger/internal/interfaces"
	"github.com/sheikh-saqib/point-ledger/internal/storage/memory"
	"github.com/sheikh-saqib/point-ledger/internal/storage/postgres"
	redisstore "github.com/sheikh-saqib/point-ledger/internal/storage/redis"
	"github.com/sirupsen/logrus"
)

// Stores is the pair of stores backing the ledger.
type Stores struct {
	Balances  interfaces.BalanceStore
	Histories interfaces.HistoryStore
	close     func() error
}

// Close releases the underlying connection, if any.
func (s *Stores) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// Open builds the stores selected by cfg.Storage.Driver.
func Open(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*Stores, error) {
	switch cfg.Storage.Driver {
	case "memory":
		latency := memory.Latency{Min: cfg.Memory.LatencyMin, Max: cfg.Memory.LatencyMax}
		log.WithFields(logrus.Fields{
			"latency_min": latency.Min,
			"latency_max": latency.Max,
		}).Info("using in-memory point stores")
		return &Stores{
			Balances:  memory.NewBalanceStore(latency),
			Histories: memory.NewHistoryStore(latency),
		}, nil

	case "postgres":
		db, err := postgres.Open(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, err
		}
		log.WithFields(logrus.Fields{
			"host": cfg.Database.Host,
			"db":   cfg.Database.DBName,
		}).Info("connected to PostgreSQL")
		return &Stores{
			Balances:  postgres.NewPostgresBalanceStore(db),
			Histories: postgres.NewPostgresHistoryStore(db),
			close:     db.Close,
		}, nil

	case "redis":
		rdb, err := redisstore.Connect(ctx, cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		log.WithField("addr", cfg.Redis.Addr()).Info("connected to Redis")
		return &Stores{
			Balances:  redisstore.NewRedisBalanceStore(rdb),
			Histories: redisstore.NewRedisHistoryStore(rdb),
			close:     rdb.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	interfaces "github.com/sheikh-saqib/point-ledger/internal/interfaces"
	"github.com/sheikh-saqib/point-ledger/internal/models"
)

const historySeqKey = "point:history:seq"

func balanceKey(accountID int64) string {
	return fmt.Sprintf("point:%d", accountID)
}

func historyKey(accountID int64) string {
	return fmt.Sprintf("point:%d:histories", accountID)
}

// Connect opens a client and checks it with PING.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return rdb, nil
}

// RedisBalanceStore keeps each balance in a hash with "balance" and
// "updated_at" (unix nanoseconds) fields.
type RedisBalanceStore struct {
	rdb *redis.Client
}

func NewRedisBalanceStore(rdb *redis.Client) *RedisBalanceStore {
	return &RedisBalanceStore{rdb: rdb}
}

func (r *RedisBalanceStore) Get(ctx context.Context, accountID int64) (models.UserPoint, error) {
	fields, err := r.rdb.HGetAll(ctx, balanceKey(accountID)).Result()
	if err != nil {
		return models.UserPoint{}, fmt.Errorf("failed to read balance from redis: %w", err)
	}
	if len(fields) == 0 {
		return models.EmptyUserPoint(accountID), nil
	}

	balance, err := strconv.ParseInt(fields["balance"], 10, 64)
	if err != nil {
		return models.UserPoint{}, fmt.Errorf("corrupt balance for account %d: %w", accountID, err)
	}
	nanos, err := strconv.ParseInt(fields["updated_at"], 10, 64)
	if err != nil {
		return models.UserPoint{}, fmt.Errorf("corrupt updated_at for account %d: %w", accountID, err)
	}

	return models.UserPoint{
		ID:        accountID,
		Point:     balance,
		UpdatedAt: time.Unix(0, nanos),
	}, nil
}

func (r *RedisBalanceStore) Set(ctx context.Context, accountID int64, balance int64, at time.Time) (models.UserPoint, error) {
	err := r.rdb.HSet(ctx, balanceKey(accountID),
		"balance", balance,
		"updated_at", at.UnixNano(),
	).Err()
	if err != nil {
		return models.UserPoint{}, fmt.Errorf("failed to save balance to redis: %w", err)
	}
	return models.UserPoint{ID: accountID, Point: balance, UpdatedAt: time.Unix(0, at.UnixNano())}, nil
}

// historyRecord is the JSON form of an entry inside the per-account list.
type historyRecord struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	Amount    int64  `json:"amount"`
	Type      string `json:"type"`
	UpdatedAt int64  `json:"updated_at"`
}

// RedisHistoryStore appends JSON entries to one list per account. Entry ids
// come from a single counter shared by all accounts.
type RedisHistoryStore struct {
	rdb *redis.Client
}

func NewRedisHistoryStore(rdb *redis.Client) *RedisHistoryStore {
	return &RedisHistoryStore{rdb: rdb}
}

func (r *RedisHistoryStore) Append(ctx context.Context, accountID int64, amount int64, kind models.TransactionType, at time.Time) (int64, error) {
	id, err := r.rdb.Incr(ctx, historySeqKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to allocate history id: %w", err)
	}

	data, err := json.Marshal(historyRecord{
		ID:        id,
		UserID:    accountID,
		Amount:    amount,
		Type:      string(kind),
		UpdatedAt: at.UnixNano(),
	})
	if err != nil {
		return 0, err
	}

	if err := r.rdb.RPush(ctx, historyKey(accountID), data).Err(); err != nil {
		return 0, fmt.Errorf("failed to append history to redis: %w", err)
	}
	return id, nil
}

func (r *RedisHistoryStore) ListFor(ctx context.Context, accountID int64) ([]models.PointHistory, error) {
	raw, err := r.rdb.LRange(ctx, historyKey(accountID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read histories from redis: %w", err)
	}

	entries := make([]models.PointHistory, 0, len(raw))
	for _, item := range raw {
		var rec historyRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			return nil, fmt.Errorf("corrupt history entry for account %d: %w", accountID, err)
		}
		kind, err := models.ParseTransactionType(rec.Type)
		if err != nil {
			return nil, err
		}
		entries = append(entries, models.PointHistory{
			ID:        rec.ID,
			UserID:    rec.UserID,
			Amount:    rec.Amount,
			Type:      kind,
			UpdatedAt: time.Unix(0, rec.UpdatedAt),
		})
	}
	return entries, nil
}

var (
	_ interfaces.BalanceStore = (*RedisBalanceStore)(nil)
	_ interfaces.HistoryStore = (*RedisHistoryStore)(nil)
)

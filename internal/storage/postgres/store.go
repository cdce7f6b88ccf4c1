package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	interfaces "github.com/sheikh-saqib/point-ledger/internal/interfaces"
	"github.com/sheikh-saqib/point-ledger/internal/models"
)

// Open connects to Postgres through lib/pq and checks the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)
	return db, nil
}

type PostgresBalanceStore struct {
	db *sql.DB
}

func NewPostgresBalanceStore(db *sql.DB) *PostgresBalanceStore {
	return &PostgresBalanceStore{
		db: db,
	}
}

func (p *PostgresBalanceStore) Get(ctx context.Context, accountID int64) (models.UserPoint, error) {
	const query = `SELECT account_id, balance, updated_at FROM user_points WHERE account_id = $1`

	var point models.UserPoint
	err := p.db.QueryRowContext(ctx, query, accountID).Scan(&point.ID, &point.Point, &point.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.EmptyUserPoint(accountID), nil
	}
	if err != nil {
		return models.UserPoint{}, fmt.Errorf("failed to query balance: %w", err)
	}
	return point, nil
}

func (p *PostgresBalanceStore) Set(ctx context.Context, accountID int64, balance int64, at time.Time) (models.UserPoint, error) {
	const query = `INSERT INTO user_points (account_id, balance, updated_at)
	VALUES ($1, $2, $3)
	ON CONFLICT (account_id) DO UPDATE SET balance = EXCLUDED.balance, updated_at = EXCLUDED.updated_at
	RETURNING account_id, balance, updated_at`

	var point models.UserPoint
	err := p.db.QueryRowContext(ctx, query, accountID, balance, at).Scan(&point.ID, &point.Point, &point.UpdatedAt)
	if err != nil {
		return models.UserPoint{}, fmt.Errorf("failed to upsert balance: %w", err)
	}
	return point, nil
}

type PostgresHistoryStore struct {
	db *sql.DB
}

func NewPostgresHistoryStore(db *sql.DB) *PostgresHistoryStore {
	return &PostgresHistoryStore{
		db: db,
	}
}

func (p *PostgresHistoryStore) Append(ctx context.Context, accountID int64, amount int64, kind models.TransactionType, at time.Time) (int64, error) {
	const query = `INSERT INTO point_histories (account_id, amount, kind, created_at)
	VALUES ($1, $2, $3, $4)
	RETURNING id`

	var id int64
	if err := p.db.QueryRowContext(ctx, query, accountID, amount, string(kind), at).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert point history: %w", err)
	}
	return id, nil
}

func (p *PostgresHistoryStore) ListFor(ctx context.Context, accountID int64) ([]models.PointHistory, error) {
	const query = `SELECT id, account_id, amount, kind, created_at FROM point_histories
	WHERE account_id = $1
	ORDER BY id`

	rows, err := p.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query point histories: %w", err)
	}
	defer rows.Close()

	entries := make([]models.PointHistory, 0)
	for rows.Next() {
		var (
			entry models.PointHistory
			kind  string
		)
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Amount, &kind, &entry.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan point history: %w", err)
		}
		if entry.Type, err = models.ParseTransactionType(kind); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over point histories: %w", err)
	}
	return entries, nil
}

var (
	_ interfaces.BalanceStore = (*PostgresBalanceStore)(nil)
	_ interfaces.HistoryStore = (*PostgresHistoryStore)(nil)
)

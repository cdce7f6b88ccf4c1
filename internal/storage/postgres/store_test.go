package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sheikh-saqib/point-ledger/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

func TestPostgresBalanceStore_Get(t *testing.T) {
	db, mock := newMock(t)
	at := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT account_id, balance, updated_at FROM user_points WHERE account_id = $1`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"account_id", "balance", "updated_at"}).AddRow(int64(1), int64(1300), at))

	point, err := NewPostgresBalanceStore(db).Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.UserPoint{ID: 1, Point: 1300, UpdatedAt: at}, point)
}

func TestPostgresBalanceStore_GetUnknownAccount(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM user_points WHERE account_id = $1`)).
		WithArgs(int64(9)).
		WillReturnError(sql.ErrNoRows)

	point, err := NewPostgresBalanceStore(db).Get(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, int64(9), point.ID)
	assert.Zero(t, point.Point)
}

func TestPostgresBalanceStore_SetUpserts(t *testing.T) {
	db, mock := newMock(t)
	at := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`ON CONFLICT (account_id) DO UPDATE`)).
		WithArgs(int64(1), int64(1500), at).
		WillReturnRows(sqlmock.NewRows([]string{"account_id", "balance", "updated_at"}).AddRow(int64(1), int64(1500), at))

	point, err := NewPostgresBalanceStore(db).Set(context.Background(), 1, 1500, at)
	require.NoError(t, err)
	assert.Equal(t, int64(1500), point.Point)
}

func TestPostgresBalanceStore_SetError(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO user_points`)).
		WillReturnError(errors.New("connection reset"))

	_, err := NewPostgresBalanceStore(db).Set(context.Background(), 1, 10, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to upsert balance")
}

func TestPostgresHistoryStore_Append(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO point_histories (account_id, amount, kind, created_at)`)).
		WithArgs(int64(1), int64(500), "CHARGE", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(17)))

	id, err := NewPostgresHistoryStore(db).Append(context.Background(), 1, 500, models.Charge, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(17), id)
}

func TestPostgresHistoryStore_ListFor(t *testing.T) {
	db, mock := newMock(t)
	at := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "account_id", "amount", "kind", "created_at"}).
		AddRow(int64(1), int64(1), int64(500), "CHARGE", at).
		AddRow(int64(4), int64(1), int64(200), "USE", at.Add(time.Second))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM point_histories`)).
		WithArgs(int64(1)).
		WillReturnRows(rows)

	entries, err := NewPostgresHistoryStore(db).ListFor(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, models.Charge, entries[0].Type)
	assert.Equal(t, models.Use, entries[1].Type)
	assert.Equal(t, int64(200), entries[1].Amount)
	assert.Equal(t, int64(-200), entries[1].Signed())
}

func TestPostgresHistoryStore_ListForRejectsUnknownKind(t *testing.T) {
	db, mock := newMock(t)

	rows := sqlmock.NewRows([]string{"id", "account_id", "amount", "kind", "created_at"}).
		AddRow(int64(1), int64(1), int64(5), "REFUND", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta(`FROM point_histories`)).
		WithArgs(int64(1)).
		WillReturnRows(rows)

	_, err := NewPostgresHistoryStore(db).ListFor(context.Background(), 1)
	assert.Error(t, err)
}

package ledger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	interfaces "github.com/sheikh-saqib/point-ledger/internal/interfaces"
	"github.com/sheikh-saqib/point-ledger/internal/models"
	"github.com/sheikh-saqib/point-ledger/internal/models/events"
	"github.com/sirupsen/logrus"
)

const publishTimeout = 5 * time.Second

// Options holds the optional collaborators of a Ledger.
type Options struct {
	// Publisher receives a PointChanged event after every committed mutation.
	// Nil disables publishing.
	Publisher interfaces.EventPublisher
	Logger    *logrus.Logger
	// LockTimeout bounds the wait for an account lock. Zero waits forever.
	LockTimeout time.Duration
	// Now is the clock used to timestamp mutations. Defaults to time.Now.
	Now func() time.Time
}

// Ledger applies charges and uses to point balances.
// Mutations on the same account run one at a time under that account's lock;
// mutations on different accounts never wait for each other.
// Reads go straight to the stores.
type Ledger struct {
	balances    interfaces.BalanceStore
	histories   interfaces.HistoryStore
	locks       *AccountLocks
	publisher   interfaces.EventPublisher
	log         *logrus.Logger
	lockTimeout time.Duration
	now         func() time.Time
}

// NewLedger builds a Ledger over the given stores. The lock registry is
// owned by the caller so its lifetime can match the service's.
func NewLedger(balances interfaces.BalanceStore, histories interfaces.HistoryStore, locks *AccountLocks, opts Options) *Ledger {
	log := opts.Logger
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Ledger{
		balances:    balances,
		histories:   histories,
		locks:       locks,
		publisher:   opts.Publisher,
		log:         log,
		lockTimeout: opts.LockTimeout,
		now:         now,
	}
}

func (l *Ledger) GetBalance(ctx context.Context, accountID int64) (models.UserPoint, error) {
	return l.balances.Get(ctx, accountID)
}

func (l *Ledger) GetHistory(ctx context.Context, accountID int64) ([]models.PointHistory, error) {
	return l.histories.ListFor(ctx, accountID)
}

// Charge adds amount to the balance of accountID.
func (l *Ledger) Charge(ctx context.Context, accountID, amount int64) (models.UserPoint, error) {
	return l.mutate(ctx, accountID, amount, models.Charge)
}

// Use subtracts amount from the balance of accountID. It fails with
// *InsufficientBalanceError when the balance is lower than amount.
func (l *Ledger) Use(ctx context.Context, accountID, amount int64) (models.UserPoint, error) {
	return l.mutate(ctx, accountID, amount, models.Use)
}

func (l *Ledger) mutate(ctx context.Context, accountID, amount int64, kind models.TransactionType) (models.UserPoint, error) {
	if amount <= 0 {
		return models.UserPoint{}, &InvalidAmountError{Amount: amount}
	}

	updated, err := l.applyLocked(ctx, accountID, amount, kind)
	if err != nil {
		return models.UserPoint{}, err
	}

	l.log.WithFields(logrus.Fields{
		"account_id": accountID,
		"type":       kind,
		"amount":     amount,
		"balance":    updated.Point,
	}).Debug("point mutation committed")

	l.publish(ctx, kind, amount, updated)
	return updated, nil
}

// applyLocked runs the read-check-write sequence while holding the account lock.
func (l *Ledger) applyLocked(ctx context.Context, accountID, amount int64, kind models.TransactionType) (models.UserPoint, error) {
	lock := l.locks.LockFor(accountID)
	if err := l.acquire(ctx, lock); err != nil {
		return models.UserPoint{}, err
	}
	defer lock.Unlock()

	// Once the lock is held the sequence runs to completion, so a caller
	// going away cannot leave a history entry without its balance update.
	ctx = context.WithoutCancel(ctx)

	current, err := l.balances.Get(ctx, accountID)
	if err != nil {
		return models.UserPoint{}, fmt.Errorf("failed to read balance of account %d: %w", accountID, err)
	}

	next := current.Point + amount
	if kind == models.Use {
		if current.Point < amount {
			return models.UserPoint{}, &InsufficientBalanceError{
				AccountID: accountID,
				Requested: amount,
				Available: current.Point,
			}
		}
		next = current.Point - amount
	}

	at := l.now()
	if at.Before(current.UpdatedAt) {
		at = current.UpdatedAt
	}

	if _, err := l.histories.Append(ctx, accountID, amount, kind, at); err != nil {
		return models.UserPoint{}, fmt.Errorf("failed to append history of account %d: %w", accountID, err)
	}

	updated, err := l.balances.Set(ctx, accountID, next, at)
	if err != nil {
		return models.UserPoint{}, fmt.Errorf("failed to save balance of account %d: %w", accountID, err)
	}
	return updated, nil
}

func (l *Ledger) acquire(ctx context.Context, lock *AccountLock) error {
	waitCtx := ctx
	if l.lockTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, l.lockTimeout)
		defer cancel()
	}

	err := lock.Lock(waitCtx)
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return fmt.Errorf("%w: %w", ErrLockTimeout, err)
	}
	return err
}

// publish is best effort: the mutation is already committed.
func (l *Ledger) publish(ctx context.Context, kind models.TransactionType, amount int64, updated models.UserPoint) {
	if l.publisher == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	event := events.NewPointChanged(kind, amount, updated)
	if err := l.publisher.Publish(ctx, events.PointChangedTopic, event); err != nil {
		l.log.WithFields(logrus.Fields{
			"account_id": updated.ID,
			"event_id":   event.EventID,
			"error":      err,
		}).Warn("failed to publish point changed event")
	}
}

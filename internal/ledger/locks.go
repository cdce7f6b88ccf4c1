package ledger

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// AccountLock serializes mutations on a single account.
// Unlike sync.Mutex, a waiter can give up through its context.
type AccountLock struct {
	sem *semaphore.Weighted
}

func newAccountLock() *AccountLock {
	return &AccountLock{sem: semaphore.NewWeighted(1)}
}

// Lock blocks until the lock is held or ctx is done.
func (l *AccountLock) Lock(ctx context.Context) error {
	return l.sem.Acquire(ctx, 1)
}

func (l *AccountLock) Unlock() {
	l.sem.Release(1)
}

// AccountLocks hands out one AccountLock per account id.
// Locks are created on first use and kept for the lifetime of the registry.
type AccountLocks struct {
	mu    sync.Mutex             // protects locks
	locks map[int64]*AccountLock // one lock per account id
}

func NewAccountLocks() *AccountLocks {
	return &AccountLocks{
		locks: make(map[int64]*AccountLock),
	}
}

// LockFor returns the lock of accountID, creating it if needed. Concurrent
// callers asking for the same unseen id always get the same instance.
func (r *AccountLocks) LockFor(accountID int64) *AccountLock {
	r.mu.Lock()
	defer r.mu.Unlock()

	lock, exists := r.locks[accountID]
	if !exists {
		lock = newAccountLock()
		r.locks[accountID] = lock
	}
	return lock
}

// Len reports how many accounts have a lock.
func (r *AccountLocks) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.locks)
}

package models

import (
	"fmt"
	"time"
)

// TransactionType is the direction of a point mutation.
type TransactionType string

const (
	Charge TransactionType = "CHARGE"
	Use    TransactionType = "USE"
)

func (t TransactionType) Valid() bool {
	return t == Charge || t == Use
}

// ParseTransactionType converts a stored kind back into a TransactionType.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
	return t, nil
}

// PointHistory is one immutable audit record of a committed mutation.
// Amount is always positive; the sign of the effect comes from Type.
type PointHistory struct {
	ID        int64
	UserID    int64
	Amount    int64
	Type      TransactionType
	UpdatedAt time.Time
}

// Signed returns the balance effect of the entry.
func (h PointHistory) Signed() int64 {
	if h.Type == Use {
		return -h.Amount
	}
	return h.Amount
}

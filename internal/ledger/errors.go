package ledger

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInsufficientBalance = errors.New("insufficient point balance")
	ErrLockTimeout         = errors.New("timed out waiting for account lock")
)

// Error codes reported to callers so they can tell rejections apart.
const (
	CodeInvalidAmount       = "INVALID_AMOUNT"
	CodeInsufficientBalance = "INSUFFICIENT_POINT"
)

// InvalidAmountError rejects a zero or negative amount.
type InvalidAmountError struct {
	Amount int64
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("invalid amount %d: must be greater than 0", e.Amount)
}

func (e *InvalidAmountError) Is(target error) bool {
	return target == ErrInvalidAmount
}

// InsufficientBalanceError rejects a use larger than the current balance.
type InsufficientBalanceError struct {
	AccountID int64
	Requested int64
	Available int64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("account %d has insufficient points: requested %d, available %d",
		e.AccountID, e.Requested, e.Available)
}

func (e *InsufficientBalanceError) Is(target error) bool {
	return target == ErrInsufficientBalance
}

// ErrorCode returns the code of a business rejection, or "" for any other error.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidAmount):
		return CodeInvalidAmount
	case errors.Is(err, ErrInsufficientBalance):
		return CodeInsufficientBalance
	default:
		return ""
	}
}

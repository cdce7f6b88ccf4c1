package models

import "time"

// UserPoint is the current point balance of a single account.
type UserPoint struct {
	ID        int64     // account id
	Point     int64     // current balance, never negative
	UpdatedAt time.Time // time of the last committed mutation
}

// EmptyUserPoint is the record returned for an account with no activity yet.
func EmptyUserPoint(id int64) UserPoint {
	return UserPoint{
		ID:        id,
		Point:     0,
		UpdatedAt: time.Now(),
	}
}

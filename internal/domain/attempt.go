package domain

import (
	"errors"
	"time"
)

type CompensationStatus string

const (
	CompensationNone     CompensationStatus = "NONE"
	CompensationReleased CompensationStatus = "RELEASED"
	CompensationPending  CompensationStatus = "PENDING"
	CompensationFailed   CompensationStatus = "FAILED"
)

// Attempt is the journal entry of one saga run.
type Attempt struct {
	SagaID       string
	AccountID    string
	TripID       string
	OrderID      string
	State        SagaState
	Status       int
	Message      string
	Compensation CompensationStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Finished reports whether the attempt reached a terminal state.
func (a Attempt) Finished() bool {
	return a.State.Terminal()
}

var ErrAttemptNotFound = errors.New("reservation attempt not found")

type SeatReleaseStatus string

// A release moves PENDING -> RELEASING -> RELEASED. A failed attempt puts it
// back to PENDING, or to ABANDONED once the attempt budget is spent. A
// RELEASING row whose lease ran out may be claimed again.
const (
	SeatReleasePending   SeatReleaseStatus = "PENDING"
	SeatReleaseReleasing SeatReleaseStatus = "RELEASING"
	SeatReleaseReleased  SeatReleaseStatus = "RELEASED"
	SeatReleaseAbandoned SeatReleaseStatus = "ABANDONED"
)

// ErrReleaseNotClaimable means another processor holds the release or it is
// already finished.
var ErrReleaseNotClaimable = errors.New("seat release is not claimable")

// PendingRelease is an outbox row for a seat that still has to be released.
type PendingRelease struct {
	ID           int64
	Release      SeatRelease
	Status       SeatReleaseStatus
	Attempts     int
	LastError    string
	ClaimedUntil *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Claimable reports whether a processor may take the release at now.
func (p PendingRelease) Claimable(now time.Time) bool {
	switch p.Status {
	case SeatReleasePending:
		return true
	case SeatReleaseReleasing:
		return p.ClaimedUntil != nil && p.ClaimedUntil.Before(now)
	default:
		return false
	}
}

package kafka

import (
	"time"

	"github.com/Domenick1991/trainticket/internal/domain"
)

const (
	EventReservationCompleted = "reservation_completed"
	EventReservationAborted   = "reservation_aborted"
	EventSeatReleaseRequested = "seat_release_requested"
)

// ReservationEvent is published once per finished saga.
type ReservationEvent struct {
	Type         string    `json:"type"`
	SagaID       string    `json:"saga_id"`
	AccountID    string    `json:"account_id"`
	OrderID      string    `json:"order_id,omitempty"`
	TrainNumber  string    `json:"train_number"`
	TravelDate   string    `json:"travel_date"`
	SeatNumber   string    `json:"seat_number,omitempty"`
	State        string    `json:"state"`
	Status       int       `json:"status"`
	Message      string    `json:"message"`
	Compensation string    `json:"compensation"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// SeatReleaseEvent asks the worker to hand a seat back.
type SeatReleaseEvent struct {
	Type        string             `json:"type"`
	OutboxID    int64              `json:"outbox_id"`
	Release     domain.SeatRelease `json:"release"`
	RequestedAt time.Time          `json:"requested_at"`
}

package reservation

import (
	"context"
	"errors"
	"log"

	"github.com/Domenick1991/trainticket/internal/domain"
	"github.com/Domenick1991/trainticket/internal/kafka"
)

// finish records a terminal saga in the journal and announces it. Neither
// failure changes the verdict.
func (s *Service) finish(ctx context.Context, sg *saga) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.persistTimeout)
	defer cancel()

	now := s.now()
	attempt := &domain.Attempt{
		SagaID:       sg.id,
		AccountID:    sg.req.AccountID,
		TripID:       sg.req.TripID,
		State:        sg.state,
		Status:       sg.response.Status,
		Message:      sg.response.Msg,
		Compensation: sg.compensation,
		CreatedAt:    sg.startedAt,
		UpdatedAt:    now,
	}
	if sg.order != nil {
		attempt.OrderID = sg.order.ID
	}

	if s.journal != nil {
		if err := s.journal.Save(ctx, attempt); err != nil {
			log.Printf("failed to journal reservation: saga=%s err=%v", sg.id, err)
		}
	}

	if s.producer == nil || s.eventsTopic == "" {
		return
	}
	event := kafka.ReservationEvent{
		Type:         kafka.EventReservationCompleted,
		SagaID:       sg.id,
		AccountID:    sg.req.AccountID,
		OrderID:      attempt.OrderID,
		TrainNumber:  sg.req.TripID,
		TravelDate:   sg.req.Date,
		State:        string(sg.state),
		Status:       sg.response.Status,
		Message:      sg.response.Msg,
		Compensation: string(sg.compensation),
		OccurredAt:   now,
	}
	if sg.state == domain.StateAborted {
		event.Type = kafka.EventReservationAborted
	}
	if sg.order != nil {
		event.SeatNumber = sg.order.SeatNumber
	}
	if err := s.producer.Publish(ctx, s.eventsTopic, sg.id, event); err != nil {
		log.Printf("failed to publish %s event: saga=%s err=%v", event.Type, sg.id, err)
	}
}

// Attempt looks up a saga by id. Finished sagas come from the journal;
// in-flight ones only carry their live state.
func (s *Service) Attempt(ctx context.Context, sagaID string) (*domain.Attempt, error) {
	if s.journal != nil {
		attempt, err := s.journal.GetBySagaID(ctx, sagaID)
		if err == nil {
			return attempt, nil
		}
		if !errors.Is(err, domain.ErrAttemptNotFound) {
			return nil, err
		}
	}

	if s.tracker == nil {
		return nil, domain.ErrAttemptNotFound
	}
	state, err := s.tracker.GetState(ctx, sagaID)
	if err != nil {
		return nil, err
	}
	if state == "" {
		return nil, domain.ErrAttemptNotFound
	}
	return &domain.Attempt{SagaID: sagaID, State: state, Compensation: domain.CompensationNone}, nil
}

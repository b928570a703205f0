package reservation

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/Domenick1991/trainticket/internal/domain"
	"github.com/Domenick1991/trainticket/internal/upstream"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// Result is the verdict of one saga run.
type Result struct {
	SagaID       string
	State        domain.SagaState
	Compensation domain.CompensationStatus
	Response     domain.Response[domain.OrderSummary]
}

type saga struct {
	id           string
	req          domain.ReservationRequest
	state        domain.SagaState
	compensation domain.CompensationStatus
	order        *domain.Order
	response     domain.Response[domain.OrderSummary]
	startedAt    time.Time
}

func (sg *saga) result() *Result {
	return &Result{
		SagaID:       sg.id,
		State:        sg.state,
		Compensation: sg.compensation,
		Response:     sg.response,
	}
}

// Reserve runs the reservation saga for one request. A structured rejection
// from any mandatory step comes back as a status 0 response with a nil
// error. An unreachable mandatory collaborator comes back as a status 0
// response together with an *upstream.UnavailableError.
func (s *Service) Reserve(ctx context.Context, req domain.ReservationRequest) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	sg := &saga{
		id:           s.newID(),
		req:          req,
		compensation: domain.CompensationNone,
		startedAt:    s.now(),
	}

	ctx, span := s.tracer.Start(ctx, "reservation.Reserve", trace.WithAttributes(
		attribute.String("saga.id", sg.id),
		attribute.String("trip.id", req.TripID),
		attribute.String("seat.class", req.SeatType.String()),
	))
	defer span.End()

	s.transition(ctx, sg, domain.StateStart)
	err := s.run(ctx, sg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, sg.response.Msg)
	}
	span.SetAttributes(attribute.String("saga.state", string(sg.state)))

	s.finish(ctx, sg)
	return sg.result(), err
}

func (s *Service) run(ctx context.Context, sg *saga) error {
	req := sg.req

	err := s.step(ctx, "security", func(ctx context.Context) error {
		return s.deps.Security.Check(ctx, req.AccountID)
	})
	if err != nil {
		return s.abort(ctx, sg, err)
	}
	s.transition(ctx, sg, domain.StateSecurityChecked)

	var contact *domain.Contact
	err = s.step(ctx, "contacts", func(ctx context.Context) error {
		var err error
		contact, err = s.deps.Contacts.Get(ctx, req.ContactsID)
		return err
	})
	if err != nil {
		return s.abort(ctx, sg, err)
	}
	s.transition(ctx, sg, domain.StateContactsResolved)

	trip, fromID, toID, err := s.resolveTrip(ctx, sg)
	if err != nil || trip == nil {
		return err
	}

	price, ok := trip.PriceFor(req.SeatType)
	if !ok {
		return s.reject(ctx, sg, MsgPriceNotFound)
	}

	seatReq := domain.SeatRequest{
		TravelDate:   req.Date,
		TrainNumber:  req.TripID,
		StartStation: fromID,
		DestStation:  toID,
		SeatType:     req.SeatType,
	}
	var ticket *domain.Ticket
	err = s.step(ctx, "seat.allocate", func(ctx context.Context) error {
		var err error
		ticket, err = s.deps.Seats.Allocate(ctx, seatReq)
		return err
	})
	if err != nil {
		return s.abort(ctx, sg, err)
	}
	s.transition(ctx, sg, domain.StateSeatAllocated)

	order := domain.Order{
		ID:                     s.newID(),
		BoughtDate:             s.now().Format(time.RFC3339),
		TravelDate:             req.Date,
		TravelTime:             trip.TripResponse.StartTime,
		AccountID:              req.AccountID,
		ContactsName:           contact.Name,
		DocumentType:           contact.DocumentType,
		ContactsDocumentNumber: contact.DocumentNumber,
		TrainNumber:            req.TripID,
		SeatClass:              req.SeatType,
		SeatNumber:             strconv.Itoa(ticket.SeatNo),
		From:                   fromID,
		To:                     toID,
		Status:                 domain.OrderStatusNotPaid,
		Price:                  price,
	}

	var committed *domain.Order
	err = s.step(ctx, "order.commit", func(ctx context.Context) error {
		var err error
		committed, err = s.deps.Orders.Create(ctx, order)
		return err
	})
	if err != nil {
		sg.compensation = s.compensate(ctx, domain.NewSeatRelease(sg.id, seatReq, *ticket))
		return s.abort(ctx, sg, err)
	}
	sg.order = committed
	sg.response = domain.OK(MsgSuccess, committed.Summary())
	s.transition(ctx, sg, domain.StateOrderCommitted)

	s.enrich(ctx, sg)
	s.transition(ctx, sg, domain.StateDone)

	s.notify(ctx, *committed)
	return nil
}

// resolveTrip fetches availability and both station ids concurrently. The
// outcomes are judged in a fixed order: trip, seat rule, origin, destination.
// A nil trip with a nil error means the saga was rejected.
func (s *Service) resolveTrip(ctx context.Context, sg *saga) (*domain.TripAvailability, string, string, error) {
	req := sg.req

	var (
		trip           *domain.TripAvailability
		fromID, toID   string
		tripErr        error
		fromErr, toErr error
	)

	var g errgroup.Group
	g.Go(func() error {
		tripErr = s.step(ctx, "availability", func(ctx context.Context) error {
			var err error
			trip, err = s.deps.Travel.TripDetail(ctx, domain.TripQuery{
				TripID:     req.TripID,
				TravelDate: req.Date,
				From:       req.From,
				To:         req.To,
			})
			return err
		})
		return nil
	})
	g.Go(func() error {
		fromErr = s.step(ctx, "station.from", func(ctx context.Context) error {
			var err error
			fromID, err = s.deps.Stations.ResolveID(ctx, req.From)
			return err
		})
		return nil
	})
	g.Go(func() error {
		toErr = s.step(ctx, "station.to", func(ctx context.Context) error {
			var err error
			toID, err = s.deps.Stations.ResolveID(ctx, req.To)
			return err
		})
		return nil
	})
	_ = g.Wait()

	if tripErr != nil {
		return nil, "", "", s.abort(ctx, sg, tripErr)
	}
	if !trip.HasSeatsFor(req.SeatType) {
		return nil, "", "", s.reject(ctx, sg, MsgSeatNotEnough)
	}
	s.transition(ctx, sg, domain.StateAvailabilityConfirmed)

	if fromErr != nil {
		return nil, "", "", s.abort(ctx, sg, fromErr)
	}
	if toErr != nil {
		return nil, "", "", s.abort(ctx, sg, toErr)
	}
	s.transition(ctx, sg, domain.StateStationsResolved)

	return trip, fromID, toID, nil
}

// step runs one collaborator call under its own span.
func (s *Service) step(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, "reservation."+name)
	defer span.End()

	err := fn(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, upstream.Message(err))
	}
	return err
}

// abort ends the saga with the collaborator's message. Only unavailability
// is returned as an error.
func (s *Service) abort(ctx context.Context, sg *saga, err error) error {
	msg := upstream.Message(err)
	log.Printf("reservation aborted: saga=%s state=%s err=%v", sg.id, sg.state, err)
	sg.response = domain.Fail[domain.OrderSummary](msg)
	s.transition(ctx, sg, domain.StateAborted)
	if upstream.IsUnavailable(err) {
		return err
	}
	return nil
}

// reject ends the saga on a rule decided locally.
func (s *Service) reject(ctx context.Context, sg *saga, msg string) error {
	log.Printf("reservation rejected: saga=%s state=%s msg=%q", sg.id, sg.state, msg)
	sg.response = domain.Fail[domain.OrderSummary](msg)
	s.transition(ctx, sg, domain.StateAborted)
	return nil
}

func (s *Service) transition(ctx context.Context, sg *saga, next domain.SagaState) {
	prev := sg.state
	sg.state = next
	log.Printf("reservation transition: saga=%s from=%s to=%s", sg.id, prev, next)
	trace.SpanFromContext(ctx).AddEvent("saga.transition", trace.WithAttributes(
		attribute.String("from", string(prev)),
		attribute.String("to", string(next)),
	))

	if s.tracker == nil {
		return
	}
	tctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.persistTimeout)
	defer cancel()
	if err := s.tracker.SetState(tctx, sg.id, next); err != nil {
		log.Printf("failed to track saga state: saga=%s state=%s err=%v", sg.id, next, err)
	}
}

// Package reservation drives the ticket reservation saga: eligibility,
// reference data, seat allocation, order commit and best-effort extras.
package reservation

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Domenick1991/trainticket/internal/domain"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const (
	MsgSuccess       = "Success."
	MsgAssuranceFail = "Success.But Buy Assurance Fail."
	MsgFoodFail      = "Success.But Buy Food Fail."
	MsgConsignFail   = "Consign Fail."
	MsgSeatNotEnough = "Seat Not Enough"
	MsgPriceNotFound = "Price Not Found"
)

var ErrInvalidRequest = errors.New("invalid reservation request")

type ReservationUseCase interface {
	Reserve(ctx context.Context, req domain.ReservationRequest) (*Result, error)
	Attempt(ctx context.Context, sagaID string) (*domain.Attempt, error)
}

type SecurityChecker interface {
	Check(ctx context.Context, accountID string) error
}

type ContactResolver interface {
	Get(ctx context.Context, contactsID string) (*domain.Contact, error)
}

type AvailabilityChecker interface {
	TripDetail(ctx context.Context, q domain.TripQuery) (*domain.TripAvailability, error)
}

type StationResolver interface {
	ResolveID(ctx context.Context, name string) (string, error)
}

type SeatAllocator interface {
	Allocate(ctx context.Context, req domain.SeatRequest) (*domain.Ticket, error)
	Release(ctx context.Context, r domain.SeatRelease) error
}

type OrderCommitter interface {
	Create(ctx context.Context, order domain.Order) (*domain.Order, error)
}

type AssuranceAttacher interface {
	Create(ctx context.Context, typeIndex int, orderID string) error
}

type FoodOrderAttacher interface {
	Create(ctx context.Context, order domain.FoodOrder) error
}

type ConsignAttacher interface {
	Create(ctx context.Context, consign domain.Consign) error
}

type UserDirectory interface {
	Get(ctx context.Context, accountID string) (*domain.User, error)
}

type Notifier interface {
	PreserveSuccess(ctx context.Context, info domain.NotifyInfo) error
}

// StateTracker keeps the live state of in-flight sagas.
type StateTracker interface {
	SetState(ctx context.Context, sagaID string, state domain.SagaState) error
	GetState(ctx context.Context, sagaID string) (domain.SagaState, error)
}

// Journal persists one record per finished saga.
type Journal interface {
	Save(ctx context.Context, attempt *domain.Attempt) error
	GetBySagaID(ctx context.Context, sagaID string) (*domain.Attempt, error)
}

// ReleaseQueue takes seat releases that could not be done inline.
type ReleaseQueue interface {
	Enqueue(ctx context.Context, release domain.SeatRelease) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// Dependencies is the capability set the saga calls into.
type Dependencies struct {
	Security  SecurityChecker
	Contacts  ContactResolver
	Travel    AvailabilityChecker
	Stations  StationResolver
	Seats     SeatAllocator
	Orders    OrderCommitter
	Assurance AssuranceAttacher
	Food      FoodOrderAttacher
	Consign   ConsignAttacher
	Users     UserDirectory
	Notifier  Notifier
}

type Service struct {
	deps Dependencies

	tracker     StateTracker
	journal     Journal
	releases    ReleaseQueue
	producer    Producer
	eventsTopic string

	compensationTimeout time.Duration
	notificationTimeout time.Duration
	persistTimeout      time.Duration

	now    func() time.Time
	newID  func() string
	tracer trace.Tracer

	notifications sync.WaitGroup
}

type ServiceOption func(*Service)

func WithTracker(t StateTracker) ServiceOption {
	return func(s *Service) { s.tracker = t }
}

func WithJournal(j Journal) ServiceOption {
	return func(s *Service) { s.journal = j }
}

func WithReleaseQueue(q ReleaseQueue) ServiceOption {
	return func(s *Service) { s.releases = q }
}

func WithEvents(p Producer, topic string) ServiceOption {
	return func(s *Service) {
		s.producer = p
		s.eventsTopic = topic
	}
}

func WithCompensationTimeout(d time.Duration) ServiceOption {
	return func(s *Service) { s.compensationTimeout = d }
}

func WithNotificationTimeout(d time.Duration) ServiceOption {
	return func(s *Service) { s.notificationTimeout = d }
}

func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

func WithIDGenerator(newID func() string) ServiceOption {
	return func(s *Service) { s.newID = newID }
}

func NewService(deps Dependencies, opts ...ServiceOption) *Service {
	s := &Service{
		deps:                deps,
		compensationTimeout: 5 * time.Second,
		notificationTimeout: 5 * time.Second,
		persistTimeout:      5 * time.Second,
		now:                 time.Now,
		newID:               uuid.NewString,
		tracer:              otel.Tracer("github.com/Domenick1991/trainticket/internal/service/reservation"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Wait blocks until every notification started by Reserve has finished.
func (s *Service) Wait() {
	s.notifications.Wait()
}

var _ ReservationUseCase = (*Service)(nil)

package reservation

import (
	"context"

	"github.com/Domenick1991/trainticket/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockSecurityChecker struct {
	mock.Mock
}

func (m *MockSecurityChecker) Check(ctx context.Context, accountID string) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

type MockContactResolver struct {
	mock.Mock
}

func (m *MockContactResolver) Get(ctx context.Context, contactsID string) (*domain.Contact, error) {
	args := m.Called(ctx, contactsID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contact), args.Error(1)
}

type MockAvailabilityChecker struct {
	mock.Mock
}

func (m *MockAvailabilityChecker) TripDetail(ctx context.Context, q domain.TripQuery) (*domain.TripAvailability, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TripAvailability), args.Error(1)
}

type MockStationResolver struct {
	mock.Mock
}

func (m *MockStationResolver) ResolveID(ctx context.Context, name string) (string, error) {
	args := m.Called(ctx, name)
	return args.String(0), args.Error(1)
}

type MockSeatAllocator struct {
	mock.Mock
}

func (m *MockSeatAllocator) Allocate(ctx context.Context, req domain.SeatRequest) (*domain.Ticket, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockSeatAllocator) Release(ctx context.Context, r domain.SeatRelease) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

// MockOrderCommitter echoes the order it was given unless a failure is set.
type MockOrderCommitter struct {
	mock.Mock
}

func (m *MockOrderCommitter) Create(ctx context.Context, order domain.Order) (*domain.Order, error) {
	args := m.Called(ctx, order)
	if err := args.Error(0); err != nil {
		return nil, err
	}
	return &order, nil
}

type MockAssuranceAttacher struct {
	mock.Mock
}

func (m *MockAssuranceAttacher) Create(ctx context.Context, typeIndex int, orderID string) error {
	args := m.Called(ctx, typeIndex, orderID)
	return args.Error(0)
}

type MockFoodOrderAttacher struct {
	mock.Mock
}

func (m *MockFoodOrderAttacher) Create(ctx context.Context, order domain.FoodOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

type MockConsignAttacher struct {
	mock.Mock
}

func (m *MockConsignAttacher) Create(ctx context.Context, consign domain.Consign) error {
	args := m.Called(ctx, consign)
	return args.Error(0)
}

type MockUserDirectory struct {
	mock.Mock
}

func (m *MockUserDirectory) Get(ctx context.Context, accountID string) (*domain.User, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) PreserveSuccess(ctx context.Context, info domain.NotifyInfo) error {
	args := m.Called(ctx, info)
	return args.Error(0)
}

type MockStateTracker struct {
	mock.Mock
}

func (m *MockStateTracker) SetState(ctx context.Context, sagaID string, state domain.SagaState) error {
	args := m.Called(ctx, sagaID, state)
	return args.Error(0)
}

func (m *MockStateTracker) GetState(ctx context.Context, sagaID string) (domain.SagaState, error) {
	args := m.Called(ctx, sagaID)
	return args.Get(0).(domain.SagaState), args.Error(1)
}

type MockJournal struct {
	mock.Mock
}

func (m *MockJournal) Save(ctx context.Context, attempt *domain.Attempt) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}

func (m *MockJournal) GetBySagaID(ctx context.Context, sagaID string) (*domain.Attempt, error) {
	args := m.Called(ctx, sagaID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Attempt), args.Error(1)
}

type MockReleaseQueue struct {
	mock.Mock
}

func (m *MockReleaseQueue) Enqueue(ctx context.Context, release domain.SeatRelease) error {
	args := m.Called(ctx, release)
	return args.Error(0)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

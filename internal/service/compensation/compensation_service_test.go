package compensation

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Domenick1991/trainticket/internal/domain"
	"github.com/Domenick1991/trainticket/internal/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOutbox struct {
	mock.Mock
}

func (m *MockOutbox) Add(ctx context.Context, release domain.SeatRelease) (int64, error) {
	args := m.Called(ctx, release)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOutbox) Claim(ctx context.Context, id int64, lease time.Duration) (*domain.PendingRelease, error) {
	args := m.Called(ctx, id, lease)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PendingRelease), args.Error(1)
}

func (m *MockOutbox) ClaimPending(ctx context.Context, limit int, lease time.Duration) ([]domain.PendingRelease, error) {
	args := m.Called(ctx, limit, lease)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PendingRelease), args.Error(1)
}

func (m *MockOutbox) MarkReleased(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOutbox) RecordFailure(ctx context.Context, id int64, reason string, maxAttempts int) (domain.SeatReleaseStatus, error) {
	args := m.Called(ctx, id, reason, maxAttempts)
	return args.Get(0).(domain.SeatReleaseStatus), args.Error(1)
}

type MockSeatReleaser struct {
	mock.Mock
}

func (m *MockSeatReleaser) Release(ctx context.Context, r domain.SeatRelease) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

func release(sagaID string, seat int) domain.SeatRelease {
	return domain.SeatRelease{
		SagaID:       sagaID,
		TravelDate:   "2026-11-02",
		TrainNumber:  "G1234",
		StartStation: "shanghai",
		DestStation:  "suzhou",
		SeatType:     domain.SeatClassSecond,
		SeatNo:       seat,
	}
}

func TestService_Enqueue(t *testing.T) {
	outbox := &MockOutbox{}
	producer := &MockProducer{}
	r := release("saga-1", 7)

	outbox.On("Add", mock.Anything, r).Return(int64(11), nil)
	producer.On("Publish", mock.Anything, "seat_release_requests", "saga-1", mock.MatchedBy(func(e kafka.SeatReleaseEvent) bool {
		return e.Type == kafka.EventSeatReleaseRequested && e.OutboxID == 11 && e.Release == r
	})).Return(nil)

	svc := NewService(outbox, &MockSeatReleaser{}, producer, "seat_release_requests")
	svc.now = func() time.Time { return time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC) }

	require.NoError(t, svc.Enqueue(context.Background(), r))
	outbox.AssertExpectations(t)
	producer.AssertExpectations(t)
}

func TestService_Enqueue_PublishFailureIsTolerated(t *testing.T) {
	outbox := &MockOutbox{}
	producer := &MockProducer{}
	outbox.On("Add", mock.Anything, mock.Anything).Return(int64(1), nil)
	producer.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("broker down"))

	err := NewService(outbox, &MockSeatReleaser{}, producer, "seat_release_requests").Enqueue(context.Background(), release("saga-1", 7))

	assert.NoError(t, err)
}

func TestService_Enqueue_StoreFailure(t *testing.T) {
	outbox := &MockOutbox{}
	producer := &MockProducer{}
	outbox.On("Add", mock.Anything, mock.Anything).Return(int64(0), errors.New("db down"))

	err := NewService(outbox, &MockSeatReleaser{}, producer, "seat_release_requests").Enqueue(context.Background(), release("saga-1", 7))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to store seat release")
	producer.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_HandleEvent(t *testing.T) {
	t.Run("released", func(t *testing.T) {
		outbox := &MockOutbox{}
		seats := &MockSeatReleaser{}
		r := release("saga-1", 7)
		outbox.On("Claim", mock.Anything, int64(11), DefaultLease).Return(&domain.PendingRelease{ID: 11, Release: r, Status: domain.SeatReleaseReleasing}, nil)
		seats.On("Release", mock.Anything, r).Return(nil)
		outbox.On("MarkReleased", mock.Anything, int64(11)).Return(nil)

		err := NewService(outbox, seats, nil, "").HandleEvent(context.Background(), kafka.SeatReleaseEvent{
			Type:     kafka.EventSeatReleaseRequested,
			OutboxID: 11,
			Release:  r,
		})

		require.NoError(t, err)
		outbox.AssertExpectations(t)
		seats.AssertExpectations(t)
	})

	t.Run("release fails", func(t *testing.T) {
		outbox := &MockOutbox{}
		seats := &MockSeatReleaser{}
		r := release("saga-1", 7)
		outbox.On("Claim", mock.Anything, int64(11), DefaultLease).Return(&domain.PendingRelease{ID: 11, Release: r, Status: domain.SeatReleaseReleasing}, nil)
		seats.On("Release", mock.Anything, mock.Anything).Return(errors.New("seat service down"))
		outbox.On("RecordFailure", mock.Anything, int64(11), "seat service down", DefaultMaxAttempts).Return(domain.SeatReleasePending, nil)

		err := NewService(outbox, seats, nil, "").HandleEvent(context.Background(), kafka.SeatReleaseEvent{
			Type:     kafka.EventSeatReleaseRequested,
			OutboxID: 11,
			Release:  r,
		})

		assert.ErrorIs(t, err, errReleaseFailed)
		outbox.AssertNotCalled(t, "MarkReleased", mock.Anything, mock.Anything)
		outbox.AssertExpectations(t)
	})

	t.Run("second delivery finds the release claimed", func(t *testing.T) {
		outbox := &MockOutbox{}
		seats := &MockSeatReleaser{}
		r := release("saga-1", 7)
		outbox.On("Claim", mock.Anything, int64(11), DefaultLease).Return(&domain.PendingRelease{ID: 11, Release: r, Status: domain.SeatReleaseReleasing}, nil).Once()
		outbox.On("Claim", mock.Anything, int64(11), DefaultLease).Return(nil, domain.ErrReleaseNotClaimable).Once()
		seats.On("Release", mock.Anything, r).Return(nil).Once()
		outbox.On("MarkReleased", mock.Anything, int64(11)).Return(nil).Once()

		svc := NewService(outbox, seats, nil, "")
		event := kafka.SeatReleaseEvent{Type: kafka.EventSeatReleaseRequested, OutboxID: 11, Release: r}

		require.NoError(t, svc.HandleEvent(context.Background(), event))
		require.NoError(t, svc.HandleEvent(context.Background(), event))

		seats.AssertNumberOfCalls(t, "Release", 1)
		outbox.AssertExpectations(t)
	})

	t.Run("claim error", func(t *testing.T) {
		outbox := &MockOutbox{}
		seats := &MockSeatReleaser{}
		outbox.On("Claim", mock.Anything, int64(11), DefaultLease).Return(nil, errors.New("db down"))

		err := NewService(outbox, seats, nil, "").HandleEvent(context.Background(), kafka.SeatReleaseEvent{
			Type:     kafka.EventSeatReleaseRequested,
			OutboxID: 11,
		})

		assert.Error(t, err)
		assert.NotErrorIs(t, err, errReleaseFailed)
		seats.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
	})

	t.Run("other event types are ignored", func(t *testing.T) {
		seats := &MockSeatReleaser{}

		err := NewService(&MockOutbox{}, seats, nil, "").HandleEvent(context.Background(), kafka.SeatReleaseEvent{Type: "something_else"})

		assert.NoError(t, err)
		seats.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
	})
}

func TestService_Sweep(t *testing.T) {
	outbox := &MockOutbox{}
	seats := &MockSeatReleaser{}

	ok := release("saga-1", 7)
	stuck := release("saga-2", 8)
	outbox.On("ClaimPending", mock.Anything, 50, 30*time.Second).Return([]domain.PendingRelease{
		{ID: 1, Release: ok, Status: domain.SeatReleaseReleasing},
		{ID: 2, Release: stuck, Status: domain.SeatReleaseReleasing, Attempts: 3},
	}, nil)
	seats.On("Release", mock.Anything, ok).Return(nil)
	seats.On("Release", mock.Anything, stuck).Return(errors.New("still down"))
	outbox.On("MarkReleased", mock.Anything, int64(1)).Return(nil)
	outbox.On("RecordFailure", mock.Anything, int64(2), "still down", 4).Return(domain.SeatReleaseAbandoned, nil)

	svc := NewService(outbox, seats, nil, "", WithLease(30*time.Second), WithMaxAttempts(4))
	released, err := svc.Sweep(context.Background(), 50)

	require.NoError(t, err)
	assert.Equal(t, 1, released)
	outbox.AssertExpectations(t)
	seats.AssertExpectations(t)
}

func TestService_Sweep_ClaimFailure(t *testing.T) {
	outbox := &MockOutbox{}
	outbox.On("ClaimPending", mock.Anything, 10, DefaultLease).Return(nil, errors.New("db down"))

	released, err := NewService(outbox, &MockSeatReleaser{}, nil, "").Sweep(context.Background(), 10)

	assert.Error(t, err)
	assert.Zero(t, released)
}

func TestService_Sweep_StopsOnCancel(t *testing.T) {
	outbox := &MockOutbox{}
	seats := &MockSeatReleaser{}
	outbox.On("ClaimPending", mock.Anything, 10, DefaultLease).Return([]domain.PendingRelease{{ID: 1, Release: release("saga-1", 7)}}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	released, err := NewService(outbox, seats, nil, "").Sweep(ctx, 10)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, released)
	seats.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
}

func TestNewService_Options(t *testing.T) {
	svc := NewService(&MockOutbox{}, &MockSeatReleaser{}, nil, "", WithLease(0), WithMaxAttempts(0))
	assert.Equal(t, DefaultLease, svc.lease)
	assert.Zero(t, svc.maxAttempts)
}

// memoryOutbox claims rows atomically under a mutex, like the Postgres
// outbox does with a conditional UPDATE.
type memoryOutbox struct {
	mu   sync.Mutex
	next int64
	rows map[int64]*domain.PendingRelease
	now  func() time.Time
}

func newMemoryOutbox() *memoryOutbox {
	return &memoryOutbox{rows: make(map[int64]*domain.PendingRelease), now: time.Now}
}

func (o *memoryOutbox) Add(_ context.Context, r domain.SeatRelease) (int64, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.next++
	o.rows[o.next] = &domain.PendingRelease{ID: o.next, Release: r, Status: domain.SeatReleasePending, CreatedAt: o.now()}
	return o.next, nil
}

func (o *memoryOutbox) claim(p *domain.PendingRelease, lease time.Duration) domain.PendingRelease {
	until := o.now().Add(lease)
	p.Status = domain.SeatReleaseReleasing
	p.ClaimedUntil = &until
	return *p
}

func (o *memoryOutbox) Claim(_ context.Context, id int64, lease time.Duration) (*domain.PendingRelease, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	p, ok := o.rows[id]
	if !ok || !p.Claimable(o.now()) {
		return nil, domain.ErrReleaseNotClaimable
	}
	claimed := o.claim(p, lease)
	return &claimed, nil
}

func (o *memoryOutbox) ClaimPending(_ context.Context, limit int, lease time.Duration) ([]domain.PendingRelease, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	claimed := make([]domain.PendingRelease, 0)
	for id := int64(1); id <= o.next && len(claimed) < limit; id++ {
		if p, ok := o.rows[id]; ok && p.Claimable(o.now()) {
			claimed = append(claimed, o.claim(p, lease))
		}
	}
	return claimed, nil
}

func (o *memoryOutbox) MarkReleased(_ context.Context, id int64) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	p, ok := o.rows[id]
	if !ok || p.Status != domain.SeatReleaseReleasing {
		return errors.New("not claimed")
	}
	p.Status = domain.SeatReleaseReleased
	p.ClaimedUntil = nil
	return nil
}

func (o *memoryOutbox) RecordFailure(_ context.Context, id int64, reason string, maxAttempts int) (domain.SeatReleaseStatus, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	p, ok := o.rows[id]
	if !ok || p.Status != domain.SeatReleaseReleasing {
		return "", errors.New("not claimed")
	}
	p.Attempts++
	p.LastError = reason
	p.ClaimedUntil = nil
	p.Status = domain.SeatReleasePending
	if maxAttempts > 0 && p.Attempts >= maxAttempts {
		p.Status = domain.SeatReleaseAbandoned
	}
	return p.Status, nil
}

func (o *memoryOutbox) status(id int64) domain.SeatReleaseStatus {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.rows[id].Status
}

// blockingReleaser holds every Release call until proceed is closed.
type blockingReleaser struct {
	calls   atomic.Int32
	started chan struct{}
	proceed chan struct{}
}

func (b *blockingReleaser) Release(ctx context.Context, _ domain.SeatRelease) error {
	b.calls.Add(1)
	b.started <- struct{}{}
	select {
	case <-b.proceed:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func TestService_ConsumerAndSweepReleaseOnce(t *testing.T) {
	outbox := newMemoryOutbox()
	seats := &blockingReleaser{started: make(chan struct{}, 2), proceed: make(chan struct{})}
	svc := NewService(outbox, seats, nil, "")

	r := release("saga-1", 7)
	id, err := outbox.Add(context.Background(), r)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		done <- svc.HandleEvent(context.Background(), kafka.SeatReleaseEvent{Type: kafka.EventSeatReleaseRequested, OutboxID: id, Release: r})
	}()
	<-seats.started

	// the consumer is mid-release; the sweep must not pick the row up
	released, err := svc.Sweep(context.Background(), 10)
	require.NoError(t, err)
	assert.Zero(t, released)

	close(seats.proceed)
	require.NoError(t, <-done)

	assert.Equal(t, int32(1), seats.calls.Load())
	assert.Equal(t, domain.SeatReleaseReleased, outbox.status(id))

	// a late redelivery of the same event is a no-op
	require.NoError(t, svc.HandleEvent(context.Background(), kafka.SeatReleaseEvent{Type: kafka.EventSeatReleaseRequested, OutboxID: id, Release: r}))
	assert.Equal(t, int32(1), seats.calls.Load())
}

func TestService_Sweep_ReclaimsExpiredLease(t *testing.T) {
	outbox := newMemoryOutbox()
	seats := &MockSeatReleaser{}
	r := release("saga-1", 7)
	id, err := outbox.Add(context.Background(), r)
	require.NoError(t, err)

	// a processor claimed the row and died
	_, err = outbox.Claim(context.Background(), id, time.Minute)
	require.NoError(t, err)
	seats.On("Release", mock.Anything, r).Return(nil).Once()

	svc := NewService(outbox, seats, nil, "")
	released, err := svc.Sweep(context.Background(), 10)
	require.NoError(t, err)
	assert.Zero(t, released)

	outbox.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	released, err = svc.Sweep(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 1, released)
	assert.Equal(t, domain.SeatReleaseReleased, outbox.status(id))
	seats.AssertExpectations(t)
}

func TestService_Sweep_AbandonsAfterMaxAttempts(t *testing.T) {
	outbox := newMemoryOutbox()
	seats := &MockSeatReleaser{}
	r := release("saga-1", 7)
	id, err := outbox.Add(context.Background(), r)
	require.NoError(t, err)
	seats.On("Release", mock.Anything, r).Return(errors.New("seat service down"))

	svc := NewService(outbox, seats, nil, "", WithMaxAttempts(2))
	for i := 0; i < 3; i++ {
		released, err := svc.Sweep(context.Background(), 10)
		require.NoError(t, err)
		assert.Zero(t, released)
	}

	assert.Equal(t, domain.SeatReleaseAbandoned, outbox.status(id))
	seats.AssertNumberOfCalls(t, "Release", 2)
}

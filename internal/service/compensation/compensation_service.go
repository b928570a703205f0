// Package compensation hands back seats whose order never got committed.
package compensation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Domenick1991/trainticket/internal/domain"
	"github.com/Domenick1991/trainticket/internal/kafka"
)

// Outbox stores seat releases until the seat service has taken them. A
// release is claimed before it is sent, so only one processor works on it.
type Outbox interface {
	Add(ctx context.Context, release domain.SeatRelease) (int64, error)
	Claim(ctx context.Context, id int64, lease time.Duration) (*domain.PendingRelease, error)
	ClaimPending(ctx context.Context, limit int, lease time.Duration) ([]domain.PendingRelease, error)
	MarkReleased(ctx context.Context, id int64) error
	RecordFailure(ctx context.Context, id int64, reason string, maxAttempts int) (domain.SeatReleaseStatus, error)
}

type SeatReleaser interface {
	Release(ctx context.Context, r domain.SeatRelease) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

const (
	DefaultLease       = time.Minute
	DefaultMaxAttempts = 10
)

type Service struct {
	outbox      Outbox
	seats       SeatReleaser
	producer    Producer
	topic       string
	lease       time.Duration
	maxAttempts int
	now         func() time.Time
}

type ServiceOption func(*Service)

// WithLease sets how long a claimed release is reserved for its processor.
// It has to outlast one seat service call.
func WithLease(d time.Duration) ServiceOption {
	return func(s *Service) {
		if d > 0 {
			s.lease = d
		}
	}
}

// WithMaxAttempts sets how many failed releases abandon a row. Zero or less
// retries forever.
func WithMaxAttempts(n int) ServiceOption {
	return func(s *Service) {
		s.maxAttempts = n
	}
}

func NewService(outbox Outbox, seats SeatReleaser, producer Producer, topic string, opts ...ServiceOption) *Service {
	s := &Service{
		outbox:      outbox,
		seats:       seats,
		producer:    producer,
		topic:       topic,
		lease:       DefaultLease,
		maxAttempts: DefaultMaxAttempts,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Enqueue records a release in the outbox and asks the worker to process it.
// The outbox row is the source of truth; a lost event is picked up by Sweep.
func (s *Service) Enqueue(ctx context.Context, release domain.SeatRelease) error {
	id, err := s.outbox.Add(ctx, release)
	if err != nil {
		return fmt.Errorf("failed to store seat release: %w", err)
	}

	if s.producer == nil || s.topic == "" {
		return nil
	}
	event := kafka.SeatReleaseEvent{
		Type:        kafka.EventSeatReleaseRequested,
		OutboxID:    id,
		Release:     release,
		RequestedAt: s.now(),
	}
	if err := s.producer.Publish(ctx, s.topic, release.SagaID, event); err != nil {
		log.Printf("failed to publish seat release: outbox=%d saga=%s err=%v", id, release.SagaID, err)
	}
	return nil
}

// HandleEvent processes one release request from the queue. A release that
// is already claimed or finished is skipped. A failed release is recorded
// against the outbox row and left for the sweep.
func (s *Service) HandleEvent(ctx context.Context, event kafka.SeatReleaseEvent) error {
	if event.Type != kafka.EventSeatReleaseRequested {
		return nil
	}
	claimed, err := s.outbox.Claim(ctx, event.OutboxID, s.lease)
	if errors.Is(err, domain.ErrReleaseNotClaimable) {
		log.Printf("seat release skipped, not claimable: outbox=%d saga=%s", event.OutboxID, event.Release.SagaID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to claim release %d: %w", event.OutboxID, err)
	}
	return s.release(ctx, *claimed)
}

// Sweep claims up to limit pending releases, retries them and returns how
// many went through. Releases claimed but not reached before ctx ends stay
// claimed until their lease runs out.
func (s *Service) Sweep(ctx context.Context, limit int) (int, error) {
	pending, err := s.outbox.ClaimPending(ctx, limit, s.lease)
	if err != nil {
		return 0, fmt.Errorf("failed to claim pending releases: %w", err)
	}

	released := 0
	for _, p := range pending {
		if err := ctx.Err(); err != nil {
			return released, err
		}
		if err := s.release(ctx, p); err != nil {
			continue
		}
		released++
	}
	return released, nil
}

var errReleaseFailed = errors.New("seat release failed")

func (s *Service) release(ctx context.Context, p domain.PendingRelease) error {
	if err := s.seats.Release(ctx, p.Release); err != nil {
		log.Printf("seat release failed: outbox=%d saga=%s seat=%d err=%v", p.ID, p.Release.SagaID, p.Release.SeatNo, err)
		status, rerr := s.outbox.RecordFailure(ctx, p.ID, err.Error(), s.maxAttempts)
		switch {
		case rerr != nil:
			log.Printf("failed to record release failure: outbox=%d err=%v", p.ID, rerr)
		case status == domain.SeatReleaseAbandoned:
			log.Printf("seat release abandoned: outbox=%d saga=%s seat=%d attempts=%d", p.ID, p.Release.SagaID, p.Release.SeatNo, p.Attempts+1)
		}
		return fmt.Errorf("%w: %w", errReleaseFailed, err)
	}

	if err := s.outbox.MarkReleased(ctx, p.ID); err != nil {
		return fmt.Errorf("failed to mark release %d: %w", p.ID, err)
	}
	log.Printf("seat released: outbox=%d saga=%s seat=%d", p.ID, p.Release.SagaID, p.Release.SeatNo)
	return nil
}

package reservation

import (
	"context"
	"log"

	"github.com/Domenick1991/trainticket/internal/domain"
)

// compensate hands back a seat whose order could not be committed. The
// release runs detached from the caller so a cancelled request still frees
// the seat. When the seat service cannot take it now, the release is queued
// for the worker.
func (s *Service) compensate(ctx context.Context, release domain.SeatRelease) domain.CompensationStatus {
	ctx = context.WithoutCancel(ctx)

	rctx, cancel := context.WithTimeout(ctx, s.compensationTimeout)
	err := s.step(rctx, "seat.release", func(ctx context.Context) error {
		return s.deps.Seats.Release(ctx, release)
	})
	cancel()
	if err == nil {
		log.Printf("seat released: saga=%s train=%s seat=%d", release.SagaID, release.TrainNumber, release.SeatNo)
		return domain.CompensationReleased
	}
	log.Printf("failed to release seat: saga=%s seat=%d err=%v", release.SagaID, release.SeatNo, err)

	if s.releases == nil {
		return domain.CompensationFailed
	}

	qctx, cancel := context.WithTimeout(ctx, s.persistTimeout)
	defer cancel()
	if err := s.releases.Enqueue(qctx, release); err != nil {
		log.Printf("failed to queue seat release: saga=%s seat=%d err=%v", release.SagaID, release.SeatNo, err)
		return domain.CompensationFailed
	}
	return domain.CompensationPending
}

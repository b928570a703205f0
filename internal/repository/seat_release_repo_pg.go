package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/Domenick1991/trainticket/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrReleaseNotFound = errors.New("seat release not found")

// SeatReleaseRepository is the outbox of seats still owed to the seat
// service. Rows are claimed before they are worked on so that the queue
// consumer and the sweep never release the same seat twice.
type SeatReleaseRepository interface {
	Add(ctx context.Context, release domain.SeatRelease) (int64, error)
	Claim(ctx context.Context, id int64, lease time.Duration) (*domain.PendingRelease, error)
	ClaimPending(ctx context.Context, limit int, lease time.Duration) ([]domain.PendingRelease, error)
	MarkReleased(ctx context.Context, id int64) error
	RecordFailure(ctx context.Context, id int64, reason string, maxAttempts int) (domain.SeatReleaseStatus, error)
}

type PGSeatReleaseRepository struct {
	db *pgxpool.Pool
}

func NewSeatReleaseRepository(db *pgxpool.Pool) SeatReleaseRepository {
	return &PGSeatReleaseRepository{db: db}
}

const releaseColumns = `id, saga_id, travel_date, train_number, start_station, dest_station, seat_type, seat_no,
	status, attempts, last_error, claimed_until, created_at, updated_at`

// claimableWhere matches rows that are pending or whose claim has lapsed.
// $1 is RELEASING, $3 is PENDING.
const claimableWhere = `(status=$3 OR (status=$1 AND claimed_until < now()))`

func scanRelease(row pgx.Row) (domain.PendingRelease, error) {
	var (
		p        domain.PendingRelease
		seatType int
		status   string
	)
	err := row.Scan(&p.ID, &p.Release.SagaID, &p.Release.TravelDate, &p.Release.TrainNumber, &p.Release.StartStation,
		&p.Release.DestStation, &seatType, &p.Release.SeatNo, &status, &p.Attempts, &p.LastError, &p.ClaimedUntil,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return p, err
	}
	p.Release.SeatType = domain.SeatClass(seatType)
	p.Status = domain.SeatReleaseStatus(status)
	return p, nil
}

func (r *PGSeatReleaseRepository) Add(ctx context.Context, rel domain.SeatRelease) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `INSERT INTO seat_release_outbox
		(saga_id, travel_date, train_number, start_station, dest_station, seat_type, seat_no, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		rel.SagaID, rel.TravelDate, rel.TrainNumber, rel.StartStation, rel.DestStation, int(rel.SeatType), rel.SeatNo, string(domain.SeatReleasePending)).
		Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert seat release: %w", err)
	}
	return id, nil
}

// Claim moves one release to RELEASING for lease. It fails with
// domain.ErrReleaseNotClaimable when the row is held by someone else,
// finished, or missing.
func (r *PGSeatReleaseRepository) Claim(ctx context.Context, id int64, lease time.Duration) (*domain.PendingRelease, error) {
	row := r.db.QueryRow(ctx, `UPDATE seat_release_outbox
		SET status=$1, claimed_until=now() + $2::bigint * interval '1 millisecond', updated_at=now()
		WHERE id=$4 AND `+claimableWhere+`
		RETURNING `+releaseColumns,
		string(domain.SeatReleaseReleasing), lease.Milliseconds(), string(domain.SeatReleasePending), id)
	p, err := scanRelease(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrReleaseNotClaimable
	}
	if err != nil {
		return nil, fmt.Errorf("claim seat release %d: %w", id, err)
	}
	return &p, nil
}

// ClaimPending claims up to limit releases, oldest first. Rows locked by a
// concurrent claimer are skipped.
func (r *PGSeatReleaseRepository) ClaimPending(ctx context.Context, limit int, lease time.Duration) ([]domain.PendingRelease, error) {
	rows, err := r.db.Query(ctx, `UPDATE seat_release_outbox
		SET status=$1, claimed_until=now() + $2::bigint * interval '1 millisecond', updated_at=now()
		WHERE id IN (
			SELECT id FROM seat_release_outbox
			WHERE `+claimableWhere+`
			ORDER BY created_at
			LIMIT $4
			FOR UPDATE SKIP LOCKED)
		RETURNING `+releaseColumns,
		string(domain.SeatReleaseReleasing), lease.Milliseconds(), string(domain.SeatReleasePending), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	claimed := make([]domain.PendingRelease, 0)
	for rows.Next() {
		p, err := scanRelease(rows)
		if err != nil {
			return nil, err
		}
		claimed = append(claimed, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// RETURNING does not keep the subquery order.
	slices.SortFunc(claimed, func(a, b domain.PendingRelease) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return claimed, nil
}

func (r *PGSeatReleaseRepository) MarkReleased(ctx context.Context, id int64) error {
	res, err := r.db.Exec(ctx, `UPDATE seat_release_outbox SET status=$1, claimed_until=NULL, updated_at=now()
		WHERE id=$2 AND status=$3`,
		string(domain.SeatReleaseReleased), id, string(domain.SeatReleaseReleasing))
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrReleaseNotFound
	}
	return nil
}

// RecordFailure drops the claim and counts the attempt. The row goes back to
// PENDING, or to ABANDONED once maxAttempts is reached. It returns the new
// status.
func (r *PGSeatReleaseRepository) RecordFailure(ctx context.Context, id int64, reason string, maxAttempts int) (domain.SeatReleaseStatus, error) {
	var status string
	err := r.db.QueryRow(ctx, `UPDATE seat_release_outbox
		SET attempts = attempts + 1,
			last_error = $1,
			claimed_until = NULL,
			updated_at = now(),
			status = CASE WHEN $2::int > 0 AND attempts + 1 >= $2::int THEN $3::text ELSE $4::text END
		WHERE id=$5 AND status=$6
		RETURNING status`,
		reason, maxAttempts, string(domain.SeatReleaseAbandoned), string(domain.SeatReleasePending), id, string(domain.SeatReleaseReleasing)).
		Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrReleaseNotFound
	}
	if err != nil {
		return "", err
	}
	return domain.SeatReleaseStatus(status), nil
}

var _ SeatReleaseRepository = (*PGSeatReleaseRepository)(nil)

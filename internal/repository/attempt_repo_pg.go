package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/trainticket/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AttemptRepository interface {
	Save(ctx context.Context, attempt *domain.Attempt) error
	GetBySagaID(ctx context.Context, sagaID string) (*domain.Attempt, error)
}

type PGAttemptRepository struct {
	db *pgxpool.Pool
}

func NewAttemptRepository(db *pgxpool.Pool) AttemptRepository {
	return &PGAttemptRepository{db: db}
}

// Save writes the attempt, replacing an earlier record of the same saga.
func (r *PGAttemptRepository) Save(ctx context.Context, a *domain.Attempt) error {
	_, err := r.db.Exec(ctx, `INSERT INTO reservation_attempts
		(saga_id, account_id, trip_id, order_id, state, status, message, compensation, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (saga_id) DO UPDATE SET
			order_id = EXCLUDED.order_id,
			state = EXCLUDED.state,
			status = EXCLUDED.status,
			message = EXCLUDED.message,
			compensation = EXCLUDED.compensation,
			updated_at = EXCLUDED.updated_at`,
		a.SagaID, a.AccountID, a.TripID, a.OrderID, string(a.State), a.Status, a.Message, string(a.Compensation), a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save attempt %s: %w", a.SagaID, err)
	}
	return nil
}

func (r *PGAttemptRepository) GetBySagaID(ctx context.Context, sagaID string) (*domain.Attempt, error) {
	row := r.db.QueryRow(ctx, `SELECT saga_id, account_id, trip_id, order_id, state, status, message, compensation, created_at, updated_at
		FROM reservation_attempts WHERE saga_id=$1`, sagaID)

	var (
		a            domain.Attempt
		state        string
		compensation string
	)
	if err := row.Scan(&a.SagaID, &a.AccountID, &a.TripID, &a.OrderID, &state, &a.Status, &a.Message, &compensation, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAttemptNotFound
		}
		return nil, err
	}
	a.State = domain.SagaState(state)
	a.Compensation = domain.CompensationStatus(compensation)
	return &a, nil
}

var _ AttemptRepository = (*PGAttemptRepository)(nil)

package repository

import (
	"context"
	"errors"
	"fmt"

	"eventhub/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EnrollmentRepository handles persistence for event enrollments.
type EnrollmentRepository struct {
	db *pgxpool.Pool
}

// NewEnrollmentRepository constructs an EnrollmentRepository.
func NewEnrollmentRepository(db *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// Count returns the live number of enrollments for an event.
func (r *EnrollmentRepository) Count(ctx context.Context, eventID int64) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM event_enrollments WHERE id_event = $1`,
		eventID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count enrollments: %w", err)
	}
	return n, nil
}

// IsEnrolled reports whether the user currently holds an enrollment for
// the event.
func (r *EnrollmentRepository) IsEnrolled(ctx context.Context, userID, eventID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM event_enrollments WHERE id_user = $1 AND id_event = $2
		)`,
		userID, eventID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return exists, nil
}

// Insert creates an enrollment inside a transaction that serialises
// concurrent attempts for the same event.
//
// Two concurrent inserts could both pass the service-layer capacity read
// before either writes, so the count-check-and-insert happens here behind
// a row-level lock on the event: SELECT … FOR UPDATE blocks any other
// transaction locking the same event row until this one commits or rolls
// back. The UNIQUE (id_user, id_event) constraint backstops the duplicate
// check the same way.
//
// Returns ErrNotFound when the event is missing, ErrCapacityFull when the
// event has no remaining seats, and ErrAlreadyEnrolled when the pair
// already holds an enrollment.
func (r *EnrollmentRepository) Insert(ctx context.Context, userID, eventID int64) (*model.Enrollment, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	// Ensure the transaction is always resolved.
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var maxAssistance int
	err = tx.QueryRow(ctx,
		`SELECT max_assistance FROM events WHERE id = $1 FOR UPDATE`,
		eventID,
	).Scan(&maxAssistance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lock event row: %w", err)
	}

	var count int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM event_enrollments WHERE id_event = $1`,
		eventID,
	).Scan(&count)
	if err != nil {
		return nil, fmt.Errorf("count enrollments: %w", err)
	}
	if count >= maxAssistance {
		err = ErrCapacityFull
		return nil, err
	}

	enr := &model.Enrollment{UserID: userID, EventID: eventID}
	err = tx.QueryRow(ctx,
		`INSERT INTO event_enrollments (id_user, id_event, registration_date_time)
		 VALUES ($1, $2, NOW())
		 RETURNING id, registration_date_time`,
		userID, eventID,
	).Scan(&enr.ID, &enr.RegistrationDateTime)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrAlreadyEnrolled
		}
		return nil, fmt.Errorf("insert enrollment: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return enr, nil
}

// Delete removes the enrollment for a (user, event) pair, or returns
// ErrNotFound when none exists.
func (r *EnrollmentRepository) Delete(ctx context.Context, userID, eventID int64) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM event_enrollments WHERE id_user = $1 AND id_event = $2`,
		userID, eventID,
	)
	if err != nil {
		return fmt.Errorf("delete enrollment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

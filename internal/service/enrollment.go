package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventhub/internal/model"
	"eventhub/internal/repository"
)

// EnrollmentService decides enroll/unenroll transitions for a
// (event, user) pair. Every check re-reads current truth from the store
// at call time; nothing is cached in process. The store's Insert is the
// single conditional write that keeps concurrent racers from overbooking
// (see EnrollmentRepository.Insert).
type EnrollmentService struct {
	events      EventStore
	enrollments EnrollmentStore
	now         func() time.Time
}

// NewEnrollmentService constructs an EnrollmentService.
func NewEnrollmentService(events EventStore, enrollments EnrollmentStore) *EnrollmentService {
	return &EnrollmentService{events: events, enrollments: enrollments, now: time.Now}
}

// loadUpcoming loads the event and rejects any action once it has
// started. The boundary is the instant itself: now must be strictly
// before start_date, not merely on an earlier date.
func (s *EnrollmentService) loadUpcoming(ctx context.Context, eventID int64) (*model.Event, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &Error{Kind: KindNotFound, Message: "event not found"}
		}
		return nil, fmt.Errorf("load event: %w", err)
	}
	if !s.now().Before(event.StartDate) {
		return nil, &Error{Kind: KindAlreadyStarted, Message: "event has already started"}
	}
	return event, nil
}

// Enroll registers the user for the event. Preconditions run in order
// and the first failure wins: the event must exist, must not have
// started, must be open for enrollment, the user must not already hold
// an enrollment, and the live count must be below max_assistance.
func (s *EnrollmentService) Enroll(ctx context.Context, eventID, userID int64) (*model.Enrollment, error) {
	event, err := s.loadUpcoming(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.EnabledForEnrollment {
		return nil, &Error{Kind: KindEnrollmentClosed, Message: "event is not open for enrollment"}
	}

	enrolled, err := s.enrollments.IsEnrolled(ctx, userID, eventID)
	if err != nil {
		return nil, fmt.Errorf("check enrollment: %w", err)
	}
	if enrolled {
		return nil, &Error{Kind: KindAlreadyEnrolled, Message: "already enrolled in this event"}
	}

	count, err := s.enrollments.Count(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("count enrollments: %w", err)
	}
	if count >= event.MaxAssistance {
		return nil, &Error{Kind: KindCapacityFull, Message: "event has reached maximum enrollment"}
	}

	enr, err := s.enrollments.Insert(ctx, userID, eventID)
	if err != nil {
		// The conditional write can lose a race the reads above won.
		switch {
		case errors.Is(err, repository.ErrCapacityFull):
			return nil, &Error{Kind: KindCapacityFull, Message: "event has reached maximum enrollment"}
		case errors.Is(err, repository.ErrAlreadyEnrolled):
			return nil, &Error{Kind: KindAlreadyEnrolled, Message: "already enrolled in this event"}
		case errors.Is(err, repository.ErrNotFound):
			return nil, &Error{Kind: KindNotFound, Message: "event not found"}
		}
		return nil, fmt.Errorf("enroll: %w", err)
	}
	return enr, nil
}

// Unenroll withdraws the user's enrollment. Withdrawal after start is
// disallowed identically to enrollment.
func (s *EnrollmentService) Unenroll(ctx context.Context, eventID, userID int64) error {
	if _, err := s.loadUpcoming(ctx, eventID); err != nil {
		return err
	}

	enrolled, err := s.enrollments.IsEnrolled(ctx, userID, eventID)
	if err != nil {
		return fmt.Errorf("check enrollment: %w", err)
	}
	if !enrolled {
		return &Error{Kind: KindNotEnrolled, Message: "not enrolled in this event"}
	}

	if err := s.enrollments.Delete(ctx, userID, eventID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &Error{Kind: KindNotEnrolled, Message: "not enrolled in this event"}
		}
		return fmt.Errorf("unenroll: %w", err)
	}
	return nil
}

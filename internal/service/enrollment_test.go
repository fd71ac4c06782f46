package service

import (
	"context"
	"testing"
	"time"

	"eventhub/internal/mocks"
	"eventhub/internal/model"
)

var (
	evalTime  = time.Date(2024, 12, 1, 12, 0, 0, 0, time.UTC)
	futureDay = time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
)

func newEnrollmentFixture(e model.Event) (*EnrollmentService, *mocks.EventStore, *mocks.EnrollmentStore, model.Event) {
	events := mocks.NewEventStore()
	enrollments := mocks.NewEnrollmentStore()
	seeded := events.Seed(e)
	svc := NewEnrollmentService(events, enrollments)
	svc.now = func() time.Time { return evalTime }
	return svc, events, enrollments, seeded
}

func openEvent() model.Event {
	return model.Event{
		Name:                 "Event A",
		StartDate:            futureDay,
		EnabledForEnrollment: true,
		MaxAssistance:        2,
	}
}

func TestEnroll_EventNotFound(t *testing.T) {
	svc, _, _, _ := newEnrollmentFixture(openEvent())

	_, err := svc.Enroll(context.Background(), 999, 1)
	if kindOf(t, err) != KindNotFound {
		t.Fatalf("kind = %v, want KindNotFound", kindOf(t, err))
	}
}

func TestEnroll_AlreadyStarted(t *testing.T) {
	e := openEvent()
	e.StartDate = evalTime.Add(-time.Hour)
	svc, _, _, seeded := newEnrollmentFixture(e)

	_, err := svc.Enroll(context.Background(), seeded.ID, 1)
	if kindOf(t, err) != KindAlreadyStarted {
		t.Fatalf("kind = %v, want KindAlreadyStarted", kindOf(t, err))
	}
}

// The boundary is the instant itself: an event starting exactly now is
// no longer open, even though the date matches.
func TestEnroll_StartBoundaryIsStrict(t *testing.T) {
	e := openEvent()
	e.StartDate = evalTime
	svc, _, _, seeded := newEnrollmentFixture(e)

	_, err := svc.Enroll(context.Background(), seeded.ID, 1)
	if kindOf(t, err) != KindAlreadyStarted {
		t.Fatalf("kind = %v, want KindAlreadyStarted", kindOf(t, err))
	}
}

// A closed event rejects enrollment regardless of remaining capacity.
func TestEnroll_EnrollmentClosed(t *testing.T) {
	e := openEvent()
	e.EnabledForEnrollment = false
	e.MaxAssistance = 100
	svc, _, _, seeded := newEnrollmentFixture(e)

	_, err := svc.Enroll(context.Background(), seeded.ID, 1)
	if kindOf(t, err) != KindEnrollmentClosed {
		t.Fatalf("kind = %v, want KindEnrollmentClosed", kindOf(t, err))
	}
}

func TestEnroll_DuplicateYieldsAlreadyEnrolled(t *testing.T) {
	svc, _, enrollments, seeded := newEnrollmentFixture(openEvent())

	if _, err := svc.Enroll(context.Background(), seeded.ID, 1); err != nil {
		t.Fatalf("first enroll: %v", err)
	}
	_, err := svc.Enroll(context.Background(), seeded.ID, 1)
	if kindOf(t, err) != KindAlreadyEnrolled {
		t.Fatalf("kind = %v, want KindAlreadyEnrolled", kindOf(t, err))
	}
	if len(enrollments.Pairs) != 1 {
		t.Fatalf("enrollment rows = %d, want exactly 1", len(enrollments.Pairs))
	}
}

func TestEnroll_CapacitySequence(t *testing.T) {
	svc, _, enrollments, seeded := newEnrollmentFixture(openEvent())
	ctx := context.Background()

	if _, err := svc.Enroll(ctx, seeded.ID, 1); err != nil {
		t.Fatalf("user 1: %v", err)
	}
	if _, err := svc.Enroll(ctx, seeded.ID, 2); err != nil {
		t.Fatalf("user 2: %v", err)
	}

	_, err := svc.Enroll(ctx, seeded.ID, 3)
	if kindOf(t, err) != KindCapacityFull {
		t.Fatalf("kind = %v, want KindCapacityFull", kindOf(t, err))
	}

	n, _ := enrollments.Count(ctx, seeded.ID)
	if n != 2 {
		t.Fatalf("count = %d, never above max_assistance 2", n)
	}
}

func TestEnroll_StampsRegistrationTime(t *testing.T) {
	svc, _, _, seeded := newEnrollmentFixture(openEvent())

	enr, err := svc.Enroll(context.Background(), seeded.ID, 1)
	if err != nil {
		t.Fatalf("enroll: %v", err)
	}
	if enr.UserID != 1 || enr.EventID != seeded.ID {
		t.Fatalf("enrollment pair = %+v", enr)
	}
	if enr.RegistrationDateTime.IsZero() {
		t.Fatal("registration timestamp not set")
	}
}

func TestUnenroll_EventNotFound(t *testing.T) {
	svc, _, _, _ := newEnrollmentFixture(openEvent())

	err := svc.Unenroll(context.Background(), 999, 1)
	if kindOf(t, err) != KindNotFound {
		t.Fatalf("kind = %v, want KindNotFound", kindOf(t, err))
	}
}

// Withdrawal after start is disallowed identically to enrollment.
func TestUnenroll_AlreadyStarted(t *testing.T) {
	svc, events, enrollments, seeded := newEnrollmentFixture(openEvent())
	ctx := context.Background()

	if _, err := svc.Enroll(ctx, seeded.ID, 1); err != nil {
		t.Fatalf("enroll: %v", err)
	}

	started := seeded
	started.StartDate = evalTime.Add(-time.Minute)
	events.Seed(started)

	err := svc.Unenroll(ctx, seeded.ID, 1)
	if kindOf(t, err) != KindAlreadyStarted {
		t.Fatalf("kind = %v, want KindAlreadyStarted", kindOf(t, err))
	}
	if enrolled, _ := enrollments.IsEnrolled(ctx, 1, seeded.ID); !enrolled {
		t.Fatal("enrollment removed despite rejection")
	}
}

func TestUnenroll_WithoutEnrollment(t *testing.T) {
	svc, _, _, seeded := newEnrollmentFixture(openEvent())

	err := svc.Unenroll(context.Background(), seeded.ID, 1)
	if kindOf(t, err) != KindNotEnrolled {
		t.Fatalf("kind = %v, want KindNotEnrolled", kindOf(t, err))
	}
}

func TestEnrollUnenrollRoundTrip(t *testing.T) {
	svc, _, enrollments, seeded := newEnrollmentFixture(openEvent())
	ctx := context.Background()

	if _, err := svc.Enroll(ctx, seeded.ID, 1); err != nil {
		t.Fatalf("enroll: %v", err)
	}
	if err := svc.Unenroll(ctx, seeded.ID, 1); err != nil {
		t.Fatalf("unenroll: %v", err)
	}
	if enrolled, _ := enrollments.IsEnrolled(ctx, 1, seeded.ID); enrolled {
		t.Fatal("still enrolled after withdrawal")
	}

	// The pair is back to NotEnrolled; enrolling again succeeds.
	if _, err := svc.Enroll(ctx, seeded.ID, 1); err != nil {
		t.Fatalf("re-enroll: %v", err)
	}
}

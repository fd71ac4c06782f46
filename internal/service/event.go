// Package service implements business logic, validation, and orchestration
// between HTTP handlers and the repository layer.
package service

import (
	"context"
	"errors"
	"fmt"

	"eventhub/internal/model"
	"eventhub/internal/repository"
)

// EventStore is the persistence collaborator for events. Each call is an
// individually-awaited atomic operation; the service holds no state of
// its own between calls.
type EventStore interface {
	GetByID(ctx context.Context, id int64) (*model.Event, error)
	GetByFilters(ctx context.Context, name string) ([]model.Event, error)
	Insert(ctx context.Context, e *model.Event) (*model.Event, error)
	Update(ctx context.Context, e *model.Event) (*model.Event, error)
	Delete(ctx context.Context, id int64) (*model.Event, error)
}

// LocationStore exposes read access to event locations.
type LocationStore interface {
	MaxCapacity(ctx context.Context, id int64) (int, error)
	GetByID(ctx context.Context, id int64) (*model.Location, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Location, error)
}

// EnrollmentStore is the persistence collaborator for enrollments.
type EnrollmentStore interface {
	Count(ctx context.Context, eventID int64) (int, error)
	IsEnrolled(ctx context.Context, userID, eventID int64) (bool, error)
	Insert(ctx context.Context, userID, eventID int64) (*model.Enrollment, error)
	Delete(ctx context.Context, userID, eventID int64) error
}

// UserStore is the persistence collaborator for user accounts.
type UserStore interface {
	Insert(ctx context.Context, u *model.User) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// EventService orchestrates the event lifecycle: field validation, the
// capacity guard, the ownership guard, and the final persistence write,
// in that order, short-circuiting on the first failure. Each pipeline
// performs exactly one write, at the end.
type EventService struct {
	events    EventStore
	locations LocationStore
}

// NewEventService constructs an EventService with its dependencies.
func NewEventService(events EventStore, locations LocationStore) *EventService {
	return &EventService{events: events, locations: locations}
}

// verifyCapacity resolves the location's fixed capacity and rejects a
// max_assistance above it. It runs on every create and update, even when
// the location reference did not change: capacity is mutable external
// state and must never be assumed fresh.
func (s *EventService) verifyCapacity(ctx context.Context, locationID int64, maxAssistance int) (int, error) {
	capacity, err := s.locations.MaxCapacity(ctx, locationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, &Error{Kind: KindUnknownLocation, Message: "id_event_location does not exist"}
		}
		return 0, fmt.Errorf("verify capacity: %w", err)
	}
	if maxAssistance > capacity {
		return 0, &Error{
			Kind:    KindCapacityExceeded,
			Message: fmt.Sprintf("max_assistance %d exceeds location capacity %d", maxAssistance, capacity),
		}
	}
	return capacity, nil
}

// loadOwned loads the canonical record and verifies the acting user is
// its creator. A record owned by someone else reports KindNotFound, same
// as an absent one. Returns the loaded record so callers skip a second
// read.
func (s *EventService) loadOwned(ctx context.Context, eventID, userID int64) (*model.Event, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &Error{Kind: KindNotFound, Message: "event not found"}
		}
		return nil, fmt.Errorf("load event: %w", err)
	}
	if event.CreatorUserID != userID {
		return nil, &Error{Kind: KindNotFound, Message: "event not found"}
	}
	return event, nil
}

func draftToEvent(d *model.EventDraft) *model.Event {
	return &model.Event{
		ID:                   d.ID,
		Name:                 d.Name,
		Description:          d.Description,
		StartDate:            d.StartDate,
		DurationInMinutes:    d.DurationInMinutes,
		Price:                d.Price,
		EnabledForEnrollment: d.EnabledForEnrollment,
		MaxAssistance:        *d.MaxAssistance,
		LocationID:           *d.LocationID,
	}
}

// Create validates the draft, verifies the location capacity, stamps the
// acting user as creator, and persists the event.
func (s *EventService) Create(ctx context.Context, draft *model.EventDraft, userID int64) (*model.Event, error) {
	if rej := validateDraft(draft); rej != nil {
		return nil, rej
	}
	if _, err := s.verifyCapacity(ctx, *draft.LocationID, *draft.MaxAssistance); err != nil {
		return nil, err
	}

	event := draftToEvent(draft)
	event.CreatorUserID = userID

	created, err := s.events.Insert(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return created, nil
}

// Update rewrites an existing event owned by the acting user. The
// capacity guard re-runs against current location state.
func (s *EventService) Update(ctx context.Context, draft *model.EventDraft, userID int64) (*model.Event, error) {
	if draft.ID == 0 {
		return nil, &Error{Kind: KindMissingID, Message: "event id is required for update"}
	}
	if rej := validateDraft(draft); rej != nil {
		return nil, rej
	}
	existing, err := s.loadOwned(ctx, draft.ID, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.verifyCapacity(ctx, *draft.LocationID, *draft.MaxAssistance); err != nil {
		return nil, err
	}

	event := draftToEvent(draft)
	event.CreatorUserID = existing.CreatorUserID

	updated, err := s.events.Update(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return updated, nil
}

// Delete removes an event owned by the acting user and returns the
// deleted record.
func (s *EventService) Delete(ctx context.Context, eventID, userID int64) (*model.Event, error) {
	if _, err := s.loadOwned(ctx, eventID, userID); err != nil {
		return nil, err
	}
	deleted, err := s.events.Delete(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("delete event: %w", err)
	}
	return deleted, nil
}

// GetByID returns a single event, or nil when the id does not resolve.
func (s *EventService) GetByID(ctx context.Context, id int64) (*model.Event, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

// GetByFilters returns events matching a case-insensitive name fragment;
// an empty fragment returns all events ordered by start date descending.
func (s *EventService) GetByFilters(ctx context.Context, name string) ([]model.Event, error) {
	return s.events.GetByFilters(ctx, name)
}

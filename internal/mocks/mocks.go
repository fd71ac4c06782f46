// Package mocks provides in-memory store fakes for service and handler
// tests. They mirror the repository package's sentinel-error contract so
// services under test cannot tell them apart from the real thing.
package mocks

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"eventhub/internal/model"
	"eventhub/internal/repository"
)

// EventStore is an in-memory fake of the event store.
type EventStore struct {
	mu     sync.Mutex
	Events map[int64]model.Event
	nextID int64
}

// NewEventStore constructs an empty EventStore.
func NewEventStore() *EventStore {
	return &EventStore{Events: make(map[int64]model.Event)}
}

// Seed stores an event under its own id and returns it.
func (s *EventStore) Seed(e model.Event) model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == 0 {
		s.nextID++
		e.ID = s.nextID
	} else if e.ID > s.nextID {
		s.nextID = e.ID
	}
	s.Events[e.ID] = e
	return e
}

func (s *EventStore) GetByID(_ context.Context, id int64) (*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.Events[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (s *EventStore) GetByFilters(_ context.Context, name string) ([]model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Event
	for _, e := range s.Events {
		if name == "" || strings.Contains(strings.ToLower(e.Name), strings.ToLower(name)) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.After(out[j].StartDate) })
	return out, nil
}

func (s *EventStore) Insert(_ context.Context, e *model.Event) (*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	stored := *e
	stored.ID = s.nextID
	s.Events[stored.ID] = stored
	return &stored, nil
}

func (s *EventStore) Update(_ context.Context, e *model.Event) (*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.Events[e.ID]; !ok {
		return nil, repository.ErrNotFound
	}
	stored := *e
	s.Events[stored.ID] = stored
	return &stored, nil
}

func (s *EventStore) Delete(_ context.Context, id int64) (*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.Events[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(s.Events, id)
	return &e, nil
}

// LocationStore is an in-memory fake of the location store.
type LocationStore struct {
	Locations map[int64]model.Location
}

// NewLocationStore constructs an empty LocationStore.
func NewLocationStore() *LocationStore {
	return &LocationStore{Locations: make(map[int64]model.Location)}
}

func (s *LocationStore) MaxCapacity(_ context.Context, id int64) (int, error) {
	l, ok := s.Locations[id]
	if !ok {
		return 0, repository.ErrNotFound
	}
	return l.MaxCapacity, nil
}

func (s *LocationStore) GetByID(_ context.Context, id int64) (*model.Location, error) {
	l, ok := s.Locations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &l, nil
}

func (s *LocationStore) ListByUser(_ context.Context, userID int64) ([]model.Location, error) {
	var out []model.Location
	for _, l := range s.Locations {
		if l.CreatorUserID == userID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// EnrollmentStore is an in-memory fake of the enrollment store.
type EnrollmentStore struct {
	mu     sync.Mutex
	Pairs  map[string]model.Enrollment
	nextID int64
}

// NewEnrollmentStore constructs an empty EnrollmentStore.
func NewEnrollmentStore() *EnrollmentStore {
	return &EnrollmentStore{Pairs: make(map[string]model.Enrollment)}
}

func pairKey(userID, eventID int64) string {
	return fmt.Sprintf("%d:%d", userID, eventID)
}

func (s *EnrollmentStore) Count(_ context.Context, eventID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.Pairs {
		if e.EventID == eventID {
			n++
		}
	}
	return n, nil
}

func (s *EnrollmentStore) IsEnrolled(_ context.Context, userID, eventID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.Pairs[pairKey(userID, eventID)]
	return ok, nil
}

func (s *EnrollmentStore) Insert(_ context.Context, userID, eventID int64) (*model.Enrollment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pairKey(userID, eventID)
	if _, ok := s.Pairs[key]; ok {
		return nil, repository.ErrAlreadyEnrolled
	}
	s.nextID++
	enr := model.Enrollment{
		ID:                   s.nextID,
		UserID:               userID,
		EventID:              eventID,
		RegistrationDateTime: time.Now(),
	}
	s.Pairs[key] = enr
	return &enr, nil
}

func (s *EnrollmentStore) Delete(_ context.Context, userID, eventID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pairKey(userID, eventID)
	if _, ok := s.Pairs[key]; !ok {
		return repository.ErrNotFound
	}
	delete(s.Pairs, key)
	return nil
}

// UserStore is an in-memory fake of the user store.
type UserStore struct {
	mu     sync.Mutex
	Users  map[string]model.User
	nextID int64
}

// NewUserStore constructs an empty UserStore.
func NewUserStore() *UserStore {
	return &UserStore{Users: make(map[string]model.User)}
}

func (s *UserStore) Insert(_ context.Context, u *model.User) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.Users[u.Username]; ok {
		return nil, repository.ErrDuplicate
	}
	s.nextID++
	stored := *u
	stored.ID = s.nextID
	s.Users[stored.Username] = stored
	return &stored, nil
}

func (s *UserStore) GetByUsername(_ context.Context, username string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.Users[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (s *UserStore) GetByID(_ context.Context, id int64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.Users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

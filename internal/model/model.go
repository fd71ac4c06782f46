// Package model defines the core domain types for the event listing
// and enrollment service.
package model

import "time"

// Event is the canonical event record as stored.
type Event struct {
	ID                   int64     `json:"id"`
	Name                 string    `json:"name"`
	Description          string    `json:"description"`
	StartDate            time.Time `json:"start_date"`
	DurationInMinutes    int       `json:"duration_in_minutes"`
	Price                float64   `json:"price"`
	EnabledForEnrollment bool      `json:"enabled_for_enrollment"`
	MaxAssistance        int       `json:"max_assistance"`
	CreatorUserID        int64     `json:"id_creator_user"`
	LocationID           int64     `json:"id_event_location"`
}

// EventDraft is an unvalidated event payload as submitted by a client.
// MaxAssistance and LocationID are pointers so absence can be told apart
// from zero; both are required fields.
type EventDraft struct {
	ID                   int64     `json:"id,omitempty"`
	Name                 string    `json:"name"`
	Description          string    `json:"description"`
	StartDate            time.Time `json:"start_date"`
	DurationInMinutes    int       `json:"duration_in_minutes"`
	Price                float64   `json:"price"`
	EnabledForEnrollment bool      `json:"enabled_for_enrollment"`
	MaxAssistance        *int      `json:"max_assistance"`
	LocationID           *int64    `json:"id_event_location"`
}

// Location is a venue with a fixed attendance capacity. It is read-only
// from the event engine's perspective; only its owner manages it.
type Location struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	FullAddress   string  `json:"full_address"`
	MaxCapacity   int     `json:"max_capacity"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	CreatorUserID int64   `json:"id_creator_user"`
}

// Enrollment is a user's registration to attend a specific event.
type Enrollment struct {
	ID                   int64     `json:"id"`
	UserID               int64     `json:"id_user"`
	EventID              int64     `json:"id_event"`
	RegistrationDateTime time.Time `json:"registration_date_time"`
}

// User is a registered account. The password hash is never serialized.
type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	Password  string `json:"-"`
}

// RegisterRequest is the payload for creating a new user account.
type RegisterRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	Password  string `json:"password"`
}

// LoginRequest is the payload for exchanging credentials for a token.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	Token string `json:"token"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}

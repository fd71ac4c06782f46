// Package repository implements all database queries for the event
// listing and enrollment service. It uses pgx directly (no ORM) for
// transparency and performance.
package repository

import "errors"

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrCapacityFull is returned when an event has no remaining capacity.
var ErrCapacityFull = errors.New("event has no remaining capacity")

// ErrAlreadyEnrolled is returned when the same user enrolls twice.
var ErrAlreadyEnrolled = errors.New("user already enrolled in this event")

// ErrDuplicate is returned when a unique constraint rejects an insert.
var ErrDuplicate = errors.New("duplicate record")

// uniqueViolation is the PostgreSQL error code for unique constraint
// violations.
const uniqueViolation = "23505"

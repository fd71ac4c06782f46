package service

import "fmt"

// Kind classifies a rejection. The set is closed: every business-rule
// failure the service can produce maps to exactly one kind, and handlers
// map kinds to HTTP statuses. Anything outside this set is an internal
// fault and travels as a plain wrapped error.
type Kind int

const (
	// KindInvalidField rejects a draft failing a structural rule.
	KindInvalidField Kind = iota
	// KindUnknownLocation rejects a draft referencing a location that
	// does not resolve.
	KindUnknownLocation
	// KindCapacityExceeded rejects a max_assistance above the location's
	// fixed capacity.
	KindCapacityExceeded
	// KindMissingID rejects an update that does not identify a record.
	KindMissingID
	// KindNotFound covers both an absent record and a caller who is not
	// its owner; the two are deliberately indistinguishable so existence
	// is never leaked to non-owners.
	KindNotFound
	// KindAlreadyStarted rejects enrollment changes after event start.
	KindAlreadyStarted
	// KindEnrollmentClosed rejects enrolling into a disabled event.
	KindEnrollmentClosed
	// KindAlreadyEnrolled rejects a duplicate enrollment.
	KindAlreadyEnrolled
	// KindNotEnrolled rejects withdrawing without an enrollment.
	KindNotEnrolled
	// KindCapacityFull rejects enrolling into a full event.
	KindCapacityFull
	// KindUsernameTaken rejects registration with an existing username.
	KindUsernameTaken
	// KindInvalidCredentials rejects a login with a bad username or
	// password.
	KindInvalidCredentials
)

// Error is a business-rule rejection. It is raised at the point of
// detection and returned unmodified to the caller; no layer rewraps or
// retries it.
type Error struct {
	Kind    Kind
	Field   string // set for KindInvalidField
	Message string
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func invalidField(field, message string) *Error {
	return &Error{Kind: KindInvalidField, Field: field, Message: message}
}

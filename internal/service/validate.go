package service

import (
	"strings"
	"unicode/utf8"

	"eventhub/internal/model"
)

// validateDraft checks field-level constraints on an event draft. Checks
// run in a fixed order and the first failure wins; there is no
// multi-error aggregation. A missing price is not rejected here, only a
// negative one.
func validateDraft(d *model.EventDraft) *Error {
	if utf8.RuneCountInString(strings.TrimSpace(d.Name)) < 3 {
		return invalidField("name", "must be at least 3 characters")
	}
	if utf8.RuneCountInString(strings.TrimSpace(d.Description)) < 3 {
		return invalidField("description", "must be at least 3 characters")
	}
	if d.Price < 0 {
		return invalidField("price", "cannot be negative")
	}
	if d.DurationInMinutes < 0 {
		return invalidField("duration_in_minutes", "cannot be negative")
	}
	if d.MaxAssistance == nil || *d.MaxAssistance <= 0 {
		return invalidField("max_assistance", "must be a positive integer")
	}
	if d.LocationID == nil || *d.LocationID == 0 {
		return invalidField("id_event_location", "is required")
	}
	return nil
}

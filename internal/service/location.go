package service

import (
	"context"
	"errors"
	"fmt"

	"eventhub/internal/model"
	"eventhub/internal/repository"
)

// LocationService exposes the read-only location queries the API needs.
// Locations are owned and mutated by a separate subsystem; here they are
// only listed and looked up, scoped to their owner.
type LocationService struct {
	locations LocationStore
}

// NewLocationService constructs a LocationService.
func NewLocationService(locations LocationStore) *LocationService {
	return &LocationService{locations: locations}
}

// ListByUser returns all locations owned by the acting user.
func (s *LocationService) ListByUser(ctx context.Context, userID int64) ([]model.Location, error) {
	return s.locations.ListByUser(ctx, userID)
}

// GetOwned returns a location only when the acting user owns it; a
// location owned by someone else reports KindNotFound, same as an
// absent one.
func (s *LocationService) GetOwned(ctx context.Context, id, userID int64) (*model.Location, error) {
	location, err := s.locations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &Error{Kind: KindNotFound, Message: "location not found"}
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	if location.CreatorUserID != userID {
		return nil, &Error{Kind: KindNotFound, Message: "location not found"}
	}
	return location, nil
}

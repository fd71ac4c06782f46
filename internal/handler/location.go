package handler

import (
	"net/http"

	"eventhub/internal/model"
	"eventhub/internal/service"
)

// LocationHandler holds the HTTP handlers for owner-scoped location reads.
type LocationHandler struct {
	locations *service.LocationService
}

// NewLocationHandler constructs a LocationHandler.
func NewLocationHandler(locations *service.LocationService) *LocationHandler {
	return &LocationHandler{locations: locations}
}

// List handles GET /api/event-location
// Returns all locations owned by the authenticated user.
func (h *LocationHandler) List(w http.ResponseWriter, r *http.Request) {
	locations, err := h.locations.ListByUser(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if locations == nil {
		locations = []model.Location{}
	}
	writeJSON(w, http.StatusOK, locations)
}

// Get handles GET /api/event-location/{id}
// Only the owner can read a location; anyone else sees a 404.
func (h *LocationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid location id")
		return
	}

	location, err := h.locations.GetOwned(r.Context(), id, userIDFrom(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, location)
}

// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"eventhub/internal/model"
	"eventhub/internal/service"

	"github.com/go-chi/chi/v5"
)

// EventHandler holds the HTTP handlers for the event and enrollment API.
type EventHandler struct {
	events      *service.EventService
	enrollments *service.EnrollmentService
	invalidator *CacheInvalidator // nil when caching is disabled
}

// NewEventHandler constructs an EventHandler.
func NewEventHandler(events *service.EventService, enrollments *service.EnrollmentService, invalidator *CacheInvalidator) *EventHandler {
	return &EventHandler{events: events, enrollments: enrollments, invalidator: invalidator}
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func idParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// writeServiceError maps a business-rule rejection to its HTTP status.
// Anything that is not a *service.Error is an internal fault: logged and
// reported generically, never retried.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var rej *service.Error
	if !errors.As(err, &rej) {
		slog.Error("internal error", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	status := http.StatusBadRequest
	switch rej.Kind {
	case service.KindNotFound:
		status = http.StatusNotFound
	case service.KindAlreadyEnrolled, service.KindCapacityFull:
		status = http.StatusConflict
	case service.KindInvalidCredentials:
		status = http.StatusUnauthorized
	}
	writeError(w, status, rej.Error())
}

// ─── Event lifecycle ──────────────────────────────────────────────────────────

// CreateEvent handles POST /api/event
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var draft model.EventDraft
	if err := decodeJSON(r, &draft); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	event, err := h.events.Create(r.Context(), &draft, userIDFrom(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.invalidator.PurgeEvents(r.Context())
	writeJSON(w, http.StatusCreated, event)
}

// UpdateEvent handles PUT /api/event
// The draft carries the id of the record to rewrite.
func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var draft model.EventDraft
	if err := decodeJSON(r, &draft); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	event, err := h.events.Update(r.Context(), &draft, userIDFrom(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.invalidator.PurgeEvents(r.Context())
	writeJSON(w, http.StatusOK, event)
}

// DeleteEvent handles DELETE /api/event/{id}
// Returns the deleted record.
func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	event, err := h.events.Delete(r.Context(), id, userIDFrom(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.invalidator.PurgeEvents(r.Context())
	writeJSON(w, http.StatusOK, event)
}

// ─── Event queries ────────────────────────────────────────────────────────────

// ListEvents handles GET /api/event?name=
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.GetByFilters(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	// Return an empty array rather than null for better client compatibility.
	if events == nil {
		events = []model.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

// GetEvent handles GET /api/event/{id}
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	event, err := h.events.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if event == nil {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// ─── Enrollment ───────────────────────────────────────────────────────────────

// Enroll handles POST /api/event/{id}/enrollment
func (h *EventHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	enr, err := h.enrollments.Enroll(r.Context(), id, userIDFrom(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, enr)
}

// Unenroll handles DELETE /api/event/{id}/enrollment
func (h *EventHandler) Unenroll(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	if err := h.enrollments.Unenroll(r.Context(), id, userIDFrom(r.Context())); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

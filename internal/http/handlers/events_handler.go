package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/charitymap/charitymap-api/internal/domain"
	"github.com/charitymap/charitymap-api/internal/http/middleware"
	"github.com/charitymap/charitymap-api/internal/http/response"
)

// ListEvents returns all events (public, used by the map page)
func (h *Handlers) ListEvents(w http.ResponseWriter, r *http.Request) {
	es, err := h.events.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, es)
}

// GetEvent returns a single event by ID
func (h *Handlers) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(w, r)
	if !ok {
		return
	}

	e, err := h.events.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, e)
}

// CreateEvent creates an event owned by the authenticated organization.
// Host and owner come from the acting identity, never the payload.
func (h *Handlers) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	e, err := h.events.Create(r.Context(), middleware.CurrentUser(r), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, e)
}

// UpdateEvent applies a partial update to an owned event
func (h *Handlers) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(w, r)
	if !ok {
		return
	}

	var req domain.UpdateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	e, err := h.events.Update(r.Context(), middleware.CurrentUser(r), id, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, e)
}

// DeleteEvent deletes an owned event
func (h *Handlers) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(w, r)
	if !ok {
		return
	}

	if err := h.events.Delete(r.Context(), middleware.CurrentUser(r), id); err != nil {
		writeServiceError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"message": "Event deleted successfully"})
}

// MyEvents returns the authenticated user's events
func (h *Handlers) MyEvents(w http.ResponseWriter, r *http.Request) {
	es, err := h.events.ListByOwner(r.Context(), middleware.CurrentUser(r).ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, es)
}

func eventID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(w, "Invalid event ID")
		return 0, false
	}
	return id, true
}

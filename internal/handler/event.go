package handler

import (
	"context"
	"net/http"

	"github.com/Creastina/bambushain/internal/middleware"
	"github.com/Creastina/bambushain/internal/model"
)

// EventService is the part of service.EventService used by the handlers
type EventService interface {
	List(ctx context.Context, user *model.User, start, end string) ([]*model.Event, error)
	Create(ctx context.Context, user *model.User, req model.EventRequest) (*model.Event, error)
	Update(ctx context.Context, user *model.User, id string, req model.EventRequest) (*model.Event, error)
	Delete(ctx context.Context, user *model.User, id string) error
}

// EventHandler handles the grove calendar
type EventHandler struct {
	eventService EventService
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventService EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// List handles GET /api/bamboo-grove/event?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	start, end := query.Get("start"), query.Get("end")

	var fieldErrors []model.FieldError
	if start == "" {
		fieldErrors = append(fieldErrors, model.FieldError{Field: "start", Message: "start is required"})
	}
	if end == "" {
		fieldErrors = append(fieldErrors, model.FieldError{Field: "end", Message: "end is required"})
	}
	if len(fieldErrors) > 0 {
		WriteError(w, model.NewValidationError(fieldErrors))
		return
	}

	events, err := h.eventService.List(r.Context(), middleware.GetUser(r.Context()), start, end)
	if err != nil {
		writeServiceError(w, r, "list events", err)
		return
	}
	WriteList(w, events)
}

// Create handles POST /api/bamboo-grove/event
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.EventRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	event, err := h.eventService.Create(r.Context(), middleware.GetUser(r.Context()), req)
	if err != nil {
		writeServiceError(w, r, "create event", err)
		return
	}
	WriteJSON(w, http.StatusCreated, event)
}

// Update handles PUT /api/bamboo-grove/event/{id}
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.EventRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if _, err := h.eventService.Update(r.Context(), middleware.GetUser(r.Context()), r.PathValue("id"), req); err != nil {
		writeServiceError(w, r, "update event", err)
		return
	}
	WriteNoContent(w)
}

// Delete handles DELETE /api/bamboo-grove/event/{id}
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.eventService.Delete(r.Context(), middleware.GetUser(r.Context()), r.PathValue("id")); err != nil {
		writeServiceError(w, r, "delete event", err)
		return
	}
	WriteNoContent(w)
}

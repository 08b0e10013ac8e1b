package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/Creastina/bambushain/internal/model"
)

// CustomFieldService is the part of service.CustomFieldService used by the handlers
type CustomFieldService interface {
	List(ctx context.Context, userID string) ([]*model.CustomField, error)
	Get(ctx context.Context, userID, id string) (*model.CustomField, error)
	Create(ctx context.Context, userID string, req model.CustomFieldRequest) (*model.CustomField, error)
	Update(ctx context.Context, userID, id string, req model.CustomFieldRequest) (*model.CustomField, error)
	Delete(ctx context.Context, userID, id string) error
	Move(ctx context.Context, userID, id string, position int) error

	ListOptions(ctx context.Context, userID, fieldID string) ([]model.CustomFieldOption, error)
	CreateOption(ctx context.Context, userID, fieldID, label string) (*model.CustomFieldOption, error)
	UpdateOption(ctx context.Context, userID, fieldID, id, label string) error
	DeleteOption(ctx context.Context, userID, fieldID, id string) error
}

// CustomFieldHandler handles the user's custom character fields
type CustomFieldHandler struct {
	fieldService CustomFieldService
}

// NewCustomFieldHandler creates a new custom field handler
func NewCustomFieldHandler(fieldService CustomFieldService) *CustomFieldHandler {
	return &CustomFieldHandler{fieldService: fieldService}
}

// List handles GET /api/final-fantasy/custom-field
func (h *CustomFieldHandler) List(w http.ResponseWriter, r *http.Request) {
	fields, err := h.fieldService.List(r.Context(), userID(r))
	if err != nil {
		writeServiceError(w, r, "list custom fields", err)
		return
	}
	WriteList(w, fields)
}

// Get handles GET /api/final-fantasy/custom-field/{id}
func (h *CustomFieldHandler) Get(w http.ResponseWriter, r *http.Request) {
	field, err := h.fieldService.Get(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, "get custom field", err)
		return
	}
	WriteJSON(w, http.StatusOK, field)
}

// Create handles POST /api/final-fantasy/custom-field
func (h *CustomFieldHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CustomFieldRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	field, err := h.fieldService.Create(r.Context(), userID(r), req)
	if err != nil {
		writeServiceError(w, r, "create custom field", err)
		return
	}
	WriteJSON(w, http.StatusCreated, field)
}

// Update handles PUT /api/final-fantasy/custom-field/{id}
func (h *CustomFieldHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.CustomFieldRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if _, err := h.fieldService.Update(r.Context(), userID(r), r.PathValue("id"), req); err != nil {
		writeServiceError(w, r, "update custom field", err)
		return
	}
	WriteNoContent(w)
}

// Delete handles DELETE /api/final-fantasy/custom-field/{id}
func (h *CustomFieldHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.fieldService.Delete(r.Context(), userID(r), r.PathValue("id")); err != nil {
		writeServiceError(w, r, "delete custom field", err)
		return
	}
	WriteNoContent(w)
}

// Move handles PUT /api/final-fantasy/custom-field/{id}/position/{position}
func (h *CustomFieldHandler) Move(w http.ResponseWriter, r *http.Request) {
	position, err := strconv.Atoi(r.PathValue("position"))
	if err != nil {
		WriteError(w, model.NewBadRequestError("position must be a number"))
		return
	}

	if err := h.fieldService.Move(r.Context(), userID(r), r.PathValue("id"), position); err != nil {
		writeServiceError(w, r, "move custom field", err)
		return
	}
	WriteNoContent(w)
}

// ListOptions handles GET /api/final-fantasy/custom-field/{id}/option
func (h *CustomFieldHandler) ListOptions(w http.ResponseWriter, r *http.Request) {
	options, err := h.fieldService.ListOptions(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, "list custom field options", err)
		return
	}
	WriteList(w, options)
}

// CreateOption handles POST /api/final-fantasy/custom-field/{id}/option
func (h *CustomFieldHandler) CreateOption(w http.ResponseWriter, r *http.Request) {
	label, ok := decodeOptionLabel(w, r)
	if !ok {
		return
	}

	option, err := h.fieldService.CreateOption(r.Context(), userID(r), r.PathValue("id"), label)
	if err != nil {
		writeServiceError(w, r, "create custom field option", err)
		return
	}
	WriteJSON(w, http.StatusCreated, option)
}

// UpdateOption handles PUT /api/final-fantasy/custom-field/{fieldId}/option/{id}
func (h *CustomFieldHandler) UpdateOption(w http.ResponseWriter, r *http.Request) {
	label, ok := decodeOptionLabel(w, r)
	if !ok {
		return
	}

	if err := h.fieldService.UpdateOption(r.Context(), userID(r), r.PathValue("fieldId"), r.PathValue("id"), label); err != nil {
		writeServiceError(w, r, "update custom field option", err)
		return
	}
	WriteNoContent(w)
}

// DeleteOption handles DELETE /api/final-fantasy/custom-field/{fieldId}/option/{id}
func (h *CustomFieldHandler) DeleteOption(w http.ResponseWriter, r *http.Request) {
	if err := h.fieldService.DeleteOption(r.Context(), userID(r), r.PathValue("fieldId"), r.PathValue("id")); err != nil {
		writeServiceError(w, r, "delete custom field option", err)
		return
	}
	WriteNoContent(w)
}

// decodeOptionLabel reads an option label sent as a bare JSON string
func decodeOptionLabel(w http.ResponseWriter, r *http.Request) (string, bool) {
	var label string
	if err := DecodeJSON(w, r, &label); err != nil {
		WriteError(w, model.NewBadRequestError(err.Error()))
		return "", false
	}

	label = strings.TrimSpace(label)
	if err := validate.Var(label, "required,max=255"); err != nil {
		WriteError(w, model.NewValidationError([]model.FieldError{
			{Field: "label", Message: "label is required and must be at most 255 characters"},
		}))
		return "", false
	}
	return label, true
}

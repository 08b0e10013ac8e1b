package handler

import (
	"context"
	"net/http"

	"github.com/Creastina/bambushain/internal/middleware"
	"github.com/Creastina/bambushain/internal/model"
)

// GroveService is the part of service.GroveService used by the handlers
type GroveService interface {
	Get(ctx context.Context, id string) (*model.Grove, error)
	List(ctx context.Context) ([]*model.GroveWithMods, error)
	Create(ctx context.Context, req model.CreateGroveRequest) (*model.GroveWithMods, error)
	SetEnabled(ctx context.Context, id string, enabled bool) error
	Delete(ctx context.Context, id string) error
}

// GroveHandler handles the endpoints of the caller's own grove and the
// grove administration
type GroveHandler struct {
	groveService GroveService
}

// NewGroveHandler creates a new grove handler
func NewGroveHandler(groveService GroveService) *GroveHandler {
	return &GroveHandler{groveService: groveService}
}

// Get handles GET /api/grove
func (h *GroveHandler) Get(w http.ResponseWriter, r *http.Request) {
	grove, err := h.groveService.Get(r.Context(), middleware.GetUser(r.Context()).GroveID)
	if err != nil {
		writeServiceError(w, r, "get grove", err)
		return
	}
	WriteJSON(w, http.StatusOK, grove)
}

// Enable handles PUT /api/grove/enabled
func (h *GroveHandler) Enable(w http.ResponseWriter, r *http.Request) {
	h.setEnabled(w, r, true)
}

// Disable handles DELETE /api/grove/enabled
func (h *GroveHandler) Disable(w http.ResponseWriter, r *http.Request) {
	h.setEnabled(w, r, false)
}

func (h *GroveHandler) setEnabled(w http.ResponseWriter, r *http.Request, enabled bool) {
	if err := h.groveService.SetEnabled(r.Context(), middleware.GetUser(r.Context()).GroveID, enabled); err != nil {
		writeServiceError(w, r, "change grove status", err)
		return
	}
	WriteNoContent(w)
}

// Delete handles DELETE /api/grove
func (h *GroveHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.groveService.Delete(r.Context(), middleware.GetUser(r.Context()).GroveID); err != nil {
		writeServiceError(w, r, "delete grove", err)
		return
	}
	WriteNoContent(w)
}

// AdminList handles GET /api/admin/grove
func (h *GroveHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	groves, err := h.groveService.List(r.Context())
	if err != nil {
		writeServiceError(w, r, "list groves", err)
		return
	}
	WriteList(w, groves)
}

// AdminCreate handles POST /api/admin/grove
func (h *GroveHandler) AdminCreate(w http.ResponseWriter, r *http.Request) {
	var req model.CreateGroveRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	grove, err := h.groveService.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, "create grove", err)
		return
	}
	WriteJSON(w, http.StatusCreated, grove)
}

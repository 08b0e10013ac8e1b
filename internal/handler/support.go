package handler

import (
	"context"
	"net/http"

	"github.com/Creastina/bambushain/internal/middleware"
	"github.com/Creastina/bambushain/internal/model"
)

// SupportService is the part of service.SupportService used by the handlers
type SupportService interface {
	SendSupportRequest(ctx context.Context, user *model.User, req model.SupportRequest) error
	ReportError(ctx context.Context, user *model.User, report model.GlitchtipReport)
}

// SupportHandler handles support mails and client error reports
type SupportHandler struct {
	supportService SupportService
}

// NewSupportHandler creates a new support handler
func NewSupportHandler(supportService SupportService) *SupportHandler {
	return &SupportHandler{supportService: supportService}
}

// SendRequest handles POST /api/support
func (h *SupportHandler) SendRequest(w http.ResponseWriter, r *http.Request) {
	var req model.SupportRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.supportService.SendSupportRequest(r.Context(), middleware.GetUser(r.Context()), req); err != nil {
		writeServiceError(w, r, "send support request", err)
		return
	}
	WriteNoContent(w)
}

// ReportError handles POST /api/glitchtip
func (h *SupportHandler) ReportError(w http.ResponseWriter, r *http.Request) {
	var report model.GlitchtipReport
	if !decodeAndValidate(w, r, &report) {
		return
	}

	h.supportService.ReportError(r.Context(), middleware.GetUser(r.Context()), report)
	WriteNoContent(w)
}

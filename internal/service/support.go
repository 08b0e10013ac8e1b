package service

import (
	"context"
	"log/slog"

	"github.com/Creastina/bambushain/internal/model"
)

// SupportService forwards support requests and client error reports
type SupportService struct {
	mailer Mailer
}

// NewSupportService creates a new support service
func NewSupportService(mailer Mailer) *SupportService {
	return &SupportService{mailer: mailer}
}

// SendSupportRequest mails the request to the support address
func (s *SupportService) SendSupportRequest(ctx context.Context, user *model.User, req model.SupportRequest) error {
	if err := s.mailer.SendSupportRequest(ctx, user, req); err != nil {
		slog.Error("failed to send support request", "user_id", user.ID, "error", err)
		return ErrMailDelivery
	}
	return nil
}

// ReportError logs an error reported by the web client
func (s *SupportService) ReportError(ctx context.Context, user *model.User, report model.GlitchtipReport) {
	attrs := []any{
		"user_id", user.ID,
		"grove_id", user.GroveID,
		"message", report.Message,
	}
	if report.Exception != "" {
		attrs = append(attrs, "exception", report.Exception)
	}
	if report.URL != "" {
		attrs = append(attrs, "url", report.URL)
	}
	if report.UserAgent != "" {
		attrs = append(attrs, "client_user_agent", report.UserAgent)
	}
	for key, value := range report.Extra {
		attrs = append(attrs, "extra_"+key, value)
	}
	slog.ErrorContext(ctx, "client error report", attrs...)
}

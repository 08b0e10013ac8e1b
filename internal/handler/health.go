package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/Creastina/bambushain/internal/model"
)

// Pinger is satisfied by database.Database
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports whether the API can reach its database
type HealthHandler struct {
	db Pinger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		slog.Warn("health check failed", slog.Any("error", err))
		WriteError(w, &model.ProblemDetails{
			Type:   "https://bambushain.app/errors/unavailable",
			Title:  "Service Unavailable",
			Status: http.StatusServiceUnavailable,
			Detail: "The database is not reachable",
			Code:   model.ErrCodeDatabase,
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

package handler

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/Creastina/bambushain/internal/middleware"
	"github.com/Creastina/bambushain/internal/model"
	"github.com/Creastina/bambushain/internal/service"
)

// StreamSource is implemented by service.EventBroadcaster and
// service.CalendarBroadcaster
type StreamSource interface {
	Subscribe(user *model.User) *service.Subscriber
	Unsubscribe(sub *service.Subscriber)
}

// SSEHandler streams broadcaster frames to the browser
type SSEHandler struct {
	events   StreamSource
	calendar StreamSource
}

// NewSSEHandler creates a new server sent events handler
func NewSSEHandler(events, calendar StreamSource) *SSEHandler {
	return &SSEHandler{events: events, calendar: calendar}
}

// Events handles GET /sse/event
func (h *SSEHandler) Events(w http.ResponseWriter, r *http.Request) {
	stream(w, r, h.events)
}

// Calendar handles GET /sse/calendar
func (h *SSEHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	stream(w, r, h.calendar)
}

func stream(w http.ResponseWriter, r *http.Request, source StreamSource) {
	rc := http.NewResponseController(w)
	// Streams outlive the server write timeout
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering
	w.WriteHeader(http.StatusOK)

	user := middleware.GetUser(r.Context())
	sub := source.Subscribe(user)
	defer source.Unsubscribe(sub)

	slog.Debug("stream opened",
		slog.String("path", r.URL.Path),
		slog.String("user_id", user.ID),
		slog.String("subscriber_id", sub.ID),
	)

	for {
		select {
		case frame := <-sub.Frames:
			if _, err := io.WriteString(w, frame); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}

		case <-sub.Done:
			return

		case <-r.Context().Done():
			// Client disconnected
			return
		}
	}
}

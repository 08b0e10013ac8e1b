package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"

	"github.com/Creastina/bambushain/internal/model"
)

type Middleware func(http.Handler) http.Handler

// Chain wraps handler so that middlewares[0] sees the request first
func Chain(handler http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return handler
}

type contextKey string

const RequestIDKey contextKey = "requestID"

const requestIDHeader = "X-Request-ID"

// RequestID takes the caller's X-Request-ID or generates a uuid, and echoes
// it on the response. Ids longer than 128 bytes or with characters outside
// printable ASCII are replaced.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if !usableRequestID(id) {
			id = uuid.NewString()
		}

		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), RequestIDKey, id)))
	})
}

func usableRequestID(id string) bool {
	if id == "" || len(id) > 128 {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}

func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// accessLog carries values that only the inner handlers learn, such as the
// authenticated user, back out to the Logger
type accessLog struct {
	userID string
}

const accessLogKey contextKey = "accessLog"

// noteUser records the caller for the access log line of this request
func noteUser(ctx context.Context, userID string) {
	if entry, ok := ctx.Value(accessLogKey).(*accessLog); ok {
		entry.userID = userID
	}
}

// Logger writes one access log line per request to the default logger
func Logger(next http.Handler) http.Handler {
	return NewLogger(nil)(next)
}

// NewLogger is Logger with its own slog.Logger. nil uses slog.Default().
func NewLogger(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			entry := &accessLog{}
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r.WithContext(context.WithValue(r.Context(), accessLogKey, entry)))

			attrs := []any{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", wrapped.statusCode),
				slog.Duration("duration", time.Since(start)),
				slog.String("request_id", GetRequestID(r.Context())),
				slog.String("remote_addr", r.RemoteAddr),
			}
			if entry.userID != "" {
				attrs = append(attrs, slog.String("user_id", entry.userID))
			}

			log := logger
			if log == nil {
				log = slog.Default()
			}
			log.Info("request", attrs...)
		})
	}
}

// Recovery turns a panic into an internal problem response and logs the
// stack with the request id
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			slog.Error("panic recovered",
				slog.Any("error", rec),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("request_id", GetRequestID(r.Context())),
				slog.String("stack", string(debug.Stack())),
			)
			model.NewInternalError("").WriteJSON(w)
		}()

		next.ServeHTTP(w, r)
	})
}

var corsHeaders = map[string]string{
	"Access-Control-Allow-Methods":  "GET, POST, PUT, DELETE, OPTIONS",
	"Access-Control-Allow-Headers":  "Authorization, Content-Type, " + requestIDHeader,
	"Access-Control-Expose-Headers": requestIDHeader + ", X-RateLimit-Limit, X-RateLimit-Remaining, Retry-After",
	"Access-Control-Max-Age":        "86400",
}

// CORS allows credentialed requests from the listed origins. "*" allows any
// origin, which is echoed back since credentials rule out a literal "*".
// Preflight requests end here with 204.
func CORS(allowedOrigins []string) Middleware {
	anyOrigin := false
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o == "*" {
			anyOrigin = true
		}
		origins[o] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			if origin := r.Header.Get("Origin"); origin != "" {
				if _, ok := origins[origin]; ok || anyOrigin {
					h.Set("Access-Control-Allow-Origin", origin)
					h.Set("Access-Control-Allow-Credentials", "true")
				}
				h.Add("Vary", "Origin")
			}
			for name, value := range corsHeaders {
				h.Set(name, value)
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Compress gzips responses for clients that accept it. Event streams are
// passed through untouched.
func Compress(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isEventStream(r) || !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			next.ServeHTTP(w, r)
			return
		}

		gz := gzip.NewWriter(w)
		defer func() { _ = gz.Close() }()

		w.Header().Set("Content-Encoding", "gzip")
		w.Header().Add("Vary", "Accept-Encoding")
		w.Header().Del("Content-Length")

		next.ServeHTTP(&gzipResponseWriter{ResponseWriter: w, writer: gz}, r)
	})
}

func isEventStream(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/sse/") || strings.Contains(r.Header.Get("Accept"), "text/event-stream")
}

// responseWriter remembers the status for the access log
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Flush keeps server sent events working behind the logger
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach the underlying writer
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

type gzipResponseWriter struct {
	http.ResponseWriter
	writer *gzip.Writer
}

func (grw *gzipResponseWriter) Write(b []byte) (int, error) {
	return grw.writer.Write(b)
}

func (grw *gzipResponseWriter) Flush() {
	_ = grw.writer.Flush()
	if f, ok := grw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Creastina/bambushain/internal/model"
)

// tag writes its name before passing the request on
func tag(name string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, name)
			next.ServeHTTP(w, r)
		})
	}
}

func TestChain_RunsOutermostFirst(t *testing.T) {
	t.Parallel()

	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "mux")
	}), tag("id>"), tag("log>"), tag("cors>"))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/my/profile", nil))

	assert.Equal(t, "id>log>cors>mux", rr.Body.String())
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	t.Run("generated", func(t *testing.T) {
		t.Parallel()
		h := &captureHandler{}
		rr := httptest.NewRecorder()
		RequestID(h).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/bamboo-grove/event", nil))

		id := rr.Header().Get("X-Request-ID")
		assert.Len(t, id, 36)
		assert.Equal(t, id, GetRequestID(h.ctx))
	})

	t.Run("forwarded", func(t *testing.T) {
		t.Parallel()
		h := &captureHandler{}
		req := httptest.NewRequest(http.MethodGet, "/api/bamboo-grove/event", nil)
		req.Header.Set("X-Request-ID", "frontend-42")
		rr := httptest.NewRecorder()
		RequestID(h).ServeHTTP(rr, req)

		assert.Equal(t, "frontend-42", rr.Header().Get("X-Request-ID"))
		assert.Equal(t, "frontend-42", GetRequestID(h.ctx))
	})

	for name, id := range map[string]string{
		"too long":   strings.Repeat("a", 129),
		"whitespace": "two words",
		"control":    "bad\x01id",
	} {
		t.Run("replaces "+name, func(t *testing.T) {
			t.Parallel()
			h := &captureHandler{}
			req := httptest.NewRequest(http.MethodGet, "/api/bamboo-grove/event", nil)
			req.Header.Set("X-Request-ID", id)
			rr := httptest.NewRecorder()
			RequestID(h).ServeHTTP(rr, req)

			got := rr.Header().Get("X-Request-ID")
			assert.NotEqual(t, id, got)
			assert.Len(t, got, 36)
			assert.Equal(t, got, GetRequestID(h.ctx))
		})
	}

	assert.Empty(t, GetRequestID(context.Background()))
}

func TestRecovery_WritesInternalProblem(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	Recovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("bamboo snapped")
	})).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/user", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "application/problem+json", rr.Header().Get("Content-Type"))

	var problem model.ProblemDetails
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&problem))
	assert.Equal(t, model.ErrCodeInternal, problem.Code)
}

func TestRecovery_RepanicsAbortHandler(t *testing.T) {
	t.Parallel()

	h := Recovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/sse/event", nil))
	})
}

func TestCORS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		allowed   []string
		origin    string
		wantAllow string
	}{
		{"listed origin", []string{"https://bambushain.app"}, "https://bambushain.app", "https://bambushain.app"},
		{"unlisted origin", []string{"https://bambushain.app"}, "https://evil.example", ""},
		{"wildcard echoes origin", []string{"*"}, "http://localhost:5173", "http://localhost:5173"},
		{"no origin", []string{"https://bambushain.app"}, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/api/my/profile", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rr := httptest.NewRecorder()
			CORS(tt.allowed)(&captureHandler{}).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantAllow, rr.Header().Get("Access-Control-Allow-Origin"))
			assert.Contains(t, rr.Header().Get("Access-Control-Allow-Headers"), "X-Request-ID")
			assert.Contains(t, rr.Header().Get("Access-Control-Expose-Headers"), "Retry-After")
			if tt.wantAllow != "" {
				assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
			}
			if tt.origin != "" {
				assert.Contains(t, rr.Header().Values("Vary"), "Origin")
			}
		})
	}
}

func TestCORS_PreflightStopsChain(t *testing.T) {
	t.Parallel()

	h := &captureHandler{}
	req := httptest.NewRequest(http.MethodOptions, "/api/login", nil)
	req.Header.Set("Origin", "https://bambushain.app")
	rr := httptest.NewRecorder()
	CORS([]string{"https://bambushain.app"})(h).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.False(t, h.called)
}

func TestCompress_GzipsAPIResponses(t *testing.T) {
	t.Parallel()

	body := `[{"id":"event:1","title":"Raid night"}]`
	req := httptest.NewRequest(http.MethodGet, "/api/bamboo-grove/event", nil)
	req.Header.Set("Accept-Encoding", "gzip, br")
	rr := httptest.NewRecorder()

	Compress(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, body)
	})).ServeHTTP(rr, req)

	assert.Equal(t, "gzip", rr.Header().Get("Content-Encoding"))
	assert.Contains(t, rr.Header().Values("Vary"), "Accept-Encoding")

	zr, err := gzip.NewReader(rr.Body)
	require.NoError(t, err)
	plain, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, body, string(plain))
}

func TestCompress_PassesThrough(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		path           string
		accept         string
		acceptEncoding string
	}{
		{"event stream path", "/sse/calendar", "", "gzip"},
		{"event stream accept header", "/api/whatever", "text/event-stream", "gzip"},
		{"client without gzip", "/api/user", "application/json", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.Header.Set("Accept", tt.accept)
			req.Header.Set("Accept-Encoding", tt.acceptEncoding)
			rr := httptest.NewRecorder()

			Compress(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, "data: connected\n\n")
			})).ServeHTTP(rr, req)

			assert.Empty(t, rr.Header().Get("Content-Encoding"))
			assert.Equal(t, "data: connected\n\n", rr.Body.String())
		})
	}
}

func TestCompress_FlushReachesClient(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	gz := gzip.NewWriter(rr)
	w := &gzipResponseWriter{ResponseWriter: rr, writer: gz}

	_, _ = io.WriteString(w, "partial")
	w.Flush()

	assert.True(t, rr.Flushed)
	assert.NotZero(t, rr.Body.Len())
}

// The event streams flush after every frame, through every writer the chain
// wraps around them
func TestChain_EventStreamFlushesThroughWrappers(t *testing.T) {
	t.Parallel()

	var flushed bool
	stream := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = io.WriteString(w, ": connected\n\n")
		flusher, ok := w.(http.Flusher)
		if ok {
			flusher.Flush()
			flushed = true
		}
	})

	h := Chain(stream, Tracing, Logger, Recovery, Compress)
	req := httptest.NewRequest(http.MethodGet, "/sse/event", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.True(t, flushed, "writer lost http.Flusher")
	assert.True(t, rr.Flushed)
	assert.Equal(t, ": connected\n\n", rr.Body.String())
}

func TestResponseWriter_Unwrap(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: rr, statusCode: http.StatusOK}

	require.NoError(t, http.NewResponseController(rw).Flush())
	assert.True(t, rr.Flushed)
	assert.Same(t, rr, rw.Unwrap())
}

func logLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	return line
}

func TestLogger_RecordsStatusAndUser(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	// Auth runs inside the mux, below the Logger
	mux := http.NewServeMux()
	mux.Handle("POST /api/bamboo-grove/event", Auth(successAuthenticator(testUser()), testCookie)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
		}),
	))

	req := httptest.NewRequest(http.MethodPost, "/api/bamboo-grove/event", nil)
	req.Header.Set("Authorization", "Bearer token")
	rr := httptest.NewRecorder()
	Chain(mux, RequestID, NewLogger(logger)).ServeHTTP(rr, req)

	line := logLine(t, &buf)
	assert.Equal(t, "request", line["msg"])
	assert.Equal(t, "POST", line["method"])
	assert.Equal(t, float64(http.StatusCreated), line["status"])
	assert.Equal(t, "user:panda", line["user_id"])
	assert.Equal(t, rr.Header().Get("X-Request-ID"), line["request_id"])
}

func TestLogger_AnonymousRequest(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	rr := httptest.NewRecorder()
	NewLogger(logger)(Auth(errorAuthenticator(nil), testCookie)(&captureHandler{})).
		ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/my/profile", nil))

	line := logLine(t, &buf)
	assert.Equal(t, float64(http.StatusUnauthorized), line["status"])
	assert.NotContains(t, line, "user_id")
}

// Tracing tests swap the global provider, so they do not run in parallel
func installRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	prevProvider := otel.GetTracerProvider()
	prevPropagator := otel.GetTextMapPropagator()
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	t.Cleanup(func() {
		_ = provider.Shutdown(context.Background())
		otel.SetTracerProvider(prevProvider)
		otel.SetTextMapPropagator(prevPropagator)
	})
	return recorder
}

func TestTracing_RecordsServerSpan(t *testing.T) {
	recorder := installRecorder(t)

	Tracing(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/bamboo-grove/event", nil))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "POST /api/bamboo-grove/event", spans[0].Name())
	assert.NotEqual(t, codes.Error, spans[0].Status().Code)
}

func TestTracing_ServerError_SetsErrorStatus(t *testing.T) {
	recorder := installRecorder(t)

	Tracing(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		model.NewDatabaseError().WriteJSON(w)
	})).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/user", nil))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
}

func TestTracing_ContinuesIncomingTrace(t *testing.T) {
	recorder := installRecorder(t)

	req := httptest.NewRequest(http.MethodGet, "/api/my/profile", nil)
	req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	Tracing(&captureHandler{}).ServeHTTP(httptest.NewRecorder(), req)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", spans[0].SpanContext().TraceID().String())
	assert.True(t, strings.HasPrefix(spans[0].Parent().SpanID().String(), "00f067aa"))
}

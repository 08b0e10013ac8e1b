package middleware

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/Creastina/bambushain/internal/model"
)

// RateLimitConfig configures a RateLimiter. Zero values fall back to
// 10 requests per minute with a burst of 5.
type RateLimitConfig struct {
	Rate   int
	Window time.Duration
	Burst  int
	// Cleanup is how often clients with a full bucket are forgotten
	Cleanup time.Duration
}

// RateLimiter keeps a token bucket per client. A bucket holds Rate+Burst
// tokens and refills continuously at Rate tokens per Window.
type RateLimiter struct {
	mu       sync.Mutex
	clients  map[string]*allowance
	limit    int
	capacity float64
	interval time.Duration
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

type allowance struct {
	tokens float64
	seen   time.Time
}

// NewRateLimiter creates a limiter and starts its cleanup loop. Call Stop
// to end the loop.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	if cfg.Rate <= 0 {
		cfg.Rate = 10
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 5
	}
	if cfg.Cleanup <= 0 {
		cfg.Cleanup = 5 * time.Minute
	}

	rl := newRateLimiter(cfg, time.Now)
	go rl.cleanupLoop(cfg.Cleanup)
	return rl
}

func newRateLimiter(cfg RateLimitConfig, now func() time.Time) *RateLimiter {
	return &RateLimiter{
		clients:  make(map[string]*allowance),
		limit:    cfg.Rate,
		capacity: float64(cfg.Rate + cfg.Burst),
		interval: cfg.Window / time.Duration(cfg.Rate),
		now:      now,
		stop:     make(chan struct{}),
	}
}

// Stop ends the cleanup loop. It is safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) cleanupLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.forgetIdle()
		case <-rl.stop:
			return
		}
	}
}

// forgetIdle drops clients whose bucket has refilled completely. They would
// start with a full bucket anyway.
func (rl *RateLimiter) forgetIdle() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for key, a := range rl.clients {
		if a.level(now, rl.interval, rl.capacity) >= rl.capacity {
			delete(rl.clients, key)
		}
	}
}

// level is the token count at now, one token per interval since last seen
func (a *allowance) level(now time.Time, interval time.Duration, capacity float64) float64 {
	return math.Min(capacity, a.tokens+float64(now.Sub(a.seen))/float64(interval))
}

// Allow takes a token from the client's bucket. When none is left it
// reports how long until the next token is available.
func (rl *RateLimiter) Allow(key string) (allowed bool, remaining int, retryAfter time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	a, ok := rl.clients[key]
	if !ok {
		a = &allowance{tokens: rl.capacity}
		rl.clients[key] = a
	} else {
		a.tokens = a.level(now, rl.interval, rl.capacity)
	}
	a.seen = now

	if a.tokens < 1 {
		return false, 0, time.Duration((1 - a.tokens) * float64(rl.interval))
	}
	a.tokens--
	return true, int(a.tokens), 0
}

// clientHost is the remote address without its port
func clientHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimit throttles a route per client host. Rejected requests get a 429
// problem with Retry-After in whole seconds.
func RateLimit(limiter *RateLimiter) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host := clientHost(r)
			allowed, remaining, wait := limiter.Allow(host)

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limiter.limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			if !allowed {
				seconds := max(1, int(math.Ceil(wait.Seconds())))
				w.Header().Set("Retry-After", strconv.Itoa(seconds))

				slog.Warn("rate limit exceeded",
					slog.String("client", host),
					slog.String("path", r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				model.NewRateLimitError(seconds).WriteJSON(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

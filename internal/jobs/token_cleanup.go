package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// TokenStore is satisfied by service.TokenService
type TokenStore interface {
	DeleteExpired(ctx context.Context) (int, error)
}

// TwoFactorStore is satisfied by service.AuthService
type TwoFactorStore interface {
	ClearExpiredTwoFactor(ctx context.Context) (int, error)
}

// TokenCleanup periodically removes expired login tokens and unused two
// factor codes
type TokenCleanup struct {
	tokens    TokenStore
	twoFactor TwoFactorStore
	interval  time.Duration
	stopCh    chan struct{}
	wg        sync.WaitGroup
	running   bool
	mu        sync.Mutex
}

// NewTokenCleanup creates a new cleanup job
func NewTokenCleanup(tokens TokenStore, twoFactor TwoFactorStore, interval time.Duration) *TokenCleanup {
	if interval == 0 {
		interval = time.Hour
	}
	return &TokenCleanup{
		tokens:    tokens,
		twoFactor: twoFactor,
		interval:  interval,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the cleanup loop
func (j *TokenCleanup) Start() {
	j.mu.Lock()
	if j.running {
		j.mu.Unlock()
		return
	}
	j.running = true
	j.mu.Unlock()

	j.wg.Add(1)
	go j.run()
	slog.Info("token cleanup started", "interval", j.interval)
}

// Stop gracefully stops the cleanup loop
func (j *TokenCleanup) Stop() {
	j.mu.Lock()
	if !j.running {
		j.mu.Unlock()
		return
	}
	j.running = false
	j.mu.Unlock()

	close(j.stopCh)
	j.wg.Wait()
	slog.Info("token cleanup stopped")
}

func (j *TokenCleanup) run() {
	defer j.wg.Done()

	j.cleanup()

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.cleanup()
		case <-j.stopCh:
			return
		}
	}
}

func (j *TokenCleanup) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := j.RunOnce(ctx); err != nil {
		slog.Error("token cleanup failed", "error", err)
	}
}

// RunOnce runs a single cleanup pass. Both stores are always cleaned, the
// errors are joined.
func (j *TokenCleanup) RunOnce(ctx context.Context) error {
	tokens, tokenErr := j.tokens.DeleteExpired(ctx)
	codes, codeErr := j.twoFactor.ClearExpiredTwoFactor(ctx)

	if tokens > 0 || codes > 0 {
		slog.Info("removed expired credentials", "tokens", tokens, "two_factor_codes", codes)
	}
	return errors.Join(tokenErr, codeErr)
}

// IsRunning returns whether the loop is running
func (j *TokenCleanup) IsRunning() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.running
}

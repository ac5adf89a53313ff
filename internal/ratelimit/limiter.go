package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter paces outbound probe traffic. It combines a global
// requests-per-second budget, a minimum gap between requests to the same
// host, and a per-call delay; stealth scan modes set the per-call delay
// to several seconds so every network call, not every asset, pays the
// pause.
type Limiter struct {
	limiter      *rate.Limiter
	requestDelay time.Duration
	minHostDelay time.Duration
	lastRequest  map[string]time.Time
	mu           sync.Mutex
}

// Config contains pacing configuration.
type Config struct {
	RequestsPerSecond float64
	BurstSize         int

	// RequestDelay is an unconditional pause before each outbound call.
	// Zero disables per-call pacing.
	RequestDelay time.Duration

	// MinHostDelay is the minimum gap between consecutive requests to
	// the same host.
	MinHostDelay time.Duration
}

// DefaultConfig returns pacing suitable for normal scan modes.
func DefaultConfig() Config {
	return Config{
		RequestsPerSecond: 10.0,
		BurstSize:         5,
		MinHostDelay:      100 * time.Millisecond,
	}
}

// NewLimiter creates a pacing limiter.
func NewLimiter(cfg Config) *Limiter {
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 10.0
	}
	if cfg.BurstSize <= 0 {
		cfg.BurstSize = 1
	}
	return &Limiter{
		limiter:      rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize),
		requestDelay: cfg.RequestDelay,
		minHostDelay: cfg.MinHostDelay,
		lastRequest:  make(map[string]time.Time),
	}
}

// Wait blocks until the global budget allows another request.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// WaitForHost blocks until the global budget allows a request, sleeps
// the per-call delay, then enforces the per-host minimum gap. The
// per-call delay is unconditional; an asset whose pipeline makes three
// calls pays it three times.
func (l *Limiter) WaitForHost(ctx context.Context, host string) error {
	if err := l.limiter.Wait(ctx); err != nil {
		return err
	}

	if l.requestDelay > 0 {
		select {
		case <-time.After(l.requestDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if lastReq, exists := l.lastRequest[host]; exists {
		elapsed := time.Since(lastReq)
		if elapsed < l.minHostDelay {
			select {
			case <-time.After(l.minHostDelay - elapsed):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	l.lastRequest[host] = time.Now()
	return nil
}

// Delay reports the configured per-call delay.
func (l *Limiter) Delay() time.Duration {
	return l.requestDelay
}

// Reset clears per-host state.
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lastRequest = make(map[string]time.Time)
}

package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter enforces a minimum interval between requests to the same domain.
// Unrelated domains never block each other. Safe for concurrent use; the
// elapsed-time check and timestamp update are atomic per domain.
type Limiter struct {
	interval time.Duration

	mu      sync.Mutex
	domains map[string]*rate.Limiter
}

// New creates a Limiter with the given per-domain minimum interval.
func New(interval time.Duration) *Limiter {
	return &Limiter{
		interval: interval,
		domains:  make(map[string]*rate.Limiter),
	}
}

// Wait blocks until at least the configured interval has elapsed since the
// last request to domain, then records the new request.
func (l *Limiter) Wait(ctx context.Context, domain string) error {
	return l.limiterFor(domain).Wait(ctx)
}

func (l *Limiter) limiterFor(domain string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.domains[domain]
	if !ok {
		lim = rate.NewLimiter(rate.Every(l.interval), 1)
		l.domains[domain] = lim
	}
	return lim
}

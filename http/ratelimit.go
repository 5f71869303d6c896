package http

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Defaults for idle limiter eviction.
const (
	DefaultLimiterIdle = 10 * time.Minute
	DefaultSweepEvery  = time.Minute
)

// ClientLimiter provides per-client rate limiting using token buckets,
// keyed by client IP. Buckets unused for a while are dropped by Prune.
type ClientLimiter struct {
	mu       sync.Mutex
	limiters map[string]*clientBucket
	rps      float64
	burst    int

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewClientLimiter creates a ClientLimiter allowing rps requests per second
// per client with the given burst.
func NewClientLimiter(rps float64, burst int) *ClientLimiter {
	if burst < 1 {
		burst = 1
	}
	return &ClientLimiter{
		limiters: make(map[string]*clientBucket),
		rps:      rps,
		burst:    burst,
		Now:      time.Now,
	}
}

// Allow reports whether client may make a request now.
func (l *ClientLimiter) Allow(client string) bool {
	l.mu.Lock()
	b, ok := l.limiters[client]
	if !ok {
		b = &clientBucket{limiter: rate.NewLimiter(rate.Limit(l.rps), l.burst)}
		l.limiters[client] = b
	}
	b.lastSeen = l.Now()
	l.mu.Unlock()

	return b.limiter.Allow()
}

// Len reports how many clients are tracked.
func (l *ClientLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// Prune drops clients not seen for idle and reports how many were dropped.
func (l *ClientLimiter) Prune(idle time.Duration) int {
	cutoff := l.Now().Add(-idle)

	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for client, b := range l.limiters {
		if b.lastSeen.Before(cutoff) {
			delete(l.limiters, client)
			n++
		}
	}
	return n
}

// Sweep prunes clients idle for longer than idle on every tick until ctx is
// done. It returns nil when ctx is cancelled.
func (l *ClientLimiter) Sweep(ctx context.Context, every, idle time.Duration) error {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			l.Prune(idle)
		}
	}
}

// SweepLimiters evicts idle rate limiter buckets until ctx is done. It
// returns immediately when rate limiting is disabled.
func (s *Server) SweepLimiters(ctx context.Context) error {
	if s.limiter == nil {
		return nil
	}
	return s.limiter.Sweep(ctx, DefaultSweepEvery, DefaultLimiterIdle)
}

// rateLimit rejects requests from clients over their budget with 429.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow(clientIP(r)) {
			w.Header().Set("Retry-After", "1")
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Detail: "Too many requests"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP returns the host part of the remote address. Forwarding headers
// only reach it when the server trusts its proxy.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

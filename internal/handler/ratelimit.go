package handler

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// LimiterConfig tunes the per-client token buckets.
type LimiterConfig struct {
	RPS     float64       // steady-state refill rate
	Burst   int           // bucket size
	IdleTTL time.Duration // how long an idle key survives before cleanup
}

type keyLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps an in-memory token bucket per key and evicts idle
// keys in the background so the map cannot grow without bound.
type RateLimiter struct {
	conf    LimiterConfig
	mu      sync.Mutex
	buckets map[string]*keyLimiter
}

// NewRateLimiter constructs a RateLimiter and starts its janitor.
func NewRateLimiter(conf LimiterConfig) *RateLimiter {
	rl := &RateLimiter{
		conf:    conf,
		buckets: make(map[string]*keyLimiter),
	}

	go func() {
		interval := conf.IdleTTL / 2
		if interval <= 0 {
			interval = time.Minute
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			now := time.Now()
			rl.mu.Lock()
			for k, v := range rl.buckets {
				if now.Sub(v.lastSeen) > rl.conf.IdleTTL {
					delete(rl.buckets, k)
				}
			}
			rl.mu.Unlock()
		}
	}()

	return rl
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	now := time.Now()
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if b, ok := rl.buckets[key]; ok {
		b.lastSeen = now
		return b.limiter
	}

	lim := rate.NewLimiter(rate.Limit(rl.conf.RPS), rl.conf.Burst)
	rl.buckets[key] = &keyLimiter{limiter: lim, lastSeen: now}
	return lim
}

// KeySelector decides what a request is limited by, e.g. client IP.
type KeySelector func(r *http.Request) string

// ByClientIP keys buckets on the remote address as resolved by the
// RealIP middleware upstream.
func ByClientIP(r *http.Request) string {
	return r.RemoteAddr
}

// Middleware rejects requests whose bucket has no tokens left with 429.
func (rl *RateLimiter) Middleware(selectKey KeySelector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lim := rl.getLimiter(selectKey(r))
			if !lim.Allow() {
				w.Header().Set("Retry-After", "1")
				writeError(w, http.StatusTooManyRequests, "too many requests, please try again later")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

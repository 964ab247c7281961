package mw

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/MrSnakeDoc/linkmemo/internal/utils"
)

// RateLimitConfig is a per-client token bucket: Burst requests at once,
// refilled at PerMinute.
type RateLimitConfig struct {
	Burst      int
	PerMinute  int
	IdleTTL    time.Duration // forget clients idle for longer (default 15m)
	TrustProxy bool
	Now        func() time.Time // defaults to time.Now
}

type client struct {
	limiter *rate.Limiter
	seen    time.Time
}

type rateLimiter struct {
	mu        sync.Mutex
	burst     int
	perSecond rate.Limit
	idleTTL   time.Duration
	clients   map[string]*client
	nextSweep time.Time
}

func newRateLimiter(cfg RateLimitConfig, now time.Time) *rateLimiter {
	ttl := cfg.IdleTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &rateLimiter{
		burst:     max(cfg.Burst, 1),
		perSecond: rate.Limit(float64(max(cfg.PerMinute, 1)) / 60),
		idleTTL:   ttl,
		clients:   make(map[string]*client),
		nextSweep: now.Add(ttl),
	}
}

// take consumes one token for key. When none is left it returns how long
// until the next token.
func (l *rateLimiter) take(key string, now time.Time) (bool, int, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.After(l.nextSweep) {
		for k, c := range l.clients {
			if now.Sub(c.seen) > l.idleTTL {
				delete(l.clients, k)
			}
		}
		l.nextSweep = now.Add(l.idleTTL)
	}

	c, ok := l.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(l.perSecond, l.burst)}
		l.clients[key] = c
	}
	c.seen = now

	if tokens := c.limiter.TokensAt(now); tokens < 1 {
		wait := time.Duration((1 - tokens) / float64(l.perSecond) * float64(time.Second))
		return false, 0, wait
	}
	c.limiter.AllowN(now, 1)
	return true, int(c.limiter.TokensAt(now)), 0
}

// RateLimit answers 429 with Retry-After once a client exhausts its bucket.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	l := newRateLimiter(cfg, now())
	limit := strconv.Itoa(l.burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, remaining, wait := l.take(utils.ClientIP(r, cfg.TrustProxy), now())

			w.Header().Set("X-RateLimit-Limit", limit)
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			if !ok {
				retry := int(math.Ceil(wait.Seconds()))
				w.Header().Set("Retry-After", strconv.Itoa(max(retry, 1)))
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

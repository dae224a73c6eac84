package binder

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig configures the RateLimit middleware. Rate is in requests
// per second; Burst is the token bucket size.
type RateLimitConfig struct {
	Rate  float64
	Burst int

	// KeyFunc buckets requests. The default is the client IP.
	KeyFunc func(r *http.Request) string

	// Buckets unused for MaxIdle (default 5m) are dropped, checked at most
	// once per CleanupInterval (default 1m).
	CleanupInterval time.Duration
	MaxIdle         time.Duration
}

// RateLimit returns middleware that throttles each key separately. A
// throttled request is answered with a 429 problem document and a
// Retry-After header; it never reaches the router.
func RateLimit(cfg RateLimitConfig) Middleware {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = clientIP
	}
	buckets := newBucketSet(rate.Limit(cfg.Rate), cfg.Burst, cfg.CleanupInterval, cfg.MaxIdle)
	retryAfter := strconv.Itoa(retrySeconds(cfg.Rate))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if buckets.allow(cfg.KeyFunc(r), time.Now()) {
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Set("Retry-After", retryAfter)
			writeProblem(w, r, Error(http.StatusTooManyRequests, "rate limit exceeded"))
		})
	}
}

// retrySeconds is the wait, rounded up, until one token is back.
func retrySeconds(perSecond float64) int {
	if perSecond <= 0 || perSecond >= 1 {
		return 1
	}
	return int(math.Ceil(1 / perSecond))
}

func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// bucketSet holds one token bucket per key and prunes idle ones lazily.
type bucketSet struct {
	limit   rate.Limit
	burst   int
	every   time.Duration
	maxIdle time.Duration

	mu      sync.Mutex
	buckets map[string]*bucket
	pruned  time.Time
}

type bucket struct {
	lim  *rate.Limiter
	used time.Time
}

func newBucketSet(limit rate.Limit, burst int, every, maxIdle time.Duration) *bucketSet {
	if every <= 0 {
		every = time.Minute
	}
	if maxIdle <= 0 {
		maxIdle = 5 * time.Minute
	}
	return &bucketSet{
		limit:   limit,
		burst:   burst,
		every:   every,
		maxIdle: maxIdle,
		buckets: make(map[string]*bucket),
	}
}

func (s *bucketSet) allow(key string, now time.Time) bool {
	s.mu.Lock()
	if now.Sub(s.pruned) >= s.every {
		for k, b := range s.buckets {
			if now.Sub(b.used) > s.maxIdle {
				delete(s.buckets, k)
			}
		}
		s.pruned = now
	}
	b, ok := s.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(s.limit, s.burst)}
		s.buckets[key] = b
	}
	b.used = now
	s.mu.Unlock()

	return b.lim.AllowN(now, 1)
}

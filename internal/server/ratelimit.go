package server

import (
	"net/http"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

// maxLimiterEntries bounds the per-IP bucket cache.
const maxLimiterEntries = 10000

// ipLimiter hands out one token bucket per client IP, allowing `events`
// requests per `window` with a burst of the full budget. Idle buckets are
// evicted after a quiet window.
type ipLimiter struct {
	buckets *expirable.LRU[string, *rate.Limiter]
	limit   rate.Limit
	burst   int
}

func newIPLimiter(events int, window time.Duration) *ipLimiter {
	return &ipLimiter{
		buckets: expirable.NewLRU[string, *rate.Limiter](maxLimiterEntries, nil, window),
		limit:   rate.Every(window / time.Duration(events)),
		burst:   events,
	}
}

func (l *ipLimiter) allow(ip string) bool {
	bucket, ok := l.buckets.Get(ip)
	if !ok {
		bucket = rate.NewLimiter(l.limit, l.burst)
		l.buckets.Add(ip, bucket)
	}
	return bucket.Allow()
}

func (l *ipLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.allow(clientIP(r)) {
			writeJSON(w, http.StatusTooManyRequests, map[string]any{"error": "rate limit exceeded"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/profilku/profilku/pkg/metrics"
	"golang.org/x/time/rate"
)

// limiterIdle is how long an unused bucket is kept. A bucket idle that long
// has refilled anyway, so dropping it changes nothing for the client.
const limiterIdle = 10 * time.Minute

type limiterEntry struct {
	lim  *rate.Limiter
	seen time.Time
}

// limiterStore is the per-key token-bucket store. Idle entries are swept at
// most once per limiterIdle.
type limiterStore struct {
	mu        sync.Mutex
	entries   map[string]*limiterEntry
	lastSweep time.Time
}

var limiters = &limiterStore{entries: map[string]*limiterEntry{}}

// get returns (and lazily creates) the limiter for key.
func (s *limiterStore) get(key string, rps float64, burst int, now time.Time) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()
	if now.Sub(s.lastSweep) >= limiterIdle {
		for k, e := range s.entries {
			if now.Sub(e.seen) >= limiterIdle {
				delete(s.entries, k)
			}
		}
		s.lastSweep = now
	}
	e, ok := s.entries[key]
	if !ok {
		e = &limiterEntry{lim: rate.NewLimiter(rate.Limit(rps), burst)}
		s.entries[key] = e
	}
	e.seen = now
	return e.lim
}

func (s *limiterStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// RateLimitMiddleware returns a Gin middleware enforcing a token-bucket limit per client IP.
// rps = allowed events per second, burst = maximum tokens in bucket.
func RateLimitMiddleware(rps float64, burst int) gin.HandlerFunc {
	return func(c *gin.Context) {
		lim := limiters.get(limitKey(c), rps, burst, time.Now())
		if !lim.Allow() {
			c.Header("Retry-After", "1")
			metrics.RateLimitRejected.WithLabelValues("memory").Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			return
		}
		metrics.RateLimitAllowed.WithLabelValues("memory").Inc()
		c.Next()
	}
}

// limitKey is the client IP as Gin resolves it (trusted proxies applied).
// The session cookie is not used: the client picks it, so a fresh or forged
// id per request would get a fresh bucket.
func limitKey(c *gin.Context) string {
	ip := c.ClientIP()
	if ip == "" {
		ip = "unknown"
	}
	return "ip:" + ip
}

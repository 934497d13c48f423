package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/zhouzirui/pirate-chat/internal/metrics"
	"github.com/zhouzirui/pirate-chat/pkg/utils"
)

// IPLimiter keeps one token bucket per client IP.
type IPLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limitEntry
	rps      rate.Limit
	burst    int
	expiry   time.Duration
	now      func() time.Time
}

type limitEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewIPLimiter creates a limiter allowing rps requests per second per IP with the given burst.
func NewIPLimiter(rps float64, burst int) *IPLimiter {
	return &IPLimiter{
		limiters: make(map[string]*limitEntry),
		rps:      rate.Limit(rps),
		burst:    burst,
		expiry:   time.Hour,
		now:      time.Now,
	}
}

// Allow checks if a request from the given IP is allowed.
func (il *IPLimiter) Allow(ip string) bool {
	il.mu.Lock()
	defer il.mu.Unlock()

	now := il.now()
	entry, ok := il.limiters[ip]
	if !ok {
		entry = &limitEntry{limiter: rate.NewLimiter(il.rps, il.burst)}
		il.limiters[ip] = entry
	}
	entry.lastSeen = now

	return entry.limiter.AllowN(now, 1)
}

// Cleanup drops limiters for IPs not seen within the expiry window.
func (il *IPLimiter) Cleanup() int {
	il.mu.Lock()
	defer il.mu.Unlock()

	now := il.now()
	removed := 0
	for ip, entry := range il.limiters {
		if now.Sub(entry.lastSeen) > il.expiry {
			delete(il.limiters, ip)
			removed++
		}
	}
	return removed
}

// Middleware rejects requests over the limit with 429. It relies on chi's
// RealIP middleware having normalised RemoteAddr.
func (il *IPLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !il.Allow(clientIP(r.RemoteAddr)) {
			metrics.RateLimitExceeded.Inc()
			w.Header().Set("Retry-After", "1")
			utils.RespondError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}

package auth

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	rateLimitWindow  = 1 * time.Minute
	rateLimitMaxFail = 10
	sweepInterval    = 5 * time.Minute
)

type failureEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// failureLimiter tracks failed API key attempts per IP. Each IP may fail
// rateLimitMaxFail times per rateLimitWindow.
type failureLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*failureEntry
	now       func() time.Time
	lastSweep time.Time
}

func newFailureLimiter() *failureLimiter {
	return &failureLimiter{limiters: make(map[string]*failureEntry), now: time.Now}
}

func (fl *failureLimiter) get(ip string) *rate.Limiter {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	now := fl.now()
	if now.Sub(fl.lastSweep) > sweepInterval {
		fl.sweep(now)
	}

	e, ok := fl.limiters[ip]
	if !ok {
		e = &failureEntry{limiter: rate.NewLimiter(rate.Every(rateLimitWindow/rateLimitMaxFail), rateLimitMaxFail)}
		fl.limiters[ip] = e
	}
	e.lastSeen = now
	return e.limiter
}

// sweep drops IPs idle for longer than a window. Their buckets have refilled
// completely by then, so a fresh limiter is equivalent.
func (fl *failureLimiter) sweep(now time.Time) {
	for ip, e := range fl.limiters {
		if now.Sub(e.lastSeen) > rateLimitWindow {
			delete(fl.limiters, ip)
		}
	}
	fl.lastSweep = now
}

// blocked reports whether ip has used up its failures.
func (fl *failureLimiter) blocked(ip string) bool {
	return fl.get(ip).Tokens() < 1
}

func (fl *failureLimiter) recordFailure(ip string) {
	fl.get(ip).Allow()
}

// RequireAPIKey is middleware that validates Bearer token auth for /api/ routes.
// Non-API routes pass through untouched.
// Returns 401 for missing/invalid keys, 429 for IPs with too many failures.
func RequireAPIKey(apiKeys *APIKeyStore, log *zap.Logger, next http.Handler) http.Handler {
	limiter := newFailureLimiter()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Only intercept /api/ paths
		if !strings.HasPrefix(r.URL.Path, "/api/") {
			next.ServeHTTP(w, r)
			return
		}

		ip := ClientIP(r)
		if limiter.blocked(ip) {
			writeError(w, http.StatusTooManyRequests, "too many failed attempts")
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			limiter.recordFailure(ip)
			writeError(w, http.StatusUnauthorized, "authorization required")
			return
		}

		key := strings.TrimPrefix(authHeader, "Bearer ")

		valid, err := apiKeys.Validate(r.Context(), key)
		if err != nil {
			log.Error("validating api key", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if !valid {
			limiter.recordFailure(ip)
			writeError(w, http.StatusUnauthorized, "invalid API key")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ClientIP returns the host part of the request's remote address.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

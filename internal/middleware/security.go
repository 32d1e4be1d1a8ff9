package middleware

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/devfolio/portfolio-backend/pkg/fingerprint"
)

const (
	headerXContentTypeOptions     = "X-Content-Type-Options"
	headerXFrameOptions           = "X-Frame-Options"
	headerXXSSProtection          = "X-XSS-Protection"
	headerContentSecurityPolicy   = "Content-Security-Policy"
	headerStrictTransportSecurity = "Strict-Transport-Security"
)

// SecurityHeaders sets security-related response headers.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(headerXContentTypeOptions, "nosniff")
		w.Header().Set(headerXFrameOptions, "DENY")
		w.Header().Set(headerXXSSProtection, "1; mode=block")
		w.Header().Set(headerContentSecurityPolicy, "default-src 'self'")
		w.Header().Set(headerStrictTransportSecurity, "max-age=31536000; includeSubDomains")
		next.ServeHTTP(w, r)
	})
}

const (
	limiterCleanupInterval = 5 * time.Minute
	limiterTTL             = 30 * time.Minute
)

type limiterEntry struct {
	limiter *rate.Limiter
	lastUse time.Time
}

// IPRateLimiter keeps a token bucket per client IP. Entries idle for
// limiterTTL are dropped by a background sweep so the map stays bounded.
type IPRateLimiter struct {
	mu      sync.Mutex
	entries map[string]*limiterEntry
	limit   rate.Limit
	burst   int

	cleanupOnce sync.Once
	message     string
}

// NewIPRateLimiter builds a limiter allowing limit events/sec with the
// given burst. message is the JSON body sent with a 429.
func NewIPRateLimiter(limit rate.Limit, burst int, message string) *IPRateLimiter {
	return &IPRateLimiter{
		entries: make(map[string]*limiterEntry),
		limit:   limit,
		burst:   burst,
		message: message,
	}
}

func (l *IPRateLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cleanupOnce.Do(l.startCleanup)
	e, ok := l.entries[ip]
	if !ok {
		e = &limiterEntry{
			limiter: rate.NewLimiter(l.limit, l.burst),
			lastUse: time.Now(),
		}
		l.entries[ip] = e
	}
	e.lastUse = time.Now()
	return e.limiter
}

func (l *IPRateLimiter) startCleanup() {
	go func() {
		ticker := time.NewTicker(limiterCleanupInterval)
		defer ticker.Stop()
		for range ticker.C {
			l.mu.Lock()
			now := time.Now()
			for ip, e := range l.entries {
				if now.Sub(e.lastUse) > limiterTTL {
					delete(l.entries, ip)
				}
			}
			l.mu.Unlock()
		}
	}()
}

// Handler limits every request through it.
func (l *IPRateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := fingerprint.ClientIP(r)
		if !l.get(ip).Allow() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(l.message))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// PathHandler limits only the listed paths. Used for the admin sign-in
// route, which gets a much tighter budget than the rest of the API.
func (l *IPRateLimiter) PathHandler(paths map[string]bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !paths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}
			ip := fingerprint.ClientIP(r)
			if !l.get(ip).Allow() {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(l.message))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GlobalRateLimit limits each IP to 1 req/s, burst 10.
func GlobalRateLimit() func(http.Handler) http.Handler {
	l := NewIPRateLimiter(rate.Limit(1), 10,
		`{"success":false,"message":"Too many requests. Please slow down."}`)
	return l.Handler
}

// SigninRateLimit limits the admin sign-in route to 1 req/5s, burst 2.
func SigninRateLimit() func(http.Handler) http.Handler {
	l := NewIPRateLimiter(rate.Every(5*time.Second), 2,
		`{"success":false,"message":"Too many login attempts. Please try again later."}`)
	return l.PathHandler(map[string]bool{
		"/api/admin/signin": true,
	})
}

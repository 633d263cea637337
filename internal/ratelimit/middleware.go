package ratelimit

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// StatsEvent describes one allow/deny decision.
type StatsEvent struct {
	Key     string
	Allowed bool
	Method  string
	Path    string
	At      time.Time
}

// StatsRecorder records per-key allow/deny outcomes.
type StatsRecorder interface {
	Record(ctx context.Context, ev StatsEvent) error
}

// Options configures the rate-limit middleware.
type Options struct {
	Store      *Store
	Stats      StatsRecorder
	RetryAfter time.Duration
}

// ClientKey derives the limiter key from the request origin.
func ClientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}

// Middleware wraps a handler with per-client token-bucket limiting.
// Rejected requests get 429 with a Retry-After hint.
func Middleware(opts Options) func(next http.Handler) http.Handler {
	if opts.RetryAfter == 0 {
		opts.RetryAfter = 1 * time.Second
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := ClientKey(r)
			allowed := opts.Store.Get(key).Allow()

			if opts.Stats != nil {
				_ = opts.Stats.Record(r.Context(), StatsEvent{
					Key:     key,
					Allowed: allowed,
					Method:  r.Method,
					Path:    r.URL.Path,
					At:      time.Now(),
				})
			}

			if !allowed {
				w.Header().Set("Retry-After", strconv.Itoa(int(opts.RetryAfter.Seconds())))
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

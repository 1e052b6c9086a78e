package api

import (
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/masmgr/gamerules/internal/logging"
	"github.com/masmgr/gamerules/internal/metrics"
)

// MiddlewareConfig holds configuration for the CORS and rate limit middleware.
type MiddlewareConfig struct {
	AllowedOrigins []string

	RateLimitRequests int // 0 disables rate limiting
	RateLimitWindow   time.Duration
}

// DefaultMiddlewareConfig returns the default middleware configuration.
// CORS origins default to empty, so browsers on other origins are refused.
func DefaultMiddlewareConfig() MiddlewareConfig {
	return MiddlewareConfig{
		AllowedOrigins:    []string{},
		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
	}
}

// CORS returns a go-chi/cors handler allowing read-only requests from the
// configured origins.
func CORS(cfg MiddlewareConfig) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", chimiddleware.RequestIDHeader},
		MaxAge:         86400,
	})
}

// RateLimit returns an IP-keyed go-chi/httprate limiter that answers with a
// problem document when the limit is hit.
func RateLimit(cfg MiddlewareConfig) func(http.Handler) http.Handler {
	if cfg.RateLimitRequests <= 0 {
		return func(next http.Handler) http.Handler {
			return next
		}
	}
	return httprate.Limit(
		cfg.RateLimitRequests,
		cfg.RateLimitWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			WriteProblem(w, r, http.StatusTooManyRequests, "Rate limit exceeded")
		}),
	)
}

// RequestLogger logs each request through zerolog and records request metrics
// under the matched route pattern.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		duration := time.Since(start)

		metrics.RecordAPIRequest(r.Method, route, strconv.Itoa(status), duration)
		logging.Info().
			Str("request_id", chimiddleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", duration).
			Msg("request")
	})
}

// Recoverer catches panics and returns 500 Problem Details.
// Panic details are logged but never exposed to the client.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logging.Error().
					Interface("panic", rec).
					Str("stack", string(debug.Stack())).
					Str("path", r.URL.Path).
					Msg("panic recovered")
				WriteProblem(w, r, http.StatusInternalServerError, "Internal Server Error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

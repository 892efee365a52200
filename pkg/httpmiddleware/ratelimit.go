package httpmiddleware

import (
	"net/http"
	"time"

	"github.com/go-faster/sdk/zctx"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	"go.uber.org/zap"
)

// RateLimitConfig configures the per-client rate limiter.
type RateLimitConfig struct {
	// Max is the maximum number of requests allowed per window.
	Max int
	// Window is the duration of each window.
	Window time.Duration
	// TrustForwardHeader keys clients by X-Forwarded-For / X-Real-IP
	// instead of the remote address.
	TrustForwardHeader bool
	// KeyFunc extracts the rate limit key from a request. If nil, the
	// client IP address is used.
	KeyFunc func(*http.Request) string
}

// RateLimit returns a middleware that enforces a per-key request rate.
// Rejected requests get 429 with a JSON body. Every response carries
// X-RateLimit-Limit, X-RateLimit-Remaining and X-RateLimit-Reset headers.
//
// Counters live in an in-memory store that evicts expired entries every
// two windows. The eviction goroutine belongs to the store and exits once
// the returned middleware is no longer referenced and has been garbage
// collected, so build the middleware once per server.
func RateLimit(cfg RateLimitConfig) Middleware {
	store := memory.NewStoreWithOptions(limiter.StoreOptions{
		Prefix:          "billing",
		CleanUpInterval: 2 * cfg.Window,
	})
	lim := limiter.New(store,
		limiter.Rate{Period: cfg.Window, Limit: int64(cfg.Max)},
		limiter.WithTrustForwardHeader(cfg.TrustForwardHeader),
	)

	opts := []stdlib.Option{
		stdlib.WithLimitReachedHandler(limitReached),
		stdlib.WithErrorHandler(limiterError),
	}
	if cfg.KeyFunc != nil {
		opts = append(opts, stdlib.WithKeyGetter(cfg.KeyFunc))
	}
	return stdlib.NewMiddleware(lim, opts...).Handler
}

func limitReached(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
}

func limiterError(w http.ResponseWriter, r *http.Request, err error) {
	zctx.From(r.Context()).Error("Rate limiter failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal server error")
}

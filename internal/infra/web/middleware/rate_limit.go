package middleware

import (
	"net/http"
	"time"

	"github.com/DioGolang/GoTodo/internal/infra/web/response"
	"github.com/DioGolang/GoTodo/pkg/logger"
	"github.com/DioGolang/GoTodo/pkg/metrics"
	"github.com/go-chi/httprate"
)

type RateLimiterConfig struct {
	Name     string        // value of the limiter label on rejections
	Requests int           // requests allowed per client per window
	Window   time.Duration // sliding window length
	// TrustProxy keys clients by True-Client-IP, X-Real-IP or X-Forwarded-For.
	// Only enable it behind a proxy that overwrites those headers.
	TrustProxy bool
}

// RateLimiter is a sliding-window limiter keyed by the client socket IP. It advertises
// the RateLimit-* headers on every response and Retry-After when rejecting.
type RateLimiter struct {
	config  RateLimiterConfig
	metrics metrics.Metrics
	log     logger.Logger
	limit   func(http.Handler) http.Handler
}

func NewRateLimiter(conf RateLimiterConfig, m metrics.Metrics, log logger.Logger) *RateLimiter {
	l := &RateLimiter{
		config:  conf,
		metrics: m,
		log:     log,
	}
	key := httprate.KeyByIP
	if conf.TrustProxy {
		key = httprate.KeyByRealIP
	}
	l.limit = httprate.Limit(conf.Requests, conf.Window,
		httprate.WithKeyFuncs(key),
		httprate.WithLimitHandler(l.reject),
		httprate.WithResponseHeaders(httprate.ResponseHeaders{
			Limit:      "RateLimit-Limit",
			Remaining:  "RateLimit-Remaining",
			Reset:      "RateLimit-Reset",
			RetryAfter: "Retry-After",
		}),
	)
	return l
}

func (l *RateLimiter) Handler(next http.Handler) http.Handler {
	return l.limit(next)
}

func (l *RateLimiter) reject(w http.ResponseWriter, r *http.Request) {
	l.metrics.RecordRateLimited(l.config.Name)
	l.log.Warn(r.Context(), "rate limit exceeded",
		logger.String("limiter", l.config.Name),
		logger.String("remoteAddr", r.RemoteAddr),
		logger.String("path", r.URL.Path),
	)
	response.TooManyRequests(w)
}

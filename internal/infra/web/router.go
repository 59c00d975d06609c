package web

import (
	"net/http"
	"time"

	"github.com/DioGolang/GoTodo/internal/infra/web/handler"
	"github.com/DioGolang/GoTodo/internal/infra/web/middleware"
	"github.com/DioGolang/GoTodo/internal/infra/web/response"
	"github.com/DioGolang/GoTodo/pkg/logger"
	"github.com/DioGolang/GoTodo/pkg/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/riandyrn/otelchi"
)

type RouterConfig struct {
	ServiceName     string
	AllowedOrigins  []string
	CSPExtraOrigins []string
	MaxBodyBytes    int64
	RateLimitWindow time.Duration
	RateLimitAPI    int
	RateLimitMutate int
	TrustProxy      bool
}

type Handlers struct {
	Todo      *handler.Todo
	Info      http.Handler
	Liveness  http.Handler
	Readiness http.Handler
	Metrics   http.Handler
}

// NewRouter assembles the middleware chain in order: request id, tracing,
// instrumentation, hardening headers, CORS, body cap, then rate limits on
// the /api routes.
func NewRouter(cfg RouterConfig, instrumenter *middleware.Instrumenter, m metrics.Metrics, log logger.Logger, h Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(otelchi.Middleware(cfg.ServiceName, otelchi.WithChiRoutes(r)))
	r.Use(instrumenter.Handler)
	r.Use(middleware.SecureHeaders(cfg.CSPExtraOrigins))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.BodyLimit(cfg.MaxBodyBytes))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.Fail(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.Fail(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/", handler.Index)
	r.Method(http.MethodGet, "/health", h.Liveness)
	r.Method(http.MethodGet, "/health/ready", h.Readiness)
	r.Method(http.MethodGet, "/metrics", h.Metrics)

	apiLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Name:       "api",
		Requests:   cfg.RateLimitAPI,
		Window:     cfg.RateLimitWindow,
		TrustProxy: cfg.TrustProxy,
	}, m, log)
	mutationLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Name:       "mutations",
		Requests:   cfg.RateLimitMutate,
		Window:     cfg.RateLimitWindow,
		TrustProxy: cfg.TrustProxy,
	}, m, log)

	r.Group(func(r chi.Router) {
		r.Use(apiLimiter.Handler)

		r.Get("/api/todos", h.Todo.List)
		r.With(mutationLimiter.Handler).Post("/api/todos", h.Todo.Create)
		r.Get("/api/todos/{id}", h.Todo.Get)
		r.Put("/api/todos/{id}/toggle", h.Todo.Toggle)
		r.With(mutationLimiter.Handler).Delete("/api/todos/{id}", h.Todo.Delete)
		r.Get("/api/stats", h.Todo.Stats)
		r.Method(http.MethodGet, "/api/info", h.Info)
	})

	return r
}

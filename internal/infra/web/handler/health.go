package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/DioGolang/GoTodo/internal/infra/web/response"
	"github.com/hellofresh/health-go/v5"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type healthOptions struct {
	checks []health.Config
}

type HealthOption func(*healthOptions)

func WithTodoStore(store Pinger) HealthOption {
	return func(o *healthOptions) {
		if store == nil {
			return
		}
		o.checks = append(o.checks, health.Config{
			Name:      "todo-store",
			Timeout:   2 * time.Second,
			SkipOnErr: false,
			Check:     store.Ping,
		})
	}
}

// NewReadinessHandler reports every registered dependency check.
func NewReadinessHandler(serviceName, version string, opts ...HealthOption) (http.Handler, error) {
	options := &healthOptions{
		checks: make([]health.Config, 0),
	}

	for _, opt := range opts {
		opt(options)
	}

	h, err := health.New(
		health.WithComponent(health.Component{
			Name:    serviceName,
			Version: version,
		}),
		health.WithChecks(options.checks...),
	)
	if err != nil {
		return nil, err
	}
	return h.Handler(), nil
}

type liveness struct {
	Status    string  `json:"status"`
	Uptime    float64 `json:"uptime"`
	Timestamp string  `json:"timestamp"`
}

// NewLivenessHandler always answers 200 while the process is serving.
func NewLivenessHandler(startedAt time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now()
		response.JSON(w, http.StatusOK, liveness{
			Status:    "healthy",
			Uptime:    now.Sub(startedAt).Seconds(),
			Timestamp: now.UTC().Format(time.RFC3339Nano),
		})
	}
}

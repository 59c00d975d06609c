package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/DioGolang/GoTodo/pkg/logger"
	"github.com/go-chi/chi/v5/middleware"
)

type completion struct {
	seq       uint64
	route     string
	status    int
	duration  time.Duration
	cpu       time.Duration
	reqBytes  int64
	respBytes int64
}

// logCompletion writes the single per-request log line. The level follows
// the status class.
func logCompletion(ctx context.Context, log logger.Logger, r *http.Request, c completion) {
	fields := []logger.Field{
		logger.Int64("requestSeq", int64(c.seq)),
		logger.String("method", r.Method),
		logger.String("path", r.URL.Path),
		logger.String("route", c.route),
		logger.Int("status", c.status),
		logger.Float64("durationMs", float64(c.duration.Microseconds())/1000),
		logger.Float64("cpuMs", float64(c.cpu.Microseconds())/1000),
		logger.Int64("requestBytes", c.reqBytes),
		logger.Int64("responseBytes", c.respBytes),
		logger.String("remoteAddr", r.RemoteAddr),
	}
	if id := middleware.GetReqID(ctx); id != "" {
		fields = append(fields, logger.String("requestId", id))
	}

	switch {
	case c.status >= http.StatusInternalServerError:
		log.Error(ctx, "http request processed", fields...)
	case c.status >= http.StatusBadRequest:
		log.Warn(ctx, "http request processed", fields...)
	default:
		log.Info(ctx, "http request processed", fields...)
	}
}

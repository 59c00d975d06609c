package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/DioGolang/GoTodo/internal/infra/web/response"
	"github.com/DioGolang/GoTodo/pkg/logger"
	"github.com/DioGolang/GoTodo/pkg/metrics"
	"github.com/DioGolang/GoTodo/pkg/otel"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	// StatusClientClosedRequest is recorded when the client went away before
	// anything was written.
	StatusClientClosedRequest = 499

	unmatchedRoute = "unmatched"
)

type InstrumentOption func(*Instrumenter)

// WithCollapseUnmatched labels requests that matched no route as
// "unmatched" instead of their literal path.
func WithCollapseUnmatched(on bool) InstrumentOption {
	return func(in *Instrumenter) {
		in.collapseUnmatched = on
	}
}

func withCPUClock(fn func() time.Duration) InstrumentOption {
	return func(in *Instrumenter) {
		in.cpuTime = fn
	}
}

// Instrumenter produces exactly one metric observation and one completion
// log line per request, including requests that panic or are cancelled.
type Instrumenter struct {
	metrics           metrics.Metrics
	log               logger.Logger
	collapseUnmatched bool
	cpuTime           func() time.Duration
	seq               atomic.Uint64
}

func NewInstrumenter(m metrics.Metrics, log logger.Logger, opts ...InstrumentOption) *Instrumenter {
	in := &Instrumenter{
		metrics: m,
		log:     log,
		cpuTime: processCPU,
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// RequestCount is the number of requests seen since start.
func (in *Instrumenter) RequestCount() uint64 {
	return in.seq.Load()
}

func (in *Instrumenter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seq := in.seq.Add(1)
		start := time.Now()
		cpuStart := in.cpuTime()

		var reqBytes int64
		if r.ContentLength > 0 {
			reqBytes = r.ContentLength
		}

		// The in-flight key is fixed here so the decrement always matches.
		method, path := r.Method, r.URL.Path
		in.metrics.IncInFlight(method, path)

		if ids, ok := otel.CurrentSpan(r.Context()); ok {
			w.Header().Set("X-Trace-Id", ids.TraceID)
		}
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			rec := recover()
			wrote := ww.Status() != 0

			status := ww.Status()
			switch {
			case rec != nil && rec == http.ErrAbortHandler && r.Context().Err() != nil:
				status = StatusClientClosedRequest
			case rec != nil && !wrote:
				status = http.StatusInternalServerError
			case !wrote && r.Context().Err() != nil:
				status = StatusClientClosedRequest
			case !wrote:
				status = http.StatusOK
			}

			in.metrics.DecInFlight(method, path)
			c := completion{
				seq:       seq,
				route:     in.route(r),
				status:    status,
				duration:  time.Since(start),
				cpu:       in.cpuTime() - cpuStart,
				reqBytes:  reqBytes,
				respBytes: responseBytes(ww),
			}
			in.metrics.ObserveHTTPRequest(metrics.RequestObservation{
				Method:        method,
				Route:         c.route,
				Status:        c.status,
				Duration:      c.duration,
				CPU:           c.cpu,
				RequestBytes:  c.reqBytes,
				ResponseBytes: c.respBytes,
			})

			if rec != nil {
				in.log.Error(r.Context(), "panic recovered",
					logger.Int64("requestSeq", int64(seq)),
					logger.String("method", method),
					logger.String("path", path),
					logger.WithError(panicError(rec)),
					logger.String("stack", string(debug.Stack())),
				)
			}
			logCompletion(r.Context(), in.log, r, c)

			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			if !wrote {
				response.Internal(ww)
			}
		}()

		next.ServeHTTP(ww, r)
	})
}

func (in *Instrumenter) route(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	if in.collapseUnmatched {
		return unmatchedRoute
	}
	return r.URL.Path
}

// responseBytes prefers the declared Content-Length and falls back to the
// bytes actually written.
func responseBytes(ww middleware.WrapResponseWriter) int64 {
	if cl := ww.Header().Get("Content-Length"); cl != "" {
		if n, err := strconv.ParseInt(cl, 10, 64); err == nil && n >= 0 {
			return n
		}
	}
	return int64(ww.BytesWritten())
}

func panicError(rec any) error {
	if err, ok := rec.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return errors.New(fmt.Sprint("panic: ", rec))
}

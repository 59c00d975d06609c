package metrics

import (
	"strconv"
	"time"
)

var (
	durationBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	sizeBuckets     = []float64{100, 500, 1000, 5000, 10000, 50000, 100000, 500000, 1000000}
)

// Pre-rendered status codes 100-599 to avoid strconv.Itoa on every request.
var statusStrings [600]string

func init() {
	for i := 100; i < 600; i++ {
		statusStrings[i] = strconv.Itoa(i)
	}
}

func statusString(code int) string {
	if code >= 100 && code < 600 {
		return statusStrings[code]
	}
	return strconv.Itoa(code)
}

type Prometheus struct {
	httpRequests    *Counter
	httpDuration    *Histogram
	httpCPU         *Counter
	httpErrors      *Counter
	httpInFlight    *Gauge
	requestSize     *Histogram
	responseSize    *Histogram
	rateLimited     *Counter
	todosCreated    *Counter
	todosCompleted  *Counter
	todosDeleted    *Counter
	todosActive     *Gauge
	todosDone       *Gauge
	todosByCategory *Gauge
	useCaseTotal    *Counter
	useCaseDuration *Histogram
	appInfo         *Gauge

	// OnError receives failures from individual metric updates. Defaults to a no-op.
	OnError func(error)
}

// builder keeps the first registration error so the metric table stays flat.
type builder struct {
	reg *Registry
	err error
}

func (b *builder) counter(name, help string, labels ...string) *Counter {
	if b.err != nil {
		return nil
	}
	c, err := b.reg.Counter(name, help, labels...)
	b.err = err
	return c
}

func (b *builder) gauge(name, help string, labels ...string) *Gauge {
	if b.err != nil {
		return nil
	}
	g, err := b.reg.Gauge(name, help, labels...)
	b.err = err
	return g
}

func (b *builder) histogram(name, help string, buckets []float64, labels ...string) *Histogram {
	if b.err != nil {
		return nil
	}
	h, err := b.reg.Histogram(name, help, buckets, labels...)
	b.err = err
	return h
}

func NewPrometheusMetrics(reg *Registry, version string) (*Prometheus, error) {
	b := &builder{reg: reg}
	m := &Prometheus{
		httpRequests: b.counter("http_requests_total",
			"Total HTTP requests.", "method", "route", "status"),
		httpDuration: b.histogram("http_request_duration_seconds",
			"HTTP request latency.", durationBuckets, "method", "route", "status"),
		httpCPU: b.counter("http_request_cpu_seconds_total",
			"Process CPU time spent while serving HTTP requests.", "method", "route", "status"),
		httpErrors: b.counter("http_errors_total",
			"HTTP responses with status >= 400.", "method", "route", "status"),
		httpInFlight: b.gauge("http_requests_in_flight",
			"HTTP requests currently being served.", "method", "path"),
		requestSize: b.histogram("http_request_size_bytes",
			"Declared HTTP request body size.", sizeBuckets, "method", "route"),
		responseSize: b.histogram("http_response_size_bytes",
			"HTTP response body size.", sizeBuckets, "method", "route", "status"),
		rateLimited: b.counter("rate_limit_rejections_total",
			"Requests rejected by a rate limiter.", "limiter"),
		todosCreated: b.counter("todos_created_total",
			"Total todos created.", "priority"),
		todosCompleted: b.counter("todos_completed_total",
			"Total todos marked as completed.", "priority"),
		todosDeleted: b.counter("todos_deleted_total",
			"Total todos deleted."),
		todosActive: b.gauge("todos_active",
			"Todos not yet completed."),
		todosDone: b.gauge("todos_completed",
			"Todos currently completed."),
		todosByCategory: b.gauge("todos_active_by_category",
			"Todos not yet completed per category.", "category"),
		useCaseTotal: b.counter("app_usecase_total",
			"Total number of Use Case executions.", "use_case", "status"),
		useCaseDuration: b.histogram("app_usecase_duration_seconds",
			"Use Case execution latency.", durationBuckets, "use_case", "status"),
		appInfo: b.gauge("app_info",
			"Build information.", "version"),
	}
	if b.err != nil {
		return nil, b.err
	}
	if err := m.appInfo.Set(1, version); err != nil {
		return nil, err
	}
	return m, nil
}

func (p *Prometheus) report(err error) {
	if err != nil && p.OnError != nil {
		p.OnError(err)
	}
}

func (p *Prometheus) IncInFlight(method, path string) {
	p.report(p.httpInFlight.Inc(method, path))
}

func (p *Prometheus) DecInFlight(method, path string) {
	p.report(p.httpInFlight.Dec(method, path))
}

func (p *Prometheus) ObserveHTTPRequest(obs RequestObservation) {
	status := statusString(obs.Status)
	p.report(p.httpRequests.Inc(obs.Method, obs.Route, status))
	p.report(p.httpDuration.Observe(obs.Duration.Seconds(), obs.Method, obs.Route, status))
	p.report(p.httpCPU.Add(max(obs.CPU, 0).Seconds(), obs.Method, obs.Route, status))
	if obs.Status >= 400 {
		p.report(p.httpErrors.Inc(obs.Method, obs.Route, status))
	}
	if obs.RequestBytes > 0 {
		p.report(p.requestSize.Observe(float64(obs.RequestBytes), obs.Method, obs.Route))
	}
	if obs.ResponseBytes > 0 {
		p.report(p.responseSize.Observe(float64(obs.ResponseBytes), obs.Method, obs.Route, status))
	}
}

func (p *Prometheus) RecordRateLimited(limiter string) {
	p.report(p.rateLimited.Inc(limiter))
}

func (p *Prometheus) RecordTodoCreated(priority string) {
	p.report(p.todosCreated.Inc(priority))
}

func (p *Prometheus) RecordTodoCompleted(priority string) {
	p.report(p.todosCompleted.Inc(priority))
}

func (p *Prometheus) RecordTodoDeleted() {
	p.report(p.todosDeleted.Inc())
}

func (p *Prometheus) SetTodoSnapshot(s TodoSnapshot) {
	p.report(p.todosActive.Set(float64(s.Active)))
	p.report(p.todosDone.Set(float64(s.Completed)))
	for category, n := range s.ActiveByCategory {
		p.report(p.todosByCategory.Set(float64(n), category))
	}
}

func (p *Prometheus) RecordUseCaseExecution(useCase string, success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "failure"
	}
	p.report(p.useCaseTotal.Inc(useCase, status))
	p.report(p.useCaseDuration.Observe(duration.Seconds(), useCase, status))
}

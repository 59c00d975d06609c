package metrics

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"iter"
	"math"
	"net/http"
	"slices"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/expfmt"
)

var (
	ErrDuplicateMetric = errors.New("metric already registered with a different kind or labels")
	ErrLabelMismatch   = errors.New("label values do not match label names")
	ErrInvalidDelta    = errors.New("delta must be a non-negative number")
	ErrInvalidBuckets  = errors.New("histogram buckets must be strictly increasing")
)

type Kind int

const (
	KindCounter Kind = iota
	KindGauge
	KindHistogram
)

func (k Kind) String() string {
	switch k {
	case KindCounter:
		return "counter"
	case KindGauge:
		return "gauge"
	case KindHistogram:
		return "histogram"
	default:
		return "unknown"
	}
}

type entry struct {
	kind    Kind
	labels  []string
	buckets []float64
	metric  any
}

// Registry owns a private prometheus.Registry. Series are created on first
// observation of a label tuple and live as long as the registry.
type Registry struct {
	mu          sync.Mutex
	reg         *prometheus.Registry
	entries     map[string]entry
	constLabels prometheus.Labels
}

type Option func(*Registry)

// WithConstLabels attaches the same labels to every metric registered afterwards.
func WithConstLabels(labels map[string]string) Option {
	return func(r *Registry) {
		r.constLabels = prometheus.Labels(labels)
	}
}

// WithRuntimeCollectors adds the Go runtime and process collectors.
func WithRuntimeCollectors() Option {
	return func(r *Registry) {
		r.reg.MustRegister(collectors.NewGoCollector())
		r.reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		reg:     prometheus.NewRegistry(),
		entries: make(map[string]entry),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) Counter(name, help string, labels ...string) (*Counter, error) {
	m, err := r.register(name, KindCounter, labels, nil, func() (prometheus.Collector, any) {
		vec := prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        name,
			Help:        help,
			ConstLabels: r.constLabels,
		}, labels)
		return vec, &Counter{vec: vec, labels: len(labels)}
	})
	if err != nil {
		return nil, err
	}
	return m.(*Counter), nil
}

func (r *Registry) Gauge(name, help string, labels ...string) (*Gauge, error) {
	m, err := r.register(name, KindGauge, labels, nil, func() (prometheus.Collector, any) {
		vec := prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        name,
			Help:        help,
			ConstLabels: r.constLabels,
		}, labels)
		return vec, &Gauge{vec: vec, labels: len(labels)}
	})
	if err != nil {
		return nil, err
	}
	return m.(*Gauge), nil
}

// Histogram registers a histogram. Nil buckets fall back to prometheus.DefBuckets.
func (r *Registry) Histogram(name, help string, buckets []float64, labels ...string) (*Histogram, error) {
	if buckets == nil {
		buckets = prometheus.DefBuckets
	}
	for i := 1; i < len(buckets); i++ {
		if buckets[i] <= buckets[i-1] {
			return nil, fmt.Errorf("%s: %w", name, ErrInvalidBuckets)
		}
	}
	m, err := r.register(name, KindHistogram, labels, buckets, func() (prometheus.Collector, any) {
		vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        name,
			Help:        help,
			Buckets:     buckets,
			ConstLabels: r.constLabels,
		}, labels)
		return vec, &Histogram{vec: vec, labels: len(labels)}
	})
	if err != nil {
		return nil, err
	}
	return m.(*Histogram), nil
}

func (r *Registry) register(name string, kind Kind, labels []string, buckets []float64, build func() (prometheus.Collector, any)) (any, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[name]; ok {
		if e.kind == kind && slices.Equal(e.labels, labels) && slices.Equal(e.buckets, buckets) {
			return e.metric, nil
		}
		return nil, fmt.Errorf("%s (%s %v): %w", name, e.kind, e.labels, ErrDuplicateMetric)
	}

	collector, metric := build()
	if err := r.reg.Register(collector); err != nil {
		return nil, fmt.Errorf("register %s: %w", name, err)
	}
	r.entries[name] = entry{
		kind:    kind,
		labels:  slices.Clone(labels),
		buckets: slices.Clone(buckets),
		metric:  metric,
	}
	return metric, nil
}

// Render yields one exposition text block per metric family, sorted by name.
// Every iteration gathers a fresh snapshot, so the sequence can be replayed.
func (r *Registry) Render() iter.Seq[string] {
	return func(yield func(string) bool) {
		families, err := r.reg.Gather()
		if err != nil && len(families) == 0 {
			return
		}
		var buf bytes.Buffer
		for _, mf := range families {
			buf.Reset()
			if _, err := expfmt.MetricFamilyToText(&buf, mf); err != nil {
				continue
			}
			if !yield(buf.String()) {
				return
			}
		}
	}
}

// Handler streams Render as a text exposition scrape. Scrape counts and
// in-flight scrapes are tracked on the same registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.InstrumentMetricHandler(r.reg, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", string(expfmt.NewFormat(expfmt.TypeTextPlain)))
		for block := range r.Render() {
			if _, err := io.WriteString(w, block); err != nil {
				return
			}
		}
	}))
}

func checkLabels(want int, got []string) error {
	if len(got) != want {
		return fmt.Errorf("%w: want %d values, got %d", ErrLabelMismatch, want, len(got))
	}
	return nil
}

func checkDelta(delta float64) error {
	if delta < 0 || math.IsNaN(delta) {
		return fmt.Errorf("%w: %v", ErrInvalidDelta, delta)
	}
	return nil
}

type Counter struct {
	vec    *prometheus.CounterVec
	labels int
}

func (c *Counter) Inc(labelValues ...string) error {
	return c.Add(1, labelValues...)
}

func (c *Counter) Add(delta float64, labelValues ...string) error {
	if err := checkDelta(delta); err != nil {
		return err
	}
	if err := checkLabels(c.labels, labelValues); err != nil {
		return err
	}
	m, err := c.vec.GetMetricWithLabelValues(labelValues...)
	if err != nil {
		return err
	}
	m.Add(delta)
	return nil
}

type Gauge struct {
	vec    *prometheus.GaugeVec
	labels int
}

func (g *Gauge) Set(value float64, labelValues ...string) error {
	m, err := g.series(labelValues)
	if err != nil {
		return err
	}
	m.Set(value)
	return nil
}

func (g *Gauge) Inc(labelValues ...string) error {
	return g.Add(1, labelValues...)
}

func (g *Gauge) Dec(labelValues ...string) error {
	return g.Sub(1, labelValues...)
}

func (g *Gauge) Add(delta float64, labelValues ...string) error {
	m, err := g.series(labelValues)
	if err != nil {
		return err
	}
	m.Add(delta)
	return nil
}

func (g *Gauge) Sub(delta float64, labelValues ...string) error {
	m, err := g.series(labelValues)
	if err != nil {
		return err
	}
	m.Sub(delta)
	return nil
}

func (g *Gauge) series(labelValues []string) (prometheus.Gauge, error) {
	if err := checkLabels(g.labels, labelValues); err != nil {
		return nil, err
	}
	return g.vec.GetMetricWithLabelValues(labelValues...)
}

type Histogram struct {
	vec    *prometheus.HistogramVec
	labels int
}

func (h *Histogram) Observe(value float64, labelValues ...string) error {
	if err := checkLabels(h.labels, labelValues); err != nil {
		return err
	}
	m, err := h.vec.GetMetricWithLabelValues(labelValues...)
	if err != nil {
		return err
	}
	m.Observe(value)
	return nil
}

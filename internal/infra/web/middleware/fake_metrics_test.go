package middleware

import (
	"sync"
	"time"

	"github.com/DioGolang/GoTodo/pkg/metrics"
)

type fakeMetrics struct {
	mu           sync.Mutex
	inFlight     map[string]int
	observations []metrics.RequestObservation
	rateLimited  map[string]int
}

var _ metrics.Metrics = (*fakeMetrics)(nil)

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{
		inFlight:    make(map[string]int),
		rateLimited: make(map[string]int),
	}
}

func (f *fakeMetrics) IncInFlight(method, path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inFlight[method+" "+path]++
}

func (f *fakeMetrics) DecInFlight(method, path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inFlight[method+" "+path]--
}

func (f *fakeMetrics) ObserveHTTPRequest(obs metrics.RequestObservation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.observations = append(f.observations, obs)
}

func (f *fakeMetrics) RecordRateLimited(limiter string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rateLimited[limiter]++
}

func (f *fakeMetrics) RecordTodoCreated(string)                           {}
func (f *fakeMetrics) RecordTodoCompleted(string)                         {}
func (f *fakeMetrics) RecordTodoDeleted()                                 {}
func (f *fakeMetrics) SetTodoSnapshot(metrics.TodoSnapshot)               {}
func (f *fakeMetrics) RecordUseCaseExecution(string, bool, time.Duration) {}

func (f *fakeMetrics) only() metrics.RequestObservation {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.observations) != 1 {
		panic("expected exactly one observation")
	}
	return f.observations[0]
}

func (f *fakeMetrics) inFlightFor(method, path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inFlight[method+" "+path]
}

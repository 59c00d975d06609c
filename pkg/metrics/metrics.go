package metrics

import "time"

// RequestObservation is the per-request state recorded once a response is final.
type RequestObservation struct {
	Method        string
	Route         string
	Status        int
	Duration      time.Duration
	CPU           time.Duration
	RequestBytes  int64
	ResponseBytes int64
}

// TodoSnapshot is computed from a full scan of the store after each mutation.
type TodoSnapshot struct {
	Active           int
	Completed        int
	ActiveByCategory map[string]int
}

type Metrics interface {
	// Infrastructure (HTTP)
	IncInFlight(method, path string)
	DecInFlight(method, path string)
	ObserveHTTPRequest(obs RequestObservation)
	RecordRateLimited(limiter string)

	// Business
	RecordTodoCreated(priority string)
	RecordTodoCompleted(priority string)
	RecordTodoDeleted()
	SetTodoSnapshot(s TodoSnapshot)
	RecordUseCaseExecution(useCase string, success bool, duration time.Duration)
}

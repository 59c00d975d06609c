package todo

import (
	"time"

	"github.com/DioGolang/GoTodo/pkg/metrics"
	"github.com/stretchr/testify/mock"
)

type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) IncInFlight(method, path string) { m.Called(method, path) }
func (m *MockMetrics) DecInFlight(method, path string) { m.Called(method, path) }

func (m *MockMetrics) ObserveHTTPRequest(obs metrics.RequestObservation) { m.Called(obs) }

func (m *MockMetrics) RecordRateLimited(limiter string) { m.Called(limiter) }

func (m *MockMetrics) RecordTodoCreated(priority string) { m.Called(priority) }

func (m *MockMetrics) RecordTodoCompleted(priority string) { m.Called(priority) }

func (m *MockMetrics) RecordTodoDeleted() { m.Called() }

func (m *MockMetrics) SetTodoSnapshot(s metrics.TodoSnapshot) { m.Called(s) }

func (m *MockMetrics) RecordUseCaseExecution(useCase string, success bool, duration time.Duration) {
	m.Called(useCase, success, duration)
}

// lastSnapshot returns the most recent gauge snapshot pushed to the mock.
func (m *MockMetrics) lastSnapshot() (metrics.TodoSnapshot, bool) {
	for i := len(m.Calls) - 1; i >= 0; i-- {
		if m.Calls[i].Method == "SetTodoSnapshot" {
			return m.Calls[i].Arguments.Get(0).(metrics.TodoSnapshot), true
		}
	}
	return metrics.TodoSnapshot{}, false
}

func newMockMetrics() *MockMetrics {
	m := new(MockMetrics)
	m.On("RecordTodoCreated", mock.Anything).Return()
	m.On("RecordTodoCompleted", mock.Anything).Return()
	m.On("RecordTodoDeleted").Return()
	m.On("SetTodoSnapshot", mock.Anything).Return()
	m.On("RecordUseCaseExecution", mock.Anything, mock.Anything, mock.Anything).Return()
	return m
}

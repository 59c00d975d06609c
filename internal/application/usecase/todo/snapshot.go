package todo

import (
	"context"
	"fmt"
	"sync"

	"github.com/DioGolang/GoTodo/internal/application/port/outbound"
	"github.com/DioGolang/GoTodo/internal/domain/entity"
	"github.com/DioGolang/GoTodo/pkg/metrics"
)

// GaugeRefresher recomputes the todo gauges from a full scan of the store.
// The scan and the gauge update happen under one lock so concurrent
// mutations cannot publish an older snapshot over a newer one.
type GaugeRefresher struct {
	mu      sync.Mutex
	repo    outbound.TodoRepository
	metrics metrics.Metrics
}

func NewGaugeRefresher(repo outbound.TodoRepository, m metrics.Metrics) *GaugeRefresher {
	return &GaugeRefresher{repo: repo, metrics: m}
}

func (g *GaugeRefresher) Refresh(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	all, err := g.repo.List(context.WithoutCancel(ctx), outbound.TodoFilter{})
	if err != nil {
		return fmt.Errorf("refresh todo gauges: %w", err)
	}

	snap := metrics.TodoSnapshot{ActiveByCategory: make(map[string]int, len(entity.Categories))}
	for _, c := range entity.Categories {
		snap.ActiveByCategory[string(c)] = 0
	}
	for _, t := range all {
		if t.Completed() {
			snap.Completed++
			continue
		}
		snap.Active++
		snap.ActiveByCategory[string(t.Category())]++
	}
	g.metrics.SetTodoSnapshot(snap)
	return nil
}

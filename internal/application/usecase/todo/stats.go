package todo

import (
	"context"
	"time"

	"github.com/DioGolang/GoTodo/internal/application/port/outbound"
	"github.com/DioGolang/GoTodo/internal/domain/entity"
)

type StatsUseCaseImpl struct {
	Repo outbound.TodoRepository
	Now  func() time.Time
}

func NewStatsUseCase(repo outbound.TodoRepository) *StatsUseCaseImpl {
	return &StatsUseCaseImpl{Repo: repo, Now: time.Now}
}

// Execute counts active todos per category and priority. Every known
// category and priority is present, zero when empty.
func (uc *StatsUseCaseImpl) Execute(ctx context.Context) (StatsOutput, error) {
	all, err := uc.Repo.List(ctx, outbound.TodoFilter{})
	if err != nil {
		return StatsOutput{}, err
	}

	out := StatsOutput{
		Total:      len(all),
		ByCategory: make(map[string]int, len(entity.Categories)),
		ByPriority: make(map[string]int, len(entity.Priorities)),
	}
	for _, c := range entity.Categories {
		out.ByCategory[string(c)] = 0
	}
	for _, p := range entity.Priorities {
		out.ByPriority[string(p)] = 0
	}

	now := uc.Now().UTC()
	for _, t := range all {
		if t.Completed() {
			out.Completed++
			continue
		}
		out.Active++
		out.ByCategory[string(t.Category())]++
		out.ByPriority[string(t.Priority())]++
		if t.IsOverdue(now) {
			out.Overdue++
		}
	}
	return out, nil
}

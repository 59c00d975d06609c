package todo

import (
	"context"
	"time"

	"github.com/DioGolang/GoTodo/internal/application/port/outbound"
	"github.com/DioGolang/GoTodo/internal/domain/entity"
	"github.com/DioGolang/GoTodo/pkg/metrics"
)

type ToggleUseCaseImpl struct {
	Repo      outbound.TodoRepository
	Metrics   metrics.Metrics
	Refresher *GaugeRefresher
	Now       func() time.Time
}

func NewToggleUseCase(repo outbound.TodoRepository, m metrics.Metrics, refresher *GaugeRefresher) *ToggleUseCaseImpl {
	return &ToggleUseCaseImpl{
		Repo:      repo,
		Metrics:   m,
		Refresher: refresher,
		Now:       time.Now,
	}
}

// Execute flips the completion flag. The completed counter only moves on
// the false to true transition.
func (uc *ToggleUseCaseImpl) Execute(ctx context.Context, id int64) (TodoOutput, error) {
	if id <= 0 {
		return TodoOutput{}, entity.ErrInvalidID
	}

	var completed bool
	updated, err := uc.Repo.Update(ctx, id, func(t *entity.Todo) error {
		completed = t.Toggle(uc.Now().UTC())
		return nil
	})
	if err != nil {
		return TodoOutput{}, err
	}

	if completed {
		uc.Metrics.RecordTodoCompleted(string(updated.Priority()))
	}
	if err := uc.Refresher.Refresh(ctx); err != nil {
		return TodoOutput{}, err
	}
	return toOutput(updated), nil
}

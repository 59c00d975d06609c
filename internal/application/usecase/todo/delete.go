package todo

import (
	"context"

	"github.com/DioGolang/GoTodo/internal/application/port/outbound"
	"github.com/DioGolang/GoTodo/internal/domain/entity"
	"github.com/DioGolang/GoTodo/pkg/metrics"
)

type DeleteUseCaseImpl struct {
	Repo      outbound.TodoRepository
	Metrics   metrics.Metrics
	Refresher *GaugeRefresher
}

func NewDeleteUseCase(repo outbound.TodoRepository, m metrics.Metrics, refresher *GaugeRefresher) *DeleteUseCaseImpl {
	return &DeleteUseCaseImpl{Repo: repo, Metrics: m, Refresher: refresher}
}

func (uc *DeleteUseCaseImpl) Execute(ctx context.Context, id int64) error {
	if id <= 0 {
		return entity.ErrInvalidID
	}
	if err := uc.Repo.Delete(ctx, id); err != nil {
		return err
	}

	uc.Metrics.RecordTodoDeleted()
	return uc.Refresher.Refresh(ctx)
}

package todo

import (
	"context"

	"github.com/DioGolang/GoTodo/internal/application/port/outbound"
	"github.com/DioGolang/GoTodo/internal/domain/entity"
)

type GetUseCaseImpl struct {
	Repo outbound.TodoRepository
}

func NewGetUseCase(repo outbound.TodoRepository) *GetUseCaseImpl {
	return &GetUseCaseImpl{Repo: repo}
}

func (uc *GetUseCaseImpl) Execute(ctx context.Context, id int64) (TodoOutput, error) {
	if id <= 0 {
		return TodoOutput{}, entity.ErrInvalidID
	}
	found, err := uc.Repo.FindByID(ctx, id)
	if err != nil {
		return TodoOutput{}, err
	}
	return toOutput(found), nil
}

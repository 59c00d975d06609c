package todo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/DioGolang/GoTodo/internal/application/port/outbound"
	"github.com/DioGolang/GoTodo/internal/domain/entity"
	"github.com/DioGolang/GoTodo/pkg/metrics"
)

type CreateUseCaseImpl struct {
	Repo      outbound.TodoRepository
	Metrics   metrics.Metrics
	Refresher *GaugeRefresher
	Now       func() time.Time
}

func NewCreateUseCase(repo outbound.TodoRepository, m metrics.Metrics, refresher *GaugeRefresher) *CreateUseCaseImpl {
	return &CreateUseCaseImpl{
		Repo:      repo,
		Metrics:   m,
		Refresher: refresher,
		Now:       time.Now,
	}
}

func (uc *CreateUseCaseImpl) Execute(ctx context.Context, input CreateInput) (TodoOutput, error) {
	input.Task = strings.TrimSpace(input.Task)
	input.Description = strings.TrimSpace(input.Description)
	if err := validateStruct(input); err != nil {
		return TodoOutput{}, err
	}

	var due *time.Time
	if input.DueDate != "" {
		d, err := time.Parse(dateLayout, input.DueDate)
		if err != nil {
			return TodoOutput{}, &entity.ValidationError{Errors: []entity.FieldError{
				{Field: "dueDate", Message: "dueDate must be a valid date (YYYY-MM-DD)"},
			}}
		}
		due = &d
	}

	todo, err := entity.NewTodo(input.Task, input.Description,
		entity.Category(input.Category), entity.Priority(input.Priority), due, uc.Now().UTC())
	if err != nil {
		return TodoOutput{}, err
	}

	saved, err := uc.Repo.Create(ctx, todo)
	if err != nil {
		return TodoOutput{}, fmt.Errorf("failed to save todo: %w", err)
	}

	uc.Metrics.RecordTodoCreated(string(saved.Priority()))
	if err := uc.Refresher.Refresh(ctx); err != nil {
		return TodoOutput{}, err
	}
	return toOutput(saved), nil
}

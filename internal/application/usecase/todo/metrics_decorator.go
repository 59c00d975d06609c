package todo

import (
	"context"
	"time"

	"github.com/DioGolang/GoTodo/pkg/metrics"
)

type CreateTodoMetricsDecorator struct {
	Next    CreateUseCase
	Metrics metrics.Metrics
}

func (d *CreateTodoMetricsDecorator) Execute(ctx context.Context, input CreateInput) (TodoOutput, error) {
	start := time.Now()
	output, err := d.Next.Execute(ctx, input)
	d.Metrics.RecordUseCaseExecution("CreateTodo", err == nil, time.Since(start))
	return output, err
}

type ToggleTodoMetricsDecorator struct {
	Next    ToggleUseCase
	Metrics metrics.Metrics
}

func (d ToggleTodoMetricsDecorator) Execute(ctx context.Context, id int64) (TodoOutput, error) {
	start := time.Now()
	output, err := d.Next.Execute(ctx, id)
	d.Metrics.RecordUseCaseExecution("ToggleTodo", err == nil, time.Since(start))
	return output, err
}

type DeleteTodoMetricsDecorator struct {
	Next    DeleteUseCase
	Metrics metrics.Metrics
}

func (d DeleteTodoMetricsDecorator) Execute(ctx context.Context, id int64) error {
	start := time.Now()
	err := d.Next.Execute(ctx, id)
	d.Metrics.RecordUseCaseExecution("DeleteTodo", err == nil, time.Since(start))
	return err
}

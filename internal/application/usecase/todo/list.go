package todo

import (
	"context"
	"strconv"
	"strings"

	"github.com/DioGolang/GoTodo/internal/application/port/outbound"
	"github.com/DioGolang/GoTodo/internal/domain/entity"
)

type ListUseCaseImpl struct {
	Repo outbound.TodoRepository
}

func NewListUseCase(repo outbound.TodoRepository) *ListUseCaseImpl {
	return &ListUseCaseImpl{Repo: repo}
}

// Execute returns the filtered todos. Total, Active and Completed always
// describe the whole store.
func (uc *ListUseCaseImpl) Execute(ctx context.Context, input ListInput) (ListOutput, error) {
	all, err := uc.Repo.List(ctx, outbound.TodoFilter{})
	if err != nil {
		return ListOutput{}, err
	}

	filter := toFilter(input)
	out := ListOutput{Total: len(all), Todos: make([]TodoOutput, 0, len(all))}
	for _, t := range all {
		if t.Completed() {
			out.Completed++
		} else {
			out.Active++
		}
		if filter.Match(t) {
			out.Todos = append(out.Todos, toOutput(t))
		}
	}
	return out, nil
}

// toFilter drops a completed value that does not parse as a boolean.
func toFilter(in ListInput) outbound.TodoFilter {
	f := outbound.TodoFilter{Search: strings.TrimSpace(in.Search)}
	if in.Category != "" {
		c := entity.Category(in.Category)
		f.Category = &c
	}
	if in.Priority != "" {
		p := entity.Priority(in.Priority)
		f.Priority = &p
	}
	if b, err := strconv.ParseBool(in.Completed); err == nil {
		f.Completed = &b
	}
	return f
}

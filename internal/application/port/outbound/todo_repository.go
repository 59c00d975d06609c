package outbound

import (
	"context"
	"strings"

	"github.com/DioGolang/GoTodo/internal/domain/entity"
)

// TodoFilter is a conjunction: every non-nil field must match.
type TodoFilter struct {
	Search    string
	Category  *entity.Category
	Priority  *entity.Priority
	Completed *bool
}

func (f TodoFilter) Match(t *entity.Todo) bool {
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(t.Task()), needle) &&
			!strings.Contains(strings.ToLower(t.Description()), needle) {
			return false
		}
	}
	if f.Category != nil && t.Category() != *f.Category {
		return false
	}
	if f.Priority != nil && t.Priority() != *f.Priority {
		return false
	}
	if f.Completed != nil && t.Completed() != *f.Completed {
		return false
	}
	return true
}

// TodoRepository returns copies; callers never share state with the store.
type TodoRepository interface {
	Create(ctx context.Context, todo *entity.Todo) (*entity.Todo, error)
	FindByID(ctx context.Context, id int64) (*entity.Todo, error)
	// List returns matching todos, newest created first.
	List(ctx context.Context, filter TodoFilter) ([]*entity.Todo, error)
	// Update applies fn to the stored todo atomically.
	Update(ctx context.Context, id int64, fn func(t *entity.Todo) error) (*entity.Todo, error)
	Delete(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
}

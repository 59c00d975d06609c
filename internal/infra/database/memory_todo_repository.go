package database

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/DioGolang/GoTodo/internal/application/port/outbound"
	"github.com/DioGolang/GoTodo/internal/domain/entity"
)

// MemoryTodoRepository keeps todos in process memory. Ids start at 1 and are
// never reused, even after a delete.
type MemoryTodoRepository struct {
	mu     sync.RWMutex
	todos  map[int64]*entity.Todo
	lastID int64
}

func NewMemoryTodoRepository() *MemoryTodoRepository {
	return &MemoryTodoRepository{todos: make(map[int64]*entity.Todo)}
}

func (r *MemoryTodoRepository) Create(ctx context.Context, todo *entity.Todo) (*entity.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := todo.Clone()
	if err := stored.AssignID(r.lastID + 1); err != nil {
		return nil, fmt.Errorf("assign id: %w", err)
	}
	r.lastID++
	r.todos[stored.ID()] = stored
	return stored.Clone(), nil
}

func (r *MemoryTodoRepository) FindByID(ctx context.Context, id int64) (*entity.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.todos[id]
	if !ok {
		return nil, entity.ErrTodoNotFound
	}
	return t.Clone(), nil
}

func (r *MemoryTodoRepository) List(ctx context.Context, filter outbound.TodoFilter) ([]*entity.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]*entity.Todo, 0, len(r.todos))
	for _, t := range r.todos {
		if filter.Match(t) {
			out = append(out, t.Clone())
		}
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b *entity.Todo) int {
		if c := b.CreatedAt().Compare(a.CreatedAt()); c != 0 {
			return c
		}
		return cmp.Compare(b.ID(), a.ID())
	})
	return out, nil
}

func (r *MemoryTodoRepository) Update(ctx context.Context, id int64, fn func(t *entity.Todo) error) (*entity.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.todos[id]
	if !ok {
		return nil, entity.ErrTodoNotFound
	}
	working := t.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	r.todos[id] = working
	return working.Clone(), nil
}

func (r *MemoryTodoRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.todos[id]; !ok {
		return entity.ErrTodoNotFound
	}
	delete(r.todos, id)
	return nil
}

func (r *MemoryTodoRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}

package todo

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DioGolang/GoTodo/internal/application/port/outbound"
	"github.com/DioGolang/GoTodo/internal/domain/entity"
	"github.com/DioGolang/GoTodo/internal/infra/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type fixture struct {
	repo   *database.MemoryTodoRepository
	m      *MockMetrics
	create *CreateUseCaseImpl
	list   *ListUseCaseImpl
	get    *GetUseCaseImpl
	toggle *ToggleUseCaseImpl
	delete *DeleteUseCaseImpl
	stats  *StatsUseCaseImpl
}

func newFixture() *fixture {
	repo := database.NewMemoryTodoRepository()
	m := newMockMetrics()
	refresher := NewGaugeRefresher(repo, m)
	clock := func() time.Time { return fixedNow }

	f := &fixture{
		repo:   repo,
		m:      m,
		create: NewCreateUseCase(repo, m, refresher),
		list:   NewListUseCase(repo),
		get:    NewGetUseCase(repo),
		toggle: NewToggleUseCase(repo, m, refresher),
		delete: NewDeleteUseCase(repo, m, refresher),
		stats:  NewStatsUseCase(repo),
	}
	f.create.Now = clock
	f.toggle.Now = clock
	f.stats.Now = clock
	return f
}

func (f *fixture) mustCreate(t *testing.T, in CreateInput) TodoOutput {
	t.Helper()
	out, err := f.create.Execute(context.Background(), in)
	require.NoError(t, err)
	return out
}

func TestCreateUseCase_Execute(t *testing.T) {
	//Arrange
	f := newFixture()

	//Act
	out, err := f.create.Execute(context.Background(), CreateInput{
		Task:     "  Ship release ",
		Category: "work",
		Priority: "high",
		DueDate:  "2026-03-12",
	})

	//Assert
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.ID)
	assert.Equal(t, "Ship release", out.Task)
	assert.Equal(t, "high", out.Priority)
	require.NotNil(t, out.DueDate)
	assert.Equal(t, "2026-03-12", *out.DueDate)
	assert.Equal(t, fixedNow, out.CreatedAt)
	assert.Nil(t, out.CompletedAt)

	f.m.AssertCalled(t, "RecordTodoCreated", "high")
	snap, ok := f.m.lastSnapshot()
	require.True(t, ok)
	assert.Equal(t, 1, snap.Active)
	assert.Equal(t, 0, snap.Completed)
	assert.Equal(t, 1, snap.ActiveByCategory["work"])
	assert.Equal(t, 0, snap.ActiveByCategory["health"])
}

func TestCreateUseCase_DefaultsPriority(t *testing.T) {
	f := newFixture()

	out := f.mustCreate(t, CreateInput{Task: "Stretch", Category: "health"})

	assert.Equal(t, "medium", out.Priority)
	assert.Nil(t, out.DueDate)
	f.m.AssertCalled(t, "RecordTodoCreated", "medium")
}

func TestCreateUseCase_ValidationErrors(t *testing.T) {
	tests := []struct {
		name       string
		input      CreateInput
		wantFields []string
	}{
		{"Should reject a blank task", CreateInput{Task: "   ", Category: "work"}, []string{"task"}},
		{"Should reject a long task", CreateInput{Task: strings.Repeat("x", 501), Category: "work"}, []string{"task"}},
		{"Should reject a long description", CreateInput{Task: "ok", Description: strings.Repeat("x", 2001), Category: "work"}, []string{"description"}},
		{"Should reject a missing category", CreateInput{Task: "ok"}, []string{"category"}},
		{"Should reject an unknown category", CreateInput{Task: "ok", Category: "chores"}, []string{"category"}},
		{"Should reject an unknown priority", CreateInput{Task: "ok", Category: "work", Priority: "urgent"}, []string{"priority"}},
		{"Should reject a malformed due date", CreateInput{Task: "ok", Category: "work", DueDate: "12/03/2026"}, []string{"dueDate"}},
		{"Should report every invalid field", CreateInput{Priority: "urgent"}, []string{"task", "category", "priority"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()

			_, err := f.create.Execute(context.Background(), tt.input)

			var verr *entity.ValidationError
			require.ErrorAs(t, err, &verr)
			fields := make([]string, len(verr.Errors))
			for i, fe := range verr.Errors {
				fields[i] = fe.Field
				assert.NotEmpty(t, fe.Message)
			}
			assert.Equal(t, tt.wantFields, fields)
			f.m.AssertNotCalled(t, "RecordTodoCreated", mock.Anything)

			all, err := f.repo.List(context.Background(), outbound.TodoFilter{})
			require.NoError(t, err)
			assert.Empty(t, all)
		})
	}
}

func TestValidationMessages(t *testing.T) {
	f := newFixture()

	_, err := f.create.Execute(context.Background(), CreateInput{Category: "chores", DueDate: "soon"})

	var verr *entity.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []entity.FieldError{
		{Field: "task", Message: "task is required"},
		{Field: "category", Message: "category must be one of: work personal shopping health other"},
		{Field: "dueDate", Message: "dueDate must be a valid date (YYYY-MM-DD)"},
	}, verr.Errors)
}

func TestGetUseCase_Execute(t *testing.T) {
	f := newFixture()
	created := f.mustCreate(t, CreateInput{Task: "Gym", Category: "health"})

	tests := []struct {
		name    string
		id      int64
		wantErr error
	}{
		{"Should return the stored todo", created.ID, nil},
		{"Should return not found for an unknown id", 99, entity.ErrTodoNotFound},
		{"Should reject a non positive id", 0, entity.ErrInvalidID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := f.get.Execute(context.Background(), tt.id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, created, out)
		})
	}
}

func TestToggleUseCase_CountsCompletionOnce(t *testing.T) {
	//Arrange
	f := newFixture()
	created := f.mustCreate(t, CreateInput{Task: "Pay rent", Category: "personal", Priority: "high"})
	ctx := context.Background()

	//Act
	first, err := f.toggle.Execute(ctx, created.ID)
	require.NoError(t, err)
	second, err := f.toggle.Execute(ctx, created.ID)
	require.NoError(t, err)

	//Assert
	assert.True(t, first.Completed)
	require.NotNil(t, first.CompletedAt)
	assert.Equal(t, fixedNow, *first.CompletedAt)
	assert.False(t, second.Completed)
	assert.Nil(t, second.CompletedAt)

	f.m.AssertNumberOfCalls(t, "RecordTodoCompleted", 1)
	f.m.AssertCalled(t, "RecordTodoCompleted", "high")
	snap, ok := f.m.lastSnapshot()
	require.True(t, ok)
	assert.Equal(t, 1, snap.Active)
	assert.Equal(t, 0, snap.Completed)
}

func TestToggleUseCase_Errors(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.toggle.Execute(ctx, 42)
	assert.ErrorIs(t, err, entity.ErrTodoNotFound)

	_, err = f.toggle.Execute(ctx, 0)
	assert.ErrorIs(t, err, entity.ErrInvalidID)

	f.m.AssertNotCalled(t, "RecordTodoCompleted", mock.Anything)
	f.m.AssertNotCalled(t, "SetTodoSnapshot", mock.Anything)
}

func TestDeleteUseCase_Execute(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	created := f.mustCreate(t, CreateInput{Task: "Buy milk", Category: "shopping"})

	require.NoError(t, f.delete.Execute(ctx, created.ID))

	f.m.AssertNumberOfCalls(t, "RecordTodoDeleted", 1)
	snap, ok := f.m.lastSnapshot()
	require.True(t, ok)
	assert.Equal(t, 0, snap.Active)
	assert.Equal(t, 0, snap.ActiveByCategory["shopping"])
}

func TestDeleteUseCase_UnknownIDLeavesCounterUnchanged(t *testing.T) {
	f := newFixture()

	err := f.delete.Execute(context.Background(), 7)

	assert.ErrorIs(t, err, entity.ErrTodoNotFound)
	f.m.AssertNotCalled(t, "RecordTodoDeleted")
}

func TestListUseCase_Execute(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.mustCreate(t, CreateInput{Task: "Write report", Category: "work", Priority: "high"})
	f.mustCreate(t, CreateInput{Task: "Buy milk", Category: "shopping", Priority: "low"})
	gym := f.mustCreate(t, CreateInput{Task: "Gym", Description: "report to coach", Category: "health"})
	_, err := f.toggle.Execute(ctx, gym.ID)
	require.NoError(t, err)

	tests := []struct {
		name  string
		input ListInput
		want  []int64
	}{
		{"Should list everything", ListInput{}, []int64{3, 2, 1}},
		{"Should search", ListInput{Search: "report"}, []int64{3, 1}},
		{"Should filter by category", ListInput{Category: "shopping"}, []int64{2}},
		{"Should filter by priority", ListInput{Priority: "high"}, []int64{1}},
		{"Should filter by completion", ListInput{Completed: "true"}, []int64{3}},
		{"Should ignore an unparsable completion value", ListInput{Completed: "maybe"}, []int64{3, 2, 1}},
		{"Should match nothing for an unknown category", ListInput{Category: "chores"}, []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := f.list.Execute(ctx, tt.input)
			require.NoError(t, err)

			assert.Equal(t, 3, out.Total)
			assert.Equal(t, 2, out.Active)
			assert.Equal(t, 1, out.Completed)
			got := make([]int64, len(out.Todos))
			for i, td := range out.Todos {
				got[i] = td.ID
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatsUseCase_Execute(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.mustCreate(t, CreateInput{Task: "Old", Category: "work", Priority: "high", DueDate: "2026-03-01"})
	f.mustCreate(t, CreateInput{Task: "Today", Category: "work", Priority: "low", DueDate: "2026-03-10"})
	done := f.mustCreate(t, CreateInput{Task: "Done", Category: "health", Priority: "high", DueDate: "2026-03-01"})
	_, err := f.toggle.Execute(ctx, done.ID)
	require.NoError(t, err)

	out, err := f.stats.Execute(ctx)

	require.NoError(t, err)
	assert.Equal(t, 3, out.Total)
	assert.Equal(t, 2, out.Active)
	assert.Equal(t, 1, out.Completed)
	assert.Equal(t, 1, out.Overdue)
	assert.Equal(t, map[string]int{"work": 2, "personal": 0, "shopping": 0, "health": 0, "other": 0}, out.ByCategory)
	assert.Equal(t, map[string]int{"low": 1, "medium": 0, "high": 1}, out.ByPriority)
}

type failingCreate struct{ err error }

func (f failingCreate) Execute(context.Context, CreateInput) (TodoOutput, error) {
	return TodoOutput{}, f.err
}

func TestMetricsDecorators(t *testing.T) {
	m := newMockMetrics()
	ctx := context.Background()

	d := &CreateTodoMetricsDecorator{Next: failingCreate{err: errors.New("boom")}, Metrics: m}
	_, err := d.Execute(ctx, CreateInput{})
	assert.Error(t, err)
	m.AssertCalled(t, "RecordUseCaseExecution", "CreateTodo", false, mock.Anything)

	f := newFixture()
	del := DeleteTodoMetricsDecorator{Next: f.delete, Metrics: m}
	assert.ErrorIs(t, del.Execute(ctx, 1), entity.ErrTodoNotFound)
	m.AssertCalled(t, "RecordUseCaseExecution", "DeleteTodo", false, mock.Anything)

	created := f.mustCreate(t, CreateInput{Task: "x", Category: "other"})
	tog := ToggleTodoMetricsDecorator{Next: f.toggle, Metrics: m}
	_, err = tog.Execute(ctx, created.ID)
	require.NoError(t, err)
	m.AssertCalled(t, "RecordUseCaseExecution", "ToggleTodo", true, mock.Anything)
}

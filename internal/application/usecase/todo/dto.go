package todo

import (
	"time"

	"github.com/DioGolang/GoTodo/internal/domain/entity"
)

const dateLayout = "2006-01-02"

// Input

type CreateInput struct {
	Task        string `json:"task" validate:"required,max=500"`
	Description string `json:"description" validate:"max=2000"`
	Category    string `json:"category" validate:"required,oneof=work personal shopping health other"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate     string `json:"dueDate" validate:"omitempty,datetime=2006-01-02"`
}

// ListInput holds raw query values; empty strings mean "no filter".
type ListInput struct {
	Search    string
	Category  string
	Priority  string
	Completed string
}

// Output

type TodoOutput struct {
	ID          int64      `json:"id"`
	Task        string     `json:"task"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Priority    string     `json:"priority"`
	DueDate     *string    `json:"dueDate"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type ListOutput struct {
	Total     int          `json:"total"`
	Active    int          `json:"active"`
	Completed int          `json:"completed"`
	Todos     []TodoOutput `json:"todos"`
}

type StatsOutput struct {
	Total      int            `json:"total"`
	Active     int            `json:"active"`
	Completed  int            `json:"completed"`
	Overdue    int            `json:"overdue"`
	ByCategory map[string]int `json:"byCategory"`
	ByPriority map[string]int `json:"byPriority"`
}

func toOutput(t *entity.Todo) TodoOutput {
	out := TodoOutput{
		ID:          t.ID(),
		Task:        t.Task(),
		Description: t.Description(),
		Category:    string(t.Category()),
		Priority:    string(t.Priority()),
		Completed:   t.Completed(),
		CompletedAt: t.CompletedAt(),
		CreatedAt:   t.CreatedAt(),
		UpdatedAt:   t.UpdatedAt(),
	}
	if due := t.DueDate(); due != nil {
		s := due.Format(dateLayout)
		out.DueDate = &s
	}
	return out
}

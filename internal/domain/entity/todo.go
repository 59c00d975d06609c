package entity

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxTaskLength        = 500
	MaxDescriptionLength = 2000
)

type Category string

const (
	CategoryWork     Category = "work"
	CategoryPersonal Category = "personal"
	CategoryShopping Category = "shopping"
	CategoryHealth   Category = "health"
	CategoryOther    Category = "other"
)

var Categories = []Category{CategoryWork, CategoryPersonal, CategoryShopping, CategoryHealth, CategoryOther}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

func (p Priority) Valid() bool {
	for _, known := range Priorities {
		if p == known {
			return true
		}
	}
	return false
}

type Todo struct {
	id          int64
	task        string
	description string
	category    Category
	priority    Priority
	dueDate     *time.Time
	completed   bool
	completedAt *time.Time
	createdAt   time.Time
	updatedAt   time.Time
}

// NewTodo builds an unsaved todo; the id is assigned by the repository.
// An empty priority defaults to medium.
func NewTodo(task, description string, category Category, priority Priority, dueDate *time.Time, now time.Time) (*Todo, error) {
	if priority == "" {
		priority = PriorityMedium
	}
	t := &Todo{
		task:        strings.TrimSpace(task),
		description: strings.TrimSpace(description),
		category:    category,
		priority:    priority,
		dueDate:     dueDate,
		createdAt:   now,
		updatedAt:   now,
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Todo) Validate() error {
	verr := &ValidationError{}
	switch n := utf8.RuneCountInString(t.task); {
	case n == 0:
		verr.Add("task", "task is required")
	case n > MaxTaskLength:
		verr.Add("task", "task must be at most 500 characters")
	}
	if utf8.RuneCountInString(t.description) > MaxDescriptionLength {
		verr.Add("description", "description must be at most 2000 characters")
	}
	if !t.category.Valid() {
		verr.Add("category", "category must be one of: work personal shopping health other")
	}
	if !t.priority.Valid() {
		verr.Add("priority", "priority must be one of: low medium high")
	}
	return verr.OrNil()
}

func (t *Todo) AssignID(id int64) error {
	if t.id != 0 {
		return ErrIDAlreadyExists
	}
	if id <= 0 {
		return ErrInvalidID
	}
	t.id = id
	return nil
}

// Toggle flips completion and reports whether the todo just became completed.
func (t *Todo) Toggle(now time.Time) bool {
	t.completed = !t.completed
	t.updatedAt = now
	if t.completed {
		t.completedAt = &now
		return true
	}
	t.completedAt = nil
	return false
}

// IsOverdue reports whether an open todo was due before the calendar day of now.
func (t *Todo) IsOverdue(now time.Time) bool {
	if t.completed || t.dueDate == nil {
		return false
	}
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return t.dueDate.Before(today)
}

func (t *Todo) Clone() *Todo {
	c := *t
	if t.dueDate != nil {
		due := *t.dueDate
		c.dueDate = &due
	}
	if t.completedAt != nil {
		at := *t.completedAt
		c.completedAt = &at
	}
	return &c
}

func (t *Todo) ID() int64 {
	return t.id
}

func (t *Todo) Task() string {
	return t.task
}

func (t *Todo) Description() string {
	return t.description
}

func (t *Todo) Category() Category {
	return t.category
}

func (t *Todo) Priority() Priority {
	return t.priority
}

func (t *Todo) DueDate() *time.Time {
	return t.dueDate
}

func (t *Todo) Completed() bool {
	return t.completed
}

func (t *Todo) CompletedAt() *time.Time {
	return t.completedAt
}

func (t *Todo) CreatedAt() time.Time {
	return t.createdAt
}

func (t *Todo) UpdatedAt() time.Time {
	return t.updatedAt
}

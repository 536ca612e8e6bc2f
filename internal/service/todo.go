package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/jaekwang-park/tasktrack/internal/model"
	"github.com/jaekwang-park/tasktrack/internal/repository"
)

const (
	maxTitleLen       = 100
	maxDescriptionLen = 500
	maxCategoryLen    = 50
)

type CreateTodoInput struct {
	Title       string
	Description *string
	Priority    model.Priority // empty means medium
	DueDate     *string        // YYYY-MM-DD
	Category    *string
	Tags        *string
}

// UpdateTodoInput is a partial update: nil pointers and unset Nullable
// fields are left untouched. A null Nullable clears the stored value.
type UpdateTodoInput struct {
	Title       *string
	Description model.Nullable[string]
	Completed   *bool
	Priority    *model.Priority
	DueDate     model.Nullable[string]
	Category    model.Nullable[string]
	Tags        model.Nullable[string]
}

func (in UpdateTodoInput) IsEmpty() bool {
	return in.Title == nil && !in.Description.Set && in.Completed == nil && in.Priority == nil &&
		!in.DueDate.Set && !in.Category.Set && !in.Tags.Set
}

type TodoService struct {
	repo  repository.TodoRepository
	now   func() time.Time
	newID func() string
}

type Option func(*TodoService)

// WithClock overrides the time source used for timestamps and the overdue cut-off.
func WithClock(now func() time.Time) Option {
	return func(s *TodoService) { s.now = now }
}

// WithIDGenerator overrides how new todo ids are minted.
func WithIDGenerator(newID func() string) Option {
	return func(s *TodoService) { s.newID = newID }
}

func NewTodoService(repo repository.TodoRepository, opts ...Option) *TodoService {
	s := &TodoService{
		repo:  repo,
		now:   time.Now,
		newID: func() string { return uuid.Must(uuid.NewV7()).String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// timestamp returns the current time at the precision every backend can store.
func (s *TodoService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func (s *TodoService) Create(ctx context.Context, input CreateTodoInput) (model.Todo, error) {
	title, err := normalizeTitle(input.Title, "Title is required")
	if err != nil {
		return model.Todo{}, err
	}

	priority := input.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !priority.IsValid() {
		return model.Todo{}, invalid("Priority must be one of low, medium, high")
	}

	todo := model.Todo{
		ID:       s.newID(),
		Title:    title,
		Priority: priority,
	}
	if todo.Description, err = normalizeText(input.Description, "Description", maxDescriptionLen); err != nil {
		return model.Todo{}, err
	}
	if todo.DueDate, err = normalizeDueDate(input.DueDate); err != nil {
		return model.Todo{}, err
	}
	if todo.Category, err = normalizeText(input.Category, "Category", maxCategoryLen); err != nil {
		return model.Todo{}, err
	}
	if todo.Tags, err = normalizeText(input.Tags, "Tags", 0); err != nil {
		return model.Todo{}, err
	}

	now := s.timestamp()
	todo.CreatedAt = now
	todo.UpdatedAt = now

	created, err := s.repo.Create(ctx, todo)
	if err != nil {
		return model.Todo{}, fmt.Errorf("failed to create todo: %w", err)
	}

	return created, nil
}

func (s *TodoService) GetByID(ctx context.Context, todoID string) (model.Todo, error) {
	todo, err := s.repo.GetByID(ctx, todoID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Todo{}, ErrNotFound
		}
		return model.Todo{}, fmt.Errorf("failed to get todo: %w", err)
	}
	return todo, nil
}

// Update applies a partial update. The merge runs inside the repository's
// atomic update, so overlapping updates of one todo each see the other's
// committed fields and updated_at never moves backwards.
func (s *TodoService) Update(ctx context.Context, todoID string, input UpdateTodoInput) (model.Todo, error) {
	updated, err := s.repo.Update(ctx, todoID, func(existing model.Todo) (model.Todo, error) {
		if input.IsEmpty() {
			return model.Todo{}, invalid("No fields to update")
		}

		next, err := applyUpdate(existing, input)
		if err != nil {
			return model.Todo{}, err
		}

		next.UpdatedAt = s.timestamp()
		if !next.UpdatedAt.After(existing.UpdatedAt) {
			next.UpdatedAt = existing.UpdatedAt.Add(time.Microsecond)
		}
		return next, nil
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Todo{}, ErrNotFound
		}
		if errors.Is(err, ErrInvalidInput) {
			return model.Todo{}, err
		}
		return model.Todo{}, fmt.Errorf("failed to update todo: %w", err)
	}

	return updated, nil
}

// ToggleCompleted sets the completion flag; it is Update with only completed.
func (s *TodoService) ToggleCompleted(ctx context.Context, todoID string, completed bool) (model.Todo, error) {
	return s.Update(ctx, todoID, UpdateTodoInput{Completed: &completed})
}

func (s *TodoService) Delete(ctx context.Context, todoID string) error {
	err := s.repo.Delete(ctx, todoID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	return nil
}

func (s *TodoService) List(ctx context.Context, filter model.TodoFilter) ([]model.Todo, error) {
	todos, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	if todos == nil {
		todos = []model.Todo{}
	}
	return todos, nil
}

// Stats summarizes the entire collection, ignoring any list filters.
func (s *TodoService) Stats(ctx context.Context) (model.TodoStats, error) {
	stats, err := s.repo.Stats(ctx, model.Today(s.now()))
	if err != nil {
		return model.TodoStats{}, fmt.Errorf("failed to compute stats: %w", err)
	}
	if stats.ByCategory == nil {
		stats.ByCategory = map[string]int{}
	}
	return stats, nil
}

func (s *TodoService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func applyUpdate(todo model.Todo, input UpdateTodoInput) (model.Todo, error) {
	var err error

	if input.Title != nil {
		if todo.Title, err = normalizeTitle(*input.Title, "Title cannot be empty"); err != nil {
			return model.Todo{}, err
		}
	}
	if input.Description.Set {
		if todo.Description, err = normalizeText(input.Description.Ptr(), "Description", maxDescriptionLen); err != nil {
			return model.Todo{}, err
		}
	}
	if input.Completed != nil {
		todo.Completed = *input.Completed
	}
	if input.Priority != nil {
		if !input.Priority.IsValid() {
			return model.Todo{}, invalid("Priority must be one of low, medium, high")
		}
		todo.Priority = *input.Priority
	}
	if input.DueDate.Set {
		if todo.DueDate, err = normalizeDueDate(input.DueDate.Ptr()); err != nil {
			return model.Todo{}, err
		}
	}
	if input.Category.Set {
		if todo.Category, err = normalizeText(input.Category.Ptr(), "Category", maxCategoryLen); err != nil {
			return model.Todo{}, err
		}
	}
	if input.Tags.Set {
		if todo.Tags, err = normalizeText(input.Tags.Ptr(), "Tags", 0); err != nil {
			return model.Todo{}, err
		}
	}

	return todo, nil
}

func normalizeTitle(title, emptyMessage string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", invalid(emptyMessage)
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "", invalid(fmt.Sprintf("Title must be at most %d characters", maxTitleLen))
	}
	return title, nil
}

// normalizeText trims an optional string; blank becomes nil. max <= 0
// disables the length check.
func normalizeText(s *string, field string, max int) (*string, error) {
	if s == nil {
		return nil, nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil, nil
	}
	if max > 0 && utf8.RuneCountInString(v) > max {
		return nil, invalid(fmt.Sprintf("%s must be at most %d characters", field, max))
	}
	return &v, nil
}

func normalizeDueDate(s *string) (*string, error) {
	if s == nil {
		return nil, nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil, nil
	}
	if !model.ValidDate(v) {
		return nil, invalid("Due date must be a valid date (YYYY-MM-DD)")
	}
	return &v, nil
}

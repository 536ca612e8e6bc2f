package repository

import (
	"cmp"
	"context"
	"database/sql"
	"fmt"
	"slices"
	"sync"

	"github.com/jaekwang-park/tasktrack/internal/model"
)

// MemoryTodoRepository keeps todos in process memory. Writes, including the
// whole read-modify-write of Update, hold the write lock; reads share a read
// lock and never block each other.
type MemoryTodoRepository struct {
	mu    sync.RWMutex
	todos map[string]model.Todo
}

func NewMemoryTodo() *MemoryTodoRepository {
	return &MemoryTodoRepository{todos: make(map[string]model.Todo)}
}

func (r *MemoryTodoRepository) Create(ctx context.Context, todo model.Todo) (model.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.todos[todo.ID]; ok {
		return model.Todo{}, fmt.Errorf("failed to insert todo: duplicate id %q", todo.ID)
	}
	r.todos[todo.ID] = cloneTodo(todo)
	return cloneTodo(todo), nil
}

func (r *MemoryTodoRepository) GetByID(ctx context.Context, todoID string) (model.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	todo, ok := r.todos[todoID]
	if !ok {
		return model.Todo{}, sql.ErrNoRows
	}
	return cloneTodo(todo), nil
}

func (r *MemoryTodoRepository) Update(ctx context.Context, todoID string, apply UpdateFunc) (model.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.todos[todoID]
	if !ok {
		return model.Todo{}, sql.ErrNoRows
	}

	next, err := apply(cloneTodo(existing))
	if err != nil {
		return model.Todo{}, err
	}
	next.ID = existing.ID
	next.CreatedAt = existing.CreatedAt

	r.todos[todoID] = cloneTodo(next)
	return cloneTodo(next), nil
}

func (r *MemoryTodoRepository) Delete(ctx context.Context, todoID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.todos[todoID]; !ok {
		return sql.ErrNoRows
	}
	delete(r.todos, todoID)
	return nil
}

func (r *MemoryTodoRepository) List(ctx context.Context, filter model.TodoFilter) ([]model.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	todos := []model.Todo{}
	for _, t := range r.todos {
		if filter.Matches(t) {
			todos = append(todos, cloneTodo(t))
		}
	}
	sortNewestFirst(todos)
	return todos, nil
}

func (r *MemoryTodoRepository) Stats(ctx context.Context, today string) (model.TodoStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := make([]model.Todo, 0, len(r.todos))
	for _, t := range r.todos {
		snapshot = append(snapshot, t)
	}
	return model.ComputeStats(snapshot, today), nil
}

func (r *MemoryTodoRepository) Ping(ctx context.Context) error {
	return nil
}

// sortNewestFirst orders by created_at descending, then id descending.
func sortNewestFirst(todos []model.Todo) {
	slices.SortFunc(todos, func(a, b model.Todo) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
}

// cloneTodo copies the pointer fields so callers can't mutate stored state.
func cloneTodo(t model.Todo) model.Todo {
	t.Description = cloneString(t.Description)
	t.DueDate = cloneString(t.DueDate)
	t.Category = cloneString(t.Category)
	t.Tags = cloneString(t.Tags)
	return t
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

var _ TodoRepository = (*MemoryTodoRepository)(nil)

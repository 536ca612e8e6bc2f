package repository

import (
	"context"

	"github.com/jaekwang-park/tasktrack/internal/model"
)

// UpdateFunc derives the new state of a todo from its stored state. ID and
// CreatedAt are kept from the stored record whatever it returns.
type UpdateFunc func(existing model.Todo) (model.Todo, error)

// TodoRepository persists todos. Implementations report a missing row with
// sql.ErrNoRows (possibly wrapped).
type TodoRepository interface {
	Create(ctx context.Context, todo model.Todo) (model.Todo, error)
	GetByID(ctx context.Context, todoID string) (model.Todo, error)
	// Update loads the todo, passes it to apply and stores the result as one
	// atomic step, so concurrent updates of the same todo never interleave.
	// An error from apply is returned unchanged and nothing is written.
	Update(ctx context.Context, todoID string, apply UpdateFunc) (model.Todo, error)
	Delete(ctx context.Context, todoID string) error
	List(ctx context.Context, filter model.TodoFilter) ([]model.Todo, error)
	// Stats aggregates the whole collection from a single snapshot.
	// today is the cut-off date for overdue, formatted with model.DateLayout.
	Stats(ctx context.Context, today string) (model.TodoStats, error)
	Ping(ctx context.Context) error
}

package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaekwang-park/tasktrack/internal/model"
	"github.com/jaekwang-park/tasktrack/internal/repository"
)

var base = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func newTodo(id string, offset time.Duration) model.Todo {
	return model.Todo{
		ID:        id,
		Title:     "todo " + id,
		Priority:  model.PriorityMedium,
		CreatedAt: base.Add(offset),
		UpdatedAt: base.Add(offset),
	}
}

func TestMemoryTodo_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryTodo()

	created, err := repo.Create(ctx, newTodo("a", 0))
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, created, got)

	updated, err := repo.Update(ctx, "a", func(existing model.Todo) (model.Todo, error) {
		existing.Title = "changed"
		existing.UpdatedAt = base.Add(time.Minute)
		return existing, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "changed", updated.Title)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	require.NoError(t, repo.Delete(ctx, "a"))

	_, err = repo.GetByID(ctx, "a")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.ErrorIs(t, repo.Delete(ctx, "a"), sql.ErrNoRows)

	called := false
	_, err = repo.Update(ctx, "a", func(existing model.Todo) (model.Todo, error) {
		called = true
		return existing, nil
	})
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.False(t, called, "apply must not run for a missing todo")
}

func TestMemoryTodo_UpdateKeepsIdentity(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryTodo()
	created, err := repo.Create(ctx, newTodo("a", 0))
	require.NoError(t, err)

	updated, err := repo.Update(ctx, "a", func(existing model.Todo) (model.Todo, error) {
		existing.ID = "b"
		existing.CreatedAt = base.Add(time.Hour)
		existing.Completed = true
		return existing, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "a", updated.ID)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.Completed)

	_, err = repo.GetByID(ctx, "b")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestMemoryTodo_UpdateApplyErrorWritesNothing(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryTodo()
	created, err := repo.Create(ctx, newTodo("a", 0))
	require.NoError(t, err)

	boom := errors.New("rejected")
	_, err = repo.Update(ctx, "a", func(existing model.Todo) (model.Todo, error) {
		existing.Title = "half applied"
		return existing, boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestMemoryTodo_ConcurrentUpdatesDoNotLoseFields(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryTodo()
	_, err := repo.Create(ctx, newTodo("a", 0))
	require.NoError(t, err)

	setters := []func(*model.Todo){
		func(t *model.Todo) { t.Title = "Buy oat milk" },
		func(t *model.Todo) { t.Completed = true },
		func(t *model.Todo) { t.Priority = model.PriorityHigh },
		func(t *model.Todo) { t.Category = strPtr("errands") },
		func(t *model.Todo) { t.Tags = strPtr("shop") },
		func(t *model.Todo) { t.DueDate = strPtr("2025-03-11") },
	}

	var wg sync.WaitGroup
	for _, set := range setters {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Update(ctx, "a", func(existing model.Todo) (model.Todo, error) {
				set(&existing)
				return existing, nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Buy oat milk", got.Title)
	assert.True(t, got.Completed)
	assert.Equal(t, model.PriorityHigh, got.Priority)
	assert.Equal(t, "errands", *got.Category)
	assert.Equal(t, "shop", *got.Tags)
	assert.Equal(t, "2025-03-11", *got.DueDate)
}

func TestMemoryTodo_CreateDuplicateID(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryTodo()

	_, err := repo.Create(ctx, newTodo("a", 0))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newTodo("a", 0))
	assert.Error(t, err)
}

func TestMemoryTodo_ReturnedValuesAreCopies(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryTodo()

	todo := newTodo("a", 0)
	todo.Category = strPtr("work")
	_, err := repo.Create(ctx, todo)
	require.NoError(t, err)

	*todo.Category = "mutated"
	got, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "work", *got.Category)
}

func TestMemoryTodo_ListOrderAndFilter(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryTodo()

	for _, todo := range []model.Todo{
		newTodo("a", 0),
		newTodo("b", time.Hour),
		newTodo("d", 2*time.Hour),
		newTodo("c", 2*time.Hour),
	} {
		_, err := repo.Create(ctx, todo)
		require.NoError(t, err)
	}

	all, err := repo.List(ctx, model.TodoFilter{})
	require.NoError(t, err)
	ids := make([]string, 0, len(all))
	for _, todo := range all {
		ids = append(ids, todo.ID)
	}
	assert.Equal(t, []string{"d", "c", "b", "a"}, ids)

	none, err := repo.List(ctx, model.TodoFilter{Search: "nothing matches"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestMemoryTodo_Stats(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryTodo()

	overdue := newTodo("a", 0)
	overdue.DueDate = strPtr("2025-03-09")
	overdue.Priority = model.PriorityHigh
	overdue.Category = strPtr("home")
	done := newTodo("b", time.Minute)
	done.DueDate = strPtr("2025-03-09")
	done.Completed = true

	for _, todo := range []model.Todo{overdue, done} {
		_, err := repo.Create(ctx, todo)
		require.NoError(t, err)
	}

	stats, err := repo.Stats(ctx, "2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 1, stats.Overdue)
	assert.Equal(t, model.PriorityCounts{Medium: 1, High: 1}, stats.ByPriority)
	assert.Equal(t, map[string]int{"home": 1}, stats.ByCategory)
}

func TestMemoryTodo_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryTodo()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_, err := repo.Create(ctx, newTodo(fmt.Sprintf("t-%02d", i), time.Duration(i)*time.Second))
			assert.NoError(t, err)
		}(i)
		go func() {
			defer wg.Done()
			_, err := repo.Stats(ctx, "2025-03-10")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stats, err := repo.Stats(ctx, "2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, 50, stats.Total)
	assert.Equal(t, 50, stats.ByPriority.Medium)
}

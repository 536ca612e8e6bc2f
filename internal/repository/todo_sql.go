package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jaekwang-park/tasktrack/internal/model"
)

// SQLTodoRepository stores todos in a relational database reached through
// database/sql. The dialect decides placeholder syntax and DDL.
type SQLTodoRepository struct {
	db      *sql.DB
	dialect Dialect
}

func NewSQLTodo(db *sql.DB, dialect Dialect) *SQLTodoRepository {
	return &SQLTodoRepository{db: db, dialect: dialect}
}

func NewPostgresTodo(db *sql.DB) *SQLTodoRepository {
	return NewSQLTodo(db, Postgres)
}

func NewMySQLTodo(db *sql.DB) *SQLTodoRepository {
	return NewSQLTodo(db, MySQL)
}

// EnsureSchema creates the todos table and its index if they don't exist.
func (r *SQLTodoRepository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range r.dialect.schema {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure %s schema: %w", r.dialect.Name, err)
		}
	}
	return nil
}

func (r *SQLTodoRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLTodoRepository) ph(n int) string {
	return r.dialect.Placeholder(n)
}

func (r *SQLTodoRepository) Create(ctx context.Context, todo model.Todo) (model.Todo, error) {
	query := fmt.Sprintf(`
		INSERT INTO todos (%s)
		VALUES (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s)`,
		todoColumns,
		r.ph(1), r.ph(2), r.ph(3), r.ph(4), r.ph(5), r.ph(6), r.ph(7), r.ph(8), r.ph(9), r.ph(10),
	)

	_, err := r.db.ExecContext(ctx, query,
		todo.ID, todo.Title, todo.Description, todo.Completed, string(todo.Priority),
		todo.DueDate, todo.Category, todo.Tags, todo.CreatedAt, todo.UpdatedAt,
	)
	if err != nil {
		return model.Todo{}, fmt.Errorf("failed to insert todo: %w", err)
	}

	return r.GetByID(ctx, todo.ID)
}

func (r *SQLTodoRepository) GetByID(ctx context.Context, todoID string) (model.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = ` + r.ph(1)

	row := r.db.QueryRowContext(ctx, query, todoID)
	return scanTodo(row)
}

// Update locks the row with SELECT ... FOR UPDATE, merges through apply
// and writes every mutable column back inside the same transaction.
func (r *SQLTodoRepository) Update(ctx context.Context, todoID string, apply UpdateFunc) (model.Todo, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Todo{}, fmt.Errorf("failed to begin update transaction: %w", err)
	}
	defer tx.Rollback()

	lockQuery := `SELECT ` + todoColumns + ` FROM todos WHERE id = ` + r.ph(1) + ` FOR UPDATE`
	existing, err := scanTodo(tx.QueryRowContext(ctx, lockQuery, todoID))
	if err != nil {
		return model.Todo{}, err
	}

	todo, err := apply(existing)
	if err != nil {
		return model.Todo{}, err
	}
	todo.ID = existing.ID
	todo.CreatedAt = existing.CreatedAt

	query := fmt.Sprintf(`
		UPDATE todos
		SET title = %s, description = %s, completed = %s, priority = %s,
			due_date = %s, category = %s, tags = %s, updated_at = %s
		WHERE id = %s`,
		r.ph(1), r.ph(2), r.ph(3), r.ph(4), r.ph(5), r.ph(6), r.ph(7), r.ph(8), r.ph(9),
	)

	result, err := tx.ExecContext(ctx, query,
		todo.Title, todo.Description, todo.Completed, string(todo.Priority),
		todo.DueDate, todo.Category, todo.Tags, todo.UpdatedAt, todo.ID,
	)
	if err != nil {
		return model.Todo{}, fmt.Errorf("failed to update todo: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return model.Todo{}, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return model.Todo{}, sql.ErrNoRows
	}

	updated, err := scanTodo(tx.QueryRowContext(ctx,
		`SELECT `+todoColumns+` FROM todos WHERE id = `+r.ph(1), todo.ID))
	if err != nil {
		return model.Todo{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.Todo{}, fmt.Errorf("failed to commit update: %w", err)
	}

	return updated, nil
}

func (r *SQLTodoRepository) Delete(ctx context.Context, todoID string) error {
	query := `DELETE FROM todos WHERE id = ` + r.ph(1)

	result, err := r.db.ExecContext(ctx, query, todoID)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *SQLTodoRepository) List(ctx context.Context, filter model.TodoFilter) ([]model.Todo, error) {
	query, args := buildListQuery(r.dialect, filter)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	defer rows.Close()

	todos := []model.Todo{}
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate todos: %w", err)
	}

	return todos, nil
}

// Stats runs the aggregate queries inside one read-only repeatable-read
// transaction so every figure describes the same snapshot.
func (r *SQLTodoRepository) Stats(ctx context.Context, today string) (model.TodoStats, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return model.TodoStats{}, fmt.Errorf("failed to begin stats transaction: %w", err)
	}
	defer tx.Rollback()

	stats := model.NewTodoStats()

	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM todos`).Scan(&stats.Total); err != nil {
		return model.TodoStats{}, fmt.Errorf("failed to count todos: %w", err)
	}

	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM todos WHERE completed = `+r.ph(1), true,
	).Scan(&stats.Completed); err != nil {
		return model.TodoStats{}, fmt.Errorf("failed to count completed todos: %w", err)
	}
	stats.Pending = stats.Total - stats.Completed

	err = groupCounts(ctx, tx, `SELECT priority, COUNT(*) FROM todos GROUP BY priority`,
		func(key string, n int) { stats.ByPriority.Add(model.Priority(key), n) })
	if err != nil {
		return model.TodoStats{}, fmt.Errorf("failed to count todos by priority: %w", err)
	}

	err = groupCounts(ctx, tx, `SELECT category, COUNT(*) FROM todos WHERE category IS NOT NULL GROUP BY category`,
		func(key string, n int) { stats.ByCategory[key] = n })
	if err != nil {
		return model.TodoStats{}, fmt.Errorf("failed to count todos by category: %w", err)
	}

	overdueQuery := fmt.Sprintf(
		`SELECT COUNT(*) FROM todos WHERE due_date IS NOT NULL AND due_date < %s AND completed = %s`,
		r.ph(1), r.ph(2),
	)
	if err := tx.QueryRowContext(ctx, overdueQuery, today, false).Scan(&stats.Overdue); err != nil {
		return model.TodoStats{}, fmt.Errorf("failed to count overdue todos: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return model.TodoStats{}, fmt.Errorf("failed to commit stats transaction: %w", err)
	}

	return stats, nil
}

func groupCounts(ctx context.Context, tx *sql.Tx, query string, add func(key string, n int)) error {
	rows, err := tx.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return err
		}
		add(key, n)
	}
	return rows.Err()
}

type scannable interface {
	Scan(dest ...any) error
}

func scanTodo(row scannable) (model.Todo, error) {
	var t model.Todo
	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.Completed, &t.Priority,
		&t.DueDate, &t.Category, &t.Tags, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return model.Todo{}, fmt.Errorf("failed to scan todo: %w", err)
	}
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return t, nil
}

// ensure compile-time interface compliance
var _ TodoRepository = (*SQLTodoRepository)(nil)

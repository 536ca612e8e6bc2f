package repository

import (
	"strings"

	"github.com/jaekwang-park/tasktrack/internal/model"
)

const todoColumns = `id, title, description, completed, priority, due_date, category, tags, created_at, updated_at`

// queryBuilder accumulates WHERE predicates and their bound arguments.
// Only fixed column names ever reach the SQL text; values always go
// through placeholders.
type queryBuilder struct {
	dialect    Dialect
	predicates []string
	args       []any
}

func (b *queryBuilder) bind(v any) string {
	b.args = append(b.args, v)
	return b.dialect.Placeholder(len(b.args))
}

func (b *queryBuilder) where(predicate string) {
	b.predicates = append(b.predicates, predicate)
}

func (b *queryBuilder) whereClause() string {
	if len(b.predicates) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.predicates, " AND ")
}

// buildListQuery translates a filter into a parameterized SELECT.
func buildListQuery(d Dialect, f model.TodoFilter) (string, []any) {
	b := &queryBuilder{dialect: d}

	if f.Completed != nil {
		b.where("completed = " + b.bind(*f.Completed))
	}
	if f.Priority != nil {
		b.where("priority = " + b.bind(string(*f.Priority)))
	}
	if f.Category != nil {
		b.where("category = " + b.bind(*f.Category))
	}
	if f.Search != "" {
		pattern := "%" + escapeLike(strings.ToLower(f.Search)) + "%"
		b.where("(LOWER(title) LIKE " + b.bind(pattern) +
			" OR LOWER(COALESCE(description, '')) LIKE " + b.bind(pattern) + ")")
	}
	if f.DueDate != nil {
		b.where("due_date = " + b.bind(*f.DueDate))
	}

	query := "SELECT " + todoColumns + " FROM todos" + b.whereClause() +
		" ORDER BY created_at DESC, id DESC"
	return query, b.args
}

// escapeLike makes LIKE metacharacters in s match literally, using the
// default backslash escape shared by PostgreSQL and MySQL.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

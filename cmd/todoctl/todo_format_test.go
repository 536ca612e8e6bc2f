package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaekwang-park/tasktrack/internal/model"
	"github.com/jaekwang-park/tasktrack/internal/ui"
)

var created = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func todoWith(id, title string, mutate func(*model.Todo)) model.Todo {
	t := model.Todo{
		ID:        id,
		Title:     title,
		Priority:  model.PriorityMedium,
		CreatedAt: created,
		UpdatedAt: created,
	}
	if mutate != nil {
		mutate(&t)
	}
	return t
}

func TestFormatTodoTable_Plain(t *testing.T) {
	todos := []model.Todo{
		todoWith("0192aaaa-0000-7000-8000-000000000001", "Pay rent", func(t *model.Todo) {
			t.Priority = model.PriorityHigh
			t.DueDate = strPtr("2025-03-01")
			t.Category = strPtr("home")
		}),
		todoWith("0192aaaa-0000-7000-8000-000000000002", "Buy milk", func(t *model.Todo) {
			t.Completed = true
		}),
	}

	got := formatTodoTable(todos, ui.NewStyles(false), "2025-03-10")
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	require.Len(t, lines, 3)

	assert.Regexp(t, `^ID\s+DONE\s+PRI\s+DUE\s+CATEGORY\s+TITLE$`, lines[0])
	assert.Regexp(t, `^0192aaaa-0000-7000-8000-000000000001\s+high\s+2025-03-01\s+home\s+Pay rent$`, lines[1])
	assert.Regexp(t, `^0192aaaa-0000-7000-8000-000000000002\s+x\s+medium\s+-\s+-\s+Buy milk$`, lines[2])
}

func TestFormatTodoTable_ShortensDistinctIDs(t *testing.T) {
	todos := []model.Todo{
		todoWith("aaaaaaaaaaaa1", "one", nil),
		todoWith("bbbbbbbbbbbb2", "two", nil),
	}

	got := formatTodoTable(todos, ui.NewStyles(false), "2025-03-10")

	assert.Contains(t, got, "aaaaaaaa  ")
	assert.NotContains(t, got, "aaaaaaaaaaaa1")
}

func TestFormatTodoDetail(t *testing.T) {
	todo := todoWith("id-1", "Write report", func(t *model.Todo) {
		t.DueDate = strPtr("2025-03-09")
		t.Tags = strPtr("q1,finance")
		t.Description = strPtr("Include **totals**")
	})

	got := formatTodoDetail(todo, ui.NewStyles(false), "2025-03-10", 80)

	assert.Regexp(t, `(?m)^Title:\s+Write report$`, got)
	assert.Regexp(t, `(?m)^Status:\s+overdue$`, got)
	assert.Regexp(t, `(?m)^Category:\s+-$`, got)
	assert.Regexp(t, `(?m)^Tags:\s+q1,finance$`, got)
	assert.Contains(t, got, "Description:")
	assert.Contains(t, got, "totals")
}

func TestFormatStats(t *testing.T) {
	stats := model.NewTodoStats()
	stats.Total = 3
	stats.Completed = 1
	stats.Pending = 2
	stats.Overdue = 1
	stats.ByPriority = model.PriorityCounts{Low: 1, High: 2}
	stats.ByCategory = map[string]int{"work": 1, "home": 2}

	got := formatStats(stats, ui.NewStyles(false))

	assert.Regexp(t, `(?m)^total\s+3$`, got)
	assert.Regexp(t, `(?m)^overdue\s+1$`, got)
	assert.Regexp(t, `(?m)^high\s+2$`, got)
	assert.Less(t, strings.Index(got, "home"), strings.Index(got, "work"), "categories sorted by count")
}

func TestFormatStats_NoCategories(t *testing.T) {
	got := formatStats(model.NewTodoStats(), ui.NewStyles(false))

	assert.NotContains(t, got, "CATEGORY")
}

func TestSplitDashboard(t *testing.T) {
	pending := []model.Todo{
		todoWith("a", "undated high", func(t *model.Todo) { t.Priority = model.PriorityHigh }),
		todoWith("b", "late", func(t *model.Todo) { t.DueDate = strPtr("2025-03-01") }),
		todoWith("c", "next week low", func(t *model.Todo) {
			t.DueDate = strPtr("2025-03-17")
			t.Priority = model.PriorityLow
		}),
		todoWith("d", "today", func(t *model.Todo) { t.DueDate = strPtr("2025-03-10") }),
		todoWith("e", "next week high", func(t *model.Todo) {
			t.DueDate = strPtr("2025-03-17")
			t.Priority = model.PriorityHigh
		}),
	}

	overdue, upcoming := splitDashboard(pending, "2025-03-10", 3)

	require.Len(t, overdue, 1)
	assert.Equal(t, "b", overdue[0].ID)

	ids := make([]string, 0, len(upcoming))
	for _, t := range upcoming {
		ids = append(ids, t.ID)
	}
	assert.Equal(t, []string{"d", "e", "c"}, ids)
}

func TestMatchPrefix(t *testing.T) {
	todos := []model.Todo{
		todoWith("0192abcd-1", "one", nil),
		todoWith("0192abce-2", "two", nil),
	}

	id, err := matchPrefix(todos, "0192abcd")
	require.NoError(t, err)
	assert.Equal(t, "0192abcd-1", id)

	_, err = matchPrefix(todos, "0192ab")
	assert.ErrorContains(t, err, "ambiguous")

	_, err = matchPrefix(todos, "ffff")
	assert.ErrorContains(t, err, "no todo matches")

	_, err = matchPrefix(todos, "")
	assert.ErrorContains(t, err, "empty todo id")
}

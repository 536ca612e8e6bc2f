package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/jaekwang-park/tasktrack/internal/markdown"
	"github.com/jaekwang-park/tasktrack/internal/model"
	"github.com/jaekwang-park/tasktrack/internal/ui"
)

const (
	minShortIDLen   = 8
	maxDetailWidth  = 100
	detailTimestamp = "2006-01-02 15:04:05"
)

func formatTodoTable(todos []model.Todo, st ui.Styles, today string) string {
	ids := make([]string, len(todos))
	for i, t := range todos {
		ids[i] = t.ID
	}
	prefixLengths := ui.UniqueIDPrefixLengths(ids)

	table := ui.NewTable("ID", "DONE", "PRI", "DUE", "CATEGORY", "TITLE")
	for _, t := range todos {
		done := " "
		if t.Completed {
			done = "x"
		}

		due := deref(t.DueDate, "-")
		title := ui.TruncateCell(t.Title)
		priority := string(t.Priority)
		switch {
		case t.IsOverdue(today):
			due = st.Render(st.Overdue, due)
			title = st.Render(st.Overdue, title)
		case t.Completed:
			title = st.Render(st.Done, title)
		}
		if t.Priority == model.PriorityHigh {
			priority = st.Render(st.High, priority)
		}

		table.AddRow(
			st.ShortID(t.ID, prefixLengths[strings.ToLower(t.ID)], minShortIDLen),
			done,
			priority,
			due,
			ui.TruncateCell(deref(t.Category, "-")),
			title,
		)
	}
	return table.String()
}

func formatTodoDetail(t model.Todo, st ui.Styles, today string, width int) string {
	var b strings.Builder
	line := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", st.Render(st.Label, fmt.Sprintf("%-10s", label+":")), value)
	}

	status := "pending"
	switch {
	case t.Completed:
		status = st.Render(st.Success, "completed")
	case t.IsOverdue(today):
		status = st.Render(st.Overdue, "overdue")
	}

	line("ID", st.Render(st.ID, t.ID))
	line("Title", t.Title)
	line("Status", status)
	line("Priority", string(t.Priority))
	line("Due", deref(t.DueDate, "-"))
	line("Category", deref(t.Category, "-"))
	line("Tags", deref(t.Tags, "-"))
	line("Created", t.CreatedAt.Local().Format(detailTimestamp))
	line("Updated", t.UpdatedAt.Local().Format(detailTimestamp))

	if t.Description != nil {
		if rendered := markdown.Render(*t.Description, width, st.Enabled()); rendered != "" {
			fmt.Fprintf(&b, "\n%s\n%s\n", st.Render(st.Label, "Description:"), rendered)
		}
	}
	return b.String()
}

func formatStats(stats model.TodoStats, st ui.Styles) string {
	var b strings.Builder
	table := ui.NewTable("METRIC", "COUNT")
	table.AddRow("total", fmt.Sprint(stats.Total))
	table.AddRow("completed", st.Render(st.Success, fmt.Sprint(stats.Completed)))
	table.AddRow("pending", fmt.Sprint(stats.Pending))
	overdue := fmt.Sprint(stats.Overdue)
	if stats.Overdue > 0 {
		overdue = st.Render(st.Overdue, overdue)
	}
	table.AddRow("overdue", overdue)
	b.WriteString(table.String())

	b.WriteString("\n")
	priorities := ui.NewTable("PRIORITY", "COUNT")
	priorities.AddRow("high", fmt.Sprint(stats.ByPriority.High))
	priorities.AddRow("medium", fmt.Sprint(stats.ByPriority.Medium))
	priorities.AddRow("low", fmt.Sprint(stats.ByPriority.Low))
	b.WriteString(priorities.String())

	if len(stats.ByCategory) > 0 {
		b.WriteString("\n")
		categories := ui.NewTable("CATEGORY", "COUNT")
		for _, name := range sortedCategories(stats.ByCategory) {
			categories.AddRow(ui.TruncateCell(name), fmt.Sprint(stats.ByCategory[name]))
		}
		b.WriteString(categories.String())
	}
	return b.String()
}

// sortedCategories orders by count, then name.
func sortedCategories(counts map[string]int) []string {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}

func detailWidth() int {
	w := ui.TerminalWidth(os.Stdout, 80)
	if w > maxDetailWidth {
		w = maxDetailWidth
	}
	return w
}

func deref(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}

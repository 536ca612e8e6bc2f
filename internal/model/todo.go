package model

import (
	"strings"
	"time"
)

// DateLayout is the wire and storage format of due dates.
const DateLayout = "2006-01-02"

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) IsValid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

type Todo struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Completed   bool      `json:"completed"`
	Priority    Priority  `json:"priority"`
	DueDate     *string   `json:"due_date"`
	Category    *string   `json:"category"`
	Tags        *string   `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsOverdue reports whether the todo has a due date strictly before today
// and is still open. today must be formatted with DateLayout.
func (t Todo) IsOverdue(today string) bool {
	return t.DueDate != nil && *t.DueDate < today && !t.Completed
}

// TodoFilter narrows a list query. Nil pointers and an empty Search mean
// the filter is not applied; supplied filters combine with AND.
type TodoFilter struct {
	Completed *bool
	Priority  *Priority
	Category  *string
	Search    string
	DueDate   *string
}

// Matches applies the filter to a single todo. Search is a case-insensitive
// substring match against the title or the description.
func (f TodoFilter) Matches(t Todo) bool {
	if f.Completed != nil && t.Completed != *f.Completed {
		return false
	}
	if f.Priority != nil && t.Priority != *f.Priority {
		return false
	}
	if f.Category != nil && (t.Category == nil || *t.Category != *f.Category) {
		return false
	}
	if f.DueDate != nil && (t.DueDate == nil || *t.DueDate != *f.DueDate) {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		inTitle := strings.Contains(strings.ToLower(t.Title), needle)
		inDesc := t.Description != nil && strings.Contains(strings.ToLower(*t.Description), needle)
		if !inTitle && !inDesc {
			return false
		}
	}
	return true
}

// Today returns the calendar date of now in UTC, formatted with DateLayout.
func Today(now time.Time) string {
	return now.UTC().Format(DateLayout)
}

// ValidDate reports whether s is a calendar date in DateLayout.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

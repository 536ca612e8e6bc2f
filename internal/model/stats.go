package model

type PriorityCounts struct {
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`
}

// Add increments the bucket for p. Unknown priorities are ignored.
func (c *PriorityCounts) Add(p Priority, n int) {
	switch p {
	case PriorityLow:
		c.Low += n
	case PriorityMedium:
		c.Medium += n
	case PriorityHigh:
		c.High += n
	}
}

func (c PriorityCounts) Sum() int {
	return c.Low + c.Medium + c.High
}

type TodoStats struct {
	Total      int            `json:"total"`
	Completed  int            `json:"completed"`
	Pending    int            `json:"pending"`
	Overdue    int            `json:"overdue"`
	ByPriority PriorityCounts `json:"byPriority"`
	ByCategory map[string]int `json:"byCategory"`
}

// NewTodoStats returns zeroed stats with a non-nil category map.
func NewTodoStats() TodoStats {
	return TodoStats{ByCategory: map[string]int{}}
}

// ComputeStats aggregates todos as of today (DateLayout).
func ComputeStats(todos []Todo, today string) TodoStats {
	stats := NewTodoStats()
	for _, t := range todos {
		stats.Total++
		if t.Completed {
			stats.Completed++
		}
		if t.IsOverdue(today) {
			stats.Overdue++
		}
		stats.ByPriority.Add(t.Priority, 1)
		if t.Category != nil {
			stats.ByCategory[*t.Category]++
		}
	}
	stats.Pending = stats.Total - stats.Completed
	return stats
}

package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jaekwang-park/tasktrack/internal/model"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show counts across all todos",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

var statsJSON bool

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show stats with overdue and upcoming todos",
	Args:  cobra.NoArgs,
	RunE:  runDashboard,
}

var dashboardLimit int

func init() {
	rootCmd.AddCommand(statsCmd, dashboardCmd)

	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Output as JSON")
	dashboardCmd.Flags().IntVarP(&dashboardLimit, "limit", "n", 10, "Maximum upcoming todos to show")
}

func runStats(cmd *cobra.Command, args []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}

	stats, err := c.Stats(cmd.Context())
	if err != nil {
		return err
	}

	if statsJSON {
		return writeJSON(cmd.OutOrStdout(), stats)
	}
	fmt.Fprint(cmd.OutOrStdout(), formatStats(stats, styles()))
	return nil
}

func runDashboard(cmd *cobra.Command, args []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}

	var (
		stats   model.TodoStats
		pending []model.Todo
	)
	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		var err error
		stats, err = c.Stats(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		pending, err = c.List(ctx, model.TodoFilter{Completed: boolPtr(false)})
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	st := styles()
	today := model.Today(time.Now())
	overdue, upcoming := splitDashboard(pending, today, dashboardLimit)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d todos: %d completed, %d pending, %s\n",
		stats.Total, stats.Completed, stats.Pending, st.Render(st.Overdue, fmt.Sprintf("%d overdue", stats.Overdue)))

	if len(overdue) > 0 {
		fmt.Fprintf(out, "\n%s\n", st.Render(st.Header, "Overdue"))
		fmt.Fprint(out, formatTodoTable(overdue, st, today))
	}

	fmt.Fprintf(out, "\n%s\n", st.Render(st.Header, "Up next"))
	if len(upcoming) == 0 {
		fmt.Fprintln(out, "Nothing pending.")
		return nil
	}
	fmt.Fprint(out, formatTodoTable(upcoming, st, today))
	return nil
}

// splitDashboard separates overdue todos from the rest and orders the rest by
// due date (undated last), high priority first within a day.
func splitDashboard(pending []model.Todo, today string, limit int) (overdue, upcoming []model.Todo) {
	for _, t := range pending {
		if t.IsOverdue(today) {
			overdue = append(overdue, t)
		} else {
			upcoming = append(upcoming, t)
		}
	}

	rank := map[model.Priority]int{model.PriorityHigh: 0, model.PriorityMedium: 1, model.PriorityLow: 2}
	sort.SliceStable(upcoming, func(i, j int) bool {
		a, b := upcoming[i], upcoming[j]
		switch {
		case a.DueDate == nil && b.DueDate != nil:
			return false
		case a.DueDate != nil && b.DueDate == nil:
			return true
		case a.DueDate != nil && *a.DueDate != *b.DueDate:
			return *a.DueDate < *b.DueDate
		}
		return rank[a.Priority] < rank[b.Priority]
	})

	if limit > 0 && len(upcoming) > limit {
		upcoming = upcoming[:limit]
	}
	return overdue, upcoming
}

package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jaekwang-park/tasktrack/internal/client"
	"github.com/jaekwang-park/tasktrack/internal/model"
)

// list
var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List todos, newest first",
	Aliases: []string{"ls"},
	Args:    cobra.NoArgs,
	RunE:    runList,
}

var (
	listCompleted bool
	listPending   bool
	listOverdue   bool
	listPriority  string
	listCategory  string
	listSearch    string
	listDue       string
	listJSON      bool
)

// show
var showCmd = &cobra.Command{
	Use:   "show <id>...",
	Short: "Show detailed information about todos",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runShow,
}

var showJSON bool

// add
var addCmd = &cobra.Command{
	Use:   "add <title>...",
	Short: "Create a todo",
	Long: `Create a todo. Remaining arguments are joined to form the title.

Use --description - to read the description from stdin.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

var (
	addDescription string
	addPriority    string
	addDue         string
	addCategory    string
	addTags        string
	addQuiet       bool
)

// update
var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change fields of a todo",
	Long: `Change fields of a todo. Only the flags you pass are sent; everything
else is left as it is. The --clear-* flags remove a value.`,
	Aliases: []string{"edit"},
	Args:    cobra.ExactArgs(1),
	RunE:    runUpdate,
}

var (
	updateTitle            string
	updateDescription      string
	updatePriority         string
	updateDue              string
	updateCategory         string
	updateTags             string
	updateCompleted        bool
	updateClearDescription bool
	updateClearDue         bool
	updateClearCategory    bool
	updateClearTags        bool
)

// done / undo
var doneCmd = &cobra.Command{
	Use:   "done <id>...",
	Short: "Mark todos as completed",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runToggle(cmd, args, true)
	},
}

var undoCmd = &cobra.Command{
	Use:   "undo <id>...",
	Short: "Mark todos as not completed",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runToggle(cmd, args, false)
	},
}

// delete
var deleteCmd = &cobra.Command{
	Use:     "delete <id>...",
	Short:   "Delete todos",
	Aliases: []string{"rm"},
	Args:    cobra.MinimumNArgs(1),
	RunE:    runDelete,
}

func init() {
	rootCmd.AddCommand(listCmd, showCmd, addCmd, updateCmd, doneCmd, undoCmd, deleteCmd)

	listCmd.Flags().BoolVar(&listCompleted, "completed", false, "Only completed todos")
	listCmd.Flags().BoolVar(&listPending, "pending", false, "Only todos not yet completed")
	listCmd.Flags().BoolVar(&listOverdue, "overdue", false, "Only pending todos due before today")
	listCmd.Flags().StringVarP(&listPriority, "priority", "p", "", "Filter by priority (low, medium, high)")
	listCmd.Flags().StringVarP(&listCategory, "category", "c", "", "Filter by exact category")
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Case-insensitive text in title or description")
	listCmd.Flags().StringVar(&listDue, "due", "", "Filter by due date (YYYY-MM-DD)")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
	listCmd.MarkFlagsMutuallyExclusive("completed", "pending")
	listCmd.MarkFlagsMutuallyExclusive("completed", "overdue")

	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output as JSON")

	addCmd.Flags().StringVarP(&addDescription, "description", "d", "", "Description, markdown allowed (use '-' to read from stdin)")
	addCmd.Flags().StringVarP(&addPriority, "priority", "p", "", "Priority (low, medium, high; default medium)")
	addCmd.Flags().StringVar(&addDue, "due", "", "Due date (YYYY-MM-DD)")
	addCmd.Flags().StringVarP(&addCategory, "category", "c", "", "Category")
	addCmd.Flags().StringVar(&addTags, "tags", "", "Comma-separated tags")
	addCmd.Flags().BoolVarP(&addQuiet, "quiet", "q", false, "Print only the new todo's id")

	updateCmd.Flags().StringVar(&updateTitle, "title", "", "New title")
	updateCmd.Flags().StringVarP(&updateDescription, "description", "d", "", "New description (use '-' to read from stdin)")
	updateCmd.Flags().StringVarP(&updatePriority, "priority", "p", "", "New priority (low, medium, high)")
	updateCmd.Flags().StringVar(&updateDue, "due", "", "New due date (YYYY-MM-DD)")
	updateCmd.Flags().StringVarP(&updateCategory, "category", "c", "", "New category")
	updateCmd.Flags().StringVar(&updateTags, "tags", "", "New comma-separated tags")
	updateCmd.Flags().BoolVar(&updateCompleted, "completed", false, "Set the completed flag (--completed=false to reopen)")
	updateCmd.Flags().BoolVar(&updateClearDescription, "clear-description", false, "Remove the description")
	updateCmd.Flags().BoolVar(&updateClearDue, "clear-due", false, "Remove the due date")
	updateCmd.Flags().BoolVar(&updateClearCategory, "clear-category", false, "Remove the category")
	updateCmd.Flags().BoolVar(&updateClearTags, "clear-tags", false, "Remove the tags")
	updateCmd.MarkFlagsMutuallyExclusive("description", "clear-description")
	updateCmd.MarkFlagsMutuallyExclusive("due", "clear-due")
	updateCmd.MarkFlagsMutuallyExclusive("category", "clear-category")
	updateCmd.MarkFlagsMutuallyExclusive("tags", "clear-tags")
}

func runList(cmd *cobra.Command, args []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}

	filter := model.TodoFilter{Search: listSearch}
	switch {
	case listCompleted:
		filter.Completed = boolPtr(true)
	case listPending, listOverdue:
		filter.Completed = boolPtr(false)
	}
	if cmd.Flags().Changed("priority") {
		p := model.Priority(listPriority)
		filter.Priority = &p
	}
	if cmd.Flags().Changed("category") {
		filter.Category = &listCategory
	}
	if cmd.Flags().Changed("due") {
		filter.DueDate = &listDue
	}

	todos, err := c.List(cmd.Context(), filter)
	if err != nil {
		return err
	}

	today := model.Today(time.Now())
	if listOverdue {
		todos = overdueOnly(todos, today)
	}

	out := cmd.OutOrStdout()
	if listJSON {
		return writeJSON(out, todos)
	}
	if len(todos) == 0 {
		fmt.Fprintln(out, "No todos found.")
		return nil
	}
	fmt.Fprint(out, formatTodoTable(todos, styles(), today))
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}
	ids, err := resolveIDs(cmd.Context(), c, args)
	if err != nil {
		return err
	}

	todos := make([]model.Todo, 0, len(ids))
	for _, id := range ids {
		todo, err := c.Get(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("%s: %w", id, err)
		}
		todos = append(todos, todo)
	}

	out := cmd.OutOrStdout()
	if showJSON {
		return writeJSON(out, todos)
	}

	st := styles()
	today := model.Today(time.Now())
	width := detailWidth()
	for i, todo := range todos {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprint(out, formatTodoDetail(todo, st, today, width))
	}
	return nil
}

func runAdd(cmd *cobra.Command, args []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}

	req := client.CreateRequest{
		Title:    strings.Join(args, " "),
		Priority: model.Priority(addPriority),
	}
	if cmd.Flags().Changed("description") {
		desc, err := readValue(cmd.InOrStdin(), addDescription)
		if err != nil {
			return err
		}
		req.Description = &desc
	}
	if cmd.Flags().Changed("due") {
		req.DueDate = &addDue
	}
	if cmd.Flags().Changed("category") {
		req.Category = &addCategory
	}
	if cmd.Flags().Changed("tags") {
		req.Tags = &addTags
	}

	todo, err := c.Create(cmd.Context(), req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if addQuiet {
		fmt.Fprintln(out, todo.ID)
		return nil
	}
	st := styles()
	fmt.Fprintf(out, "Created %s %s\n", st.Render(st.ID, todo.ID), todo.Title)
	return nil
}

func runUpdate(cmd *cobra.Command, args []string) error {
	if !hasChangedFlags(cmd, "title", "description", "priority", "due", "category", "tags", "completed",
		"clear-description", "clear-due", "clear-category", "clear-tags") {
		return fmt.Errorf("nothing to update: pass at least one field flag")
	}

	c, err := newClient()
	if err != nil {
		return err
	}
	id, err := resolveID(cmd.Context(), c, args[0])
	if err != nil {
		return err
	}

	var req client.UpdateRequest
	if cmd.Flags().Changed("title") {
		req.Title = &updateTitle
	}
	if cmd.Flags().Changed("description") {
		desc, err := readValue(cmd.InOrStdin(), updateDescription)
		if err != nil {
			return err
		}
		req.Description = model.NewNullable(desc)
	}
	if cmd.Flags().Changed("priority") {
		p := model.Priority(updatePriority)
		req.Priority = &p
	}
	if cmd.Flags().Changed("completed") {
		req.Completed = &updateCompleted
	}
	req.DueDate = nullableFlag(cmd, "due", updateDue, updateClearDue)
	req.Category = nullableFlag(cmd, "category", updateCategory, updateClearCategory)
	req.Tags = nullableFlag(cmd, "tags", updateTags, updateClearTags)
	if updateClearDescription {
		req.Description = model.Null[string]()
	}

	todo, err := c.Update(cmd.Context(), id, req)
	if err != nil {
		return err
	}

	st := styles()
	fmt.Fprintf(cmd.OutOrStdout(), "Updated %s %s\n", st.Render(st.ID, todo.ID), todo.Title)
	return nil
}

func runToggle(cmd *cobra.Command, args []string, completed bool) error {
	c, err := newClient()
	if err != nil {
		return err
	}
	ids, err := resolveIDs(cmd.Context(), c, args)
	if err != nil {
		return err
	}

	verb := "Completed"
	if !completed {
		verb = "Reopened"
	}
	st := styles()
	out := cmd.OutOrStdout()
	for _, id := range ids {
		todo, err := c.Toggle(cmd.Context(), id, completed)
		if err != nil {
			return fmt.Errorf("%s: %w", id, err)
		}
		fmt.Fprintf(out, "%s %s %s\n", verb, st.Render(st.ID, todo.ID), todo.Title)
	}
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}
	ids, err := resolveIDs(cmd.Context(), c, args)
	if err != nil {
		return err
	}

	st := styles()
	out := cmd.OutOrStdout()
	for _, id := range ids {
		if err := c.Delete(cmd.Context(), id); err != nil {
			return fmt.Errorf("%s: %w", id, err)
		}
		fmt.Fprintf(out, "Deleted %s\n", st.Render(st.ID, id))
	}
	return nil
}

func hasChangedFlags(cmd *cobra.Command, flags ...string) bool {
	for _, flag := range flags {
		if cmd.Flags().Changed(flag) {
			return true
		}
	}
	return false
}

// nullableFlag maps a value flag and its --clear-* partner onto a Nullable.
func nullableFlag(cmd *cobra.Command, name, value string, clear bool) model.Nullable[string] {
	switch {
	case clear:
		return model.Null[string]()
	case cmd.Flags().Changed(name):
		return model.NewNullable(value)
	default:
		return model.Nullable[string]{}
	}
}

// readValue returns value, or all of stdin when value is "-".
func readValue(stdin io.Reader, value string) (string, error) {
	if value != "-" {
		return value, nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

func overdueOnly(todos []model.Todo, today string) []model.Todo {
	out := make([]model.Todo, 0, len(todos))
	for _, t := range todos {
		if t.IsOverdue(today) {
			out = append(out, t)
		}
	}
	return out
}

func boolPtr(b bool) *bool { return &b }

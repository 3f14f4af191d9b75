package cli

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/tgienger/crm/internal/models"
	"github.com/tgienger/crm/internal/report"
	"github.com/tgienger/crm/internal/store"
)

// NewTasksCommand creates the tasks command group.
func NewTasksCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"task", "t"},
		Short:   "Manage tasks",
	}

	cmd.AddCommand(newTasksListCommand(rootOpts))
	cmd.AddCommand(newTasksAddCommand(rootOpts))
	cmd.AddCommand(newTasksUpdateCommand(rootOpts))
	cmd.AddCommand(newTasksDoneCommand(rootOpts))
	cmd.AddCommand(newTasksDeleteCommand(rootOpts))
	return cmd
}

// TaskListResult is the JSON payload of tasks list.
type TaskListResult struct {
	Counts report.StatusCounts `json:"counts"`
	Tasks  []models.Task       `json:"tasks"`
}

func newTasksListCommand(rootOpts *RootOptions) *cobra.Command {
	var query, status, priority, customer string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks, overdue first, then by deadline",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := report.TaskFilter{Query: query, CustomerID: customer}
			if status != "" {
				st, err := parseTaskStatus(status)
				if err != nil {
					return usageError(err)
				}
				filter.Status = st
			}
			if priority != "" {
				p, err := parsePriority(priority)
				if err != nil {
					return usageError(err)
				}
				filter.Priority = p
			}

			e, err := openEnv(rootOpts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.Close()

			now := e.store.Now()
			all := e.store.Tasks().List()
			result := TaskListResult{
				Counts: report.CountByStatus(all, now),
				Tasks:  report.FilterTasks(all, filter, now),
			}
			return newFormatter(rootOpts, cmd).Success(result, func(w io.Writer) error {
				return writeTasks(w, result, now)
			})
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "search title and description")
	cmd.Flags().StringVar(&status, "status", "", "only tasks with this status")
	cmd.Flags().StringVar(&priority, "priority", "", "only tasks with this priority")
	cmd.Flags().StringVar(&customer, "customer", "", "only tasks of this customer id")
	return cmd
}

type taskFlags struct {
	customer, title, description, deadline, status, priority, assignee string
}

func (f *taskFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.customer, "customer", "", "customer id")
	cmd.Flags().StringVar(&f.title, "title", "", "short title")
	cmd.Flags().StringVar(&f.description, "description", "", "details")
	cmd.Flags().StringVar(&f.deadline, "deadline", "", "YYYY-MM-DD, RFC 3339, or relative such as 3d or 36h")
	cmd.Flags().StringVar(&f.status, "status", "", "todo, in-progress or done")
	cmd.Flags().StringVar(&f.priority, "priority", "", "low, medium or high")
	cmd.Flags().StringVar(&f.assignee, "assignee", "", "who works on it")
}

func newTasksAddCommand(rootOpts *RootOptions) *cobra.Command {
	var f taskFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a task for a customer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(rootOpts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.Close()

			draft, err := f.draft(e.store.Now())
			if err != nil {
				return usageError(err)
			}

			task, err := e.store.Tasks().Add(draft)
			if errors.Is(err, store.ErrUnknownCustomer) {
				return notFound("customer", draft.CustomerID)
			}
			if err != nil {
				return WrapExitError(ExitFailure, "add task", err)
			}
			return newFormatter(rootOpts, cmd).Success(task, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Added task %q (%s), due %s\n", task.Title, task.ID, formatDate(task.Deadline))
				return err
			})
		},
	}

	f.register(cmd)
	return cmd
}

func (f *taskFlags) draft(now time.Time) (models.TaskDraft, error) {
	d := models.TaskDraft{
		CustomerID:  f.customer,
		Title:       f.title,
		Description: f.description,
		Assignee:    f.assignee,
	}
	if f.deadline != "" {
		t, err := parseDeadline(f.deadline, now)
		if err != nil {
			return d, err
		}
		d.Deadline = t
	}
	if f.status != "" {
		st, err := parseTaskStatus(f.status)
		if err != nil {
			return d, err
		}
		d.Status = st
	}
	if f.priority != "" {
		p, err := parsePriority(f.priority)
		if err != nil {
			return d, err
		}
		d.Priority = p
	}
	return d, d.Validate()
}

func (f *taskFlags) patch(cmd *cobra.Command, now time.Time) (models.TaskPatch, error) {
	var p models.TaskPatch
	changed := cmd.Flags().Changed

	if changed("customer") {
		p.CustomerID = &f.customer
	}
	if changed("title") {
		p.Title = &f.title
	}
	if changed("description") {
		p.Description = &f.description
	}
	if changed("deadline") {
		t, err := parseDeadline(f.deadline, now)
		if err != nil {
			return p, err
		}
		p.Deadline = &t
	}
	if changed("status") {
		st, err := parseTaskStatus(f.status)
		if err != nil {
			return p, err
		}
		p.Status = &st
	}
	if changed("priority") {
		pr, err := parsePriority(f.priority)
		if err != nil {
			return p, err
		}
		p.Priority = &pr
	}
	if changed("assignee") {
		p.Assignee = &f.assignee
	}
	return p, p.Validate()
}

func newTasksUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	var f taskFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a task; only the given flags change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(rootOpts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.Close()

			patch, err := f.patch(cmd, e.store.Now())
			if err != nil {
				return usageError(err)
			}
			return updateTask(rootOpts, cmd, e, args[0], patch)
		},
	}

	f.register(cmd)
	return cmd
}

func newTasksDoneCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task as done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(rootOpts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.Close()

			return updateTask(rootOpts, cmd, e, args[0], models.TaskPatch{Status: models.Ptr(models.TaskDone)})
		},
	}
}

func updateTask(rootOpts *RootOptions, cmd *cobra.Command, e *env, id string, patch models.TaskPatch) error {
	task, ok, err := e.store.Tasks().Update(id, patch)
	if err != nil {
		return WrapExitError(ExitFailure, "update task", err)
	}
	if !ok {
		return notFound("task", id)
	}
	return newFormatter(rootOpts, cmd).Success(task, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "Updated task %q (%s): %s\n", task.Title, task.ID, task.Status)
		return err
	})
}

func newTasksDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(rootOpts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.Close()

			ok, err := e.store.Tasks().Delete(args[0])
			if err != nil {
				return WrapExitError(ExitFailure, "delete task", err)
			}
			if !ok {
				return notFound("task", args[0])
			}
			result := map[string]string{"deleted": args[0]}
			return newFormatter(rootOpts, cmd).Success(result, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Deleted task %s\n", args[0])
				return err
			})
		},
	}
}

func formatDate(t time.Time) string {
	return t.Local().Format("Jan 2, 2006")
}

func writeTasks(w io.Writer, res TaskListResult, now time.Time) error {
	c := res.Counts
	fmt.Fprintf(w, "Todo: %d  In Progress: %d  Done: %d  Overdue: %d\n\n", c.Todo, c.InProgress, c.Done, c.Overdue)
	if len(res.Tasks) == 0 {
		_, err := fmt.Fprintln(w, "No tasks found.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tSTATUS\tPRIORITY\tDEADLINE\tASSIGNEE")
	for _, t := range res.Tasks {
		deadline := formatDate(t.Deadline)
		if report.NeedsAttention(t, now) {
			deadline += " (overdue)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", t.ID, t.Title, t.Status, t.Priority, deadline, t.Assignee)
	}
	return tw.Flush()
}

package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tgienger/crm/internal/models"
	"github.com/tgienger/crm/internal/report"
)

// NewDashboardCommand creates the dashboard command.
func NewDashboardCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show counters, upcoming tasks and recent activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(rootOpts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.Close()

			summary := report.Dashboard(e.store.Snapshot(), e.store.Now())
			return newFormatter(rootOpts, cmd).Success(summary, func(w io.Writer) error {
				return writeDashboard(w, summary)
			})
		},
	}
}

// NewActivityCommand creates the activity command.
func NewActivityCommand(rootOpts *RootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show the activity log, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return usageError(fmt.Errorf("--limit must not be negative"))
			}

			e, err := openEnv(rootOpts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.Close()

			activities := report.RecentActivity(e.store.Activities().List(), limit)
			return newFormatter(rootOpts, cmd).Success(activities, func(w io.Writer) error {
				return writeActivities(w, activities)
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", report.RecentLimit, "number of entries to show")
	return cmd
}

func writeDashboard(w io.Writer, s report.Summary) error {
	st := s.Stats
	fmt.Fprintf(w, "Customers:  %d (%d this month)\n", st.TotalCustomers, st.CustomersThisMonth)
	fmt.Fprintf(w, "Leads:      %d\n", st.ActiveLeads)
	fmt.Fprintf(w, "Pending:    %d (%d created this week)\n", st.TasksPending, st.TasksThisWeek)
	fmt.Fprintf(w, "Completed:  %d\n\n", st.TasksCompleted)

	fmt.Fprintln(w, "Upcoming tasks")
	if len(s.UpcomingTasks) == 0 {
		fmt.Fprintln(w, "  No upcoming tasks")
	} else {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, t := range s.UpcomingTasks {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", t.Title, t.Priority, formatDate(t.Deadline))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	fmt.Fprintln(w, "\nRecent activity")
	return writeActivities(w, s.RecentActivity)
}

func writeActivities(w io.Writer, activities []models.Activity) error {
	if len(activities) == 0 {
		_, err := fmt.Fprintln(w, "  No recent activity")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, a := range activities {
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", a.Timestamp.Local().Format("Jan 2 15:04"), a.Title, a.Description)
	}
	return tw.Flush()
}

// Package report computes read-only views over a snapshot of the store:
// dashboard statistics, the upcoming task and recent activity feeds, and
// filtered or sorted customer and task lists. Every function is pure and
// takes the current time explicitly.
package report

import (
	"slices"
	"time"

	"github.com/tgienger/crm/internal/models"
)

// Dashboard feed sizes.
const (
	UpcomingLimit = 5
	RecentLimit   = 10
)

// Stats are the dashboard counters.
type Stats struct {
	TotalCustomers     int `json:"totalCustomers"`
	ActiveLeads        int `json:"activeLeads"`
	TasksPending       int `json:"tasksPending"`
	TasksCompleted     int `json:"tasksCompleted"`
	CustomersThisMonth int `json:"customersThisMonth"`
	TasksThisWeek      int `json:"tasksThisWeek"`
}

// Summary is everything the dashboard screen shows.
type Summary struct {
	Stats          Stats             `json:"stats"`
	UpcomingTasks  []models.Task     `json:"upcomingTasks"`
	RecentActivity []models.Activity `json:"recentActivity"`
}

// Summarize counts customers and tasks. Pending and completed always add up
// to the number of tasks.
func Summarize(snap models.Snapshot, now time.Time) Stats {
	// boundaries are local midnights whatever zone the clock reports in
	monthStart := StartOfMonth(now.Local())
	weekStart := StartOfWeek(now.Local())

	st := Stats{TotalCustomers: len(snap.Customers)}
	for _, c := range snap.Customers {
		if c.Status == models.CustomerLead {
			st.ActiveLeads++
		}
		if !c.CreatedAt.Before(monthStart) {
			st.CustomersThisMonth++
		}
	}
	for _, t := range snap.Tasks {
		if t.Done() {
			st.TasksCompleted++
		} else {
			st.TasksPending++
		}
		if !t.CreatedAt.Before(weekStart) {
			st.TasksThisWeek++
		}
	}
	return st
}

// UpcomingTasks returns open tasks due within UpcomingWindow of now,
// overdue ones included, earliest deadline first, at most limit of them.
func UpcomingTasks(tasks []models.Task, now time.Time, limit int) []models.Task {
	horizon := now.Add(UpcomingWindow)

	out := []models.Task{}
	for _, t := range tasks {
		if !t.Done() && !t.Deadline.After(horizon) {
			out = append(out, t)
		}
	}
	slices.SortStableFunc(out, func(a, b models.Task) int {
		return a.Deadline.Compare(b.Deadline)
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// RecentActivity returns the first limit entries of the newest-first log.
func RecentActivity(activities []models.Activity, limit int) []models.Activity {
	n := min(len(activities), max(limit, 0))
	return append([]models.Activity{}, activities[:n]...)
}

// Dashboard builds the full dashboard view.
func Dashboard(snap models.Snapshot, now time.Time) Summary {
	return Summary{
		Stats:          Summarize(snap, now),
		UpcomingTasks:  UpcomingTasks(snap.Tasks, now, UpcomingLimit),
		RecentActivity: RecentActivity(snap.Activities, RecentLimit),
	}
}

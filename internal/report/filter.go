package report

import (
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/tgienger/crm/internal/models"
)

// CustomerField names a customer field the search query is matched against.
type CustomerField string

const (
	CustomerName    CustomerField = "name"
	CustomerEmail   CustomerField = "email"
	CustomerCompany CustomerField = "company"
	CustomerPhone   CustomerField = "phone"
	CustomerNotes   CustomerField = "notes"
)

// DefaultCustomerFields are searched when a filter names none.
var DefaultCustomerFields = []CustomerField{CustomerName, CustomerEmail, CustomerCompany}

// CustomerFilter narrows a customer list. Zero-valued fields match
// everything.
type CustomerFilter struct {
	Query  string
	Fields []CustomerField
	Status models.CustomerStatus
	Tag    string
}

// TaskField names a task field the search query is matched against.
type TaskField string

const (
	TaskTitle       TaskField = "title"
	TaskDescription TaskField = "description"
	TaskAssignee    TaskField = "assignee"
)

// DefaultTaskFields are searched when a filter names none.
var DefaultTaskFields = []TaskField{TaskTitle, TaskDescription}

// TaskFilter narrows a task list. Zero-valued fields match everything.
type TaskFilter struct {
	Query      string
	Fields     []TaskField
	Status     models.TaskStatus
	Priority   models.Priority
	CustomerID string
}

// matcher does case-insensitive substring matching.
type matcher struct {
	fold  cases.Caser
	query string
}

func newMatcher(query string) *matcher {
	m := &matcher{fold: cases.Fold()}
	m.query = m.fold.String(query)
	return m
}

func (m *matcher) any(values ...string) bool {
	if m.query == "" {
		return true
	}
	for _, v := range values {
		if strings.Contains(m.fold.String(v), m.query) {
			return true
		}
	}
	return false
}

// FilterCustomers returns the customers matching f in their original order.
func FilterCustomers(customers []models.Customer, f CustomerFilter) []models.Customer {
	fields := f.Fields
	if len(fields) == 0 {
		fields = DefaultCustomerFields
	}
	m := newMatcher(f.Query)

	out := []models.Customer{}
	for _, c := range customers {
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		if f.Tag != "" && !c.HasTag(f.Tag) {
			continue
		}
		if !m.any(customerValues(c, fields)...) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func customerValues(c models.Customer, fields []CustomerField) []string {
	values := make([]string, 0, len(fields))
	for _, f := range fields {
		switch f {
		case CustomerName:
			values = append(values, c.Name)
		case CustomerEmail:
			values = append(values, c.Email)
		case CustomerCompany:
			values = append(values, c.Company)
		case CustomerPhone:
			values = append(values, c.Phone)
		case CustomerNotes:
			values = append(values, c.Notes)
		}
	}
	return values
}

// FilterTasks returns the tasks matching f, ordered by SortTasks.
func FilterTasks(tasks []models.Task, f TaskFilter, now time.Time) []models.Task {
	fields := f.Fields
	if len(fields) == 0 {
		fields = DefaultTaskFields
	}
	m := newMatcher(f.Query)

	out := []models.Task{}
	for _, t := range tasks {
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.Priority != "" && t.Priority != f.Priority {
			continue
		}
		if f.CustomerID != "" && t.CustomerID != f.CustomerID {
			continue
		}
		if !m.any(taskValues(t, fields)...) {
			continue
		}
		out = append(out, t)
	}
	return SortTasks(out, now)
}

func taskValues(t models.Task, fields []TaskField) []string {
	values := make([]string, 0, len(fields))
	for _, f := range fields {
		switch f {
		case TaskTitle:
			values = append(values, t.Title)
		case TaskDescription:
			values = append(values, t.Description)
		case TaskAssignee:
			values = append(values, t.Assignee)
		}
	}
	return values
}

// SortTasks returns a copy of tasks with overdue tasks first and each group
// ordered by ascending deadline. Ties keep their input order.
func SortTasks(tasks []models.Task, now time.Time) []models.Task {
	out := slices.Clone(tasks)
	slices.SortStableFunc(out, func(a, b models.Task) int {
		ao, bo := IsOverdue(a, now), IsOverdue(b, now)
		switch {
		case ao && !bo:
			return -1
		case bo && !ao:
			return 1
		}
		return a.Deadline.Compare(b.Deadline)
	})
	return out
}

// IsOverdue reports whether the task's deadline is strictly before now,
// whatever its status.
func IsOverdue(t models.Task, now time.Time) bool {
	return t.Deadline.Before(now)
}

// NeedsAttention reports whether the task is overdue and still open.
func NeedsAttention(t models.Task, now time.Time) bool {
	return !t.Done() && IsOverdue(t, now)
}

// StatusCounts are the task list header counters.
type StatusCounts struct {
	Todo       int `json:"todo"`
	InProgress int `json:"inProgress"`
	Done       int `json:"done"`
	Overdue    int `json:"overdue"`
}

// CountByStatus tallies tasks per status. Overdue counts open tasks past
// their deadline.
func CountByStatus(tasks []models.Task, now time.Time) StatusCounts {
	var c StatusCounts
	for _, t := range tasks {
		switch t.Status {
		case models.TaskTodo:
			c.Todo++
		case models.TaskInProgress:
			c.InProgress++
		case models.TaskDone:
			c.Done++
		}
		if NeedsAttention(t, now) {
			c.Overdue++
		}
	}
	return c
}

// Tags returns every distinct tag in first-seen order.
func Tags(customers []models.Customer) []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range customers {
		for _, tag := range c.Tags {
			if !seen[tag] {
				seen[tag] = true
				out = append(out, tag)
			}
		}
	}
	return out
}

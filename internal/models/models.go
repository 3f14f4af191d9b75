package models

import "time"

// CustomerStatus is the sales stage of a customer
type CustomerStatus string

const (
	CustomerLead     CustomerStatus = "Lead"
	CustomerActive   CustomerStatus = "Active"
	CustomerInactive CustomerStatus = "Inactive"
)

// CustomerStatuses lists every customer status in display order
var CustomerStatuses = []CustomerStatus{CustomerLead, CustomerActive, CustomerInactive}

// Valid reports whether s is a known customer status
func (s CustomerStatus) Valid() bool {
	for _, v := range CustomerStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// TaskStatus is the progress state of a task
type TaskStatus string

const (
	TaskTodo       TaskStatus = "Todo"
	TaskInProgress TaskStatus = "In Progress"
	TaskDone       TaskStatus = "Done"
)

// TaskStatuses lists every task status in workflow order
var TaskStatuses = []TaskStatus{TaskTodo, TaskInProgress, TaskDone}

// Valid reports whether s is a known task status
func (s TaskStatus) Valid() bool {
	for _, v := range TaskStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Priority is the urgency of a task
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Priorities lists every priority from lowest to highest
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Valid reports whether p is a known priority
func (p Priority) Valid() bool {
	for _, v := range Priorities {
		if p == v {
			return true
		}
	}
	return false
}

// ActivityType identifies what kind of mutation an activity records
type ActivityType string

const (
	ActivityCustomerCreated ActivityType = "customer_created"
	ActivityCustomerUpdated ActivityType = "customer_updated"
	ActivityTaskCreated     ActivityType = "task_created"
	ActivityTaskCompleted   ActivityType = "task_completed"
)

// Customer represents a person or company being tracked
type Customer struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Phone     string         `json:"phone"`
	Company   string         `json:"company"`
	Tags      []string       `json:"tags"`
	Status    CustomerStatus `json:"status"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	Notes     string         `json:"notes,omitempty"`
	Avatar    string         `json:"avatar,omitempty"`
}

// HasTag reports whether the customer carries tag
func (c Customer) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// CustomerDraft holds the caller-supplied fields of a new customer
type CustomerDraft struct {
	Name    string         `json:"name" yaml:"name"`
	Email   string         `json:"email" yaml:"email"`
	Phone   string         `json:"phone" yaml:"phone"`
	Company string         `json:"company" yaml:"company"`
	Tags    []string       `json:"tags" yaml:"tags"`
	Status  CustomerStatus `json:"status" yaml:"status"`
	Notes   string         `json:"notes,omitempty" yaml:"notes"`
	Avatar  string         `json:"avatar,omitempty" yaml:"avatar"`
}

// CustomerPatch is a partial update; nil fields are left unchanged
type CustomerPatch struct {
	Name    *string         `json:"name,omitempty"`
	Email   *string         `json:"email,omitempty"`
	Phone   *string         `json:"phone,omitempty"`
	Company *string         `json:"company,omitempty"`
	Tags    *[]string       `json:"tags,omitempty"`
	Status  *CustomerStatus `json:"status,omitempty"`
	Notes   *string         `json:"notes,omitempty"`
	Avatar  *string         `json:"avatar,omitempty"`
}

// Apply merges the patch over c
func (p CustomerPatch) Apply(c *Customer) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	if p.Company != nil {
		c.Company = *p.Company
	}
	if p.Tags != nil {
		c.Tags = append([]string{}, (*p.Tags)...)
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
	if p.Notes != nil {
		c.Notes = *p.Notes
	}
	if p.Avatar != nil {
		c.Avatar = *p.Avatar
	}
}

// Task represents a piece of work for a customer
type Task struct {
	ID          string     `json:"id"`
	CustomerID  string     `json:"customerId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Deadline    time.Time  `json:"deadline"`
	Status      TaskStatus `json:"status"`
	Priority    Priority   `json:"priority"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	Assignee    string     `json:"assignee,omitempty"`
}

// Done reports whether the task is completed
func (t Task) Done() bool {
	return t.Status == TaskDone
}

// TaskDraft holds the caller-supplied fields of a new task
type TaskDraft struct {
	CustomerID  string     `json:"customerId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Deadline    time.Time  `json:"deadline"`
	Status      TaskStatus `json:"status"`
	Priority    Priority   `json:"priority"`
	Assignee    string     `json:"assignee,omitempty"`
}

// TaskPatch is a partial update; nil fields are left unchanged
type TaskPatch struct {
	CustomerID  *string     `json:"customerId,omitempty"`
	Title       *string     `json:"title,omitempty"`
	Description *string     `json:"description,omitempty"`
	Deadline    *time.Time  `json:"deadline,omitempty"`
	Status      *TaskStatus `json:"status,omitempty"`
	Priority    *Priority   `json:"priority,omitempty"`
	Assignee    *string     `json:"assignee,omitempty"`
}

// Apply merges the patch over t
func (p TaskPatch) Apply(t *Task) {
	if p.CustomerID != nil {
		t.CustomerID = *p.CustomerID
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Deadline != nil {
		t.Deadline = *p.Deadline
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Assignee != nil {
		t.Assignee = *p.Assignee
	}
}

// Activity is an entry of the audit trail
type Activity struct {
	ID          string       `json:"id"`
	Type        ActivityType `json:"type"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Timestamp   time.Time    `json:"timestamp"`
	CustomerID  string       `json:"customerId,omitempty"`
	TaskID      string       `json:"taskId,omitempty"`
}

// ActivityDraft is an activity before the recorder stamps it
type ActivityDraft struct {
	Type        ActivityType
	Title       string
	Description string
	CustomerID  string
	TaskID      string
}

// User is the locally signed-in account
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Avatar string `json:"avatar,omitempty"`
}

// Snapshot is a point-in-time copy of every collection
type Snapshot struct {
	Customers  []Customer
	Tasks      []Task
	Activities []Activity
}

// Ptr returns a pointer to v, handy for building patches
func Ptr[T any](v T) *T {
	return &v
}

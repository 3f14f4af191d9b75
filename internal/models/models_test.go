package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerPatch_Apply(t *testing.T) {
	c := Customer{ID: "c1", Name: "Ada", Email: "ada@example.com", Tags: []string{"vip"}, Status: CustomerLead}

	CustomerPatch{
		Name:   Ptr("Ada Lovelace"),
		Status: Ptr(CustomerActive),
	}.Apply(&c)

	assert.Equal(t, "c1", c.ID)
	assert.Equal(t, "Ada Lovelace", c.Name)
	assert.Equal(t, "ada@example.com", c.Email, "nil fields stay untouched")
	assert.Equal(t, CustomerActive, c.Status)
	assert.Equal(t, []string{"vip"}, c.Tags)
}

func TestCustomerPatch_TagsAreCopied(t *testing.T) {
	tags := []string{"a", "a", "b"}
	c := Customer{}
	CustomerPatch{Tags: &tags}.Apply(&c)

	tags[0] = "changed"
	assert.Equal(t, []string{"a", "a", "b"}, c.Tags, "duplicates kept, caller slice not aliased")
}

func TestTaskPatch_Apply(t *testing.T) {
	deadline := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	task := Task{ID: "t1", Title: "Call", Status: TaskTodo, Priority: PriorityLow}

	TaskPatch{Status: Ptr(TaskDone), Deadline: &deadline}.Apply(&task)

	assert.Equal(t, TaskDone, task.Status)
	assert.True(t, task.Done())
	assert.Equal(t, deadline, task.Deadline)
	assert.Equal(t, "Call", task.Title)
	assert.Equal(t, PriorityLow, task.Priority)
}

func TestEnums_Valid(t *testing.T) {
	assert.True(t, CustomerInactive.Valid())
	assert.False(t, CustomerStatus("Prospect").Valid())
	assert.True(t, TaskInProgress.Valid())
	assert.False(t, TaskStatus("InProgress").Valid())
	assert.True(t, PriorityHigh.Valid())
	assert.False(t, Priority("Urgent").Valid())
}

func TestCustomer_DecodeToleratesMissingOptionalFields(t *testing.T) {
	raw := `{"id":"1","name":"Sarah","email":"s@x.io","phone":"","company":"TechCorp","tags":["enterprise"],"status":"Active","createdAt":"2026-01-02T03:04:05.000Z","updatedAt":"2026-01-02T03:04:05.000Z"}`

	var c Customer
	require.NoError(t, json.Unmarshal([]byte(raw), &c))
	assert.Equal(t, "", c.Notes)
	assert.Equal(t, "", c.Avatar)
	assert.Equal(t, CustomerActive, c.Status)
	assert.Equal(t, 2026, c.CreatedAt.Year())
}

func TestTask_EncodesStatusWithSpace(t *testing.T) {
	data, err := json.Marshal(Task{ID: "t", Status: TaskInProgress})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"status":"In Progress"`)
	assert.NotContains(t, string(data), "assignee")
}

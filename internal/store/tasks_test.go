package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/crm/internal/models"
)

func countCompletions(s *Store, taskID string) int {
	n := 0
	for _, a := range s.Activities().List() {
		if a.Type == models.ActivityTaskCompleted && a.TaskID == taskID {
			n++
		}
	}
	return n
}

func setStatus(t *testing.T, s *Store, id string, status models.TaskStatus) models.Task {
	t.Helper()
	task, ok, err := s.Tasks().Update(id, models.TaskPatch{Status: models.Ptr(status)})
	require.NoError(t, err)
	require.True(t, ok)
	return task
}

func TestTaskAdd(t *testing.T) {
	s, _, _ := newTestStore(t)
	c := addCustomer(t, s, "ada", models.CustomerLead)
	deadline := base.Add(48 * time.Hour)

	task, err := s.Tasks().Add(models.TaskDraft{
		CustomerID:  c.ID,
		Title:       "Send proposal",
		Description: "pricing",
		Deadline:    deadline,
		Status:      models.TaskInProgress,
		Priority:    models.PriorityHigh,
		Assignee:    "John Smith",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, task.ID)
	assert.NotEqual(t, c.ID, task.ID)
	assert.True(t, task.CreatedAt.Equal(task.UpdatedAt))
	assert.True(t, task.Deadline.Equal(deadline))
	assert.Equal(t, models.TaskInProgress, task.Status)

	list := s.Tasks().List()
	require.Len(t, list, 1)
	assert.Equal(t, task, list[0])

	log := s.Activities().List()
	require.Len(t, log, 2)
	assert.Equal(t, models.ActivityTaskCreated, log[0].Type)
	assert.Equal(t, "New Task Created", log[0].Title)
	assert.Equal(t, `Task "Send proposal" has been created`, log[0].Description)
	assert.Equal(t, task.ID, log[0].TaskID)
	assert.Equal(t, c.ID, log[0].CustomerID)
}

func TestTaskAdd_Defaults(t *testing.T) {
	s, _, _ := newTestStore(t)
	c := addCustomer(t, s, "ada", models.CustomerLead)

	task := addTask(t, s, c.ID, "call", base)
	assert.Equal(t, models.TaskTodo, task.Status)
	assert.Equal(t, models.PriorityMedium, task.Priority)
}

func TestTaskAdd_UnknownCustomer(t *testing.T) {
	s, mem, _ := newTestStore(t)

	_, err := s.Tasks().Add(models.TaskDraft{CustomerID: "ghost", Title: "call"})
	assert.ErrorIs(t, err, ErrUnknownCustomer)
	assert.Empty(t, s.Tasks().List())
	assert.Zero(t, mem.Writes())
}

func TestTaskGetAndListByCustomer(t *testing.T) {
	s, _, _ := newTestStore(t)
	a := addCustomer(t, s, "a", models.CustomerLead)
	b := addCustomer(t, s, "b", models.CustomerLead)
	t1 := addTask(t, s, a.ID, "one", base)
	addTask(t, s, b.ID, "two", base)
	t3 := addTask(t, s, a.ID, "three", base)

	got, ok := s.Tasks().Get(t1.ID)
	require.True(t, ok)
	assert.Equal(t, t1, got)

	_, ok = s.Tasks().Get("missing")
	assert.False(t, ok)

	assert.Equal(t, []models.Task{t1, t3}, s.Tasks().ListByCustomer(a.ID))
	assert.Empty(t, s.Tasks().ListByCustomer("nobody"))
}

func TestTaskUpdate_MergesPatch(t *testing.T) {
	s, _, clock := newTestStore(t)
	c := addCustomer(t, s, "ada", models.CustomerLead)
	task := addTask(t, s, c.ID, "call", base)
	clock.Advance(time.Minute)
	activities := len(s.Activities().List())

	updated, ok, err := s.Tasks().Update(task.ID, models.TaskPatch{
		Title:    models.Ptr("call back"),
		Priority: models.Ptr(models.PriorityLow),
	})
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, "call back", updated.Title)
	assert.Equal(t, models.PriorityLow, updated.Priority)
	assert.Equal(t, models.TaskTodo, updated.Status)
	assert.True(t, updated.UpdatedAt.After(task.UpdatedAt))
	assert.Len(t, s.Activities().List(), activities, "non-completing updates record nothing")
}

func TestTaskUpdate_NotFound(t *testing.T) {
	s, _, _ := newTestStore(t)

	_, ok, err := s.Tasks().Update("missing", models.TaskPatch{Title: models.Ptr("x")})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTaskUpdate_CompletionTransitions(t *testing.T) {
	s, _, _ := newTestStore(t)
	c := addCustomer(t, s, "ada", models.CustomerLead)
	task := addTask(t, s, c.ID, "Follow up", base)

	setStatus(t, s, task.ID, models.TaskDone)
	assert.Equal(t, 1, countCompletions(s, task.ID), "Todo -> Done")

	setStatus(t, s, task.ID, models.TaskDone)
	assert.Equal(t, 1, countCompletions(s, task.ID), "Done -> Done")

	setStatus(t, s, task.ID, models.TaskTodo)
	setStatus(t, s, task.ID, models.TaskDone)
	assert.Equal(t, 2, countCompletions(s, task.ID), "Done -> Todo -> Done")

	latest := s.Activities().List()[0]
	assert.Equal(t, "Task Completed", latest.Title)
	assert.Equal(t, `Task "Follow up" has been completed`, latest.Description)
	assert.Equal(t, c.ID, latest.CustomerID)
}

func TestTaskUpdate_InProgressToDone(t *testing.T) {
	s, _, _ := newTestStore(t)
	c := addCustomer(t, s, "ada", models.CustomerLead)
	task := addTask(t, s, c.ID, "demo", base)

	setStatus(t, s, task.ID, models.TaskInProgress)
	assert.Zero(t, countCompletions(s, task.ID))
	setStatus(t, s, task.ID, models.TaskDone)
	assert.Equal(t, 1, countCompletions(s, task.ID))
}

func TestTaskDelete(t *testing.T) {
	s, _, _ := newTestStore(t)
	c := addCustomer(t, s, "ada", models.CustomerLead)
	t1 := addTask(t, s, c.ID, "one", base)
	t2 := addTask(t, s, c.ID, "two", base)
	activities := len(s.Activities().List())

	ok, err := s.Tasks().Delete(t1.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []models.Task{t2}, s.Tasks().List())
	assert.Len(t, s.Activities().List(), activities)
	assert.Len(t, s.Customers().List(), 1)

	ok, err = s.Tasks().Delete(t1.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

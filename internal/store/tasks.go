package store

import (
	"fmt"

	"github.com/tgienger/crm/internal/models"
)

// TaskRepository provides CRUD over the task collection.
type TaskRepository struct {
	s *Store
}

// List returns every task in stored order
func (r *TaskRepository) List() []models.Task {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.list()
}

func (r *TaskRepository) list() []models.Task {
	return load[models.Task](r.s, TasksKey)
}

// ListByCustomer returns the tasks that reference customerID
func (r *TaskRepository) ListByCustomer(customerID string) []models.Task {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []models.Task
	for _, t := range r.list() {
		if t.CustomerID == customerID {
			out = append(out, t)
		}
	}
	return out
}

// Get retrieves a task by id
func (r *TaskRepository) Get(id string) (models.Task, bool) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	tasks := r.list()
	if i := indexOfTask(tasks, id); i >= 0 {
		return tasks[i], true
	}
	return models.Task{}, false
}

// Add creates a task from draft and records a task_created activity. The
// draft must reference an existing customer.
func (r *TaskRepository) Add(draft models.TaskDraft) (models.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.customers.get(draft.CustomerID); !ok {
		return models.Task{}, fmt.Errorf("%w: %q", ErrUnknownCustomer, draft.CustomerID)
	}

	tasks := r.list()
	now := r.s.clock.Now()

	t := models.Task{
		ID: r.s.uniqueID(func(id string) bool {
			return indexOfTask(tasks, id) >= 0
		}),
		CustomerID:  draft.CustomerID,
		Title:       draft.Title,
		Description: draft.Description,
		Deadline:    draft.Deadline,
		Status:      draft.Status,
		Priority:    draft.Priority,
		CreatedAt:   now,
		UpdatedAt:   now,
		Assignee:    draft.Assignee,
	}
	if t.Status == "" {
		t.Status = models.TaskTodo
	}
	if t.Priority == "" {
		t.Priority = models.PriorityMedium
	}

	b := newBatch()
	if err := b.put(TasksKey, append(tasks, t)); err != nil {
		return models.Task{}, err
	}
	_, err := r.s.activities.stage(b, models.ActivityDraft{
		Type:        models.ActivityTaskCreated,
		Title:       "New Task Created",
		Description: fmt.Sprintf("Task %q has been created", t.Title),
		CustomerID:  t.CustomerID,
		TaskID:      t.ID,
	})
	if err != nil {
		return models.Task{}, err
	}
	if err := r.s.commit(b); err != nil {
		return models.Task{}, fmt.Errorf("save tasks: %w", err)
	}

	r.s.log.Debug().Str("task_id", t.ID).Str("customer_id", t.CustomerID).Msg("task added")
	return t, nil
}

// Update merges patch over the task with the given id. A task_completed
// activity is recorded only when the status moves from not Done to Done.
// ok is false when no such task exists.
func (r *TaskRepository) Update(id string, patch models.TaskPatch) (t models.Task, ok bool, err error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	tasks := r.list()
	i := indexOfTask(tasks, id)
	if i < 0 {
		return models.Task{}, false, nil
	}

	wasDone := tasks[i].Done()
	t = tasks[i]
	patch.Apply(&t)
	t.UpdatedAt = r.s.clock.Now()
	tasks[i] = t

	b := newBatch()
	if err := b.put(TasksKey, tasks); err != nil {
		return models.Task{}, false, err
	}
	if !wasDone && t.Done() {
		_, err := r.s.activities.stage(b, models.ActivityDraft{
			Type:        models.ActivityTaskCompleted,
			Title:       "Task Completed",
			Description: fmt.Sprintf("Task %q has been completed", t.Title),
			CustomerID:  t.CustomerID,
			TaskID:      id,
		})
		if err != nil {
			return models.Task{}, false, err
		}
	}
	if err := r.s.commit(b); err != nil {
		return models.Task{}, false, fmt.Errorf("save tasks: %w", err)
	}

	r.s.log.Debug().Str("task_id", id).Str("status", string(t.Status)).Msg("task updated")
	return t, true, nil
}

// Delete removes the task with the given id, returning false when it does
// not exist.
func (r *TaskRepository) Delete(id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	tasks := r.list()
	i := indexOfTask(tasks, id)
	if i < 0 {
		return false, nil
	}

	remaining := append(tasks[:i:i], tasks[i+1:]...)
	b := newBatch()
	if err := b.put(TasksKey, remaining); err != nil {
		return false, err
	}
	if err := r.s.commit(b); err != nil {
		return false, fmt.Errorf("save tasks: %w", err)
	}

	r.s.log.Debug().Str("task_id", id).Msg("task deleted")
	return true, nil
}

func indexOfTask(tasks []models.Task, id string) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

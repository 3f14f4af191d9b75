package store

import (
	"fmt"

	"github.com/tgienger/crm/internal/models"
)

// CustomerRepository provides CRUD over the customer collection. It holds
// the task repository so that deleting a customer can cascade.
type CustomerRepository struct {
	s     *Store
	tasks *TaskRepository
}

// List returns every customer in stored order
func (r *CustomerRepository) List() []models.Customer {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.list()
}

func (r *CustomerRepository) list() []models.Customer {
	return load[models.Customer](r.s, CustomersKey)
}

// Get retrieves a customer by id
func (r *CustomerRepository) Get(id string) (models.Customer, bool) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.get(id)
}

func (r *CustomerRepository) get(id string) (models.Customer, bool) {
	customers := r.list()
	if i := indexOfCustomer(customers, id); i >= 0 {
		return customers[i], true
	}
	return models.Customer{}, false
}

// Add creates a customer from draft and records a customer_created activity
func (r *CustomerRepository) Add(draft models.CustomerDraft) (models.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	customers := r.list()
	now := r.s.clock.Now()

	c := models.Customer{
		ID: r.s.uniqueID(func(id string) bool {
			return indexOfCustomer(customers, id) >= 0
		}),
		Name:      draft.Name,
		Email:     draft.Email,
		Phone:     draft.Phone,
		Company:   draft.Company,
		Tags:      append([]string{}, draft.Tags...),
		Status:    draft.Status,
		CreatedAt: now,
		UpdatedAt: now,
		Notes:     draft.Notes,
		Avatar:    draft.Avatar,
	}
	if c.Status == "" {
		c.Status = models.CustomerLead
	}

	b := newBatch()
	if err := b.put(CustomersKey, append(customers, c)); err != nil {
		return models.Customer{}, err
	}
	_, err := r.s.activities.stage(b, models.ActivityDraft{
		Type:        models.ActivityCustomerCreated,
		Title:       "New Customer Added",
		Description: fmt.Sprintf("%s has been added to the system", c.Name),
		CustomerID:  c.ID,
	})
	if err != nil {
		return models.Customer{}, err
	}
	if err := r.s.commit(b); err != nil {
		return models.Customer{}, fmt.Errorf("save customers: %w", err)
	}

	r.s.log.Debug().Str("customer_id", c.ID).Msg("customer added")
	return c, nil
}

// Update merges patch over the customer with the given id and records a
// customer_updated activity. ok is false when no such customer exists.
func (r *CustomerRepository) Update(id string, patch models.CustomerPatch) (c models.Customer, ok bool, err error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	customers := r.list()
	i := indexOfCustomer(customers, id)
	if i < 0 {
		return models.Customer{}, false, nil
	}

	c = customers[i]
	patch.Apply(&c)
	c.UpdatedAt = r.s.clock.Now()
	customers[i] = c

	b := newBatch()
	if err := b.put(CustomersKey, customers); err != nil {
		return models.Customer{}, false, err
	}
	_, err = r.s.activities.stage(b, models.ActivityDraft{
		Type:        models.ActivityCustomerUpdated,
		Title:       "Customer Updated",
		Description: fmt.Sprintf("%s information has been updated", c.Name),
		CustomerID:  id,
	})
	if err != nil {
		return models.Customer{}, false, err
	}
	if err := r.s.commit(b); err != nil {
		return models.Customer{}, false, fmt.Errorf("save customers: %w", err)
	}

	r.s.log.Debug().Str("customer_id", id).Msg("customer updated")
	return c, true, nil
}

// Delete removes the customer and every task that references it. It
// returns false when no such customer exists. No activity is recorded.
func (r *CustomerRepository) Delete(id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	customers := r.list()
	kept := make([]models.Customer, 0, len(customers))
	for _, c := range customers {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(customers) {
		return false, nil
	}

	tasks := r.tasks.list()
	remaining := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.CustomerID != id {
			remaining = append(remaining, t)
		}
	}

	b := newBatch()
	if err := b.put(CustomersKey, kept); err != nil {
		return false, err
	}
	if len(remaining) != len(tasks) {
		if err := b.put(TasksKey, remaining); err != nil {
			return false, err
		}
	}
	if err := r.s.commit(b); err != nil {
		return false, fmt.Errorf("delete customer: %w", err)
	}

	r.s.log.Debug().
		Str("customer_id", id).
		Int("cascaded_tasks", len(tasks)-len(remaining)).
		Msg("customer deleted")
	return true, nil
}

func indexOfCustomer(customers []models.Customer, id string) int {
	for i, c := range customers {
		if c.ID == id {
			return i
		}
	}
	return -1
}

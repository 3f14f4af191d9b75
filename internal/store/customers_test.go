package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/crm/internal/models"
)

func TestCustomerAdd(t *testing.T) {
	s, _, _ := newTestStore(t)

	draft := models.CustomerDraft{
		Name:    "Sarah Johnson",
		Email:   "sarah@techcorp.com",
		Phone:   "+1 (555) 123-4567",
		Company: "TechCorp",
		Tags:    []string{"enterprise", "priority", "enterprise"},
		Status:  models.CustomerActive,
		Notes:   "decision maker",
	}
	c, err := s.Customers().Add(draft)
	require.NoError(t, err)

	assert.Equal(t, "id-1", c.ID)
	assert.True(t, c.CreatedAt.Equal(base))
	assert.True(t, c.CreatedAt.Equal(c.UpdatedAt))
	assert.Equal(t, draft.Tags, c.Tags, "duplicates are kept as entered")

	list := s.Customers().List()
	require.Len(t, list, 1)
	assert.Equal(t, c, list[0])
}

func TestCustomerAdd_Defaults(t *testing.T) {
	s, _, _ := newTestStore(t)

	c, err := s.Customers().Add(models.CustomerDraft{Name: "ada"})
	require.NoError(t, err)

	assert.Equal(t, models.CustomerLead, c.Status)
	assert.NotNil(t, c.Tags)
	assert.Empty(t, c.Tags)
}

func TestCustomerAdd_DoesNotAliasDraftTags(t *testing.T) {
	s, _, _ := newTestStore(t)
	tags := []string{"a"}

	c, err := s.Customers().Add(models.CustomerDraft{Name: "ada", Tags: tags})
	require.NoError(t, err)
	tags[0] = "changed"

	assert.Equal(t, []string{"a"}, c.Tags)
}

func TestCustomerAdd_PreservesInsertionOrder(t *testing.T) {
	s, _, _ := newTestStore(t)
	for _, name := range []string{"c", "a", "b"} {
		addCustomer(t, s, name, models.CustomerLead)
	}

	var names []string
	for _, c := range s.Customers().List() {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"c", "a", "b"}, names)
}

func TestCustomerAdd_RecordsActivity(t *testing.T) {
	s, _, _ := newTestStore(t)
	c := addCustomer(t, s, "Ada", models.CustomerLead)

	log := s.Activities().List()
	require.Len(t, log, 1)
	assert.Equal(t, models.ActivityCustomerCreated, log[0].Type)
	assert.Equal(t, "New Customer Added", log[0].Title)
	assert.Equal(t, "Ada has been added to the system", log[0].Description)
	assert.Equal(t, c.ID, log[0].CustomerID)
	assert.Empty(t, log[0].TaskID)
	assert.True(t, log[0].Timestamp.After(c.CreatedAt))
}

func TestCustomerGet(t *testing.T) {
	s, _, _ := newTestStore(t)
	c := addCustomer(t, s, "ada", models.CustomerLead)

	got, ok := s.Customers().Get(c.ID)
	require.True(t, ok)
	assert.Equal(t, c, got)

	_, ok = s.Customers().Get("missing")
	assert.False(t, ok)
}

func TestCustomerUpdate(t *testing.T) {
	s, _, clock := newTestStore(t)
	c := addCustomer(t, s, "ada", models.CustomerLead)
	clock.Advance(time.Hour)

	updated, ok, err := s.Customers().Update(c.ID, models.CustomerPatch{
		Status: models.Ptr(models.CustomerActive),
		Tags:   &[]string{"vip"},
	})
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, c.ID, updated.ID)
	assert.Equal(t, "ada", updated.Name, "unpatched fields are kept")
	assert.Equal(t, models.CustomerActive, updated.Status)
	assert.Equal(t, []string{"vip"}, updated.Tags)
	assert.True(t, updated.CreatedAt.Equal(c.CreatedAt))
	assert.True(t, updated.UpdatedAt.After(c.UpdatedAt))

	got, _ := s.Customers().Get(c.ID)
	assert.Equal(t, updated, got)

	log := s.Activities().List()
	require.Len(t, log, 2)
	assert.Equal(t, models.ActivityCustomerUpdated, log[0].Type)
	assert.Equal(t, "Customer Updated", log[0].Title)
	assert.Equal(t, "ada information has been updated", log[0].Description)
	assert.Equal(t, c.ID, log[0].CustomerID)
}

func TestCustomerUpdate_NotFound(t *testing.T) {
	s, mem, _ := newTestStore(t)
	addCustomer(t, s, "ada", models.CustomerLead)
	writes := mem.Writes()

	_, ok, err := s.Customers().Update("missing", models.CustomerPatch{Name: models.Ptr("x")})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, writes, mem.Writes())
	assert.Len(t, s.Activities().List(), 1)
}

func TestCustomerDelete_CascadesToTasks(t *testing.T) {
	s, _, _ := newTestStore(t)
	a := addCustomer(t, s, "a", models.CustomerLead)
	b := addCustomer(t, s, "b", models.CustomerActive)
	for _, title := range []string{"a1", "a2", "a3"} {
		addTask(t, s, a.ID, title, base.Add(time.Hour))
	}
	kept := addTask(t, s, b.ID, "b1", base.Add(time.Hour))
	activities := len(s.Activities().List())

	ok, err := s.Customers().Delete(a.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, found := s.Customers().Get(a.ID)
	assert.False(t, found)
	assert.Equal(t, []models.Task{kept}, s.Tasks().List())
	assert.Len(t, s.Activities().List(), activities, "deletion records no activity")
}

func TestCustomerDelete_WithoutTasksLeavesTasksUntouched(t *testing.T) {
	s, mem, _ := newTestStore(t)
	a := addCustomer(t, s, "a", models.CustomerLead)
	b := addCustomer(t, s, "b", models.CustomerLead)
	addTask(t, s, b.ID, "b1", base.Add(time.Hour))
	before, _, err := mem.Read(TasksKey)
	require.NoError(t, err)

	ok, err := s.Customers().Delete(a.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	after, _, err := mem.Read(TasksKey)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestCustomerDelete_NotFound(t *testing.T) {
	s, mem, _ := newTestStore(t)
	addCustomer(t, s, "a", models.CustomerLead)
	writes := mem.Writes()

	ok, err := s.Customers().Delete("missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, writes, mem.Writes())
	assert.Len(t, s.Customers().List(), 1)
}

package views

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/crm/internal/kv"
	"github.com/tgienger/crm/internal/models"
	"github.com/tgienger/crm/internal/store"
	"github.com/tgienger/crm/internal/ui/styles"
)

var base = time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(kv.NewMemory(), store.Options{
		Clock: store.NewStepClock(base, time.Second),
		IDs:   store.NewSequenceGenerator("id-"),
	})
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func sized[M tea.Model](m M) M {
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

// load runs the view's Init command and feeds the result back in
func load(t *testing.T, m tea.Model) {
	t.Helper()
	cmd := m.Init()
	require.NotNil(t, cmd)
	m.Update(cmd())
}

func TestCustomerForm_CreatesCustomer(t *testing.T) {
	s := newTestStore(t)
	v := sized(NewCustomerListView(s))
	load(t, v)

	v.Update(runes("n"))
	require.True(t, v.Capturing())

	v.Update(runes("Ada Lovelace"))
	v.Update(press(tea.KeyTab))
	v.Update(runes("ada@example.com"))
	v.Update(press(tea.KeyCtrlS))

	assert.False(t, v.editing)
	customers := s.Customers().List()
	require.Len(t, customers, 1)
	assert.Equal(t, "Ada Lovelace", customers[0].Name)
	assert.Equal(t, "ada@example.com", customers[0].Email)
	assert.Equal(t, models.CustomerLead, customers[0].Status)
}

func TestCustomerForm_RequiresName(t *testing.T) {
	s := newTestStore(t)
	v := sized(NewCustomerListView(s))
	load(t, v)

	v.Update(runes("n"))
	v.Update(press(tea.KeyCtrlS))

	assert.True(t, v.editing)
	assert.NotEmpty(t, v.formErr)
	assert.Empty(t, s.Customers().List())
}

func TestCustomerForm_EditChangesStatus(t *testing.T) {
	s := newTestStore(t)
	c, err := s.Customers().Add(models.CustomerDraft{Name: "Grace", Tags: []string{"vip"}})
	require.NoError(t, err)

	v := sized(NewCustomerListView(s))
	load(t, v)

	v.Update(runes("e"))
	require.True(t, v.editing)
	assert.Equal(t, "vip", v.inputs[custTags].Value())

	for v.focusIdx != custStatus {
		v.Update(press(tea.KeyTab))
	}
	v.Update(press(tea.KeyRight))
	v.Update(press(tea.KeyCtrlS))

	got, ok := s.Customers().Get(c.ID)
	require.True(t, ok)
	assert.Equal(t, models.CustomerActive, got.Status)
	assert.Equal(t, []string{"vip"}, got.Tags)
}

func TestCustomerList_DeleteCascades(t *testing.T) {
	s := newTestStore(t)
	c, err := s.Customers().Add(models.CustomerDraft{Name: "Grace"})
	require.NoError(t, err)
	_, err = s.Tasks().Add(models.TaskDraft{CustomerID: c.ID, Title: "Call", Deadline: base})
	require.NoError(t, err)

	v := sized(NewCustomerListView(s))
	load(t, v)

	v.Update(runes("d"))
	require.True(t, v.confirmingDelete)
	assert.Contains(t, v.View(), "Delete Customer?")
	assert.Contains(t, v.View(), "Grace and 1 task will be removed")

	v.Update(runes("y"))
	assert.Empty(t, s.Customers().List())
	assert.Empty(t, s.Tasks().List())
}

func TestCustomerList_StatusFilterAndSearch(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Customers().Add(models.CustomerDraft{Name: "Grace", Status: models.CustomerActive})
	require.NoError(t, err)
	_, err = s.Customers().Add(models.CustomerDraft{Name: "Alan", Status: models.CustomerLead})
	require.NoError(t, err)

	v := sized(NewCustomerListView(s))
	load(t, v)
	assert.Len(t, v.list.Items(), 2)

	v.Update(runes("f"))
	assert.Equal(t, models.CustomerLead, v.status)
	require.Len(t, v.list.Items(), 1)
	assert.Equal(t, "Alan", v.list.Items()[0].(customerItem).customer.Name)

	v.Update(press(tea.KeyEsc))
	assert.Len(t, v.list.Items(), 2)

	v.Update(runes("/"))
	v.Update(runes("gra"))
	require.Len(t, v.list.Items(), 1)
	assert.Equal(t, "Grace", v.list.Items()[0].(customerItem).customer.Name)
}

func TestCustomerList_EnterOpensTasks(t *testing.T) {
	s := newTestStore(t)
	c, err := s.Customers().Add(models.CustomerDraft{Name: "Grace"})
	require.NoError(t, err)

	v := sized(NewCustomerListView(s))
	load(t, v)

	_, cmd := v.Update(press(tea.KeyEnter))
	require.NotNil(t, cmd)
	msg, ok := cmd().(OpenCustomerTasks)
	require.True(t, ok)
	assert.Equal(t, c.ID, msg.Customer.ID)
}

func seedTasks(t *testing.T, s *store.Store) (models.Customer, models.Task, models.Task) {
	t.Helper()
	c, err := s.Customers().Add(models.CustomerDraft{Name: "Grace"})
	require.NoError(t, err)
	late, err := s.Tasks().Add(models.TaskDraft{CustomerID: c.ID, Title: "Late call", Deadline: base.Add(-time.Hour)})
	require.NoError(t, err)
	soon, err := s.Tasks().Add(models.TaskDraft{CustomerID: c.ID, Title: "Send quote", Deadline: base.Add(48 * time.Hour)})
	require.NoError(t, err)
	return c, late, soon
}

func TestTaskList_OverdueFirstWithCounters(t *testing.T) {
	s := newTestStore(t)
	_, late, _ := seedTasks(t, s)

	v := sized(NewTaskListView(s))
	load(t, v)

	require.Len(t, v.tasks, 2)
	assert.Equal(t, late.ID, v.tasks[0].ID)
	assert.Equal(t, 2, v.counts.Todo)
	assert.Equal(t, 1, v.counts.Overdue)

	view := v.View()
	assert.Contains(t, view, "(overdue)")
	assert.Contains(t, view, "Overdue 1")
}

func TestTaskList_ToggleDoneRecordsCompletion(t *testing.T) {
	s := newTestStore(t)
	_, late, _ := seedTasks(t, s)

	v := sized(NewTaskListView(s))
	load(t, v)

	_, cmd := v.Update(runes("x"))
	require.NotNil(t, cmd)

	got, ok := s.Tasks().Get(late.ID)
	require.True(t, ok)
	assert.Equal(t, models.TaskDone, got.Status)
	assert.Equal(t, models.ActivityTaskCompleted, s.Activities().List()[0].Type)

	// toggling again reopens without another completion entry
	load(t, v)
	for i, task := range v.tasks {
		if task.ID == late.ID {
			v.cursor = i
		}
	}
	before := len(s.Activities().List())
	v.Update(runes("x"))
	got, _ = s.Tasks().Get(late.ID)
	assert.Equal(t, models.TaskTodo, got.Status)
	assert.Len(t, s.Activities().List(), before)
}

func TestTaskList_StatusDropdownFilters(t *testing.T) {
	s := newTestStore(t)
	_, _, soon := seedTasks(t, s)
	_, _, err := s.Tasks().Update(soon.ID, models.TaskPatch{Status: models.Ptr(models.TaskInProgress)})
	require.NoError(t, err)

	v := sized(NewTaskListView(s))
	load(t, v)

	v.Update(runes("f"))
	require.True(t, v.statusDropdownOpen)
	v.Update(press(tea.KeyDown))
	v.Update(press(tea.KeyDown))
	v.Update(press(tea.KeyEnter))

	assert.Equal(t, models.TaskInProgress, v.statusFilter)
	require.Len(t, v.tasks, 1)
	assert.Equal(t, soon.ID, v.tasks[0].ID)
}

func TestTaskList_CustomerScope(t *testing.T) {
	s := newTestStore(t)
	c, _, _ := seedTasks(t, s)
	other, err := s.Customers().Add(models.CustomerDraft{Name: "Alan"})
	require.NoError(t, err)
	_, err = s.Tasks().Add(models.TaskDraft{CustomerID: other.ID, Title: "Intro", Deadline: base})
	require.NoError(t, err)

	v := sized(NewTaskListView(s))
	v.SetCustomer(&c)
	load(t, v)
	assert.Len(t, v.tasks, 2)

	_, cmd := v.Update(press(tea.KeyEsc))
	require.NotNil(t, cmd)
	assert.IsType(t, BackToCustomers{}, cmd())
}

func TestTaskForm_CreatesTask(t *testing.T) {
	s := newTestStore(t)
	c, err := s.Customers().Add(models.CustomerDraft{Name: "Grace"})
	require.NoError(t, err)

	v := sized(NewTaskListView(s))
	load(t, v)

	v.Update(runes("n"))
	require.True(t, v.editing)
	v.Update(runes("Follow up"))
	for v.editFocusIdx != taskDeadline {
		v.Update(press(tea.KeyTab))
	}
	v.Update(runes("2024-03-20"))
	v.Update(press(tea.KeyTab))
	v.Update(press(tea.KeyRight))
	v.Update(press(tea.KeyCtrlS))

	require.False(t, v.editing, v.formErr)
	tasks := s.Tasks().List()
	require.Len(t, tasks, 1)
	assert.Equal(t, "Follow up", tasks[0].Title)
	assert.Equal(t, c.ID, tasks[0].CustomerID)
	assert.Equal(t, models.PriorityHigh, tasks[0].Priority)
	assert.Equal(t, models.TaskTodo, tasks[0].Status)
}

func TestTaskForm_RejectsBadDeadline(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Customers().Add(models.CustomerDraft{Name: "Grace"})
	require.NoError(t, err)

	v := sized(NewTaskListView(s))
	load(t, v)

	v.Update(runes("n"))
	v.Update(runes("Follow up"))
	v.editDeadline.SetValue("next week")
	v.Update(press(tea.KeyCtrlS))

	assert.True(t, v.editing)
	assert.Contains(t, v.formErr, "next week")
	assert.Empty(t, s.Tasks().List())
}

func TestTaskList_NewNeedsCustomer(t *testing.T) {
	v := sized(NewTaskListView(newTestStore(t)))
	load(t, v)

	_, cmd := v.Update(runes("n"))
	assert.False(t, v.editing)
	require.NotNil(t, cmd)
	assert.IsType(t, StatusMsg{}, cmd())
}

func TestDashboard_Renders(t *testing.T) {
	s := newTestStore(t)
	seedTasks(t, s)

	v := sized(NewDashboardView(s, &models.User{Name: "John Smith"}))
	load(t, v)

	view := v.View()
	assert.Contains(t, view, "Welcome back, John Smith")
	assert.Contains(t, view, "Total Customers")
	assert.Contains(t, view, "Send quote")
	assert.Contains(t, view, "New Task Created")
}

func TestParseFormDeadline(t *testing.T) {
	got, err := parseFormDeadline("2024-03-20 14:30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 20, 14, 30, 0, 0, time.Local).UTC(), got)

	got, err = parseFormDeadline("  ")
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	_, err = parseFormDeadline("tomorrow")
	assert.Error(t, err)
}

func TestRelativeTime(t *testing.T) {
	now := base
	assert.Equal(t, "just now", relativeTime(now.Add(-10*time.Second), now))
	assert.Equal(t, "5m ago", relativeTime(now.Add(-5*time.Minute), now))
	assert.Equal(t, "3h ago", relativeTime(now.Add(-3*time.Hour), now))
	assert.Equal(t, "2d ago", relativeTime(now.Add(-49*time.Hour), now))
}

func TestSplitTagsAndCycle(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitTags(" a, b,,c ,"))
	assert.Nil(t, splitTags(""))

	assert.Equal(t, models.PriorityLow, cycle(models.Priorities, models.PriorityHigh, 1))
	assert.Equal(t, models.PriorityHigh, cycle(models.Priorities, models.PriorityLow, -1))
}

func TestCustomerList_TagFilterCycles(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Customers().Add(models.CustomerDraft{Name: "Grace", Tags: []string{"vip"}})
	require.NoError(t, err)
	_, err = s.Customers().Add(models.CustomerDraft{Name: "Alan", Tags: []string{"prospect"}})
	require.NoError(t, err)

	v := sized(NewCustomerListView(s))
	load(t, v)

	v.Update(runes("t"))
	assert.Equal(t, "vip", v.tag)
	require.Len(t, v.list.Items(), 1)
	assert.Equal(t, "Grace", v.list.Items()[0].(customerItem).customer.Name)

	v.Update(runes("t"))
	assert.Equal(t, "prospect", v.tag)

	v.Update(runes("t"))
	assert.Empty(t, v.tag)
	assert.Len(t, v.list.Items(), 2)
}

func TestHelpPopup_ListsShortcuts(t *testing.T) {
	out := helpPopup(styles.NewStyles(), 100, 40, "n", "new customer", "/", "search")
	assert.Contains(t, out, "Keyboard Shortcuts")
	assert.Contains(t, out, "new customer")
	assert.Contains(t, out, "search")
}

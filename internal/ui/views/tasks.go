package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/crm/internal/models"
	"github.com/tgienger/crm/internal/report"
	"github.com/tgienger/crm/internal/store"
	"github.com/tgienger/crm/internal/ui/keys"
	"github.com/tgienger/crm/internal/ui/styles"
)

// FocusArea represents which part of the UI has focus
type FocusArea int

const (
	FocusSearchInput FocusArea = iota
	FocusStatusDropdown
	FocusTaskList
	focusAreaCount
)

// Task form focus order
const (
	taskTitle = iota
	taskDesc
	taskCustomer
	taskDeadline
	taskPriority
	taskStatus
	taskAssignee
	taskSave
	taskFieldCount
)

// deadlineLayouts are accepted by the deadline field, in local time
var deadlineLayouts = []string{"2006-01-02 15:04", dateLayout}

// BackToCustomers signals to go back to the customer list
type BackToCustomers struct{}

// TaskListView shows tasks, optionally narrowed to one customer
type TaskListView struct {
	store  *store.Store
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	loaded    bool
	all       []models.Task
	tasks     []models.Task
	customers []models.Customer
	names     map[string]string
	counts    report.StatusCounts
	now       time.Time

	// UI state
	focus        FocusArea
	cursor       int
	scrollY      int
	searchInput  textinput.Model
	statusFilter models.TaskStatus // empty = all
	customer     *models.Customer  // nil = every customer
	hideDone     bool

	// Status dropdown state
	statusDropdownOpen bool
	statusCursor       int

	// Task creation/editing
	editing      bool
	editingID    string // empty = new task
	editTitle    textinput.Model
	editDesc     textarea.Model
	editDeadline textinput.Model
	editAssignee textinput.Model
	editCustomer int
	editPriority models.Priority
	editStatus   models.TaskStatus
	editFocusIdx int
	formErr      string

	// Task view mode (read-only detail view)
	viewingTask bool

	// Delete confirmation
	confirmingDelete bool
	deleteTarget     models.Task

	// Help popup (shown with ? at narrow widths)
	showHelpPopup bool
}

// NewTaskListView creates a new task list view
func NewTaskListView(s *store.Store) *TaskListView {
	search := textinput.New()
	search.Placeholder = "Search..."
	search.CharLimit = 100

	editTitle := textinput.New()
	editTitle.Placeholder = "Task title"
	editTitle.CharLimit = 200

	editDesc := textarea.New()
	editDesc.Placeholder = "Description"
	editDesc.CharLimit = 1000
	editDesc.SetWidth(50)
	editDesc.SetHeight(3)
	editDesc.ShowLineNumbers = false

	editDeadline := textinput.New()
	editDeadline.Placeholder = "YYYY-MM-DD [HH:MM]"
	editDeadline.CharLimit = 16

	editAssignee := textinput.New()
	editAssignee.Placeholder = "Assignee (optional)"
	editAssignee.CharLimit = 100

	return &TaskListView{
		store:        s,
		styles:       styles.NewStyles(),
		keys:         keys.DefaultKeyMap(),
		focus:        FocusTaskList,
		searchInput:  search,
		editTitle:    editTitle,
		editDesc:     editDesc,
		editDeadline: editDeadline,
		editAssignee: editAssignee,
	}
}

// SetCustomer narrows the list to one customer's tasks. nil shows all.
func (v *TaskListView) SetCustomer(c *models.Customer) {
	v.customer = c
	v.cursor = 0
	v.scrollY = 0
}

// Init initializes the view
func (v *TaskListView) Init() tea.Cmd {
	return v.loadTasks
}

type tasksLoadedMsg struct {
	tasks     []models.Task
	customers []models.Customer
	now       time.Time
}

func (v *TaskListView) loadTasks() tea.Msg {
	snap := v.store.Snapshot()
	return tasksLoadedMsg{tasks: snap.Tasks, customers: snap.Customers, now: v.store.Now()}
}

// Capturing reports whether the view is consuming every key press
func (v *TaskListView) Capturing() bool {
	return v.editing || v.confirmingDelete || v.showHelpPopup || v.statusDropdownOpen ||
		v.viewingTask || v.focus == FocusSearchInput
}

// Update handles messages
func (v *TaskListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(v.width)
		v.editDesc.SetWidth(clamp(contentWidth-10, 20, 50))
		return v, nil

	case tasksLoadedMsg:
		v.all = msg.tasks
		v.customers = msg.customers
		v.now = msg.now
		v.names = make(map[string]string, len(msg.customers))
		for _, c := range msg.customers {
			v.names[c.ID] = c.Name
		}
		if v.customer != nil {
			if _, ok := v.names[v.customer.ID]; !ok {
				v.customer = nil
			}
		}
		v.loaded = true
		v.applyFilter()
		return v, nil

	case tea.KeyMsg:
		// Handle help popup first - any key closes it
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}
		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}
		if v.editing {
			return v.updateEditing(msg)
		}
		if v.viewingTask {
			return v.updateViewingTask(msg)
		}
		if v.statusDropdownOpen {
			return v.updateStatusDropdown(msg)
		}
		return v.updateNormal(msg)
	}

	return v, nil
}

func (v *TaskListView) applyFilter() {
	filtered := report.FilterTasks(v.all, report.TaskFilter{
		Query:      strings.TrimSpace(v.searchInput.Value()),
		Fields:     []report.TaskField{report.TaskTitle, report.TaskDescription, report.TaskAssignee},
		Status:     v.statusFilter,
		CustomerID: v.customerID(),
	}, v.now)
	if v.hideDone {
		open := filtered[:0]
		for _, t := range filtered {
			if !t.Done() {
				open = append(open, t)
			}
		}
		filtered = open
	}
	v.tasks = filtered

	scope := v.all
	if v.customer != nil {
		scope = report.FilterTasks(v.all, report.TaskFilter{CustomerID: v.customer.ID}, v.now)
	}
	v.counts = report.CountByStatus(scope, v.now)

	if v.cursor >= len(v.tasks) {
		v.cursor = max(0, len(v.tasks)-1)
	}
	v.ensureVisible()
}

func (v *TaskListView) customerID() string {
	if v.customer == nil {
		return ""
	}
	return v.customer.ID
}

func (v *TaskListView) selected() (models.Task, bool) {
	if v.cursor < 0 || v.cursor >= len(v.tasks) {
		return models.Task{}, false
	}
	return v.tasks[v.cursor], true
}

func (v *TaskListView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Don't process hotkeys while typing a search
	if v.focus == FocusSearchInput {
		switch {
		case key.Matches(msg, v.keys.Back), key.Matches(msg, v.keys.Enter):
			v.searchInput.Blur()
			v.focus = FocusTaskList
			return v, nil
		case key.Matches(msg, v.keys.Tab):
			v.cycleFocus(1)
			return v, nil
		default:
			var cmd tea.Cmd
			v.searchInput, cmd = v.searchInput.Update(msg)
			v.applyFilter()
			return v, cmd
		}
	}

	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Back):
		if v.customer != nil {
			return v, func() tea.Msg { return BackToCustomers{} }
		}
		return v, nil

	case key.Matches(msg, v.keys.Tab):
		v.cycleFocus(1)
		return v, nil

	case msg.String() == "shift+tab":
		v.cycleFocus(-1)
		return v, nil

	case key.Matches(msg, v.keys.Up):
		if v.focus == FocusTaskList && v.cursor > 0 {
			v.cursor--
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.focus == FocusTaskList && v.cursor < len(v.tasks)-1 {
			v.cursor++
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		switch v.focus {
		case FocusStatusDropdown:
			v.openStatusDropdown()
		case FocusTaskList:
			if len(v.tasks) > 0 {
				v.viewingTask = true
			}
		}
		return v, nil

	case key.Matches(msg, v.keys.Edit):
		if t, ok := v.selected(); ok && v.focus == FocusTaskList {
			v.startEditTask(t)
			return v, textinput.Blink
		}
		return v, nil

	case key.Matches(msg, v.keys.New):
		if len(v.customers) == 0 {
			return v, notify("Add a customer before creating tasks")
		}
		v.startNewTask()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Delete):
		if t, ok := v.selected(); ok && v.focus == FocusTaskList {
			v.confirmingDelete = true
			v.deleteTarget = t
		}
		return v, nil

	case key.Matches(msg, v.keys.ToggleDone):
		if t, ok := v.selected(); ok && v.focus == FocusTaskList {
			return v, v.toggleDone(t)
		}
		return v, nil

	case key.Matches(msg, v.keys.Search):
		v.focus = FocusSearchInput
		return v, v.searchInput.Focus()

	case key.Matches(msg, v.keys.Filter):
		v.focus = FocusStatusDropdown
		v.openStatusDropdown()
		return v, nil

	case key.Matches(msg, v.keys.Refresh):
		return v, v.loadTasks

	case key.Matches(msg, v.keys.Help):
		v.showHelpPopup = true
		return v, nil

	case key.Matches(msg, v.keys.ShowDone):
		v.hideDone = !v.hideDone
		v.cursor = 0
		v.scrollY = 0
		v.applyFilter()
		return v, nil
	}

	return v, nil
}

// statusOptions are the dropdown entries; the empty status means all
func statusOptions() []models.TaskStatus {
	return append([]models.TaskStatus{""}, models.TaskStatuses...)
}

func (v *TaskListView) openStatusDropdown() {
	v.statusDropdownOpen = true
	v.statusCursor = 0
	for i, s := range statusOptions() {
		if s == v.statusFilter {
			v.statusCursor = i
		}
	}
}

func (v *TaskListView) updateStatusDropdown(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	opts := statusOptions()
	switch {
	case key.Matches(msg, v.keys.Back):
		v.statusDropdownOpen = false
		return v, nil

	case key.Matches(msg, v.keys.Up):
		if v.statusCursor > 0 {
			v.statusCursor--
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.statusCursor < len(opts)-1 {
			v.statusCursor++
		}
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		v.statusFilter = opts[v.statusCursor]
		v.statusDropdownOpen = false
		v.focus = FocusTaskList
		v.cursor = 0
		v.scrollY = 0
		v.applyFilter()
		return v, nil
	}

	return v, nil
}

func (v *TaskListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirmingDelete = false
		v.viewingTask = false
		target := v.deleteTarget
		if _, err := v.store.Tasks().Delete(target.ID); err != nil {
			return v, failed("Could not delete task", err)
		}
		return v, tea.Batch(v.loadTasks, notify("Deleted %q", target.Title))
	case "n", "N", "esc":
		v.confirmingDelete = false
		return v, nil
	}
	return v, nil
}

func (v *TaskListView) updateViewingTask(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	t, ok := v.selected()
	if !ok {
		v.viewingTask = false
		return v, nil
	}

	switch {
	case key.Matches(msg, v.keys.Back), key.Matches(msg, v.keys.Enter):
		v.viewingTask = false
	case key.Matches(msg, v.keys.Edit):
		v.viewingTask = false
		v.startEditTask(t)
		return v, textinput.Blink
	case key.Matches(msg, v.keys.Delete):
		v.confirmingDelete = true
		v.deleteTarget = t
	case key.Matches(msg, v.keys.ToggleDone):
		return v, v.toggleDone(t)
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit
	}
	return v, nil
}

// toggleDone flips a task between Done and Todo
func (v *TaskListView) toggleDone(t models.Task) tea.Cmd {
	next := models.TaskDone
	if t.Done() {
		next = models.TaskTodo
	}
	updated, ok, err := v.store.Tasks().Update(t.ID, models.TaskPatch{Status: &next})
	switch {
	case err != nil:
		return failed("Could not update task", err)
	case !ok:
		return tea.Batch(v.loadTasks, notify("Task no longer exists"))
	}
	return tea.Batch(v.loadTasks, notify("%q is now %s", updated.Title, updated.Status))
}

func (v *TaskListView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.editing = false
		return v, nil

	case key.Matches(msg, v.keys.Save):
		return v, v.saveTask()

	case key.Matches(msg, v.keys.Tab):
		v.editFocusIdx = (v.editFocusIdx + 1) % taskFieldCount
		v.updateEditFocus()
		return v, nil

	case msg.String() == "shift+tab":
		v.editFocusIdx = (v.editFocusIdx + taskFieldCount - 1) % taskFieldCount
		v.updateEditFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if v.editFocusIdx == taskSave {
			return v, v.saveTask()
		}
		// Let enter pass through to the description for newlines
		if v.editFocusIdx != taskDesc {
			v.editFocusIdx++
			v.updateEditFocus()
			return v, nil
		}
	}

	dir := 0
	switch {
	case key.Matches(msg, v.keys.Left):
		dir = -1
	case key.Matches(msg, v.keys.Right):
		dir = 1
	}

	var cmd tea.Cmd
	switch v.editFocusIdx {
	case taskTitle:
		v.editTitle, cmd = v.editTitle.Update(msg)
	case taskDesc:
		v.editDesc, cmd = v.editDesc.Update(msg)
	case taskDeadline:
		v.editDeadline, cmd = v.editDeadline.Update(msg)
	case taskAssignee:
		v.editAssignee, cmd = v.editAssignee.Update(msg)
	case taskCustomer:
		if dir != 0 && len(v.customers) > 0 {
			v.editCustomer = (v.editCustomer + dir + len(v.customers)) % len(v.customers)
		}
	case taskPriority:
		if dir != 0 {
			v.editPriority = cycle(models.Priorities, v.editPriority, dir)
		}
	case taskStatus:
		if dir != 0 {
			v.editStatus = cycle(models.TaskStatuses, v.editStatus, dir)
		}
	}
	return v, cmd
}

func (v *TaskListView) cycleFocus(dir int) {
	v.searchInput.Blur()
	v.focus = FocusArea((int(v.focus) + dir + int(focusAreaCount)) % int(focusAreaCount))
	if v.focus == FocusSearchInput {
		v.searchInput.Focus()
	}
}

// visibleItems is how many two-line task items fit on screen
func (v *TaskListView) visibleItems() int {
	availableHeight := max(v.height-12, 3)
	return max(availableHeight/3, 1)
}

func (v *TaskListView) ensureVisible() {
	visible := v.visibleItems()
	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	} else if v.cursor >= v.scrollY+visible {
		v.scrollY = v.cursor - visible + 1
	}
}

func (v *TaskListView) startNewTask() {
	v.editing = true
	v.editingID = ""
	v.formErr = ""
	v.editFocusIdx = taskTitle
	v.editTitle.Reset()
	v.editDesc.Reset()
	v.editDeadline.Reset()
	v.editAssignee.Reset()
	v.editPriority = models.PriorityMedium
	v.editStatus = models.TaskTodo
	v.editCustomer = 0
	if v.customer != nil {
		v.editCustomer = v.customerIndex(v.customer.ID)
	}
	v.updateEditFocus()
}

func (v *TaskListView) startEditTask(t models.Task) {
	v.editing = true
	v.editingID = t.ID
	v.formErr = ""
	v.editFocusIdx = taskTitle
	v.editTitle.SetValue(t.Title)
	v.editDesc.SetValue(t.Description)
	v.editDeadline.SetValue(t.Deadline.Local().Format("2006-01-02 15:04"))
	v.editAssignee.SetValue(t.Assignee)
	v.editPriority = t.Priority
	v.editStatus = t.Status
	v.editCustomer = v.customerIndex(t.CustomerID)
	v.updateEditFocus()
}

func (v *TaskListView) customerIndex(id string) int {
	for i, c := range v.customers {
		if c.ID == id {
			return i
		}
	}
	return 0
}

func (v *TaskListView) updateEditFocus() {
	v.editTitle.Blur()
	v.editDesc.Blur()
	v.editDeadline.Blur()
	v.editAssignee.Blur()

	switch v.editFocusIdx {
	case taskTitle:
		v.editTitle.Focus()
	case taskDesc:
		v.editDesc.Focus()
	case taskDeadline:
		v.editDeadline.Focus()
	case taskAssignee:
		v.editAssignee.Focus()
	}
}

// parseFormDeadline reads the deadline field in local time
func parseFormDeadline(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range deadlineLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("deadline %q is not YYYY-MM-DD or YYYY-MM-DD HH:MM", s)
}

func (v *TaskListView) saveTask() tea.Cmd {
	deadline, err := parseFormDeadline(v.editDeadline.Value())
	if err != nil {
		v.formErr = err.Error()
		return nil
	}

	d := models.TaskDraft{
		Title:       strings.TrimSpace(v.editTitle.Value()),
		Description: strings.TrimSpace(v.editDesc.Value()),
		Deadline:    deadline,
		Status:      v.editStatus,
		Priority:    v.editPriority,
		Assignee:    strings.TrimSpace(v.editAssignee.Value()),
	}
	if v.editCustomer < len(v.customers) {
		d.CustomerID = v.customers[v.editCustomer].ID
	}
	if err := d.Validate(); err != nil {
		v.formErr = err.Error()
		return nil
	}

	if v.editingID == "" {
		t, err := v.store.Tasks().Add(d)
		if err != nil {
			v.formErr = err.Error()
			return failed("Could not create task", err)
		}
		v.editing = false
		return tea.Batch(v.loadTasks, notify("Created %q", t.Title))
	}

	patch := models.TaskPatch{
		CustomerID:  &d.CustomerID,
		Title:       &d.Title,
		Description: &d.Description,
		Deadline:    &d.Deadline,
		Status:      &d.Status,
		Priority:    &d.Priority,
		Assignee:    &d.Assignee,
	}
	t, ok, err := v.store.Tasks().Update(v.editingID, patch)
	switch {
	case err != nil:
		v.formErr = err.Error()
		return failed("Could not update task", err)
	case !ok:
		v.editing = false
		return tea.Batch(v.loadTasks, notify("Task no longer exists"))
	}
	v.editing = false
	return tea.Batch(v.loadTasks, notify("Updated %q", t.Title))
}

// View renders the view
func (v *TaskListView) View() string {
	if v.showHelpPopup {
		return v.renderHelpPopup()
	}
	if v.confirmingDelete {
		return confirmDelete(v.styles, v.width, v.height, "Delete Task?",
			fmt.Sprintf("Are you sure you want to delete %q?", v.deleteTarget.Title))
	}
	if v.editing {
		return v.renderEditForm()
	}
	if v.viewingTask {
		return v.renderTaskView()
	}
	if !v.loaded {
		return v.styles.TitleMuted.Render("Loading...")
	}

	var b strings.Builder
	b.WriteString(v.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(v.renderTaskList())
	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *TaskListView) renderHeader() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	isNarrow := contentWidth < 60

	searchStyle := s.Input
	if v.focus == FocusSearchInput {
		searchStyle = s.InputFocused
	}
	searchBox := searchStyle.Width(clamp(contentWidth-8, 10, 30)).Render(v.searchInput.View())

	statusStyle := s.Button
	if v.focus == FocusStatusDropdown {
		statusStyle = s.ButtonFocused
	}
	statusLabel := "All"
	if v.statusFilter != "" {
		statusLabel = string(v.statusFilter)
	}
	if !isNarrow {
		statusLabel = "Status: " + statusLabel
	}
	statusBtn := statusStyle.Render(statusLabel + " ▼")

	titleText := "Tasks"
	if v.customer != nil {
		titleText = "Tasks · " + v.customer.Name
	}
	if v.hideDone {
		titleText += " (open)"
	}
	title := s.Title.Render(titleText)

	c := v.counts
	counters := s.TitleMuted.Render(fmt.Sprintf("Todo %d • In Progress %d • Done %d", c.Todo, c.InProgress, c.Done))
	if c.Overdue > 0 {
		counters += " • " + s.Overdue.Render(fmt.Sprintf("Overdue %d", c.Overdue))
	}

	var header string
	if isNarrow {
		header = lipgloss.JoinVertical(lipgloss.Left, searchBox, statusBtn)
	} else {
		header = lipgloss.JoinHorizontal(lipgloss.Center, searchBox, "  ", statusBtn)
	}

	dropdown := ""
	if v.statusDropdownOpen {
		dropdown = "\n" + v.renderStatusDropdown()
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, counters, header+dropdown)
}

func (v *TaskListView) renderStatusDropdown() string {
	s := v.styles
	var items []string
	for i, status := range statusOptions() {
		itemStyle := s.ListItem
		if v.statusCursor == i {
			itemStyle = s.ListSelected
		}
		label := "All"
		dot := "○"
		if status != "" {
			label = string(status)
			dot = lipgloss.NewStyle().Foreground(styles.TaskStatusColor(status)).Render("●")
		}
		items = append(items, itemStyle.Render(dot+" "+label))
	}
	return s.FilterBar.Render(lipgloss.JoinVertical(lipgloss.Left, items...))
}

func (v *TaskListView) renderTaskList() string {
	s := v.styles

	if len(v.tasks) == 0 {
		if len(v.all) > 0 {
			return s.TitleMuted.Render("No tasks match the current filters.")
		}
		return s.TitleMuted.Render("No tasks. Press 'n' to create one.")
	}

	var items []string
	endIdx := min(v.scrollY+v.visibleItems(), len(v.tasks))
	for i := v.scrollY; i < endIdx; i++ {
		items = append(items, v.renderTaskItem(v.tasks[i], i == v.cursor && v.focus == FocusTaskList))
	}
	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

func (v *TaskListView) renderTaskItem(task models.Task, selected bool) string {
	s := v.styles
	width := max(styles.ContentWidth(v.width)-4, 20)

	check := "[ ]"
	title := task.Title
	if task.Done() {
		check = "[x]"
		title = s.TaskDone.Render(title)
	}
	priority := lipgloss.NewStyle().Foreground(styles.PriorityColor(task.Priority)).Render("!" + string(task.Priority))
	titleLine := check + " " + title + "  " + priority

	details := []string{
		v.names[task.CustomerID],
		"due " + task.Deadline.Local().Format("Jan 2 15:04"),
		s.BadgeFor(string(task.Status), styles.TaskStatusColor(task.Status)),
	}
	if task.Assignee != "" {
		details = append(details, task.Assignee)
	}
	detailLine := strings.Join(details, " · ")
	if report.NeedsAttention(task, v.now) {
		detailLine += " " + s.Overdue.Render("(overdue)")
	}

	lineStyle := s.ListItem.Width(width)
	if selected {
		lineStyle = s.ListSelected.Width(width)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		lineStyle.Render(titleLine),
		lineStyle.Foreground(styles.Current.ForegroundDim).Render(detailLine),
	) + "\n"
}

func (v *TaskListView) renderEditForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	inputWidth := clamp(contentWidth-6, 20, 50)

	formTitle := "New Task"
	if v.editingID != "" {
		formTitle = "Edit Task"
	}

	customerName := "(no customers)"
	if v.editCustomer < len(v.customers) {
		customerName = v.customers[v.editCustomer].Name
	}

	btnStyle := s.Button
	if v.editFocusIdx == taskSave {
		btnStyle = s.ButtonFocused
	}

	errLine := ""
	if v.formErr != "" {
		errLine = s.StatusError.Render(v.formErr)
	}

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(formTitle),
		"",
		field(s, "Title:", v.editTitle.View(), v.editFocusIdx == taskTitle, inputWidth),
		field(s, "Description:", v.editDesc.View(), v.editFocusIdx == taskDesc, inputWidth),
		choice(s, "Customer:", customerName, styles.Current.Foreground, v.editFocusIdx == taskCustomer, inputWidth),
		field(s, "Deadline:", v.editDeadline.View(), v.editFocusIdx == taskDeadline, inputWidth),
		choice(s, "Priority:", string(v.editPriority), styles.PriorityColor(v.editPriority), v.editFocusIdx == taskPriority, inputWidth),
		choice(s, "Status:", string(v.editStatus), styles.TaskStatusColor(v.editStatus), v.editFocusIdx == taskStatus, inputWidth),
		field(s, "Assignee:", v.editAssignee.View(), v.editFocusIdx == taskAssignee, inputWidth),
		"",
		btnStyle.Render(" Save "),
		errLine,
		s.TitleMuted.Render("Tab: next • ←→: change • Ctrl+S: save • Esc: cancel"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TaskListView) renderHelp() string {
	contentWidth := styles.ContentWidth(v.width)
	if contentWidth > 0 && contentWidth < 50 {
		return v.styles.Help.Render(v.styles.HelpKey.Render("?") + " help")
	}

	doneLabel := "hide done"
	if v.hideDone {
		doneLabel = "show done"
	}
	return helpLine(v.styles,
		"↵", "view", "x", "done", "e", "edit", "n", "new", "d", "del",
		"/", "search", "f", "status", "c", doneLabel, "q", "quit",
	)
}

func (v *TaskListView) renderHelpPopup() string {
	doneLabel := "hide completed"
	if v.hideDone {
		doneLabel = "show completed"
	}
	return helpPopup(v.styles, v.width, v.height,
		"↵", "view task",
		"x", "toggle done",
		"e", "edit task",
		"n", "new task",
		"d", "delete task",
		"/", "search",
		"f", "filter by status",
		"c", doneLabel,
		"r", "refresh",
		"esc", "back",
		"1/2/3", "switch screen",
		"q", "quit",
	)
}

func (v *TaskListView) renderTaskView() string {
	task, ok := v.selected()
	if !ok {
		return ""
	}

	s := v.styles
	textWidth := clamp(styles.ContentWidth(v.width)-10, 20, 70)
	labelStyle := s.TitleMuted

	descText := task.Description
	if descText == "" {
		descText = s.TitleMuted.Render("No description")
	}
	assignee := task.Assignee
	if assignee == "" {
		assignee = s.TitleMuted.Render("Unassigned")
	}
	deadline := task.Deadline.Local().Format("Jan 2, 2006 3:04 PM")
	if report.NeedsAttention(task, v.now) {
		deadline += " " + s.Overdue.Render("(overdue)")
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.MarginBottom(1).Render(task.Title),
		labelStyle.Render("Customer"),
		v.names[task.CustomerID],
		"",
		labelStyle.Render("Status"),
		s.BadgeFor(string(task.Status), styles.TaskStatusColor(task.Status)),
		"",
		labelStyle.Render("Priority"),
		s.BadgeFor(string(task.Priority), styles.PriorityColor(task.Priority)),
		"",
		labelStyle.Render("Deadline"),
		deadline,
		"",
		labelStyle.Render("Assignee"),
		assignee,
		"",
		labelStyle.Render("Description"),
		lipgloss.NewStyle().Width(textWidth).Render(descText),
		"",
		labelStyle.Render(fmt.Sprintf("Created %s · Updated %s",
			task.CreatedAt.Local().Format("Jan 2, 2006"),
			relativeTime(task.UpdatedAt, v.now))),
		"",
		helpLine(s, "x", "toggle done", "e", "edit", "d", "delete", "esc", "back"),
	)

	padded := lipgloss.NewStyle().Padding(1, 2).Render(content)
	return styles.CenterView(padded, v.width, v.height)
}

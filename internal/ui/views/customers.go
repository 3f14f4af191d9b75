package views

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/crm/internal/models"
	"github.com/tgienger/crm/internal/report"
	"github.com/tgienger/crm/internal/store"
	"github.com/tgienger/crm/internal/ui/keys"
	"github.com/tgienger/crm/internal/ui/styles"
)

type customerItem struct {
	customer models.Customer
	tasks    int
}

func (i customerItem) Title() string       { return i.customer.Name }
func (i customerItem) Description() string { return i.customer.Company }
func (i customerItem) FilterValue() string { return i.customer.Name }

type customerDelegate struct {
	styles *styles.Styles
	width  int
}

func (d customerDelegate) Height() int                               { return 2 }
func (d customerDelegate) Spacing() int                              { return 1 }
func (d customerDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d customerDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ci, ok := item.(customerItem)
	if !ok {
		return
	}
	c := ci.customer

	selected := index == m.Index()
	width := max(d.width-4, 20)

	titleStyle := d.styles.ListItem.Width(width)
	descStyle := d.styles.ListItem.Foreground(styles.Current.ForegroundDim).Width(width)
	if selected {
		titleStyle = d.styles.ListSelected.Width(width)
		descStyle = d.styles.ListSelected.Foreground(styles.Current.ForegroundDim).Width(width)
	}

	title := c.Name + "  " + d.styles.BadgeFor(string(c.Status), styles.CustomerStatusColor(c.Status))

	var details []string
	for _, s := range []string{c.Company, c.Email} {
		if s != "" {
			details = append(details, s)
		}
	}
	details = append(details, plural(ci.tasks, "task"))
	desc := strings.Join(details, " · ")
	if len(c.Tags) > 0 {
		desc += "  #" + strings.Join(c.Tags, " #")
	}

	fmt.Fprintf(w, "%s\n%s", titleStyle.Render(title), descStyle.Render(desc))
}

// OpenCustomerTasks asks the app to show the tasks of one customer
type OpenCustomerTasks struct {
	Customer models.Customer
}

// Customer form focus order
const (
	custName = iota
	custEmail
	custPhone
	custCompany
	custTags
	custStatus
	custNotes
	custSave
	custFieldCount
)

func customerHasInput(idx int) bool {
	return idx != custStatus && idx != custSave
}

// CustomerListView lists customers and hosts the customer form
type CustomerListView struct {
	store    *store.Store
	list     list.Model
	delegate *customerDelegate
	styles   *styles.Styles
	keys     keys.KeyMap
	width    int
	height   int
	loaded   bool

	all        []models.Customer
	taskCounts map[string]int

	search    textinput.Model
	searching bool
	status    models.CustomerStatus // empty = all
	tag       string                // empty = all

	editing    bool
	editingID  string // empty = new customer
	inputs     [custFieldCount]textinput.Model
	editStatus models.CustomerStatus
	focusIdx   int
	formErr    string

	confirmingDelete bool
	deleteTarget     models.Customer
	deleteTasks      int

	showHelpPopup bool
}

// NewCustomerListView creates the customers screen
func NewCustomerListView(s *store.Store) *CustomerListView {
	st := styles.NewStyles()

	search := textinput.New()
	search.Placeholder = "Search customers..."
	search.CharLimit = 100

	delegate := &customerDelegate{styles: st, width: 80}

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	v := &CustomerListView{
		store:    s,
		list:     l,
		delegate: delegate,
		styles:   st,
		keys:     keys.DefaultKeyMap(),
		search:   search,
	}

	placeholders := map[int]string{
		custName:    "Full name",
		custEmail:   "name@example.com",
		custPhone:   "+1 (555) 123-4567",
		custCompany: "Company",
		custTags:    "comma separated",
		custNotes:   "Notes (optional)",
	}
	for i := range v.inputs {
		if !customerHasInput(i) {
			continue
		}
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.CharLimit = 200
		v.inputs[i] = in
	}
	v.inputs[custNotes].CharLimit = 1000
	return v
}

type customersLoadedMsg struct {
	customers  []models.Customer
	taskCounts map[string]int
}

// Init loads the customers
func (v *CustomerListView) Init() tea.Cmd {
	return v.load
}

func (v *CustomerListView) load() tea.Msg {
	snap := v.store.Snapshot()
	counts := make(map[string]int)
	for _, t := range snap.Tasks {
		counts[t.CustomerID]++
	}
	return customersLoadedMsg{customers: snap.Customers, taskCounts: counts}
}

// Capturing reports whether the view is consuming every key press
func (v *CustomerListView) Capturing() bool {
	return v.editing || v.searching || v.confirmingDelete || v.showHelpPopup
}

// Update handles messages
func (v *CustomerListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(msg.Width)
		v.delegate.width = contentWidth
		v.list.SetSize(contentWidth-4, max(msg.Height-8, 3))
		return v, nil

	case customersLoadedMsg:
		v.all = msg.customers
		v.taskCounts = msg.taskCounts
		v.loaded = true
		v.applyFilter()
		return v, nil

	case tea.KeyMsg:
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
		if v.searching {
			return v.updateSearching(msg)
		}

		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.Back):
			if v.search.Value() != "" || v.status != "" || v.tag != "" {
				v.search.Reset()
				v.status = ""
				v.tag = ""
				v.applyFilter()
			}
			return v, nil
		case key.Matches(msg, v.keys.Help):
			v.showHelpPopup = true
			return v, nil
		case key.Matches(msg, v.keys.Search):
			v.searching = true
			return v, v.search.Focus()
		case key.Matches(msg, v.keys.Filter):
			v.status = nextCustomerStatusFilter(v.status)
			v.applyFilter()
			return v, nil
		case msg.String() == "t":
			v.tag = cycle(append([]string{""}, report.Tags(v.all)...), v.tag, 1)
			v.applyFilter()
			return v, nil
		case key.Matches(msg, v.keys.Refresh):
			return v, v.load
		case key.Matches(msg, v.keys.New):
			v.startForm(nil)
			return v, textinput.Blink
		case key.Matches(msg, v.keys.Edit):
			if c, ok := v.selected(); ok {
				v.startForm(&c)
				return v, textinput.Blink
			}
			return v, nil
		case key.Matches(msg, v.keys.Enter):
			if c, ok := v.selected(); ok {
				return v, func() tea.Msg { return OpenCustomerTasks{Customer: c} }
			}
			return v, nil
		case key.Matches(msg, v.keys.Delete):
			if c, ok := v.selected(); ok {
				v.confirmingDelete = true
				v.deleteTarget = c
				v.deleteTasks = len(v.store.Tasks().ListByCustomer(c.ID))
			}
			return v, nil
		}
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

// nextCustomerStatusFilter cycles All -> Lead -> Active -> Inactive -> All
func nextCustomerStatusFilter(cur models.CustomerStatus) models.CustomerStatus {
	opts := append([]models.CustomerStatus{""}, models.CustomerStatuses...)
	return cycle(opts, cur, 1)
}

func (v *CustomerListView) applyFilter() {
	filtered := report.FilterCustomers(v.all, report.CustomerFilter{
		Query:  strings.TrimSpace(v.search.Value()),
		Status: v.status,
		Tag:    v.tag,
	})
	items := make([]list.Item, len(filtered))
	for i, c := range filtered {
		items[i] = customerItem{customer: c, tasks: v.taskCounts[c.ID]}
	}
	v.list.SetItems(items)
	if v.list.Index() >= len(items) {
		v.list.Select(max(len(items)-1, 0))
	}
}

func (v *CustomerListView) selected() (models.Customer, bool) {
	item, ok := v.list.SelectedItem().(customerItem)
	return item.customer, ok
}

func (v *CustomerListView) updateSearching(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back), key.Matches(msg, v.keys.Enter):
		v.searching = false
		v.search.Blur()
		return v, nil
	}
	var cmd tea.Cmd
	v.search, cmd = v.search.Update(msg)
	v.applyFilter()
	return v, cmd
}

func (v *CustomerListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirmingDelete = false
		target := v.deleteTarget
		if _, err := v.store.Customers().Delete(target.ID); err != nil {
			return v, failed("Could not delete customer", err)
		}
		return v, tea.Batch(v.load, notify("Deleted %s", target.Name))
	case "n", "N", "esc":
		v.confirmingDelete = false
		return v, nil
	}
	return v, nil
}

func (v *CustomerListView) startForm(c *models.Customer) {
	v.editing = true
	v.formErr = ""
	v.focusIdx = custName
	for i := range v.inputs {
		if customerHasInput(i) {
			v.inputs[i].Reset()
		}
	}
	v.editingID = ""
	v.editStatus = models.CustomerLead
	if c != nil {
		v.editingID = c.ID
		v.editStatus = c.Status
		v.inputs[custName].SetValue(c.Name)
		v.inputs[custEmail].SetValue(c.Email)
		v.inputs[custPhone].SetValue(c.Phone)
		v.inputs[custCompany].SetValue(c.Company)
		v.inputs[custTags].SetValue(strings.Join(c.Tags, ", "))
		v.inputs[custNotes].SetValue(c.Notes)
	}
	v.updateFocus()
}

func (v *CustomerListView) updateFocus() {
	for i := range v.inputs {
		if customerHasInput(i) {
			v.inputs[i].Blur()
		}
	}
	if customerHasInput(v.focusIdx) {
		v.inputs[v.focusIdx].Focus()
	}
}

func (v *CustomerListView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.editing = false
		return v, nil

	case key.Matches(msg, v.keys.Save):
		return v, v.save()

	case key.Matches(msg, v.keys.Tab):
		v.focusIdx = (v.focusIdx + 1) % custFieldCount
		v.updateFocus()
		return v, nil

	case msg.String() == "shift+tab":
		v.focusIdx = (v.focusIdx + custFieldCount - 1) % custFieldCount
		v.updateFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if v.focusIdx == custSave {
			return v, v.save()
		}
		v.focusIdx++
		v.updateFocus()
		return v, nil
	}

	if v.focusIdx == custStatus {
		switch {
		case key.Matches(msg, v.keys.Left):
			v.editStatus = cycle(models.CustomerStatuses, v.editStatus, -1)
		case key.Matches(msg, v.keys.Right):
			v.editStatus = cycle(models.CustomerStatuses, v.editStatus, 1)
		}
		return v, nil
	}

	var cmd tea.Cmd
	if customerHasInput(v.focusIdx) {
		v.inputs[v.focusIdx], cmd = v.inputs[v.focusIdx].Update(msg)
	}
	return v, cmd
}

func (v *CustomerListView) draft() models.CustomerDraft {
	value := func(i int) string { return strings.TrimSpace(v.inputs[i].Value()) }
	return models.CustomerDraft{
		Name:    value(custName),
		Email:   value(custEmail),
		Phone:   value(custPhone),
		Company: value(custCompany),
		Tags:    splitTags(value(custTags)),
		Status:  v.editStatus,
		Notes:   value(custNotes),
	}
}

func (v *CustomerListView) save() tea.Cmd {
	d := v.draft()
	if err := d.Validate(); err != nil {
		v.formErr = err.Error()
		return nil
	}

	if v.editingID == "" {
		c, err := v.store.Customers().Add(d)
		if err != nil {
			v.formErr = err.Error()
			return failed("Could not add customer", err)
		}
		v.editing = false
		return tea.Batch(v.load, notify("Added %s", c.Name))
	}

	patch := models.CustomerPatch{
		Name:    &d.Name,
		Email:   &d.Email,
		Phone:   &d.Phone,
		Company: &d.Company,
		Tags:    &d.Tags,
		Status:  &d.Status,
		Notes:   &d.Notes,
	}
	c, ok, err := v.store.Customers().Update(v.editingID, patch)
	switch {
	case err != nil:
		v.formErr = err.Error()
		return failed("Could not update customer", err)
	case !ok:
		v.editing = false
		return tea.Batch(v.load, notify("Customer no longer exists"))
	}
	v.editing = false
	return tea.Batch(v.load, notify("Updated %s", c.Name))
}

// splitTags turns "a, b,,c" into [a b c]
func splitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// View renders the view
func (v *CustomerListView) View() string {
	if v.showHelpPopup {
		return helpPopup(v.styles, v.width, v.height,
			"↵", "open tasks",
			"n", "new customer",
			"e", "edit customer",
			"d", "delete customer",
			"/", "search",
			"f", "filter by status",
			"t", "filter by tag",
			"r", "refresh",
			"esc", "clear filters",
			"1/2/3", "switch screen",
			"q", "quit",
		)
	}
	if v.confirmingDelete {
		return confirmDelete(v.styles, v.width, v.height, "Delete Customer?",
			fmt.Sprintf("%s and %s will be removed", v.deleteTarget.Name, plural(v.deleteTasks, "task")))
	}
	if v.editing {
		return v.renderForm()
	}
	if !v.loaded {
		return v.styles.TitleMuted.Render("Loading...")
	}

	var body string
	if len(v.list.Items()) == 0 {
		body = v.renderEmpty()
	} else {
		body = v.list.View()
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		v.renderHeader(),
		"",
		body,
		v.renderHelp(),
	)
	return styles.CenterView(content, v.width, v.height)
}

func (v *CustomerListView) renderHeader() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	searchStyle := s.Input
	if v.searching {
		searchStyle = s.InputFocused
	}
	searchBox := searchStyle.Width(clamp(contentWidth-44, 10, 30)).Render(v.search.View())

	statusLabel := "All"
	if v.status != "" {
		statusLabel = string(v.status)
	}
	statusBtn := s.Button.Render("Status: " + statusLabel)

	tagLabel := "All"
	if v.tag != "" {
		tagLabel = "#" + v.tag
	}
	tagBtn := s.Button.Render("Tag: " + tagLabel)

	title := s.Title.Render(fmt.Sprintf("Customers (%d)", len(v.list.Items())))
	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		lipgloss.JoinHorizontal(lipgloss.Center, searchBox, "  ", statusBtn, " ", tagBtn),
	)
}

func (v *CustomerListView) renderEmpty() string {
	if len(v.all) > 0 {
		return v.styles.TitleMuted.Render("No customers match the current filters.")
	}
	return v.styles.TitleMuted.Render("No customers yet. Press 'n' to add one.")
}

func (v *CustomerListView) renderHelp() string {
	if w := styles.ContentWidth(v.width); w > 0 && w < 50 {
		return v.styles.Help.Render(v.styles.HelpKey.Render("?") + " help")
	}
	return helpLine(v.styles,
		"↵", "tasks", "n", "new", "e", "edit", "d", "del",
		"/", "search", "f", "status", "t", "tag", "?", "help", "q", "quit",
	)
}

func (v *CustomerListView) renderForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	inputWidth := clamp(contentWidth-6, 20, 50)

	formTitle := "New Customer"
	if v.editingID != "" {
		formTitle = "Edit Customer"
	}

	btnStyle := s.Button
	if v.focusIdx == custSave {
		btnStyle = s.ButtonFocused
	}

	errLine := ""
	if v.formErr != "" {
		errLine = s.StatusError.Render(v.formErr)
	}

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(formTitle),
		"",
		field(s, "Name:", v.inputs[custName].View(), v.focusIdx == custName, inputWidth),
		field(s, "Email:", v.inputs[custEmail].View(), v.focusIdx == custEmail, inputWidth),
		field(s, "Phone:", v.inputs[custPhone].View(), v.focusIdx == custPhone, inputWidth),
		field(s, "Company:", v.inputs[custCompany].View(), v.focusIdx == custCompany, inputWidth),
		field(s, "Tags:", v.inputs[custTags].View(), v.focusIdx == custTags, inputWidth),
		choice(s, "Status:", string(v.editStatus), styles.CustomerStatusColor(v.editStatus), v.focusIdx == custStatus, inputWidth),
		field(s, "Notes:", v.inputs[custNotes].View(), v.focusIdx == custNotes, inputWidth),
		"",
		btnStyle.Render(" Save "),
		errLine,
		s.TitleMuted.Render("Tab: next • ←→: change status • Ctrl+S: save • Esc: cancel"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}

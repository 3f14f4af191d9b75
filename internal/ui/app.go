package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/tgienger/crm/internal/kv"
	"github.com/tgienger/crm/internal/models"
	"github.com/tgienger/crm/internal/store"
	"github.com/tgienger/crm/internal/ui/keys"
	"github.com/tgienger/crm/internal/ui/styles"
	"github.com/tgienger/crm/internal/ui/views"
)

// LastScreenKey remembers which screen was open when the app quit
const LastScreenKey = "crm_ui_last_screen"

// Screen is a top-level view
type Screen int

const (
	ScreenDashboard Screen = iota
	ScreenCustomers
	ScreenTasks
)

var screenNames = map[Screen]string{
	ScreenDashboard: "dashboard",
	ScreenCustomers: "customers",
	ScreenTasks:     "tasks",
}

func parseScreen(name string) (Screen, bool) {
	for s, n := range screenNames {
		if n == name {
			return s, true
		}
	}
	return ScreenDashboard, false
}

// screen is implemented by every view the app switches between
type screen interface {
	tea.Model
	Capturing() bool
}

type App struct {
	store    *store.Store
	settings kv.Store
	log      zerolog.Logger
	keys     keys.KeyMap
	styles   *styles.Styles

	current   Screen
	dashboard *views.DashboardView
	customers *views.CustomerListView
	tasks     *views.TaskListView

	status    string
	statusErr bool
	width     int
	height    int
}

// Options configures NewApp. User and Logger may be nil.
type Options struct {
	Store    *store.Store
	Settings kv.Store
	User     *models.User
	Logger   *zerolog.Logger
}

// NewApp creates the application
func NewApp(opts Options) *App {
	a := &App{
		store:     opts.Store,
		settings:  opts.Settings,
		log:       zerolog.Nop(),
		keys:      keys.DefaultKeyMap(),
		styles:    styles.NewStyles(),
		current:   ScreenDashboard,
		dashboard: views.NewDashboardView(opts.Store, opts.User),
		customers: views.NewCustomerListView(opts.Store),
		tasks:     views.NewTaskListView(opts.Store),
	}
	if opts.Logger != nil {
		a.log = opts.Logger.With().Str("component", "ui").Logger()
	}
	return a
}

// Current returns the screen being shown
func (a *App) Current() Screen { return a.current }

func (a *App) Init() tea.Cmd {
	// Reopen the screen that was showing last time
	if a.settings != nil {
		if data, ok, err := a.settings.Read(LastScreenKey); err == nil && ok {
			if s, ok := parseScreen(string(data)); ok {
				a.current = s
			}
		}
	}
	return a.active().Init()
}

func (a *App) active() screen {
	switch a.current {
	case ScreenCustomers:
		return a.customers
	case ScreenTasks:
		return a.tasks
	}
	return a.dashboard
}

func (a *App) switchTo(s Screen) tea.Cmd {
	a.current = s
	if a.settings != nil {
		if err := a.settings.Write(LastScreenKey, []byte(screenNames[s])); err != nil {
			a.log.Warn().Err(err).Msg("remember screen")
		}
	}

	// Re-initialize with the window size so the view lays itself out
	return tea.Batch(
		a.active().Init(),
		func() tea.Msg {
			return tea.WindowSizeMsg{Width: a.width, Height: a.viewHeight()}
		},
	)
}

// viewHeight leaves room for the tab bar and the status line
func (a *App) viewHeight() int {
	return max(a.height-2, 0)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		sized := tea.WindowSizeMsg{Width: msg.Width, Height: a.viewHeight()}
		// Every screen keeps its size so switching is instant
		a.dashboard.Update(sized)
		a.customers.Update(sized)
		a.tasks.Update(sized)
		return a, nil

	case views.StatusMsg:
		a.status = msg.Text
		a.statusErr = msg.Err != nil
		if msg.Err != nil {
			a.status = msg.Text + ": " + msg.Err.Error()
			a.log.Error().Err(msg.Err).Msg(msg.Text)
		}
		return a, nil

	case views.OpenCustomerTasks:
		c := msg.Customer
		a.tasks.SetCustomer(&c)
		return a, a.switchTo(ScreenTasks)

	case views.BackToCustomers:
		a.tasks.SetCustomer(nil)
		return a, a.switchTo(ScreenCustomers)

	case tea.KeyMsg:
		if !a.active().Capturing() {
			switch {
			case key.Matches(msg, a.keys.Dashboard):
				return a, a.switchTo(ScreenDashboard)
			case key.Matches(msg, a.keys.Customers):
				return a, a.switchTo(ScreenCustomers)
			case key.Matches(msg, a.keys.Tasks):
				if a.current != ScreenTasks {
					a.tasks.SetCustomer(nil)
				}
				return a, a.switchTo(ScreenTasks)
			}
		}
		a.status = ""
	}

	_, cmd := a.active().Update(msg)
	return a, cmd
}

func (a *App) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		a.renderTabs(),
		a.active().View(),
		a.renderStatus(),
	)
}

func (a *App) renderTabs() string {
	labels := []struct {
		screen Screen
		label  string
	}{
		{ScreenDashboard, "1 Dashboard"},
		{ScreenCustomers, "2 Customers"},
		{ScreenTasks, "3 Tasks"},
	}
	var tabs []string
	for _, l := range labels {
		style := a.styles.Tab
		if l.screen == a.current {
			style = a.styles.TabActive
		}
		tabs = append(tabs, style.Render(l.label))
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	if a.width > styles.MaxWidth {
		bar = lipgloss.PlaceHorizontal(a.width, lipgloss.Center, bar)
	}
	return bar
}

func (a *App) renderStatus() string {
	if a.status == "" {
		return ""
	}
	if a.statusErr {
		return a.styles.StatusError.Render(a.status)
	}
	return a.styles.StatusBar.Render(a.status)
}

package views

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/crm/internal/models"
	"github.com/tgienger/crm/internal/report"
	"github.com/tgienger/crm/internal/store"
	"github.com/tgienger/crm/internal/ui/keys"
	"github.com/tgienger/crm/internal/ui/styles"
)

// DashboardView shows the headline numbers, upcoming tasks and the
// activity feed
type DashboardView struct {
	store  *store.Store
	user   *models.User
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	loaded    bool
	summary   report.Summary
	customers map[string]string
	now       time.Time
}

// NewDashboardView creates the dashboard. user may be nil.
func NewDashboardView(s *store.Store, user *models.User) *DashboardView {
	return &DashboardView{
		store:  s,
		user:   user,
		styles: styles.NewStyles(),
		keys:   keys.DefaultKeyMap(),
	}
}

type dashboardLoadedMsg struct {
	summary   report.Summary
	customers map[string]string
	now       time.Time
}

// Init loads the summary
func (v *DashboardView) Init() tea.Cmd {
	return v.load
}

func (v *DashboardView) load() tea.Msg {
	snap := v.store.Snapshot()
	now := v.store.Now()

	names := make(map[string]string, len(snap.Customers))
	for _, c := range snap.Customers {
		names[c.ID] = c.Name
	}
	return dashboardLoadedMsg{
		summary:   report.Dashboard(snap, now),
		customers: names,
		now:       now,
	}
}

// Capturing reports whether the view is consuming every key press
func (v *DashboardView) Capturing() bool { return false }

// Update handles messages
func (v *DashboardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case dashboardLoadedMsg:
		v.summary = msg.summary
		v.customers = msg.customers
		v.now = msg.now
		v.loaded = true
		return v, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.Refresh):
			return v, v.load
		}
	}
	return v, nil
}

// View renders the dashboard
func (v *DashboardView) View() string {
	s := v.styles
	if !v.loaded {
		return s.TitleMuted.Render("Loading...")
	}

	header := s.Title.Render("Dashboard")
	if v.user != nil {
		header += "  " + s.TitleMuted.Render("Welcome back, "+v.user.Name)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		v.renderStats(),
		"",
		s.Title.Render("Upcoming Tasks"),
		v.renderUpcoming(),
		"",
		s.Title.Render("Recent Activity"),
		v.renderActivity(),
		"",
		helpLine(s, "r", "refresh", "1/2/3", "screens", "q", "quit"),
	)
	return styles.CenterView(content, v.width, v.height)
}

func (v *DashboardView) renderStats() string {
	st := v.summary.Stats
	cards := []string{
		v.card("Total Customers", st.TotalCustomers),
		v.card("Active Leads", st.ActiveLeads),
		v.card("Tasks Pending", st.TasksPending),
		v.card("Tasks Completed", st.TasksCompleted),
		v.card("New This Month", st.CustomersThisMonth),
		v.card("Tasks This Week", st.TasksThisWeek),
	}

	perRow := 3
	if styles.ContentWidth(v.width) < 72 {
		perRow = 1
	}
	var rows []string
	for i := 0; i < len(cards); i += perRow {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards[i:min(i+perRow, len(cards))]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (v *DashboardView) card(label string, value int) string {
	s := v.styles
	return s.Card.Render(s.CardValue.Render(strconv.Itoa(value)) + "\n" + s.CardLabel.Render(label))
}

func (v *DashboardView) renderUpcoming() string {
	s := v.styles
	if len(v.summary.UpcomingTasks) == 0 {
		return s.TitleMuted.Render("No upcoming tasks")
	}

	var lines []string
	for _, t := range v.summary.UpcomingTasks {
		dot := lipgloss.NewStyle().Foreground(styles.PriorityColor(t.Priority)).Render("●")
		due := s.TitleMuted.Render(t.Deadline.Local().Format("Jan 2"))
		if report.IsOverdue(t, v.now) {
			due = s.Overdue.Render("overdue")
		}
		line := fmt.Sprintf("%s %s %s", dot, t.Title, due)
		if name := v.customers[t.CustomerID]; name != "" {
			line += "  " + s.TitleMuted.Render(name)
		}
		lines = append(lines, s.ListItem.Render(line))
	}
	return strings.Join(lines, "\n")
}

func (v *DashboardView) renderActivity() string {
	s := v.styles
	if len(v.summary.RecentActivity) == 0 {
		return s.TitleMuted.Render("No recent activity")
	}

	var lines []string
	for _, a := range v.summary.RecentActivity {
		lines = append(lines, s.ListItem.Render(fmt.Sprintf("%s %s  %s",
			s.HelpKey.Render(a.Title),
			a.Description,
			s.TitleMuted.Render(relativeTime(a.Timestamp, v.now)),
		)))
	}
	return strings.Join(lines, "\n")
}

package views

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/crm/internal/ui/styles"
)

// dateLayout is how deadlines are typed and shown in forms
const dateLayout = "2006-01-02"

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// StatusMsg is shown on the app status line
type StatusMsg struct {
	Text string
	Err  error
}

func notify(format string, args ...any) tea.Cmd {
	text := fmt.Sprintf(format, args...)
	return func() tea.Msg { return StatusMsg{Text: text} }
}

func failed(action string, err error) tea.Cmd {
	return func() tea.Msg { return StatusMsg{Text: action, Err: err} }
}

// plural renders "1 task", "3 tasks"
func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// relativeTime renders t relative to now the way the activity feed shows it
func relativeTime(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
	return t.Local().Format("Jan 2")
}

// cycle returns the element after cur in values, wrapping around
func cycle[T comparable](values []T, cur T, dir int) T {
	for i, v := range values {
		if v == cur {
			return values[(i+dir+len(values))%len(values)]
		}
	}
	return values[0]
}

// helpLine renders "key desc" pairs joined by bullets
func helpLine(s *styles.Styles, pairs ...string) string {
	var parts []string
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, s.HelpKey.Render(pairs[i])+" "+pairs[i+1])
	}
	return s.Help.Render(strings.Join(parts, " • "))
}

// helpPopup renders a boxed list of "key desc" pairs
func helpPopup(s *styles.Styles, width, height int, pairs ...string) string {
	items := []string{s.Title.Render("Keyboard Shortcuts"), ""}
	for i := 0; i+1 < len(pairs); i += 2 {
		items = append(items, s.HelpKey.Render(fmt.Sprintf("%-6s", pairs[i]))+" "+s.HelpDesc.Render(pairs[i+1]))
	}
	items = append(items, "", s.TitleMuted.Render("Press any key to close"))

	centered := lipgloss.Place(styles.ContentWidth(width), height,
		lipgloss.Center, lipgloss.Center,
		s.FilterBar.Render(lipgloss.JoinVertical(lipgloss.Left, items...)),
	)
	return styles.CenterView(centered, width, height)
}

// confirmDelete renders the Y/N prompt shown before deleting something
func confirmDelete(s *styles.Styles, width, height int, title, detail string) string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render(title),
		"",
		s.TitleMuted.Render(detail),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	centered := lipgloss.Place(styles.ContentWidth(width), height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, width, height)
}

// field renders a labelled form input, highlighted when focused
func field(s *styles.Styles, label, view string, focused bool, width int) string {
	style := s.Input
	if focused {
		style = s.InputFocused
	}
	return lipgloss.JoinVertical(lipgloss.Left, label, style.Width(width).Render(view))
}

// choice renders a left/right selector as a form field
func choice(s *styles.Styles, label, value string, color lipgloss.Color, focused bool, width int) string {
	arrowL, arrowR := "  ", "  "
	if focused {
		arrowL, arrowR = "◀ ", " ▶"
	}
	return field(s, label, arrowL+s.BadgeFor(value, color)+arrowR, focused, width)
}

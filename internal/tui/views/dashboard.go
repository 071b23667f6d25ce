package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/caremate-dev/caremate/internal/session"
	"github.com/caremate-dev/caremate/internal/tui"
	"github.com/caremate-dev/caremate/internal/tui/commands"
)

// menuEntry pairs a display label with its route name.
type menuEntry struct {
	label string
	route string
}

// DashboardModel is the view model for the main dashboard menu.
type DashboardModel struct {
	sess    *session.Store
	entries []menuEntry
	cursor  int
	width   int
	height  int
}

// NewDashboardModel creates the dashboard view. Caregivers see an extra
// entry for their marketplace profile.
func NewDashboardModel(sess *session.Store, width, height int) DashboardModel {
	entries := []menuEntry{
		{"Health metrics", "Health"},
		{"Care tasks", "Tasks"},
		{"Emergency", "Emergency"},
		{"Caregiver marketplace", "Marketplace"},
		{"Calls", "Calls"},
	}
	if sess.Role() == session.RoleCaregiver {
		entries = append(entries, menuEntry{"My caregiver profile", "CaregiverProfile"})
	}

	return DashboardModel{
		sess:    sess,
		entries: entries,
		width:   width,
		height:  height,
	}
}

// Init returns the initial command for the dashboard view.
func (m DashboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the dashboard view.
func (m DashboardModel) Update(msg tea.Msg) (DashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case tui.KeyUp, "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case tui.KeyDown, "j":
			if m.cursor < len(m.entries)-1 {
				m.cursor++
			}
		case tui.KeyEnter:
			route := m.entries[m.cursor].route
			return m, func() tea.Msg { return tui.NavigateMsg{Name: route} }
		case "q":
			return m, commands.LogoutCmd(m.sess)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

// View renders the dashboard view.
func (m DashboardModel) View() string {
	var b strings.Builder

	b.WriteString(tui.TitleStyle.Render("CareMate"))
	b.WriteString("\n")
	if user := m.sess.CurrentUser(); user != nil {
		b.WriteString(tui.DimStyle.Render(fmt.Sprintf("%s (%s)", user.Name, m.sess.Role())))
	}
	b.WriteString("\n\n")

	for i, entry := range m.entries {
		if i == m.cursor {
			b.WriteString(tui.SelectedStyle.Render("> " + entry.label))
		} else {
			b.WriteString("  " + entry.label)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(tui.DimStyle.Render("Enter: Open   q: Sign out   Ctrl+C: Exit"))

	return tui.BoxStyle.Render(b.String())
}

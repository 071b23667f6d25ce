package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/caremate-dev/caremate/internal/emergency"
	"github.com/caremate-dev/caremate/internal/tui"
	"github.com/caremate-dev/caremate/internal/tui/commands"
)

// EmergencyModel is the view model for emergency contacts and alerts.
type EmergencyModel struct {
	store    *emergency.Store
	contacts []emergency.Contact
	alerts   []emergency.Alert
	cursor   int
	loading  bool
	status   string
	errText  string
	width    int
	height   int
}

// NewEmergencyModel creates the emergency view.
func NewEmergencyModel(store *emergency.Store, width, height int) EmergencyModel {
	return EmergencyModel{
		store:    store,
		contacts: store.Contacts(),
		alerts:   store.Alerts(),
		loading:  true,
		width:    width,
		height:   height,
	}
}

// Init triggers the initial contact and alert loads.
func (m EmergencyModel) Init() tea.Cmd {
	return tea.Batch(
		commands.FetchContactsCmd(m.store),
		commands.FetchAlertsCmd(m.store),
	)
}

// Update handles messages for the emergency view.
func (m EmergencyModel) Update(msg tea.Msg) (EmergencyModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case tui.KeyUp, "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case tui.KeyDown, "j":
			if m.cursor < len(m.alerts)-1 {
				m.cursor++
			}
		case "r":
			m.loading = true
			return m, m.Init()
		case "t":
			m.status = ""
			return m, commands.TriggerAlertCmd(m.store, "Emergency assistance needed")
		case "s":
			if m.cursor < len(m.alerts) {
				return m, commands.ResolveAlertCmd(m.store, m.alerts[m.cursor].ID)
			}
		case "x":
			m.status = ""
			return m, commands.TestSystemCmd(m.store)
		case tui.KeyEsc:
			return m, func() tea.Msg { return tui.NavigateMsg{Name: "Dashboard"} }
		}

	case tui.ContactsLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.errText = m.store.LastError()
			return m, nil
		}
		m.errText = ""
		m.contacts = msg.Contacts
		return m, nil

	case tui.AlertsLoadedMsg:
		if msg.Err == nil {
			m.alerts = msg.Alerts
		}
		return m, nil

	case tui.AlertTriggeredMsg:
		if msg.Err != nil {
			m.errText = m.store.LastError()
			return m, nil
		}
		m.errText = ""
		m.status = "Alert sent to your emergency contacts"
		m.alerts = m.store.Alerts()
		return m, nil

	case tui.AlertResolvedMsg:
		if msg.Err != nil {
			m.errText = m.store.LastError()
			return m, nil
		}
		m.errText = ""
		m.alerts = m.store.Alerts()
		return m, nil

	case tui.SystemTestedMsg:
		if msg.Err != nil {
			m.errText = m.store.LastError()
			return m, nil
		}
		m.errText = ""
		m.status = fmt.Sprintf("System %s, %d contacts notified",
			msg.Result.SystemStatus, msg.Result.ContactsCount)
		m.alerts = m.store.Alerts()
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

// View renders the emergency view.
func (m EmergencyModel) View() string {
	var b strings.Builder

	b.WriteString(tui.TitleStyle.Render("Emergency"))
	b.WriteString("\n\n")

	b.WriteString(tui.TitleStyle.Render("Contacts"))
	b.WriteString("\n")
	if m.loading {
		b.WriteString(tui.DimStyle.Render("  Loading..."))
		b.WriteString("\n")
	} else if len(m.contacts) == 0 {
		b.WriteString(tui.DimStyle.Render("  No contacts. Add one with 'caremate emergency contacts add'."))
		b.WriteString("\n")
	} else {
		for _, contact := range m.contacts {
			b.WriteString(fmt.Sprintf("  %-20s %-16s %s\n",
				contact.Name, contact.Phone, tui.DimStyle.Render(contact.Relationship)))
		}
	}

	b.WriteString("\n")
	b.WriteString(tui.TitleStyle.Render("Alerts"))
	b.WriteString("\n")
	if len(m.alerts) == 0 {
		b.WriteString(tui.DimStyle.Render("  No alerts."))
		b.WriteString("\n")
	} else {
		for i, alert := range m.alerts {
			icon := tui.IconAlert
			if alert.Status == "resolved" || alert.Status == emergency.StatusTest {
				icon = tui.IconDone
			}
			if i == m.cursor {
				b.WriteString(tui.SelectedStyle.Render("> "))
			} else {
				b.WriteString("  ")
			}
			b.WriteString(fmt.Sprintf("%s %s %s\n", icon, alert.Message, tui.DimStyle.Render(alert.Timestamp)))
		}
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(tui.SuccessStyle.Render(m.status))
		b.WriteString("\n")
	}
	if m.errText != "" {
		b.WriteString("\n")
		b.WriteString(tui.ErrorStyle.Render(m.errText))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(tui.DimStyle.Render("t: Trigger alert   s: Resolve   x: Test system   r: Refresh   Esc: Back"))

	return tui.BoxStyle.Render(b.String())
}

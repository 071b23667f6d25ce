package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/caremate-dev/caremate/internal/calls"
	"github.com/caremate-dev/caremate/internal/tui"
	"github.com/caremate-dev/caremate/internal/tui/commands"
)

// CallsModel is the view model for the call history feed.
type CallsModel struct {
	store   *calls.Store
	list    []calls.Call
	cursor  int
	loading bool
	errText string
	width   int
	height  int
}

// NewCallsModel creates the call history view.
func NewCallsModel(store *calls.Store, width, height int) CallsModel {
	return CallsModel{
		store:   store,
		list:    store.History(),
		loading: true,
		width:   width,
		height:  height,
	}
}

// Init triggers the initial history fetch.
func (m CallsModel) Init() tea.Cmd {
	return commands.FetchCallsCmd(m.store)
}

// Update handles messages for the call history view.
func (m CallsModel) Update(msg tea.Msg) (CallsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case tui.KeyUp, "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case tui.KeyDown, "j":
			if m.cursor < len(m.list)-1 {
				m.cursor++
			}
		case "r":
			m.loading = true
			return m, commands.FetchCallsCmd(m.store)
		case tui.KeyEsc:
			return m, func() tea.Msg { return tui.NavigateMsg{Name: "Dashboard"} }
		}

	case tui.CallsLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.errText = m.store.LastError()
			return m, nil
		}
		m.errText = ""
		m.list = msg.Calls
		if m.cursor >= len(m.list) && m.cursor > 0 {
			m.cursor = len(m.list) - 1
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

// View renders the call history view.
func (m CallsModel) View() string {
	var b strings.Builder

	b.WriteString(tui.TitleStyle.Render("Call History"))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(tui.DimStyle.Render("Loading calls..."))
		b.WriteString("\n")
	case len(m.list) == 0:
		b.WriteString(tui.DimStyle.Render("No calls yet. Start one with 'caremate calls start'."))
		b.WriteString("\n")
	default:
		for i, call := range m.list {
			peer := call.CalleeName
			if peer == "" {
				peer = call.CallerName
			}
			line := fmt.Sprintf("%-20s %-10s %s",
				peer, call.Status, tui.DimStyle.Render(call.StartTime))
			if i == m.cursor {
				b.WriteString(tui.SelectedStyle.Render("> "))
			} else {
				b.WriteString("  ")
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	if m.errText != "" {
		b.WriteString("\n")
		b.WriteString(tui.ErrorStyle.Render(m.errText))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(tui.DimStyle.Render("r: Refresh   Esc: Back"))

	return tui.BoxStyle.Render(b.String())
}

package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/caremate-dev/caremate/internal/calls"
	"github.com/caremate-dev/caremate/internal/tui"
	"github.com/caremate-dev/caremate/internal/tui/commands"
)

// CallModel is the view model for a single ringing or active call.
type CallModel struct {
	store   *calls.Store
	roomID  string
	errText string
	width   int
	height  int
}

// NewCallModel creates the call view for the given room.
func NewCallModel(store *calls.Store, roomID string, width, height int) CallModel {
	return CallModel{
		store:  store,
		roomID: roomID,
		width:  width,
		height: height,
	}
}

// Init returns the initial command for the call view.
func (m CallModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the call view.
func (m CallModel) Update(msg tea.Msg) (CallModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		phase, current := m.store.Current()
		switch phase {
		case calls.PhaseRinging:
			switch msg.String() {
			case "a":
				if current != nil {
					return m, commands.AcceptCallCmd(m.store, current.ID)
				}
			case "n", tui.KeyEsc:
				if current != nil {
					return m, commands.RejectCallCmd(m.store, current.ID)
				}
			}
		case calls.PhaseActive:
			switch msg.String() {
			case "h", tui.KeyEsc:
				return m, commands.EndCallCmd(m.store, m.roomID)
			}
		case calls.PhaseEnded:
			// Any key clears the ended call and returns to history.
			m.store.Acknowledge()
			return m, func() tea.Msg { return tui.NavigateMsg{Name: "Calls"} }
		default:
			if msg.String() == tui.KeyEsc {
				return m, func() tea.Msg { return tui.NavigateMsg{Name: "Calls"} }
			}
		}

	case tui.CallConnectedMsg:
		if msg.Err != nil {
			m.errText = m.store.LastError()
			return m, nil
		}
		m.errText = ""
		m.roomID = msg.Conn.RoomID
		return m, nil

	case tui.CallEndedMsg:
		if msg.Err != nil {
			m.errText = m.store.LastError()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

// View renders the call view.
func (m CallModel) View() string {
	var b strings.Builder

	phase, current := m.store.Current()

	b.WriteString(tui.TitleStyle.Render("Video Call"))
	b.WriteString("\n\n")

	peer := ""
	if current != nil {
		peer = current.CallerName
		if peer == "" {
			peer = current.CalleeName
		}
	}

	switch phase {
	case calls.PhaseRinging:
		b.WriteString(fmt.Sprintf("%s Incoming call from %s\n\n", tui.IconRinging, peer))
		b.WriteString(tui.DimStyle.Render("a: Accept   n: Reject"))
	case calls.PhaseActive:
		b.WriteString(tui.SuccessStyle.Render("Connected"))
		if peer != "" {
			b.WriteString(" with " + peer)
		}
		b.WriteString("\n")
		b.WriteString(tui.DimStyle.Render("Room: " + m.roomID))
		b.WriteString("\n\n")
		b.WriteString(tui.DimStyle.Render("h: Hang up"))
	case calls.PhaseEnded:
		b.WriteString("Call ended.\n\n")
		b.WriteString(tui.DimStyle.Render("Press any key to continue"))
	default:
		b.WriteString(tui.DimStyle.Render("No call in progress."))
		b.WriteString("\n\n")
		b.WriteString(tui.DimStyle.Render("Esc: Back"))
	}

	if m.errText != "" {
		b.WriteString("\n\n")
		b.WriteString(tui.ErrorStyle.Render(m.errText))
	}

	return tui.BoxStyle.Render(b.String())
}

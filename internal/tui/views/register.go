package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/caremate-dev/caremate/internal/session"
	"github.com/caremate-dev/caremate/internal/tui"
	"github.com/caremate-dev/caremate/internal/tui/commands"
)

// RegisterModel is the view model for the account-creation screen.
type RegisterModel struct {
	sess      *session.Store
	inputs    []textinput.Model
	focus     int
	caregiver bool
	busy      bool
	errText   string
	width     int
	height    int
}

// Field order in the registration form.
const (
	fieldName = iota
	fieldEmail
	fieldPhone
	fieldPassword
	fieldCount
)

// NewRegisterModel creates the account-creation view.
func NewRegisterModel(sess *session.Store, width, height int) RegisterModel {
	labels := []string{"name", "email", "phone", "password"}
	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		ti := textinput.New()
		ti.Placeholder = labels[i]
		ti.CharLimit = 120
		ti.Width = 40
		inputs[i] = ti
	}
	inputs[fieldPassword].EchoMode = textinput.EchoPassword
	inputs[fieldPassword].EchoCharacter = '*'
	inputs[fieldName].Focus()

	return RegisterModel{
		sess:   sess,
		inputs: inputs,
		width:  width,
		height: height,
	}
}

// Init returns the initial command for the register view.
func (m RegisterModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the register view.
func (m RegisterModel) Update(msg tea.Msg) (RegisterModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case tui.KeyTab:
			m.inputs[m.focus].Blur()
			m.focus = (m.focus + 1) % fieldCount
			m.inputs[m.focus].Focus()
			return m, nil

		case "ctrl+t":
			m.caregiver = !m.caregiver
			return m, nil

		case tui.KeyEnter:
			data := session.Registration{
				Name:     strings.TrimSpace(m.inputs[fieldName].Value()),
				Email:    strings.TrimSpace(m.inputs[fieldEmail].Value()),
				Phone:    strings.TrimSpace(m.inputs[fieldPhone].Value()),
				Password: m.inputs[fieldPassword].Value(),
				UserType: session.RoleClient,
			}
			if m.caregiver {
				data.UserType = session.RoleCaregiver
			}
			if data.Name == "" || data.Email == "" || data.Password == "" {
				m.errText = "Name, email and password are required"
				return m, nil
			}
			m.busy = true
			m.errText = ""
			return m, commands.RegisterCmd(m.sess, data)

		case tui.KeyEsc:
			return m, func() tea.Msg { return tui.NavigateMsg{Name: "Login"} }
		}

	case tui.RegisterResultMsg:
		m.busy = false
		if msg.Err != nil {
			m.errText = m.sess.LastError()
			return m, nil
		}
		// Registration does not sign the user in; send them to the login form.
		return m, tea.Batch(
			func() tea.Msg { return tui.NavigateMsg{Name: "Login"} },
			func() tea.Msg { return tui.StatusMsg{Text: "Account created. Sign in to continue."} },
		)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// View renders the register view.
func (m RegisterModel) View() string {
	var b strings.Builder

	b.WriteString(tui.TitleStyle.Render("CareMate - Create Account"))
	b.WriteString("\n\n")

	for i := range m.inputs {
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}

	accountType := "client"
	if m.caregiver {
		accountType = "caregiver"
	}
	b.WriteString(fmt.Sprintf("\nAccount type: %s\n\n", tui.SelectedStyle.Render(accountType)))

	if m.busy {
		b.WriteString(tui.DimStyle.Render("Creating account..."))
		b.WriteString("\n\n")
	}
	if m.errText != "" {
		b.WriteString(tui.ErrorStyle.Render(m.errText))
		b.WriteString("\n\n")
	}

	b.WriteString(tui.DimStyle.Render("Enter: Create   Tab: Next field   Ctrl+T: Toggle type   Esc: Back"))

	return tui.BoxStyle.Render(b.String())
}

// Package views provides TUI view components for the CareMate application.
package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/caremate-dev/caremate/internal/session"
	"github.com/caremate-dev/caremate/internal/tui"
	"github.com/caremate-dev/caremate/internal/tui/commands"
)

// LoginModel is the view model for the sign-in screen.
type LoginModel struct {
	sess     *session.Store
	email    textinput.Model
	password textinput.Model
	spin     spinner.Model
	focus    int
	busy     bool
	errText  string
	width    int
	height   int
}

// NewLoginModel creates the sign-in view.
func NewLoginModel(sess *session.Store, width, height int) LoginModel {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 120
	email.Width = 40
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 120
	password.Width = 40
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return LoginModel{
		sess:     sess,
		email:    email,
		password: password,
		spin:     spin,
		width:    width,
		height:   height,
	}
}

// Init returns the initial command for the login view.
func (m LoginModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the login view.
func (m LoginModel) Update(msg tea.Msg) (LoginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case tui.KeyTab:
			m.focus = (m.focus + 1) % 2
			if m.focus == 0 {
				m.email.Focus()
				m.password.Blur()
			} else {
				m.email.Blur()
				m.password.Focus()
			}
			return m, nil

		case tui.KeyEnter:
			email := strings.TrimSpace(m.email.Value())
			password := m.password.Value()
			if email == "" || password == "" {
				m.errText = "Email and password are required"
				return m, nil
			}
			m.busy = true
			m.errText = ""
			return m, tea.Batch(commands.LoginCmd(m.sess, email, password), m.spin.Tick)

		case "ctrl+n":
			return m, func() tea.Msg { return tui.NavigateMsg{Name: "Register"} }
		}

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tui.LoginResultMsg:
		m.busy = false
		if msg.Err != nil {
			m.errText = m.sess.LastError()
			return m, nil
		}
		return m, func() tea.Msg { return tui.NavigateMsg{Name: "Dashboard"} }

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	var cmd tea.Cmd
	if m.focus == 0 {
		m.email, cmd = m.email.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

// View renders the login view.
func (m LoginModel) View() string {
	var b strings.Builder

	b.WriteString(tui.TitleStyle.Render("CareMate - Sign In"))
	b.WriteString("\n\n")

	b.WriteString(m.email.View())
	b.WriteString("\n")
	b.WriteString(m.password.View())
	b.WriteString("\n\n")

	if m.busy {
		b.WriteString(m.spin.View())
		b.WriteString(tui.DimStyle.Render(" Signing in..."))
		b.WriteString("\n\n")
	}
	if m.errText != "" {
		b.WriteString(tui.ErrorStyle.Render(m.errText))
		b.WriteString("\n\n")
	}

	b.WriteString(tui.DimStyle.Render("Enter: Sign in   Tab: Next field   Ctrl+N: Create account"))

	return tui.BoxStyle.Render(b.String())
}

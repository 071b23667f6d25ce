// Package commands provides Bubble Tea commands for TUI operations.
package commands

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/caremate-dev/caremate/internal/session"
	"github.com/caremate-dev/caremate/internal/tui"
)

// LoginCmd signs in with the given credentials.
func LoginCmd(sess *session.Store, email, password string) tea.Cmd {
	return func() tea.Msg {
		user, err := sess.Login(context.Background(), session.Credentials{
			Email:    email,
			Password: password,
		})
		return tui.LoginResultMsg{User: user, Err: err}
	}
}

// RegisterCmd creates a new account. Registration does not start a session;
// the user signs in afterwards.
func RegisterCmd(sess *session.Store, data session.Registration) tea.Cmd {
	return func() tea.Msg {
		user, err := sess.Register(context.Background(), data)
		return tui.RegisterResultMsg{User: user, Err: err}
	}
}

// LogoutCmd clears the persisted session.
func LogoutCmd(sess *session.Store) tea.Cmd {
	return func() tea.Msg {
		if err := sess.Logout(); err != nil {
			return tui.ErrorMsg{Err: err}
		}
		return tui.LoggedOutMsg{}
	}
}

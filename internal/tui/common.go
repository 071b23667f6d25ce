// Package tui implements the terminal user interface using Bubble Tea.
package tui

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// Common key binding constants.
const (
	KeyCtrlC = "ctrl+c"
	KeyTab   = "tab"
	KeyEnter = "enter"
	KeyEsc   = "esc"
	KeyUp    = "up"
	KeyDown  = "down"
)

// IsTTY returns true if stdout is connected to a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// NewProgram creates the TUI program in alternate screen mode. The program is
// returned rather than run so callers can register external message sources
// (the HTTP client's unauthorized callback delivers SessionExpiredMsg through
// Program.Send) before starting it.
func NewProgram(m tea.Model) *tea.Program {
	return tea.NewProgram(m, tea.WithAltScreen())
}

// Run runs the program until it exits.
func Run(p *tea.Program) error {
	_, err := p.Run()
	return err
}

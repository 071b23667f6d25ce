package app

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/caremate-dev/caremate/internal/api"
	"github.com/caremate-dev/caremate/internal/calls"
	"github.com/caremate-dev/caremate/internal/config"
	"github.com/caremate-dev/caremate/internal/emergency"
	"github.com/caremate-dev/caremate/internal/health"
	"github.com/caremate-dev/caremate/internal/marketplace"
	"github.com/caremate-dev/caremate/internal/session"
	"github.com/caremate-dev/caremate/internal/tasks"
	"github.com/caremate-dev/caremate/internal/tui"
)

func newTestApp(t *testing.T) *App {
	t.Helper()

	sess, err := session.NewStore(filepath.Join(t.TempDir(), "session.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { sess.Close() })

	client := api.New("http://localhost:0", sess)
	sess.Bind(client)

	return New(config.DefaultConfig(), sess,
		tasks.NewStore(client), health.NewStore(client),
		emergency.NewStore(client), marketplace.NewStore(client),
		calls.NewStore(client))
}

func TestSessionExpiredNavigatesToLogin(t *testing.T) {
	a := newTestApp(t)
	a.route = "Tasks"

	model, _ := a.Update(tui.SessionExpiredMsg{})
	a = model.(*App)

	if a.route != "Login" {
		t.Fatalf("route = %q, want Login", a.route)
	}
	if a.status == "" {
		t.Fatal("expected a session-expired status message")
	}
	if !strings.Contains(a.View(), a.status) {
		t.Fatal("status message not rendered")
	}
}

func TestGuardedNavigateRedirectsToLogin(t *testing.T) {
	a := newTestApp(t)

	// No session: every protected destination lands on the login form.
	for _, name := range []string{"Dashboard", "Tasks", "Calls"} {
		a.navigate(name, "")
		if a.route != "Login" {
			t.Fatalf("navigate(%q): route = %q, want Login", name, a.route)
		}
	}
}

func TestStatusMessageClearedOnKeyPress(t *testing.T) {
	a := newTestApp(t)
	a.navigate("Login", "")

	model, _ := a.Update(tui.StatusMsg{Text: "Account created. Sign in to continue."})
	a = model.(*App)
	if a.status == "" {
		t.Fatal("status not recorded")
	}

	model, _ = a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	a = model.(*App)
	if a.status != "" {
		t.Fatalf("status = %q, want cleared after key press", a.status)
	}
}

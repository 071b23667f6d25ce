// app.go wires the session, API client and resource stores together once at
// process start. Commands share one App instance.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caremate-dev/caremate/internal/api"
	"github.com/caremate-dev/caremate/internal/calls"
	"github.com/caremate-dev/caremate/internal/config"
	"github.com/caremate-dev/caremate/internal/emergency"
	"github.com/caremate-dev/caremate/internal/health"
	"github.com/caremate-dev/caremate/internal/log"
	"github.com/caremate-dev/caremate/internal/marketplace"
	"github.com/caremate-dev/caremate/internal/router"
	"github.com/caremate-dev/caremate/internal/session"
	"github.com/caremate-dev/caremate/internal/tasks"
)

// App holds the wired client-side state for one process.
type App struct {
	Cfg         *config.Config
	Events      *log.Logger
	Session     *session.Store
	API         *api.Client
	Tasks       *tasks.Store
	Health      *health.Store
	Emergency   *emergency.Store
	Marketplace *marketplace.Store
	Calls       *calls.Store
}

// newApp constructs the session store, API client and resource stores.
// The session is loaded from ~/.caremate/session.db so a previous login
// survives restarts.
func newApp() (*App, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolving home directory: %w", err)
	}

	cfg := config.Load()

	dir, err := config.Dir(home)
	if err != nil {
		return nil, err
	}

	events, err := log.NewLogger(home)
	if err != nil {
		return nil, err
	}

	sess, err := session.NewStore(filepath.Join(dir, "session.db"))
	if err != nil {
		return nil, fmt.Errorf("opening session store: %w", err)
	}

	client := api.New(cfg.API.BaseURL, sess)
	client.SetEventLog(events)
	client.OnUnauthorized(func() {
		fmt.Fprintln(os.Stderr, "Session expired. Run 'caremate login' to sign in again.")
	})
	sess.Bind(client)

	app := &App{
		Cfg:         cfg,
		Events:      events,
		Session:     sess,
		API:         client,
		Tasks:       tasks.NewStore(client),
		Health:      health.NewStore(client),
		Emergency:   emergency.NewStore(client),
		Marketplace: marketplace.NewStore(client),
		Calls:       calls.NewStore(client),
	}
	app.Tasks.SetEventLog(events)
	app.Health.SetEventLog(events)
	app.Emergency.SetEventLog(events)
	app.Marketplace.SetEventLog(events)
	app.Calls.SetEventLog(events)

	return app, nil
}

// Close releases the session store.
func (a *App) Close() {
	_ = a.Session.Close()
}

// requireRoute runs the navigation guard for the named route before a gated
// command executes, mirroring what the TUI does on view switches.
func (a *App) requireRoute(name string) error {
	route, ok := router.ByName(name)
	if !ok {
		return fmt.Errorf("unknown destination %q", name)
	}
	switch router.Resolve(route, a.Session) {
	case router.RedirectLogin:
		return fmt.Errorf("not signed in; run: caremate login")
	case router.RedirectDashboard:
		return fmt.Errorf("a caregiver account is required for this command")
	default:
		return nil
	}
}

// Package app provides the main TUI application that wires all views together.
package app

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/caremate-dev/caremate/internal/calls"
	"github.com/caremate-dev/caremate/internal/config"
	"github.com/caremate-dev/caremate/internal/emergency"
	"github.com/caremate-dev/caremate/internal/health"
	"github.com/caremate-dev/caremate/internal/marketplace"
	"github.com/caremate-dev/caremate/internal/router"
	"github.com/caremate-dev/caremate/internal/session"
	"github.com/caremate-dev/caremate/internal/tasks"
	"github.com/caremate-dev/caremate/internal/tui"
	"github.com/caremate-dev/caremate/internal/tui/views"
)

// App is the main TUI application. It owns navigation: every view switch is
// resolved through the route guard before the target view is constructed.
type App struct {
	cfg  *config.Config
	sess *session.Store

	tasksStore  *tasks.Store
	healthStore *health.Store
	emergStore  *emergency.Store
	marketStore *marketplace.Store
	callStore   *calls.Store

	route        string
	width        int
	height       int
	ctrlCPending bool
	status       string

	// View models
	loginView     views.LoginModel
	registerView  views.RegisterModel
	dashboardView views.DashboardModel
	tasksView     views.TasksModel
	healthView    views.HealthModel
	emergencyView views.EmergencyModel
	marketView    views.MarketplaceModel
	profileView   views.ProfileModel
	callsView     views.CallsModel
	callView      views.CallModel
}

// New creates the TUI application with the wired stores.
func New(cfg *config.Config, sess *session.Store, taskStore *tasks.Store,
	healthStore *health.Store, emergStore *emergency.Store,
	marketStore *marketplace.Store, callStore *calls.Store) *App {
	return &App{
		cfg:         cfg,
		sess:        sess,
		tasksStore:  taskStore,
		healthStore: healthStore,
		emergStore:  emergStore,
		marketStore: marketStore,
		callStore:   callStore,
		route:       "Home",
		width:       80,
		height:      24,
	}
}

// Init resolves the starting destination: the dashboard for a persisted
// session, the login form otherwise.
func (a *App) Init() tea.Cmd {
	return a.navigate("Dashboard", "")
}

// Update handles messages and updates the application state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Fall through to the active view so it can re-measure.

	case tea.KeyMsg:
		a.status = ""
		if key.Matches(msg, tui.DefaultKeyMap.CtrlC) {
			if a.ctrlCPending {
				return a, tea.Quit
			}
			a.ctrlCPending = true
			return a, tea.Tick(time.Second, func(time.Time) tea.Msg {
				return tui.CtrlCResetMsg{}
			})
		}

	case tui.CtrlCResetMsg:
		a.ctrlCPending = false
		return a, nil

	case tui.NavigateMsg:
		return a, a.navigate(msg.Name, msg.RoomID)

	case tui.LoggedOutMsg:
		a.status = "Signed out."
		return a, a.navigate("Login", "")

	case tui.SessionExpiredMsg:
		a.status = "Session expired. Please sign in again."
		return a, a.navigate("Login", "")

	case tui.StatusMsg:
		a.status = msg.Text
		return a, nil

	case tui.IncomingCallMsg:
		if err := a.callStore.HandleIncoming(msg.Call); err != nil {
			// Already on a call; the ringing call is ignored.
			return a, nil
		}
		return a, a.navigate("VideoCall", msg.Call.RoomID)

	case tui.CallConnectedMsg:
		// An accepted or initiated call lands on the call screen.
		if msg.Err == nil && a.route != "VideoCall" {
			cmd := a.navigate("VideoCall", msg.Conn.RoomID)
			return a, cmd
		}
	}

	return a.updateActive(msg)
}

// updateActive routes a message to the view for the current route.
func (a *App) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.route {
	case "Login":
		a.loginView, cmd = a.loginView.Update(msg)
	case "Register":
		a.registerView, cmd = a.registerView.Update(msg)
	case "Dashboard":
		a.dashboardView, cmd = a.dashboardView.Update(msg)
	case "Tasks":
		a.tasksView, cmd = a.tasksView.Update(msg)
	case "Health":
		a.healthView, cmd = a.healthView.Update(msg)
	case "Emergency":
		a.emergencyView, cmd = a.emergencyView.Update(msg)
	case "Marketplace":
		a.marketView, cmd = a.marketView.Update(msg)
	case "CaregiverProfile":
		a.profileView, cmd = a.profileView.Update(msg)
	case "Calls":
		a.callsView, cmd = a.callsView.Update(msg)
	case "VideoCall":
		a.callView, cmd = a.callView.Update(msg)
	}
	return a, cmd
}

// navigate evaluates the guard for the named destination, follows any
// redirect, constructs the target view and returns its Init command.
func (a *App) navigate(name, roomID string) tea.Cmd {
	route, ok := router.ByName(name)
	if !ok {
		return nil
	}

	switch router.Resolve(route, a.sess) {
	case router.RedirectLogin:
		route, _ = router.ByName("Login")
	case router.RedirectDashboard:
		route, _ = router.ByName("Dashboard")
	}

	// Home resolves to the dashboard once signed in.
	if route.Name == "Home" {
		route, _ = router.ByName("Dashboard")
		if !a.sess.Authenticated() {
			route, _ = router.ByName("Login")
		}
	}

	a.route = route.Name
	switch route.Name {
	case "Login":
		a.loginView = views.NewLoginModel(a.sess, a.width, a.height)
		return a.loginView.Init()
	case "Register":
		a.registerView = views.NewRegisterModel(a.sess, a.width, a.height)
		return a.registerView.Init()
	case "Dashboard":
		a.dashboardView = views.NewDashboardModel(a.sess, a.width, a.height)
		return a.dashboardView.Init()
	case "Tasks":
		a.tasksView = views.NewTasksModel(a.tasksStore, a.width, a.height)
		return a.tasksView.Init()
	case "Health":
		a.healthView = views.NewHealthModel(a.healthStore, a.width, a.height)
		return a.healthView.Init()
	case "Emergency":
		a.emergencyView = views.NewEmergencyModel(a.emergStore, a.width, a.height)
		return a.emergencyView.Init()
	case "Marketplace":
		a.marketView = views.NewMarketplaceModel(a.marketStore, a.width, a.height)
		return a.marketView.Init()
	case "CaregiverProfile":
		a.profileView = views.NewProfileModel(a.marketStore, a.width, a.height)
		return a.profileView.Init()
	case "Calls":
		a.callsView = views.NewCallsModel(a.callStore, a.width, a.height)
		return a.callsView.Init()
	case "VideoCall":
		a.callView = views.NewCallModel(a.callStore, roomID, a.width, a.height)
		return a.callView.Init()
	}
	return nil
}

// View renders the active view centered in the terminal.
func (a *App) View() string {
	var content string
	switch a.route {
	case "Login":
		content = a.loginView.View()
	case "Register":
		content = a.registerView.View()
	case "Dashboard":
		content = a.dashboardView.View()
	case "Tasks":
		content = a.tasksView.View()
	case "Health":
		content = a.healthView.View()
	case "Emergency":
		content = a.emergencyView.View()
	case "Marketplace":
		content = a.marketView.View()
	case "CaregiverProfile":
		content = a.profileView.View()
	case "Calls":
		content = a.callsView.View()
	case "VideoCall":
		content = a.callView.View()
	default:
		content = "Unknown destination"
	}

	if a.status != "" {
		content = lipgloss.JoinVertical(lipgloss.Center, content, "",
			tui.StatusBarStyle.Render(a.status))
	}
	if a.ctrlCPending {
		hint := tui.WarningStyle.Render("Press Ctrl+C again to exit")
		content = lipgloss.JoinVertical(lipgloss.Center, content, "", hint)
	}

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, content)
}

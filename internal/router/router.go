// Package router defines the navigation surface and the auth/role guard
// evaluated before every view switch.
package router

import "strings"

// Route is one navigable destination with its guard metadata.
type Route struct {
	Path              string
	Name              string
	RequiresAuth      bool
	RequiresCaregiver bool
}

// The navigation surface. Paths mirror the product's canonical URLs even
// though the terminal client navigates by name.
var Routes = []Route{
	{Path: "/", Name: "Home"},
	{Path: "/login", Name: "Login"},
	{Path: "/register", Name: "Register"},
	{Path: "/dashboard", Name: "Dashboard", RequiresAuth: true},
	{Path: "/health", Name: "Health", RequiresAuth: true},
	{Path: "/tasks", Name: "Tasks", RequiresAuth: true},
	{Path: "/emergency", Name: "Emergency", RequiresAuth: true},
	{Path: "/marketplace", Name: "Marketplace", RequiresAuth: true},
	{Path: "/marketplace/profile", Name: "CaregiverProfile", RequiresAuth: true, RequiresCaregiver: true},
	{Path: "/calls", Name: "Calls", RequiresAuth: true},
	{Path: "/call/:roomId", Name: "VideoCall", RequiresAuth: true},
}

// Decision is the guard's verdict for a navigation attempt.
type Decision int

const (
	Allow Decision = iota
	RedirectLogin
	RedirectDashboard
)

// Session is the slice of session state the guard consults.
type Session interface {
	Authenticated() bool
	Role() string
}

// Resolve evaluates the guard for a destination: unauthenticated users are
// sent to login for auth-gated routes, non-caregivers to the dashboard for
// caregiver-gated ones. Evaluated synchronously before the navigation
// resolves.
func Resolve(route Route, sess Session) Decision {
	if route.RequiresAuth && !sess.Authenticated() {
		return RedirectLogin
	}
	if route.RequiresCaregiver && sess.Role() != "caregiver" {
		return RedirectDashboard
	}
	return Allow
}

// ByName looks a route up by its name.
func ByName(name string) (Route, bool) {
	for _, r := range Routes {
		if r.Name == name {
			return r, true
		}
	}
	return Route{}, false
}

// ByPath looks a route up by path. Parameterized segments (":roomId") match
// any non-empty value.
func ByPath(path string) (Route, bool) {
	for _, r := range Routes {
		if matchPath(r.Path, path) {
			return r, true
		}
	}
	return Route{}, false
}

func matchPath(pattern, path string) bool {
	if pattern == path {
		return true
	}
	pp := strings.Split(pattern, "/")
	sp := strings.Split(path, "/")
	if len(pp) != len(sp) {
		return false
	}
	for i := range pp {
		if strings.HasPrefix(pp[i], ":") {
			if sp[i] == "" {
				return false
			}
			continue
		}
		if pp[i] != sp[i] {
			return false
		}
	}
	return true
}

// Package tui implements the terminal user interface using Bubble Tea.
package tui

import (
	"github.com/caremate-dev/caremate/internal/calls"
	"github.com/caremate-dev/caremate/internal/emergency"
	"github.com/caremate-dev/caremate/internal/health"
	"github.com/caremate-dev/caremate/internal/marketplace"
	"github.com/caremate-dev/caremate/internal/session"
	"github.com/caremate-dev/caremate/internal/tasks"
)

// ============================================================================
// Navigation Messages
// ============================================================================

// NavigateMsg requests a switch to the named destination. The guard is
// evaluated by the app before the switch resolves; RoomID is carried for the
// video-call destination only.
type NavigateMsg struct {
	Name   string
	RoomID string
}

// CtrlCResetMsg clears the two-press exit confirmation after its timeout.
type CtrlCResetMsg struct{}

// ============================================================================
// Session Messages
// ============================================================================

// LoginResultMsg carries the outcome of a sign-in attempt.
type LoginResultMsg struct {
	User *session.User
	Err  error
}

// RegisterResultMsg carries the outcome of an account creation attempt.
type RegisterResultMsg struct {
	User *session.User
	Err  error
}

// LoggedOutMsg signals that the local session has been cleared.
type LoggedOutMsg struct{}

// SessionExpiredMsg signals that the server rejected the bearer token mid
// session. The persisted credentials are already gone by the time this
// arrives; the app navigates back to the login view.
type SessionExpiredMsg struct{}

// ============================================================================
// Resource Load Messages
// ============================================================================

// TasksLoadedMsg carries a refreshed task list.
type TasksLoadedMsg struct {
	Tasks []tasks.Task
	Err   error
}

// TaskSavedMsg signals that a task mutation (complete, delete) finished.
type TaskSavedMsg struct {
	Err error
}

// MetricsLoadedMsg carries a refreshed health metric list.
type MetricsLoadedMsg struct {
	Metrics []health.Metric
	Err     error
}

// SummariesLoadedMsg carries per-type health summaries.
type SummariesLoadedMsg struct {
	Summaries []health.Summary
	Err       error
}

// HealthAlertsLoadedMsg carries threshold alerts derived from recent metrics.
type HealthAlertsLoadedMsg struct {
	Alerts []health.Alert
	Err    error
}

// ContactsLoadedMsg carries the emergency contact list.
type ContactsLoadedMsg struct {
	Contacts []emergency.Contact
	Err      error
}

// AlertsLoadedMsg carries the emergency alert feed.
type AlertsLoadedMsg struct {
	Alerts []emergency.Alert
	Err    error
}

// AlertTriggeredMsg signals that a new emergency alert was raised.
type AlertTriggeredMsg struct {
	Alert *emergency.Alert
	Err   error
}

// AlertResolvedMsg signals that an alert resolution finished.
type AlertResolvedMsg struct {
	Err error
}

// SystemTestedMsg carries the result of an emergency system test.
type SystemTestedMsg struct {
	Result *emergency.TestResult
	Err    error
}

// CaregiversLoadedMsg carries the marketplace caregiver list.
type CaregiversLoadedMsg struct {
	Caregivers []marketplace.Caregiver
	Err        error
}

// ProfileLoadedMsg carries the signed-in caregiver's own profile.
type ProfileLoadedMsg struct {
	Profile *marketplace.Profile
	Err     error
}

// StatsLoadedMsg carries the caregiver's profile statistics.
type StatsLoadedMsg struct {
	Stats *marketplace.Stats
	Err   error
}

// ============================================================================
// Call Messages
// ============================================================================

// CallsLoadedMsg carries the call history feed.
type CallsLoadedMsg struct {
	Calls []calls.Call
	Err   error
}

// CallConnectedMsg signals that a call entered the active phase.
type CallConnectedMsg struct {
	Conn *calls.Connection
	Err  error
}

// CallEndedMsg signals that the current call finished.
type CallEndedMsg struct {
	Err error
}

// IncomingCallMsg announces a ringing inbound call.
type IncomingCallMsg struct {
	Call calls.Call
}

// ============================================================================
// Utility Messages
// ============================================================================

// StatusMsg sets a transient status line in the active view.
type StatusMsg struct {
	Text string
}

// ErrorMsg is a generic error message for unrecoverable errors.
type ErrorMsg struct {
	Err error
}

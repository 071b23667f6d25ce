package commands

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/caremate-dev/caremate/internal/api"
	"github.com/caremate-dev/caremate/internal/emergency"
	"github.com/caremate-dev/caremate/internal/health"
	"github.com/caremate-dev/caremate/internal/marketplace"
	"github.com/caremate-dev/caremate/internal/tasks"
	"github.com/caremate-dev/caremate/internal/tui"
)

// ============================================================================
// Tasks
// ============================================================================

// FetchTasksCmd refreshes the task list from the server.
func FetchTasksCmd(store *tasks.Store) tea.Cmd {
	return func() tea.Msg {
		list, err := store.Fetch(context.Background())
		return tui.TasksLoadedMsg{Tasks: list, Err: err}
	}
}

// CompleteTaskCmd marks the task with the given id as completed.
func CompleteTaskCmd(store *tasks.Store, id api.ID) tea.Cmd {
	return func() tea.Msg {
		done := true
		_, err := store.Update(context.Background(), id, tasks.UpdateRequest{IsCompleted: &done})
		return tui.TaskSavedMsg{Err: err}
	}
}

// DeleteTaskCmd removes the task with the given id.
func DeleteTaskCmd(store *tasks.Store, id api.ID) tea.Cmd {
	return func() tea.Msg {
		err := store.Delete(context.Background(), id)
		return tui.TaskSavedMsg{Err: err}
	}
}

// ============================================================================
// Health
// ============================================================================

// FetchMetricsCmd refreshes the health metric feed.
func FetchMetricsCmd(store *health.Store) tea.Cmd {
	return func() tea.Msg {
		list, err := store.Fetch(context.Background())
		return tui.MetricsLoadedMsg{Metrics: list, Err: err}
	}
}

// FetchSummariesCmd loads per-type summaries over the given window.
func FetchSummariesCmd(store *health.Store, days int) tea.Cmd {
	return func() tea.Msg {
		list, err := store.Summaries(context.Background(), days)
		return tui.SummariesLoadedMsg{Summaries: list, Err: err}
	}
}

// FetchHealthAlertsCmd loads threshold alerts derived from recent metrics.
func FetchHealthAlertsCmd(store *health.Store) tea.Cmd {
	return func() tea.Msg {
		list, err := store.Alerts(context.Background())
		return tui.HealthAlertsLoadedMsg{Alerts: list, Err: err}
	}
}

// ============================================================================
// Emergency
// ============================================================================

// FetchContactsCmd refreshes the emergency contact list.
func FetchContactsCmd(store *emergency.Store) tea.Cmd {
	return func() tea.Msg {
		list, err := store.FetchContacts(context.Background())
		return tui.ContactsLoadedMsg{Contacts: list, Err: err}
	}
}

// FetchAlertsCmd refreshes the emergency alert feed.
func FetchAlertsCmd(store *emergency.Store) tea.Cmd {
	return func() tea.Msg {
		list, err := store.FetchAlerts(context.Background())
		return tui.AlertsLoadedMsg{Alerts: list, Err: err}
	}
}

// TriggerAlertCmd raises a new emergency alert.
func TriggerAlertCmd(store *emergency.Store, message string) tea.Cmd {
	return func() tea.Msg {
		alert, err := store.Trigger(context.Background(), emergency.TriggerRequest{Message: message})
		return tui.AlertTriggeredMsg{Alert: alert, Err: err}
	}
}

// ResolveAlertCmd marks the alert with the given id resolved.
func ResolveAlertCmd(store *emergency.Store, id api.ID) tea.Cmd {
	return func() tea.Msg {
		_, err := store.Resolve(context.Background(), id)
		return tui.AlertResolvedMsg{Err: err}
	}
}

// TestSystemCmd runs the emergency notification test.
func TestSystemCmd(store *emergency.Store) tea.Cmd {
	return func() tea.Msg {
		result, err := store.Test(context.Background())
		return tui.SystemTestedMsg{Result: result, Err: err}
	}
}

// ============================================================================
// Marketplace
// ============================================================================

// FetchCaregiversCmd refreshes the caregiver listing.
func FetchCaregiversCmd(store *marketplace.Store) tea.Cmd {
	return func() tea.Msg {
		list, err := store.FetchCaregivers(context.Background())
		return tui.CaregiversLoadedMsg{Caregivers: list, Err: err}
	}
}

// FetchProfileCmd loads the signed-in caregiver's own profile.
func FetchProfileCmd(store *marketplace.Store) tea.Cmd {
	return func() tea.Msg {
		profile, err := store.FetchProfile(context.Background())
		return tui.ProfileLoadedMsg{Profile: profile, Err: err}
	}
}

// FetchStatsCmd loads the caregiver's profile statistics.
func FetchStatsCmd(store *marketplace.Store) tea.Cmd {
	return func() tea.Msg {
		stats, err := store.FetchStats(context.Background())
		return tui.StatsLoadedMsg{Stats: stats, Err: err}
	}
}

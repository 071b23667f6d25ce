package commands

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/caremate-dev/caremate/internal/api"
	"github.com/caremate-dev/caremate/internal/calls"
	"github.com/caremate-dev/caremate/internal/tui"
)

// FetchCallsCmd refreshes the call history feed.
func FetchCallsCmd(store *calls.Store) tea.Cmd {
	return func() tea.Msg {
		list, err := store.FetchHistory(context.Background())
		return tui.CallsLoadedMsg{Calls: list, Err: err}
	}
}

// StartCallCmd initiates an outbound call to the given callee.
func StartCallCmd(store *calls.Store, calleeID api.ID) tea.Cmd {
	return func() tea.Msg {
		conn, err := store.Initiate(context.Background(), calleeID)
		return tui.CallConnectedMsg{Conn: conn, Err: err}
	}
}

// AcceptCallCmd answers the ringing call with the given id.
func AcceptCallCmd(store *calls.Store, id api.ID) tea.Cmd {
	return func() tea.Msg {
		conn, err := store.Accept(context.Background(), id)
		return tui.CallConnectedMsg{Conn: conn, Err: err}
	}
}

// RejectCallCmd dismisses the ringing call with the given id.
func RejectCallCmd(store *calls.Store, id api.ID) tea.Cmd {
	return func() tea.Msg {
		err := store.Reject(context.Background(), id)
		return tui.CallEndedMsg{Err: err}
	}
}

// EndCallCmd hangs up the call in the given room.
func EndCallCmd(store *calls.Store, roomID string) tea.Cmd {
	return func() tea.Msg {
		err := store.End(context.Background(), roomID)
		return tui.CallEndedMsg{Err: err}
	}
}

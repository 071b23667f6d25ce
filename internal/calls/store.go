package calls

import (
	"context"
	"sync"

	"github.com/caremate-dev/caremate/internal/api"
	"github.com/caremate-dev/caremate/internal/log"
)

// Call statuses as the backend reports them in history.
const (
	StatusInitiated = "initiated"
	StatusActive    = "active"
	StatusMissed    = "missed"
	StatusEnded     = "ended"
)

// Call is one call record.
type Call struct {
	ID         api.ID `json:"id"`
	RoomID     string `json:"room_id"`
	CallerID   api.ID `json:"caller_id,omitempty"`
	CalleeID   api.ID `json:"callee_id,omitempty"`
	CallerName string `json:"caller_name,omitempty"`
	CalleeName string `json:"callee_name,omitempty"`
	StartTime  string `json:"start_time,omitempty"`
	EndTime    string `json:"end_time,omitempty"`
	Status     string `json:"status"`
}

// historyResponse is the paginated shape of GET /calls/history.
type historyResponse struct {
	TotalCalls  int    `json:"total_calls"`
	CurrentPage int    `json:"current_page"`
	TotalPages  int    `json:"total_pages"`
	Calls       []Call `json:"calls"`
}

// Connection tells the surface where to go after a call connects.
type Connection struct {
	RoomID    string
	Initiator bool
}

// Store holds the call history feed and the current call's state machine.
type Store struct {
	client *api.Client
	state  machine

	mu       sync.Mutex
	history  []Call
	loading  bool
	lastErr  string
	fetchSeq uint64
	events   *log.Logger
}

// NewStore creates a calls store backed by the given API client.
func NewStore(client *api.Client) *Store {
	return &Store{client: client}
}

// SetEventLog attaches an event logger for call lifecycle events.
func (s *Store) SetEventLog(events *log.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = events
}

func (s *Store) logEvent(event, roomID string) {
	s.mu.Lock()
	events := s.events
	s.mu.Unlock()
	if events == nil {
		return
	}
	_ = events.Append(log.LogEvent{Event: event, RoomID: roomID})
}

// FetchHistory replaces the local history feed wholesale (newest first, as
// the backend orders it). Stale responses are discarded.
func (s *Store) FetchHistory(ctx context.Context) ([]Call, error) {
	s.mu.Lock()
	s.loading = true
	s.lastErr = ""
	s.fetchSeq++
	seq := s.fetchSeq
	s.mu.Unlock()

	var resp historyResponse
	err := s.client.Get(ctx, "/calls/history", &resp)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.lastErr = api.MessageOr(err, "Failed to fetch call history")
		return nil, err
	}
	if seq == s.fetchSeq {
		s.history = resp.Calls
	} else if s.events != nil {
		// s.mu is held here, so logEvent (which locks it) cannot be used.
		_ = s.events.Append(log.LogEvent{Event: log.EventStaleFetchDropped, Resource: "calls"})
	}
	return resp.Calls, nil
}

// Initiate starts an outgoing call: the new call becomes active, is prepended
// to history, and the returned Connection carries the room to navigate to.
func (s *Store) Initiate(ctx context.Context, calleeID api.ID) (*Connection, error) {
	var call Call
	body := map[string]api.ID{"callee_id": calleeID}
	if err := s.client.Post(ctx, "/calls/start", body, &call); err != nil {
		s.mu.Lock()
		s.lastErr = api.MessageOr(err, "Failed to start call")
		s.mu.Unlock()
		return nil, err
	}

	if err := s.state.dial(&call); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.history = append([]Call{call}, s.history...)
	s.mu.Unlock()

	s.logEvent(log.EventCallStarted, call.RoomID)
	return &Connection{RoomID: call.RoomID, Initiator: true}, nil
}

// HandleIncoming records an incoming call announced by the signaling
// transport (an external collaborator; no subscription lives here). Returns
// ErrBusy when a call is already ringing or active.
func (s *Store) HandleIncoming(call Call) error {
	return s.state.ring(&call)
}

// Accept answers the ringing call: its history status becomes "active", it
// becomes the current active call, and the Connection points at its room.
func (s *Store) Accept(ctx context.Context, id api.ID) (*Connection, error) {
	var call Call
	if err := s.client.Post(ctx, "/calls/"+id.String()+"/accept", nil, &call); err != nil {
		s.mu.Lock()
		s.lastErr = api.MessageOr(err, "Failed to accept call")
		s.mu.Unlock()
		return nil, err
	}

	if err := s.state.answer(&call); err != nil {
		return nil, err
	}

	s.setHistoryStatus(id, StatusActive)
	s.logEvent(log.EventCallAccepted, call.RoomID)
	return &Connection{RoomID: call.RoomID, Initiator: false}, nil
}

// Reject declines the ringing call and marks it missed in history.
func (s *Store) Reject(ctx context.Context, id api.ID) error {
	if err := s.client.Post(ctx, "/calls/"+id.String()+"/reject", nil, nil); err != nil {
		s.mu.Lock()
		s.lastErr = api.MessageOr(err, "Failed to reject call")
		s.mu.Unlock()
		return err
	}

	if err := s.state.dismiss(); err != nil {
		return err
	}

	s.setHistoryStatus(id, StatusMissed)
	s.logEvent(log.EventCallRejected, "")
	return nil
}

// End hangs up the active call and marks it ended in history.
func (s *Store) End(ctx context.Context, roomID string) error {
	var call Call
	if err := s.client.Post(ctx, "/calls/"+roomID+"/end", nil, &call); err != nil {
		s.mu.Lock()
		s.lastErr = api.MessageOr(err, "Failed to end call")
		s.mu.Unlock()
		return err
	}

	if err := s.state.hangup(); err != nil {
		return err
	}

	s.setHistoryStatus(call.ID, StatusEnded)
	s.logEvent(log.EventCallEnded, roomID)
	return nil
}

// Acknowledge moves an ended call back to idle once the surface has shown
// the call summary and left the call view.
func (s *Store) Acknowledge() {
	s.state.reset()
}

// setHistoryStatus updates the status of the matching history entry in place.
// A missing id is a silent no-op.
func (s *Store) setHistoryStatus(id api.ID, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.history {
		if s.history[i].ID == id {
			s.history[i].Status = status
			break
		}
	}
}

// Current returns the phase and the current call (nil when idle).
func (s *Store) Current() (Phase, *Call) {
	return s.state.snapshot()
}

// HasActiveCall reports whether a call is connected right now.
func (s *Store) HasActiveCall() bool {
	phase, _ := s.state.snapshot()
	return phase == PhaseActive
}

// HasIncomingCall reports whether a call is ringing.
func (s *Store) HasIncomingCall() bool {
	phase, _ := s.state.snapshot()
	return phase == PhaseRinging
}

// History returns a copy of the local history feed.
func (s *Store) History() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.history))
	copy(out, s.history)
	return out
}

// Loading reports whether a fetch is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// LastError returns the most recent failure message, empty after a success.
func (s *Store) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

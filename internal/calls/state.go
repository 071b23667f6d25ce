// Package calls mirrors the /calls resource and tracks the single current
// call through an explicit state machine.
package calls

import (
	"fmt"
	"sync"
)

// Phase is the lifecycle position of the current call. Exactly one call (or
// none) exists at a time; the phase plus its call replace the pair of
// independent nullable "incoming"/"active" slots that would otherwise allow
// impossible combinations.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRinging
	PhaseActive
	PhaseEnded
)

// String returns the lowercase phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRinging:
		return "ringing"
	case PhaseActive:
		return "active"
	case PhaseEnded:
		return "ended"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// ErrBusy is returned when an incoming call arrives while another call is
// ringing or active. Policy: the second call is refused locally.
var ErrBusy = fmt.Errorf("calls: busy with another call")

// machine guards phase transitions. Invalid transitions return errors instead
// of silently producing contradictory state.
type machine struct {
	mu      sync.Mutex
	phase   Phase
	current *Call
}

// ring moves Idle -> Ringing for an incoming call.
func (m *machine) ring(c *Call) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase == PhaseRinging || m.phase == PhaseActive {
		return ErrBusy
	}
	m.phase = PhaseRinging
	m.current = c
	return nil
}

// dial moves Idle -> Active for an outgoing call.
func (m *machine) dial(c *Call) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch m.phase {
	case PhaseIdle, PhaseEnded:
		m.phase = PhaseActive
		m.current = c
		return nil
	case PhaseRinging, PhaseActive:
		return ErrBusy
	default:
		return fmt.Errorf("calls: cannot dial while %s", m.phase)
	}
}

// answer moves Ringing -> Active when the incoming call is accepted. A fresh
// process has no ringing state (call state is not persisted), so answering
// from Idle is also legal: the server already confirmed the call exists.
func (m *machine) answer(c *Call) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase == PhaseActive {
		return fmt.Errorf("calls: cannot accept while %s", m.phase)
	}
	m.phase = PhaseActive
	m.current = c
	return nil
}

// dismiss moves Ringing -> Idle (reject). Rejecting from Idle is a no-op for
// the same cold-start reason as answer.
func (m *machine) dismiss() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase == PhaseActive {
		return fmt.Errorf("calls: cannot reject while %s", m.phase)
	}
	m.phase = PhaseIdle
	m.current = nil
	return nil
}

// hangup moves Active -> Ended. Hanging up from Idle is allowed so a fresh
// process can end a call the server still considers open.
func (m *machine) hangup() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase == PhaseRinging {
		return fmt.Errorf("calls: cannot end while %s", m.phase)
	}
	m.phase = PhaseEnded
	return nil
}

// reset moves Ended -> Idle once the surface has acknowledged the call.
func (m *machine) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase == PhaseEnded {
		m.phase = PhaseIdle
		m.current = nil
	}
}

// snapshot returns the phase and a copy of the current call.
func (m *machine) snapshot() (Phase, *Call) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return m.phase, nil
	}
	c := *m.current
	return m.phase, &c
}

// Package emergency mirrors the /emergency resource: the contact roster and
// the alert feed.
package emergency

import (
	"context"
	"sync"

	"github.com/caremate-dev/caremate/internal/api"
	"github.com/caremate-dev/caremate/internal/log"
)

// Alert statuses used locally. The backend reports its own statuses for real
// alerts; "test" marks alerts produced by the system test endpoint.
const StatusTest = "test"

// Contact is one entry on the emergency contact roster.
type Contact struct {
	ID           api.ID `json:"id"`
	Name         string `json:"name"`
	ContactUser  string `json:"contact_user,omitempty"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship"`
}

// AddContactRequest is the body for adding a contact.
type AddContactRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship"`
}

// addContactResponse wraps the created contact.
type addContactResponse struct {
	Message string  `json:"message"`
	Contact Contact `json:"contact"`
}

// Alert is a triggered (or test) emergency alert.
type Alert struct {
	ID        api.ID `json:"id,omitempty"`
	Type      string `json:"type,omitempty"`
	Message   string `json:"message"`
	Location  string `json:"location,omitempty"`
	Status    string `json:"status,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// TriggerRequest is the body for raising an alert.
type TriggerRequest struct {
	Message  string `json:"message,omitempty"`
	Location string `json:"location,omitempty"`
}

// triggerResponse wraps the alert the backend assembled.
type triggerResponse struct {
	Message string `json:"message"`
	Alert   Alert  `json:"alert"`
}

// TestResult is the system self-test ack.
type TestResult struct {
	Message       string `json:"message"`
	ContactsCount int    `json:"contacts_count"`
	SystemStatus  string `json:"system_status"`
}

// Store holds the local contact roster and alert feed.
type Store struct {
	client *api.Client

	mu       sync.Mutex
	contacts []Contact
	alerts   []Alert
	loading  bool
	lastErr  string

	contactsSeq uint64
	alertsSeq   uint64
	events      *log.Logger
}

// NewStore creates an emergency store backed by the given API client.
func NewStore(client *api.Client) *Store {
	return &Store{client: client}
}

// SetEventLog attaches an event logger for discarded stale fetches.
func (s *Store) SetEventLog(events *log.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = events
}

// FetchContacts replaces the local roster wholesale. Stale responses are
// discarded.
func (s *Store) FetchContacts(ctx context.Context) ([]Contact, error) {
	s.mu.Lock()
	s.loading = true
	s.lastErr = ""
	s.contactsSeq++
	seq := s.contactsSeq
	s.mu.Unlock()

	var out []Contact
	err := s.client.Get(ctx, "/emergency/contacts", &out)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.lastErr = api.MessageOr(err, "Failed to fetch contacts")
		return nil, err
	}
	if seq == s.contactsSeq {
		s.contacts = out
	} else if s.events != nil {
		_ = s.events.Append(log.LogEvent{Event: log.EventStaleFetchDropped, Resource: "emergency_contacts"})
	}
	return out, nil
}

// AddContact posts a new contact and appends it to the roster (the roster
// keeps insertion order, unlike the newest-first alert feed).
func (s *Store) AddContact(ctx context.Context, req AddContactRequest) (*Contact, error) {
	var resp addContactResponse
	if err := s.client.Post(ctx, "/emergency/contacts", req, &resp); err != nil {
		s.mu.Lock()
		s.lastErr = api.MessageOr(err, "Failed to add contact")
		s.mu.Unlock()
		return nil, err
	}

	s.mu.Lock()
	s.contacts = append(s.contacts, resp.Contact)
	s.mu.Unlock()
	return &resp.Contact, nil
}

// RemoveContact deletes a contact and drops it from the roster.
func (s *Store) RemoveContact(ctx context.Context, id api.ID) error {
	if err := s.client.Delete(ctx, "/emergency/contacts/"+id.String()); err != nil {
		s.mu.Lock()
		s.lastErr = api.MessageOr(err, "Failed to remove contact")
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	kept := s.contacts[:0]
	for _, c := range s.contacts {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	s.contacts = kept
	s.mu.Unlock()
	return nil
}

// FetchAlerts replaces the local alert feed wholesale. Stale responses are
// discarded.
func (s *Store) FetchAlerts(ctx context.Context) ([]Alert, error) {
	s.mu.Lock()
	s.loading = true
	s.lastErr = ""
	s.alertsSeq++
	seq := s.alertsSeq
	s.mu.Unlock()

	var out []Alert
	err := s.client.Get(ctx, "/emergency/alerts", &out)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.lastErr = api.MessageOr(err, "Failed to fetch alerts")
		return nil, err
	}
	if seq == s.alertsSeq {
		s.alerts = out
	} else if s.events != nil {
		_ = s.events.Append(log.LogEvent{Event: log.EventStaleFetchDropped, Resource: "emergency_alerts"})
	}
	return out, nil
}

// Trigger raises an emergency alert and prepends it to the feed.
func (s *Store) Trigger(ctx context.Context, req TriggerRequest) (*Alert, error) {
	var resp triggerResponse
	if err := s.client.Post(ctx, "/emergency/alert", req, &resp); err != nil {
		s.mu.Lock()
		s.lastErr = api.MessageOr(err, "Failed to trigger alert")
		s.mu.Unlock()
		return nil, err
	}

	s.mu.Lock()
	s.alerts = append([]Alert{resp.Alert}, s.alerts...)
	s.mu.Unlock()
	return &resp.Alert, nil
}

// Resolve marks an alert resolved and replaces the matching feed entry in
// place. An id not present locally is a silent no-op.
func (s *Store) Resolve(ctx context.Context, id api.ID) (*Alert, error) {
	var updated Alert
	if err := s.client.Put(ctx, "/emergency/alert/"+id.String()+"/resolve", nil, &updated); err != nil {
		s.mu.Lock()
		s.lastErr = api.MessageOr(err, "Failed to resolve alert")
		s.mu.Unlock()
		return nil, err
	}

	s.mu.Lock()
	for i := range s.alerts {
		if s.alerts[i].ID == updated.ID {
			s.alerts[i] = updated
			break
		}
	}
	s.mu.Unlock()
	return &updated, nil
}

// Test runs the alert system self-test. The ack is prepended to the feed with
// status "test" so it is visible without notifying anyone.
func (s *Store) Test(ctx context.Context) (*TestResult, error) {
	var resp TestResult
	if err := s.client.Post(ctx, "/emergency/test", nil, &resp); err != nil {
		s.mu.Lock()
		s.lastErr = api.MessageOr(err, "Failed to test alert system")
		s.mu.Unlock()
		return nil, err
	}

	s.mu.Lock()
	s.alerts = append([]Alert{{Message: resp.Message, Status: StatusTest}}, s.alerts...)
	s.mu.Unlock()
	return &resp, nil
}

// Contacts returns a copy of the local roster.
func (s *Store) Contacts() []Contact {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Contact, len(s.contacts))
	copy(out, s.contacts)
	return out
}

// Alerts returns a copy of the local alert feed.
func (s *Store) Alerts() []Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Alert, len(s.alerts))
	copy(out, s.alerts)
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

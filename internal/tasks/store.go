// Package tasks mirrors the /tasks resource: reminders and to-dos for the
// care recipient.
package tasks

import (
	"context"
	"sync"

	"github.com/caremate-dev/caremate/internal/api"
	"github.com/caremate-dev/caremate/internal/log"
)

// Task is a single care task record.
type Task struct {
	ID          api.ID `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	// DueTime is kept as the wire string; the backend emits bare ISO-8601
	// without a zone, which does not round-trip through time.Time.
	DueTime     string `json:"due_time"`
	IsCompleted bool   `json:"is_completed"`
	TaskType    string `json:"task_type"`
}

// Store holds the local task collection.
type Store struct {
	client *api.Client

	mu       sync.Mutex
	tasks    []Task
	loading  bool
	lastErr  string
	fetchSeq uint64
	events   *log.Logger
}

// NewStore creates a task store backed by the given API client.
func NewStore(client *api.Client) *Store {
	return &Store{client: client}
}

// SetEventLog attaches an event logger for discarded stale fetches.
func (s *Store) SetEventLog(events *log.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = events
}

// Fetch replaces the local collection with the server's task list.
// A response from a fetch that has since been superseded by a newer one is
// discarded so a stale reply cannot overwrite fresher state.
func (s *Store) Fetch(ctx context.Context) ([]Task, error) {
	s.mu.Lock()
	s.loading = true
	s.lastErr = ""
	s.fetchSeq++
	seq := s.fetchSeq
	s.mu.Unlock()

	var out []Task
	err := s.client.Get(ctx, "/tasks", &out)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.lastErr = api.MessageOr(err, "Failed to fetch tasks")
		return nil, err
	}
	if seq == s.fetchSeq {
		s.tasks = out
	} else if s.events != nil {
		_ = s.events.Append(log.LogEvent{Event: log.EventStaleFetchDropped, Resource: "tasks"})
	}
	return out, nil
}

// Upcoming returns tasks due soon without touching the local collection.
func (s *Store) Upcoming(ctx context.Context) ([]Task, error) {
	var out []Task
	if err := s.client.Get(ctx, "/tasks/upcoming", &out); err != nil {
		s.mu.Lock()
		s.lastErr = api.MessageOr(err, "Failed to fetch upcoming tasks")
		s.mu.Unlock()
		return nil, err
	}
	return out, nil
}

// CreateRequest is the body for creating a task.
type CreateRequest struct {
	UserID      api.ID `json:"user_id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	DueTime     string `json:"due_time"`
	TaskType    string `json:"task_type"`
}

// Create posts a new task and prepends the created record (newest first).
func (s *Store) Create(ctx context.Context, req CreateRequest) (*Task, error) {
	var created Task
	if err := s.client.Post(ctx, "/tasks", req, &created); err != nil {
		s.mu.Lock()
		s.lastErr = api.MessageOr(err, "Failed to create task")
		s.mu.Unlock()
		return nil, err
	}

	s.mu.Lock()
	s.tasks = append([]Task{created}, s.tasks...)
	s.mu.Unlock()
	return &created, nil
}

// UpdateRequest is the body for updating a task. Nil fields are left alone
// by the backend.
type UpdateRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	DueTime     *string `json:"due_time,omitempty"`
	TaskType    *string `json:"task_type,omitempty"`
	IsCompleted *bool   `json:"is_completed,omitempty"`
}

// Update puts changes to a task and replaces the matching local record in
// place. A returned task whose id is not in the collection is a silent no-op.
func (s *Store) Update(ctx context.Context, id api.ID, req UpdateRequest) (*Task, error) {
	var updated Task
	if err := s.client.Put(ctx, "/tasks/"+id.String(), req, &updated); err != nil {
		s.mu.Lock()
		s.lastErr = api.MessageOr(err, "Failed to update task")
		s.mu.Unlock()
		return nil, err
	}

	s.mu.Lock()
	for i := range s.tasks {
		if s.tasks[i].ID == updated.ID {
			s.tasks[i] = updated
			break
		}
	}
	s.mu.Unlock()
	return &updated, nil
}

// Delete removes a task on the server and drops it from the collection.
func (s *Store) Delete(ctx context.Context, id api.ID) error {
	if err := s.client.Delete(ctx, "/tasks/"+id.String()); err != nil {
		s.mu.Lock()
		s.lastErr = api.MessageOr(err, "Failed to delete task")
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.tasks = kept
	s.mu.Unlock()
	return nil
}

// Tasks returns a copy of the local collection.
func (s *Store) Tasks() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
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

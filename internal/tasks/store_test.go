package tasks

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/caremate-dev/caremate/internal/api"
	"github.com/caremate-dev/caremate/internal/log"
	"github.com/caremate-dev/caremate/internal/testutil"
)

func newTestStore(t *testing.T, routes map[string]http.HandlerFunc) *Store {
	t.Helper()
	srv := testutil.APIServer(t, routes)
	return NewStore(api.New(srv.URL, nil))
}

func taskList() []map[string]any {
	return []map[string]any{
		{"id": 1, "title": "Morning medication", "task_type": "medication", "is_completed": false},
		{"id": 2, "title": "Physio appointment", "task_type": "appointment", "is_completed": true},
	}
}

func TestFetchReplacesCollection(t *testing.T) {
	store := newTestStore(t, map[string]http.HandlerFunc{
		"GET /tasks": func(w http.ResponseWriter, r *http.Request) {
			testutil.JSON(w, http.StatusOK, taskList())
		},
	})

	list, err := store.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	if got := store.Tasks(); len(got) != 2 || got[0].Title != "Morning medication" {
		t.Errorf("Tasks() = %+v", got)
	}
	if store.Loading() {
		t.Error("Loading = true after fetch completed")
	}
}

func TestCreatePrependsNewTask(t *testing.T) {
	store := newTestStore(t, map[string]http.HandlerFunc{
		"GET /tasks": func(w http.ResponseWriter, r *http.Request) {
			testutil.JSON(w, http.StatusOK, taskList())
		},
		"POST /tasks": func(w http.ResponseWriter, r *http.Request) {
			var req CreateRequest
			testutil.DecodeBody(t, r, &req)
			testutil.JSON(w, http.StatusCreated, map[string]any{
				"id": 3, "title": req.Title, "task_type": req.TaskType, "is_completed": false,
			})
		},
	})

	if _, err := store.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	created, err := store.Create(context.Background(), CreateRequest{Title: "Evening walk", TaskType: "exercise"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID != 3 {
		t.Errorf("created.ID = %d, want 3", created.ID)
	}

	list := store.Tasks()
	if len(list) != 3 || list[0].Title != "Evening walk" {
		t.Errorf("new task should be first, got %+v", list)
	}
}

func TestUpdateReplacesInPlace(t *testing.T) {
	store := newTestStore(t, map[string]http.HandlerFunc{
		"GET /tasks": func(w http.ResponseWriter, r *http.Request) {
			testutil.JSON(w, http.StatusOK, taskList())
		},
		"PUT /tasks/1": func(w http.ResponseWriter, r *http.Request) {
			testutil.JSON(w, http.StatusOK, map[string]any{
				"id": 1, "title": "Morning medication", "task_type": "medication", "is_completed": true,
			})
		},
	})

	if _, err := store.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	done := true
	if _, err := store.Update(context.Background(), 1, UpdateRequest{IsCompleted: &done}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	list := store.Tasks()
	if len(list) != 2 {
		t.Fatalf("update must not change length, got %d", len(list))
	}
	if !list[0].IsCompleted {
		t.Error("task 1 should be completed in place")
	}
}

func TestUpdateUnknownIDIsNoOp(t *testing.T) {
	store := newTestStore(t, map[string]http.HandlerFunc{
		"GET /tasks": func(w http.ResponseWriter, r *http.Request) {
			testutil.JSON(w, http.StatusOK, taskList())
		},
		"PUT /tasks/99": func(w http.ResponseWriter, r *http.Request) {
			testutil.JSON(w, http.StatusOK, map[string]any{
				"id": 99, "title": "Ghost", "is_completed": true,
			})
		},
	})

	if _, err := store.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if _, err := store.Update(context.Background(), 99, UpdateRequest{}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	list := store.Tasks()
	if len(list) != 2 {
		t.Errorf("unknown id must not grow the collection, got %d entries", len(list))
	}
	for _, task := range list {
		if task.ID == 99 {
			t.Error("ghost task appeared in collection")
		}
	}
}

func TestDeleteRemovesTask(t *testing.T) {
	store := newTestStore(t, map[string]http.HandlerFunc{
		"GET /tasks": func(w http.ResponseWriter, r *http.Request) {
			testutil.JSON(w, http.StatusOK, taskList())
		},
		"DELETE /tasks/1": func(w http.ResponseWriter, r *http.Request) {
			testutil.JSON(w, http.StatusOK, map[string]string{"message": "Task deleted"})
		},
	})

	if _, err := store.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if err := store.Delete(context.Background(), 1); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	list := store.Tasks()
	if len(list) != 1 || list[0].ID != 2 {
		t.Errorf("Tasks() after delete = %+v", list)
	}
}

func TestFetchErrorRecordedAndReturned(t *testing.T) {
	store := newTestStore(t, map[string]http.HandlerFunc{
		"GET /tasks": func(w http.ResponseWriter, r *http.Request) {
			testutil.JSON(w, http.StatusInternalServerError, map[string]string{"error": "Database error"})
		},
	})

	_, err := store.Fetch(context.Background())
	if err == nil {
		t.Fatal("expected fetch error")
	}
	if store.LastError() != "Database error" {
		t.Errorf("LastError = %q, want server message", store.LastError())
	}
	if store.Loading() {
		t.Error("Loading = true after failed fetch")
	}
}

// A slow fetch that returns after a newer one must not overwrite the newer
// result.
func TestStaleFetchDiscarded(t *testing.T) {
	release := make(chan struct{})
	var mu sync.Mutex
	requests := 0

	store := newTestStore(t, map[string]http.HandlerFunc{
		"GET /tasks": func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			requests++
			n := requests
			mu.Unlock()
			if n == 1 {
				// First request stalls until the second has been served.
				<-release
				testutil.JSON(w, http.StatusOK, []map[string]any{
					{"id": 1, "title": "Stale"},
				})
				return
			}
			testutil.JSON(w, http.StatusOK, []map[string]any{
				{"id": 2, "title": "Fresh"},
			})
		},
	})

	events, err := log.NewLogger(t.TempDir())
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	store.SetEventLog(events)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = store.Fetch(context.Background())
	}()

	// Wait until the first request is stalled in the handler.
	for {
		mu.Lock()
		started := requests >= 1
		mu.Unlock()
		if started {
			break
		}
	}

	if _, err := store.Fetch(context.Background()); err != nil {
		t.Fatalf("second Fetch: %v", err)
	}
	close(release)
	wg.Wait()

	list := store.Tasks()
	if len(list) != 1 || list[0].Title != "Fresh" {
		t.Errorf("stale response overwrote fresh state: %+v", list)
	}

	logged, err := events.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(logged) != 1 || logged[0].Event != log.EventStaleFetchDropped {
		t.Fatalf("events = %+v, want one %s event", logged, log.EventStaleFetchDropped)
	}
	if logged[0].Resource != "tasks" {
		t.Errorf("Resource = %q, want tasks", logged[0].Resource)
	}
}

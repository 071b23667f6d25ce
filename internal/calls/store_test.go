package calls

import (
	"context"
	"net/http"
	"testing"

	"github.com/caremate-dev/caremate/internal/api"
	"github.com/caremate-dev/caremate/internal/testutil"
)

func newTestStore(t *testing.T, routes map[string]http.HandlerFunc) *Store {
	t.Helper()
	srv := testutil.APIServer(t, routes)
	return NewStore(api.New(srv.URL, nil))
}

func historyRoutes() map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		"GET /calls/history": func(w http.ResponseWriter, r *http.Request) {
			testutil.JSON(w, http.StatusOK, map[string]any{
				"total_calls": 1, "current_page": 1, "total_pages": 1,
				"calls": []map[string]any{
					{"id": 1, "room_id": "room-old", "status": "ended", "callee_name": "Ana"},
				},
			})
		},
	}
}

func TestFetchHistoryUnwrapsPagination(t *testing.T) {
	store := newTestStore(t, historyRoutes())

	list, err := store.FetchHistory(context.Background())
	if err != nil {
		t.Fatalf("FetchHistory: %v", err)
	}
	if len(list) != 1 || list[0].RoomID != "room-old" {
		t.Errorf("history = %+v", list)
	}
}

func TestInitiateStartsActiveCall(t *testing.T) {
	routes := historyRoutes()
	routes["POST /calls/start"] = func(w http.ResponseWriter, r *http.Request) {
		var body map[string]api.ID
		testutil.DecodeBody(t, r, &body)
		if body["callee_id"] != 9 {
			t.Errorf("callee_id = %d, want 9", body["callee_id"])
		}
		testutil.JSON(w, http.StatusCreated, map[string]any{
			"id": 2, "room_id": "room-new", "caller_id": 3, "callee_id": 9, "status": "initiated",
		})
	}
	store := newTestStore(t, routes)

	if _, err := store.FetchHistory(context.Background()); err != nil {
		t.Fatalf("FetchHistory: %v", err)
	}
	conn, err := store.Initiate(context.Background(), 9)
	if err != nil {
		t.Fatalf("Initiate: %v", err)
	}
	if conn.RoomID != "room-new" || !conn.Initiator {
		t.Errorf("conn = %+v", conn)
	}
	if !store.HasActiveCall() {
		t.Error("call should be active after initiate")
	}

	history := store.History()
	if len(history) != 2 || history[0].RoomID != "room-new" {
		t.Errorf("new call should be first in history, got %+v", history)
	}
}

func TestInitiateWhileRingingRefused(t *testing.T) {
	routes := map[string]http.HandlerFunc{
		"POST /calls/start": func(w http.ResponseWriter, r *http.Request) {
			testutil.JSON(w, http.StatusCreated, map[string]any{
				"id": 2, "room_id": "room-new", "status": "initiated",
			})
		},
	}
	store := newTestStore(t, routes)

	if err := store.HandleIncoming(Call{ID: 5, RoomID: "room-in"}); err != nil {
		t.Fatalf("HandleIncoming: %v", err)
	}
	if _, err := store.Initiate(context.Background(), 9); err != ErrBusy {
		t.Errorf("Initiate while ringing = %v, want ErrBusy", err)
	}
}

func TestSecondIncomingRefused(t *testing.T) {
	store := newTestStore(t, nil)

	if err := store.HandleIncoming(Call{ID: 5, RoomID: "room-a"}); err != nil {
		t.Fatalf("first HandleIncoming: %v", err)
	}
	if !store.HasIncomingCall() {
		t.Error("HasIncomingCall = false while ringing")
	}
	if err := store.HandleIncoming(Call{ID: 6, RoomID: "room-b"}); err != ErrBusy {
		t.Errorf("second HandleIncoming = %v, want ErrBusy", err)
	}
}

func TestAcceptMarksHistoryActive(t *testing.T) {
	routes := map[string]http.HandlerFunc{
		"GET /calls/history": func(w http.ResponseWriter, r *http.Request) {
			testutil.JSON(w, http.StatusOK, map[string]any{
				"calls": []map[string]any{
					{"id": 5, "room_id": "room-in", "status": "initiated"},
				},
			})
		},
		"POST /calls/5/accept": func(w http.ResponseWriter, r *http.Request) {
			testutil.JSON(w, http.StatusOK, map[string]any{
				"id": 5, "room_id": "room-in", "status": "active",
			})
		},
	}
	store := newTestStore(t, routes)

	if _, err := store.FetchHistory(context.Background()); err != nil {
		t.Fatalf("FetchHistory: %v", err)
	}
	if err := store.HandleIncoming(Call{ID: 5, RoomID: "room-in"}); err != nil {
		t.Fatalf("HandleIncoming: %v", err)
	}

	conn, err := store.Accept(context.Background(), 5)
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if conn.RoomID != "room-in" || conn.Initiator {
		t.Errorf("conn = %+v", conn)
	}
	if history := store.History(); history[0].Status != StatusActive {
		t.Errorf("history status = %q, want active", history[0].Status)
	}
}

func TestRejectMarksHistoryMissed(t *testing.T) {
	routes := map[string]http.HandlerFunc{
		"GET /calls/history": func(w http.ResponseWriter, r *http.Request) {
			testutil.JSON(w, http.StatusOK, map[string]any{
				"calls": []map[string]any{
					{"id": 5, "room_id": "room-in", "status": "initiated"},
				},
			})
		},
		"POST /calls/5/reject": func(w http.ResponseWriter, r *http.Request) {
			testutil.JSON(w, http.StatusOK, map[string]string{"message": "Call rejected"})
		},
	}
	store := newTestStore(t, routes)

	if _, err := store.FetchHistory(context.Background()); err != nil {
		t.Fatalf("FetchHistory: %v", err)
	}
	if err := store.HandleIncoming(Call{ID: 5, RoomID: "room-in"}); err != nil {
		t.Fatalf("HandleIncoming: %v", err)
	}
	if err := store.Reject(context.Background(), 5); err != nil {
		t.Fatalf("Reject: %v", err)
	}

	if store.HasIncomingCall() || store.HasActiveCall() {
		t.Error("rejected call should leave the store idle")
	}
	if history := store.History(); history[0].Status != StatusMissed {
		t.Errorf("history status = %q, want missed", history[0].Status)
	}
}

func TestEndThenAcknowledge(t *testing.T) {
	routes := map[string]http.HandlerFunc{
		"POST /calls/start": func(w http.ResponseWriter, r *http.Request) {
			testutil.JSON(w, http.StatusCreated, map[string]any{
				"id": 2, "room_id": "room-new", "status": "initiated",
			})
		},
		"POST /calls/room-new/end": func(w http.ResponseWriter, r *http.Request) {
			testutil.JSON(w, http.StatusOK, map[string]any{
				"id": 2, "room_id": "room-new", "status": "ended",
			})
		},
	}
	store := newTestStore(t, routes)

	if _, err := store.Initiate(context.Background(), 9); err != nil {
		t.Fatalf("Initiate: %v", err)
	}
	if err := store.End(context.Background(), "room-new"); err != nil {
		t.Fatalf("End: %v", err)
	}

	// The ended phase is observable until the surface acknowledges it.
	if phase, _ := store.Current(); phase != PhaseEnded {
		t.Errorf("phase = %v, want ended", phase)
	}
	if history := store.History(); history[0].Status != StatusEnded {
		t.Errorf("history status = %q, want ended", history[0].Status)
	}

	store.Acknowledge()
	if phase, current := store.Current(); phase != PhaseIdle || current != nil {
		t.Errorf("after acknowledge: %v, %+v", phase, current)
	}
}

func TestInitiateErrorRecordedAndReturned(t *testing.T) {
	store := newTestStore(t, map[string]http.HandlerFunc{
		"POST /calls/start": func(w http.ResponseWriter, r *http.Request) {
			testutil.JSON(w, http.StatusBadRequest, map[string]string{"error": "Callee not found"})
		},
	})

	_, err := store.Initiate(context.Background(), 99)
	if err == nil {
		t.Fatal("expected error")
	}
	if store.LastError() != "Callee not found" {
		t.Errorf("LastError = %q", store.LastError())
	}
	if store.HasActiveCall() {
		t.Error("failed initiate must not activate a call")
	}
}

package emergency

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

func TestAddContactAppends(t *testing.T) {
	store := newTestStore(t, map[string]http.HandlerFunc{
		"GET /emergency/contacts": func(w http.ResponseWriter, r *http.Request) {
			testutil.JSON(w, http.StatusOK, []map[string]any{
				{"id": 1, "name": "Maria", "phone": "555-0101", "relationship": "daughter"},
			})
		},
		"POST /emergency/contacts": func(w http.ResponseWriter, r *http.Request) {
			var req AddContactRequest
			testutil.DecodeBody(t, r, &req)
			testutil.JSON(w, http.StatusCreated, map[string]any{
				"message": "Contact added",
				"contact": map[string]any{"id": 2, "name": req.Name, "phone": req.Phone, "relationship": req.Relationship},
			})
		},
	})

	if _, err := store.FetchContacts(context.Background()); err != nil {
		t.Fatalf("FetchContacts: %v", err)
	}
	contact, err := store.AddContact(context.Background(), AddContactRequest{
		Name: "Tomas", Phone: "555-0102", Relationship: "neighbor",
	})
	if err != nil {
		t.Fatalf("AddContact: %v", err)
	}
	if contact.ID != 2 {
		t.Errorf("contact.ID = %d, want 2", contact.ID)
	}

	// The roster keeps insertion order: new contacts go last.
	list := store.Contacts()
	if len(list) != 2 || list[1].Name != "Tomas" {
		t.Errorf("Contacts() = %+v, want Tomas appended", list)
	}
}

func TestRemoveContact(t *testing.T) {
	store := newTestStore(t, map[string]http.HandlerFunc{
		"GET /emergency/contacts": func(w http.ResponseWriter, r *http.Request) {
			testutil.JSON(w, http.StatusOK, []map[string]any{
				{"id": 1, "name": "Maria"}, {"id": 2, "name": "Tomas"},
			})
		},
		"DELETE /emergency/contacts/1": func(w http.ResponseWriter, r *http.Request) {
			testutil.JSON(w, http.StatusOK, map[string]string{"message": "Contact removed"})
		},
	})

	if _, err := store.FetchContacts(context.Background()); err != nil {
		t.Fatalf("FetchContacts: %v", err)
	}
	if err := store.RemoveContact(context.Background(), 1); err != nil {
		t.Fatalf("RemoveContact: %v", err)
	}

	list := store.Contacts()
	if len(list) != 1 || list[0].ID != 2 {
		t.Errorf("Contacts() after remove = %+v", list)
	}
}

func TestTriggerPrependsAlert(t *testing.T) {
	store := newTestStore(t, map[string]http.HandlerFunc{
		"GET /emergency/alerts": func(w http.ResponseWriter, r *http.Request) {
			testutil.JSON(w, http.StatusOK, []map[string]any{
				{"id": 1, "message": "Old alert", "status": "resolved"},
			})
		},
		"POST /emergency/alert": func(w http.ResponseWriter, r *http.Request) {
			var req TriggerRequest
			testutil.DecodeBody(t, r, &req)
			testutil.JSON(w, http.StatusCreated, map[string]any{
				"message": "Alert sent",
				"alert":   map[string]any{"id": 2, "message": req.Message, "status": "active"},
			})
		},
	})

	if _, err := store.FetchAlerts(context.Background()); err != nil {
		t.Fatalf("FetchAlerts: %v", err)
	}
	alert, err := store.Trigger(context.Background(), TriggerRequest{Message: "Fall detected"})
	if err != nil {
		t.Fatalf("Trigger: %v", err)
	}
	if alert.Status != "active" {
		t.Errorf("alert.Status = %q", alert.Status)
	}

	list := store.Alerts()
	if len(list) != 2 || list[0].Message != "Fall detected" {
		t.Errorf("new alert should be first, got %+v", list)
	}
}

func TestResolveReplacesInPlace(t *testing.T) {
	store := newTestStore(t, map[string]http.HandlerFunc{
		"GET /emergency/alerts": func(w http.ResponseWriter, r *http.Request) {
			testutil.JSON(w, http.StatusOK, []map[string]any{
				{"id": 1, "message": "Fall detected", "status": "active"},
				{"id": 2, "message": "Older", "status": "active"},
			})
		},
		"PUT /emergency/alert/1/resolve": func(w http.ResponseWriter, r *http.Request) {
			testutil.JSON(w, http.StatusOK, map[string]any{
				"id": 1, "message": "Fall detected", "status": "resolved",
			})
		},
	})

	if _, err := store.FetchAlerts(context.Background()); err != nil {
		t.Fatalf("FetchAlerts: %v", err)
	}
	if _, err := store.Resolve(context.Background(), 1); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	list := store.Alerts()
	if len(list) != 2 {
		t.Fatalf("resolve must not change the feed length, got %d", len(list))
	}
	if list[0].Status != "resolved" {
		t.Errorf("alert 1 status = %q, want resolved in place", list[0].Status)
	}
	if list[1].Status != "active" {
		t.Errorf("alert 2 must be untouched, got %q", list[1].Status)
	}
}

func TestSystemTestPrependsTestRecord(t *testing.T) {
	store := newTestStore(t, map[string]http.HandlerFunc{
		"POST /emergency/test": func(w http.ResponseWriter, r *http.Request) {
			testutil.JSON(w, http.StatusOK, map[string]any{
				"message": "Test alert sent", "contacts_count": 2, "system_status": "operational",
			})
		},
	})

	result, err := store.Test(context.Background())
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if result.ContactsCount != 2 || result.SystemStatus != "operational" {
		t.Errorf("result = %+v", result)
	}

	list := store.Alerts()
	if len(list) != 1 || list[0].Status != StatusTest {
		t.Errorf("test record should be prepended with status %q, got %+v", StatusTest, list)
	}
}

func TestTriggerErrorRecordedAndReturned(t *testing.T) {
	store := newTestStore(t, map[string]http.HandlerFunc{
		"POST /emergency/alert": func(w http.ResponseWriter, r *http.Request) {
			testutil.JSON(w, http.StatusServiceUnavailable, map[string]string{"error": "Notification service down"})
		},
	})

	_, err := store.Trigger(context.Background(), TriggerRequest{Message: "Help"})
	if err == nil {
		t.Fatal("expected error")
	}
	if store.LastError() != "Notification service down" {
		t.Errorf("LastError = %q", store.LastError())
	}
	if len(store.Alerts()) != 0 {
		t.Error("failed trigger must not touch the feed")
	}
}

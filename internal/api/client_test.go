package api

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/caremate-dev/caremate/internal/testutil"
)

// fakeCreds implements Credentials for tests.
type fakeCreds struct {
	token   string
	cleared bool
}

func (f *fakeCreds) Token() string { return f.token }
func (f *fakeCreds) Clear() error  { f.cleared = true; return nil }

func TestBearerTokenInjected(t *testing.T) {
	var gotAuth, gotRequestID string
	srv := testutil.APIServer(t, map[string]http.HandlerFunc{
		"GET /tasks": func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			gotRequestID = r.Header.Get("X-Request-ID")
			testutil.JSON(w, http.StatusOK, []any{})
		},
	})

	client := New(srv.URL, &fakeCreds{token: "tok-123"})
	if err := client.Get(context.Background(), "/tasks", nil); err != nil {
		t.Fatalf("Get: %v", err)
	}

	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer tok-123")
	}
	if gotRequestID == "" {
		t.Error("X-Request-ID header was not set")
	}
}

func TestNoAuthorizationHeaderWithoutToken(t *testing.T) {
	var gotAuth string
	srv := testutil.APIServer(t, map[string]http.HandlerFunc{
		"GET /marketplace/caregivers": func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			testutil.JSON(w, http.StatusOK, []any{})
		},
	})

	client := New(srv.URL, &fakeCreds{})
	if err := client.Get(context.Background(), "/marketplace/caregivers", nil); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("Authorization = %q, want empty", gotAuth)
	}
}

func TestUnauthorizedClearsSessionAndNotifies(t *testing.T) {
	srv := testutil.APIServer(t, map[string]http.HandlerFunc{
		"GET /tasks": func(w http.ResponseWriter, r *http.Request) {
			testutil.JSON(w, http.StatusUnauthorized, map[string]string{"error": "Token is invalid"})
		},
	})

	creds := &fakeCreds{token: "stale"}
	client := New(srv.URL, creds)
	notified := false
	client.OnUnauthorized(func() { notified = true })

	err := client.Get(context.Background(), "/tasks", nil)
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
	if !IsUnauthorized(err) {
		t.Errorf("IsUnauthorized = false, want true for %v", err)
	}
	if !creds.cleared {
		t.Error("credentials were not cleared on 401")
	}
	if !notified {
		t.Error("OnUnauthorized callback did not run")
	}
}

func TestErrorBodyParsing(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    any
		wantMsg string
	}{
		{"error key", http.StatusBadRequest, map[string]string{"error": "Missing required field"}, "Missing required field"},
		{"message key", http.StatusConflict, map[string]string{"message": "Email already registered"}, "Email already registered"},
		{"empty body", http.StatusInternalServerError, nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := testutil.APIServer(t, map[string]http.HandlerFunc{
				"POST /auth/register": func(w http.ResponseWriter, r *http.Request) {
					if tt.body == nil {
						w.WriteHeader(tt.status)
						return
					}
					testutil.JSON(w, tt.status, tt.body)
				},
			})

			client := New(srv.URL, nil)
			err := client.Post(context.Background(), "/auth/register", map[string]string{}, nil)
			if err == nil {
				t.Fatal("expected error")
			}

			var apiErr *Error
			if !errors.As(err, &apiErr) {
				t.Fatalf("error %v is not *Error", err)
			}
			if apiErr.Status != tt.status {
				t.Errorf("Status = %d, want %d", apiErr.Status, tt.status)
			}
			if apiErr.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", apiErr.Message, tt.wantMsg)
			}
		})
	}
}

func TestMessageOr(t *testing.T) {
	apiErr := &Error{Status: 400, Message: "Rate must be positive"}
	if got := MessageOr(apiErr, "fallback"); got != "Rate must be positive" {
		t.Errorf("MessageOr = %q, want server message", got)
	}

	blank := &Error{Status: 500}
	if got := MessageOr(blank, "fallback"); got != "fallback" {
		t.Errorf("MessageOr = %q, want fallback for blank message", got)
	}

	if got := MessageOr(errors.New("dial tcp: refused"), "fallback"); got != "fallback" {
		t.Errorf("MessageOr = %q, want fallback for transport error", got)
	}
}

func TestResponseDecoding(t *testing.T) {
	srv := testutil.APIServer(t, map[string]http.HandlerFunc{
		"GET /health-metrics": func(w http.ResponseWriter, r *http.Request) {
			testutil.JSON(w, http.StatusOK, []map[string]any{
				{"id": 7, "type": "heart_rate"},
			})
		},
	})

	client := New(srv.URL, nil)
	var out []struct {
		ID   ID     `json:"id"`
		Type string `json:"type"`
	}
	if err := client.Get(context.Background(), "/health-metrics", &out); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(out) != 1 || out[0].ID != 7 || out[0].Type != "heart_rate" {
		t.Errorf("decoded %+v, want one heart_rate record with id 7", out)
	}
}

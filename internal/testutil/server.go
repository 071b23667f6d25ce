// Package testutil provides test helper utilities for caremate tests.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// APIServer starts a fake CareMate backend. routes maps "METHOD /path" to a
// handler; unmatched requests get a 404 with the backend's error shape.
// The server is automatically shut down when the test finishes.
func APIServer(t *testing.T, routes map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := routes[r.Method+" "+r.URL.Path]; ok {
			h(w, r)
			return
		}
		JSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	}))
	t.Cleanup(srv.Close)

	return srv
}

// JSON writes v as a JSON response with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Bearer extracts the bearer token from a request, empty when absent.
func Bearer(r *http.Request) string {
	const prefix = "Bearer "
	auth := r.Header.Get("Authorization")
	if len(auth) > len(prefix) && auth[:len(prefix)] == prefix {
		return auth[len(prefix):]
	}
	return ""
}

// DecodeBody unmarshals the request body into out, failing the test on error.
func DecodeBody(t *testing.T, r *http.Request, out any) {
	t.Helper()
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		t.Fatalf("decoding request body: %v", err)
	}
}

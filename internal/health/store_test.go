package health

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/caremate-dev/caremate/internal/api"
	"github.com/caremate-dev/caremate/internal/testutil"
)

func newTestStore(t *testing.T, routes map[string]http.HandlerFunc) *Store {
	t.Helper()
	srv := testutil.APIServer(t, routes)
	return NewStore(api.New(srv.URL, nil))
}

func ptr(v float64) *float64 { return &v }

func TestLogAssemblesLocalRecord(t *testing.T) {
	var gotReq LogRequest
	store := newTestStore(t, map[string]http.HandlerFunc{
		"POST /health/metrics": func(w http.ResponseWriter, r *http.Request) {
			testutil.DecodeBody(t, r, &gotReq)
			testutil.JSON(w, http.StatusCreated, map[string]any{
				"message": "Metric recorded", "metric_id": 11,
			})
		},
	})
	pinned := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	store.now = func() time.Time { return pinned }

	metric, err := store.Log(context.Background(), LogRequest{
		MetricType: MetricHeartRate,
		Value:      ptr(72),
		Unit:       "bpm",
		Notes:      "after breakfast",
	})
	if err != nil {
		t.Fatalf("Log: %v", err)
	}

	if gotReq.MetricType != MetricHeartRate {
		t.Errorf("posted metric_type = %q", gotReq.MetricType)
	}
	if metric.ID != 11 {
		t.Errorf("ID = %d, want server-assigned 11", metric.ID)
	}
	if metric.Timestamp != "2026-03-14T09:30:00Z" {
		t.Errorf("Timestamp = %q, want pinned client time", metric.Timestamp)
	}

	list := store.Metrics()
	if len(list) != 1 || list[0].ID != 11 {
		t.Errorf("Metrics() = %+v, want the new record first", list)
	}
}

func TestLogBloodPressureKeepsBothParts(t *testing.T) {
	store := newTestStore(t, map[string]http.HandlerFunc{
		"POST /health/metrics": func(w http.ResponseWriter, r *http.Request) {
			testutil.JSON(w, http.StatusCreated, map[string]any{"metric_id": 5})
		},
	})

	metric, err := store.Log(context.Background(), LogRequest{
		MetricType: MetricBloodPressure,
		Systolic:   ptr(120),
		Diastolic:  ptr(80),
		Unit:       "mmHg",
	})
	if err != nil {
		t.Fatalf("Log: %v", err)
	}
	if metric.Systolic == nil || *metric.Systolic != 120 {
		t.Errorf("Systolic = %v, want 120", metric.Systolic)
	}
	if metric.Diastolic == nil || *metric.Diastolic != 80 {
		t.Errorf("Diastolic = %v, want 80", metric.Diastolic)
	}
	if metric.Value != nil {
		t.Error("Value should be nil for a blood pressure reading")
	}
}

func TestLogPrependsNewestFirst(t *testing.T) {
	store := newTestStore(t, map[string]http.HandlerFunc{
		"GET /health/metrics": func(w http.ResponseWriter, r *http.Request) {
			testutil.JSON(w, http.StatusOK, []map[string]any{
				{"id": 1, "type": "weight", "value": 70.5, "unit": "kg"},
			})
		},
		"POST /health/metrics": func(w http.ResponseWriter, r *http.Request) {
			testutil.JSON(w, http.StatusCreated, map[string]any{"metric_id": 2})
		},
	})

	if _, err := store.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if _, err := store.Log(context.Background(), LogRequest{MetricType: MetricWeight, Value: ptr(70.1), Unit: "kg"}); err != nil {
		t.Fatalf("Log: %v", err)
	}

	list := store.Metrics()
	if len(list) != 2 || list[0].ID != 2 {
		t.Errorf("new reading should be first, got %+v", list)
	}
}

func TestSummariesPassesWindow(t *testing.T) {
	var gotDays string
	store := newTestStore(t, map[string]http.HandlerFunc{
		"GET /health/summary": func(w http.ResponseWriter, r *http.Request) {
			gotDays = r.URL.Query().Get("days")
			testutil.JSON(w, http.StatusOK, []map[string]any{
				{"type": "heart_rate", "count": 4, "average": 71.5, "unit": "bpm"},
			})
		},
	})

	list, err := store.Summaries(context.Background(), 7)
	if err != nil {
		t.Fatalf("Summaries: %v", err)
	}
	if gotDays != "7" {
		t.Errorf("days query param = %q, want 7", gotDays)
	}
	if len(list) != 1 || list[0].Count != 4 {
		t.Errorf("Summaries = %+v", list)
	}
}

func TestLogErrorRecordedAndReturned(t *testing.T) {
	store := newTestStore(t, map[string]http.HandlerFunc{
		"POST /health/metrics": func(w http.ResponseWriter, r *http.Request) {
			testutil.JSON(w, http.StatusBadRequest, map[string]string{"error": "metric_type is required"})
		},
	})

	_, err := store.Log(context.Background(), LogRequest{})
	if err == nil {
		t.Fatal("expected error")
	}
	if store.LastError() != "metric_type is required" {
		t.Errorf("LastError = %q", store.LastError())
	}
	if len(store.Metrics()) != 0 {
		t.Error("failed log must not touch the collection")
	}
}

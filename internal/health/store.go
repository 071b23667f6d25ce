// Package health mirrors the /health resource: vital-sign metrics logged by
// or for the care recipient.
package health

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/caremate-dev/caremate/internal/api"
	"github.com/caremate-dev/caremate/internal/log"
)

// Metric types accepted by the backend.
const (
	MetricBloodPressure = "blood_pressure"
	MetricHeartRate     = "heart_rate"
	MetricWeight        = "weight"
	MetricBloodSugar    = "blood_sugar"
	MetricTemperature   = "temperature"
	MetricOxygenLevel   = "oxygen_level"
)

// Metric is a single logged measurement. Blood pressure carries
// systolic/diastolic instead of a single value.
type Metric struct {
	ID        api.ID   `json:"id"`
	Type      string   `json:"type"`
	Value     *float64 `json:"value"`
	Systolic  *float64 `json:"systolic"`
	Diastolic *float64 `json:"diastolic"`
	Unit      string   `json:"unit"`
	Notes     string   `json:"notes"`
	Timestamp string   `json:"timestamp"`
}

// LogRequest is the body for logging a metric.
type LogRequest struct {
	MetricType string   `json:"metric_type"`
	Value      *float64 `json:"value,omitempty"`
	Systolic   *float64 `json:"systolic,omitempty"`
	Diastolic  *float64 `json:"diastolic,omitempty"`
	Unit       string   `json:"unit,omitempty"`
	Notes      string   `json:"notes,omitempty"`
}

// logResponse is what POST /health/metrics returns: an ack with the new id,
// not the full record.
type logResponse struct {
	Message  string `json:"message"`
	MetricID api.ID `json:"metric_id"`
}

// Summary aggregates one metric type over a window.
type Summary struct {
	Type    string   `json:"type"`
	Count   int      `json:"count"`
	Average *float64 `json:"average"`
	Min     *float64 `json:"min"`
	Max     *float64 `json:"max"`
	Unit    string   `json:"unit"`
}

// Alert is a server-detected abnormal reading.
type Alert struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	Severity  string `json:"severity"`
	Timestamp string `json:"timestamp"`
}

// Store holds the local metric collection.
type Store struct {
	client *api.Client

	mu       sync.Mutex
	metrics  []Metric
	loading  bool
	lastErr  string
	fetchSeq uint64
	events   *log.Logger

	// now is swapped in tests to pin the client-side timestamp.
	now func() time.Time
}

// NewStore creates a health store backed by the given API client.
func NewStore(client *api.Client) *Store {
	return &Store{client: client, now: time.Now}
}

// SetEventLog attaches an event logger for discarded stale fetches.
func (s *Store) SetEventLog(events *log.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = events
}

// Fetch replaces the local collection with the server's metric list (newest
// first, as the backend orders it). Stale fetch responses are discarded.
func (s *Store) Fetch(ctx context.Context) ([]Metric, error) {
	s.mu.Lock()
	s.loading = true
	s.lastErr = ""
	s.fetchSeq++
	seq := s.fetchSeq
	s.mu.Unlock()

	var out []Metric
	err := s.client.Get(ctx, "/health/metrics", &out)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.lastErr = api.MessageOr(err, "Failed to fetch metrics")
		return nil, err
	}
	if seq == s.fetchSeq {
		s.metrics = out
	} else if s.events != nil {
		_ = s.events.Append(log.LogEvent{Event: log.EventStaleFetchDropped, Resource: "health"})
	}
	return out, nil
}

// Log posts a new measurement. The backend only acks with the new id, so the
// local record is assembled from the request plus a client-side timestamp and
// prepended (newest first).
func (s *Store) Log(ctx context.Context, req LogRequest) (*Metric, error) {
	s.mu.Lock()
	s.loading = true
	s.lastErr = ""
	s.mu.Unlock()

	var resp logResponse
	err := s.client.Post(ctx, "/health/metrics", req, &resp)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.lastErr = api.MessageOr(err, "Failed to save metrics")
		return nil, err
	}

	metric := Metric{
		ID:        resp.MetricID,
		Type:      req.MetricType,
		Value:     req.Value,
		Systolic:  req.Systolic,
		Diastolic: req.Diastolic,
		Unit:      req.Unit,
		Notes:     req.Notes,
		Timestamp: s.now().UTC().Format(time.RFC3339),
	}
	s.metrics = append([]Metric{metric}, s.metrics...)
	return &metric, nil
}

// Summaries fetches per-type aggregates for the last days.
func (s *Store) Summaries(ctx context.Context, days int) ([]Summary, error) {
	path := "/health/summary"
	if days > 0 {
		path += "?days=" + strconv.Itoa(days)
	}
	var out []Summary
	if err := s.client.Get(ctx, path, &out); err != nil {
		s.mu.Lock()
		s.lastErr = api.MessageOr(err, "Failed to fetch health summary")
		s.mu.Unlock()
		return nil, err
	}
	return out, nil
}

// Alerts fetches server-detected abnormal readings.
func (s *Store) Alerts(ctx context.Context) ([]Alert, error) {
	var out []Alert
	if err := s.client.Get(ctx, "/health/alerts", &out); err != nil {
		s.mu.Lock()
		s.lastErr = api.MessageOr(err, "Failed to fetch health alerts")
		s.mu.Unlock()
		return nil, err
	}
	return out, nil
}

// Metrics returns a copy of the local collection.
func (s *Store) Metrics() []Metric {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Metric, len(s.metrics))
	copy(out, s.metrics)
	return out
}

// Loading reports whether a request is in flight.
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

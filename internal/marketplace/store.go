// Package marketplace mirrors the /caregivers resource: searchable caregiver
// listings, the caregiver's own profile, and profile stats.
package marketplace

import (
	"context"
	"sort"
	"sync"

	"github.com/caremate-dev/caremate/internal/api"
	"github.com/caremate-dev/caremate/internal/log"
)

// Review is one review embedded in a caregiver listing.
type Review struct {
	ID        api.ID  `json:"id"`
	Rating    float64 `json:"rating"`
	Comment   string  `json:"comment"`
	Reviewer  string  `json:"reviewer,omitempty"`
	CreatedAt string  `json:"created_at,omitempty"`
}

// Caregiver is one marketplace listing.
type Caregiver struct {
	ID              api.ID   `json:"id"`
	Name            string   `json:"name"`
	HourlyRate      float64  `json:"hourly_rate"`
	ExperienceYears int      `json:"experience_years"`
	Specializations []string `json:"specializations"`
	Bio             string   `json:"bio,omitempty"`
	AverageRating   float64  `json:"average_rating"`
	Verified        bool     `json:"verification_status,omitempty"`
	Reviews         []Review `json:"reviews,omitempty"`
}

// Profile is the caregiver's own marketplace profile.
type Profile struct {
	ID              api.ID   `json:"id"`
	HourlyRate      float64  `json:"hourly_rate"`
	ExperienceYears int      `json:"experience_years"`
	Specializations []string `json:"specializations"`
	Bio             string   `json:"bio"`
}

// Complete reports whether all four required profile fields are present and
// non-empty.
func (p *Profile) Complete() bool {
	if p == nil {
		return false
	}
	return p.HourlyRate > 0 &&
		p.ExperienceYears > 0 &&
		len(p.Specializations) > 0 &&
		p.Bio != ""
}

// Stats summarizes a caregiver profile's marketplace activity.
type Stats struct {
	TotalReviews  int     `json:"total_reviews"`
	AverageRating float64 `json:"average_rating"`
	ProfileViews  int     `json:"profile_views"`
}

// ReviewRequest is the body for posting a review.
type ReviewRequest struct {
	Rating  float64 `json:"rating"`
	Comment string  `json:"comment"`
}

// ContactRequest is the body for contacting a caregiver.
type ContactRequest struct {
	Message       string `json:"message"`
	PreferredTime string `json:"preferred_time,omitempty"`
}

// ContactResult is the ack for a contact request.
type ContactResult struct {
	Message string `json:"message"`
}

// Store holds the caregiver search results, own profile and stats.
type Store struct {
	client *api.Client

	mu         sync.Mutex
	caregivers []Caregiver
	profile    *Profile
	stats      Stats
	loading    bool
	lastErr    string
	fetchSeq   uint64
	events     *log.Logger
}

// NewStore creates a marketplace store backed by the given API client.
func NewStore(client *api.Client) *Store {
	return &Store{client: client}
}

// SetEventLog attaches an event logger for discarded stale fetches.
func (s *Store) SetEventLog(events *log.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = events
}

// FetchCaregivers replaces the search results wholesale. Stale responses are
// discarded.
func (s *Store) FetchCaregivers(ctx context.Context) ([]Caregiver, error) {
	s.mu.Lock()
	s.loading = true
	s.lastErr = ""
	s.fetchSeq++
	seq := s.fetchSeq
	s.mu.Unlock()

	var out []Caregiver
	err := s.client.Get(ctx, "/caregivers/search", &out)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.lastErr = api.MessageOr(err, "Failed to fetch caregivers")
		return nil, err
	}
	if seq == s.fetchSeq {
		s.caregivers = out
	} else if s.events != nil {
		_ = s.events.Append(log.LogEvent{Event: log.EventStaleFetchDropped, Resource: "caregivers"})
	}
	return out, nil
}

// FetchProfile loads the caller's own caregiver profile.
func (s *Store) FetchProfile(ctx context.Context) (*Profile, error) {
	var out Profile
	if err := s.client.Get(ctx, "/caregivers/profile", &out); err != nil {
		s.mu.Lock()
		s.lastErr = api.MessageOr(err, "Failed to fetch profile")
		s.mu.Unlock()
		return nil, err
	}

	s.mu.Lock()
	s.profile = &out
	s.mu.Unlock()
	return &out, nil
}

// CreateProfile posts a new caregiver profile and stores it as the own
// profile.
func (s *Store) CreateProfile(ctx context.Context, p Profile) (*Profile, error) {
	var out Profile
	if err := s.client.Post(ctx, "/caregivers/profile", p, &out); err != nil {
		s.mu.Lock()
		s.lastErr = api.MessageOr(err, "Failed to create profile")
		s.mu.Unlock()
		return nil, err
	}

	s.mu.Lock()
	s.profile = &out
	s.mu.Unlock()
	return &out, nil
}

// UpdateProfile puts profile changes. Besides replacing the own profile, a
// matching entry in the search results is patched so the two views stay
// consistent (the one sanctioned cross-collection write).
func (s *Store) UpdateProfile(ctx context.Context, p Profile) (*Profile, error) {
	var out Profile
	if err := s.client.Put(ctx, "/caregivers/profile", p, &out); err != nil {
		s.mu.Lock()
		s.lastErr = api.MessageOr(err, "Failed to update profile")
		s.mu.Unlock()
		return nil, err
	}

	s.mu.Lock()
	s.profile = &out
	for i := range s.caregivers {
		if s.caregivers[i].ID == out.ID {
			s.caregivers[i].HourlyRate = out.HourlyRate
			s.caregivers[i].ExperienceYears = out.ExperienceYears
			s.caregivers[i].Specializations = out.Specializations
			s.caregivers[i].Bio = out.Bio
			break
		}
	}
	s.mu.Unlock()
	return &out, nil
}

// FetchStats loads review/rating/view counts for the own profile.
func (s *Store) FetchStats(ctx context.Context) (*Stats, error) {
	var out Stats
	if err := s.client.Get(ctx, "/caregivers/profile/stats", &out); err != nil {
		s.mu.Lock()
		s.lastErr = api.MessageOr(err, "Failed to fetch profile stats")
		s.mu.Unlock()
		return nil, err
	}

	s.mu.Lock()
	s.stats = out
	s.mu.Unlock()
	return &out, nil
}

// AddReview posts a review for a caregiver and appends it to that listing's
// embedded review list, matched by canonical id.
func (s *Store) AddReview(ctx context.Context, caregiverID api.ID, req ReviewRequest) (*Review, error) {
	var out Review
	if err := s.client.Post(ctx, "/caregivers/"+caregiverID.String()+"/reviews", req, &out); err != nil {
		s.mu.Lock()
		s.lastErr = api.MessageOr(err, "Failed to add review")
		s.mu.Unlock()
		return nil, err
	}

	s.mu.Lock()
	for i := range s.caregivers {
		if s.caregivers[i].ID == caregiverID {
			s.caregivers[i].Reviews = append(s.caregivers[i].Reviews, out)
			break
		}
	}
	s.mu.Unlock()
	return &out, nil
}

// Contact sends a contact request to a caregiver. Local state is untouched.
func (s *Store) Contact(ctx context.Context, caregiverID api.ID, req ContactRequest) (*ContactResult, error) {
	var out ContactResult
	if err := s.client.Post(ctx, "/caregivers/"+caregiverID.String()+"/contact", req, &out); err != nil {
		s.mu.Lock()
		s.lastErr = api.MessageOr(err, "Failed to contact caregiver")
		s.mu.Unlock()
		return nil, err
	}
	return &out, nil
}

// Caregivers returns a copy of the search results.
func (s *Store) Caregivers() []Caregiver {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Caregiver, len(s.caregivers))
	copy(out, s.caregivers)
	return out
}

// TopCaregivers returns the n highest-rated caregivers, descending by average
// rating. The sort is stable: ties keep their original search order.
func (s *Store) TopCaregivers(n int) []Caregiver {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Caregiver, len(s.caregivers))
	copy(out, s.caregivers)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AverageRating > out[j].AverageRating
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Profile returns the own profile, nil before FetchProfile/CreateProfile.
func (s *Store) OwnProfile() *Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

// ProfileComplete reports whether the own profile has all required fields.
func (s *Store) ProfileComplete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile.Complete()
}

// Stats returns the last fetched profile stats.
func (s *Store) ProfileStats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
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

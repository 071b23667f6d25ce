package marketplace

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

func searchRoutes(caregivers []map[string]any) map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		"GET /caregivers/search": func(w http.ResponseWriter, r *http.Request) {
			testutil.JSON(w, http.StatusOK, caregivers)
		},
	}
}

func TestProfileComplete(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		want    bool
	}{
		{"all fields", Profile{HourlyRate: 25, ExperienceYears: 3, Specializations: []string{"dementia"}, Bio: "Experienced."}, true},
		{"zero rate", Profile{ExperienceYears: 3, Specializations: []string{"dementia"}, Bio: "x"}, false},
		{"no experience", Profile{HourlyRate: 25, Specializations: []string{"dementia"}, Bio: "x"}, false},
		{"no specializations", Profile{HourlyRate: 25, ExperienceYears: 3, Bio: "x"}, false},
		{"no bio", Profile{HourlyRate: 25, ExperienceYears: 3, Specializations: []string{"dementia"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.profile.Complete(); got != tt.want {
				t.Errorf("Complete() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTopCaregiversStableOrdering(t *testing.T) {
	store := newTestStore(t, searchRoutes([]map[string]any{
		{"id": 1, "name": "A", "average_rating": 3.0},
		{"id": 2, "name": "B", "average_rating": 4.5},
		{"id": 3, "name": "C", "average_rating": 4.5},
		{"id": 4, "name": "D", "average_rating": 2.0},
		{"id": 5, "name": "E", "average_rating": 5.0},
		{"id": 6, "name": "F", "average_rating": 1.0},
	}))

	if _, err := store.FetchCaregivers(context.Background()); err != nil {
		t.Fatalf("FetchCaregivers: %v", err)
	}

	top := store.TopCaregivers(3)
	if len(top) != 3 {
		t.Fatalf("len = %d, want 3", len(top))
	}
	// Descending by rating; B before C on the 4.5 tie (stable sort).
	wantNames := []string{"E", "B", "C"}
	for i, want := range wantNames {
		if top[i].Name != want {
			t.Errorf("top[%d] = %s, want %s", i, top[i].Name, want)
		}
	}
}

func TestTopCaregiversClampsCount(t *testing.T) {
	store := newTestStore(t, searchRoutes([]map[string]any{
		{"id": 1, "name": "A", "average_rating": 3.0},
	}))
	if _, err := store.FetchCaregivers(context.Background()); err != nil {
		t.Fatalf("FetchCaregivers: %v", err)
	}
	if got := store.TopCaregivers(5); len(got) != 1 {
		t.Errorf("len = %d, want 1", len(got))
	}
}

func TestUpdateProfilePatchesSearchEntry(t *testing.T) {
	routes := searchRoutes([]map[string]any{
		{"id": 7, "name": "Ana", "hourly_rate": 20.0, "average_rating": 4.0},
		{"id": 8, "name": "Tomas", "hourly_rate": 30.0, "average_rating": 3.5},
	})
	routes["PUT /caregivers/profile"] = func(w http.ResponseWriter, r *http.Request) {
		testutil.JSON(w, http.StatusOK, map[string]any{
			"id": 7, "hourly_rate": 28.0, "experience_years": 5,
			"specializations": []string{"dementia"}, "bio": "Updated bio",
		})
	}
	store := newTestStore(t, routes)

	if _, err := store.FetchCaregivers(context.Background()); err != nil {
		t.Fatalf("FetchCaregivers: %v", err)
	}
	updated, err := store.UpdateProfile(context.Background(), Profile{HourlyRate: 28})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if !updated.Complete() {
		t.Error("updated profile should be complete")
	}

	list := store.Caregivers()
	if list[0].HourlyRate != 28 || list[0].Bio != "Updated bio" {
		t.Errorf("search entry not patched: %+v", list[0])
	}
	if list[1].HourlyRate != 30 {
		t.Errorf("other entry must be untouched: %+v", list[1])
	}
}

func TestAddReviewAppendsToListing(t *testing.T) {
	routes := searchRoutes([]map[string]any{
		{"id": 7, "name": "Ana", "average_rating": 4.0, "reviews": []map[string]any{
			{"id": 1, "rating": 4.0, "comment": "Good"},
		}},
	})
	routes["POST /caregivers/7/reviews"] = func(w http.ResponseWriter, r *http.Request) {
		var req ReviewRequest
		testutil.DecodeBody(t, r, &req)
		testutil.JSON(w, http.StatusCreated, map[string]any{
			"id": 2, "rating": req.Rating, "comment": req.Comment,
		})
	}
	store := newTestStore(t, routes)

	if _, err := store.FetchCaregivers(context.Background()); err != nil {
		t.Fatalf("FetchCaregivers: %v", err)
	}
	review, err := store.AddReview(context.Background(), 7, ReviewRequest{Rating: 5, Comment: "Wonderful"})
	if err != nil {
		t.Fatalf("AddReview: %v", err)
	}
	if review.ID != 2 {
		t.Errorf("review.ID = %d, want 2", review.ID)
	}

	list := store.Caregivers()
	if len(list[0].Reviews) != 2 || list[0].Reviews[1].Comment != "Wonderful" {
		t.Errorf("review not appended to listing: %+v", list[0].Reviews)
	}
}

func TestFetchProfileErrorRecorded(t *testing.T) {
	store := newTestStore(t, map[string]http.HandlerFunc{})

	_, err := store.FetchProfile(context.Background())
	if err == nil {
		t.Fatal("expected error for missing profile")
	}
	if !api.IsNotFound(err) {
		t.Errorf("IsNotFound = false for %v", err)
	}
	if store.LastError() == "" {
		t.Error("LastError should be recorded")
	}
}

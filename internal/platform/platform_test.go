package platform

import (
	"compress/gzip"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spigell/nurse-matcher/internal/store"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	pages := [][]map[string]any{
		{
			{
				"id":                      "job-1",
				"title":                   "ICU Nurse",
				"required_certifications": []string{"BLS", "ACLS"},
				"min_experience_years":    2,
				"created_at":              "2024-05-01T09:00:00Z",
			},
			{"id": "job-2", "active": false, "created_at": "2024-05-02T09:00:00Z"},
		},
		{
			{"id": "job-3", "active": true, "min_experience_years": "4", "created_at": "2024-05-03T09:00:00Z"},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /jobs", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "active", r.URL.Query().Get("status"))
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"items":    pages[page],
			"found":    3,
			"pages":    len(pages),
			"page":     page,
			"per_page": 100,
		})
	})
	mux.HandleFunc("GET /profiles/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "cand-1" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		defer gz.Close()
		_ = json.NewEncoder(gz).Encode(map[string]any{
			"id":                  "cand-1",
			"name":                "Dana",
			"certifications":      []string{"BLS"},
			"years_of_experience": 3,
		})
	})
	mux.HandleFunc("GET /broken", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestActiveJobsFollowsPagination(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	client := New(srv.URL+"/", "secret", time.Second, zap.NewNop())

	jobs, err := client.ActiveJobs(t.Context())
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	assert.Equal(t, "job-1", jobs[0].ID)
	assert.Equal(t, []string{"BLS", "ACLS"}, jobs[0].RequiredCertifications)
	assert.Equal(t, 2, jobs[0].MinExperienceYears)
	assert.True(t, jobs[0].Active)
	assert.Equal(t, time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC), jobs[0].CreatedAt.UTC())

	assert.Equal(t, "job-3", jobs[1].ID)
	assert.Equal(t, 4, jobs[1].MinExperienceYears)
}

func TestGetProfile(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	client := New(srv.URL, "secret", time.Second, zap.NewNop())

	profile, err := client.GetProfile(t.Context(), "cand-1")
	require.NoError(t, err)
	assert.Equal(t, "Dana", profile.Name)
	assert.Equal(t, []string{"BLS"}, profile.Certifications)
	assert.Equal(t, 3, profile.YearsOfExperience)

	_, err = client.GetProfile(t.Context(), "ghost")
	require.ErrorIs(t, err, store.ErrProfileNotFound)
}

func TestGetJSONBadStatus(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	client := New(srv.URL, "", time.Second, zap.NewNop())

	var target map[string]any
	err := client.getJSON(t.Context(), "/broken", nil, &target)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spigell/nurse-matcher/internal/filtering"
	"github.com/spigell/nurse-matcher/internal/matching"
	"github.com/spigell/nurse-matcher/internal/store"
)

type memoryStore struct {
	profiles map[string]*matching.CandidateProfile
	jobs     []*matching.JobPosting
	jobsErr  error
}

func (m *memoryStore) GetProfile(_ context.Context, id string) (*matching.CandidateProfile, error) {
	profile, ok := m.profiles[id]
	if !ok {
		return nil, store.ErrProfileNotFound
	}
	return profile, nil
}

func (m *memoryStore) ActiveJobs(context.Context) ([]*matching.JobPosting, error) {
	if m.jobsErr != nil {
		return nil, m.jobsErr
	}
	return m.jobs, nil
}

func newMemoryStore() *memoryStore {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	return &memoryStore{
		profiles: map[string]*matching.CandidateProfile{
			"cand-1": {
				ID:                "cand-1",
				Certifications:    []string{"BLS", "NCLEX"},
				Skills:            []string{"Critical Care"},
				YearsOfExperience: 3,
			},
		},
		jobs: []*matching.JobPosting{
			{
				ID:                     "job-a",
				Facility:               "St. Mary",
				RequiredCertifications: []string{"BLS", "ACLS"},
				RequiredSkills:         []string{"Critical Care", "Patient Assessment"},
				MinExperienceYears:     2,
				Active:                 true,
				CreatedAt:              now,
			},
			{
				ID:        "job-b",
				Facility:  "Mercy General",
				Active:    true,
				CreatedAt: now.Add(time.Hour),
			},
		},
	}
}

func newService(st *memoryStore, filters *filtering.Filtering) *Service {
	orch := matching.NewOrchestrator(nil, nil, nil, matching.Options{}, zap.NewNop())
	return New(st, st, filters, orch, zap.NewNop())
}

func TestMatchCandidate(t *testing.T) {
	t.Parallel()

	results, err := newService(newMemoryStore(), nil).MatchCandidate(context.Background(), " cand-1 ")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "job-b", results[0].Job.ID)
	assert.Equal(t, 100, results[0].Score)
	assert.Equal(t, "job-a", results[1].Job.ID)
	assert.Equal(t, 55, results[1].Score)
}

func TestMatchCandidateAppliesFilters(t *testing.T) {
	t.Parallel()

	filters := filtering.New([]filtering.Filter{
		filtering.NewExcludedFacilities([]string{"mercy general"}),
	}, zap.NewNop())

	results, err := newService(newMemoryStore(), filters).MatchCandidate(context.Background(), "cand-1")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "job-a", results[0].Job.ID)
}

func TestMatchCandidateUnknownProfile(t *testing.T) {
	t.Parallel()

	_, err := newService(newMemoryStore(), nil).MatchCandidate(context.Background(), "ghost")
	require.ErrorIs(t, err, store.ErrProfileNotFound)
}

func TestMatchCandidateMissingIdentifier(t *testing.T) {
	t.Parallel()

	_, err := newService(newMemoryStore(), nil).MatchCandidate(context.Background(), "  ")
	require.ErrorIs(t, err, ErrMissingCandidate)
}

func TestMatchCandidateJobStoreFailure(t *testing.T) {
	t.Parallel()

	st := newMemoryStore()
	st.jobsErr = errors.New("connection refused")

	_, err := newService(st, nil).MatchCandidate(context.Background(), "cand-1")
	require.ErrorIs(t, err, st.jobsErr)
	assert.NotErrorIs(t, err, store.ErrProfileNotFound)
}

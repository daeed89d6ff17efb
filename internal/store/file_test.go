package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDocument = `
profiles:
  - id: c1
    name: Dana
    certifications: [BLS, NCLEX]
    skills: [Critical Care]
    years_of_experience: 3
  - id: c2
    years_of_experience: 0
jobs:
  - id: a
    title: ICU Nurse
    facility: St. Mary
    required_certifications: [BLS, ACLS]
    required_skills: [Critical Care, Patient Assessment]
    min_experience_years: 2
    active: true
    created_at: 2026-01-01T00:00:00Z
  - id: b
    title: Float Nurse
    active: true
    created_at: 2026-02-01T00:00:00Z
  - id: closed
    title: Old posting
    active: false
`

func writeDocument(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "store.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestFileStore(t *testing.T) {
	s, err := OpenFile(writeDocument(t, sampleDocument))
	require.NoError(t, err)

	ctx := context.Background()

	profile, err := s.GetProfile(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, []string{"BLS", "NCLEX"}, profile.Certifications)
	assert.Equal(t, 3, profile.YearsOfExperience)

	_, err = s.GetProfile(ctx, "missing")
	assert.True(t, errors.Is(err, ErrProfileNotFound), "got %v", err)

	jobs, err := s.ActiveJobs(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "a", jobs[0].ID)
	assert.Equal(t, 2, jobs[0].MinExperienceYears)
	assert.Equal(t, "b", jobs[1].ID)
	assert.True(t, jobs[1].CreatedAt.After(jobs[0].CreatedAt))

	profiles, err := s.ListProfiles(ctx)
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "c1", profiles[0].ID)
}

func TestFileStoreReturnsCopies(t *testing.T) {
	s, err := OpenFile(writeDocument(t, sampleDocument))
	require.NoError(t, err)

	profile, err := s.GetProfile(context.Background(), "c1")
	require.NoError(t, err)
	profile.YearsOfExperience = 99

	again, err := s.GetProfile(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, 3, again.YearsOfExperience)
}

func TestFileStoreTreatsMissingActiveAsOpen(t *testing.T) {
	s, err := OpenFile(writeDocument(t, `
jobs:
  - id: unflagged
    title: Night Shift RN
  - id: open
    active: true
  - id: closed
    active: false
`))
	require.NoError(t, err)

	jobs, err := s.ActiveJobs(context.Background())
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "unflagged", jobs[0].ID)
	assert.True(t, jobs[0].Active)
	assert.Equal(t, "Night Shift RN", jobs[0].Title)
	assert.Equal(t, "open", jobs[1].ID)
}

func TestOpenFileErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{name: "invalid yaml", content: "profiles: [\n"},
		{name: "profile without id", content: "profiles:\n  - name: x\n"},
		{name: "duplicate profile", content: "profiles:\n  - id: a\n  - id: a\n"},
		{name: "job without id", content: "jobs:\n  - title: x\n"},
		{name: "job that is not a mapping", content: "jobs:\n  - [a, b]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := OpenFile(writeDocument(t, tt.content))
			assert.Error(t, err)
		})
	}

	_, err := OpenFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
	_, err = OpenFile(" ")
	assert.Error(t, err)
}

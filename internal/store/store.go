package store

import (
	"context"
	"errors"

	"github.com/spigell/nurse-matcher/internal/matching"
)

// ErrProfileNotFound is returned when no profile exists for a candidate identifier.
var ErrProfileNotFound = errors.New("candidate profile not found")

// ProfileStore resolves candidate profiles.
type ProfileStore interface {
	GetProfile(ctx context.Context, candidateID string) (*matching.CandidateProfile, error)
}

// JobStore lists the currently active job postings.
type JobStore interface {
	ActiveJobs(ctx context.Context) ([]*matching.JobPosting, error)
}

// Lister is implemented by stores that can enumerate every profile.
type Lister interface {
	ListProfiles(ctx context.Context) ([]*matching.CandidateProfile, error)
}

// Store combines both lookups.
type Store interface {
	ProfileStore
	JobStore
}

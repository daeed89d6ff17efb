package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/nurse-matcher/internal/filtering"
	"github.com/spigell/nurse-matcher/internal/logger"
	"github.com/spigell/nurse-matcher/internal/matching"
	"github.com/spigell/nurse-matcher/internal/store"
)

// ErrMissingCandidate is returned when the request carries no candidate identifier.
var ErrMissingCandidate = errors.New("candidate identifier is required")

type matcher interface {
	Match(ctx context.Context, profile *matching.CandidateProfile, jobs []*matching.JobPosting) ([]matching.MatchResult, error)
}

// Service resolves a candidate, loads the active jobs and ranks them.
type Service struct {
	profiles store.ProfileStore
	jobs     store.JobStore
	filters  *filtering.Filtering
	matcher  matcher
	logger   *zap.Logger
}

// New builds a Service. filters may be nil.
func New(profiles store.ProfileStore, jobs store.JobStore, filters *filtering.Filtering, m matcher, log *zap.Logger) *Service {
	return &Service{
		profiles: profiles,
		jobs:     jobs,
		filters:  filters,
		matcher:  m,
		logger:   logger.WithFields(log),
	}
}

// MatchCandidate returns every active job ranked for candidateID.
// An unknown candidate yields an error wrapping store.ErrProfileNotFound.
func (s *Service) MatchCandidate(ctx context.Context, candidateID string) ([]matching.MatchResult, error) {
	candidateID = strings.TrimSpace(candidateID)
	if candidateID == "" {
		return nil, ErrMissingCandidate
	}

	profile, err := s.profiles.GetProfile(ctx, candidateID)
	if err != nil {
		return nil, fmt.Errorf("loading profile %q: %w", candidateID, err)
	}
	if profile == nil {
		return nil, fmt.Errorf("loading profile %q: %w", candidateID, store.ErrProfileNotFound)
	}

	jobs, err := s.jobs.ActiveJobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading active jobs: %w", err)
	}

	if s.filters != nil {
		jobs, err = s.filters.RunFilters(ctx, jobs)
		if err != nil {
			return nil, fmt.Errorf("filtering jobs: %w", err)
		}
	}

	s.logger.Debug("matching candidate",
		zap.String(logger.FieldCandidate, candidateID),
		zap.Int("jobs", len(jobs)),
	)

	return s.matcher.Match(ctx, profile, jobs)
}

package matching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/nurse-matcher/internal/ai"
	"github.com/spigell/nurse-matcher/internal/logger"
)

const DefaultAITimeout = 20 * time.Second

// AssistedScorer takes the headline score from a generative provider and
// everything else from the rule scorer.
type AssistedScorer struct {
	provider ai.Provider
	rules    *RuleScorer
	timeout  time.Duration
	logger   *zap.Logger
}

func NewAssistedScorer(provider ai.Provider, rules *RuleScorer, timeout time.Duration, log *zap.Logger) *AssistedScorer {
	if rules == nil {
		rules = NewRuleScorer(Weights{})
	}
	if timeout <= 0 {
		timeout = DefaultAITimeout
	}

	var provName, model string
	if provider != nil {
		provName, model = provider.Name(), provider.Model()
	}

	return &AssistedScorer{
		provider: provider,
		rules:    rules,
		timeout:  timeout,
		logger:   logger.WithCommonFields(log, provName, model),
	}
}

func (s *AssistedScorer) Name() string { return string(SourceAI) }

// Score asks the provider for a score. Every failure, including the per-call
// timeout, is returned as a *ScorerError and the result must be discarded.
func (s *AssistedScorer) Score(ctx context.Context, profile *CandidateProfile, job *JobPosting) (MatchResult, error) {
	jobID := ""
	if job != nil {
		jobID = job.ID
	}

	if s.provider == nil {
		return MatchResult{}, providerFailure(jobID, errors.New("provider is not configured"))
	}

	req, err := newAIRequest(profile, job)
	if err != nil {
		return MatchResult{}, providerFailure(jobID, err)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	assessment, err := s.provider.Assess(callCtx, req)
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			err = fmt.Errorf("timed out after %s: %w", s.timeout, err)
		}
		return MatchResult{}, providerFailure(jobID, err)
	}
	if assessment == nil {
		return MatchResult{}, providerFailure(jobID, ai.ErrEmptyResponse)
	}
	if math.IsNaN(assessment.Score) || math.IsInf(assessment.Score, 0) {
		return MatchResult{}, providerFailure(jobID, ai.ErrInvalidScore)
	}

	result := s.rules.Evaluate(profile, job)
	result.Score = clampScore(assessment.Score)
	result.Source = SourceAI
	result.Reason = assessment.Reason

	s.logger.Debug("ai score accepted",
		append(logger.MatchFields(req.CandidateID, jobID),
			zap.Float64("provider_score", assessment.Score),
			zap.Int("score", result.Score),
			zap.Duration("took", time.Since(start)),
		)...,
	)

	return result, nil
}

type profileSummary struct {
	Certifications    []string `json:"certifications"`
	Skills            []string `json:"skills"`
	YearsOfExperience int      `json:"years_of_experience"`
	Specialization    string   `json:"specialization,omitempty"`
	Location          string   `json:"location,omitempty"`
}

type jobSummary struct {
	Title                  string   `json:"title,omitempty"`
	Facility               string   `json:"facility,omitempty"`
	RequiredCertifications []string `json:"required_certifications"`
	RequiredSkills         []string `json:"required_skills"`
	MinExperienceYears     int      `json:"min_experience_years"`
	Specialization         string   `json:"specialization,omitempty"`
	Location               string   `json:"location,omitempty"`
}

func newAIRequest(profile *CandidateProfile, job *JobPosting) (ai.Request, error) {
	if profile == nil {
		profile = &CandidateProfile{}
	}
	if job == nil {
		job = &JobPosting{}
	}

	profileJSON, err := json.Marshal(profileSummary{
		Certifications:    CanonicalSet(profile.Certifications).Sorted(),
		Skills:            CanonicalSet(profile.Skills).Sorted(),
		YearsOfExperience: max(profile.YearsOfExperience, 0),
		Specialization:    profile.Specialization,
		Location:          profile.Location,
	})
	if err != nil {
		return ai.Request{}, fmt.Errorf("marshal profile summary: %w", err)
	}

	jobJSON, err := json.Marshal(jobSummary{
		Title:                  job.Title,
		Facility:               job.Facility,
		RequiredCertifications: CanonicalSet(job.RequiredCertifications).Sorted(),
		RequiredSkills:         CanonicalSet(job.RequiredSkills).Sorted(),
		MinExperienceYears:     max(job.MinExperienceYears, 0),
		Specialization:         job.Specialization,
		Location:               job.Location,
	})
	if err != nil {
		return ai.Request{}, fmt.Errorf("marshal job summary: %w", err)
	}

	return ai.Request{
		CandidateID: profile.ID,
		JobID:       job.ID,
		Profile:     string(profileJSON),
		Job:         string(jobJSON),
	}, nil
}

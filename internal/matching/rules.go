package matching

import (
	"context"
	"fmt"
	"math"
)

const (
	MinScore = 0
	MaxScore = 100
)

// Weights splits the 100 point budget across the rule components.
type Weights struct {
	Certifications float64 `mapstructure:"certifications"`
	Skills         float64 `mapstructure:"skills"`
	Experience     float64 `mapstructure:"experience"`
	Affinity       float64 `mapstructure:"affinity"`
}

// DefaultWeights returns the 40/30/20/10 split.
func DefaultWeights() Weights {
	return Weights{
		Certifications: 40,
		Skills:         30,
		Experience:     20,
		Affinity:       10,
	}
}

// Validate rejects negative weights and budgets that do not add up to 100.
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"certifications": w.Certifications,
		"skills":         w.Skills,
		"experience":     w.Experience,
		"affinity":       w.Affinity,
	} {
		if v < 0 || math.IsNaN(v) {
			return fmt.Errorf("%s weight must be non-negative, got %v", name, v)
		}
	}

	total := w.Certifications + w.Skills + w.Experience + w.Affinity
	if math.Abs(total-MaxScore) > 1e-9 {
		return fmt.Errorf("weights must add up to %d, got %v", MaxScore, total)
	}
	return nil
}

// RuleScorer is the deterministic weighted-sum scorer.
type RuleScorer struct {
	weights Weights
}

// NewRuleScorer returns a scorer using w. A zero Weights value selects the defaults.
func NewRuleScorer(w Weights) *RuleScorer {
	if w == (Weights{}) {
		w = DefaultWeights()
	}
	return &RuleScorer{weights: w}
}

func (s *RuleScorer) Name() string { return string(SourceRules) }

// Score implements Scorer. It never returns an error.
func (s *RuleScorer) Score(_ context.Context, profile *CandidateProfile, job *JobPosting) (MatchResult, error) {
	return s.Evaluate(profile, job), nil
}

// Evaluate scores the pair. Missing optional fields count as "no claim".
// The affinity bonus needs a specialization or location match, except on a
// posting without any requirement, which scores the maximum.
func (s *RuleScorer) Evaluate(profile *CandidateProfile, job *JobPosting) MatchResult {
	if profile == nil {
		profile = &CandidateProfile{}
	}
	posting := job
	if posting == nil {
		posting = &JobPosting{}
	}

	certScore, matchedCerts := overlap(s.weights.Certifications, profile.Certifications, posting.RequiredCertifications)
	skillScore, matchedSkills := overlap(s.weights.Skills, profile.Skills, posting.RequiredSkills)
	expScore, expMatch := experience(s.weights.Experience, profile.YearsOfExperience, posting.MinExperienceYears)

	affinity := 0.0
	if unconstrained(posting) || sameLabel(profile.Specialization, posting.Specialization) || sameLabel(profile.Location, posting.Location) {
		affinity = s.weights.Affinity
	}

	return MatchResult{
		Job:                   job,
		Score:                 clampScore(certScore + skillScore + expScore + affinity),
		MatchedCertifications: matchedCerts,
		MatchedSkills:         matchedSkills,
		ExperienceMatch:       expMatch,
		Source:                SourceRules,
	}
}

// overlap awards weight*|matched|/N. No requirements means full credit and nothing matched.
func overlap(weight float64, held, required []string) (float64, []string) {
	requiredSet := CanonicalSet(required)
	if requiredSet.Len() == 0 {
		return weight, []string{}
	}

	matched := requiredSet.Intersect(CanonicalSet(held))
	return weight * float64(len(matched)) / float64(requiredSet.Len()), matched
}

// unconstrained reports whether the posting states no requirement and no
// preference on any dimension. Any candidate fully satisfies such a posting.
func unconstrained(job *JobPosting) bool {
	return CanonicalSet(job.RequiredCertifications).Len() == 0 &&
		CanonicalSet(job.RequiredSkills).Len() == 0 &&
		job.MinExperienceYears <= 0 &&
		Canonicalize(job.Specialization) == "" &&
		Canonicalize(job.Location) == ""
}

func experience(weight float64, years, minYears int) (float64, bool) {
	if years < 0 {
		years = 0
	}
	if minYears <= 0 || years >= minYears {
		return weight, true
	}
	return weight * float64(years) / float64(minYears), false
}

func clampScore(v float64) int {
	if math.IsNaN(v) {
		return MinScore
	}
	rounded := math.Round(v)
	switch {
	case rounded < MinScore:
		return MinScore
	case rounded > MaxScore:
		return MaxScore
	default:
		return int(rounded)
	}
}

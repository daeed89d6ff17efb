package matching

import (
	"context"
	"time"
)

// CandidateProfile is the nurse profile consumed by the engine. Nil collections mean "no claims".
type CandidateProfile struct {
	ID                string   `json:"id" yaml:"id" mapstructure:"id"`
	Name              string   `json:"name,omitempty" yaml:"name" mapstructure:"name"`
	Certifications    []string `json:"certifications,omitempty" yaml:"certifications" mapstructure:"certifications"`
	Skills            []string `json:"skills,omitempty" yaml:"skills" mapstructure:"skills"`
	YearsOfExperience int      `json:"years_of_experience" yaml:"years_of_experience" mapstructure:"years_of_experience"`
	Specialization    string   `json:"specialization,omitempty" yaml:"specialization" mapstructure:"specialization"`
	Location          string   `json:"location,omitempty" yaml:"location" mapstructure:"location"`
}

// JobPosting is an open role read from the job store.
type JobPosting struct {
	ID                     string    `json:"id" yaml:"id" mapstructure:"id"`
	Title                  string    `json:"title,omitempty" yaml:"title" mapstructure:"title"`
	Facility               string    `json:"facility,omitempty" yaml:"facility" mapstructure:"facility"`
	RequiredCertifications []string  `json:"required_certifications,omitempty" yaml:"required_certifications" mapstructure:"required_certifications"`
	RequiredSkills         []string  `json:"required_skills,omitempty" yaml:"required_skills" mapstructure:"required_skills"`
	MinExperienceYears     int       `json:"min_experience_years" yaml:"min_experience_years" mapstructure:"min_experience_years"`
	Specialization         string    `json:"specialization,omitempty" yaml:"specialization" mapstructure:"specialization"`
	Location               string    `json:"location,omitempty" yaml:"location" mapstructure:"location"`
	Active                 bool      `json:"active" yaml:"active" mapstructure:"active"`
	CreatedAt              time.Time `json:"created_at" yaml:"created_at" mapstructure:"created_at"`
}

// Source names the scorer that produced the headline score of a result.
type Source string

const (
	SourceRules Source = "rules"
	SourceAI    Source = "ai"
)

// MatchResult is the scored (profile, job) pair. It is built once and never mutated afterwards.
type MatchResult struct {
	Job                   *JobPosting `json:"job"`
	Score                 int         `json:"match_score"`
	MatchedCertifications []string    `json:"matched_certifications"`
	MatchedSkills         []string    `json:"matched_skills"`
	ExperienceMatch       bool        `json:"experience_match"`
	Source                Source      `json:"source"`
	Reason                string      `json:"reason,omitempty"`
}

// Scorer scores a single (profile, job) pair.
type Scorer interface {
	Name() string
	Score(ctx context.Context, profile *CandidateProfile, job *JobPosting) (MatchResult, error)
}

package ai

import (
	"context"
	_ "embed"
	"errors"
	"strings"
)

var (
	// ErrEmptyResponse is returned when the provider answered with no text.
	ErrEmptyResponse = errors.New("provider returned empty response")
	// ErrInvalidScore is returned when the response carries no usable numeric score.
	ErrInvalidScore = errors.New("provider response has no valid numeric score")
)

// SystemInstruction is sent as the system role by every provider.
const SystemInstruction = "You are a healthcare recruitment assistant. You score candidate to job compatibility and answer with JSON only."

//go:embed prompt.md
var promptTemplate string

// Request carries the serialized candidate and job summaries.
type Request struct {
	CandidateID string
	JobID       string
	Profile     string
	Job         string
}

// Assessment is a validated provider answer.
type Assessment struct {
	Score  float64
	Reason string
	Raw    string
}

// Provider is a generative scoring backend.
type Provider interface {
	Name() string
	Model() string
	Assess(ctx context.Context, req Request) (*Assessment, error)
}

// BuildPrompt renders the user prompt for req.
func BuildPrompt(req Request) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Candidate:\n{{PROFILE_JSON}}\n\nJob posting:\n{{JOB_JSON}}\n\nJSON Response:"
	}
	prompt := strings.ReplaceAll(template, "{{PROFILE_JSON}}", req.Profile)
	prompt = strings.ReplaceAll(prompt, "{{JOB_JSON}}", req.Job)
	return prompt
}

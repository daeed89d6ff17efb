package matching

import (
	"errors"
	"fmt"
)

// ErrProviderFailure marks any failure of the AI-assisted path. Callers fall back to the rule scorer.
var ErrProviderFailure = errors.New("scoring provider failure")

// ScorerError reports which job failed on the AI-assisted path and why.
type ScorerError struct {
	JobID string
	Err   error
}

func (e *ScorerError) Error() string {
	return fmt.Sprintf("ai scoring for job %q: %v", e.JobID, e.Err)
}

func (e *ScorerError) Unwrap() []error {
	return []error{ErrProviderFailure, e.Err}
}

func providerFailure(jobID string, err error) error {
	return &ScorerError{JobID: jobID, Err: err}
}

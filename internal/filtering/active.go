package filtering

import (
	"context"

	"github.com/spigell/nurse-matcher/internal/matching"
)

type activeFilter struct {
	enabled bool
	reason  string
}

// NewActive creates a filter that drops inactive postings and nil entries.
func NewActive() Filter {
	return &activeFilter{enabled: true}
}

func (f *activeFilter) Name() string { return "active" }

func (f *activeFilter) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *activeFilter) IsEnabled() bool { return f.enabled }

func (f *activeFilter) Validate() error { return nil }

func (f *activeFilter) Apply(_ context.Context, jobs []*matching.JobPosting) ([]*matching.JobPosting, Step, error) {
	kept, dropped := keep(jobs, func(j *matching.JobPosting) bool { return j.Active })
	return kept, Step{Initial: len(jobs), Dropped: len(dropped), Left: len(kept)}, nil
}

func (f *activeFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.enabled, Reason: f.reason}
}

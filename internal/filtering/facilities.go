package filtering

import (
	"context"
	"fmt"
	"strings"

	"github.com/spigell/nurse-matcher/internal/matching"
)

type facilitiesFilter struct {
	facilities []string
	excluded   matching.LabelSet
}

// NewExcludedFacilities creates a filter that removes postings of the configured facilities.
func NewExcludedFacilities(facilities []string) Filter {
	return &facilitiesFilter{facilities: facilities}
}

func (f *facilitiesFilter) Name() string { return "exclude_facilities" }

func (f *facilitiesFilter) Disable(string) {}

func (f *facilitiesFilter) IsEnabled() bool { return true }

func (f *facilitiesFilter) Validate() error {
	for idx, facility := range f.facilities {
		if strings.TrimSpace(facility) == "" {
			return fmt.Errorf("facility #%d is empty", idx)
		}
	}
	f.excluded = matching.CanonicalSet(f.facilities)
	return nil
}

func (f *facilitiesFilter) Apply(_ context.Context, jobs []*matching.JobPosting) ([]*matching.JobPosting, Step, error) {
	if f.excluded.Len() == 0 {
		return jobs, Step{Initial: len(jobs), Dropped: 0, Left: len(jobs)}, nil
	}

	kept, dropped := keep(jobs, func(j *matching.JobPosting) bool {
		return !f.excluded.Has(matching.Canonicalize(j.Facility))
	})
	return kept, Step{Initial: len(jobs), Dropped: len(dropped), Left: len(kept)}, nil
}

func (f *facilitiesFilter) Status() Status {
	details := map[string]string{}
	if len(f.facilities) > 0 {
		details["facilities"] = strings.Join(f.facilities, ",")
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}

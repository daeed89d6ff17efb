package store

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spigell/nurse-matcher/internal/matching"
)

// File is a read-only store backed by a YAML document with "profiles" and "jobs" lists.
type File struct {
	path     string
	profiles map[string]*matching.CandidateProfile
	jobs     []*matching.JobPosting
}

type fileDocument struct {
	Profiles []*matching.CandidateProfile `yaml:"profiles"`
	Jobs     []yaml.Node                  `yaml:"jobs"`
}

// OpenFile loads the document at path.
func OpenFile(path string) (*File, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("store file path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading store file %q: %w", path, err)
	}

	var doc fileDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing store file %q: %w", path, err)
	}

	f := &File{
		path:     path,
		profiles: make(map[string]*matching.CandidateProfile, len(doc.Profiles)),
	}

	for idx, profile := range doc.Profiles {
		if profile == nil || strings.TrimSpace(profile.ID) == "" {
			return nil, fmt.Errorf("profile #%d in %q has no id", idx, path)
		}
		if _, dup := f.profiles[profile.ID]; dup {
			return nil, fmt.Errorf("duplicate profile id %q in %q", profile.ID, path)
		}
		f.profiles[profile.ID] = profile
	}

	for idx := range doc.Jobs {
		// A posting without an "active" key is open, as in the other stores.
		job := &matching.JobPosting{Active: true}
		if err := doc.Jobs[idx].Decode(job); err != nil {
			return nil, fmt.Errorf("parsing job #%d in %q: %w", idx, path, err)
		}
		if strings.TrimSpace(job.ID) == "" {
			return nil, fmt.Errorf("job #%d in %q has no id", idx, path)
		}
		f.jobs = append(f.jobs, job)
	}

	return f, nil
}

func (f *File) GetProfile(ctx context.Context, candidateID string) (*matching.CandidateProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	profile, ok := f.profiles[candidateID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, candidateID)
	}

	cp := *profile
	return &cp, nil
}

// ActiveJobs returns copies of the active postings in document order. A posting
// is active unless it says "active: false".
func (f *File) ActiveJobs(ctx context.Context) ([]*matching.JobPosting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	jobs := make([]*matching.JobPosting, 0, len(f.jobs))
	for _, job := range f.jobs {
		if !job.Active {
			continue
		}
		cp := *job
		jobs = append(jobs, &cp)
	}
	return jobs, nil
}

func (f *File) ListProfiles(ctx context.Context) ([]*matching.CandidateProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	profiles := make([]*matching.CandidateProfile, 0, len(f.profiles))
	for _, profile := range f.profiles {
		cp := *profile
		profiles = append(profiles, &cp)
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].ID < profiles[j].ID })
	return profiles, nil
}

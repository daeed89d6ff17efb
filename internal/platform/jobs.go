package platform

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/spigell/nurse-matcher/internal/matching"
	"github.com/spigell/nurse-matcher/internal/store"
)

// ActiveJobs fetches every page of active postings.
func (c *Client) ActiveJobs(ctx context.Context) ([]*matching.JobPosting, error) {
	items, err := c.getItems(ctx, jobsPath, url.Values{"status": []string{"active"}})
	if err != nil {
		return nil, fmt.Errorf("listing active jobs: %w", err)
	}

	// The listing is already filtered by status, so a missing flag means active.
	for _, item := range items {
		if _, ok := item["active"]; !ok {
			item["active"] = true
		}
	}

	var jobs []*matching.JobPosting
	if err := decode(items, &jobs); err != nil {
		return nil, fmt.Errorf("decoding jobs: %w", err)
	}

	active := jobs[:0]
	for _, job := range jobs {
		if job != nil && job.Active {
			active = append(active, job)
		}
	}
	return active, nil
}

// GetProfile fetches a single candidate profile.
func (c *Client) GetProfile(ctx context.Context, candidateID string) (*matching.CandidateProfile, error) {
	var raw map[string]any
	err := c.getJSON(ctx, profilesPath+"/"+url.PathEscape(candidateID), nil, &raw)
	if errors.Is(err, errNotFound) {
		return nil, fmt.Errorf("%w: %s", store.ErrProfileNotFound, candidateID)
	}
	if err != nil {
		return nil, fmt.Errorf("fetching profile %q: %w", candidateID, err)
	}

	var profile matching.CandidateProfile
	if err := decode(raw, &profile); err != nil {
		return nil, fmt.Errorf("decoding profile %q: %w", candidateID, err)
	}
	return &profile, nil
}

func decode(input, result any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           result,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeHookFunc(time.RFC3339),
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

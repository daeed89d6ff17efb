package matching

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/nurse-matcher/internal/logger"
	"github.com/spigell/nurse-matcher/internal/notify"
)

const (
	DefaultConcurrency     = 4
	DefaultNotifyThreshold = 70
	DefaultNotifyTimeout   = 10 * time.Second
)

// Options tunes the orchestrator. Zero values and a nil threshold select the defaults.
type Options struct {
	Concurrency     int
	NotifyThreshold *int
	NotifyTimeout   time.Duration
}

// Validate rejects a threshold outside the score range.
func (o Options) Validate() error {
	if o.NotifyThreshold != nil && (*o.NotifyThreshold < MinScore || *o.NotifyThreshold > MaxScore) {
		return fmt.Errorf("notify threshold must be within [%d, %d], got %d", MinScore, MaxScore, *o.NotifyThreshold)
	}
	if o.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative, got %d", o.Concurrency)
	}
	return nil
}

func (o Options) threshold() int {
	if o.NotifyThreshold == nil {
		return DefaultNotifyThreshold
	}
	return *o.NotifyThreshold
}

func (o Options) withDefaults() Options {
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.NotifyTimeout <= 0 {
		o.NotifyTimeout = DefaultNotifyTimeout
	}
	if o.NotifyThreshold != nil {
		threshold := *o.NotifyThreshold
		o.NotifyThreshold = &threshold
	}
	return o
}

// Orchestrator ranks every job for one candidate. It keeps no state between
// calls apart from the notifications still in flight.
type Orchestrator struct {
	rules    *RuleScorer
	assisted Scorer
	gateway  notify.Gateway
	opts     Options
	logger   *zap.Logger

	inflight sync.WaitGroup
}

// NewOrchestrator wires the scorers. A nil assisted scorer means the AI
// capability is unavailable and every job is scored by rules. A nil gateway
// disables notifications.
func NewOrchestrator(rules *RuleScorer, assisted Scorer, gateway notify.Gateway, opts Options, log *zap.Logger) *Orchestrator {
	if rules == nil {
		rules = NewRuleScorer(Weights{})
	}
	return &Orchestrator{
		rules:    rules,
		assisted: assisted,
		gateway:  gateway,
		opts:     opts.withDefaults(),
		logger:   logger.WithFields(log),
	}
}

// AIEnabled reports whether the AI-assisted path is attempted.
func (o *Orchestrator) AIEnabled() bool {
	return o.assisted != nil
}

// Match scores profile against jobs and returns the ranked results. The only
// error is the cancellation of ctx, in which case nothing is returned.
func (o *Orchestrator) Match(ctx context.Context, profile *CandidateProfile, jobs []*JobPosting) ([]MatchResult, error) {
	if profile == nil {
		profile = &CandidateProfile{}
	}

	postings := make([]*JobPosting, 0, len(jobs))
	for _, job := range jobs {
		if job != nil {
			postings = append(postings, job)
		}
	}

	results := make([]MatchResult, len(postings))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.opts.Concurrency)

	for i, job := range postings {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = o.scoreOne(gctx, profile, job)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	Rank(results)

	o.logger.Debug("matching completed",
		zap.String(logger.FieldCandidate, profile.ID),
		zap.Int("jobs", len(results)),
		zap.Bool("ai_enabled", o.AIEnabled()),
	)

	if len(results) > 0 && results[0].Score >= o.opts.threshold() {
		o.dispatch(ctx, profile, results[0])
	}

	return results, nil
}

// scoreOne never fails: any AI failure is replaced by the rule result for this job only.
func (o *Orchestrator) scoreOne(ctx context.Context, profile *CandidateProfile, job *JobPosting) MatchResult {
	if o.assisted == nil {
		return o.rules.Evaluate(profile, job)
	}

	result, err := o.assisted.Score(ctx, profile, job)
	if err == nil {
		return result
	}

	if ctx.Err() == nil {
		o.logger.Warn("ai scoring failed, falling back to rules",
			append(logger.MatchFields(profile.ID, job.ID), zap.Error(err))...,
		)
	}
	return o.rules.Evaluate(profile, job)
}

// Rank sorts results by score, then newest posting, then posting ID.
func Rank(results []MatchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		ac, bc := createdAt(a.Job), createdAt(b.Job)
		if !ac.Equal(bc) {
			return ac.After(bc)
		}
		return jobID(a.Job) < jobID(b.Job)
	})
}

// dispatch sends the top-match notification without blocking the caller.
// Failures are logged and dropped.
func (o *Orchestrator) dispatch(ctx context.Context, profile *CandidateProfile, top MatchResult) {
	if o.gateway == nil {
		return
	}

	msg := notify.Message{
		CandidateID: profile.ID,
		JobID:       jobID(top.Job),
		Score:       top.Score,
	}
	if top.Job != nil {
		msg.JobTitle = top.Job.Title
		msg.Facility = top.Job.Facility
	}

	fields := append(logger.MatchFields(msg.CandidateID, msg.JobID),
		zap.Int("score", msg.Score),
		zap.String("gateway", o.gateway.Name()),
	)

	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.opts.NotifyTimeout)

	o.inflight.Add(1)
	go func() {
		defer o.inflight.Done()
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				o.logger.Error("notification gateway panicked", append(fields, zap.Error(fmt.Errorf("%v", r)))...)
			}
		}()

		if err := o.gateway.Notify(notifyCtx, msg); err != nil {
			o.logger.Warn("sending match notification failed", append(fields, zap.Error(err))...)
			return
		}
		o.logger.Info("match notification sent", fields...)
	}()
}

// Wait blocks until every notification dispatched so far has finished.
func (o *Orchestrator) Wait() {
	o.inflight.Wait()
}

func createdAt(job *JobPosting) time.Time {
	if job == nil {
		return time.Time{}
	}
	return job.CreatedAt
}

func jobID(job *JobPosting) string {
	if job == nil {
		return ""
	}
	return job.ID
}

package notify

import (
	"context"
	"sync"
	"time"
)

// Dedup drops repeated notifications for the same (candidate, job) pair within a cool-down window.
type Dedup struct {
	next     Gateway
	cooldown time.Duration
	now      func() time.Time

	mu   sync.Mutex
	sent map[string]time.Time
}

// NewDedup wraps next. A non-positive cooldown disables de-duplication and returns next as is.
func NewDedup(next Gateway, cooldown time.Duration) Gateway {
	if cooldown <= 0 {
		return next
	}
	return &Dedup{
		next:     next,
		cooldown: cooldown,
		now:      time.Now,
		sent:     make(map[string]time.Time),
	}
}

func (d *Dedup) Name() string { return d.next.Name() }

func (d *Dedup) Notify(ctx context.Context, msg Message) error {
	key := msg.CandidateID + "\x00" + msg.JobID

	d.mu.Lock()
	now := d.now()
	if last, ok := d.sent[key]; ok && now.Sub(last) < d.cooldown {
		d.mu.Unlock()
		return nil
	}
	d.sent[key] = now
	d.pruneLocked(now)
	d.mu.Unlock()

	if err := d.next.Notify(ctx, msg); err != nil {
		d.mu.Lock()
		if d.sent[key].Equal(now) {
			delete(d.sent, key)
		}
		d.mu.Unlock()
		return err
	}
	return nil
}

func (d *Dedup) pruneLocked(now time.Time) {
	for key, at := range d.sent {
		if now.Sub(at) >= d.cooldown {
			delete(d.sent, key)
		}
	}
}

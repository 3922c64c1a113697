package service

import (
	"context"
	"slices"
	"sync"
	"time"

	"querycanon/internal/platform/logger"
	jobsdom "querycanon/internal/services/jobs/domain"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// drain is the bookkeeping shared by the workers of one RunLoop
type drain struct {
	mu       sync.Mutex
	excluded map[int64]struct{}
	attempts map[int64]int
	rep      jobsdom.DrainReport
}

func newDrain(runID string) *drain {
	return &drain{
		excluded: make(map[int64]struct{}),
		attempts: make(map[int64]int),
		rep:      jobsdom.DrainReport{RunID: runID},
	}
}

func (d *drain) exclude() []int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]int64, 0, len(d.excluded))
	for id := range d.excluded {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

func (d *drain) processed(hit bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rep.Processed++
	if hit {
		d.rep.Hits++
	} else {
		d.rep.Misses++
	}
}

func (d *drain) rejected(id int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rep.Rejected++
	d.excluded[id] = struct{}{}
}

// retried records a retryable failure and returns the attempt count; giveUp is true once
// the row has used maxAttempts and is excluded
func (d *drain) retried(id int64, maxAttempts int) (attempt int, giveUp bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rep.Retried++
	d.attempts[id]++
	attempt = d.attempts[id]
	if attempt < maxAttempts {
		return attempt, false
	}
	if id != 0 {
		d.excluded[id] = struct{}{}
		d.rep.GaveUp++
	}
	return attempt, true
}

func (d *drain) report() jobsdom.DrainReport {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rep
}

// RunLoop drains every claimable row once and reports what happened.
// A fatal result from any worker cancels the others and is returned with the partial report
func (s *Service) RunLoop(ctx context.Context) (jobsdom.DrainReport, error) {
	runID := uuid.NewString()
	ctx = logger.WithRun(ctx, runID)
	l := logger.C(ctx).With().Str("mod", "jobs").Logger()

	start := time.Now()
	d := newDrain(runID)
	l.Info().Int("workers", s.Cfg.Workers).Msg("jobs: drain start")

	g, gctx := errgroup.WithContext(ctx)
	for range s.Cfg.Workers {
		g.Go(func() error { return s.work(gctx, d) })
	}
	err := g.Wait()

	rep := d.report()
	rep.Took = time.Since(start)

	ev := l.Info()
	if err != nil {
		ev = l.Error().Err(err)
	}
	ev.Int("processed", rep.Processed).
		Int("hits", rep.Hits).
		Int("misses", rep.Misses).
		Int("retried", rep.Retried).
		Int("rejected", rep.Rejected).
		Int("gave_up", rep.GaveUp).
		Dur("took", rep.Took).
		Msg("jobs: drain done")
	return rep, err
}

func (s *Service) work(ctx context.Context, d *drain) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		res := s.runOne(ctx, d.exclude())
		s.logResult(ctx, res)

		switch res.Kind {
		case jobsdom.KindEmpty:
			return nil
		case jobsdom.KindProcessed:
			d.processed(res.Hit)
		case jobsdom.KindRejected:
			if res.JobID == 0 {
				// the claim itself was refused
				return res.Err
			}
			d.rejected(res.JobID)
		case jobsdom.KindRetryable:
			attempt, giveUp := d.retried(res.JobID, s.Cfg.MaxAttempts)
			if giveUp && res.JobID == 0 {
				// the claim itself keeps failing; no row to set aside
				return res.Err
			}
			if giveUp {
				continue
			}
			if err := wait(ctx, s.backoff(attempt)); err != nil {
				return err
			}
		default:
			return res.Err
		}
	}
}

func wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

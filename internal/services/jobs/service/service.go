// Package service drains query_logs through the canonicalizer into the normalization cache
package service

import (
	"context"
	"time"

	"querycanon/internal/modkit/repokit"
	"querycanon/internal/platform/logger"
	cachedom "querycanon/internal/services/normcache/domain"
	jobsdom "querycanon/internal/services/jobs/domain"
)

// Canonicalizer turns raw text into a cache key
type Canonicalizer interface {
	Canonicalize(ctx context.Context, text string) (string, error)
}

// Config controls drain concurrency and retry behavior
type Config struct {
	// Workers is the number of concurrent consumers in one drain
	Workers int

	// MaxAttempts bounds retryable failures per row within one drain
	MaxAttempts int

	// RetryBackoff is the first wait after a retryable failure; it doubles per attempt
	RetryBackoff time.Duration

	HitMode jobsdom.HitMode
}

const maxBackoff = 5 * time.Second

// Service wires the job and cache repos onto one TxRunner
type Service struct {
	DB     repokit.TxRunner
	Binder repokit.Binder[jobsdom.Repo]
	Cache  repokit.Binder[cachedom.Repo]
	Canon  Canonicalizer
	Cfg    Config
}

// New constructs the job service
func New(
	db repokit.TxRunner,
	binder repokit.Binder[jobsdom.Repo],
	cache repokit.Binder[cachedom.Repo],
	canon Canonicalizer,
	cfg Config,
) *Service {
	if db == nil {
		panic("jobs.Service requires a non nil TxRunner")
	}
	if binder == nil || cache == nil {
		panic("jobs.Service requires non nil Repo binders")
	}
	if canon == nil {
		panic("jobs.Service requires a Canonicalizer")
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = 200 * time.Millisecond
	}
	if cfg.HitMode == "" {
		cfg.HitMode = jobsdom.HitExisting
	}
	return &Service{DB: db, Binder: binder, Cache: cache, Canon: canon, Cfg: cfg}
}

// RunOne claims and processes a single row in one transaction
func (s *Service) RunOne(ctx context.Context) jobsdom.Result {
	res := s.runOne(ctx, nil)
	s.logResult(ctx, res)
	return res
}

func (s *Service) runOne(ctx context.Context, exclude []int64) jobsdom.Result {
	var res jobsdom.Result
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		jobs := s.Binder.Bind(q)
		job, ok, err := jobs.ClaimNext(ctx, exclude)
		if err != nil {
			return err
		}
		if !ok {
			res.Kind = jobsdom.KindEmpty
			return nil
		}
		res.JobID = job.ID

		key, err := s.Canon.Canonicalize(ctx, job.RawText)
		if err != nil {
			return err
		}
		res.Key = key

		e, err := s.Cache.Bind(q).Upsert(ctx, key)
		if err != nil {
			return err
		}

		hit := s.hit(job, e)
		if err := jobs.MarkDone(ctx, job.ID, hit, e.ID); err != nil {
			return err
		}
		res.Kind, res.Hit, res.CacheRef = jobsdom.KindProcessed, hit, e.ID
		return nil
	})
	if err != nil {
		// the commit can fail after fn succeeded; nothing from the tx survives
		return jobsdom.Result{Kind: Classify(err), JobID: res.JobID, Key: res.Key, Err: err}
	}
	return res
}

func (s *Service) hit(job jobsdom.Job, e cachedom.Entry) bool {
	if s.Cfg.HitMode == jobsdom.HitChanged {
		return e.Key != job.RawText
	}
	return !e.Created()
}

func (s *Service) backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := s.Cfg.RetryBackoff << uint(attempt-1)
	if d <= 0 || d > maxBackoff {
		return maxBackoff
	}
	return d
}

func (s *Service) logResult(ctx context.Context, res jobsdom.Result) {
	if res.JobID != 0 {
		ctx = logger.WithJob(ctx, res.JobID)
	}
	l := logger.C(ctx).With().Str("mod", "jobs").Str("kind", string(res.Kind)).Logger()
	switch res.Kind {
	case jobsdom.KindProcessed:
		l.Debug().Str("key", res.Key).Bool("hit", res.Hit).Int64("normalization_id", res.CacheRef).Msg("jobs: row processed")
	case jobsdom.KindEmpty:
		l.Debug().Msg("jobs: nothing claimable")
	case jobsdom.KindRetryable, jobsdom.KindRejected:
		l.Warn().Err(res.Err).Msg("jobs: row rolled back")
	case jobsdom.KindFatal:
		l.Error().Err(res.Err).Msg("jobs: run aborted")
	}
}

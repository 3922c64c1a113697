package module

import (
	"time"

	"querycanon/internal/platform/config"
	jobsdom "querycanon/internal/services/jobs/domain"
)

// Options for the jobs module
type Options struct {
	Workers          int
	MaxAttempts      int
	RetryBackoff     time.Duration
	HitMode          jobsdom.HitMode
	StatementTimeout time.Duration
	LockTimeout      time.Duration
}

// FromConfig fills options from environment
// CORE_JOBS_WORKERS (default 1) is the number of concurrent consumers per drain
// CORE_JOBS_MAX_ATTEMPTS (default 3) bounds retryable failures per row per drain
// CORE_JOBS_RETRY_BACKOFF (default 200ms) is the first retry wait, doubled per attempt
// CORE_JOBS_HIT_MODE (default "existing") is "existing" or "changed"
// CORE_JOBS_STATEMENT_TIMEOUT / CORE_JOBS_LOCK_TIMEOUT (default 0, off) bound each job transaction
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("CORE_JOBS_")
	return Options{
		Workers:          c.MayInt("WORKERS", 1),
		MaxAttempts:      c.MayInt("MAX_ATTEMPTS", 3),
		RetryBackoff:     c.MayDuration("RETRY_BACKOFF", 200*time.Millisecond),
		HitMode:          jobsdom.HitMode(c.MayEnum("HIT_MODE", "existing", "existing", "changed")),
		StatementTimeout: c.MayDuration("STATEMENT_TIMEOUT", 0),
		LockTimeout:      c.MayDuration("LOCK_TIMEOUT", 0),
	}
}

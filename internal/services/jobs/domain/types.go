// Package domain defines query_logs jobs, per-job results and the drain report
package domain

import (
	"context"
	"time"
)

// Job is one claimed query_logs row
type Job struct {
	ID        int64     `json:"log_id"`
	RawText   string    `json:"raw_query"`
	ArrivedAt time.Time `json:"timestamp"`
}

// Kind says what happened to one claim attempt
type Kind string

const (
	// KindProcessed means the row was canonicalized, counted and committed
	KindProcessed Kind = "processed"
	// KindEmpty means nothing was claimable
	KindEmpty Kind = "empty"
	// KindRetryable means a transient failure rolled the row back
	KindRetryable Kind = "retryable"
	// KindRejected means the row itself cannot be processed; it is skipped for this drain
	KindRejected Kind = "rejected"
	// KindFatal means the run cannot continue
	KindFatal Kind = "fatal"
)

// Result is the outcome of one RunOne
type Result struct {
	Kind     Kind   `json:"kind"`
	JobID    int64  `json:"log_id,omitempty"`
	Key      string `json:"normalization_key,omitempty"`
	Hit      bool   `json:"is_normalized_hit"`
	CacheRef int64  `json:"normalization_id,omitempty"`
	Err      error  `json:"-"`
}

// DrainReport summarizes one RunLoop
type DrainReport struct {
	RunID     string        `json:"run_id"`
	Processed int           `json:"processed"`
	Hits      int           `json:"hits"`
	Misses    int           `json:"misses"`
	Retried   int           `json:"retried"`
	Rejected  int           `json:"rejected"`
	GaveUp    int           `json:"gave_up"`
	Took      time.Duration `json:"took_ns"`
}

// HitMode selects what the hit flag records
type HitMode string

const (
	// HitExisting flags occurrences whose key was already cached
	HitExisting HitMode = "existing"
	// HitChanged flags occurrences whose key differs from the raw text
	HitChanged HitMode = "changed"
)

// Repo is the query_logs surface, bound to the claiming transaction
type Repo interface {
	// ClaimNext locks the oldest unprocessed row not in exclude; ok is false when none is claimable
	ClaimNext(ctx context.Context, exclude []int64) (job Job, ok bool, err error)
	// MarkDone sets the hit flag and cache reference together
	MarkDone(ctx context.Context, id int64, hit bool, cacheRef int64) error
}

// RunnerPort drives the queue
type RunnerPort interface {
	RunOne(ctx context.Context) Result
	RunLoop(ctx context.Context) (DrainReport, error)
}

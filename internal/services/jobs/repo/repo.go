// Package repo provides the Postgres query_logs repository
package repo

import (
	"context"
	"errors"

	"querycanon/internal/modkit/repokit"
	perr "querycanon/internal/platform/errors"
	"querycanon/internal/platform/store"
	jobsdom "querycanon/internal/services/jobs/domain"
)

const (
	claimSQL = `
		SELECT log_id, raw_query, timestamp
		  FROM query_logs
		 WHERE is_normalized_hit IS NULL
		   AND NOT (log_id = ANY($1::bigint[]))
		 ORDER BY timestamp ASC, log_id ASC
		 LIMIT 1
		   FOR UPDATE SKIP LOCKED`

	markSQL = `
		UPDATE query_logs
		   SET is_normalized_hit = $2, normalization_id = $3
		 WHERE log_id = $1 AND is_normalized_hit IS NULL`
)

// NewPG returns a binder producing a Postgres-backed Repo
func NewPG() repokit.Binder[jobsdom.Repo] {
	return repokit.BindFunc[jobsdom.Repo](func(q repokit.Queryer) jobsdom.Repo {
		return &pgRepo{q: q}
	})
}

type pgRepo struct{ q repokit.Queryer }

func scanJob(row store.Row) (jobsdom.Job, error) {
	var j jobsdom.Job
	err := row.Scan(&j.ID, &j.RawText, &j.ArrivedAt)
	return j, err
}

// ClaimNext never waits on rows locked by another claim
func (r *pgRepo) ClaimNext(ctx context.Context, exclude []int64) (jobsdom.Job, bool, error) {
	if exclude == nil {
		// a NULL array would make the predicate NULL for every row
		exclude = []int64{}
	}
	j, err := store.One(ctx, r.q, scanJob, claimSQL, exclude)
	if errors.Is(err, perr.ErrNotFound) {
		return jobsdom.Job{}, false, nil
	}
	if err != nil {
		return jobsdom.Job{}, false, perr.FromPostgres(err, "claim query_logs row")
	}
	return j, true, nil
}

// MarkDone fails with ErrorCodeConflict when the row was already processed
func (r *pgRepo) MarkDone(ctx context.Context, id int64, hit bool, cacheRef int64) error {
	tag, err := r.q.Exec(ctx, markSQL, id, hit, cacheRef)
	if err != nil {
		return perr.FromPostgresWithField(err, "mark query_logs row")
	}
	if tag.RowsAffected() != 1 {
		return perr.Conflictf("query_logs row %d is already processed", id)
	}
	return nil
}

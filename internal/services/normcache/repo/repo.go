// Package repo provides the Postgres query_normalization repository
package repo

import (
	"context"
	"errors"
	"strings"

	"querycanon/internal/modkit/repokit"
	perr "querycanon/internal/platform/errors"
	"querycanon/internal/platform/store"
	cachedom "querycanon/internal/services/normcache/domain"
)

const (
	upsertSQL = `
		INSERT INTO query_normalization (normalization_key)
		VALUES ($1)
		ON CONFLICT (normalization_key)
		DO UPDATE SET hit_count = query_normalization.hit_count + 1
		RETURNING normalization_id, hit_count`

	lookupSQL = `
		SELECT normalization_id, normalization_key, hit_count
		  FROM query_normalization
		 WHERE normalization_key = $1`
)

// NewPG returns a binder producing a Postgres-backed Repo
func NewPG() repokit.Binder[cachedom.Repo] {
	return repokit.BindFunc[cachedom.Repo](func(q repokit.Queryer) cachedom.Repo {
		return &pgRepo{q: q}
	})
}

type pgRepo struct{ q repokit.Queryer }

// Upsert rejects blank keys with ErrorCodeInvalidArgument
func (r *pgRepo) Upsert(ctx context.Context, key string) (cachedom.Entry, error) {
	if strings.TrimSpace(key) == "" {
		return cachedom.Entry{}, perr.WithField(perr.InvalidArgf("normalization key is empty"), "normalization_key")
	}
	e := cachedom.Entry{Key: key}
	if err := r.q.QueryRow(ctx, upsertSQL, key).Scan(&e.ID, &e.HitCount); err != nil {
		return cachedom.Entry{}, perr.FromPostgresWithField(err, "upsert query_normalization")
	}
	return e, nil
}

func scanEntry(row store.Row) (cachedom.Entry, error) {
	var e cachedom.Entry
	err := row.Scan(&e.ID, &e.Key, &e.HitCount)
	return e, err
}

// Lookup returns ok false for a missing key
func (r *pgRepo) Lookup(ctx context.Context, key string) (cachedom.Entry, bool, error) {
	e, err := store.One(ctx, r.q, scanEntry, lookupSQL, key)
	if errors.Is(err, perr.ErrNotFound) {
		return cachedom.Entry{}, false, nil
	}
	if err != nil {
		return cachedom.Entry{}, false, perr.FromPostgres(err, "lookup query_normalization")
	}
	return e, true, nil
}

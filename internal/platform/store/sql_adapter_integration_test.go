//go:build integration_pg

package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"querycanon/internal/platform/store"
	"querycanon/internal/platform/store/pgtest"
)

func TestAdapter_TxCommitAndRollback(t *testing.T) {
	db, _ := pgtest.Start(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	err := db.Tx(ctx, func(q store.RowQuerier) error {
		return store.ExecOne(ctx, q, `INSERT INTO query_logs (raw_query) VALUES ($1)`, "committed")
	})
	if err != nil {
		t.Fatalf("commit tx: %v", err)
	}

	boom := errors.New("boom")
	err = db.Tx(ctx, func(q store.RowQuerier) error {
		if err := store.ExecOne(ctx, q, `INSERT INTO query_logs (raw_query) VALUES ($1)`, "rolled back"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fn error, got %v", err)
	}

	raws, err := store.Many(ctx, db, func(r store.Row) (string, error) {
		var s string
		return s, r.Scan(&s)
	}, `SELECT raw_query FROM query_logs ORDER BY log_id`)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(raws) != 1 || raws[0] != "committed" {
		t.Fatalf("rows after tx = %v", raws)
	}

	if p, ok := db.(store.Pinger); !ok || p.Ping(ctx) != nil {
		t.Fatalf("adapter should ping")
	}
}

func TestAdapter_OutcomeCheckConstraint(t *testing.T) {
	db, _ := pgtest.Start(t)
	ctx := context.Background()

	_, err := db.Exec(ctx, `INSERT INTO query_logs (raw_query, is_normalized_hit) VALUES ('x', true)`)
	if err == nil {
		t.Fatalf("hit flag without normalization id should violate the check")
	}
}

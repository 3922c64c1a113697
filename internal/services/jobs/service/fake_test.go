package service

import (
	"context"
	"slices"
	"strings"
	"sync"

	"querycanon/internal/modkit/repokit"
	perr "querycanon/internal/platform/errors"
	"querycanon/internal/platform/store"
	cachedom "querycanon/internal/services/normcache/domain"
	jobsdom "querycanon/internal/services/jobs/domain"
)

// memDB is a small transactional stand-in for query_logs and query_normalization.
// Claims lock rows until the tx ends; writes are staged and applied on commit
type memDB struct {
	mu      sync.Mutex
	logs    []*memLog
	cache   map[string]*cachedom.Entry
	nextRef int64

	claimErr  func(n int) error
	commitErr func(tx *memTx) error
	claims    int
	txs       int
}

type memLog struct {
	id     int64
	raw    string
	hit    *bool
	ref    int64
	locked bool
}

type memTx struct {
	db      *memDB
	claimed []*memLog
	marks   map[int64]memMark
	upserts []string
}

type memMark struct {
	hit bool
	ref int64
}

func newMemDB(raw ...string) *memDB {
	db := &memDB{cache: map[string]*cachedom.Entry{}}
	for i, r := range raw {
		db.logs = append(db.logs, &memLog{id: int64(i + 1), raw: r})
	}
	return db
}

func (db *memDB) Exec(context.Context, string, ...any) (store.CommandTag, error) { return nil, nil }
func (db *memDB) Query(context.Context, string, ...any) (store.Rows, error)      { return nil, nil }
func (db *memDB) QueryRow(context.Context, string, ...any) store.Row             { return nil }

func (db *memDB) Tx(ctx context.Context, fn func(repokit.Queryer) error) error {
	tx := &memTx{db: db, marks: map[int64]memMark{}}
	db.mu.Lock()
	db.txs++
	db.mu.Unlock()

	err := fn(tx)
	if err == nil && db.commitErr != nil {
		err = db.commitErr(tx)
	}

	db.mu.Lock()
	defer db.mu.Unlock()
	if err == nil {
		for _, key := range tx.upserts {
			e, ok := db.cache[key]
			if !ok {
				db.nextRef++
				e = &cachedom.Entry{ID: db.nextRef, Key: key}
				db.cache[key] = e
			}
			e.HitCount++
		}
		for _, l := range tx.claimed {
			if m, ok := tx.marks[l.id]; ok {
				hit := m.hit
				l.hit, l.ref = &hit, m.ref
			}
		}
	}
	for _, l := range tx.claimed {
		l.locked = false
	}
	return err
}

func (tx *memTx) Exec(context.Context, string, ...any) (store.CommandTag, error) { return nil, nil }
func (tx *memTx) Query(context.Context, string, ...any) (store.Rows, error)      { return nil, nil }
func (tx *memTx) QueryRow(context.Context, string, ...any) store.Row             { return nil }

func (tx *memTx) ClaimNext(_ context.Context, exclude []int64) (jobsdom.Job, bool, error) {
	db := tx.db
	db.mu.Lock()
	defer db.mu.Unlock()
	db.claims++
	if db.claimErr != nil {
		if err := db.claimErr(db.claims); err != nil {
			return jobsdom.Job{}, false, err
		}
	}
	for _, l := range db.logs {
		if l.hit != nil || l.locked || slices.Contains(exclude, l.id) {
			continue
		}
		l.locked = true
		tx.claimed = append(tx.claimed, l)
		return jobsdom.Job{ID: l.id, RawText: l.raw}, true, nil
	}
	return jobsdom.Job{}, false, nil
}

func (tx *memTx) MarkDone(_ context.Context, id int64, hit bool, ref int64) error {
	tx.marks[id] = memMark{hit: hit, ref: ref}
	return nil
}

// Upsert reports the count this occurrence will have once committed
func (tx *memTx) Upsert(_ context.Context, key string) (cachedom.Entry, error) {
	if strings.TrimSpace(key) == "" {
		return cachedom.Entry{}, perr.InvalidArgf("normalization key is empty")
	}
	db := tx.db
	db.mu.Lock()
	defer db.mu.Unlock()
	tx.upserts = append(tx.upserts, key)
	e := cachedom.Entry{Key: key, HitCount: 1}
	if cur, ok := db.cache[key]; ok {
		e.ID, e.HitCount = cur.ID, cur.HitCount+1
	} else {
		e.ID = db.nextRef + 1
	}
	return e, nil
}

func (tx *memTx) Lookup(context.Context, string) (cachedom.Entry, bool, error) {
	return cachedom.Entry{}, false, nil
}

var (
	memJobs  = repokit.BindFunc[jobsdom.Repo](func(q repokit.Queryer) jobsdom.Repo { return q.(*memTx) })
	memCache = repokit.BindFunc[cachedom.Repo](func(q repokit.Queryer) cachedom.Repo { return q.(*memTx) })
)

func (db *memDB) processed() map[string]bool {
	db.mu.Lock()
	defer db.mu.Unlock()
	out := map[string]bool{}
	for _, l := range db.logs {
		if l.hit != nil {
			out[l.raw] = *l.hit
		}
	}
	return out
}

func (db *memDB) hitCount(key string) int {
	db.mu.Lock()
	defer db.mu.Unlock()
	if e, ok := db.cache[key]; ok {
		return e.HitCount
	}
	return 0
}

// canonFunc adapts a function to Canonicalizer
type canonFunc func(ctx context.Context, text string) (string, error)

func (f canonFunc) Canonicalize(ctx context.Context, text string) (string, error) { return f(ctx, text) }

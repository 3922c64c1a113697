// Package domain defines the normalization cache entry and its ports
package domain

import "context"

// Entry is one query_normalization row
type Entry struct {
	ID       int64  `json:"normalization_id"`
	Key      string `json:"normalization_key"`
	HitCount int    `json:"hit_count"`
}

// Created reports whether the last upsert inserted the row
func (e Entry) Created() bool { return e.HitCount == 1 }

// Repo is the storage surface, bound to a Queryer so it joins the caller's transaction
type Repo interface {
	// Upsert inserts key with hit_count 1 or increments hit_count by exactly 1
	Upsert(ctx context.Context, key string) (Entry, error)
	// Lookup finds key; ok is false when absent
	Lookup(ctx context.Context, key string) (Entry, bool, error)
}

// CachePort is the read surface exposed to other modules and the admin API
type CachePort interface {
	Lookup(ctx context.Context, key string) (Entry, bool, error)
}

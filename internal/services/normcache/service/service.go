// Package service provides the normalization cache service
package service

import (
	"context"

	"querycanon/internal/modkit/repokit"
	cachedom "querycanon/internal/services/normcache/domain"
)

// Service runs cache operations outside a caller transaction
type Service struct {
	DB     repokit.TxRunner
	Binder repokit.Binder[cachedom.Repo]
}

// New constructs the cache service
func New(db repokit.TxRunner, binder repokit.Binder[cachedom.Repo]) *Service {
	if db == nil {
		panic("normcache.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("normcache.Service requires a non nil Repo binder")
	}
	return &Service{DB: db, Binder: binder}
}

// Lookup finds key
func (s *Service) Lookup(ctx context.Context, key string) (cachedom.Entry, bool, error) {
	return s.Binder.Bind(s.DB).Lookup(ctx, key)
}

// Upsert records one occurrence of key in its own transaction
func (s *Service) Upsert(ctx context.Context, key string) (cachedom.Entry, error) {
	var e cachedom.Entry
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		e, err = s.Binder.Bind(q).Upsert(ctx, key)
		return err
	})
	return e, err
}

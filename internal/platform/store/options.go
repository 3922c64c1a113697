package store

import (
	"querycanon/internal/platform/logger"
)

// Option mutates Store during Open
type Option func(*Store) error

// WithLogger sets the logger used by subclients
func WithLogger(log logger.Logger) Option {
	return func(s *Store) error {
		s.Log = log
		return nil
	}
}

// WithPG injects an already open sql seam; Open skips dialing when cfg.PG is disabled
func WithPG(q TxRunner) Option {
	return func(s *Store) error {
		s.PG = q
		return nil
	}
}

// WithRDS injects an already open redis seam
func WithRDS(h Hashes) Option {
	return func(s *Store) error {
		s.RDS = h
		return nil
	}
}

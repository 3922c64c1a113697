// Package modkit provides module wiring and core deps
package modkit

import (
	"querycanon/internal/modkit/repokit"
	"querycanon/internal/platform/config"
	"querycanon/internal/platform/logger"
	"querycanon/internal/platform/store"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner
	RDS store.Hashes
}

// FromStore builds Deps from an opened store
func FromStore(cfg config.Conf, st *store.Store) Deps {
	if st == nil {
		return Deps{Cfg: cfg}
	}
	return Deps{Log: st.Log, Cfg: cfg, PG: st.PG, RDS: st.RDS}
}

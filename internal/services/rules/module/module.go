// Package module wires the rule store, its source and the rules admin routes
package module

import (
	"context"

	"querycanon/internal/core/rules"
	"querycanon/internal/modkit"
	"querycanon/internal/modkit/httpkit"
	rulesdom "querycanon/internal/services/rules/domain"
	ruleshttp "querycanon/internal/services/rules/http"
	rulesrepo "querycanon/internal/services/rules/repo"
)

// Ports exported by the rules module
type Ports struct {
	Store rulesdom.StorePort
}

// Module implements modkit.Module for rules
type Module struct {
	b     modkit.Built
	opts  Options
	store *rules.Store
	ports Ports
}

// New builds the store over the configured source. Nothing is loaded until Load
func New(deps modkit.Deps, opts Options, mods ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("rules"),
		modkit.WithPrefix("/rules"),
	}, mods...)...)

	st := rules.NewStore(
		sourceFor(deps, opts),
		rules.WithPrecedence(opts.Precedence),
		rules.WithAllowEmpty(opts.AllowEmpty),
	)

	m := &Module{b: b, opts: opts, store: st}
	m.ports = Ports{Store: st}
	return m
}

func sourceFor(deps modkit.Deps, opts Options) rules.Source {
	switch opts.Source {
	case rulesdom.SourceRedis:
		if deps.RDS == nil {
			panic("rules: redis source selected but no redis client configured")
		}
		return rulesrepo.NewRedis(deps.RDS, opts.RedisKeys)
	default:
		if deps.PG == nil {
			panic("rules: pg source selected but no postgres configured")
		}
		return rulesrepo.NewPG(deps.PG)
	}
}

// Load activates the first snapshot
func (m *Module) Load(ctx context.Context) (*rules.Snapshot, error) { return m.store.Load(ctx) }

// Watch reloads on the configured interval until ctx is done; a zero interval returns at once
func (m *Module) Watch(ctx context.Context) { m.store.Watch(ctx, m.opts.ReloadEvery) }

// Name returns the module name
func (m *Module) Name() string { return m.b.Name }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// MountRoutes mounts /rules
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(sub httpkit.Router) { ruleshttp.Register(sub, m.store) })
}

// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"time"

	"querycanon/internal/modkit"
	"querycanon/internal/modkit/httpkit"
	pstrings "querycanon/internal/platform/strings"

	metahttp "querycanon/internal/services/api/meta/http"
)

// Module implements the modkit.Module interface
type Module struct {
	b         modkit.Built
	deps      metahttp.Deps
	startedAt time.Time
}

// New constructs a meta module. rules may be nil when no rule store is wired
func New(deps modkit.Deps, rules metahttp.Snapshots, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	m := &Module{b: b, startedAt: time.Now()}
	m.deps = metahttp.Deps{
		ServiceName: "querycanon-api",
		StartedAt:   m.startedAt,
		PG:          deps.PG,
		RDS:         deps.RDS,
		Rules:       rules,
	}
	return m
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(sub httpkit.Router) { metahttp.Register(sub, m.deps) })
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return m.b.Name }

// Prefix implements the modkit.Module interface
func (m *Module) Prefix() string { return pstrings.MustPrefix(m.b.Prefix) }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }

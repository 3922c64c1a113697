// Package module wires the normalization cache
package module

import (
	"querycanon/internal/modkit"
	"querycanon/internal/modkit/httpkit"
	"querycanon/internal/modkit/repokit"
	cachedom "querycanon/internal/services/normcache/domain"
	cachehttp "querycanon/internal/services/normcache/http"
	cacherepo "querycanon/internal/services/normcache/repo"
	cachesvc "querycanon/internal/services/normcache/service"
)

// Ports exported by the cache module. Binder lets the job consumer run Upsert
// inside its own transaction
type Ports struct {
	Cache  cachedom.CachePort
	Binder repokit.Binder[cachedom.Repo]
}

// Module implements modkit.Module for the cache
type Module struct {
	b     modkit.Built
	svc   *cachesvc.Service
	ports Ports
}

// New constructs the cache module
func New(deps modkit.Deps, mods ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("cache"),
		modkit.WithPrefix("/cache"),
	}, mods...)...)

	binder := cacherepo.NewPG()
	svc := cachesvc.New(deps.PG, binder)
	return &Module{b: b, svc: svc, ports: Ports{Cache: svc, Binder: binder}}
}

// Name returns the module name
func (m *Module) Name() string { return m.b.Name }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// MountRoutes mounts /cache
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(sub httpkit.Router) { cachehttp.Register(sub, m.svc) })
}

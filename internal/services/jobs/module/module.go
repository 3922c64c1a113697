// Package module wires the query_logs consumer as a modkit.Module
package module

import (
	"querycanon/internal/modkit"
	"querycanon/internal/modkit/httpkit"
	"querycanon/internal/modkit/repokit"
	jobsdom "querycanon/internal/services/jobs/domain"
	jobshttp "querycanon/internal/services/jobs/http"
	jobsrepo "querycanon/internal/services/jobs/repo"
	jobssvc "querycanon/internal/services/jobs/service"
	cachedom "querycanon/internal/services/normcache/domain"
)

// Ports exported by the jobs module
type Ports struct {
	Runner jobsdom.RunnerPort
}

// Module implements modkit.Module for the consumer
type Module struct {
	b     modkit.Built
	ports Ports
}

// New constructs the consumer over deps.PG. cache must bind to the same transaction
// the claim runs in
func New(
	deps modkit.Deps,
	opts Options,
	canon jobssvc.Canonicalizer,
	cache repokit.Binder[cachedom.Repo],
	mods ...modkit.Option,
) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("jobs"),
		modkit.WithPrefix("/jobs"),
	}, mods...)...)

	db := deps.PG
	if db != nil && (opts.StatementTimeout > 0 || opts.LockTimeout > 0) {
		db = repokit.WithBeginHooks(db, repokit.LocalTimeout(opts.StatementTimeout, opts.LockTimeout))
	}

	svc := jobssvc.New(db, jobsrepo.NewPG(), cache, canon, jobssvc.Config{
		Workers:      opts.Workers,
		MaxAttempts:  opts.MaxAttempts,
		RetryBackoff: opts.RetryBackoff,
		HitMode:      opts.HitMode,
	})
	return &Module{b: b, ports: Ports{Runner: svc}}
}

// Runner returns the consumer
func (m *Module) Runner() jobsdom.RunnerPort { return m.ports.Runner }

// Name returns the module name
func (m *Module) Name() string { return m.b.Name }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// MountRoutes mounts /jobs
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(sub httpkit.Router) { jobshttp.Register(sub, m.ports.Runner) })
}

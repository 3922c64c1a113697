// Package api assembles the querycanon modules and mounts the admin HTTP API
package api

import (
	"time"

	"querycanon/internal/core/canon"
	"querycanon/internal/core/morph"
	"querycanon/internal/modkit"
	"querycanon/internal/modkit/httpkit"
	"querycanon/internal/modkit/module"
	"querycanon/internal/modkit/repokit"
	"querycanon/internal/platform/config"
	phttp "querycanon/internal/platform/net/http"

	canonmod "querycanon/internal/services/api/canon/module"
	metamod "querycanon/internal/services/api/meta/module"
	jobsmod "querycanon/internal/services/jobs/module"
	cachedom "querycanon/internal/services/normcache/domain"
	cachemod "querycanon/internal/services/normcache/module"
	rulesdom "querycanon/internal/services/rules/domain"
	rulesmod "querycanon/internal/services/rules/module"
)

// Options are the assembly options
type Options struct {
	// Config is the root view; modules read their own CORE_* prefixes from it
	Config config.Conf
	Deps   modkit.Deps

	// Segmenter overrides the one chosen by CORE_CANON_ANALYZER
	Segmenter morph.Segmenter
}

// App holds every module of one process
type App struct {
	Rules *rulesmod.Module
	Cache *cachemod.Module
	Jobs  *jobsmod.Module
	Canon *canon.Canonicalizer

	mods []module.Module
}

// New builds the modules in dependency order: rules, canonicalizer, cache, jobs.
// Nothing touches a backend until rules are loaded
func New(opt Options) *App {
	deps := opt.Deps
	deps.Cfg = opt.Config

	rules := rulesmod.New(deps, rulesmod.FromConfig(opt.Config))
	snaps := module.MustPortsOf[rulesdom.StorePort](rules)

	seg := opt.Segmenter
	if seg == nil {
		seg = SegmenterFromConfig(opt.Config)
	}
	cn := canon.New(snaps, seg)

	cache := cachemod.New(deps)
	binder := module.MustPortsOf[repokit.Binder[cachedom.Repo]](cache)

	jobs := jobsmod.New(deps, jobsmod.FromConfig(opt.Config), cn, binder)

	a := &App{Rules: rules, Cache: cache, Jobs: jobs, Canon: cn}
	a.mods = []module.Module{
		metamod.New(deps, snaps),
		rules,
		canonmod.New(cn),
		cache,
		jobs,
	}
	for _, m := range a.mods {
		module.Register(m.Name(), m.Ports())
	}
	return a
}

// SegmenterFromConfig picks the stage-2 segmenter
// CORE_CANON_ANALYZER (default "builtin") is "builtin" or "remote"
// CORE_CANON_ANALYZER_URL is required for "remote"
// CORE_CANON_ANALYZER_TIMEOUT (default 3s) bounds one analyzer call
// CORE_CANON_MAX_RUNES (default 512) rejects longer inputs
func SegmenterFromConfig(cfg config.Conf) morph.Segmenter {
	c := cfg.Prefix("CORE_CANON_")
	maxRunes := c.MayInt("MAX_RUNES", morph.DefaultMaxRunes)
	if c.MayEnum("ANALYZER", "builtin", "builtin", "remote") == "remote" {
		return morph.NewRemote(morph.RemoteOptions{
			URL:      c.MustString("ANALYZER_URL"),
			Timeout:  c.MayDuration("ANALYZER_TIMEOUT", 3*time.Second),
			MaxRunes: maxRunes,
		})
	}
	return morph.NewBuiltin(maxRunes)
}

// Mount mounts every module under /v1 with the common middleware stack, read from the
// root view cfg. CORE_API_PROFILER (default false) exposes pprof under /debug
func (a *App) Mount(r phttp.Router, cfg config.Conf) {
	httpkit.MountAPIV1(r, httpkit.CommonStack(cfg.Prefix("CORE_")), func(api httpkit.Router) {
		for _, m := range a.mods {
			m.MountRoutes(api)
		}
	})
	phttp.MountProfiler(r, "/debug", cfg.Prefix("CORE_API_").MayBool("PROFILER", false))
}

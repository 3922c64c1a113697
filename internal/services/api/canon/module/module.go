// Package module wires the canonicalization dry run into the API
package module

import (
	"querycanon/internal/modkit"
	"querycanon/internal/modkit/httpkit"
	canonhttp "querycanon/internal/services/api/canon/http"
)

// Module implements modkit.Module for /canon
type Module struct {
	b modkit.Built
	t canonhttp.Tracer
}

// New constructs the module over a tracer, usually a *canon.Canonicalizer
func New(t canonhttp.Tracer, opts ...modkit.Option) *Module {
	if t == nil {
		panic("canon module requires a Tracer")
	}
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("canon"),
		modkit.WithPrefix("/canon"),
	}, opts...)...)
	return &Module{b: b, t: t}
}

// Name returns the module name
func (m *Module) Name() string { return m.b.Name }

// Ports returns the module ports
func (m *Module) Ports() any { return nil }

// MountRoutes mounts /canon
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(sub httpkit.Router) { canonhttp.Register(sub, m.t) })
}

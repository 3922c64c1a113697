// Package http provides the rules admin endpoints
package http

import (
	stdhttp "net/http"

	"querycanon/internal/modkit/httpkit"
	perr "querycanon/internal/platform/errors"
	rulesdom "querycanon/internal/services/rules/domain"
)

// Register mounts the rules routes
func Register(r httpkit.Router, st rulesdom.StorePort) {
	h := &handlers{st: st}

	httpkit.Get(r, "/", h.list)
	httpkit.Post(r, "/reload", h.reload)
}

type handlers struct{ st rulesdom.StorePort }

// list returns the active snapshot with its resolved rules
func (h *handlers) list(_ *stdhttp.Request) (any, error) {
	snap := h.st.Current()
	if snap == nil {
		return nil, perr.Unavailablef("rule snapshot not loaded")
	}
	return rulesdom.Listing{Summary: rulesdom.Summarize(snap), Items: snap.Rules}, nil
}

// reload swaps in a fresh snapshot; on failure the old one stays active
func (h *handlers) reload(r *stdhttp.Request) (any, error) {
	snap, err := h.st.Reload(r.Context())
	if err != nil {
		return nil, err
	}
	return rulesdom.Summarize(snap), nil
}

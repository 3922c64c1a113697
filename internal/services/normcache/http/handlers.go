// Package http provides the cache lookup endpoint
package http

import (
	stdhttp "net/http"
	"net/url"

	"querycanon/internal/modkit/httpkit"
	perr "querycanon/internal/platform/errors"
	cachedom "querycanon/internal/services/normcache/domain"

	"github.com/go-chi/chi/v5"
)

// Register mounts the cache routes
func Register(r httpkit.Router, c cachedom.CachePort) {
	h := &handlers{c: c}
	httpkit.Get(r, "/{key}", h.lookup)
}

type handlers struct{ c cachedom.CachePort }

func (h *handlers) lookup(r *stdhttp.Request) (any, error) {
	key, err := url.PathUnescape(chi.URLParam(r, "key"))
	if err != nil || key == "" {
		return nil, perr.WithField(perr.InvalidArgf("bad cache key"), "key")
	}
	e, ok, err := h.c.Lookup(r.Context(), key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, perr.NotFoundf("no normalization entry for %q", key)
	}
	return e, nil
}

// Package http provides the consumer trigger endpoints
package http

import (
	stdhttp "net/http"

	"querycanon/internal/modkit/httpkit"
	perr "querycanon/internal/platform/errors"
	jobsdom "querycanon/internal/services/jobs/domain"
)

// Register mounts the jobs routes
func Register(r httpkit.Router, run jobsdom.RunnerPort) {
	h := &handlers{run: run}

	httpkit.Post(r, "/drain", h.drain)
	httpkit.Post(r, "/next", h.next)
}

type handlers struct{ run jobsdom.RunnerPort }

type nextBody struct {
	jobsdom.Result
	Error *perr.Wire `json:"error,omitempty"`
}

func (h *handlers) drain(r *stdhttp.Request) (any, error) {
	rep, err := h.run.RunLoop(r.Context())
	if err != nil {
		return nil, err
	}
	return rep, nil
}

// next processes one row. Row-level failures are reported in the body; fatal ones fail the request
func (h *handlers) next(r *stdhttp.Request) (any, error) {
	res := h.run.RunOne(r.Context())
	if res.Kind == jobsdom.KindFatal {
		return nil, res.Err
	}
	body := nextBody{Result: res}
	if res.Err != nil {
		w := perr.WireFrom(res.Err)
		body.Error = &w
	}
	return body, nil
}

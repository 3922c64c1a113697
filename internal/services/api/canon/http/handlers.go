// Package http provides the canonicalization dry-run endpoint
package http

import (
	"context"
	stdhttp "net/http"

	"querycanon/internal/core/canon"
	"querycanon/internal/modkit/httpkit"
)

// Tracer runs the pipeline and reports every stage
type Tracer interface {
	Trace(ctx context.Context, text string) (canon.Trace, error)
}

// PreviewRequest is the dry-run payload
type PreviewRequest struct {
	Text  string `json:"text"  validate:"required,max=4096,utf8"`
	Trace bool   `json:"trace"`
}

// PreviewResponse is the short answer when no trace is asked for
type PreviewResponse struct {
	Input        string `json:"input"`
	Output       string `json:"output"`
	RulesVersion uint64 `json:"rules_version"`
}

// Register mounts the canon routes
func Register(r httpkit.Router, t Tracer) {
	h := &handlers{t: t}
	httpkit.PostJSON(r, "/preview", h.preview)
}

type handlers struct{ t Tracer }

// preview canonicalizes without touching the cache or the queue
func (h *handlers) preview(r *stdhttp.Request, in PreviewRequest) (any, error) {
	tr, err := h.t.Trace(r.Context(), in.Text)
	if err != nil {
		return nil, err
	}
	if in.Trace {
		return tr, nil
	}
	return PreviewResponse{Input: tr.Input, Output: tr.Output, RulesVersion: tr.RulesVersion}, nil
}

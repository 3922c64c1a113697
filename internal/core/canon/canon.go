// Package canon turns a raw survey answer into its canonical key:
// preprocess, segment and rejoin, substitute rules, then segment and rejoin again until
// no rule applies
package canon

import (
	"context"

	"querycanon/internal/core/morph"
	"querycanon/internal/core/normalize"
	"querycanon/internal/core/rules"
	perr "querycanon/internal/platform/errors"
)

// Snapshots hands out the active rule snapshot
type Snapshots interface {
	Current() *rules.Snapshot
}

// Trace holds every stage's output for one canonicalization
type Trace struct {
	Input        string          `json:"input"`
	Preprocessed string          `json:"preprocessed"`
	Attached     string          `json:"attached"`
	Substituted  string          `json:"substituted"`
	Applied      []rules.Applied `json:"applied"`
	Tokens       []morph.Token   `json:"tokens"`
	Output       string          `json:"output"`
	RulesVersion uint64          `json:"rules_version"`
}

// maxRounds bounds the substitute and rejoin loop
const maxRounds = 4

// Canonicalizer is safe for concurrent use
type Canonicalizer struct {
	rules Snapshots
	seg   morph.Segmenter
}

// New creates a Canonicalizer; seg defaults to the builtin segmenter
func New(r Snapshots, seg morph.Segmenter) *Canonicalizer {
	if seg == nil {
		seg = morph.NewBuiltin(0)
	}
	return &Canonicalizer{rules: r, seg: seg}
}

// Canonicalize returns the canonical key of text. An empty key means nothing survived
// preprocessing
func (c *Canonicalizer) Canonicalize(ctx context.Context, text string) (string, error) {
	tr, err := c.Trace(ctx, text)
	if err != nil {
		return "", err
	}
	return tr.Output, nil
}

// Trace runs the pipeline against one pinned snapshot and records each stage. On a
// segmentation error the stages reached so far are filled in
func (c *Canonicalizer) Trace(ctx context.Context, text string) (Trace, error) {
	tr := Trace{Input: text}
	snap := c.rules.Current()
	if snap == nil {
		return tr, perr.Unavailablef("rule snapshot not loaded")
	}
	tr.RulesVersion = snap.Version

	tr.Preprocessed = normalize.Normalize(text)
	if tr.Preprocessed == "" {
		return tr, nil
	}

	m := snap.Matcher()
	cur := tr.Preprocessed
	for round := 0; ; round++ {
		toks, err := c.seg.Segment(ctx, cur)
		if err != nil {
			return tr, perr.WithOp(err, "canon.segment")
		}
		joined := morph.Join(toks)
		if round == 0 {
			tr.Attached = joined
			tr.Substituted = joined
		}

		// rules see particles and range markers attached the way the output is
		sub, applied := m.Apply(joined)
		if len(applied) == 0 || round == maxRounds {
			tr.Tokens = toks
			tr.Output = joined
			return tr, nil
		}
		tr.Substituted = sub
		tr.Applied = append(tr.Applied, applied...)
		cur = sub
	}
}

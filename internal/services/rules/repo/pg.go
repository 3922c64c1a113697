// Package repo provides the rule sources: Postgres dictionary_rules and the redis mirror
package repo

import (
	"context"

	"querycanon/internal/core/rules"
	"querycanon/internal/modkit/repokit"
	perr "querycanon/internal/platform/errors"
	"querycanon/internal/platform/logger"
	"querycanon/internal/platform/store"
)

const selectRules = `
	SELECT rule_type, term_from, term_to
	  FROM dictionary_rules
	 ORDER BY rule_id`

// NewPG returns a Source reading dictionary_rules through q
func NewPG(q repokit.Queryer) rules.Source { return &pgSource{q: q} }

type pgSource struct{ q repokit.Queryer }

func (s *pgSource) Name() string { return "pg" }

type rawRule struct {
	kind     string
	from, to *string
}

func scanRaw(r store.Row) (rawRule, error) {
	var x rawRule
	err := r.Scan(&x.kind, &x.from, &x.to)
	return x, err
}

// Fetch reads every row; rows with an unknown rule_type are skipped with a warning
func (s *pgSource) Fetch(ctx context.Context) ([]rules.Rule, error) {
	raws, err := store.Many(ctx, s.q, scanRaw, selectRules)
	if err != nil {
		return nil, perr.FromPostgres(err, "load dictionary_rules")
	}
	out := make([]rules.Rule, 0, len(raws))
	for _, x := range raws {
		cls, err := rules.ParseClass(x.kind)
		if err != nil {
			logger.C(ctx).Warn().Str("mod", "rules").Str("rule_type", x.kind).Msg("skipping rule with unknown type")
			continue
		}
		out = append(out, rules.Rule{From: deref(x.from), To: deref(x.to), Class: cls})
	}
	return out, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Package rules holds substitution rules and compiles them into immutable snapshots.
// A snapshot pairs the resolved rule list with one matcher; Store swaps whole snapshots
// so every canonicalization sees a consistent rule set
package rules

import (
	"context"
	"strings"

	perr "querycanon/internal/platform/errors"
)

// Class is the rule class as stored in dictionary_rules.rule_type
type Class string

const (
	// Typo rules fix misspellings
	Typo Class = "TYPO"
	// Synonym rules map variants onto a standard term
	Synonym Class = "SYNONYM"
)

// ParseClass accepts the rule_type column values in any case
func ParseClass(s string) (Class, error) {
	switch Class(strings.ToUpper(strings.TrimSpace(s))) {
	case Typo:
		return Typo, nil
	case Synonym:
		return Synonym, nil
	}
	return "", perr.Newf(perr.ErrorCodeInvalidArgument, "unknown rule class %q", s)
}

// Rule replaces From with To
type Rule struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Class Class  `json:"class"`
}

// Source fetches the full rule set
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]Rule, error)
}

// SourceFunc adapts a function to Source
type SourceFunc func(ctx context.Context) ([]Rule, error)

// Name implements Source
func (f SourceFunc) Name() string { return "func" }

// Fetch implements Source
func (f SourceFunc) Fetch(ctx context.Context) ([]Rule, error) { return f(ctx) }

// Static is an in-memory Source
type Static []Rule

// Name implements Source
func (s Static) Name() string { return "static" }

// Fetch implements Source
func (s Static) Fetch(context.Context) ([]Rule, error) {
	out := make([]Rule, len(s))
	copy(out, s)
	return out, nil
}

// Stats counts what compilation kept and dropped
type Stats struct {
	Fetched   int `json:"fetched"`
	Kept      int `json:"kept"`
	Empty     int `json:"empty"`
	Identity  int `json:"identity"`
	Duplicate int `json:"duplicate"`
	Shadowed  int `json:"shadowed"`
	Chained   int `json:"chained"`
	Cyclic    int `json:"cyclic"`
}

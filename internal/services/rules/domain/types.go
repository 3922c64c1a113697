// Package domain defines the rules module ports and wire types
package domain

import (
	"context"
	"time"

	"querycanon/internal/core/rules"
)

// SourceKind selects where rules are read from
type SourceKind string

const (
	// SourcePG reads dictionary_rules from Postgres
	SourcePG SourceKind = "pg"
	// SourceRedis reads the typo_rules and synonym_rules hashes from the mirror
	SourceRedis SourceKind = "redis"
)

// StorePort is what other modules consume
type StorePort interface {
	Current() *rules.Snapshot
	Load(ctx context.Context) (*rules.Snapshot, error)
	Reload(ctx context.Context) (*rules.Snapshot, error)
}

// Summary describes a snapshot without its rule list
type Summary struct {
	Version  uint64      `json:"version"`
	LoadedAt time.Time   `json:"loaded_at"`
	Source   string      `json:"source"`
	Rules    int         `json:"rules"`
	Stats    rules.Stats `json:"stats"`
	Cyclic   []string    `json:"cyclic,omitempty"`
}

// Summarize builds a Summary; nil yields the zero value
func Summarize(s *rules.Snapshot) Summary {
	if s == nil {
		return Summary{}
	}
	return Summary{
		Version:  s.Version,
		LoadedAt: s.LoadedAt,
		Source:   s.Source,
		Rules:    s.Len(),
		Stats:    s.Stats,
		Cyclic:   s.Cyclic,
	}
}

// Listing is a Summary with the resolved rules
type Listing struct {
	Summary
	Items []rules.Rule `json:"items"`
}

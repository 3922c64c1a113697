package module

import (
	"time"

	"querycanon/internal/core/rules"
	"querycanon/internal/platform/config"
	rulesdom "querycanon/internal/services/rules/domain"
	rulesrepo "querycanon/internal/services/rules/repo"
)

// Options for the rules module
type Options struct {
	Source      rulesdom.SourceKind
	Precedence  rules.Class
	AllowEmpty  bool
	ReloadEvery time.Duration
	RedisKeys   rulesrepo.RedisKeys
}

// FromConfig fills options from environment
// CORE_RULES_SOURCE (default "pg") is "pg" or "redis"
// CORE_RULES_PRECEDENCE (default "typo") picks the class kept when both define a term
// CORE_RULES_ALLOW_EMPTY (default false) accepts a source with no usable rules
// CORE_RULES_RELOAD_EVERY (default 0, off) reloads periodically in serve mode
// CORE_RULES_TYPO_KEY / CORE_RULES_SYNONYM_KEY override the redis hash names
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("CORE_RULES_")
	prec := rules.Typo
	if c.MayEnum("PRECEDENCE", "typo", "typo", "synonym") == "synonym" {
		prec = rules.Synonym
	}
	return Options{
		Source:      rulesdom.SourceKind(c.MayEnum("SOURCE", "pg", "pg", "redis")),
		Precedence:  prec,
		AllowEmpty:  c.MayBool("ALLOW_EMPTY", false),
		ReloadEvery: c.MayDuration("RELOAD_EVERY", 0),
		RedisKeys: rulesrepo.RedisKeys{
			Typo:    c.MayString("TYPO_KEY", rulesrepo.DefaultRedisKeys.Typo),
			Synonym: c.MayString("SYNONYM_KEY", rulesrepo.DefaultRedisKeys.Synonym),
		},
	}
}

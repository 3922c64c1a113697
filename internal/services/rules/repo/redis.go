package repo

import (
	"context"
	"slices"

	"querycanon/internal/core/rules"
	perr "querycanon/internal/platform/errors"
	"querycanon/internal/platform/logger"
	"querycanon/internal/platform/store"
)

// RedisKeys names the primary hash per class. Each falls back to dictionary_rules:<CLASS>
// when the primary key does not exist
type RedisKeys struct {
	Typo    string
	Synonym string
}

// DefaultRedisKeys are the keys the dictionary sync job writes
var DefaultRedisKeys = RedisKeys{Typo: "typo_rules", Synonym: "synonym_rules"}

const fallbackPrefix = "dictionary_rules:"

// NewRedis returns a Source reading rule hashes (field = source term, value = target)
func NewRedis(h store.Hashes, keys RedisKeys) rules.Source {
	if keys.Typo == "" {
		keys.Typo = DefaultRedisKeys.Typo
	}
	if keys.Synonym == "" {
		keys.Synonym = DefaultRedisKeys.Synonym
	}
	return &redisSource{h: h, keys: keys}
}

type redisSource struct {
	h    store.Hashes
	keys RedisKeys
}

func (s *redisSource) Name() string { return "redis" }

// Fetch reads both classes; redis failures are ErrorCodeUnavailable
func (s *redisSource) Fetch(ctx context.Context) ([]rules.Rule, error) {
	var out []rules.Rule
	for _, c := range []struct {
		cls     rules.Class
		primary string
	}{
		{rules.Typo, s.keys.Typo},
		{rules.Synonym, s.keys.Synonym},
	} {
		key, ok, err := s.resolveKey(ctx, c.primary, fallbackPrefix+string(c.cls))
		if err != nil {
			return nil, err
		}
		if !ok {
			logger.C(ctx).Warn().Str("mod", "rules").Str("class", string(c.cls)).Msg("no redis hash for rule class")
			continue
		}
		m, err := s.h.HGetAll(ctx, key)
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "redis hgetall %s", key)
		}
		froms := make([]string, 0, len(m))
		for k := range m {
			froms = append(froms, k)
		}
		slices.Sort(froms)
		for _, from := range froms {
			out = append(out, rules.Rule{From: from, To: m[from], Class: c.cls})
		}
	}
	return out, nil
}

func (s *redisSource) resolveKey(ctx context.Context, keys ...string) (string, bool, error) {
	for _, k := range keys {
		ok, err := s.h.Exists(ctx, k)
		if err != nil {
			return "", false, perr.Wrapf(err, perr.ErrorCodeUnavailable, "redis exists %s", k)
		}
		if ok {
			return k, true, nil
		}
	}
	return "", false, nil
}

package repo

import (
	"context"
	"testing"

	"querycanon/internal/core/rules"
	perr "querycanon/internal/platform/errors"
	"querycanon/internal/platform/store/rds"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *rds.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := rds.Open(rds.Config{Addr: mr.Addr()})
	t.Cleanup(func() { _ = c.Close() })
	return mr, c
}

func TestRedisSource_PrimaryKeys(t *testing.T) {
	mr, c := newRedis(t)
	mr.HSet("typo_rules", "맛잇는", "맛있는", "핸폰", "핸드폰")
	mr.HSet("synonym_rules", "핸드폰", "휴대폰")
	// fallback is ignored while the primary exists
	mr.HSet("dictionary_rules:TYPO", "무시", "됨")

	got, err := NewRedis(c, RedisKeys{}).Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, []rules.Rule{
		{From: "맛잇는", To: "맛있는", Class: rules.Typo},
		{From: "핸폰", To: "핸드폰", Class: rules.Typo},
		{From: "핸드폰", To: "휴대폰", Class: rules.Synonym},
	}, got)
}

func TestRedisSource_FallbackKeys(t *testing.T) {
	mr, c := newRedis(t)
	mr.HSet("dictionary_rules:TYPO", "맛잇는", "맛있는")
	mr.HSet("dictionary_rules:SYNONYM", "핸드폰", "휴대폰")

	got, err := NewRedis(c, DefaultRedisKeys).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, rules.Typo, got[0].Class)
	require.Equal(t, rules.Synonym, got[1].Class)
}

func TestRedisSource_CustomKeysAndMissingClass(t *testing.T) {
	mr, c := newRedis(t)
	mr.HSet("canon:typo", "a", "b")

	src := NewRedis(c, RedisKeys{Typo: "canon:typo", Synonym: "canon:syn"})
	require.Equal(t, "redis", src.Name())
	got, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, []rules.Rule{{From: "a", To: "b", Class: rules.Typo}}, got)
}

func TestRedisSource_DownIsUnavailable(t *testing.T) {
	mr, c := newRedis(t)
	mr.Close()

	_, err := NewRedis(c, DefaultRedisKeys).Fetch(context.Background())
	require.Error(t, err)
	require.True(t, perr.IsCode(err, perr.ErrorCodeUnavailable), "got %v", err)
	require.True(t, perr.Retryable(err))
}

func TestRedisSource_FeedsStore(t *testing.T) {
	mr, c := newRedis(t)
	mr.HSet("typo_rules", "맛잇는", "맛있는")

	st := rules.NewStore(NewRedis(c, DefaultRedisKeys))
	snap, err := st.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, snap.Len())

	out, _ := snap.Matcher().Apply("맛잇는 음식")
	require.Equal(t, "맛있는 음식", out)
}

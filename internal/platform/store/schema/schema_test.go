package schema

import (
	"context"
	"errors"
	"strings"
	"testing"

	perr "querycanon/internal/platform/errors"
)

func TestDDL_DeclaresTables(t *testing.T) {
	t.Parallel()

	for _, want := range []string{
		"CREATE TABLE IF NOT EXISTS query_logs",
		"CREATE TABLE IF NOT EXISTS query_normalization",
		"CREATE TABLE IF NOT EXISTS dictionary_rules",
		"normalization_key TEXT      NOT NULL UNIQUE",
	} {
		if !strings.Contains(DDL, want) {
			t.Fatalf("DDL missing %q", want)
		}
	}
}

func TestApply(t *testing.T) {
	t.Parallel()

	var got string
	if err := Apply(context.Background(), func(_ context.Context, sql string) error {
		got = sql
		return nil
	}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got != DDL {
		t.Fatalf("Apply did not send the embedded DDL")
	}

	err := Apply(context.Background(), func(context.Context, string) error { return errors.New("denied") })
	if !perr.IsCode(err, perr.ErrorCodeDB) {
		t.Fatalf("expected DB code, got %v", err)
	}
}

package net

import (
	"context"
	"testing"
)

func TestWithRequest(t *testing.T) {
	t.Parallel()

	if got := RequestID(context.Background()); got != "" {
		t.Fatalf("empty ctx = %q", got)
	}
	ctx := WithRequest(context.Background(), "req-1")
	if got := RequestID(ctx); got != "req-1" {
		t.Fatalf("RequestID = %q", got)
	}
	if WithRequest(ctx, "") != ctx {
		t.Fatalf("empty id should leave ctx untouched")
	}
}

// Package schema embeds the querycanon DDL
package schema

import (
	"context"
	_ "embed"

	perr "querycanon/internal/platform/errors"
)

//go:embed schema.sql
var DDL string

// ExecFunc adapts any exec method to Apply
type ExecFunc func(ctx context.Context, sql string) error

// Apply runs the DDL; every statement is idempotent
func Apply(ctx context.Context, exec ExecFunc) error {
	if err := exec(ctx, DDL); err != nil {
		return perr.FromPostgres(err, "apply schema")
	}
	return nil
}

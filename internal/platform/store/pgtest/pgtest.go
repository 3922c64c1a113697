//go:build integration_pg

// Package pgtest starts a disposable postgres for integration tests
package pgtest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"querycanon/internal/platform/store"
	"querycanon/internal/platform/store/pg"
	"querycanon/internal/platform/store/schema"

	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Start runs postgres:16-alpine, applies the schema, and returns a TxRunner
// plus the raw client. Everything is torn down on test cleanup
func Start(t *testing.T) (store.TxRunner, *pg.PG) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	t.Cleanup(cancel)

	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "postgres",
				"POSTGRES_DB":       "postgres",
			},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("5432/tcp"),
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			).WithDeadline(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	mapped, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("mapped port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://postgres:postgres@%s:%s/postgres?sslmode=disable", host, mapped.Port())

	p, err := pg.Open(ctx, pg.Config{URL: dsn, MaxConns: 8, AppName: "querycanon-it"}, nil, nil)
	if err != nil {
		t.Fatalf("open pg: %v", err)
	}
	t.Cleanup(p.Close)

	if err := schema.Apply(ctx, func(ctx context.Context, sql string) error {
		_, err := p.Pool.Exec(ctx, sql)
		return err
	}); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return store.FromPG(p), p
}

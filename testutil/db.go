// Package testutil holds the helpers shared by integration tests. Each helper
// skips its test when the server it needs is not configured.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/planoraa/planoraa-api/migrations"
)

// Environment variables naming the integration servers.
const (
	PostgresEnv = "TEST_DATABASE_URL"
	MongoEnv    = "TEST_MONGO_URI"
)

// NewPool returns a pool on the Postgres database at TEST_DATABASE_URL. It is
// closed at test cleanup.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	pool, err := openPool(context.Background(), PostgresDSN(t))
	if err != nil {
		t.Fatalf("testutil.NewPool: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

// PostgresDSN returns TEST_DATABASE_URL, skipping the test when it is unset.
func PostgresDSN(t *testing.T) string {
	t.Helper()
	return envOrSkip(t, PostgresEnv)
}

// NewSQLDB returns a database/sql handle backed by a fresh test pool, for
// code such as goose that needs *sql.DB.
func NewSQLDB(t *testing.T) *sql.DB {
	t.Helper()

	db := stdlib.OpenDBFromPool(NewPool(t))
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// MigrateUp applies every pending migration to the database at dsn. TestMain
// functions use it since they have no *testing.T.
func MigrateUp(ctx context.Context, dsn string) error {
	pool, err := openPool(ctx, dsn)
	if err != nil {
		return err
	}
	defer pool.Close()

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

func openPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return pool, nil
}

// envOrSkip returns the value of key, skipping the test when it is unset.
func envOrSkip(t *testing.T, key string) string {
	t.Helper()
	v := os.Getenv(key)
	if v == "" {
		t.Skipf("%s not set; skipping integration test", key)
	}
	return v
}

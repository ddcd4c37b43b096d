//go:build integration

package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/alexanderramin/obra/internal/db"
)

// SetupPostgres returns a migrated pool with empty tables. It uses
// TEST_DATABASE_URL when set and otherwise starts a throwaway container;
// the test is skipped when neither is available.
func SetupPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		url = startContainer(t, ctx)
	}

	pool, err := db.OpenPostgres(ctx, url)
	if err != nil {
		t.Fatalf("open test DB: %v", err)
	}
	t.Cleanup(func() { pool.Close() })

	if _, err := pool.Exec(ctx, `TRUNCATE activities, projects`); err != nil {
		t.Fatalf("truncate test DB: %v", err)
	}
	return pool
}

func startContainer(t *testing.T, ctx context.Context) string {
	t.Helper()
	pg, err := postgrescontainer.RunContainer(ctx,
		postgrescontainer.WithDatabase("obra"),
		postgrescontainer.WithUsername("obra"),
		postgrescontainer.WithPassword("obra"),
	)
	if err != nil {
		t.Skipf("TEST_DATABASE_URL not set and no container runtime: %v", err)
	}
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("container connection string: %v", err)
	}
	if err := waitForDatabase(ctx, connStr); err != nil {
		t.Fatalf("waiting for container: %v", err)
	}
	return connStr
}

func waitForDatabase(ctx context.Context, connStr string) error {
	deadline := time.Now().Add(30 * time.Second)
	for {
		pool, err := pgxpool.New(ctx, connStr)
		if err == nil {
			err = pool.Ping(ctx)
			pool.Close()
			if err == nil {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return err
		}
		time.Sleep(time.Second)
	}
}

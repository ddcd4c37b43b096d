package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// OpenPostgres connects to Postgres, verifies the connection and applies
// the schema.
func OpenPostgres(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if err := MigratePostgres(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return pool, nil
}

// MigratePostgres applies the Postgres schema. Every statement is
// idempotent.
func MigratePostgres(ctx context.Context, pool *pgxpool.Pool) error {
	for i, stmt := range postgresMigrations {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var postgresMigrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id          TEXT PRIMARY KEY,
		short_id    TEXT NOT NULL DEFAULT '',
		name        TEXT NOT NULL,
		address     TEXT NOT NULL DEFAULT '',
		start_date  DATE NOT NULL,
		target_date DATE,
		status      TEXT NOT NULL DEFAULT 'active'
		            CHECK(status IN ('active','paused','done','archived')),
		archived_at TIMESTAMPTZ,
		created_at  TIMESTAMPTZ NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_projects_short_id ON projects(UPPER(short_id)) WHERE short_id <> ''`,

	`CREATE TABLE IF NOT EXISTS activities (
		id              TEXT PRIMARY KEY,
		project_id      TEXT REFERENCES projects(id) ON DELETE CASCADE,
		title           TEXT NOT NULL,
		responsible     TEXT NOT NULL,
		type            TEXT NOT NULL DEFAULT '',
		priority        TEXT NOT NULL DEFAULT 'Medium'
		                CHECK(priority IN ('Low','Medium','High','Urgent')),
		status          TEXT NOT NULL DEFAULT 'Pending'
		                CHECK(status IN ('Pending','InProgress','Completed','Cancelled')),
		start_date      DATE,
		due_date        DATE,
		estimated_hours DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK(estimated_hours >= 0),
		notes           TEXT NOT NULL DEFAULT '',
		completed_at    TIMESTAMPTZ,
		created_at      TIMESTAMPTZ NOT NULL,
		updated_at      TIMESTAMPTZ NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_activities_responsible_status ON activities(responsible, status)`,
	`CREATE INDEX IF NOT EXISTS idx_activities_project ON activities(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_activities_due ON activities(due_date)`,
}

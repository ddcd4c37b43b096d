package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := backfillProjectShortIDs(db); err != nil {
		return fmt.Errorf("backfilling project short ids: %w", err)
	}
	// The unique index can only be built once every project has a code.
	if _, err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_projects_short_id ON projects(short_id) WHERE short_id != ''`); err != nil {
		return fmt.Errorf("indexing project short ids: %w", err)
	}
	return nil
}

// backfillProjectShortIDs gives projects created before short_id existed a
// code derived from their row order, so the unique index can hold.
func backfillProjectShortIDs(db *sql.DB) error {
	rows, err := db.Query(`SELECT id FROM projects WHERE short_id IS NULL OR short_id = '' ORDER BY created_at`)
	if err != nil {
		return fmt.Errorf("listing projects without short id: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("scanning project id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating projects: %w", err)
	}

	for i, id := range ids {
		code := fmt.Sprintf("OBR%03d", i+1)
		if _, err := db.Exec(`UPDATE projects SET short_id = ? WHERE id = ?`, code, id); err != nil {
			return fmt.Errorf("setting short id for %s: %w", id, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		address     TEXT NOT NULL DEFAULT '',
		start_date  TEXT NOT NULL,
		target_date TEXT,
		status      TEXT NOT NULL DEFAULT 'active'
		            CHECK(status IN ('active','paused','done','archived')),
		archived_at TEXT,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`ALTER TABLE projects ADD COLUMN short_id TEXT`,

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
		start_date      TEXT,
		due_date        TEXT,
		estimated_hours REAL NOT NULL DEFAULT 0 CHECK(estimated_hours >= 0),
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`,

	`ALTER TABLE activities ADD COLUMN notes TEXT NOT NULL DEFAULT ''`,
	`ALTER TABLE activities ADD COLUMN completed_at TEXT`,

	`CREATE INDEX IF NOT EXISTS idx_activities_responsible_status ON activities(responsible, status)`,
	`CREATE INDEX IF NOT EXISTS idx_activities_project ON activities(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_activities_due ON activities(due_date)`,
}

package db

import (
	"context"
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
	if err := migrateRisksSeverityCritical(db); err != nil {
		return fmt.Errorf("migrating risks severity constraint: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS installations (
		id                      INTEGER PRIMARY KEY,
		owner                   TEXT NOT NULL,
		owner_kind              TEXT NOT NULL DEFAULT 'organization'
		                        CHECK(owner_kind IN ('organization','user')),
		plan                    TEXT NOT NULL DEFAULT 'free'
		                        CHECK(plan IN ('free','pro')),
		subscription_status     TEXT NOT NULL DEFAULT '',
		subscription_expires_at TEXT,
		oauth_token             TEXT NOT NULL DEFAULT '',
		settings                TEXT NOT NULL DEFAULT '{}',
		created_at              TEXT NOT NULL,
		updated_at              TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS projects (
		id                        INTEGER PRIMARY KEY AUTOINCREMENT,
		installation_id           INTEGER NOT NULL REFERENCES installations(id) ON DELETE CASCADE,
		owner                     TEXT NOT NULL,
		repo                      TEXT NOT NULL DEFAULT '',
		project_number            INTEGER NOT NULL,
		external_id               TEXT NOT NULL DEFAULT '',
		start_field_id            TEXT NOT NULL DEFAULT '',
		target_field_id           TEXT NOT NULL DEFAULT '',
		actual_end_field_id       TEXT NOT NULL DEFAULT '',
		estimate_field_id         TEXT NOT NULL DEFAULT '',
		percent_complete_field_id TEXT NOT NULL DEFAULT '',
		status_field_id           TEXT NOT NULL DEFAULT '',
		created_at                TEXT NOT NULL,
		updated_at                TEXT NOT NULL,
		UNIQUE(installation_id, owner, project_number)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_projects_installation ON projects(installation_id)`,

	`CREATE TABLE IF NOT EXISTS holidays (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		installation_id INTEGER NOT NULL REFERENCES installations(id) ON DELETE CASCADE,
		date            TEXT NOT NULL,
		name            TEXT NOT NULL DEFAULT '',
		recurring       INTEGER NOT NULL DEFAULT 0,
		UNIQUE(installation_id, date)
	)`,

	`CREATE TABLE IF NOT EXISTS audit_log (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		installation_id INTEGER NOT NULL REFERENCES installations(id) ON DELETE CASCADE,
		action          TEXT NOT NULL,
		details         TEXT NOT NULL DEFAULT '{}',
		created_at      TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_audit_installation ON audit_log(installation_id, created_at)`,

	`CREATE TABLE IF NOT EXISTS risks (
		id              TEXT PRIMARY KEY,
		installation_id INTEGER NOT NULL REFERENCES installations(id) ON DELETE CASCADE,
		project_number  INTEGER NOT NULL,
		title           TEXT NOT NULL,
		description     TEXT NOT NULL DEFAULT '',
		severity        TEXT NOT NULL DEFAULT 'medium'
		                CHECK(severity IN ('low','medium','high','critical')),
		status          TEXT NOT NULL DEFAULT 'open'
		                CHECK(status IN ('open','mitigated','closed')),
		owner           TEXT NOT NULL DEFAULT '',
		linked_issues   TEXT NOT NULL DEFAULT '[]',
		mitigation_plan TEXT NOT NULL DEFAULT '',
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_risks_project ON risks(installation_id, project_number)`,

	// Reserved for generated status documents; no reader yet.
	`CREATE TABLE IF NOT EXISTS documents (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		installation_id INTEGER NOT NULL REFERENCES installations(id) ON DELETE CASCADE,
		kind            TEXT NOT NULL,
		body            TEXT NOT NULL DEFAULT '',
		created_at      TEXT NOT NULL
	)`,

	// Billing linkage added with the paid tier.
	`ALTER TABLE installations ADD COLUMN billing_customer_id TEXT NOT NULL DEFAULT ''`,
	`ALTER TABLE installations ADD COLUMN billing_subscription_id TEXT NOT NULL DEFAULT ''`,

	// Pro-tier project fields added after launch.
	`ALTER TABLE projects ADD COLUMN baseline_start_field_id TEXT NOT NULL DEFAULT ''`,
	`ALTER TABLE projects ADD COLUMN baseline_target_field_id TEXT NOT NULL DEFAULT ''`,
	`ALTER TABLE projects ADD COLUMN confidence_field_id TEXT NOT NULL DEFAULT ''`,
}

// migrateRisksSeverityCritical rebuilds the risks table when its severity
// CHECK predates the 'critical' level. SQLite cannot alter a CHECK in place,
// so the table is copied through a rename.
func migrateRisksSeverityCritical(db *sql.DB) error {
	ctx := context.Background()
	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquiring db connection: %w", err)
	}
	defer conn.Close()

	var createSQL string
	if err := conn.QueryRowContext(ctx, `SELECT sql FROM sqlite_master WHERE type = 'table' AND name = 'risks'`).Scan(&createSQL); err != nil {
		return fmt.Errorf("loading risks schema: %w", err)
	}
	if strings.Contains(strings.ToLower(createSQL), "'critical'") {
		return nil
	}

	if _, err := conn.ExecContext(ctx, `PRAGMA foreign_keys = OFF`); err != nil {
		return fmt.Errorf("disabling foreign keys: %w", err)
	}
	defer func() {
		_, _ = conn.ExecContext(ctx, `PRAGMA foreign_keys = ON`)
	}()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting migration transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS risks_new`); err != nil {
		return fmt.Errorf("dropping stale risks_new: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `CREATE TABLE risks_new (
		id              TEXT PRIMARY KEY,
		installation_id INTEGER NOT NULL REFERENCES installations(id) ON DELETE CASCADE,
		project_number  INTEGER NOT NULL,
		title           TEXT NOT NULL,
		description     TEXT NOT NULL DEFAULT '',
		severity        TEXT NOT NULL DEFAULT 'medium'
		                CHECK(severity IN ('low','medium','high','critical')),
		status          TEXT NOT NULL DEFAULT 'open'
		                CHECK(status IN ('open','mitigated','closed')),
		owner           TEXT NOT NULL DEFAULT '',
		linked_issues   TEXT NOT NULL DEFAULT '[]',
		mitigation_plan TEXT NOT NULL DEFAULT '',
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`); err != nil {
		return fmt.Errorf("creating risks_new: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO risks_new (
		id, installation_id, project_number, title, description, severity,
		status, owner, linked_issues, mitigation_plan, created_at, updated_at
	) SELECT
		id, installation_id, project_number, title, description, severity,
		status, owner, linked_issues, mitigation_plan, created_at, updated_at
	FROM risks`); err != nil {
		return fmt.Errorf("copying risks data: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DROP TABLE risks`); err != nil {
		return fmt.Errorf("dropping old risks: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `ALTER TABLE risks_new RENAME TO risks`); err != nil {
		return fmt.Errorf("renaming risks_new: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_risks_project ON risks(installation_id, project_number)`); err != nil {
		return fmt.Errorf("recreating idx_risks_project: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing risks migration: %w", err)
	}
	committed = true

	return nil
}

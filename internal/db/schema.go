package db

import (
	"database/sql"
	"fmt"
)

// SchemaSQL is the complete schema for fresh installs.
// This schema reflects the current state after all migrations.
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. Repository tests
// load it through GetSchemaSQL() and never declare their own tables, so a column
// referenced by an adapter but missing here fails with "no such column".
//
// When adding new columns or tables:
//  1. Add a migration in migrations.go
//  2. Update SchemaSQL here
//  3. Run `go test ./internal/adapters/sqlite/...` to verify alignment
//
// Timestamps are stored as RFC 3339 text in UTC.
const SchemaSQL = `
-- Cases (audit case under SLA tracking)
CREATE TABLE IF NOT EXISTS cases (
	id TEXT PRIMARY KEY,
	ruc TEXT NOT NULL DEFAULT '',
	name TEXT NOT NULL DEFAULT '',
	activity TEXT NOT NULL DEFAULT '',
	activity_key TEXT NOT NULL DEFAULT '',
	category TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT '',
	current_phase TEXT NOT NULL CHECK(current_phase IN (
		'selection', 'verification', 'approval', 'assignment',
		'audit_start', 'supervisor_review', 'section_chief_review', 'close'
	)) DEFAULT 'selection',
	deadline TEXT,
	version INTEGER NOT NULL DEFAULT 1,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_cases_phase ON cases(current_phase);
CREATE INDEX IF NOT EXISTS idx_cases_activity_key ON cases(activity_key);

-- Case history (append-only audit trail of phase transitions)
CREATE TABLE IF NOT EXISTS case_history (
	id TEXT PRIMARY KEY,
	case_id TEXT NOT NULL,
	seq INTEGER NOT NULL,
	from_phase TEXT,
	to_phase TEXT NOT NULL,
	actor TEXT NOT NULL CHECK(length(trim(actor)) > 0),
	note TEXT,
	deadline TEXT,
	at TEXT NOT NULL,
	FOREIGN KEY (case_id) REFERENCES cases(id),
	UNIQUE(case_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_case_history_case ON case_history(case_id, seq);

-- SLA rules (one per normalized activity)
CREATE TABLE IF NOT EXISTS sla_rules (
	activity_key TEXT PRIMARY KEY,
	activity TEXT NOT NULL,
	product TEXT,
	responsible_role TEXT NOT NULL DEFAULT '',
	total_allowed_days INTEGER NOT NULL CHECK(total_allowed_days > 0),
	green_from INTEGER NOT NULL,
	green_to INTEGER NOT NULL,
	amber_from INTEGER NOT NULL,
	amber_to INTEGER NOT NULL,
	red_from INTEGER NOT NULL,
	red_to INTEGER NOT NULL,
	escalate_amber_to TEXT,
	escalate_red_1 TEXT,
	escalate_red_2 TEXT,
	escalate_red_3 TEXT,
	updated_at TEXT NOT NULL
);
`

// InitSchema creates the schema on a fresh database, or runs pending migrations
// on an existing one.
func InitSchema(conn *sql.DB) error {
	var tableCount int
	err := conn.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}

	if tableCount > 0 {
		return RunMigrations(conn)
	}

	// Fresh install - create the modern schema directly and mark every
	// migration as applied.
	if _, err := conn.Exec(SchemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if err := ensureVersionTable(conn); err != nil {
		return err
	}
	for _, m := range migrations {
		if _, err := conn.Exec("INSERT OR IGNORE INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			return err
		}
	}
	return nil
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}

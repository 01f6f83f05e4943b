package db

import (
	"database/sql"
	"fmt"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.DB) error
}

// migrations is the list of all migrations in order
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_cases_and_case_history",
		Up:      migrationV1,
	},
	{
		Version: 2,
		Name:    "create_sla_rules",
		Up:      migrationV2,
	},
	{
		Version: 3,
		Name:    "add_version_to_cases",
		Up:      migrationV3,
	},
}

func ensureVersionTable(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}
	return nil
}

// RunMigrations executes all pending migrations against conn
func RunMigrations(conn *sql.DB) error {
	if err := ensureVersionTable(conn); err != nil {
		return err
	}

	var currentVersion int
	err := conn.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		if err := migration.Up(conn); err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", migration.Version, migration.Name, err)
		}

		if _, err := conn.Exec("INSERT INTO schema_version (version) VALUES (?)", migration.Version); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

// CurrentVersion reports the highest applied migration
func CurrentVersion(conn *sql.DB) (int, error) {
	var v int
	err := conn.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&v)
	if err != nil {
		return 0, fmt.Errorf("failed to get current schema version: %w", err)
	}
	return v, nil
}

func columnExists(conn *sql.DB, table, column string) (bool, error) {
	var count int
	err := conn.QueryRow(
		"SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?",
		table, column,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to inspect %s: %w", table, err)
	}
	return count > 0, nil
}

// migrationV1 creates the cases table and the transition audit trail
func migrationV1(conn *sql.DB) error {
	_, err := conn.Exec(`
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
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_cases_phase ON cases(current_phase);
		CREATE INDEX IF NOT EXISTS idx_cases_activity_key ON cases(activity_key);

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
	`)
	if err != nil {
		return fmt.Errorf("failed to create case tables: %w", err)
	}
	return nil
}

// migrationV2 creates the SLA rule catalog
func migrationV2(conn *sql.DB) error {
	_, err := conn.Exec(`
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
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create sla_rules table: %w", err)
	}
	return nil
}

// migrationV3 adds the optimistic-concurrency version counter to cases
func migrationV3(conn *sql.DB) error {
	exists, err := columnExists(conn, "cases", "version")
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	if _, err := conn.Exec("ALTER TABLE cases ADD COLUMN version INTEGER NOT NULL DEFAULT 1"); err != nil {
		return fmt.Errorf("failed to add version column: %w", err)
	}
	return nil
}

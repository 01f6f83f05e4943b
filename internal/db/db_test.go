package db

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"
)

func TestOpen_FreshInstallMarksAllMigrations(t *testing.T) {
	conn, err := Open(filepath.Join(t.TempDir(), "nested", "casesla.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer conn.Close()

	v, err := CurrentVersion(conn)
	if err != nil {
		t.Fatalf("CurrentVersion failed: %v", err)
	}
	if v != len(migrations) {
		t.Errorf("expected version %d, got %d", len(migrations), v)
	}
}

func TestRunMigrations_UpgradesOldDatabase(t *testing.T) {
	conn, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "old.db"))
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	defer conn.Close()

	// Simulate a database created before the version column existed.
	if err := ensureVersionTable(conn); err != nil {
		t.Fatal(err)
	}
	if err := migrationV1(conn); err != nil {
		t.Fatalf("migrationV1 failed: %v", err)
	}
	if _, err := conn.Exec("INSERT INTO schema_version (version) VALUES (1)"); err != nil {
		t.Fatal(err)
	}

	if err := InitSchema(conn); err != nil {
		t.Fatalf("InitSchema failed: %v", err)
	}

	ok, err := columnExists(conn, "cases", "version")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("expected cases.version after migration")
	}
	ok, err = columnExists(conn, "sla_rules", "escalate_red_3")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("expected sla_rules table after migration")
	}

	// Re-running is a no-op.
	if err := RunMigrations(conn); err != nil {
		t.Errorf("second RunMigrations failed: %v", err)
	}
}

func TestSeedFixtures(t *testing.T) {
	conn, err := Open(filepath.Join(t.TempDir(), "seed.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer conn.Close()

	if err := SeedFixtures(conn, time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("SeedFixtures failed: %v", err)
	}

	var rules, cases, history int
	conn.QueryRow("SELECT COUNT(*) FROM sla_rules").Scan(&rules)
	conn.QueryRow("SELECT COUNT(*) FROM cases").Scan(&cases)
	conn.QueryRow("SELECT COUNT(*) FROM case_history").Scan(&history)

	if rules != 3 {
		t.Errorf("expected 3 rules, got %d", rules)
	}
	if cases != 4 {
		t.Errorf("expected 4 cases, got %d", cases)
	}
	if history != 14 {
		t.Errorf("expected 14 history entries, got %d", history)
	}
}

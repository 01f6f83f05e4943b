// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for tests.
// All test setup functions use db.GetSchemaSQL() to ensure tests run against
// the authoritative schema, preventing drift between test and production.
//
// DO NOT hardcode CREATE TABLE statements in test files. Use setupTestDB()
// and the seed* helpers instead.
package sqlite_test

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/casesla/internal/db"
	"github.com/example/casesla/internal/ports/secondary"
)

// setupTestDB creates an in-memory database with the authoritative schema.
// A single connection is used so every query sees the same in-memory database.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	testDB.SetMaxOpenConns(1)

	_, err = testDB.Exec(db.GetSchemaSQL())
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

var baseTime = time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)

// newCaseRecord builds an unsaved case registered in the selection phase.
func newCaseRecord(id, activity string) *secondary.CaseRecord {
	return &secondary.CaseRecord{
		ID:           id,
		RUC:          "20100011111",
		Name:         "Comercial Andina SAC",
		Activity:     activity,
		ActivityKey:  activity,
		Category:     "fiscalizacion",
		Status:       "open",
		CurrentPhase: "selection",
		CreatedAt:    baseTime,
		UpdatedAt:    baseTime,
		History: []*secondary.PhaseHistoryRecord{
			{ID: id + "-H1", To: "selection", Actor: "Auditor1", At: baseTime},
		},
	}
}

// seedRule inserts a rule row with the given key and red chain.
func seedRule(t *testing.T, db *sql.DB, key string, red ...string) {
	t.Helper()
	var chain [3]sql.NullString
	for i, r := range red {
		chain[i] = sql.NullString{String: r, Valid: r != ""}
	}
	_, err := db.Exec(
		`INSERT INTO sla_rules (activity_key, activity, responsible_role, total_allowed_days,
			green_from, green_to, amber_from, amber_to, red_from, red_to,
			escalate_amber_to, escalate_red_1, escalate_red_2, escalate_red_3, updated_at)
		VALUES (?, ?, 'Auditor', 5, 1, 3, 4, 4, 5, 5, 'Supervisor', ?, ?, ?, ?)`,
		key, key, chain[0], chain[1], chain[2], baseTime.Format(time.RFC3339Nano),
	)
	if err != nil {
		t.Fatalf("failed to seed rule: %v", err)
	}
}

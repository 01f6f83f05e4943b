package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/example/casesla/internal/ports/secondary"
)

// CaseRepository implements secondary.CaseStore with SQLite.
type CaseRepository struct {
	db *sql.DB
}

// NewCaseRepository creates a new SQLite case repository.
func NewCaseRepository(db *sql.DB) *CaseRepository {
	return &CaseRepository{db: db}
}

var _ secondary.CaseStore = (*CaseRepository)(nil)

const caseColumns = "id, ruc, name, activity, activity_key, category, status, current_phase, deadline, version, created_at, updated_at"

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Get retrieves a case and its full history.
func (r *CaseRepository) Get(ctx context.Context, id string) (*secondary.CaseRecord, error) {
	record, err := scanCase(r.db.QueryRowContext(ctx,
		"SELECT "+caseColumns+" FROM cases WHERE id = ?", id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("case %s: %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get case: %w", err)
	}

	history, err := loadHistory(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	record.History = history

	return record, nil
}

// Upsert inserts or updates a case and appends any new history entries.
// The write is rejected with ErrConcurrencyConflict when record.Version does
// not match the stored version.
func (r *CaseRepository) Upsert(ctx context.Context, record *secondary.CaseRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = record.CreatedAt
	}

	if record.Version == 0 {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO cases ("+caseColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)",
			record.ID, record.RUC, record.Name, record.Activity, record.ActivityKey,
			record.Category, record.Status, record.CurrentPhase, nullTime(record.Deadline),
			formatTime(record.CreatedAt), formatTime(record.UpdatedAt),
		)
		if isConstraintViolation(err) {
			return fmt.Errorf("case %s: %w", record.ID, secondary.ErrConcurrencyConflict)
		}
		if err != nil {
			return fmt.Errorf("failed to create case: %w", err)
		}
	} else {
		res, err := tx.ExecContext(ctx,
			`UPDATE cases SET ruc = ?, name = ?, activity = ?, activity_key = ?, category = ?, status = ?,
				current_phase = ?, deadline = ?, version = version + 1, updated_at = ?
			WHERE id = ? AND version = ?`,
			record.RUC, record.Name, record.Activity, record.ActivityKey, record.Category, record.Status,
			record.CurrentPhase, nullTime(record.Deadline), formatTime(record.UpdatedAt),
			record.ID, record.Version,
		)
		if err != nil {
			return fmt.Errorf("failed to update case: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to update case: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("case %s at version %d: %w", record.ID, record.Version, secondary.ErrConcurrencyConflict)
		}
	}

	for seq, h := range record.History {
		_, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO case_history (id, case_id, seq, from_phase, to_phase, actor, note, deadline, at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			h.ID, record.ID, seq, nullString(h.From), h.To, h.Actor, nullString(h.Note),
			nullTime(h.Deadline), formatTime(h.At),
		)
		if err != nil {
			return fmt.Errorf("failed to append history for case %s: %w", record.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit case %s: %w", record.ID, err)
	}

	record.Version++
	return nil
}

// List retrieves cases matching the given filters, ordered by id.
func (r *CaseRepository) List(ctx context.Context, filters secondary.CaseFilters) ([]*secondary.CaseRecord, error) {
	query := "SELECT " + caseColumns + " FROM cases WHERE 1=1"
	args := []any{}

	if filters.Phase != "" {
		query += " AND current_phase = ?"
		args = append(args, filters.Phase)
	}

	if filters.ActivityKey != "" {
		query += " AND activity_key = ?"
		args = append(args, filters.ActivityKey)
	}

	query += " ORDER BY id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}

	var cases []*secondary.CaseRecord
	for rows.Next() {
		record, err := scanCase(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan case: %w", err)
		}
		cases = append(cases, record)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}
	rows.Close()

	for _, c := range cases {
		history, err := loadHistory(ctx, r.db, c.ID)
		if err != nil {
			return nil, err
		}
		c.History = history
	}

	return cases, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCase(row rowScanner) (*secondary.CaseRecord, error) {
	var (
		deadline  sql.NullString
		createdAt string
		updatedAt string
	)

	record := &secondary.CaseRecord{}
	err := row.Scan(&record.ID, &record.RUC, &record.Name, &record.Activity, &record.ActivityKey,
		&record.Category, &record.Status, &record.CurrentPhase, &deadline, &record.Version,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if record.Deadline, err = parseNullTime(deadline); err != nil {
		return nil, err
	}
	if record.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if record.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	return record, nil
}

func loadHistory(ctx context.Context, q queryer, caseID string) ([]*secondary.PhaseHistoryRecord, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT id, from_phase, to_phase, actor, note, deadline, at FROM case_history WHERE case_id = ? ORDER BY seq",
		caseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load history for case %s: %w", caseID, err)
	}
	defer rows.Close()

	history := []*secondary.PhaseHistoryRecord{}
	for rows.Next() {
		var (
			from     sql.NullString
			note     sql.NullString
			deadline sql.NullString
			at       string
		)

		h := &secondary.PhaseHistoryRecord{}
		if err := rows.Scan(&h.ID, &from, &h.To, &h.Actor, &note, &deadline, &at); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}

		h.From = from.String
		h.Note = note.String
		if h.Deadline, err = parseNullTime(deadline); err != nil {
			return nil, err
		}
		if h.At, err = parseTime(at); err != nil {
			return nil, err
		}
		history = append(history, h)
	}

	return history, rows.Err()
}

func isConstraintViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint
	}
	return false
}

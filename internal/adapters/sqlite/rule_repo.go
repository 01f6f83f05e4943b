package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/casesla/internal/ports/secondary"
)

// RuleRepository implements secondary.RuleStore with SQLite.
// The red escalation chain is stored in three nullable columns.
type RuleRepository struct {
	db *sql.DB
}

// NewRuleRepository creates a new SQLite rule repository.
func NewRuleRepository(db *sql.DB) *RuleRepository {
	return &RuleRepository{db: db}
}

var _ secondary.RuleStore = (*RuleRepository)(nil)

const ruleColumns = `activity_key, activity, product, responsible_role, total_allowed_days,
	green_from, green_to, amber_from, amber_to, red_from, red_to,
	escalate_amber_to, escalate_red_1, escalate_red_2, escalate_red_3, updated_at`

// Get retrieves a rule by its normalized activity key.
func (r *RuleRepository) Get(ctx context.Context, key string) (*secondary.RuleRecord, error) {
	record, err := scanRule(r.db.QueryRowContext(ctx,
		"SELECT "+ruleColumns+" FROM sla_rules WHERE activity_key = ?", key,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("rule %s: %w", key, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rule: %w", err)
	}
	return record, nil
}

// Upsert inserts or replaces a rule.
func (r *RuleRepository) Upsert(ctx context.Context, rule *secondary.RuleRecord) error {
	if len(rule.EscalateRedTo) > 3 {
		return fmt.Errorf("rule %s: red escalation chain has %d roles, at most 3 can be stored", rule.Key, len(rule.EscalateRedTo))
	}
	var red [3]sql.NullString
	for i, role := range rule.EscalateRedTo {
		red[i] = nullString(role)
	}

	if rule.UpdatedAt.IsZero() {
		rule.UpdatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sla_rules (`+ruleColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(activity_key) DO UPDATE SET
			activity = excluded.activity,
			product = excluded.product,
			responsible_role = excluded.responsible_role,
			total_allowed_days = excluded.total_allowed_days,
			green_from = excluded.green_from,
			green_to = excluded.green_to,
			amber_from = excluded.amber_from,
			amber_to = excluded.amber_to,
			red_from = excluded.red_from,
			red_to = excluded.red_to,
			escalate_amber_to = excluded.escalate_amber_to,
			escalate_red_1 = excluded.escalate_red_1,
			escalate_red_2 = excluded.escalate_red_2,
			escalate_red_3 = excluded.escalate_red_3,
			updated_at = excluded.updated_at`,
		rule.Key, rule.Activity, nullString(rule.Product), rule.ResponsibleRole, rule.TotalAllowedDays,
		rule.GreenFrom, rule.GreenTo, rule.AmberFrom, rule.AmberTo, rule.RedFrom, rule.RedTo,
		nullString(rule.EscalateAmberTo), red[0], red[1], red[2], formatTime(rule.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert rule: %w", err)
	}

	return nil
}

// Remove deletes a rule. Removing an absent rule is not an error.
func (r *RuleRepository) Remove(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM sla_rules WHERE activity_key = ?", key)
	if err != nil {
		return fmt.Errorf("failed to remove rule: %w", err)
	}
	return nil
}

// List retrieves every rule ordered by key.
func (r *RuleRepository) List(ctx context.Context) ([]*secondary.RuleRecord, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+ruleColumns+" FROM sla_rules ORDER BY activity_key")
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}
	defer rows.Close()

	var rules []*secondary.RuleRecord
	for rows.Next() {
		record, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		rules = append(rules, record)
	}

	return rules, rows.Err()
}

func scanRule(row rowScanner) (*secondary.RuleRecord, error) {
	var (
		product   sql.NullString
		amber     sql.NullString
		red       [3]sql.NullString
		updatedAt string
	)

	record := &secondary.RuleRecord{}
	err := row.Scan(&record.Key, &record.Activity, &product, &record.ResponsibleRole, &record.TotalAllowedDays,
		&record.GreenFrom, &record.GreenTo, &record.AmberFrom, &record.AmberTo, &record.RedFrom, &record.RedTo,
		&amber, &red[0], &red[1], &red[2], &updatedAt)
	if err != nil {
		return nil, err
	}

	record.Product = product.String
	record.EscalateAmberTo = amber.String

	// Keep positions up to the last non-empty role; interior gaps survive as "".
	last := -1
	for i, role := range red {
		if role.Valid && role.String != "" {
			last = i
		}
	}
	record.EscalateRedTo = []string{}
	for i := 0; i <= last; i++ {
		record.EscalateRedTo = append(record.EscalateRedTo, red[i].String)
	}

	if record.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	return record, nil
}

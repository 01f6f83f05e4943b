package db

import (
	"database/sql"
	"fmt"
	"time"
)

// SeedFixtures populates the database with development fixtures: a small rule
// catalog and a handful of cases spread across the phases.
func SeedFixtures(database *sql.DB, now time.Time) error {
	ts := now.UTC().Format(time.RFC3339Nano)

	rules := []struct {
		key, activity, product, role string
		total                        int
		bands                        [6]int
		amber                        string
		red                          [3]string
	}{
		{"acta_inicio", "ACTA_INICIO", "Auditoria", "Auditor", 5, [6]int{1, 3, 4, 4, 5, 5}, "Supervisor", [3]string{"JefeSeccion", "JefeDepartamento", ""}},
		{"requerimiento", "REQUERIMIENTO", "Auditoria", "Auditor", 10, [6]int{1, 5, 6, 8, 9, 10}, "Supervisor", [3]string{"JefeSeccion", "", ""}},
		{"informe_final", "INFORME_FINAL", "Auditoria", "Supervisor", 15, [6]int{1, 8, 9, 12, 13, 15}, "JefeSeccion", [3]string{"JefeDepartamento", "Director", ""}},
	}
	for _, r := range rules {
		if _, err := database.Exec(
			`INSERT INTO sla_rules (activity_key, activity, product, responsible_role, total_allowed_days,
				green_from, green_to, amber_from, amber_to, red_from, red_to,
				escalate_amber_to, escalate_red_1, escalate_red_2, escalate_red_3, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.key, r.activity, r.product, r.role, r.total,
			r.bands[0], r.bands[1], r.bands[2], r.bands[3], r.bands[4], r.bands[5],
			r.amber, nullString(r.red[0]), nullString(r.red[1]), nullString(r.red[2]), ts,
		); err != nil {
			return fmt.Errorf("seed rules: %w", err)
		}
	}

	cases := []struct {
		id, ruc, name, activity, key string
		path                         []string
		ageDays                      int
	}{
		{"CASE-001", "20100011111", "Comercial Andina SAC", "ACTA_INICIO", "acta_inicio", []string{"selection", "verification", "approval", "assignment", "audit_start"}, 4},
		{"CASE-002", "20100022222", "Textiles del Sur SA", "REQUERIMIENTO", "requerimiento", []string{"selection", "verification"}, 2},
		{"CASE-003", "20100033333", "Minera Pacifico SRL", "INFORME_FINAL", "informe_final", []string{"selection", "verification", "approval", "assignment", "audit_start", "supervisor_review"}, 14},
		{"CASE-004", "20100044444", "Agroexport Norte EIRL", "DEVOLUCION", "devolucion", []string{"selection"}, 1},
	}
	for _, c := range cases {
		last := c.path[len(c.path)-1]
		start := now.UTC().AddDate(0, 0, -c.ageDays-len(c.path))
		created := start.Format(time.RFC3339Nano)
		if _, err := database.Exec(
			`INSERT INTO cases (id, ruc, name, activity, activity_key, category, status, current_phase, version, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, 'fiscalizacion', 'open', ?, 1, ?, ?)`,
			c.id, c.ruc, c.name, c.activity, c.key, last, created, ts,
		); err != nil {
			return fmt.Errorf("seed cases: %w", err)
		}

		from := sql.NullString{}
		for i, to := range c.path {
			at := start.AddDate(0, 0, i)
			if i == len(c.path)-1 {
				at = now.UTC().AddDate(0, 0, -c.ageDays)
			}
			if _, err := database.Exec(
				`INSERT INTO case_history (id, case_id, seq, from_phase, to_phase, actor, note, at)
				VALUES (?, ?, ?, ?, ?, 'seed', NULL, ?)`,
				fmt.Sprintf("%s-H%02d", c.id, i+1), c.id, i, from, to, at.Format(time.RFC3339Nano),
			); err != nil {
				return fmt.Errorf("seed case history: %w", err)
			}
			from = sql.NullString{String: to, Valid: true}
		}
	}

	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

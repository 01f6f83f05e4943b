package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/casesla/internal/config"
	"github.com/example/casesla/internal/db"
)

// run executes one casesla invocation and returns its stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	globalActorID = ""
	configPath = ""
	verbose = false

	var out bytes.Buffer
	root := RootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	if err != nil {
		t.Fatalf("casesla %s failed: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

// TestCLI_EndToEnd drives the commands against a real SQLite file.
// Services are process singletons, so every step shares one database.
func TestCLI_EndToEnd(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(config.EnvDBPath, filepath.Join(home, "e2e.db"))
	t.Setenv(config.EnvLogLevel, "error")
	t.Setenv(config.EnvActor, "")
	t.Cleanup(func() { db.Close() })

	steps := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "set rule",
			args: []string{"rule", "set", "ACTA_INICIO", "--role", "Auditor", "--total", "5",
				"--green", "1-3", "--amber", "4-4", "--red", "5-5",
				"--amber-to", "Supervisor", "--red-to", "JefeSeccion,Director"},
			want: []string{"✓ Saved rule ACTA_INICIO (5 days)"},
		},
		{
			name: "lookup is case-insensitive",
			args: []string{"rule", "show", "  acta_inicio "},
			want: []string{"Rule: ACTA_INICIO", "JefeSeccion, Director"},
		},
		{
			name: "register case",
			args: []string{"case", "register", "C1", "--activity", "ACTA_INICIO", "--ruc", "20100011111"},
			want: []string{"✓ Registered case C1 in selection"},
		},
		{
			name: "next phase with global actor",
			args: []string{"--actor", "Auditor1", "case", "next", "C1"},
			want: []string{"✓ Case C1: selection -> verification"},
		},
		{
			name: "explicit phase",
			args: []string{"--actor", "Auditor1", "case", "advance", "C1", "audit_start", "--note", "acta firmada"},
			want: []string{"✓ Case C1: verification -> audit_start"},
		},
		{
			name: "history",
			args: []string{"case", "show", "C1"},
			want: []string{"Phase:    audit_start", "acta firmada", "Auditor1"},
		},
		{
			name: "amber status",
			args: []string{"case", "status", "C1", "--reference", "2025-03-01", "--now", "2025-03-05"},
			want: []string{"AMBER", "Supervisor"},
		},
		{
			name: "sweep notifies red",
			args: []string{"sweep", "--reference", "2025-03-01", "--now", "2025-03-06"},
			want: []string{"RED", "JefeSeccion (+Director)", "1 escalation(s) sent"},
		},
		{
			name: "advance registers unknown case with its activity",
			args: []string{"--actor", "Auditor1", "case", "advance", "C2", "verification", "--activity", "acta_inicio", "--ruc", "20100022222"},
			want: []string{"✓ Case C2 registered in verification"},
		},
		{
			name: "implicitly registered case is classified",
			args: []string{"case", "status", "C2", "--reference", "2025-03-01", "--now", "2025-03-05"},
			want: []string{"acta_inicio", "AMBER", "Supervisor"},
		},
		{
			name: "list by activity",
			args: []string{"case", "list", "--activity", "acta_inicio"},
			want: []string{"C1", "audit_start"},
		},
		{
			name: "export",
			args: []string{"rule", "export"},
			want: []string{"activity: ACTA_INICIO", "escalate_red_to: [JefeSeccion, Director]"},
		},
	}

	for _, step := range steps {
		out := mustRun(t, step.args...)
		for _, want := range step.want {
			if !strings.Contains(out, want) {
				t.Errorf("%s: output missing %q:\n%s", step.name, want, out)
			}
		}
	}

	failures := []struct {
		name string
		args []string
	}{
		{"invalid rule", []string{"rule", "set", "BAD", "--total", "5", "--green", "1-4", "--amber", "4-4", "--red", "5-5"}},
		{"unknown phase", []string{"--actor", "Auditor1", "case", "advance", "C1", "archived"}},
		{"missing actor", []string{"case", "next", "C1"}},
		{"duplicate registration", []string{"case", "register", "C1"}},
		{"unknown case", []string{"case", "show", "C404"}},
	}

	for _, f := range failures {
		if out, err := run(t, f.args...); err == nil {
			t.Errorf("%s: expected failure, got output:\n%s", f.name, out)
		}
	}

	out := mustRun(t, "rule", "show", "BAD")
	if !strings.Contains(out, "No rule for activity") {
		t.Errorf("rejected rule must not be stored:\n%s", out)
	}
}

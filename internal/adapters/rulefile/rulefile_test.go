package rulefile

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/example/casesla/internal/ports/primary"
)

const sampleDoc = `rules:
  - activity: ACTA_INICIO
    product: Fiscalización
    responsible_role: Auditor
    total_allowed_days: 5
    green: {from: 1, to: 3}
    amber: {from: 4, to: 4}
    red: {from: 5, to: 5}
    escalate_amber_to: Supervisor
    escalate_red_to: [Supervisor, SectionChief]
  - activity: REQUERIMIENTO
    responsible_role: Auditor
    total_allowed_days: 10
    green: {from: 1, to: 5}
    amber: {from: 6, to: 8}
    red: {from: 9, to: 10}
`

func TestDecode(t *testing.T) {
	rules, err := Decode(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	want := []primary.Rule{
		{
			Activity:         "ACTA_INICIO",
			Product:          "Fiscalización",
			ResponsibleRole:  "Auditor",
			TotalAllowedDays: 5,
			Green:            primary.Band{From: 1, To: 3},
			Amber:            primary.Band{From: 4, To: 4},
			Red:              primary.Band{From: 5, To: 5},
			EscalateAmberTo:  "Supervisor",
			EscalateRedTo:    []string{"Supervisor", "SectionChief"},
		},
		{
			Activity:         "REQUERIMIENTO",
			ResponsibleRole:  "Auditor",
			TotalAllowedDays: 10,
			Green:            primary.Band{From: 1, To: 5},
			Amber:            primary.Band{From: 6, To: 8},
			Red:              primary.Band{From: 9, To: 10},
		},
	}
	if diff := cmp.Diff(want, rules); diff != "" {
		t.Errorf("Decode mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown field", "rules:\n  - activity: X\n    gren: {from: 1, to: 2}\n"},
		{"wrong type", "rules:\n  - activity: X\n    total_allowed_days: five\n"},
		{"not a list", "rules: oops\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(strings.NewReader(tt.doc)); err == nil {
				t.Error("expected decode error")
			}
		})
	}
}

func TestDecode_EmptyDocument(t *testing.T) {
	rules, err := Decode(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(rules) != 0 {
		t.Errorf("expected no rules, got %d", len(rules))
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	rules, err := Decode(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	ptrs := make([]*primary.Rule, len(rules))
	for i := range rules {
		ptrs[i] = &rules[i]
	}

	var buf bytes.Buffer
	if err := Encode(&buf, ptrs); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !strings.Contains(buf.String(), "escalate_red_to: [Supervisor, SectionChief]") {
		t.Errorf("expected flow-style red chain, got:\n%s", buf.String())
	}
	if strings.Contains(buf.String(), "product: \"\"") {
		t.Errorf("empty product should be omitted, got:\n%s", buf.String())
	}

	again, err := Decode(&buf)
	if err != nil {
		t.Fatalf("re-Decode failed: %v", err)
	}
	if diff := cmp.Diff(rules, again); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

package notify

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogNotifier_Notify(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	n := NewLogNotifier(zap.New(core))

	tests := []struct {
		tier      string
		wantLevel zapcore.Level
	}{
		{"AMBER", zapcore.InfoLevel},
		{"RED", zapcore.WarnLevel},
	}

	for _, tt := range tests {
		t.Run(tt.tier, func(t *testing.T) {
			if err := n.Notify(context.Background(), "CASE-001", tt.tier, []string{"Supervisor"}); err != nil {
				t.Fatalf("Notify failed: %v", err)
			}
			entries := logs.TakeAll()
			if len(entries) != 1 {
				t.Fatalf("expected 1 log entry, got %d", len(entries))
			}
			e := entries[0]
			if e.Level != tt.wantLevel {
				t.Errorf("level = %v, want %v", e.Level, tt.wantLevel)
			}
			fields := e.ContextMap()
			if fields["case_id"] != "CASE-001" {
				t.Errorf("case_id = %v", fields["case_id"])
			}
			if fields["tier"] != tt.tier {
				t.Errorf("tier = %v, want %s", fields["tier"], tt.tier)
			}
		})
	}
}

package ctxutil

import (
	"context"
	"testing"
)

func TestActorFromContext(t *testing.T) {
	if got := ActorFromContext(context.Background()); got != "" {
		t.Errorf("expected empty actor, got %q", got)
	}
	ctx := WithActorID(context.Background(), "Auditor1")
	if got := ActorFromContext(ctx); got != "Auditor1" {
		t.Errorf("expected Auditor1, got %q", got)
	}
}

func TestActorOr(t *testing.T) {
	ctx := WithActorID(context.Background(), "Auditor1")

	tests := []struct {
		name     string
		ctx      context.Context
		explicit string
		want     string
	}{
		{"explicit wins", ctx, "Supervisor", "Supervisor"},
		{"context fallback", ctx, "", "Auditor1"},
		{"neither", context.Background(), "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ActorOr(tt.ctx, tt.explicit); got != tt.want {
				t.Errorf("ActorOr() = %q, want %q", got, tt.want)
			}
		})
	}
}

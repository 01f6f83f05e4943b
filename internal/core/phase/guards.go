package phase

import (
	"fmt"
	"strings"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string // Human-readable reason (populated when not allowed)
}

// ValidationError is returned when a transition command is rejected.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return &ValidationError{Reason: r.Reason}
}

// AdvanceContext provides context for advance guards.
type AdvanceContext struct {
	CaseID string
	Actor  string
	Target Phase
}

// RegisterContext provides context for explicit registration guards.
type RegisterContext struct {
	CaseID string
	Exists bool
}

// AdvanceNextContext provides context for canonical-order advancement.
type AdvanceNextContext struct {
	CaseID  string
	Current Phase
}

// CanAdvance evaluates whether a case can move to a target phase.
// Rules:
// - Actor must be non-empty (no unattributed transitions)
// - Target must be a known phase
//
// The target need not be NextPhase(current); skips and returns are recorded as-is.
func CanAdvance(ctx AdvanceContext) GuardResult {
	if strings.TrimSpace(ctx.CaseID) == "" {
		return GuardResult{Allowed: false, Reason: "case id is required"}
	}
	if strings.TrimSpace(ctx.Actor) == "" {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("cannot advance case %s without an actor", ctx.CaseID),
		}
	}
	if !ctx.Target.Valid() {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("cannot advance case %s to unknown phase %q", ctx.CaseID, ctx.Target),
		}
	}
	return GuardResult{Allowed: true}
}

// CanRegister evaluates whether a case can be explicitly registered.
// Rule: the id must be non-empty and not already registered.
func CanRegister(ctx RegisterContext) GuardResult {
	if strings.TrimSpace(ctx.CaseID) == "" {
		return GuardResult{Allowed: false, Reason: "case id is required"}
	}
	if ctx.Exists {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("case %s already registered", ctx.CaseID),
		}
	}
	return GuardResult{Allowed: true}
}

// CanAdvanceNext evaluates whether a case has a canonical next phase.
// Rule: cases in the terminal phase cannot advance further.
func CanAdvanceNext(ctx AdvanceNextContext) GuardResult {
	if _, ok := NextPhase(ctx.Current); !ok {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("case %s is in phase %s and has no next phase", ctx.CaseID, ctx.Current),
		}
	}
	return GuardResult{Allowed: true}
}

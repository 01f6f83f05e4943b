// Package phase contains the pure business logic for case phase progression.
// Guards are pure functions that evaluate preconditions without side effects.
package phase

import (
	"fmt"
	"strings"
)

// Phase is one state in the fixed, ordered audit workflow.
type Phase string

const (
	Selection          Phase = "selection"
	Verification       Phase = "verification"
	Approval           Phase = "approval"
	Assignment         Phase = "assignment"
	AuditStart         Phase = "audit_start"
	SupervisorReview   Phase = "supervisor_review"
	SectionChiefReview Phase = "section_chief_review"
	Close              Phase = "close"
)

// order is the canonical workflow sequence.
var order = []Phase{
	Selection,
	Verification,
	Approval,
	Assignment,
	AuditStart,
	SupervisorReview,
	SectionChiefReview,
	Close,
}

// Initial is the phase every new case starts in.
const Initial = Selection

// Terminal is the last phase of the workflow.
const Terminal = Close

// All returns the phases in workflow order.
func All() []Phase {
	out := make([]Phase, len(order))
	copy(out, order)
	return out
}

// Index returns the position of p in the workflow, or -1 if p is unknown.
func Index(p Phase) int {
	for i, candidate := range order {
		if candidate == p {
			return i
		}
	}
	return -1
}

// Valid reports whether p is one of the workflow phases.
func (p Phase) Valid() bool {
	return Index(p) >= 0
}

func (p Phase) String() string {
	return string(p)
}

// NextPhase returns the phase immediately after current.
// ok is false when current is terminal or unknown.
func NextPhase(current Phase) (next Phase, ok bool) {
	i := Index(current)
	if i < 0 || i == len(order)-1 {
		return "", false
	}
	return order[i+1], true
}

// ParsePhase accepts a phase name case-insensitively, tolerating '-' for '_'.
func ParsePhase(s string) (Phase, error) {
	candidate := Phase(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	if !candidate.Valid() {
		return "", fmt.Errorf("unknown phase %q (valid: %s)", s, strings.Join(names(), ", "))
	}
	return candidate, nil
}

func names() []string {
	out := make([]string, len(order))
	for i, p := range order {
		out[i] = string(p)
	}
	return out
}

// Package sla contains the pure business logic for SLA rules and elapsed-time
// classification. This is part of the Functional Core - no I/O, only pure functions.
package sla

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// MaxRedChain is the maximum number of roles in a red escalation chain.
const MaxRedChain = 3

// Band is an inclusive day range used to classify elapsed days into a tier.
type Band struct {
	From int
	To   int
}

// Contains reports whether days falls within the band (inclusive on both ends).
func (b Band) Contains(days int) bool {
	return days >= b.From && days <= b.To
}

func (b Band) String() string {
	return fmt.Sprintf("[%d,%d]", b.From, b.To)
}

// Rule describes the SLA thresholds for one activity.
type Rule struct {
	Activity         string
	Product          string // optional
	ResponsibleRole  string
	TotalAllowedDays int
	Green            Band
	Amber            Band
	Red              Band
	EscalateAmberTo  string   // may be empty
	EscalateRedTo    []string // 1-3 roles, trailing empties dropped
}

// Key returns the normalized catalog key for the rule's activity.
func (r Rule) Key() string {
	return NormalizeActivity(r.Activity)
}

// Normalized returns a copy with trimmed text fields and trailing empty red
// roles dropped. Band values are never touched.
func (r Rule) Normalized() Rule {
	out := r
	out.Activity = strings.TrimSpace(r.Activity)
	out.Product = strings.TrimSpace(r.Product)
	out.ResponsibleRole = strings.TrimSpace(r.ResponsibleRole)
	out.EscalateAmberTo = strings.TrimSpace(r.EscalateAmberTo)

	chain := make([]string, len(r.EscalateRedTo))
	for i, role := range r.EscalateRedTo {
		chain[i] = strings.TrimSpace(role)
	}
	for len(chain) > 0 && chain[len(chain)-1] == "" {
		chain = chain[:len(chain)-1]
	}
	out.EscalateRedTo = chain
	return out
}

// NormalizeActivity trims, NFC-normalizes and case-folds an activity name.
// Two names match when their normalized forms are equal; there is no fuzzy matching.
func NormalizeActivity(name string) string {
	// A Caser is stateful and must not be shared between goroutines.
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(name)))
}

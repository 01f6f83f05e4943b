// Package primary defines the primary ports (driving adapters) for the application.
// These are the interfaces through which the outside world drives the application.
package primary

import "context"

// RuleCatalogService defines the primary port for SLA rule catalog operations.
type RuleCatalogService interface {
	// ValidateRule checks the band invariant and returns every violation found.
	ValidateRule(ctx context.Context, rule Rule) []ValidationIssue

	// UpsertRule inserts or replaces a rule by activity.
	// Invalid rules are rejected without touching the catalog.
	UpsertRule(ctx context.Context, rule Rule) error

	// LookupRule finds a rule by activity name (trimmed, case-insensitive).
	// found is false when no rule matches; that is not an error.
	LookupRule(ctx context.Context, activity string) (rule *Rule, found bool, err error)

	// RemoveRule deletes a rule. Removing an unknown activity is a no-op.
	RemoveRule(ctx context.Context, activity string) error

	// ListRules returns the whole catalog ordered by activity.
	ListRules(ctx context.Context) ([]*Rule, error)

	// ImportRules validates every rule first and writes nothing if any is invalid.
	ImportRules(ctx context.Context, rules []Rule) (*ImportRulesResponse, error)
}

// Band is an inclusive day range.
type Band struct {
	From int
	To   int
}

// Rule represents an SLA rule at the port boundary.
type Rule struct {
	Activity         string
	Product          string // May be empty
	ResponsibleRole  string
	TotalAllowedDays int
	Green            Band
	Amber            Band
	Red              Band
	EscalateAmberTo  string // May be empty
	EscalateRedTo    []string
}

// ValidationIssue describes one violated constraint.
type ValidationIssue struct {
	Field   string
	Message string
}

// ImportRulesResponse contains the result of a catalog import.
type ImportRulesResponse struct {
	Imported int
	// Issues maps the activity (or "#<index>" when blank) to its violations.
	// Rules sharing an activity name share one entry.
	Issues map[string][]ValidationIssue
}

package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/example/casesla/internal/adapters/rulefile"
	"github.com/example/casesla/internal/ports/primary"
)

// RuleAdapter is a thin adapter that translates CLI operations to RuleCatalogService calls.
type RuleAdapter struct {
	service primary.RuleCatalogService
	out     io.Writer
}

// NewRuleAdapter creates a new RuleAdapter with the given service.
func NewRuleAdapter(service primary.RuleCatalogService, out io.Writer) *RuleAdapter {
	return &RuleAdapter{
		service: service,
		out:     out,
	}
}

// Set validates and stores a rule.
func (a *RuleAdapter) Set(ctx context.Context, rule primary.Rule) error {
	if issues := a.service.ValidateRule(ctx, rule); len(issues) > 0 {
		a.printIssues(rule.Activity, issues)
		return fmt.Errorf("rule %s is invalid (%d issue(s))", rule.Activity, len(issues))
	}
	if err := a.service.UpsertRule(ctx, rule); err != nil {
		return fmt.Errorf("failed to save rule: %w", err)
	}
	fmt.Fprintf(a.out, "✓ Saved rule %s (%d days)\n", rule.Activity, rule.TotalAllowedDays)
	return nil
}

// Show displays a single rule.
func (a *RuleAdapter) Show(ctx context.Context, activity string) (*primary.Rule, error) {
	rule, found, err := a.service.LookupRule(ctx, activity)
	if err != nil {
		return nil, fmt.Errorf("failed to look up rule: %w", err)
	}
	if !found {
		fmt.Fprintf(a.out, "No rule for activity %q. Cases in this activity are reported as GRAY.\n", activity)
		return nil, nil
	}

	fmt.Fprintf(a.out, "\nRule: %s\n", rule.Activity)
	fmt.Fprintf(a.out, "Product:     %s\n", orDash(rule.Product))
	fmt.Fprintf(a.out, "Responsible: %s\n", orDash(rule.ResponsibleRole))
	fmt.Fprintf(a.out, "Total days:  %d\n", rule.TotalAllowedDays)
	fmt.Fprintf(a.out, "%s  %d-%d\n", colorTier("GREEN"), rule.Green.From, rule.Green.To)
	fmt.Fprintf(a.out, "%s  %d-%d -> %s\n", colorTier("AMBER"), rule.Amber.From, rule.Amber.To, orDash(rule.EscalateAmberTo))
	fmt.Fprintf(a.out, "%s    %d-%d -> %s\n", colorTier("RED"), rule.Red.From, rule.Red.To, orDash(strings.Join(rule.EscalateRedTo, ", ")))
	fmt.Fprintln(a.out)
	return rule, nil
}

// List prints the catalog.
func (a *RuleAdapter) List(ctx context.Context) ([]*primary.Rule, error) {
	rules, err := a.service.ListRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}

	if len(rules) == 0 {
		fmt.Fprintln(a.out, "No rules found.")
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, "Load a catalog:")
		fmt.Fprintln(a.out, "  casesla rule import rules.yaml")
		return rules, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ACTIVITY\tTOTAL\tGREEN\tAMBER\tRED\tAMBER TO\tRED TO")
	fmt.Fprintln(w, "--------\t-----\t-----\t-----\t---\t--------\t------")
	for _, r := range rules {
		fmt.Fprintf(w, "%s\t%d\t%d-%d\t%d-%d\t%d-%d\t%s\t%s\n",
			r.Activity,
			r.TotalAllowedDays,
			r.Green.From, r.Green.To,
			r.Amber.From, r.Amber.To,
			r.Red.From, r.Red.To,
			orDash(r.EscalateAmberTo),
			orDash(strings.Join(r.EscalateRedTo, ",")),
		)
	}
	w.Flush()
	return rules, nil
}

// Remove deletes a rule. Unknown activities are not an error.
func (a *RuleAdapter) Remove(ctx context.Context, activity string) error {
	if err := a.service.RemoveRule(ctx, activity); err != nil {
		return fmt.Errorf("failed to remove rule: %w", err)
	}
	fmt.Fprintf(a.out, "✓ Removed rule %s\n", activity)
	return nil
}

// Validate checks every rule in a document without writing anything.
// It returns the number of invalid rules.
func (a *RuleAdapter) Validate(ctx context.Context, r io.Reader) (int, error) {
	rules, err := rulefile.Decode(r)
	if err != nil {
		return 0, err
	}

	invalid := 0
	for _, rule := range rules {
		issues := a.service.ValidateRule(ctx, rule)
		if len(issues) == 0 {
			fmt.Fprintf(a.out, "✓ %s\n", rule.Activity)
			continue
		}
		invalid++
		a.printIssues(rule.Activity, issues)
	}
	fmt.Fprintf(a.out, "\n%d rule(s), %d invalid\n", len(rules), invalid)
	return invalid, nil
}

// Import loads a document into the catalog. Nothing is written if any rule is invalid.
func (a *RuleAdapter) Import(ctx context.Context, r io.Reader) (*primary.ImportRulesResponse, error) {
	rules, err := rulefile.Decode(r)
	if err != nil {
		return nil, err
	}

	resp, err := a.service.ImportRules(ctx, rules)
	if resp != nil {
		names := make([]string, 0, len(resp.Issues))
		for activity := range resp.Issues {
			names = append(names, activity)
		}
		sort.Strings(names)
		for _, activity := range names {
			a.printIssues(activity, resp.Issues[activity])
		}
	}
	if err != nil {
		return resp, err
	}

	fmt.Fprintf(a.out, "✓ Imported %d rule(s)\n", resp.Imported)
	return resp, nil
}

// Export writes the catalog as a YAML document to w.
func (a *RuleAdapter) Export(ctx context.Context, w io.Writer) error {
	rules, err := a.service.ListRules(ctx)
	if err != nil {
		return fmt.Errorf("failed to list rules: %w", err)
	}
	return rulefile.Encode(w, rules)
}

func (a *RuleAdapter) printIssues(activity string, issues []primary.ValidationIssue) {
	fmt.Fprintf(a.out, "✗ %s\n", activity)
	for _, issue := range issues {
		fmt.Fprintf(a.out, "    %s: %s\n", issue.Field, issue.Message)
	}
}

package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	coresla "github.com/example/casesla/internal/core/sla"
	"github.com/example/casesla/internal/ports/primary"
	"github.com/example/casesla/internal/ports/secondary"
)

// RuleCatalogServiceImpl implements the RuleCatalogService interface.
// Every successful mutation is written through to the RuleStore before it returns.
type RuleCatalogServiceImpl struct {
	ruleStore secondary.RuleStore
	metrics   secondary.MetricsRecorder
	logger    *zap.Logger
	locks     *keyedMutex
}

// NewRuleCatalogService creates a new RuleCatalogService with injected dependencies.
// metrics and logger may be nil.
func NewRuleCatalogService(ruleStore secondary.RuleStore, metrics secondary.MetricsRecorder, logger *zap.Logger) *RuleCatalogServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &RuleCatalogServiceImpl{
		ruleStore: ruleStore,
		metrics:   metrics,
		logger:    logger,
		locks:     newKeyedMutex(),
	}
}

// ValidateRule checks the band invariant and returns every violation found.
func (s *RuleCatalogServiceImpl) ValidateRule(ctx context.Context, rule primary.Rule) []primary.ValidationIssue {
	return toIssues(coresla.Validate(portToCoreRule(rule)))
}

// UpsertRule inserts or replaces a rule by activity.
func (s *RuleCatalogServiceImpl) UpsertRule(ctx context.Context, rule primary.Rule) error {
	core := portToCoreRule(rule).Normalized()
	if err := coresla.Validate(core).Err(); err != nil {
		return err
	}

	key := core.Key()
	unlock := s.locks.Lock(key)
	defer unlock()

	if err := s.ruleStore.Upsert(ctx, coreToRuleRecord(core)); err != nil {
		return fmt.Errorf("failed to upsert rule %s: %w", core.Activity, err)
	}

	s.metrics.ObserveRuleMutation("upsert")
	s.logger.Info("rule upserted",
		zap.String("activity", core.Activity),
		zap.Int("total_allowed_days", core.TotalAllowedDays),
	)
	return nil
}

// LookupRule finds a rule by normalized activity name.
func (s *RuleCatalogServiceImpl) LookupRule(ctx context.Context, activity string) (*primary.Rule, bool, error) {
	core, found, err := s.lookup(ctx, activity)
	if err != nil || !found {
		return nil, found, err
	}
	out := coreToPortRule(*core)
	return &out, true, nil
}

// lookup returns the core rule for an activity; not found is (nil, false, nil).
func (s *RuleCatalogServiceImpl) lookup(ctx context.Context, activity string) (*coresla.Rule, bool, error) {
	key := coresla.NormalizeActivity(activity)
	if key == "" {
		return nil, false, nil
	}
	record, err := s.ruleStore.Get(ctx, key)
	if errors.Is(err, secondary.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get rule %s: %w", activity, err)
	}
	rule := ruleRecordToCore(record)
	return &rule, true, nil
}

// RemoveRule deletes a rule. Removing an unknown activity is a no-op.
func (s *RuleCatalogServiceImpl) RemoveRule(ctx context.Context, activity string) error {
	key := coresla.NormalizeActivity(activity)
	if key == "" {
		return nil
	}

	unlock := s.locks.Lock(key)
	defer unlock()

	if err := s.ruleStore.Remove(ctx, key); err != nil {
		return fmt.Errorf("failed to remove rule %s: %w", activity, err)
	}

	s.metrics.ObserveRuleMutation("remove")
	s.logger.Info("rule removed", zap.String("activity", activity))
	return nil
}

// ListRules returns the whole catalog ordered by activity.
func (s *RuleCatalogServiceImpl) ListRules(ctx context.Context) ([]*primary.Rule, error) {
	records, err := s.ruleStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}

	rules := make([]*primary.Rule, len(records))
	for i, r := range records {
		rule := coreToPortRule(ruleRecordToCore(r))
		rules[i] = &rule
	}
	return rules, nil
}

// ImportRules validates all rules up front, then upserts each one.
func (s *RuleCatalogServiceImpl) ImportRules(ctx context.Context, rules []primary.Rule) (*primary.ImportRulesResponse, error) {
	resp := &primary.ImportRulesResponse{Issues: map[string][]primary.ValidationIssue{}}

	seen := make(map[string]string, len(rules))
	invalid := 0
	for i, rule := range rules {
		name := rule.Activity
		if name == "" {
			name = fmt.Sprintf("#%d", i)
		}
		core := portToCoreRule(rule)
		if errs := coresla.Validate(core); len(errs) > 0 {
			resp.Issues[name] = append(resp.Issues[name], toIssues(errs)...)
			invalid++
			continue
		}
		if prev, dup := seen[core.Key()]; dup {
			resp.Issues[name] = append(resp.Issues[name], primary.ValidationIssue{
				Field:   "activity",
				Message: fmt.Sprintf("duplicates activity %q in the same document", prev),
			})
			invalid++
			continue
		}
		seen[core.Key()] = rule.Activity
	}
	if invalid > 0 {
		return resp, fmt.Errorf("import rejected: %d invalid rule(s)", invalid)
	}

	for _, rule := range rules {
		if err := s.UpsertRule(ctx, rule); err != nil {
			return resp, err
		}
		resp.Imported++
	}
	return resp, nil
}

func toIssues(errs coresla.ValidationErrors) []primary.ValidationIssue {
	if len(errs) == 0 {
		return nil
	}
	out := make([]primary.ValidationIssue, len(errs))
	for i, e := range errs {
		out[i] = primary.ValidationIssue{Field: e.Field, Message: e.Message}
	}
	return out
}

// Ensure RuleCatalogServiceImpl implements the interface
var _ primary.RuleCatalogService = (*RuleCatalogServiceImpl)(nil)

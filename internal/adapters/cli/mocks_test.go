package cli

import (
	"context"
	"errors"

	"github.com/fatih/color"

	"github.com/example/casesla/internal/ports/primary"
)

func init() {
	color.NoColor = true
}

// mockRuleService implements primary.RuleCatalogService for testing
type mockRuleService struct {
	validateFn func(ctx context.Context, rule primary.Rule) []primary.ValidationIssue
	upsertFn   func(ctx context.Context, rule primary.Rule) error
	lookupFn   func(ctx context.Context, activity string) (*primary.Rule, bool, error)
	listFn     func(ctx context.Context) ([]*primary.Rule, error)
	importFn   func(ctx context.Context, rules []primary.Rule) (*primary.ImportRulesResponse, error)

	upserted []primary.Rule
	removed  []string
}

func (m *mockRuleService) ValidateRule(ctx context.Context, rule primary.Rule) []primary.ValidationIssue {
	if m.validateFn != nil {
		return m.validateFn(ctx, rule)
	}
	return nil
}

func (m *mockRuleService) UpsertRule(ctx context.Context, rule primary.Rule) error {
	m.upserted = append(m.upserted, rule)
	if m.upsertFn != nil {
		return m.upsertFn(ctx, rule)
	}
	return nil
}

func (m *mockRuleService) LookupRule(ctx context.Context, activity string) (*primary.Rule, bool, error) {
	if m.lookupFn != nil {
		return m.lookupFn(ctx, activity)
	}
	return nil, false, nil
}

func (m *mockRuleService) RemoveRule(ctx context.Context, activity string) error {
	m.removed = append(m.removed, activity)
	return nil
}

func (m *mockRuleService) ListRules(ctx context.Context) ([]*primary.Rule, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []*primary.Rule{}, nil
}

func (m *mockRuleService) ImportRules(ctx context.Context, rules []primary.Rule) (*primary.ImportRulesResponse, error) {
	if m.importFn != nil {
		return m.importFn(ctx, rules)
	}
	return &primary.ImportRulesResponse{Imported: len(rules), Issues: map[string][]primary.ValidationIssue{}}, nil
}

// mockCaseService implements primary.CaseTrackerService for testing
type mockCaseService struct {
	registerFn func(ctx context.Context, req primary.RegisterCaseRequest) (*primary.Case, error)
	advanceFn  func(ctx context.Context, req primary.AdvanceCaseRequest) (*primary.Case, error)
	nextFn     func(ctx context.Context, req primary.AdvanceCaseNextRequest) (*primary.Case, error)
	getFn      func(ctx context.Context, caseID string) (*primary.Case, error)
	listFn     func(ctx context.Context, filters primary.CaseFilters) ([]*primary.Case, error)
	bulkFn     func(ctx context.Context, cases []*primary.Case, opts primary.SnapshotOptions) []primary.SnapshotResult
	sweepFn    func(ctx context.Context, opts primary.SnapshotOptions) (*primary.SweepResponse, error)

	lastFilters primary.CaseFilters
}

func (m *mockCaseService) RegisterCase(ctx context.Context, req primary.RegisterCaseRequest) (*primary.Case, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, req)
	}
	return &primary.Case{ID: req.ID, Activity: req.Activity, CurrentPhase: "selection"}, nil
}

func (m *mockCaseService) AdvanceCase(ctx context.Context, req primary.AdvanceCaseRequest) (*primary.Case, error) {
	if m.advanceFn != nil {
		return m.advanceFn(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockCaseService) AdvanceCaseNext(ctx context.Context, req primary.AdvanceCaseNextRequest) (*primary.Case, error) {
	if m.nextFn != nil {
		return m.nextFn(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockCaseService) GetCase(ctx context.Context, caseID string) (*primary.Case, error) {
	if m.getFn != nil {
		return m.getFn(ctx, caseID)
	}
	return &primary.Case{ID: caseID, CurrentPhase: "selection"}, nil
}

func (m *mockCaseService) ListCases(ctx context.Context, filters primary.CaseFilters) ([]*primary.Case, error) {
	m.lastFilters = filters
	if m.listFn != nil {
		return m.listFn(ctx, filters)
	}
	return []*primary.Case{}, nil
}

func (m *mockCaseService) Snapshot(ctx context.Context, c *primary.Case, opts primary.SnapshotOptions) (*primary.Snapshot, error) {
	return nil, errors.New("not implemented")
}

func (m *mockCaseService) BulkSnapshot(ctx context.Context, cases []*primary.Case, opts primary.SnapshotOptions) []primary.SnapshotResult {
	if m.bulkFn != nil {
		return m.bulkFn(ctx, cases, opts)
	}
	return []primary.SnapshotResult{}
}

func (m *mockCaseService) Sweep(ctx context.Context, opts primary.SnapshotOptions) (*primary.SweepResponse, error) {
	if m.sweepFn != nil {
		return m.sweepFn(ctx, opts)
	}
	return &primary.SweepResponse{}, nil
}

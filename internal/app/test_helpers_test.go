package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/example/casesla/internal/ports/secondary"
)

// Ensure mocks implement the interfaces
var (
	_ secondary.CaseStore          = (*mockCaseStore)(nil)
	_ secondary.RuleStore          = (*mockRuleStore)(nil)
	_ secondary.EscalationNotifier = (*mockNotifier)(nil)
)

// mockCaseStore implements secondary.CaseStore for testing.
// It deep-copies on read and write so callers cannot alias stored state.
type mockCaseStore struct {
	mu        sync.Mutex
	cases     map[string]*secondary.CaseRecord
	upserts   int
	getErr    error
	upsertErr error
}

func newMockCaseStore() *mockCaseStore {
	return &mockCaseStore{cases: make(map[string]*secondary.CaseRecord)}
}

func (m *mockCaseStore) Get(ctx context.Context, id string) (*secondary.CaseRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	c, ok := m.cases[id]
	if !ok {
		return nil, fmt.Errorf("case %s: %w", id, secondary.ErrNotFound)
	}
	return cloneCase(c), nil
}

func (m *mockCaseStore) Upsert(ctx context.Context, record *secondary.CaseRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return m.upsertErr
	}
	current := 0
	if existing, ok := m.cases[record.ID]; ok {
		current = existing.Version
	}
	if record.Version != current {
		return fmt.Errorf("case %s: %w", record.ID, secondary.ErrConcurrencyConflict)
	}
	record.Version++
	m.cases[record.ID] = cloneCase(record)
	m.upserts++
	return nil
}

func (m *mockCaseStore) List(ctx context.Context, filters secondary.CaseFilters) ([]*secondary.CaseRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*secondary.CaseRecord
	for _, c := range m.cases {
		if filters.Phase != "" && c.CurrentPhase != filters.Phase {
			continue
		}
		if filters.ActivityKey != "" && c.ActivityKey != filters.ActivityKey {
			continue
		}
		out = append(out, cloneCase(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func cloneCase(c *secondary.CaseRecord) *secondary.CaseRecord {
	out := *c
	out.History = make([]*secondary.PhaseHistoryRecord, len(c.History))
	for i, h := range c.History {
		entry := *h
		out.History[i] = &entry
	}
	return &out
}

// mockRuleStore implements secondary.RuleStore for testing.
type mockRuleStore struct {
	mu        sync.Mutex
	rules     map[string]*secondary.RuleRecord
	writes    int
	upsertErr error
}

func newMockRuleStore() *mockRuleStore {
	return &mockRuleStore{rules: make(map[string]*secondary.RuleRecord)}
}

func (m *mockRuleStore) Get(ctx context.Context, key string) (*secondary.RuleRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rules[key]
	if !ok {
		return nil, secondary.ErrNotFound
	}
	out := *r
	return &out, nil
}

func (m *mockRuleStore) Upsert(ctx context.Context, rule *secondary.RuleRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return m.upsertErr
	}
	r := *rule
	m.rules[rule.Key] = &r
	m.writes++
	return nil
}

func (m *mockRuleStore) Remove(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rules, key)
	m.writes++
	return nil
}

func (m *mockRuleStore) List(ctx context.Context) ([]*secondary.RuleRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*secondary.RuleRecord, 0, len(m.rules))
	for _, r := range m.rules {
		rule := *r
		out = append(out, &rule)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (m *mockRuleStore) keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.rules))
	for k := range m.rules {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// mockNotifier records Notify calls.
type mockNotifier struct {
	mu     sync.Mutex
	calls  []notifyCall
	failOn map[string]bool
}

type notifyCall struct {
	CaseID string
	Tier   string
	Roles  []string
}

func (m *mockNotifier) Notify(ctx context.Context, caseID, tier string, roles []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOn[caseID] {
		return errors.New("mailbox unavailable")
	}
	m.calls = append(m.calls, notifyCall{CaseID: caseID, Tier: tier, Roles: roles})
	return nil
}

// fixedClock returns a clock that starts at t and can be moved forward.
type fixedClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("H-%03d", n)
	}
}

package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	corephase "github.com/example/casesla/internal/core/phase"
	coresla "github.com/example/casesla/internal/core/sla"
	"github.com/example/casesla/internal/ctxutil"
	"github.com/example/casesla/internal/ports/primary"
	"github.com/example/casesla/internal/ports/secondary"
)

// DefaultBulkLimit bounds concurrent snapshot computations in BulkSnapshot.
const DefaultBulkLimit = 8

// CaseTrackerServiceImpl implements the CaseTrackerService interface.
// It is the composition root binding phase transitions, the rule catalog and
// the SLA evaluator over the CaseStore.
type CaseTrackerServiceImpl struct {
	caseStore     secondary.CaseStore
	catalog       primary.RuleCatalogService
	notifier      secondary.EscalationNotifier
	metrics       secondary.MetricsRecorder
	logger        *zap.Logger
	locks         *keyedMutex
	now           func() time.Time
	newID         func() string
	bulkLimit     int
	defaultAnchor primary.Anchor
}

// CaseTrackerOption customizes a CaseTrackerServiceImpl.
type CaseTrackerOption func(*CaseTrackerServiceImpl)

// WithClock replaces the wall clock used for history timestamps and snapshots.
func WithClock(now func() time.Time) CaseTrackerOption {
	return func(s *CaseTrackerServiceImpl) { s.now = now }
}

// WithIDGenerator replaces the history entry ID generator.
func WithIDGenerator(newID func() string) CaseTrackerOption {
	return func(s *CaseTrackerServiceImpl) { s.newID = newID }
}

// WithBulkLimit sets the maximum number of concurrent snapshot computations.
func WithBulkLimit(n int) CaseTrackerOption {
	return func(s *CaseTrackerServiceImpl) {
		if n > 0 {
			s.bulkLimit = n
		}
	}
}

// WithDefaultAnchor sets the anchor used when SnapshotOptions.Anchor is empty.
func WithDefaultAnchor(anchor primary.Anchor) CaseTrackerOption {
	return func(s *CaseTrackerServiceImpl) {
		if anchor != "" {
			s.defaultAnchor = anchor
		}
	}
}

// WithMetrics attaches a metrics recorder.
func WithMetrics(m secondary.MetricsRecorder) CaseTrackerOption {
	return func(s *CaseTrackerServiceImpl) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) CaseTrackerOption {
	return func(s *CaseTrackerServiceImpl) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewCaseTrackerService creates a new CaseTrackerService with injected dependencies.
// notifier may be nil, in which case Sweep only computes snapshots.
func NewCaseTrackerService(caseStore secondary.CaseStore, catalog primary.RuleCatalogService, notifier secondary.EscalationNotifier, opts ...CaseTrackerOption) *CaseTrackerServiceImpl {
	s := &CaseTrackerServiceImpl{
		caseStore:     caseStore,
		catalog:       catalog,
		notifier:      notifier,
		metrics:       noopMetrics{},
		logger:        zap.NewNop(),
		locks:         newKeyedMutex(),
		now:           time.Now,
		newID:         uuid.NewString,
		bulkLimit:     DefaultBulkLimit,
		defaultAnchor: primary.AnchorLastTransition,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterCase explicitly registers a new case in the initial phase.
func (s *CaseTrackerServiceImpl) RegisterCase(ctx context.Context, req primary.RegisterCaseRequest) (*primary.Case, error) {
	id := strings.TrimSpace(req.ID)
	if err := corephase.CanRegister(corephase.RegisterContext{CaseID: id}).Error(); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	exists, err := s.exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := corephase.CanRegister(corephase.RegisterContext{CaseID: id, Exists: exists}).Error(); err != nil {
		return nil, err
	}

	now := s.now()
	record := &secondary.CaseRecord{
		ID:           id,
		RUC:          strings.TrimSpace(req.RUC),
		Name:         strings.TrimSpace(req.Name),
		Activity:     strings.TrimSpace(req.Activity),
		ActivityKey:  coresla.NormalizeActivity(req.Activity),
		Category:     req.Category,
		Status:       req.Status,
		CurrentPhase: string(corephase.Initial),
		Deadline:     req.Deadline,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.caseStore.Upsert(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to register case %s: %w", id, err)
	}

	s.logger.Info("case registered",
		zap.String("case_id", id),
		zap.String("activity", record.Activity),
	)
	return recordToCase(record), nil
}

// AdvanceCase moves a case to an explicit target phase.
// An empty request actor falls back to the actor carried by ctx.
// The target need not follow the canonical order; ordering policy belongs to callers.
func (s *CaseTrackerServiceImpl) AdvanceCase(ctx context.Context, req primary.AdvanceCaseRequest) (*primary.Case, error) {
	to, err := corephase.ParsePhase(req.To)
	if err != nil {
		return nil, &corephase.ValidationError{Reason: err.Error()}
	}
	cmd := corephase.Command{
		CaseID:   strings.TrimSpace(req.CaseID),
		To:       to,
		Actor:    ctxutil.ActorOr(ctx, req.Actor),
		Note:     req.Note,
		Deadline: req.Deadline,
	}
	if err := corephase.CanAdvance(corephase.AdvanceContext{CaseID: cmd.CaseID, Actor: cmd.Actor, Target: cmd.To}).Error(); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(cmd.CaseID)
	defer unlock()

	record, err := s.caseStore.Get(ctx, cmd.CaseID)
	switch {
	case errors.Is(err, secondary.ErrNotFound):
		now := s.now()
		record = &secondary.CaseRecord{
			ID:           cmd.CaseID,
			CurrentPhase: string(corephase.Initial),
			CreatedAt:    now,
		}
		cmd.Registering = true
	case err != nil:
		return nil, fmt.Errorf("failed to get case %s: %w", cmd.CaseID, err)
	}

	updated := *record
	applyBusinessFields(&updated, req)
	return s.apply(ctx, &updated, cmd)
}

// applyBusinessFields copies the non-empty business fields of req onto r.
func applyBusinessFields(r *secondary.CaseRecord, req primary.AdvanceCaseRequest) {
	if v := strings.TrimSpace(req.RUC); v != "" {
		r.RUC = v
	}
	if v := strings.TrimSpace(req.Name); v != "" {
		r.Name = v
	}
	if v := strings.TrimSpace(req.Activity); v != "" {
		r.Activity = v
		r.ActivityKey = coresla.NormalizeActivity(v)
	}
	if req.Category != "" {
		r.Category = req.Category
	}
	if req.Status != "" {
		r.Status = req.Status
	}
}

// AdvanceCaseNext moves a case to the phase following its current one.
func (s *CaseTrackerServiceImpl) AdvanceCaseNext(ctx context.Context, req primary.AdvanceCaseNextRequest) (*primary.Case, error) {
	caseID := strings.TrimSpace(req.CaseID)

	unlock := s.locks.Lock(caseID)
	defer unlock()

	record, err := s.caseStore.Get(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get case %s: %w", caseID, err)
	}

	current := corephase.Phase(record.CurrentPhase)
	if err := corephase.CanAdvanceNext(corephase.AdvanceNextContext{CaseID: caseID, Current: current}).Error(); err != nil {
		return nil, err
	}
	next, _ := corephase.NextPhase(current)

	return s.apply(ctx, record, corephase.Command{
		CaseID:   caseID,
		To:       next,
		Actor:    ctxutil.ActorOr(ctx, req.Actor),
		Note:     req.Note,
		Deadline: req.Deadline,
	})
}

// apply runs one transition against a loaded record and persists it.
// Callers must hold the case lock.
func (s *CaseTrackerServiceImpl) apply(ctx context.Context, record *secondary.CaseRecord, cmd corephase.Command) (*primary.Case, error) {
	state := recordToState(record)
	next, entry, err := corephase.Apply(state, cmd, s.newID(), s.now())
	if err != nil {
		return nil, err
	}

	updated := *record
	applyState(&updated, next)
	updated.UpdatedAt = entry.At
	if err := s.caseStore.Upsert(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to persist case %s: %w", cmd.CaseID, err)
	}

	s.metrics.ObserveTransition(string(entry.From), string(entry.To))
	s.logger.Info("case advanced",
		zap.String("case_id", cmd.CaseID),
		zap.String("from", string(entry.From)),
		zap.String("to", string(entry.To)),
		zap.String("actor", entry.Actor),
		zap.Bool("registered", cmd.Registering),
	)
	return recordToCase(&updated), nil
}

// GetCase retrieves a case by ID.
func (s *CaseTrackerServiceImpl) GetCase(ctx context.Context, caseID string) (*primary.Case, error) {
	record, err := s.caseStore.Get(ctx, strings.TrimSpace(caseID))
	if err != nil {
		return nil, fmt.Errorf("failed to get case %s: %w", caseID, err)
	}
	return recordToCase(record), nil
}

// ListCases lists cases with optional filters.
func (s *CaseTrackerServiceImpl) ListCases(ctx context.Context, filters primary.CaseFilters) ([]*primary.Case, error) {
	records, err := s.caseStore.List(ctx, secondary.CaseFilters{
		Phase:       filters.Phase,
		ActivityKey: coresla.NormalizeActivity(filters.Activity),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}

	cases := make([]*primary.Case, len(records))
	for i, r := range records {
		cases[i] = recordToCase(r)
	}
	return cases, nil
}

// Snapshot computes phase, elapsed days, tier and escalation for one case.
// A case whose activity has no rule yields tier GRAY, not an error.
func (s *CaseTrackerServiceImpl) Snapshot(ctx context.Context, c *primary.Case, opts primary.SnapshotOptions) (*primary.Snapshot, error) {
	if c == nil {
		return nil, errors.New("case is required")
	}
	state := caseToState(c)

	reference, err := s.referenceDate(c, state, opts)
	if err != nil {
		return nil, err
	}

	port, found, err := s.catalog.LookupRule(ctx, c.Activity)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve rule for case %s: %w", c.ID, err)
	}
	var rule *coresla.Rule
	if found {
		r := portToCoreRule(*port)
		rule = &r
	}

	now := opts.Now
	if now.IsZero() {
		now = s.now()
	}
	eval := coresla.Evaluate(reference, now, rule)
	s.metrics.ObserveSnapshot(string(eval.Tier))

	return &primary.Snapshot{
		CaseID:         c.ID,
		Activity:       c.Activity,
		Phase:          string(state.Current),
		ReferenceDate:  reference,
		ElapsedDays:    eval.ElapsedDays,
		Tier:           string(eval.Tier),
		RuleFound:      found,
		PrimaryRole:    eval.Escalation.PrimaryRole,
		SecondaryRoles: eval.Escalation.SecondaryRoles,
	}, nil
}

func (s *CaseTrackerServiceImpl) referenceDate(c *primary.Case, state corephase.State, opts primary.SnapshotOptions) (time.Time, error) {
	anchor := opts.Anchor
	if anchor == "" {
		anchor = s.defaultAnchor
	}

	switch anchor {
	case primary.AnchorLastTransition:
		if at, ok := state.LastTransitionAt(); ok {
			return at, nil
		}
	case primary.AnchorDeadline:
		if c.Deadline != nil {
			return *c.Deadline, nil
		}
	case primary.AnchorExplicit:
		if opts.Reference != nil {
			return *opts.Reference, nil
		}
	default:
		return time.Time{}, fmt.Errorf("unknown anchor %q", anchor)
	}
	return time.Time{}, fmt.Errorf("case %s (%s): %w", c.ID, anchor, primary.ErrNoReferenceDate)
}

// BulkSnapshot snapshots each case independently. One result is returned per
// input, in input order; a failing item never stops the rest.
func (s *CaseTrackerServiceImpl) BulkSnapshot(ctx context.Context, cases []*primary.Case, opts primary.SnapshotOptions) []primary.SnapshotResult {
	if opts.Now.IsZero() {
		opts.Now = s.now()
	}

	results := make([]primary.SnapshotResult, len(cases))
	var g errgroup.Group
	g.SetLimit(s.bulkLimit)
	for i, c := range cases {
		g.Go(func() error {
			if c != nil {
				results[i].CaseID = c.ID
			}
			snap, err := s.Snapshot(ctx, c, opts)
			results[i].Snapshot = snap
			results[i].Err = err
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// Sweep snapshots every stored case and hands AMBER/RED escalations to the notifier.
// Snapshot and notification failures are collected per case.
func (s *CaseTrackerServiceImpl) Sweep(ctx context.Context, opts primary.SnapshotOptions) (*primary.SweepResponse, error) {
	cases, err := s.ListCases(ctx, primary.CaseFilters{})
	if err != nil {
		return nil, err
	}

	results := s.BulkSnapshot(ctx, cases, opts)
	resp := &primary.SweepResponse{Results: make([]primary.SweepItem, len(results))}
	for i, r := range results {
		item := primary.SweepItem{SnapshotResult: r}
		if r.Err != nil {
			s.logger.Warn("snapshot failed", zap.String("case_id", r.CaseID), zap.Error(r.Err))
			resp.Results[i] = item
			continue
		}

		snap := r.Snapshot
		roles := coresla.EscalationDecision{PrimaryRole: snap.PrimaryRole, SecondaryRoles: snap.SecondaryRoles}.Roles()
		escalating := snap.Tier == string(coresla.TierAmber) || snap.Tier == string(coresla.TierRed)
		if s.notifier != nil && escalating && len(roles) > 0 {
			item.NotifyErr = s.notifier.Notify(ctx, snap.CaseID, snap.Tier, roles)
			s.metrics.ObserveNotification(snap.Tier, item.NotifyErr)
			if item.NotifyErr != nil {
				s.logger.Warn("escalation notify failed",
					zap.String("case_id", snap.CaseID),
					zap.String("tier", snap.Tier),
					zap.Error(item.NotifyErr),
				)
			} else {
				item.Notified = true
				resp.Notified++
			}
		}
		resp.Results[i] = item
	}
	return resp, nil
}

func (s *CaseTrackerServiceImpl) exists(ctx context.Context, id string) (bool, error) {
	_, err := s.caseStore.Get(ctx, id)
	if errors.Is(err, secondary.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get case %s: %w", id, err)
	}
	return true, nil
}

// Ensure CaseTrackerServiceImpl implements the interface
var _ primary.CaseTrackerService = (*CaseTrackerServiceImpl)(nil)

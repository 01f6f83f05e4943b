package primary

import (
	"context"
	"errors"
	"time"
)

// ErrNoReferenceDate is returned by Snapshot when the selected anchor has no value
// for the case (no history for AnchorLastTransition, no deadline for AnchorDeadline).
var ErrNoReferenceDate = errors.New("no reference date for anchor")

// CaseTrackerService defines the primary port for case progression and SLA snapshots.
type CaseTrackerService interface {
	// RegisterCase explicitly registers a new case in the initial phase.
	RegisterCase(ctx context.Context, req RegisterCaseRequest) (*Case, error)

	// AdvanceCase moves a case to an explicit target phase and appends a history entry.
	// Unknown cases are registered by the call.
	AdvanceCase(ctx context.Context, req AdvanceCaseRequest) (*Case, error)

	// AdvanceCaseNext moves a case to the phase following its current one.
	AdvanceCaseNext(ctx context.Context, req AdvanceCaseNextRequest) (*Case, error)

	// GetCase retrieves a case by ID.
	GetCase(ctx context.Context, caseID string) (*Case, error)

	// ListCases lists cases with optional filters.
	ListCases(ctx context.Context, filters CaseFilters) ([]*Case, error)

	// Snapshot computes phase, elapsed days, tier and escalation for one case.
	Snapshot(ctx context.Context, c *Case, opts SnapshotOptions) (*Snapshot, error)

	// BulkSnapshot snapshots each case independently, collecting per-item errors.
	BulkSnapshot(ctx context.Context, cases []*Case, opts SnapshotOptions) []SnapshotResult

	// Sweep snapshots every stored case and notifies escalation targets.
	Sweep(ctx context.Context, opts SnapshotOptions) (*SweepResponse, error)
}

// Case represents a case at the port boundary.
type Case struct {
	ID           string
	RUC          string
	Name         string
	Activity     string
	Category     string
	Status       string
	CurrentPhase string
	Deadline     *time.Time // May be nil
	Version      int
	History      []*HistoryEntry
}

// HistoryEntry represents one phase transition.
type HistoryEntry struct {
	ID       string
	From     string // Empty for the entry that registered the case
	To       string
	Actor    string
	Note     string
	Deadline *time.Time
	At       time.Time
}

// CaseFilters contains filter options for listing cases.
type CaseFilters struct {
	Phase    string
	Activity string
}

// RegisterCaseRequest contains parameters for registering a case.
type RegisterCaseRequest struct {
	ID       string
	RUC      string
	Name     string
	Activity string
	Category string
	Status   string
	Deadline *time.Time
}

// AdvanceCaseRequest contains parameters for advancing a case.
// Non-empty business fields are recorded on the case; they are how a case
// registered implicitly by its first advance gets its activity.
type AdvanceCaseRequest struct {
	CaseID   string
	To       string
	Actor    string
	Note     string
	Deadline *time.Time // nil keeps the previous deadline

	RUC      string
	Name     string
	Activity string
	Category string
	Status   string
}

// AdvanceCaseNextRequest contains parameters for canonical-order advancement.
type AdvanceCaseNextRequest struct {
	CaseID   string
	Actor    string
	Note     string
	Deadline *time.Time
}

// Anchor selects which date elapsed days are measured from.
type Anchor string

const (
	// AnchorLastTransition measures from the most recent history entry.
	AnchorLastTransition Anchor = "last_transition"
	// AnchorDeadline measures from the case deadline.
	AnchorDeadline Anchor = "deadline"
	// AnchorExplicit measures from SnapshotOptions.Reference.
	AnchorExplicit Anchor = "explicit"
)

// SnapshotOptions controls snapshot computation.
type SnapshotOptions struct {
	Anchor    Anchor
	Reference *time.Time // required for AnchorExplicit
	Now       time.Time  // zero means the service clock
}

// Snapshot is the SLA view of one case.
type Snapshot struct {
	CaseID         string
	Activity       string
	Phase          string
	ReferenceDate  time.Time
	ElapsedDays    int
	Tier           string
	RuleFound      bool
	PrimaryRole    string
	SecondaryRoles []string
}

// SnapshotResult carries either a snapshot or the error for one case.
type SnapshotResult struct {
	CaseID   string
	Snapshot *Snapshot
	Err      error
}

// SweepResponse contains the outcome of a sweep.
type SweepResponse struct {
	Results  []SweepItem
	Notified int
}

// SweepItem is the sweep outcome for one case.
type SweepItem struct {
	SnapshotResult
	Notified  bool
	NotifyErr error
}

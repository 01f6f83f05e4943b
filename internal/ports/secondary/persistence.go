// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by stores when the requested record does not exist.
var ErrNotFound = errors.New("not found")

// ErrConcurrencyConflict is returned when a write is based on a stale version.
// The caller may reload and retry; the engine never retries on its own.
var ErrConcurrencyConflict = errors.New("concurrency conflict")

// CaseStore defines the secondary port for case persistence.
type CaseStore interface {
	// Get retrieves a case with its full history. Returns ErrNotFound if absent.
	Get(ctx context.Context, id string) (*CaseRecord, error)

	// Upsert inserts or replaces a case and its history.
	// Version must equal the stored version (0 for new cases); the stored
	// version is incremented and written back into record on success.
	Upsert(ctx context.Context, record *CaseRecord) error

	// List retrieves cases matching the given filters, ordered by id.
	List(ctx context.Context, filters CaseFilters) ([]*CaseRecord, error)
}

// CaseRecord represents a case as stored in persistence.
type CaseRecord struct {
	ID           string
	RUC          string
	Name         string
	Activity     string
	ActivityKey  string // normalized Activity, maintained by the application
	Category     string
	Status       string
	CurrentPhase string
	Deadline     *time.Time
	Version      int
	History      []*PhaseHistoryRecord
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PhaseHistoryRecord represents one transition in a case's audit trail.
type PhaseHistoryRecord struct {
	ID       string
	From     string // empty when the transition registered the case
	To       string
	Actor    string
	Note     string
	Deadline *time.Time
	At       time.Time
}

// CaseFilters contains filter options for listing cases.
type CaseFilters struct {
	Phase       string
	ActivityKey string // compared with CaseRecord.ActivityKey
}

// RuleStore defines the secondary port for SLA rule persistence.
// Keys are normalized activity names.
type RuleStore interface {
	// Get retrieves a rule by normalized activity. Returns ErrNotFound if absent.
	Get(ctx context.Context, key string) (*RuleRecord, error)

	// Upsert inserts or replaces a rule.
	Upsert(ctx context.Context, rule *RuleRecord) error

	// Remove deletes a rule. Removing an absent rule is not an error.
	Remove(ctx context.Context, key string) error

	// List retrieves every rule ordered by key.
	List(ctx context.Context) ([]*RuleRecord, error)
}

// RuleRecord represents an SLA rule as stored in persistence.
type RuleRecord struct {
	Key              string // normalized activity
	Activity         string
	Product          string
	ResponsibleRole  string
	TotalAllowedDays int
	GreenFrom        int
	GreenTo          int
	AmberFrom        int
	AmberTo          int
	RedFrom          int
	RedTo            int
	EscalateAmberTo  string
	EscalateRedTo    []string
	UpdatedAt        time.Time
}

package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/example/casesla/internal/ports/primary"
)

// CaseAdapter is a thin adapter that translates CLI operations to CaseTrackerService calls.
type CaseAdapter struct {
	service primary.CaseTrackerService
	out     io.Writer
}

// NewCaseAdapter creates a new CaseAdapter with the given service.
func NewCaseAdapter(service primary.CaseTrackerService, out io.Writer) *CaseAdapter {
	return &CaseAdapter{
		service: service,
		out:     out,
	}
}

// Register registers a new case.
func (a *CaseAdapter) Register(ctx context.Context, req primary.RegisterCaseRequest) (*primary.Case, error) {
	c, err := a.service.RegisterCase(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to register case: %w", err)
	}
	fmt.Fprintf(a.out, "✓ Registered case %s in %s\n", c.ID, c.CurrentPhase)
	return c, nil
}

// Advance moves a case to an explicit phase.
func (a *CaseAdapter) Advance(ctx context.Context, req primary.AdvanceCaseRequest) (*primary.Case, error) {
	c, err := a.service.AdvanceCase(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to advance case: %w", err)
	}
	a.printTransition(c)
	return c, nil
}

// Next moves a case to the following phase in canonical order.
func (a *CaseAdapter) Next(ctx context.Context, req primary.AdvanceCaseNextRequest) (*primary.Case, error) {
	c, err := a.service.AdvanceCaseNext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to advance case: %w", err)
	}
	a.printTransition(c)
	return c, nil
}

func (a *CaseAdapter) printTransition(c *primary.Case) {
	if n := len(c.History); n > 0 && c.History[n-1].From != "" {
		fmt.Fprintf(a.out, "✓ Case %s: %s -> %s\n", c.ID, c.History[n-1].From, c.CurrentPhase)
		return
	}
	fmt.Fprintf(a.out, "✓ Case %s registered in %s\n", c.ID, c.CurrentPhase)
}

// Show displays a case and its history.
func (a *CaseAdapter) Show(ctx context.Context, caseID string) (*primary.Case, error) {
	c, err := a.service.GetCase(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get case: %w", err)
	}

	fmt.Fprintf(a.out, "\nCase: %s\n", c.ID)
	fmt.Fprintf(a.out, "RUC:      %s\n", orDash(c.RUC))
	fmt.Fprintf(a.out, "Name:     %s\n", orDash(c.Name))
	fmt.Fprintf(a.out, "Activity: %s\n", orDash(c.Activity))
	fmt.Fprintf(a.out, "Category: %s\n", orDash(c.Category))
	fmt.Fprintf(a.out, "Status:   %s\n", orDash(c.Status))
	fmt.Fprintf(a.out, "Phase:    %s\n", c.CurrentPhase)
	fmt.Fprintf(a.out, "Deadline: %s\n", formatDate(c.Deadline))
	fmt.Fprintln(a.out)

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "AT\tFROM\tTO\tACTOR\tNOTE")
	fmt.Fprintln(w, "--\t----\t--\t-----\t----")
	for _, h := range c.History {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			h.At.Format("2006-01-02 15:04"),
			orDash(h.From),
			h.To,
			h.Actor,
			h.Note,
		)
	}
	w.Flush()
	fmt.Fprintln(a.out)

	return c, nil
}

// List lists cases with optional filters.
func (a *CaseAdapter) List(ctx context.Context, filters primary.CaseFilters) ([]*primary.Case, error) {
	cases, err := a.service.ListCases(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}

	if len(cases) == 0 {
		fmt.Fprintln(a.out, "No cases found.")
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, "Register a case:")
		fmt.Fprintln(a.out, "  casesla case register CASE-001 --activity ACTA_INICIO")
		return cases, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tRUC\tACTIVITY\tPHASE\tDEADLINE")
	fmt.Fprintln(w, "--\t---\t--------\t-----\t--------")
	for _, c := range cases {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			c.ID,
			orDash(c.RUC),
			orDash(c.Activity),
			c.CurrentPhase,
			formatDate(c.Deadline),
		)
	}
	w.Flush()
	return cases, nil
}

// Status prints SLA snapshots for the given cases, or every case matching
// filters when ids is empty. Per-case failures are printed inline.
func (a *CaseAdapter) Status(ctx context.Context, ids []string, filters primary.CaseFilters, opts primary.SnapshotOptions) ([]primary.SnapshotResult, error) {
	var cases []*primary.Case
	if len(ids) == 0 {
		listed, err := a.service.ListCases(ctx, filters)
		if err != nil {
			return nil, fmt.Errorf("failed to list cases: %w", err)
		}
		cases = listed
	} else {
		for _, id := range ids {
			c, err := a.service.GetCase(ctx, id)
			if err != nil {
				return nil, fmt.Errorf("failed to get case: %w", err)
			}
			cases = append(cases, c)
		}
	}

	results := a.service.BulkSnapshot(ctx, cases, opts)
	a.printSnapshots(results, nil)
	return results, nil
}

// Sweep snapshots every stored case and notifies escalation targets.
func (a *CaseAdapter) Sweep(ctx context.Context, opts primary.SnapshotOptions) (*primary.SweepResponse, error) {
	resp, err := a.service.Sweep(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to sweep cases: %w", err)
	}

	results := make([]primary.SnapshotResult, len(resp.Results))
	notified := make(map[string]string, len(resp.Results))
	for i, item := range resp.Results {
		results[i] = item.SnapshotResult
		switch {
		case item.NotifyErr != nil:
			notified[item.CaseID] = "failed: " + item.NotifyErr.Error()
		case item.Notified:
			notified[item.CaseID] = "sent"
		}
	}
	a.printSnapshots(results, notified)
	fmt.Fprintf(a.out, "\n✓ Swept %d case(s), %d escalation(s) sent\n", len(resp.Results), resp.Notified)
	return resp, nil
}

func (a *CaseAdapter) printSnapshots(results []primary.SnapshotResult, notified map[string]string) {
	if len(results) == 0 {
		fmt.Fprintln(a.out, "No cases found.")
		return
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	if notified != nil {
		fmt.Fprintln(w, "CASE\tACTIVITY\tPHASE\tDAYS\tESCALATE TO\tNOTIFY\tTIER")
		fmt.Fprintln(w, "----\t--------\t-----\t----\t-----------\t------\t----")
	} else {
		fmt.Fprintln(w, "CASE\tACTIVITY\tPHASE\tDAYS\tESCALATE TO\tTIER")
		fmt.Fprintln(w, "----\t--------\t-----\t----\t-----------\t----")
	}
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", r.CaseID, r.Err)
			continue
		}
		s := r.Snapshot
		if notified != nil {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
				s.CaseID, orDash(s.Activity), s.Phase, s.ElapsedDays,
				formatRoles(s.PrimaryRole, s.SecondaryRoles), orDash(notified[s.CaseID]), colorTier(s.Tier))
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			s.CaseID, orDash(s.Activity), s.Phase, s.ElapsedDays,
			formatRoles(s.PrimaryRole, s.SecondaryRoles), colorTier(s.Tier))
	}
	w.Flush()
}

package app

import (
	corephase "github.com/example/casesla/internal/core/phase"
	coresla "github.com/example/casesla/internal/core/sla"
	"github.com/example/casesla/internal/ports/primary"
	"github.com/example/casesla/internal/ports/secondary"
)

// Rule mappings

func portToCoreRule(r primary.Rule) coresla.Rule {
	return coresla.Rule{
		Activity:         r.Activity,
		Product:          r.Product,
		ResponsibleRole:  r.ResponsibleRole,
		TotalAllowedDays: r.TotalAllowedDays,
		Green:            coresla.Band{From: r.Green.From, To: r.Green.To},
		Amber:            coresla.Band{From: r.Amber.From, To: r.Amber.To},
		Red:              coresla.Band{From: r.Red.From, To: r.Red.To},
		EscalateAmberTo:  r.EscalateAmberTo,
		EscalateRedTo:    append([]string(nil), r.EscalateRedTo...),
	}
}

func coreToPortRule(r coresla.Rule) primary.Rule {
	return primary.Rule{
		Activity:         r.Activity,
		Product:          r.Product,
		ResponsibleRole:  r.ResponsibleRole,
		TotalAllowedDays: r.TotalAllowedDays,
		Green:            primary.Band{From: r.Green.From, To: r.Green.To},
		Amber:            primary.Band{From: r.Amber.From, To: r.Amber.To},
		Red:              primary.Band{From: r.Red.From, To: r.Red.To},
		EscalateAmberTo:  r.EscalateAmberTo,
		EscalateRedTo:    append([]string(nil), r.EscalateRedTo...),
	}
}

func coreToRuleRecord(r coresla.Rule) *secondary.RuleRecord {
	return &secondary.RuleRecord{
		Key:              r.Key(),
		Activity:         r.Activity,
		Product:          r.Product,
		ResponsibleRole:  r.ResponsibleRole,
		TotalAllowedDays: r.TotalAllowedDays,
		GreenFrom:        r.Green.From,
		GreenTo:          r.Green.To,
		AmberFrom:        r.Amber.From,
		AmberTo:          r.Amber.To,
		RedFrom:          r.Red.From,
		RedTo:            r.Red.To,
		EscalateAmberTo:  r.EscalateAmberTo,
		EscalateRedTo:    append([]string(nil), r.EscalateRedTo...),
	}
}

func ruleRecordToCore(r *secondary.RuleRecord) coresla.Rule {
	return coresla.Rule{
		Activity:         r.Activity,
		Product:          r.Product,
		ResponsibleRole:  r.ResponsibleRole,
		TotalAllowedDays: r.TotalAllowedDays,
		Green:            coresla.Band{From: r.GreenFrom, To: r.GreenTo},
		Amber:            coresla.Band{From: r.AmberFrom, To: r.AmberTo},
		Red:              coresla.Band{From: r.RedFrom, To: r.RedTo},
		EscalateAmberTo:  r.EscalateAmberTo,
		EscalateRedTo:    append([]string(nil), r.EscalateRedTo...),
	}
}

// Case mappings

func recordToState(r *secondary.CaseRecord) corephase.State {
	state := corephase.State{
		Current:  corephase.Phase(r.CurrentPhase),
		Deadline: r.Deadline,
		History:  make([]corephase.Entry, len(r.History)),
	}
	for i, h := range r.History {
		state.History[i] = corephase.Entry{
			ID:       h.ID,
			From:     corephase.Phase(h.From),
			To:       corephase.Phase(h.To),
			Actor:    h.Actor,
			Note:     h.Note,
			Deadline: h.Deadline,
			At:       h.At,
		}
	}
	return state
}

// applyState writes the phase state back onto a record, keeping business fields.
func applyState(r *secondary.CaseRecord, state corephase.State) {
	r.CurrentPhase = string(state.Current)
	r.Deadline = state.Deadline
	r.History = make([]*secondary.PhaseHistoryRecord, len(state.History))
	for i, e := range state.History {
		r.History[i] = &secondary.PhaseHistoryRecord{
			ID:       e.ID,
			From:     string(e.From),
			To:       string(e.To),
			Actor:    e.Actor,
			Note:     e.Note,
			Deadline: e.Deadline,
			At:       e.At,
		}
	}
}

func recordToCase(r *secondary.CaseRecord) *primary.Case {
	c := &primary.Case{
		ID:           r.ID,
		RUC:          r.RUC,
		Name:         r.Name,
		Activity:     r.Activity,
		Category:     r.Category,
		Status:       r.Status,
		CurrentPhase: r.CurrentPhase,
		Deadline:     r.Deadline,
		Version:      r.Version,
		History:      make([]*primary.HistoryEntry, len(r.History)),
	}
	for i, h := range r.History {
		c.History[i] = &primary.HistoryEntry{
			ID:       h.ID,
			From:     h.From,
			To:       h.To,
			Actor:    h.Actor,
			Note:     h.Note,
			Deadline: h.Deadline,
			At:       h.At,
		}
	}
	return c
}

// caseToState reads the phase state of a boundary case (used by snapshots of
// caller-supplied cases that never touched the store).
func caseToState(c *primary.Case) corephase.State {
	current := corephase.Phase(c.CurrentPhase)
	if current == "" {
		current = corephase.Initial
	}
	state := corephase.State{
		Current:  current,
		Deadline: c.Deadline,
		History:  make([]corephase.Entry, len(c.History)),
	}
	for i, h := range c.History {
		state.History[i] = corephase.Entry{
			ID:       h.ID,
			From:     corephase.Phase(h.From),
			To:       corephase.Phase(h.To),
			Actor:    h.Actor,
			Note:     h.Note,
			Deadline: h.Deadline,
			At:       h.At,
		}
	}
	return state
}

type noopMetrics struct{}

func (noopMetrics) ObserveTransition(from, to string)          {}
func (noopMetrics) ObserveRuleMutation(op string)              {}
func (noopMetrics) ObserveSnapshot(tier string)                {}
func (noopMetrics) ObserveNotification(tier string, err error) {}

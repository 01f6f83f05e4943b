package phase

import (
	"strings"
	"time"
)

// Entry is one immutable audit record of a phase transition.
type Entry struct {
	ID       string
	From     Phase // empty for a case's first entry when it was registered by this transition
	To       Phase
	Actor    string
	Note     string
	Deadline *time.Time
	At       time.Time
}

// State is the phase-related part of a case.
type State struct {
	Current  Phase
	Deadline *time.Time
	History  []Entry
}

// NewState returns the state of a freshly registered case.
func NewState() State {
	return State{Current: Initial}
}

// Command describes a requested transition.
type Command struct {
	CaseID   string
	To       Phase
	Actor    string
	Note     string
	Deadline *time.Time // nil keeps the previous deadline
	// Registering marks the first transition of a case that did not exist yet.
	Registering bool
}

// Apply appends one history entry for cmd and returns the resulting state.
// The input state is not modified. at is bumped past the previous entry's
// timestamp if needed so history stays strictly time-ordered.
func Apply(state State, cmd Command, id string, at time.Time) (State, Entry, error) {
	if err := CanAdvance(AdvanceContext{CaseID: cmd.CaseID, Actor: cmd.Actor, Target: cmd.To}).Error(); err != nil {
		return state, Entry{}, err
	}

	if n := len(state.History); n > 0 {
		if last := state.History[n-1].At; !at.After(last) {
			at = last.Add(time.Nanosecond)
		}
	}

	deadline := state.Deadline
	if cmd.Deadline != nil {
		d := *cmd.Deadline
		deadline = &d
	}

	entry := Entry{
		ID:       id,
		To:       cmd.To,
		Actor:    strings.TrimSpace(cmd.Actor),
		Note:     cmd.Note,
		Deadline: deadline,
		At:       at,
	}
	if !cmd.Registering {
		entry.From = state.Current
	}

	history := make([]Entry, len(state.History), len(state.History)+1)
	copy(history, state.History)
	history = append(history, entry)

	return State{Current: cmd.To, Deadline: deadline, History: history}, entry, nil
}

// Consistent reports whether Current matches the last history entry (or the
// initial phase when there is no history).
func (s State) Consistent() bool {
	if len(s.History) == 0 {
		return s.Current == Initial
	}
	return s.Current == s.History[len(s.History)-1].To
}

// LastTransitionAt returns the timestamp of the latest entry.
func (s State) LastTransitionAt() (time.Time, bool) {
	if len(s.History) == 0 {
		return time.Time{}, false
	}
	return s.History[len(s.History)-1].At, true
}

package phase

import (
	"errors"
	"testing"
	"time"
)

func TestNextPhase(t *testing.T) {
	tests := []struct {
		current Phase
		want    Phase
		wantOK  bool
	}{
		{Selection, Verification, true},
		{Verification, Approval, true},
		{Approval, Assignment, true},
		{Assignment, AuditStart, true},
		{AuditStart, SupervisorReview, true},
		{SupervisorReview, SectionChiefReview, true},
		{SectionChiefReview, Close, true},
		{Close, "", false},
		{Phase("archived"), "", false},
	}

	for _, tt := range tests {
		got, ok := NextPhase(tt.current)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("NextPhase(%s) = (%s, %v), want (%s, %v)", tt.current, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestAllIsACopy(t *testing.T) {
	all := All()
	all[0] = Close
	if All()[0] != Selection {
		t.Error("All() exposed the internal order slice")
	}
	if len(all) != 8 {
		t.Errorf("len(All()) = %d, want 8", len(all))
	}
}

func TestParsePhase(t *testing.T) {
	tests := []struct {
		in      string
		want    Phase
		wantErr bool
	}{
		{"selection", Selection, false},
		{"AUDIT_START", AuditStart, false},
		{" section-chief-review ", SectionChiefReview, false},
		{"done", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParsePhase(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePhase(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePhase(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestCanAdvance(t *testing.T) {
	tests := []struct {
		name        string
		ctx         AdvanceContext
		wantAllowed bool
		wantReason  string
	}{
		{
			name:        "attributed transition to known phase",
			ctx:         AdvanceContext{CaseID: "C1", Actor: "Auditor1", Target: Verification},
			wantAllowed: true,
		},
		{
			name:        "backwards transition is allowed",
			ctx:         AdvanceContext{CaseID: "C1", Actor: "Supervisor", Target: Selection},
			wantAllowed: true,
		},
		{
			name:        "empty actor rejected",
			ctx:         AdvanceContext{CaseID: "C1", Actor: "  ", Target: Verification},
			wantAllowed: false,
			wantReason:  "cannot advance case C1 without an actor",
		},
		{
			name:        "unknown phase rejected",
			ctx:         AdvanceContext{CaseID: "C1", Actor: "Auditor1", Target: "archived"},
			wantAllowed: false,
			wantReason:  `cannot advance case C1 to unknown phase "archived"`,
		},
		{
			name:        "missing case id rejected",
			ctx:         AdvanceContext{Actor: "Auditor1", Target: Verification},
			wantAllowed: false,
			wantReason:  "case id is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanAdvance(tt.ctx)
			if result.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
			if !tt.wantAllowed && result.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", result.Reason, tt.wantReason)
			}
		})
	}
}

func TestCanRegister(t *testing.T) {
	if r := CanRegister(RegisterContext{CaseID: "C1"}); !r.Allowed {
		t.Errorf("expected registration allowed, got %q", r.Reason)
	}
	r := CanRegister(RegisterContext{CaseID: "C1", Exists: true})
	if r.Allowed || r.Reason != "case C1 already registered" {
		t.Errorf("got %+v, want rejection for existing case", r)
	}
}

func TestCanAdvanceNext(t *testing.T) {
	if r := CanAdvanceNext(AdvanceNextContext{CaseID: "C1", Current: AuditStart}); !r.Allowed {
		t.Errorf("expected allowed, got %q", r.Reason)
	}
	r := CanAdvanceNext(AdvanceNextContext{CaseID: "C1", Current: Close})
	if r.Allowed {
		t.Error("expected terminal phase to be rejected")
	}
	var verr *ValidationError
	if !errors.As(r.Error(), &verr) {
		t.Errorf("Error() = %T, want *ValidationError", r.Error())
	}
}

func TestApply_MonotonicAuditTrail(t *testing.T) {
	state := NewState()
	base := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	targets := []Phase{Verification, Approval, Selection, Assignment, Close}

	for i, to := range targets {
		before := len(state.History)
		next, entry, err := Apply(state, Command{CaseID: "C1", To: to, Actor: "Auditor1"}, "E", base.Add(time.Duration(i)*time.Hour))
		if err != nil {
			t.Fatalf("Apply #%d failed: %v", i, err)
		}
		if len(next.History) != before+1 {
			t.Fatalf("history len = %d, want %d", len(next.History), before+1)
		}
		if next.Current != to || entry.To != to {
			t.Errorf("Current = %s, entry.To = %s, want %s", next.Current, entry.To, to)
		}
		if entry.From != state.Current {
			t.Errorf("entry.From = %s, want %s", entry.From, state.Current)
		}
		if !next.Consistent() {
			t.Errorf("state inconsistent after #%d", i)
		}
		state = next
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	state := NewState()
	next, _, err := Apply(state, Command{CaseID: "C1", To: Verification, Actor: "A"}, "E1", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if len(state.History) != 0 || state.Current != Selection {
		t.Errorf("input state mutated: %+v", state)
	}
	if len(next.History) != 1 {
		t.Errorf("next history len = %d, want 1", len(next.History))
	}
}

func TestApply_DeadlineCarriedForward(t *testing.T) {
	d1 := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	at := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	s1, e1, err := Apply(NewState(), Command{CaseID: "C1", To: Verification, Actor: "A", Deadline: &d1}, "E1", at)
	if err != nil {
		t.Fatal(err)
	}
	if e1.Deadline == nil || !e1.Deadline.Equal(d1) {
		t.Errorf("entry deadline = %v, want %v", e1.Deadline, d1)
	}

	s2, e2, err := Apply(s1, Command{CaseID: "C1", To: Approval, Actor: "A"}, "E2", at.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if s2.Deadline == nil || !s2.Deadline.Equal(d1) {
		t.Errorf("state deadline = %v, want carried %v", s2.Deadline, d1)
	}
	if e2.Deadline == nil || !e2.Deadline.Equal(d1) {
		t.Errorf("entry deadline = %v, want carried %v", e2.Deadline, d1)
	}
}

func TestApply_RegisteringHasNoFrom(t *testing.T) {
	_, entry, err := Apply(NewState(), Command{CaseID: "C1", To: Verification, Actor: "A", Registering: true}, "E1", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if entry.From != "" {
		t.Errorf("From = %q, want empty", entry.From)
	}
}

func TestApply_StrictTimeOrdering(t *testing.T) {
	at := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	s1, _, _ := Apply(NewState(), Command{CaseID: "C1", To: Verification, Actor: "A"}, "E1", at)
	s2, e2, err := Apply(s1, Command{CaseID: "C1", To: Approval, Actor: "A"}, "E2", at)
	if err != nil {
		t.Fatal(err)
	}
	if !e2.At.After(s1.History[0].At) {
		t.Errorf("second entry at %v not after first %v", e2.At, s1.History[0].At)
	}
	if last, _ := s2.LastTransitionAt(); !last.Equal(e2.At) {
		t.Errorf("LastTransitionAt = %v, want %v", last, e2.At)
	}
}

func TestApply_RejectsEmptyActor(t *testing.T) {
	state := NewState()
	got, _, err := Apply(state, Command{CaseID: "C1", To: Verification, Actor: ""}, "E1", time.Now())
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want *ValidationError", err)
	}
	if len(got.History) != 0 || got.Current != Selection {
		t.Errorf("state changed on rejection: %+v", got)
	}
}

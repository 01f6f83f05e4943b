package sla

import (
	"strings"
	"time"
)

// Tier is the SLA health classification of a case's current activity.
type Tier string

const (
	TierGreen Tier = "GREEN"
	TierAmber Tier = "AMBER"
	TierRed   Tier = "RED"
	// TierGray means no applicable rule, or elapsed days outside every band.
	TierGray Tier = "GRAY"
)

// EscalationDecision names who should hear about a tier.
type EscalationDecision struct {
	Tier           Tier
	PrimaryRole    string   // empty for GREEN/GRAY or when the chain is empty
	SecondaryRoles []string // remaining RED roles, in declared order
}

// Roles returns primary followed by secondary roles.
func (d EscalationDecision) Roles() []string {
	if d.PrimaryRole == "" {
		return nil
	}
	return append([]string{d.PrimaryRole}, d.SecondaryRoles...)
}

// ElapsedDays returns the whole calendar days between reference and now,
// clamped at zero. A future reference means "not yet started" and yields 0.
// Both instants are read as dates in now's location, so the result does not
// depend on the location the reference was stored or loaded in.
func ElapsedDays(reference, now time.Time) int {
	ref := dateOnly(reference.In(now.Location()))
	cur := dateOnly(now)
	days := int(cur.Sub(ref).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Classify maps elapsed days onto a tier. A nil rule yields GRAY.
// Overdue (beyond TotalAllowedDays) is RED regardless of bands.
func Classify(elapsedDays int, rule *Rule) Tier {
	if rule == nil {
		return TierGray
	}
	switch {
	case elapsedDays > rule.TotalAllowedDays:
		return TierRed
	case rule.Red.Contains(elapsedDays):
		return TierRed
	case rule.Amber.Contains(elapsedDays):
		return TierAmber
	case rule.Green.Contains(elapsedDays):
		return TierGreen
	case elapsedDays < rule.Green.From:
		return TierGreen
	default:
		// Gap between bands; only reachable for a rule that bypassed validation.
		return TierGray
	}
}

// EscalationFor selects escalation roles for a tier.
func EscalationFor(tier Tier, rule *Rule) EscalationDecision {
	decision := EscalationDecision{Tier: tier}
	if rule == nil {
		return decision
	}

	switch tier {
	case TierAmber:
		decision.PrimaryRole = strings.TrimSpace(rule.EscalateAmberTo)
	case TierRed:
		var roles []string
		for _, role := range rule.EscalateRedTo {
			if role = strings.TrimSpace(role); role != "" {
				roles = append(roles, role)
			}
		}
		if len(roles) > 0 {
			decision.PrimaryRole = roles[0]
			decision.SecondaryRoles = roles[1:]
		}
	}
	if decision.SecondaryRoles == nil {
		decision.SecondaryRoles = []string{}
	}
	return decision
}

// Evaluation is the combined output of ElapsedDays, Classify and EscalationFor.
type Evaluation struct {
	ElapsedDays int
	Tier        Tier
	Escalation  EscalationDecision
}

// Evaluate classifies the time between reference and now under rule.
func Evaluate(reference, now time.Time, rule *Rule) Evaluation {
	days := ElapsedDays(reference, now)
	tier := Classify(days, rule)
	return Evaluation{
		ElapsedDays: days,
		Tier:        tier,
		Escalation:  EscalationFor(tier, rule),
	}
}

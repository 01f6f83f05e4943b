package sla

import (
	"fmt"
	"strings"
)

// ValidationError describes one violated constraint of a rule or command.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors aggregates every problem found in one validation pass.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return "invalid: " + strings.Join(msgs, "; ")
}

// Err returns nil for an empty list so callers can write `if err := v.Err(); err != nil`.
func (errs ValidationErrors) Err() error {
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Validate checks a rule against the band ordering
//
//	1 <= green.from <= green.to < amber.from <= amber.to < red.from <= red.to <= total
//
// and returns one error per violated inequality. A valid rule yields nil.
func Validate(rule Rule) ValidationErrors {
	r := rule.Normalized()
	var errs ValidationErrors

	if r.Activity == "" {
		errs = append(errs, ValidationError{Field: "activity", Message: "must not be empty"})
	}
	if r.TotalAllowedDays <= 0 {
		errs = append(errs, ValidationError{
			Field:   "total_allowed_days",
			Message: fmt.Sprintf("must be positive (got %d)", r.TotalAllowedDays),
		})
	}

	bound := func(ok bool, field, violated string, left, right int) {
		if !ok {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("%s (%d vs %d)", violated, left, right),
			})
		}
	}
	bound(r.Green.From >= 1, "green.from", "green.from < 1", r.Green.From, 1)
	bound(r.Green.From <= r.Green.To, "green", "green.from > green.to", r.Green.From, r.Green.To)
	bound(r.Green.To < r.Amber.From, "amber.from", "green.to >= amber.from", r.Green.To, r.Amber.From)
	bound(r.Amber.From <= r.Amber.To, "amber", "amber.from > amber.to", r.Amber.From, r.Amber.To)
	bound(r.Amber.To < r.Red.From, "red.from", "amber.to >= red.from", r.Amber.To, r.Red.From)
	bound(r.Red.From <= r.Red.To, "red", "red.from > red.to", r.Red.From, r.Red.To)
	bound(r.Red.To <= r.TotalAllowedDays, "red.to", "red.to > total_allowed_days", r.Red.To, r.TotalAllowedDays)

	if len(r.EscalateRedTo) > MaxRedChain {
		errs = append(errs, ValidationError{
			Field:   "escalate_red_to",
			Message: fmt.Sprintf("at most %d roles allowed (got %d)", MaxRedChain, len(r.EscalateRedTo)),
		})
	}

	return errs
}

// Package rulefile reads and writes SLA rule catalogs as YAML documents.
//
//	rules:
//	  - activity: ACTA_INICIO
//	    responsible_role: Auditor
//	    total_allowed_days: 5
//	    green: {from: 1, to: 3}
//	    amber: {from: 4, to: 4}
//	    red: {from: 5, to: 5}
//	    escalate_amber_to: Supervisor
//	    escalate_red_to: [JefeSeccion]
package rulefile

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/example/casesla/internal/ports/primary"
)

// Document is the on-disk catalog shape.
type Document struct {
	Rules []RuleDoc `yaml:"rules"`
}

// RuleDoc is one rule in a Document.
type RuleDoc struct {
	Activity         string   `yaml:"activity"`
	Product          string   `yaml:"product,omitempty"`
	ResponsibleRole  string   `yaml:"responsible_role"`
	TotalAllowedDays int      `yaml:"total_allowed_days"`
	Green            BandDoc  `yaml:"green"`
	Amber            BandDoc  `yaml:"amber"`
	Red              BandDoc  `yaml:"red"`
	EscalateAmberTo  string   `yaml:"escalate_amber_to,omitempty"`
	EscalateRedTo    []string `yaml:"escalate_red_to,omitempty,flow"`
}

// BandDoc is an inclusive day range.
type BandDoc struct {
	From int `yaml:"from"`
	To   int `yaml:"to"`
}

// Decode parses a catalog document. Unknown keys are rejected so that a
// misspelled band does not silently decode as zero.
func Decode(r io.Reader) ([]primary.Rule, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return []primary.Rule{}, nil
		}
		return nil, fmt.Errorf("failed to parse rule document: %w", err)
	}

	rules := make([]primary.Rule, len(doc.Rules))
	for i, d := range doc.Rules {
		rules[i] = primary.Rule{
			Activity:         d.Activity,
			Product:          d.Product,
			ResponsibleRole:  d.ResponsibleRole,
			TotalAllowedDays: d.TotalAllowedDays,
			Green:            primary.Band{From: d.Green.From, To: d.Green.To},
			Amber:            primary.Band{From: d.Amber.From, To: d.Amber.To},
			Red:              primary.Band{From: d.Red.From, To: d.Red.To},
			EscalateAmberTo:  d.EscalateAmberTo,
			EscalateRedTo:    d.EscalateRedTo,
		}
	}
	return rules, nil
}

// Encode writes rules as a catalog document.
func Encode(w io.Writer, rules []*primary.Rule) error {
	doc := Document{Rules: make([]RuleDoc, 0, len(rules))}
	for _, r := range rules {
		doc.Rules = append(doc.Rules, RuleDoc{
			Activity:         r.Activity,
			Product:          r.Product,
			ResponsibleRole:  r.ResponsibleRole,
			TotalAllowedDays: r.TotalAllowedDays,
			Green:            BandDoc{From: r.Green.From, To: r.Green.To},
			Amber:            BandDoc{From: r.Amber.From, To: r.Amber.To},
			Red:              BandDoc{From: r.Red.From, To: r.Red.To},
			EscalateAmberTo:  r.EscalateAmberTo,
			EscalateRedTo:    r.EscalateRedTo,
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode rule document: %w", err)
	}
	return enc.Close()
}

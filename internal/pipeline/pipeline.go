// Package pipeline applies a rule table to the transactions of a QFX file.
package pipeline

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/cleared-dev/qfxrename/internal/directive"
	"github.com/cleared-dev/qfxrename/internal/logging"
	"github.com/cleared-dev/qfxrename/internal/model"
	"github.com/cleared-dev/qfxrename/internal/qfx"
)

// RuleLookup finds the rule for a transaction name.
type RuleLookup interface {
	Lookup(name string) (model.Rule, bool, error)
}

// Options tune the handling of transactions without a rule.
type Options struct {
	// TitleUnmatched title-cases names that no rule matches.
	TitleUnmatched bool
}

// Entry pairs a processed record with its outcome.
type Entry struct {
	Record  qfx.Record
	Outcome model.Outcome
}

// Result is the outcome of one run over a file.
type Result struct {
	Entries []Entry
	Output  []byte
}

// Records returns the processed records in file order.
func (r *Result) Records() []qfx.Record {
	recs := make([]qfx.Record, len(r.Entries))
	for i, e := range r.Entries {
		recs[i] = e.Record
	}
	return recs
}

// Count returns the number of entries with outcome o.
func (r *Result) Count(o model.Outcome) int {
	n := 0
	for _, e := range r.Entries {
		if e.Outcome == o {
			n++
		}
	}
	return n
}

// Changed returns the number of records whose name was rewritten.
func (r *Result) Changed() int {
	n := 0
	for _, e := range r.Entries {
		if e.Record.Changed() {
			n++
		}
	}
	return n
}

// Apply rewrites one record according to its rule.
func Apply(rec qfx.Record, rules RuleLookup) (qfx.Record, model.Outcome, error) {
	rule, ok, err := rules.Lookup(rec.Name)
	if err != nil {
		return rec, "", err
	}
	if !ok {
		return rec, model.OutcomeUnmatched, nil
	}

	d, err := directive.ForRule(rule)
	if err != nil {
		return rec, "", err
	}
	switch d.Kind {
	case model.DirectiveNoChange:
		return rec, model.OutcomeExplicitNoChange, nil
	case model.DirectiveManualReview:
		rec.Name = d.Text
		return rec, model.OutcomeNeedsManualReview, nil
	default:
		rec.Name = d.Text
		return rec, model.OutcomeRenamed, nil
	}
}

// Pipeline runs Apply over every transaction of a document.
type Pipeline struct {
	rules RuleLookup
	opts  Options
	log   logrus.FieldLogger
}

// New creates a Pipeline.
func New(rules RuleLookup, opts Options, log logrus.FieldLogger) *Pipeline {
	if log == nil {
		log = logging.Discard()
	}
	return &Pipeline{rules: rules, opts: opts, log: log}
}

// Run scans data, applies the rules, and renders the output. Any error
// aborts the run and no output is returned.
func (p *Pipeline) Run(data []byte) (*Result, error) {
	var title cases.Caser
	if p.opts.TitleUnmatched {
		title = cases.Title(language.Und)
	}

	res := &Result{}
	s := qfx.NewScanner(data)
	for s.Next() {
		rec := s.Record()
		out, outcome, err := Apply(rec, p.rules)
		if err != nil {
			return nil, fmt.Errorf("transaction %d at line %d: %w", rec.Index+1, rec.NameLine, err)
		}
		if outcome == model.OutcomeUnmatched && p.opts.TitleUnmatched {
			out.Name = title.String(out.Name)
			outcome = model.OutcomeTitleCased
		}

		entry := p.log.WithFields(logrus.Fields{
			logging.FieldTransaction: rec.Index + 1,
			logging.FieldLine:        rec.NameLine,
			logging.FieldName:        rec.Name,
			logging.FieldOutcome:     outcome,
		})
		switch outcome {
		case model.OutcomeNeedsManualReview:
			entry.WithField(logging.FieldNewName, out.Name).Warn("Name needs manual review")
		case model.OutcomeRenamed, model.OutcomeTitleCased:
			entry.WithField(logging.FieldNewName, out.Name).Debug("Renamed transaction")
		default:
			entry.Debug("Left transaction unchanged")
		}

		res.Entries = append(res.Entries, Entry{Record: out, Outcome: outcome})
	}
	if err := s.Err(); err != nil {
		return nil, err
	}

	output, err := qfx.Render(data, res.Records())
	if err != nil {
		return nil, err
	}
	res.Output = output
	return res, nil
}

// Package report lists transaction names that no rule covers, in a form that
// can be pasted into the rule file.
package report

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/qfxrename/internal/directive"
	"github.com/cleared-dev/qfxrename/internal/pipeline"
)

// MissingRule is one suggested rule row.
type MissingRule struct {
	SearchText  string `csv:"SearchText"`
	Replacement string `csv:"Replacement"`
	Occurrences int    `csv:"Occurrences"`
	Total       string `csv:"Total"`
}

// Missing aggregates the entries that no rule matched by their original
// name, sorted by name. Replacement is pre-filled with <NO_CHANGE> so the
// rows load as valid rules.
func Missing(entries []pipeline.Entry) []MissingRule {
	type agg struct {
		count int
		total decimal.Decimal
	}
	byName := make(map[string]*agg)
	for _, e := range entries {
		if e.Outcome.HasRule() {
			continue
		}
		name := e.Record.Original
		a, ok := byName[name]
		if !ok {
			a = &agg{}
			byName[name] = a
		}
		a.count++
		if amt, err := e.Record.Amount(); err == nil {
			a.total = a.total.Add(amt)
		}
	}

	rows := make([]MissingRule, 0, len(byName))
	for name, a := range byName {
		rows = append(rows, MissingRule{
			SearchText:  name,
			Replacement: "<" + directive.NoChange + ">",
			Occurrences: a.count,
			Total:       a.total.StringFixed(2),
		})
	}
	slices.SortFunc(rows, func(a, b MissingRule) int {
		return strings.Compare(a.SearchText, b.SearchText)
	})
	return rows
}

// WriteMissing writes rows as CSV with a header line.
func WriteMissing(w io.Writer, rows []MissingRule) error {
	if rows == nil {
		rows = []MissingRule{}
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("writing missing rules: %w", err)
	}
	return nil
}

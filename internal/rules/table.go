// Package rules loads the rule table that maps transaction names to replacements.
package rules

import (
	"fmt"
	"slices"
	"strings"

	"github.com/cleared-dev/qfxrename/internal/directive"
	"github.com/cleared-dev/qfxrename/internal/model"
)

// MatchMode selects how transaction names are compared with rule keys.
type MatchMode string

const (
	// MatchExact requires the name to equal the rule key.
	MatchExact MatchMode = "exact"
	// MatchContains accepts a rule whose key is a substring of the name.
	MatchContains MatchMode = "contains"
)

// ParseMatchMode validates a mode name. The empty string means MatchExact.
func ParseMatchMode(s string) (MatchMode, error) {
	switch MatchMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", MatchExact:
		return MatchExact, nil
	case MatchContains:
		return MatchContains, nil
	default:
		return "", fmt.Errorf("unknown match mode %q (want %q or %q)", s, MatchExact, MatchContains)
	}
}

// Table is an immutable, ordered rule lookup.
type Table struct {
	rules []model.Rule
	byKey map[string]int
	mode  MatchMode
}

// NewTable validates rules and builds a Table.
//
// Keys must be non-empty. A key repeated with the same replacement is
// collapsed into its first occurrence; a key repeated with a different
// replacement is rejected. Every replacement is classified up front so an
// unknown directive fails here rather than halfway through a file.
func NewTable(rules []model.Rule, mode MatchMode) (*Table, error) {
	if mode == "" {
		mode = MatchExact
	}
	t := &Table{
		byKey: make(map[string]int, len(rules)),
		mode:  mode,
	}
	for _, r := range rules {
		if strings.TrimSpace(r.MatchKey) == "" {
			return nil, &ConfigError{Row: r.Row, Reason: "empty match key"}
		}
		if strings.ContainsAny(r.Replacement, "\r\n") {
			return nil, &ConfigError{Row: r.Row, Reason: fmt.Sprintf("replacement for %q contains a line break", r.MatchKey)}
		}
		if i, ok := t.byKey[r.MatchKey]; ok {
			prev := t.rules[i]
			if prev.Replacement == r.Replacement {
				continue
			}
			return nil, &ConfigError{
				Row:    r.Row,
				Reason: fmt.Sprintf("%q maps to %q here but to %q at row %d", r.MatchKey, r.Replacement, prev.Replacement, prev.Row),
			}
		}
		if _, err := directive.ForRule(r); err != nil {
			return nil, err
		}
		t.byKey[r.MatchKey] = len(t.rules)
		t.rules = append(t.rules, r)
	}
	return t, nil
}

// Lookup returns the rule for a transaction name.
func (t *Table) Lookup(name string) (model.Rule, bool, error) {
	if i, ok := t.byKey[name]; ok {
		return t.rules[i], true, nil
	}
	if t.mode != MatchContains {
		return model.Rule{}, false, nil
	}

	var found []model.Rule
	for _, r := range t.rules {
		if strings.Contains(name, r.MatchKey) {
			found = append(found, r)
		}
	}
	switch len(found) {
	case 0:
		return model.Rule{}, false, nil
	case 1:
		return found[0], true, nil
	default:
		keys := make([]string, len(found))
		for i, r := range found {
			keys[i] = r.MatchKey
		}
		return model.Rule{}, false, &AmbiguousMatchError{Name: name, Keys: keys}
	}
}

// Rules returns the rules in source order, duplicates removed.
func (t *Table) Rules() []model.Rule {
	return slices.Clone(t.rules)
}

// Len returns the number of distinct rules.
func (t *Table) Len() int {
	return len(t.rules)
}

// Mode returns the table's match mode.
func (t *Table) Mode() MatchMode {
	return t.mode
}

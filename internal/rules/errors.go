package rules

import (
	"fmt"
	"strings"
)

// ConfigError reports a rule source that is missing, unreadable, or invalid.
type ConfigError struct {
	Path   string
	Row    int
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString("rules")
	if e.Path != "" {
		b.WriteString(" ")
		b.WriteString(e.Path)
	}
	if e.Row > 0 {
		fmt.Fprintf(&b, " row %d", e.Row)
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// AmbiguousMatchError reports a name matched by more than one rule in contains mode.
type AmbiguousMatchError struct {
	Name string
	Keys []string
}

func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("multiple rules match %q: %s", e.Name, strings.Join(quoteAll(e.Keys), ", "))
}

func quoteAll(keys []string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = fmt.Sprintf("%q", k)
	}
	return out
}

// Package directive interprets the replacement column of a rule.
package directive

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/cleared-dev/qfxrename/internal/model"
)

// NoChange is the bracketed token that leaves a transaction name untouched.
const NoChange = "NO_CHANGE"

// UnknownDirectiveError reports a bracketed replacement that is not a known instruction.
type UnknownDirectiveError struct {
	Token string
	Rule  model.Rule // set once the offending rule is known
}

func (e *UnknownDirectiveError) Error() string {
	if e.Rule.MatchKey == "" {
		return fmt.Sprintf("unknown directive <%s>", e.Token)
	}
	if e.Rule.Row > 0 {
		return fmt.Sprintf("unknown directive <%s> in rule %q (row %d)", e.Token, e.Rule.MatchKey, e.Rule.Row)
	}
	return fmt.Sprintf("unknown directive <%s> in rule %q", e.Token, e.Rule.MatchKey)
}

// Classify interprets a replacement.
//
// A bracketed token is an instruction, a value without lowercase letters (and
// with at least one letter) marks a name that needs manual review, and
// anything else is a literal replacement. The empty string is a literal.
func Classify(replacement string) (model.Directive, error) {
	if token, ok := bracketed(replacement); ok {
		if token == NoChange {
			return model.Directive{Kind: model.DirectiveNoChange}, nil
		}
		return model.Directive{}, &UnknownDirectiveError{Token: token}
	}
	if isMarker(replacement) {
		return model.Directive{Kind: model.DirectiveManualReview, Text: replacement}, nil
	}
	return model.Directive{Kind: model.DirectiveLiteral, Text: replacement}, nil
}

// ForRule classifies r.Replacement and attaches r to an UnknownDirectiveError.
func ForRule(r model.Rule) (model.Directive, error) {
	d, err := Classify(r.Replacement)
	if err != nil {
		var ude *UnknownDirectiveError
		if errors.As(err, &ude) {
			ude.Rule = r
		}
		return model.Directive{}, err
	}
	return d, nil
}

func bracketed(s string) (string, bool) {
	if len(s) < 2 || s[0] != '<' || s[len(s)-1] != '>' {
		return "", false
	}
	inner := s[1 : len(s)-1]
	if strings.ContainsAny(inner, "<>") {
		return "", false
	}
	return inner, true
}

func isMarker(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}

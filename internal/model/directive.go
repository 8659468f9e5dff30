package model

// DirectiveKind classifies a rule replacement.
type DirectiveKind int

const (
	// DirectiveLiteral replaces the name with the rule's text.
	DirectiveLiteral DirectiveKind = iota
	// DirectiveManualReview replaces the name with an all-caps marker.
	DirectiveManualReview
	// DirectiveNoChange keeps the original name.
	DirectiveNoChange
)

// String returns the kind's log name.
func (k DirectiveKind) String() string {
	switch k {
	case DirectiveLiteral:
		return "literal"
	case DirectiveManualReview:
		return "manual-review"
	case DirectiveNoChange:
		return "no-change"
	default:
		return "unknown"
	}
}

// Directive is the interpreted form of a replacement.
type Directive struct {
	Kind DirectiveKind
	Text string // empty for DirectiveNoChange
}

// Outcome records what the pipeline did with one transaction.
type Outcome string

const (
	// OutcomeUnmatched means no rule matched and the name was kept.
	OutcomeUnmatched Outcome = "unmatched"
	// OutcomeRenamed means a literal rule replaced the name.
	OutcomeRenamed Outcome = "renamed"
	// OutcomeExplicitNoChange means a <NO_CHANGE> rule kept the name.
	OutcomeExplicitNoChange Outcome = "no-change"
	// OutcomeNeedsManualReview means a marker rule replaced the name.
	OutcomeNeedsManualReview Outcome = "needs-review"
	// OutcomeTitleCased means no rule matched and the name was title-cased.
	OutcomeTitleCased Outcome = "title-cased"
)

// HasRule reports whether the outcome came from a rule in the table.
func (o Outcome) HasRule() bool {
	return o != OutcomeUnmatched && o != OutcomeTitleCased
}

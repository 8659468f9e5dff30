package model

// Rule is one row of the rule source.
type Rule struct {
	MatchKey    string
	Replacement string
	Row         int // 1-based data row in the rule source, 0 if built in code
}

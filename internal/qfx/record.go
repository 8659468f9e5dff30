// Package qfx locates transaction names inside QFX/OFX exports and splices
// replacements back without disturbing the rest of the file.
package qfx

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Record is one <STMTTRN> aggregate. Name is the only mutable field; the
// bytes outside the name value are never rewritten.
type Record struct {
	Index    int // 0-based ordinal in the file
	Line     int // line of the <STMTTRN> tag
	Offset   int // byte offset of the <STMTTRN> tag
	NameLine int

	Name     string // current name, entities decoded
	Original string // name as scanned, entities decoded

	FITID  string
	TrnAmt string // raw TRNAMT value

	nameStart, nameEnd int
}

// Changed reports whether Name differs from the scanned value.
func (r Record) Changed() bool {
	return r.Name != r.Original
}

// Amount parses TRNAMT. A comma decimal separator is accepted.
func (r Record) Amount() (decimal.Decimal, error) {
	s := strings.TrimSpace(r.TrnAmt)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.Replace(s, ",", ".", 1))
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing TRNAMT %q: %w", r.TrnAmt, err)
	}
	return d, nil
}

// MalformedRecordError reports a transaction the scanner cannot rewrite safely.
type MalformedRecordError struct {
	Index  int
	Line   int
	Offset int
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("transaction %d at line %d (offset %d): %s", e.Index+1, e.Line, e.Offset, e.Reason)
}

var (
	entityDecoder = strings.NewReplacer("&amp;", "&", "&lt;", "<", "&gt;", ">", "&quot;", `"`, "&apos;", "'")
	entityEncoder = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
)

func decodeText(raw []byte) string {
	return entityDecoder.Replace(string(raw))
}

func encodeText(s string) string {
	return entityEncoder.Replace(s)
}

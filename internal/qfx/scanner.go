package qfx

import (
	"bytes"
	"strings"
)

const (
	tagTransaction = "STMTTRN"
	tagName        = "NAME"
	tagFITID       = "FITID"
	tagAmount      = "TRNAMT"
)

// Aggregates that may appear inside STMTTRN. Their children (PAYEE has its
// own NAME) are not transaction fields.
var nestedAggregates = map[string]bool{
	"PAYEE":        true,
	"BANKACCTTO":   true,
	"CCACCTTO":     true,
	"CURRENCY":     true,
	"ORIGCURRENCY": true,
	"IMAGEDATA":    true,
}

type tag struct {
	name    string
	closing bool
	start   int // offset of '<'
	end     int // offset just past '>'
	line    int
}

// Scanner walks the <STMTTRN> aggregates of a QFX/OFX document in order.
// Both SGML (unterminated leaf elements) and XML forms are accepted.
//
//	s := qfx.NewScanner(data)
//	for s.Next() {
//		rec := s.Record()
//	}
//	if err := s.Err(); err != nil { ... }
type Scanner struct {
	data  []byte
	pos   int
	line  int
	count int
	rec   Record
	err   error
	done  bool
}

// NewScanner returns a Scanner positioned at the start of data.
func NewScanner(data []byte) *Scanner {
	s := &Scanner{data: data}
	s.Reset()
	return s
}

// Reset rewinds the scanner to the beginning of the document.
func (s *Scanner) Reset() {
	s.pos = 0
	s.line = 1
	s.count = 0
	s.rec = Record{}
	s.err = nil
	s.done = false
}

// Record returns the record found by the last successful call to Next.
func (s *Scanner) Record() Record {
	return s.rec
}

// Err returns the first error encountered, or nil at a clean end of input.
func (s *Scanner) Err() error {
	return s.err
}

// Next advances to the next transaction. It returns false at the end of the
// document or on error.
func (s *Scanner) Next() bool {
	if s.done || s.err != nil {
		return false
	}

	var open tag
	for {
		t, ok := s.nextTag()
		if !ok {
			s.done = true
			return false
		}
		if t.name != tagTransaction {
			continue
		}
		if t.closing {
			s.fail(s.count, t, "closing </STMTTRN> without an opening tag")
			return false
		}
		open = t
		break
	}

	rec := Record{Index: s.count, Line: open.line, Offset: open.start}
	haveName := false
	depth := 0
	for {
		t, ok := s.nextTag()
		if !ok {
			s.fail(rec.Index, open, "missing closing </STMTTRN> tag")
			return false
		}

		switch {
		case t.name == tagTransaction && t.closing:
			if !haveName {
				s.fail(rec.Index, open, "missing NAME field")
				return false
			}
			s.rec = rec
			s.count++
			return true
		case t.name == tagTransaction:
			s.fail(rec.Index, open, "missing closing </STMTTRN> tag before next transaction")
			return false
		case nestedAggregates[t.name]:
			if !t.closing {
				depth++
			} else if depth > 0 {
				depth--
			}
		case t.closing || depth > 0:
		case t.name == tagName:
			if haveName {
				s.fail(rec.Index, open, "more than one NAME field")
				return false
			}
			start, end := s.valueSpan(t.end)
			rec.NameLine = t.line
			rec.nameStart, rec.nameEnd = start, end
			rec.Original = decodeText(s.data[start:end])
			rec.Name = rec.Original
			haveName = true
		case t.name == tagFITID:
			start, end := s.valueSpan(t.end)
			rec.FITID = decodeText(s.data[start:end])
		case t.name == tagAmount:
			start, end := s.valueSpan(t.end)
			rec.TrnAmt = string(s.data[start:end])
		}
	}
}

func (s *Scanner) fail(index int, at tag, reason string) {
	s.err = &MalformedRecordError{Index: index, Line: at.line, Offset: at.start, Reason: reason}
}

// nextTag finds the next markup tag at or after the current position.
func (s *Scanner) nextTag() (tag, bool) {
	i := bytes.IndexByte(s.data[s.pos:], '<')
	if i < 0 {
		s.advance(len(s.data))
		return tag{}, false
	}
	start := s.pos + i
	j := bytes.IndexByte(s.data[start:], '>')
	if j < 0 {
		s.advance(len(s.data))
		return tag{}, false
	}
	end := start + j + 1

	s.advance(start)
	t := tag{start: start, end: end, line: s.line}
	s.advance(end)

	body := strings.TrimSpace(string(s.data[start+1 : end-1]))
	if strings.HasPrefix(body, "/") {
		t.closing = true
		body = body[1:]
	}
	if f := strings.Fields(body); len(f) > 0 {
		t.name = strings.ToUpper(f[0])
	}
	return t, true
}

// valueSpan returns the element value that starts at from: everything up to
// the next tag or line break, without surrounding blanks.
func (s *Scanner) valueSpan(from int) (int, int) {
	end := len(s.data)
	if k := bytes.IndexAny(s.data[from:], "<\r\n"); k >= 0 {
		end = from + k
	}
	start := from
	for start < end && isBlank(s.data[start]) {
		start++
	}
	for end > start && isBlank(s.data[end-1]) {
		end--
	}
	return start, end
}

func (s *Scanner) advance(to int) {
	if to > s.pos {
		s.line += bytes.Count(s.data[s.pos:to], []byte{'\n'})
		s.pos = to
	}
}

func isBlank(b byte) bool {
	return b == ' ' || b == '\t'
}

// ScanAll collects every record in data.
func ScanAll(data []byte) ([]Record, error) {
	var recs []Record
	s := NewScanner(data)
	for s.Next() {
		recs = append(recs, s.Record())
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return recs, nil
}

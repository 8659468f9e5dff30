// Package verify re-reads rendered output with an OFX parser to confirm the
// rewrite produced a file importers will accept.
package verify

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/aclindsa/ofxgo"

	"github.com/cleared-dev/qfxrename/internal/qfx"
)

// Error reports output that did not survive a round trip through ofxgo.
type Error struct {
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("verifying output: %s: %v", e.Reason, e.Err)
	}
	return "verifying output: " + e.Reason
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Output parses data as an OFX response and checks that its bank, credit
// card and investment bank transactions carry exactly the names of records.
func Output(data []byte, records []qfx.Record) error {
	resp, err := ofxgo.ParseResponse(bytes.NewReader(data))
	if err != nil {
		return &Error{Reason: "output is not a readable OFX response", Err: err}
	}

	got := make(map[string]int)
	total := 0
	count := func(list []ofxgo.Transaction) {
		for _, tr := range list {
			got[strings.TrimSpace(string(tr.Name))]++
			total++
		}
	}
	for _, msg := range resp.Bank {
		if m, ok := msg.(*ofxgo.StatementResponse); ok && m.BankTranList != nil {
			count(m.BankTranList.Transactions)
		}
	}
	for _, msg := range resp.CreditCard {
		if m, ok := msg.(*ofxgo.CCStatementResponse); ok && m.BankTranList != nil {
			count(m.BankTranList.Transactions)
		}
	}
	// Cash movements in investment statements sit in INVBANKTRAN aggregates.
	for _, msg := range resp.InvStmt {
		if m, ok := msg.(*ofxgo.InvStatementResponse); ok && m.InvTranList != nil {
			for _, bt := range m.InvTranList.BankTransactions {
				count(bt.Transactions)
			}
		}
	}

	want := make(map[string]int, len(records))
	for _, r := range records {
		want[strings.TrimSpace(r.Name)]++
	}

	if total != len(records) {
		return &Error{Reason: fmt.Sprintf("found %d statement transactions, expected %d", total, len(records))}
	}
	for _, name := range slices.Sorted(maps.Keys(want)) {
		if got[name] != want[name] {
			return &Error{Reason: fmt.Sprintf("name %q appears %d times, expected %d", name, got[name], want[name])}
		}
	}
	return nil
}

package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Address is a Sui account address in its 0x-prefixed hex form.
type Address string

// Digest uniquely identifies one transaction.
type Digest string

// LedgerEntry is a validated contribution.
// Created by the validator; never mutated after insertion into a Ledger.
type LedgerEntry struct {
	Sender      Address         `json:"sender"`
	Digest      Digest          `json:"digest"`
	Amount      decimal.Decimal `json:"amount"` // MIST, integer >= 0
	TimestampMs int64           `json:"timestampMs"`
}

// Ledger maps a transaction digest to its entry.
// Keys are unique: putting an existing digest replaces the entry, so a
// transaction can never be counted twice. Insertion order is irrelevant;
// every slice view is sorted deterministically.
type Ledger map[Digest]LedgerEntry

// NewLedger creates an empty ledger.
func NewLedger() Ledger {
	return make(Ledger)
}

// Put stores e under its digest. Last write wins.
func (l Ledger) Put(e LedgerEntry) {
	l[e.Digest] = e
}

// Get returns the entry stored for digest.
func (l Ledger) Get(digest Digest) (LedgerEntry, bool) {
	e, ok := l[digest]
	return e, ok
}

// Len returns the number of entries.
func (l Ledger) Len() int {
	return len(l)
}

// Total sums every entry amount.
func (l Ledger) Total() decimal.Decimal {
	total := decimal.Zero
	for _, e := range l {
		total = total.Add(e.Amount)
	}
	return total
}

// Filter returns a new ledger holding the entries keep accepts.
func (l Ledger) Filter(keep func(LedgerEntry) bool) Ledger {
	out := make(Ledger, len(l))
	for d, e := range l {
		if keep(e) {
			out[d] = e
		}
	}
	return out
}

// Entries returns all entries ordered by digest.
func (l Ledger) Entries() []LedgerEntry {
	out := l.values()
	sort.Slice(out, func(i, j int) bool {
		return out[i].Digest < out[j].Digest
	})
	return out
}

// SortedByTimestamp returns entries ordered by timestamp ASC, then digest.
func (l Ledger) SortedByTimestamp() []LedgerEntry {
	out := l.values()
	sort.Slice(out, func(i, j int) bool {
		if out[i].TimestampMs != out[j].TimestampMs {
			return out[i].TimestampMs < out[j].TimestampMs
		}
		return out[i].Digest < out[j].Digest
	})
	return out
}

// SortedByAmount returns entries ordered by amount DESC, then timestamp ASC, then digest.
func (l Ledger) SortedByAmount() []LedgerEntry {
	out := l.values()
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		if out[i].TimestampMs != out[j].TimestampMs {
			return out[i].TimestampMs < out[j].TimestampMs
		}
		return out[i].Digest < out[j].Digest
	})
	return out
}

func (l Ledger) values() []LedgerEntry {
	out := make([]LedgerEntry, 0, len(l))
	for _, e := range l {
		out = append(out, e)
	}
	return out
}

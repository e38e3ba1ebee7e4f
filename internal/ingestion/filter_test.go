package ingestion

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sui-refund-ledger/internal/domain"
)

func ledgerOf(entries ...domain.LedgerEntry) domain.Ledger {
	l := domain.NewLedger()
	for _, e := range entries {
		l.Put(e)
	}
	return l
}

func entry(digest, sender string, ts int64) domain.LedgerEntry {
	return domain.LedgerEntry{
		Sender:      domain.Address(sender),
		Digest:      domain.Digest(digest),
		Amount:      decimal.NewFromInt(100),
		TimestampMs: ts,
	}
}

func int64Ptr(v int64) *int64 { return &v }

func TestFilterByTimeRange(t *testing.T) {
	l := ledgerOf(entry("d1", "a", 100), entry("d2", "b", 200), entry("d3", "c", 300))

	tests := []struct {
		name       string
		start, end *int64
		want       []domain.Digest
	}{
		{name: "no bounds", want: []domain.Digest{"d1", "d2", "d3"}},
		{name: "inclusive both", start: int64Ptr(100), end: int64Ptr(200), want: []domain.Digest{"d1", "d2"}},
		{name: "start only", start: int64Ptr(201), want: []domain.Digest{"d3"}},
		{name: "end only", end: int64Ptr(99), want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterByTimeRange(l, tt.start, tt.end)
			var digests []domain.Digest
			for _, e := range got.Entries() {
				digests = append(digests, e.Digest)
			}
			assert.Equal(t, tt.want, digests)
		})
	}
}

func TestRepeatedSenders(t *testing.T) {
	l := ledgerOf(
		entry("d3", "b", 300),
		entry("d1", "b", 100),
		entry("d2", "a", 200),
		entry("d4", "c", 50),
		entry("d5", "c", 60),
	)

	got := RepeatedSenders(l)
	require.Len(t, got, 2)
	assert.Equal(t, domain.Address("b"), got[0].Sender)
	assert.Equal(t, []domain.Digest{"d1", "d3"}, got[0].Digests)
	assert.Equal(t, domain.Address("c"), got[1].Sender)
	assert.Equal(t, []domain.Digest{"d4", "d5"}, got[1].Digests)

	assert.Empty(t, RepeatedSenders(ledgerOf(entry("x", "a", 1))))
}

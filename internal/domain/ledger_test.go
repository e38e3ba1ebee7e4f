package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(digest, sender string, amount int64, ts int64) LedgerEntry {
	return LedgerEntry{
		Sender:      Address(sender),
		Digest:      Digest(digest),
		Amount:      decimal.NewFromInt(amount),
		TimestampMs: ts,
	}
}

func TestLedger_PutSameDigestKeepsOneEntry(t *testing.T) {
	l := NewLedger()
	l.Put(entry("d1", "0xA", 100, 1))
	l.Put(entry("d1", "0xA", 250, 2))

	require.Equal(t, 1, l.Len())
	e, ok := l.Get("d1")
	require.True(t, ok)
	assert.True(t, e.Amount.Equal(decimal.NewFromInt(250)), "last write wins")
	assert.True(t, l.Total().Equal(decimal.NewFromInt(250)))
}

func TestLedger_SortedViews(t *testing.T) {
	l := NewLedger()
	l.Put(entry("d3", "0xA", 10, 300))
	l.Put(entry("d1", "0xB", 30, 100))
	l.Put(entry("d2", "0xC", 30, 200))
	l.Put(entry("d4", "0xD", 5, 100))

	byTime := l.SortedByTimestamp()
	assert.Equal(t, []Digest{"d1", "d4", "d2", "d3"}, digests(byTime))

	byAmount := l.SortedByAmount()
	assert.Equal(t, []Digest{"d1", "d2", "d3", "d4"}, digests(byAmount))

	assert.Equal(t, []Digest{"d1", "d2", "d3", "d4"}, digests(l.Entries()))
}

func TestLedger_Filter(t *testing.T) {
	l := NewLedger()
	l.Put(entry("d1", "0xA", 10, 100))
	l.Put(entry("d2", "0xA", 20, 200))

	out := l.Filter(func(e LedgerEntry) bool { return e.TimestampMs > 150 })
	require.Equal(t, 1, out.Len())
	require.Equal(t, 2, l.Len(), "source ledger untouched")
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "1000", want: "1000"},
		{raw: "-960", want: "-960"},
		{raw: "123456789012345678901234567890", want: "123456789012345678901234567890"},
		{raw: "1.5", wantErr: true},
		{raw: "", wantErr: true},
		{raw: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseAmount(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestFormatSUI(t *testing.T) {
	assert.Equal(t, "1.5", FormatSUI(decimal.NewFromInt(1_500_000_000)))
	assert.Equal(t, "0.00000096", FormatSUI(decimal.NewFromInt(960)))
}

func digests(entries []LedgerEntry) []Digest {
	out := make([]Digest, len(entries))
	for i, e := range entries {
		out[i] = e.Digest
	}
	return out
}

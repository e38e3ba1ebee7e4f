package ingestion

import (
	"sort"

	"sui-refund-ledger/internal/domain"
)

// FilterByTimeRange keeps entries whose timestamp lies in [start, end].
// A nil bound is open.
func FilterByTimeRange(ledger domain.Ledger, start, end *int64) domain.Ledger {
	if start == nil && end == nil {
		return ledger
	}
	return ledger.Filter(func(e domain.LedgerEntry) bool {
		if start != nil && e.TimestampMs < *start {
			return false
		}
		if end != nil && e.TimestampMs > *end {
			return false
		}
		return true
	})
}

// RepeatedSender is a sender with more than one accepted transaction.
type RepeatedSender struct {
	Sender  domain.Address
	Digests []domain.Digest
}

// RepeatedSenders lists senders that contributed more than once, ordered by
// sender, each with its digests in timestamp order. Repeats are legitimate
// and are summed by aggregation; this is a diagnostic only.
func RepeatedSenders(ledger domain.Ledger) []RepeatedSender {
	bySender := make(map[domain.Address][]domain.Digest)
	for _, e := range ledger.SortedByTimestamp() {
		bySender[e.Sender] = append(bySender[e.Sender], e.Digest)
	}

	var out []RepeatedSender
	for sender, digests := range bySender {
		if len(digests) > 1 {
			out = append(out, RepeatedSender{Sender: sender, Digests: digests})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Sender < out[j].Sender
	})
	return out
}

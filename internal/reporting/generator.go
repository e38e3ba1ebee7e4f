package reporting

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"sui-refund-ledger/internal/aggregation"
	"sui-refund-ledger/internal/domain"
	"sui-refund-ledger/internal/idhash"
	"sui-refund-ledger/internal/ingestion"
	"sui-refund-ledger/internal/reconcile"
)

// Input is everything a run produced that goes into a report.
type Input struct {
	RunID        uuid.UUID
	Target       domain.Address
	Window       TimeWindow
	Ledger       domain.Ledger
	Aggregation  *aggregation.Aggregation
	Distribution aggregation.Distribution
	Stats        *ingestion.WalkStats
	Repeated     []ingestion.RepeatedSender

	PoolObjectID   string
	Reconciliation *reconcile.Result
}

// Generator produces reports from run results.
type Generator struct {
	now func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator() *Generator {
	return &Generator{
		now: func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate builds a report. The ledger and aggregation are required.
func (g *Generator) Generate(in Input) *Report {
	agg := in.Aggregation
	if agg == nil {
		agg = aggregation.Aggregate(in.Ledger)
	}

	r := &Report{
		GeneratedAt:     g.now(),
		RunID:           in.RunID,
		Target:          string(in.Target),
		Window:          in.Window,
		Summary:         summarize(in.Ledger, agg),
		Distribution:    distribution(in.Distribution),
		Walk:            walkSummary(in.Stats),
		RepeatedSenders: repeatedRows(in.Repeated),
		Entries:         entryRows(in.Ledger.Entries()),
		ByTimestamp:     entryRows(in.Ledger.SortedByTimestamp()),
		ByAmount:        entryRows(in.Ledger.SortedByAmount()),
		Contributions:   contributionRows(agg.Contributions),
	}
	if in.Reconciliation != nil {
		r.Reconciliation = reconciliationSummary(in.PoolObjectID, in.Reconciliation)
	}
	return r
}

func summarize(ledger domain.Ledger, agg *aggregation.Aggregation) LedgerSummary {
	s := LedgerSummary{
		Entries:                  ledger.Len(),
		Contributors:             len(agg.Contributions),
		LedgerTotal:              agg.LedgerTotal.String(),
		LedgerTotalSUI:           domain.FormatSUI(agg.LedgerTotal),
		AggregateTotal:           agg.AggregateTotal.String(),
		AggregateTotalSUI:        domain.FormatSUI(agg.AggregateTotal),
		Conserved:                agg.Conserved(),
		LedgerFingerprint:        idhash.LedgerFingerprint(ledger),
		ContributionsFingerprint: idhash.ContributionsFingerprint(agg.Contributions),
	}

	byTime := ledger.SortedByTimestamp()
	if len(byTime) > 0 {
		s.FirstTimestampMs = byTime[0].TimestampMs
		s.LastTimestampMs = byTime[len(byTime)-1].TimestampMs
	}
	return s
}

func distribution(d aggregation.Distribution) DistributionSummary {
	return DistributionSummary{
		BaseMist:    d.Base.String(),
		BaseSUI:     domain.FormatSUI(d.Base),
		BoostedMist: d.Boosted.String(),
		BoostedSUI:  domain.FormatSUI(d.Boosted),
		TotalMist:   d.Total.String(),
		TotalSUI:    domain.FormatSUI(d.Total),
	}
}

func walkSummary(stats *ingestion.WalkStats) *WalkSummary {
	if stats == nil {
		return nil
	}

	rows := make([]RejectionRow, 0, len(stats.Rejections))
	for reason, count := range stats.Rejections {
		rows = append(rows, RejectionRow{Reason: string(reason), Count: count})
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Reason < rows[j].Reason
	})

	return &WalkSummary{
		Pages:        stats.Pages,
		Transactions: stats.Transactions,
		Accepted:     stats.Accepted,
		Replaced:     stats.Replaced,
		Rejected:     stats.Rejected,
		Rejections:   rows,
		FinalState:   stats.FinalState.String(),
		Duration:     stats.Duration,
	}
}

func repeatedRows(repeated []ingestion.RepeatedSender) []RepeatedSenderRow {
	rows := make([]RepeatedSenderRow, 0, len(repeated))
	for _, r := range repeated {
		digests := make([]string, len(r.Digests))
		for i, d := range r.Digests {
			digests[i] = string(d)
		}
		rows = append(rows, RepeatedSenderRow{Sender: string(r.Sender), Digests: digests})
	}
	return rows
}

func entryRows(entries []domain.LedgerEntry) []EntryRow {
	rows := make([]EntryRow, len(entries))
	for i, e := range entries {
		rows[i] = EntryRow{
			Sender:          string(e.Sender),
			Digest:          string(e.Digest),
			Amount:          e.Amount.String(),
			AmountFormatted: domain.FormatSUI(e.Amount),
			TimestampMs:     e.TimestampMs,
		}
	}
	return rows
}

func contributionRows(contributions []domain.AggregatedContribution) []ContributionRow {
	rows := make([]ContributionRow, len(contributions))
	for i, c := range contributions {
		rows[i] = ContributionRow{
			Address:         string(c.Address),
			Amount:          c.Amount.String(),
			AmountFormatted: domain.FormatSUI(c.Amount),
		}
	}
	return rows
}

func reconciliationSummary(poolObjectID string, res *reconcile.Result) *ReconciliationSummary {
	return &ReconciliationSummary{
		PoolObjectID:    poolObjectID,
		TableID:         res.TableID,
		Passed:          res.Passed,
		SizeMismatch:    res.SizeMismatch,
		LedgerCount:     res.LedgerCount,
		OnChainCount:    res.OnChainCount,
		MissingOnChain:  addressStrings(res.MissingOnChain),
		MissingInLedger: addressStrings(res.MissingInLedger),
		CheckedAt:       res.CheckedAt,
	}
}

func addressStrings(addrs []domain.Address) []string {
	out := make([]string, len(addrs))
	for i, a := range addrs {
		out[i] = string(a)
	}
	return out
}

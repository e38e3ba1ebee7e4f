package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Contribution Ledger Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Run: %s\n\n", r.RunID))
	sb.WriteString(fmt.Sprintf("Target: `%s`\n\n", r.Target))
	sb.WriteString(fmt.Sprintf("Window: %s\n\n", renderWindow(r.Window)))

	// Ledger Summary
	sb.WriteString("## Ledger Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Entries | %d |\n", r.Summary.Entries))
	sb.WriteString(fmt.Sprintf("| Contributors | %d |\n", r.Summary.Contributors))
	sb.WriteString(fmt.Sprintf("| Total (not aggregated, MIST) | %s |\n", r.Summary.LedgerTotal))
	sb.WriteString(fmt.Sprintf("| Total (not aggregated, SUI) | %s |\n", r.Summary.LedgerTotalSUI))
	sb.WriteString(fmt.Sprintf("| Total (aggregated, MIST) | %s |\n", r.Summary.AggregateTotal))
	sb.WriteString(fmt.Sprintf("| Total (aggregated, SUI) | %s |\n", r.Summary.AggregateTotalSUI))
	sb.WriteString(fmt.Sprintf("| First Timestamp (ms) | %d |\n", r.Summary.FirstTimestampMs))
	sb.WriteString(fmt.Sprintf("| Last Timestamp (ms) | %d |\n", r.Summary.LastTimestampMs))
	sb.WriteString(fmt.Sprintf("| Ledger Fingerprint | `%s` |\n", r.Summary.LedgerFingerprint))
	sb.WriteString(fmt.Sprintf("| Contributions Fingerprint | `%s` |\n", r.Summary.ContributionsFingerprint))
	sb.WriteString("\n")
	if !r.Summary.Conserved {
		sb.WriteString("**Conservation check failed:** aggregated total differs from ledger total.\n\n")
	}

	// Distribution
	sb.WriteString("## Funding\n\n")
	sb.WriteString("| Amount | MIST | SUI |\n")
	sb.WriteString("|--------|------|-----|\n")
	sb.WriteString(fmt.Sprintf("| Base | %s | %s |\n", r.Distribution.BaseMist, r.Distribution.BaseSUI))
	sb.WriteString(fmt.Sprintf("| Boosted | %s | %s |\n", r.Distribution.BoostedMist, r.Distribution.BoostedSUI))
	sb.WriteString(fmt.Sprintf("| Total | %s | %s |\n", r.Distribution.TotalMist, r.Distribution.TotalSUI))
	sb.WriteString("\n")

	// Walk
	if r.Walk != nil {
		sb.WriteString("## Ingestion\n\n")
		sb.WriteString("| Metric | Value |\n")
		sb.WriteString("|--------|-------|\n")
		sb.WriteString(fmt.Sprintf("| Pages | %d |\n", r.Walk.Pages))
		sb.WriteString(fmt.Sprintf("| Transactions | %d |\n", r.Walk.Transactions))
		sb.WriteString(fmt.Sprintf("| Accepted | %d |\n", r.Walk.Accepted))
		sb.WriteString(fmt.Sprintf("| Replaced | %d |\n", r.Walk.Replaced))
		sb.WriteString(fmt.Sprintf("| Rejected | %d |\n", r.Walk.Rejected))
		sb.WriteString(fmt.Sprintf("| Final State | %s |\n", r.Walk.FinalState))
		sb.WriteString(fmt.Sprintf("| Duration | %s |\n", r.Walk.Duration))
		sb.WriteString("\n")

		if len(r.Walk.Rejections) > 0 {
			sb.WriteString("### Rejections\n\n")
			sb.WriteString("| Stage | Count |\n")
			sb.WriteString("|-------|-------|\n")
			for _, row := range r.Walk.Rejections {
				sb.WriteString(fmt.Sprintf("| %s | %d |\n", row.Reason, row.Count))
			}
			sb.WriteString("\n")
		}
	}

	// Repeated senders
	if len(r.RepeatedSenders) > 0 {
		sb.WriteString("## Repeated Senders\n\n")
		for _, rs := range r.RepeatedSenders {
			sb.WriteString(fmt.Sprintf("- `%s`: %s\n", rs.Sender, strings.Join(rs.Digests, ", ")))
		}
		sb.WriteString("\n")
	}

	// Reconciliation
	sb.WriteString("## Reconciliation\n\n")
	if r.Reconciliation == nil {
		sb.WriteString("Not performed. Funding figures are unverified.\n")
		return sb.String()
	}
	rec := r.Reconciliation
	status := "FAIL"
	if rec.Passed {
		status = "PASS"
	}
	sb.WriteString("| Check | Value |\n")
	sb.WriteString("|-------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Pool Object | `%s` |\n", rec.PoolObjectID))
	sb.WriteString(fmt.Sprintf("| Table | `%s` |\n", rec.TableID))
	sb.WriteString(fmt.Sprintf("| Aggregated Addresses | %d |\n", rec.LedgerCount))
	sb.WriteString(fmt.Sprintf("| On-chain Addresses | %d |\n", rec.OnChainCount))
	sb.WriteString(fmt.Sprintf("| Checked At | %s |\n", rec.CheckedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("| Status | %s |\n", status))
	sb.WriteString("\n")

	switch {
	case rec.Passed:
		sb.WriteString("**Address sets match.** Funding figures may be used.\n")
	case rec.SizeMismatch:
		sb.WriteString(fmt.Sprintf("**Size mismatch:** %d aggregated vs %d on chain. Set comparison skipped.\n",
			rec.LedgerCount, rec.OnChainCount))
	default:
		sb.WriteString("**Address sets differ.** Funding figures must not be used.\n\n")
		writeAddressList(&sb, "Missing on chain", rec.MissingOnChain)
		writeAddressList(&sb, "Missing in ledger", rec.MissingInLedger)
	}

	return sb.String()
}

func writeAddressList(sb *strings.Builder, title string, addrs []string) {
	if len(addrs) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf("### %s\n\n", title))
	for _, a := range addrs {
		sb.WriteString(fmt.Sprintf("- `%s`\n", a))
	}
	sb.WriteString("\n")
}

func renderWindow(w TimeWindow) string {
	if w.StartMs == nil && w.EndMs == nil {
		return "all"
	}
	start, end := "-inf", "+inf"
	if w.StartMs != nil {
		start = fmt.Sprintf("%d", *w.StartMs)
	}
	if w.EndMs != nil {
		end = fmt.Sprintf("%d", *w.EndMs)
	}
	return fmt.Sprintf("[%s, %s] ms", start, end)
}

package reporting

import (
	"fmt"
	"strings"
)

// RenderContributionsCSV renders aggregated contributions as CSV string.
func RenderContributionsCSV(rows []ContributionRow) string {
	var sb strings.Builder

	// Header
	sb.WriteString("address,amount_mist,amount_sui\n")

	// Rows
	for _, c := range rows {
		sb.WriteString(fmt.Sprintf("%s,%s,%s\n", c.Address, c.Amount, c.AmountFormatted))
	}

	return sb.String()
}

// RenderEntriesCSV renders ledger entries as CSV string.
func RenderEntriesCSV(rows []EntryRow) string {
	var sb strings.Builder

	sb.WriteString("digest,sender,amount_mist,amount_sui,timestamp_ms\n")
	for _, e := range rows {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%s,%d\n",
			e.Digest, e.Sender, e.Amount, e.AmountFormatted, e.TimestampMs))
	}

	return sb.String()
}

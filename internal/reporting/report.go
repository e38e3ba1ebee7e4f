package reporting

import (
	"time"

	"github.com/google/uuid"
)

// Report is the outcome of one ledger run.
type Report struct {
	// Metadata
	GeneratedAt time.Time
	RunID       uuid.UUID
	Target      string
	Window      TimeWindow

	Summary      LedgerSummary
	Distribution DistributionSummary

	// Nil when the ledger was not built by a page walk.
	Walk *WalkSummary

	// Senders with more than one digest, ordered by sender.
	RepeatedSenders []RepeatedSenderRow

	// Ledger views
	Entries     []EntryRow // ordered by digest
	ByTimestamp []EntryRow
	ByAmount    []EntryRow

	// Ordered by address
	Contributions []ContributionRow

	// Nil when reconciliation was not requested.
	Reconciliation *ReconciliationSummary
}

// TimeWindow is the inclusive timestamp filter applied to the ledger.
// A nil bound is open.
type TimeWindow struct {
	StartMs *int64
	EndMs   *int64
}

// LedgerSummary holds totals before and after aggregation.
type LedgerSummary struct {
	Entries           int
	Contributors      int
	LedgerTotal       string // MIST
	LedgerTotalSUI    string
	AggregateTotal    string // MIST
	AggregateTotalSUI string
	Conserved         bool
	FirstTimestampMs  int64
	LastTimestampMs   int64

	LedgerFingerprint        string
	ContributionsFingerprint string
}

// DistributionSummary holds the funding figures in MIST and SUI.
type DistributionSummary struct {
	BaseMist    string
	BaseSUI     string
	BoostedMist string
	BoostedSUI  string
	TotalMist   string
	TotalSUI    string
}

// WalkSummary describes the pagination that built the ledger.
type WalkSummary struct {
	Pages        int
	Transactions int
	Accepted     int
	Replaced     int
	Rejected     int
	Rejections   []RejectionRow
	FinalState   string
	Duration     time.Duration
}

// RejectionRow counts rejections for one validation stage.
type RejectionRow struct {
	Reason string
	Count  int
}

// RepeatedSenderRow lists the digests of a sender that contributed more than once.
type RepeatedSenderRow struct {
	Sender  string
	Digests []string
}

// EntryRow is one ledger entry as written to the JSON artifacts.
type EntryRow struct {
	Sender          string `json:"sender"`
	Digest          string `json:"digest"`
	Amount          string `json:"amount"`
	AmountFormatted string `json:"amountFormatted"`
	TimestampMs     int64  `json:"timestampMs"`
}

// ContributionRow is one aggregated contribution.
type ContributionRow struct {
	Address         string `json:"affectedAddress"`
	Amount          string `json:"amount"`
	AmountFormatted string `json:"amountFormatted"`
}

// ReconciliationSummary is the verdict against the on-chain pool table.
type ReconciliationSummary struct {
	PoolObjectID    string
	TableID         string
	Passed          bool
	SizeMismatch    bool
	LedgerCount     int
	OnChainCount    int
	MissingOnChain  []string
	MissingInLedger []string
	CheckedAt       time.Time
}

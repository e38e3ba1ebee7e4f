// Package idhash derives deterministic identifiers from ledger content.
package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"sui-refund-ledger/internal/domain"
)

// LedgerFingerprint computes SHA256 over every entry in digest order.
// Line formula: digest|sender|amount|timestamp_ms, newline terminated.
// Returns hex-encoded hash (64 characters). Two runs that built the same
// ledger produce the same fingerprint.
func LedgerFingerprint(ledger domain.Ledger) string {
	h := sha256.New()
	for _, e := range ledger.Entries() {
		fmt.Fprintf(h, "%s|%s|%s|%d\n",
			e.Digest,
			e.Sender,
			e.Amount.String(),
			e.TimestampMs,
		)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// ContributionsFingerprint computes SHA256 over address|amount lines in the
// order given; callers pass the address-sorted aggregate.
func ContributionsFingerprint(contributions []domain.AggregatedContribution) string {
	h := sha256.New()
	for _, c := range contributions {
		fmt.Fprintf(h, "%s|%s\n", c.Address, c.Amount.String())
	}
	return hex.EncodeToString(h.Sum(nil))
}

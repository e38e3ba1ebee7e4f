package reconcile

import (
	"fmt"
	"strings"

	"sui-refund-ledger/internal/domain"
)

// SchemaError reports a pool object that does not have the expected shape.
type SchemaError struct {
	ObjectID string
	Path     string
	Reason   string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("pool object %s: %s: %s", e.ObjectID, e.Path, e.Reason)
}

// SnapshotError reports an inconsistent enumeration of the on-chain table.
type SnapshotError struct {
	TableID string
	Reason  string
}

func (e *SnapshotError) Error() string {
	return fmt.Sprintf("table %s: %s", e.TableID, e.Reason)
}

// MismatchError is returned when the aggregate and the on-chain set differ.
type MismatchError struct {
	Result *Result
}

func (e *MismatchError) Error() string {
	r := e.Result
	if r.SizeMismatch {
		return fmt.Sprintf("reconciliation failed: aggregate has %d addresses, chain has %d", r.LedgerCount, r.OnChainCount)
	}
	return fmt.Sprintf("reconciliation failed: missing on chain [%s], missing in aggregate [%s]",
		joinAddresses(r.MissingOnChain), joinAddresses(r.MissingInLedger))
}

func joinAddresses(addrs []domain.Address) string {
	parts := make([]string, len(addrs))
	for i, a := range addrs {
		parts[i] = string(a)
	}
	return strings.Join(parts, ", ")
}

// Package ingestion walks the paginated transaction history of the target
// address and turns it into a validated ledger.
package ingestion

import (
	"context"
	"time"

	"sui-refund-ledger/internal/sui"
	"sui-refund-ledger/internal/validation"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	TransactionSource interface {
		QueryTransactionBlocks(ctx context.Context, query sui.TransactionBlockQuery, cursor *string, limit int, descending bool) (*sui.Page[sui.TransactionBlock], error)
	}
	TransactionValidator interface {
		Validate(tx *sui.TransactionBlock) (validation.Outcome, error)
	}
	WalkerMetrics interface {
		ObservePage(err error, items int, started time.Time)
		ObserveRejection(reason validation.Reason)
		ObserveLedgerSize(entries int)
	}
)

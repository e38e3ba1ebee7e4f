// Package reconcile checks the aggregated contributors against the set of
// addresses recorded in the refund pool on chain.
package reconcile

import (
	"context"

	"sui-refund-ledger/internal/sui"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	ObjectSource interface {
		GetObject(ctx context.Context, objectID string, opts sui.ObjectDataOptions) (*sui.ObjectResponse, error)
		GetDynamicFields(ctx context.Context, parentID string, cursor *string, limit *int) (*sui.Page[sui.DynamicFieldInfo], error)
	}
	Metrics interface {
		ObserveSnapshot(err error, addresses int)
		ObserveReconciliation(passed bool, missingOnChain, missingInLedger int)
	}
)

// Package sui provides a JSON-RPC 2.0 client for the Sui full node API.
package sui

import (
	"context"
	"time"
)

// RPC method names.
const (
	MethodQueryTransactionBlocks = "suix_queryTransactionBlocks"
	MethodGetObject              = "sui_getObject"
	MethodGetDynamicFields       = "suix_getDynamicFields"
)

// RPCClient defines the Sui RPC HTTP interface.
type RPCClient interface {
	// QueryTransactionBlocks returns one page of transactions matching query.
	// A nil cursor starts from the first page.
	QueryTransactionBlocks(ctx context.Context, query TransactionBlockQuery, cursor *string, limit int, descending bool) (*Page[TransactionBlock], error)

	// GetObject retrieves an object by ID.
	GetObject(ctx context.Context, objectID string, opts ObjectDataOptions) (*ObjectResponse, error)

	// GetDynamicFields returns one page of dynamic fields owned by parentID.
	// A nil limit lets the node pick its default page size.
	GetDynamicFields(ctx context.Context, parentID string, cursor *string, limit *int) (*Page[DynamicFieldInfo], error)
}

// Observer records the outcome of an RPC call.
type Observer interface {
	Observe(method string, err error, started time.Time)
}

type nopObserver struct{}

func (nopObserver) Observe(string, error, time.Time) {}

package stub

import (
	"context"
	"errors"

	"sui-refund-ledger/internal/sui"
)

// ErrNotFound is returned when no page or object is registered for a request.
var ErrNotFound = errors.New("not found")

// Call records one request made against the stub.
type Call struct {
	Method string
	Target string // address, object ID or parent ID
	Cursor string // "" for the first page
}

// RPCClient implements sui.RPCClient for testing. Pages are keyed by the
// cursor they answer, "" being the first page.
type RPCClient struct {
	TransactionPages  map[string]*sui.Page[sui.TransactionBlock]
	Objects           map[string]*sui.ObjectResponse
	DynamicFieldPages map[string]map[string]*sui.Page[sui.DynamicFieldInfo] // parent ID -> cursor -> page
	Calls             []Call
}

// NewRPCClient creates a new stub RPC client.
func NewRPCClient() *RPCClient {
	return &RPCClient{
		TransactionPages:  make(map[string]*sui.Page[sui.TransactionBlock]),
		Objects:           make(map[string]*sui.ObjectResponse),
		DynamicFieldPages: make(map[string]map[string]*sui.Page[sui.DynamicFieldInfo]),
	}
}

// AddDynamicFieldPage registers a page of dynamic fields for parentID.
func (c *RPCClient) AddDynamicFieldPage(parentID, cursor string, page *sui.Page[sui.DynamicFieldInfo]) {
	pages, ok := c.DynamicFieldPages[parentID]
	if !ok {
		pages = make(map[string]*sui.Page[sui.DynamicFieldInfo])
		c.DynamicFieldPages[parentID] = pages
	}
	pages[cursor] = page
}

// QueryTransactionBlocks returns the page registered for cursor.
func (c *RPCClient) QueryTransactionBlocks(
	_ context.Context,
	query sui.TransactionBlockQuery,
	cursor *string,
	_ int,
	_ bool,
) (*sui.Page[sui.TransactionBlock], error) {
	key := deref(cursor)
	c.Calls = append(c.Calls, Call{Method: sui.MethodQueryTransactionBlocks, Target: query.Filter.ToAddress, Cursor: key})

	page, ok := c.TransactionPages[key]
	if !ok {
		return nil, ErrNotFound
	}
	return page, nil
}

// GetObject returns the object registered for objectID.
func (c *RPCClient) GetObject(_ context.Context, objectID string, _ sui.ObjectDataOptions) (*sui.ObjectResponse, error) {
	c.Calls = append(c.Calls, Call{Method: sui.MethodGetObject, Target: objectID})

	obj, ok := c.Objects[objectID]
	if !ok {
		return nil, ErrNotFound
	}
	return obj, nil
}

// GetDynamicFields returns the page registered for (parentID, cursor).
func (c *RPCClient) GetDynamicFields(_ context.Context, parentID string, cursor *string, _ *int) (*sui.Page[sui.DynamicFieldInfo], error) {
	key := deref(cursor)
	c.Calls = append(c.Calls, Call{Method: sui.MethodGetDynamicFields, Target: parentID, Cursor: key})

	page, ok := c.DynamicFieldPages[parentID][key]
	if !ok {
		return nil, ErrNotFound
	}
	return page, nil
}

// CallCount returns the number of calls made for method.
func (c *RPCClient) CallCount(method string) int {
	n := 0
	for _, call := range c.Calls {
		if call.Method == method {
			n++
		}
	}
	return n
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var _ sui.RPCClient = (*RPCClient)(nil)

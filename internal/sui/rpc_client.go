package sui

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/ratelimit"
)

// Default configuration values.
const (
	DefaultTimeout     = 30 * time.Second
	DefaultMaxRetries  = 3
	DefaultRetryDelay  = 1 * time.Second
	DefaultMaxDelay    = 10 * time.Second
	DefaultBackoffMult = 2.0
)

// HTTPClient implements RPCClient using HTTP JSON-RPC 2.0.
type HTTPClient struct {
	endpoint    string
	client      *http.Client
	maxRetries  int
	retryDelay  time.Duration
	maxDelay    time.Duration
	backoffMult float64
	limiter     ratelimit.Limiter
	observer    Observer
	requestID   atomic.Uint64
}

// ClientOption configures HTTPClient.
type ClientOption func(*HTTPClient)

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.client.Timeout = d
	}
}

// WithMaxRetries sets maximum retry attempts.
func WithMaxRetries(n int) ClientOption {
	return func(c *HTTPClient) {
		c.maxRetries = n
	}
}

// WithRetryDelay sets initial retry delay.
func WithRetryDelay(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.retryDelay = d
	}
}

// WithMaxDelay sets maximum retry delay.
func WithMaxDelay(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.maxDelay = d
	}
}

// WithHTTPClient sets custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *HTTPClient) {
		c.client = client
	}
}

// WithRateLimit caps outgoing requests per second, retries included.
func WithRateLimit(rps int) ClientOption {
	return func(c *HTTPClient) {
		if rps > 0 {
			c.limiter = ratelimit.New(rps)
		}
	}
}

// WithObserver records every call outcome.
func WithObserver(o Observer) ClientOption {
	return func(c *HTTPClient) {
		if o != nil {
			c.observer = o
		}
	}
}

// NewHTTPClient creates a new Sui RPC HTTP client.
func NewHTTPClient(endpoint string, opts ...ClientOption) *HTTPClient {
	c := &HTTPClient{
		endpoint:    endpoint,
		client:      &http.Client{Timeout: DefaultTimeout},
		maxRetries:  DefaultMaxRetries,
		retryDelay:  DefaultRetryDelay,
		maxDelay:    DefaultMaxDelay,
		backoffMult: DefaultBackoffMult,
		limiter:     ratelimit.NewUnlimited(),
		observer:    nopObserver{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// rpcRequest represents a JSON-RPC 2.0 request.
type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

// rpcResponse represents a JSON-RPC 2.0 response.
type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError is a JSON-RPC 2.0 error object returned by the node.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

// newBackOff builds the retry schedule: exponential, capped at maxDelay,
// limited to maxRetries retries.
func (c *HTTPClient) newBackOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryDelay
	b.Multiplier = c.backoffMult
	b.MaxInterval = c.maxDelay
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	b.Reset()

	var retries uint64
	if c.maxRetries > 0 {
		retries = uint64(c.maxRetries)
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, retries), ctx)
}

// call performs a JSON-RPC call with retries and exponential backoff and
// returns the raw result.
func (c *HTTPClient) call(ctx context.Context, method string, params []interface{}) (json.RawMessage, error) {
	started := time.Now()
	reqBody := rpcRequest{
		JSONRPC: "2.0",
		ID:      c.requestID.Add(1),
		Method:  method,
		Params:  params,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	var result json.RawMessage
	err = backoff.Retry(func() error {
		c.limiter.Take()
		r, err := c.do(ctx, body)
		if err != nil {
			return err
		}
		result = r
		return nil
	}, c.newBackOff(ctx))

	c.observer.Observe(method, err, started)
	if err == nil {
		return result, nil
	}

	var rpcErr *RPCError
	if errors.As(err, &rpcErr) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil, err
	}
	return nil, fmt.Errorf("%s: max retries exceeded: %w", method, err)
}

// do performs one HTTP attempt. Errors wrapped in backoff.Permanent are not retried.
func (c *HTTPClient) do(ctx context.Context, body []byte) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, backoff.Permanent(ctx.Err())
		}
		return nil, fmt.Errorf("http request: %w", err)
	}

	respBody, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	// Handle rate limiting
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("rate limited (429)")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(respBody, &rpcResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	if rpcResp.Error != nil {
		// RPC errors are not retried
		return nil, backoff.Permanent(rpcResp.Error)
	}

	return rpcResp.Result, nil
}

// QueryTransactionBlocks returns one page of transactions matching query.
func (c *HTTPClient) QueryTransactionBlocks(
	ctx context.Context,
	query TransactionBlockQuery,
	cursor *string,
	limit int,
	descending bool,
) (*Page[TransactionBlock], error) {
	params := []interface{}{query, cursor, limit, descending}

	result, err := c.call(ctx, MethodQueryTransactionBlocks, params)
	if err != nil {
		return nil, err
	}
	return DecodePage[TransactionBlock](MethodQueryTransactionBlocks, cursor, result)
}

// GetObject retrieves an object by ID.
func (c *HTTPClient) GetObject(ctx context.Context, objectID string, opts ObjectDataOptions) (*ObjectResponse, error) {
	params := []interface{}{objectID, opts}

	result, err := c.call(ctx, MethodGetObject, params)
	if err != nil {
		return nil, err
	}

	var obj ObjectResponse
	if len(result) > 0 && string(result) != "null" {
		if err := json.Unmarshal(result, &obj); err != nil {
			return nil, fmt.Errorf("unmarshal %s result: %w", MethodGetObject, err)
		}
	}
	return &obj, nil
}

// GetDynamicFields returns one page of dynamic fields owned by parentID.
func (c *HTTPClient) GetDynamicFields(ctx context.Context, parentID string, cursor *string, limit *int) (*Page[DynamicFieldInfo], error) {
	params := []interface{}{parentID, cursor, limit}

	result, err := c.call(ctx, MethodGetDynamicFields, params)
	if err != nil {
		return nil, err
	}
	return DecodePage[DynamicFieldInfo](MethodGetDynamicFields, cursor, result)
}

var _ RPCClient = (*HTTPClient)(nil)

package ingestion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"sui-refund-ledger/internal/domain"
	"sui-refund-ledger/internal/sui"
	"sui-refund-ledger/internal/validation"
)

// DefaultPageSize is the page limit sent with every query.
const DefaultPageSize = 50

// ErrRepeatedCursor is returned when the node hands back the cursor that was just used.
var ErrRepeatedCursor = errors.New("repeated cursor")

// CursorError reports a pagination protocol violation.
type CursorError struct {
	Page   int
	Cursor string
	Err    error
}

func (e *CursorError) Error() string {
	return fmt.Sprintf("page %d: cursor %q: %v", e.Page, e.Cursor, e.Err)
}

func (e *CursorError) Unwrap() error {
	return e.Err
}

// State is the position of the walker in the pagination protocol.
type State int

const (
	StateFetching State = iota
	StateHasMore
	StateDone
)

func (s State) String() string {
	switch s {
	case StateFetching:
		return "fetching"
	case StateHasMore:
		return "has_more"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// WalkStats summarizes one walk.
type WalkStats struct {
	Pages        int
	Transactions int
	Accepted     int
	Replaced     int
	Rejected     int
	Rejections   map[validation.Reason]int
	FinalState   State
	Duration     time.Duration
}

// Walker fetches every transaction sent to the target and validates it.
type Walker struct {
	source     TransactionSource
	validator  TransactionValidator
	target     domain.Address
	pageSize   int
	descending bool
	metrics    WalkerMetrics
	logger     *zap.Logger
}

// WalkerOptions contains configuration for creating a Walker.
type WalkerOptions struct {
	Source    TransactionSource
	Validator TransactionValidator
	Target    domain.Address
	PageSize  int
	Ascending bool
	Metrics   WalkerMetrics
	Logger    *zap.Logger
}

// NewWalker creates a new page walker.
func NewWalker(opts WalkerOptions) *Walker {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Walker{
		source:     opts.Source,
		validator:  opts.Validator,
		target:     opts.Target,
		pageSize:   pageSize,
		descending: !opts.Ascending,
		metrics:    opts.Metrics,
		logger:     logger.Named("walker"),
	}
}

// Walk requests pages strictly in sequence until the node reports no more
// pages. Accepted transactions are keyed by digest, so a digest seen twice
// keeps the later entry. Any transport, page schema, cursor or contract
// error aborts the walk.
func (w *Walker) Walk(ctx context.Context) (domain.Ledger, *WalkStats, error) {
	started := time.Now()
	ledger := domain.NewLedger()
	stats := &WalkStats{Rejections: make(map[validation.Reason]int)}
	query := sui.ToAddressQuery(string(w.target))

	var cursor *string
	state := StateFetching
	for state != StateDone {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}

		page, err := w.fetch(ctx, query, cursor)
		if err != nil {
			return nil, stats, fmt.Errorf("fetch page %d: %w", stats.Pages+1, err)
		}
		stats.Pages++

		if err := w.consume(page.Data, ledger, stats); err != nil {
			return nil, stats, fmt.Errorf("page %d: %w", stats.Pages, err)
		}

		state, cursor, err = advance(page, cursor, stats.Pages)
		if err != nil {
			return nil, stats, err
		}
	}

	stats.FinalState = state
	stats.Duration = time.Since(started)
	if w.metrics != nil {
		w.metrics.ObserveLedgerSize(ledger.Len())
	}

	w.logger.Info("walk complete",
		zap.String("target", string(w.target)),
		zap.Int("pages", stats.Pages),
		zap.Int("transactions", stats.Transactions),
		zap.Int("accepted", stats.Accepted),
		zap.Int("rejected", stats.Rejected),
		zap.Int("entries", ledger.Len()),
		zap.Duration("duration", stats.Duration),
	)

	return ledger, stats, nil
}

func (w *Walker) fetch(ctx context.Context, query sui.TransactionBlockQuery, cursor *string) (page *sui.Page[sui.TransactionBlock], err error) {
	started := time.Now()
	defer func() {
		if w.metrics == nil {
			return
		}
		items := 0
		if page != nil {
			items = len(page.Data)
		}
		w.metrics.ObservePage(err, items, started)
	}()

	page, err = w.source.QueryTransactionBlocks(ctx, query, cursor, w.pageSize, w.descending)
	if err != nil {
		return nil, err
	}
	if page == nil {
		return nil, &sui.PageSchemaError{Method: sui.MethodQueryTransactionBlocks, Cursor: cursor, Reason: "empty page"}
	}

	w.logger.Debug("page fetched",
		zap.Stringp("cursor", cursor),
		zap.Int("items", len(page.Data)),
		zap.Bool("hasNextPage", page.HasNextPage),
	)
	return page, nil
}

func (w *Walker) consume(txs []sui.TransactionBlock, ledger domain.Ledger, stats *WalkStats) error {
	for i := range txs {
		stats.Transactions++

		outcome, err := w.validator.Validate(&txs[i])
		if err != nil {
			return err
		}

		if !outcome.Accepted() {
			stats.Rejected++
			stats.Rejections[outcome.Reason]++
			if w.metrics != nil {
				w.metrics.ObserveRejection(outcome.Reason)
			}
			w.logger.Info("transaction rejected",
				zap.String("digest", txs[i].Digest),
				zap.String("stage", string(outcome.Reason)),
				zap.String("detail", outcome.Detail),
			)
			continue
		}

		entry := *outcome.Entry
		if _, ok := ledger.Get(entry.Digest); ok {
			stats.Replaced++
			w.logger.Warn("digest seen twice, keeping later entry", zap.String("digest", string(entry.Digest)))
		}
		ledger.Put(entry)
		stats.Accepted++
	}
	return nil
}

// advance moves the cursor state machine past a fetched page.
func advance(page *sui.Page[sui.TransactionBlock], used *string, pageNo int) (State, *string, error) {
	if !page.HasNextPage {
		return StateDone, nil, nil
	}
	if page.NextCursor == nil || *page.NextCursor == "" {
		return StateDone, nil, &sui.PageSchemaError{
			Method: sui.MethodQueryTransactionBlocks,
			Cursor: used,
			Reason: "hasNextPage without nextCursor",
		}
	}

	next := *page.NextCursor
	if used != nil && *used == next {
		return StateHasMore, nil, &CursorError{Page: pageNo, Cursor: next, Err: ErrRepeatedCursor}
	}
	return StateHasMore, &next, nil
}

package reconcile

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"sui-refund-ledger/internal/domain"
	"sui-refund-ledger/internal/sui"
)

// Result is the verdict of comparing the aggregate with the on-chain set.
type Result struct {
	Passed          bool
	LedgerCount     int
	OnChainCount    int
	SizeMismatch    bool
	MissingOnChain  []domain.Address // in the aggregate, not on chain
	MissingInLedger []domain.Address // on chain, not in the aggregate
	TableID         string
	CheckedAt       time.Time
}

// Compare checks that contributions and snapshot hold the same addresses.
// A size difference fails immediately without walking the sets.
func Compare(contributions []domain.AggregatedContribution, snapshot *domain.PoolSnapshot) *Result {
	r := &Result{
		LedgerCount:  len(contributions),
		OnChainCount: snapshot.Len(),
		TableID:      snapshot.TableID,
		CheckedAt:    time.Now().UTC(),
	}

	if r.LedgerCount != r.OnChainCount {
		r.SizeMismatch = true
		return r
	}

	seen := make(map[domain.Address]struct{}, len(contributions))
	for _, c := range contributions {
		seen[c.Address] = struct{}{}
		if !snapshot.Contains(c.Address) {
			r.MissingOnChain = append(r.MissingOnChain, c.Address)
		}
	}
	for _, addr := range snapshot.SortedAddresses() {
		if _, ok := seen[addr]; !ok {
			r.MissingInLedger = append(r.MissingInLedger, addr)
		}
	}

	r.Passed = len(r.MissingOnChain) == 0 && len(r.MissingInLedger) == 0
	return r
}

// Reconciler fetches the pool's on-chain address set and compares it.
type Reconciler struct {
	source  ObjectSource
	metrics Metrics
	logger  *zap.Logger
}

// Options contains configuration for creating a Reconciler.
type Options struct {
	Source  ObjectSource
	Metrics Metrics
	Logger  *zap.Logger
}

// NewReconciler creates a new reconciler.
func NewReconciler(opts Options) *Reconciler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{
		source:  opts.Source,
		metrics: opts.Metrics,
		logger:  logger.Named("reconcile"),
	}
}

// FetchSnapshot reads the pool object and enumerates its unclaimed table.
func (r *Reconciler) FetchSnapshot(ctx context.Context, poolObjectID string) (snapshot *domain.PoolSnapshot, err error) {
	defer func() {
		if r.metrics == nil {
			return
		}
		n := 0
		if snapshot != nil {
			n = snapshot.Len()
		}
		r.metrics.ObserveSnapshot(err, n)
	}()

	obj, err := r.source.GetObject(ctx, poolObjectID, sui.FullObjectOptions())
	if err != nil {
		return nil, fmt.Errorf("get pool object %s: %w", poolObjectID, err)
	}
	if len(obj.Error) > 0 && string(obj.Error) != "null" {
		return nil, &SchemaError{ObjectID: poolObjectID, Path: "error", Reason: string(obj.Error)}
	}

	table, err := DecodePoolObject(poolObjectID, obj.Data)
	if err != nil {
		return nil, err
	}

	addresses, err := r.enumerate(ctx, table.ID)
	if err != nil {
		return nil, err
	}

	if int64(len(addresses)) != table.Size {
		return nil, &SnapshotError{
			TableID: table.ID,
			Reason:  fmt.Sprintf("enumerated %d addresses, table declares %d", len(addresses), table.Size),
		}
	}

	r.logger.Info("pool snapshot fetched",
		zap.String("pool", poolObjectID),
		zap.String("table", table.ID),
		zap.Int("addresses", len(addresses)),
	)

	return &domain.PoolSnapshot{
		PoolObjectID: poolObjectID,
		TableID:      table.ID,
		DeclaredSize: table.Size,
		Addresses:    addresses,
	}, nil
}

// enumerate walks the dynamic fields of tableID collecting key addresses.
func (r *Reconciler) enumerate(ctx context.Context, tableID string) (map[domain.Address]struct{}, error) {
	addresses := make(map[domain.Address]struct{})

	var cursor *string
	for pageNo := 1; ; pageNo++ {
		page, err := r.source.GetDynamicFields(ctx, tableID, cursor, nil)
		if err != nil {
			return nil, fmt.Errorf("table %s page %d: %w", tableID, pageNo, err)
		}
		if page == nil {
			return nil, &SnapshotError{TableID: tableID, Reason: fmt.Sprintf("page %d empty", pageNo)}
		}

		for i, item := range page.Data {
			var name string
			if err := json.Unmarshal(item.Name.Value, &name); err != nil || name == "" {
				return nil, &SnapshotError{
					TableID: tableID,
					Reason:  fmt.Sprintf("page %d item %d: name %s is not an address string", pageNo, i, string(item.Name.Value)),
				}
			}
			addr := domain.Address(name)
			if _, dup := addresses[addr]; dup {
				return nil, &SnapshotError{TableID: tableID, Reason: fmt.Sprintf("duplicate address %s", addr)}
			}
			addresses[addr] = struct{}{}
		}

		if !page.HasNextPage {
			return addresses, nil
		}
		if page.NextCursor == nil || *page.NextCursor == "" {
			return nil, &sui.PageSchemaError{Method: sui.MethodGetDynamicFields, Cursor: cursor, Reason: "hasNextPage without nextCursor"}
		}
		if cursor != nil && *cursor == *page.NextCursor {
			return nil, &SnapshotError{TableID: tableID, Reason: fmt.Sprintf("repeated cursor %q", *cursor)}
		}
		next := *page.NextCursor
		cursor = &next
	}
}

// Reconcile fetches the snapshot for poolObjectID and compares it with
// contributions. A failed comparison returns the result together with a
// *MismatchError.
func (r *Reconciler) Reconcile(ctx context.Context, poolObjectID string, contributions []domain.AggregatedContribution) (*Result, error) {
	snapshot, err := r.FetchSnapshot(ctx, poolObjectID)
	if err != nil {
		return nil, fmt.Errorf("fetch snapshot: %w", err)
	}

	result := Compare(contributions, snapshot)
	if r.metrics != nil {
		r.metrics.ObserveReconciliation(result.Passed, len(result.MissingOnChain), len(result.MissingInLedger))
	}

	if !result.Passed {
		r.logger.Error("reconciliation failed",
			zap.Int("aggregate", result.LedgerCount),
			zap.Int("onChain", result.OnChainCount),
			zap.Bool("sizeMismatch", result.SizeMismatch),
			zap.Int("missingOnChain", len(result.MissingOnChain)),
			zap.Int("missingInLedger", len(result.MissingInLedger)),
		)
		return result, &MismatchError{Result: result}
	}

	r.logger.Info("reconciliation passed", zap.Int("addresses", result.LedgerCount))
	return result, nil
}

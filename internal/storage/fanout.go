package storage

import (
	"context"
	"fmt"

	"sui-refund-ledger/internal/domain"
)

// LedgerEntryFanout writes entries to every backing store and reads from the first.
type LedgerEntryFanout struct {
	stores []LedgerEntryStore
}

// NewLedgerEntryFanout creates a fanout over stores. At least one store is required.
func NewLedgerEntryFanout(stores ...LedgerEntryStore) *LedgerEntryFanout {
	return &LedgerEntryFanout{stores: stores}
}

// UpsertBulk writes entries to each store in order and stops at the first failure.
func (f *LedgerEntryFanout) UpsertBulk(ctx context.Context, entries []domain.LedgerEntry) error {
	for i, s := range f.stores {
		if err := s.UpsertBulk(ctx, entries); err != nil {
			return fmt.Errorf("store %d: %w", i, err)
		}
	}
	return nil
}

// GetByDigest reads from the primary store.
func (f *LedgerEntryFanout) GetByDigest(ctx context.Context, digest domain.Digest) (*domain.LedgerEntry, error) {
	return f.primary().GetByDigest(ctx, digest)
}

// GetByTimeRange reads from the primary store.
func (f *LedgerEntryFanout) GetByTimeRange(ctx context.Context, start, end int64) ([]domain.LedgerEntry, error) {
	return f.primary().GetByTimeRange(ctx, start, end)
}

// GetAll reads from the primary store.
func (f *LedgerEntryFanout) GetAll(ctx context.Context) ([]domain.LedgerEntry, error) {
	return f.primary().GetAll(ctx)
}

func (f *LedgerEntryFanout) primary() LedgerEntryStore {
	return f.stores[0]
}

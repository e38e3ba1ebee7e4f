package memory

import (
	"context"
	"sort"
	"sync"

	"sui-refund-ledger/internal/domain"
	"sui-refund-ledger/internal/storage"
)

// LedgerEntryStore is an in-memory implementation of storage.LedgerEntryStore.
type LedgerEntryStore struct {
	mu   sync.RWMutex
	data map[domain.Digest]domain.LedgerEntry
}

// NewLedgerEntryStore creates a new in-memory ledger entry store.
func NewLedgerEntryStore() *LedgerEntryStore {
	return &LedgerEntryStore{
		data: make(map[domain.Digest]domain.LedgerEntry),
	}
}

// Compile-time interface check.
var _ storage.LedgerEntryStore = (*LedgerEntryStore)(nil)

// UpsertBulk writes all entries or none.
func (s *LedgerEntryStore) UpsertBulk(_ context.Context, entries []domain.LedgerEntry) error {
	for _, e := range entries {
		if err := storage.ValidateEntry(e); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range entries {
		s.data[e.Digest] = e
	}
	return nil
}

// GetByDigest retrieves an entry. Returns ErrNotFound if not exists.
func (s *LedgerEntryStore) GetByDigest(_ context.Context, digest domain.Digest) (*domain.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[digest]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &e, nil
}

// GetByTimeRange retrieves entries within [start, end] (inclusive).
func (s *LedgerEntryStore) GetByTimeRange(_ context.Context, start, end int64) ([]domain.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.LedgerEntry
	for _, e := range s.data {
		if e.TimestampMs >= start && e.TimestampMs <= end {
			out = append(out, e)
		}
	}
	sortEntries(out)
	return out, nil
}

// GetAll retrieves all entries.
func (s *LedgerEntryStore) GetAll(_ context.Context) ([]domain.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.LedgerEntry, 0, len(s.data))
	for _, e := range s.data {
		out = append(out, e)
	}
	sortEntries(out)
	return out, nil
}

func sortEntries(entries []domain.LedgerEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TimestampMs != entries[j].TimestampMs {
			return entries[i].TimestampMs < entries[j].TimestampMs
		}
		return entries[i].Digest < entries[j].Digest
	})
}

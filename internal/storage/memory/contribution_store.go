package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"sui-refund-ledger/internal/domain"
	"sui-refund-ledger/internal/storage"
)

// ContributionStore is an in-memory implementation of storage.ContributionStore.
type ContributionStore struct {
	mu   sync.RWMutex
	runs map[uuid.UUID][]domain.AggregatedContribution
}

// NewContributionStore creates a new in-memory contribution store.
func NewContributionStore() *ContributionStore {
	return &ContributionStore{
		runs: make(map[uuid.UUID][]domain.AggregatedContribution),
	}
}

// Compile-time interface check.
var _ storage.ContributionStore = (*ContributionStore)(nil)

// ReplaceRun stores a copy of contributions for runID.
func (s *ContributionStore) ReplaceRun(_ context.Context, runID uuid.UUID, contributions []domain.AggregatedContribution) error {
	if runID == uuid.Nil {
		return storage.ErrInvalidInput
	}

	stored := make([]domain.AggregatedContribution, len(contributions))
	copy(stored, contributions)
	sort.Slice(stored, func(i, j int) bool {
		return stored[i].Address < stored[j].Address
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[runID] = stored
	return nil
}

// GetByRun retrieves a run's contributions. Returns ErrNotFound for an unknown run.
func (s *ContributionStore) GetByRun(_ context.Context, runID uuid.UUID) ([]domain.AggregatedContribution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.runs[runID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	out := make([]domain.AggregatedContribution, len(stored))
	copy(out, stored)
	return out, nil
}

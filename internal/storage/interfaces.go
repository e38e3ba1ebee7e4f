package storage

import (
	"context"

	"github.com/google/uuid"

	"sui-refund-ledger/internal/domain"
)

// LedgerEntryStore persists validated ledger entries keyed by digest.
type LedgerEntryStore interface {
	// UpsertBulk writes entries; an existing digest is overwritten, matching
	// the last-write-wins rule of the in-memory ledger.
	UpsertBulk(ctx context.Context, entries []domain.LedgerEntry) error

	// GetByDigest retrieves an entry. Returns ErrNotFound if not exists.
	GetByDigest(ctx context.Context, digest domain.Digest) (*domain.LedgerEntry, error)

	// GetByTimeRange retrieves entries within [start, end] (inclusive), ordered by timestamp ASC, digest ASC.
	GetByTimeRange(ctx context.Context, start, end int64) ([]domain.LedgerEntry, error)

	// GetAll retrieves all entries ordered by timestamp ASC, digest ASC.
	GetAll(ctx context.Context) ([]domain.LedgerEntry, error)
}

// ContributionStore persists the aggregate produced by one pipeline run.
type ContributionStore interface {
	// ReplaceRun stores contributions for runID, discarding anything stored before for it.
	ReplaceRun(ctx context.Context, runID uuid.UUID, contributions []domain.AggregatedContribution) error

	// GetByRun retrieves a run's contributions ordered by address. Returns ErrNotFound for an unknown run.
	GetByRun(ctx context.Context, runID uuid.UUID) ([]domain.AggregatedContribution, error)
}

// ValidateEntry checks the fields every stored entry must carry.
func ValidateEntry(e domain.LedgerEntry) error {
	if e.Digest == "" || e.Sender == "" || e.Amount.IsNegative() {
		return ErrInvalidInput
	}
	return nil
}

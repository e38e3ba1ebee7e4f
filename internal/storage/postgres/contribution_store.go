package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"sui-refund-ledger/internal/domain"
	"sui-refund-ledger/internal/storage"
)

// ContributionStore implements storage.ContributionStore using PostgreSQL.
type ContributionStore struct {
	pool *Pool
}

// NewContributionStore creates a new ContributionStore.
func NewContributionStore(pool *Pool) *ContributionStore {
	return &ContributionStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ContributionStore = (*ContributionStore)(nil)

// ReplaceRun deletes the run's rows and inserts contributions in one transaction.
func (s *ContributionStore) ReplaceRun(ctx context.Context, runID uuid.UUID, contributions []domain.AggregatedContribution) (err error) {
	if runID == uuid.Nil {
		return storage.ErrInvalidInput
	}

	started := time.Now()
	defer func() { s.pool.observe("replace_contributions", started, err) }()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM contributions WHERE run_id = $1`, runID); err != nil {
		return fmt.Errorf("delete run contributions: %w", err)
	}
	if _, err := tx.Exec(ctx, `INSERT INTO contribution_runs (run_id) VALUES ($1) ON CONFLICT (run_id) DO NOTHING`, runID); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	rows := make([][]interface{}, len(contributions))
	for i, c := range contributions {
		rows[i] = []interface{}{runID, string(c.Address), c.Amount.String()}
	}
	if len(rows) > 0 {
		batch := &pgx.Batch{}
		for _, r := range rows {
			batch.Queue(`INSERT INTO contributions (run_id, address, amount) VALUES ($1, $2, $3::numeric)`, r...)
		}
		results := tx.SendBatch(ctx, batch)
		for range rows {
			if _, err := results.Exec(); err != nil {
				_ = results.Close()
				return fmt.Errorf("insert contribution: %w", err)
			}
		}
		if err := results.Close(); err != nil {
			return fmt.Errorf("close batch: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// GetByRun retrieves a run's contributions. Returns ErrNotFound for an unknown run.
func (s *ContributionStore) GetByRun(ctx context.Context, runID uuid.UUID) ([]domain.AggregatedContribution, error) {
	var exists bool
	if err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM contribution_runs WHERE run_id = $1)`, runID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check run: %w", err)
	}
	if !exists {
		return nil, storage.ErrNotFound
	}

	rows, err := s.pool.Query(ctx, `
		SELECT address, amount::text
		FROM contributions
		WHERE run_id = $1
		ORDER BY address ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("get contributions by run: %w", err)
	}
	defer rows.Close()

	out := []domain.AggregatedContribution{}
	for rows.Next() {
		var address, amount string
		if err := rows.Scan(&address, &amount); err != nil {
			return nil, fmt.Errorf("scan contribution: %w", err)
		}
		d, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("decode amount of %s: %w", address, err)
		}
		out = append(out, domain.AggregatedContribution{Address: domain.Address(address), Amount: d})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contributions: %w", err)
	}
	return out, nil
}

package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"sui-refund-ledger/internal/domain"
	"sui-refund-ledger/internal/storage"
)

// LedgerEntryStore implements storage.LedgerEntryStore using PostgreSQL.
type LedgerEntryStore struct {
	pool *Pool
}

// NewLedgerEntryStore creates a new LedgerEntryStore.
func NewLedgerEntryStore(pool *Pool) *LedgerEntryStore {
	return &LedgerEntryStore{pool: pool}
}

// Compile-time interface check.
var _ storage.LedgerEntryStore = (*LedgerEntryStore)(nil)

const upsertLedgerEntry = `
	INSERT INTO ledger_entries (digest, sender, amount, timestamp_ms)
	VALUES ($1, $2, $3::numeric, $4)
	ON CONFLICT (digest) DO UPDATE SET
		sender = EXCLUDED.sender,
		amount = EXCLUDED.amount,
		timestamp_ms = EXCLUDED.timestamp_ms,
		updated_at = now()
`

// UpsertBulk writes all entries in one transaction.
func (s *LedgerEntryStore) UpsertBulk(ctx context.Context, entries []domain.LedgerEntry) (err error) {
	if len(entries) == 0 {
		return nil
	}
	for _, e := range entries {
		if err := storage.ValidateEntry(e); err != nil {
			return err
		}
	}

	started := time.Now()
	defer func() { s.pool.observe("upsert_ledger_entries", started, err) }()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(upsertLedgerEntry, string(e.Digest), string(e.Sender), e.Amount.String(), e.TimestampMs)
	}

	results := tx.SendBatch(ctx, batch)
	for range entries {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return fmt.Errorf("upsert ledger entry: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// GetByDigest retrieves an entry. Returns ErrNotFound if not exists.
func (s *LedgerEntryStore) GetByDigest(ctx context.Context, digest domain.Digest) (*domain.LedgerEntry, error) {
	query := `
		SELECT digest, sender, amount::text, timestamp_ms
		FROM ledger_entries
		WHERE digest = $1
	`

	e, err := scanLedgerEntry(s.pool.QueryRow(ctx, query, string(digest)))
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get ledger entry by digest: %w", err)
	}
	return e, nil
}

// GetByTimeRange retrieves entries within [start, end] (inclusive).
func (s *LedgerEntryStore) GetByTimeRange(ctx context.Context, start, end int64) ([]domain.LedgerEntry, error) {
	query := `
		SELECT digest, sender, amount::text, timestamp_ms
		FROM ledger_entries
		WHERE timestamp_ms >= $1 AND timestamp_ms <= $2
		ORDER BY timestamp_ms ASC, digest ASC
	`

	rows, err := s.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("get ledger entries by time range: %w", err)
	}
	defer rows.Close()

	return scanLedgerEntries(rows)
}

// GetAll retrieves all entries.
func (s *LedgerEntryStore) GetAll(ctx context.Context) ([]domain.LedgerEntry, error) {
	query := `
		SELECT digest, sender, amount::text, timestamp_ms
		FROM ledger_entries
		ORDER BY timestamp_ms ASC, digest ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all ledger entries: %w", err)
	}
	defer rows.Close()

	return scanLedgerEntries(rows)
}

func scanLedgerEntry(row pgx.Row) (*domain.LedgerEntry, error) {
	var (
		e              domain.LedgerEntry
		digest, sender string
		amount         string
	)
	if err := row.Scan(&digest, &sender, &amount, &e.TimestampMs); err != nil {
		return nil, err
	}

	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("decode amount of %s: %w", digest, err)
	}
	e.Digest = domain.Digest(digest)
	e.Sender = domain.Address(sender)
	e.Amount = d
	return &e, nil
}

func scanLedgerEntries(rows pgx.Rows) ([]domain.LedgerEntry, error) {
	var out []domain.LedgerEntry
	for rows.Next() {
		e, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger entries: %w", err)
	}
	return out, nil
}

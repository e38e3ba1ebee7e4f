package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"sui-refund-ledger/internal/domain"
	"sui-refund-ledger/internal/storage"
)

// LedgerEntryStore implements storage.LedgerEntryStore using ClickHouse.
// Rows live in a ReplacingMergeTree keyed by digest; reads use FINAL so the
// row with the highest version wins.
type LedgerEntryStore struct {
	conn *Conn
	now  func() time.Time
}

// NewLedgerEntryStore creates a new LedgerEntryStore.
func NewLedgerEntryStore(conn *Conn) *LedgerEntryStore {
	return &LedgerEntryStore{conn: conn, now: time.Now}
}

// Compile-time interface check.
var _ storage.LedgerEntryStore = (*LedgerEntryStore)(nil)

// UpsertBulk appends entries as a single batch with a fresh version.
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
	defer func() { s.conn.observe("upsert_ledger_entries", started, err) }()

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO ledger_entries (digest, sender, amount, timestamp_ms, version)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	version := uint64(s.now().UnixNano())
	for i, e := range entries {
		// later entries in the same batch must win over earlier ones
		if err := batch.Append(string(e.Digest), string(e.Sender), e.Amount, e.TimestampMs, version+uint64(i)); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// GetByDigest retrieves an entry. Returns ErrNotFound if not exists.
func (s *LedgerEntryStore) GetByDigest(ctx context.Context, digest domain.Digest) (*domain.LedgerEntry, error) {
	entries, err := s.query(ctx, `
		SELECT digest, sender, amount, timestamp_ms
		FROM ledger_entries FINAL
		WHERE digest = ?
	`, string(digest))
	if err != nil {
		return nil, fmt.Errorf("get ledger entry by digest: %w", err)
	}
	if len(entries) == 0 {
		return nil, storage.ErrNotFound
	}
	return &entries[0], nil
}

// GetByTimeRange retrieves entries within [start, end] (inclusive).
func (s *LedgerEntryStore) GetByTimeRange(ctx context.Context, start, end int64) ([]domain.LedgerEntry, error) {
	entries, err := s.query(ctx, `
		SELECT digest, sender, amount, timestamp_ms
		FROM ledger_entries FINAL
		WHERE timestamp_ms >= ? AND timestamp_ms <= ?
		ORDER BY timestamp_ms ASC, digest ASC
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("get ledger entries by time range: %w", err)
	}
	return entries, nil
}

// GetAll retrieves all entries.
func (s *LedgerEntryStore) GetAll(ctx context.Context) ([]domain.LedgerEntry, error) {
	entries, err := s.query(ctx, `
		SELECT digest, sender, amount, timestamp_ms
		FROM ledger_entries FINAL
		ORDER BY timestamp_ms ASC, digest ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("get all ledger entries: %w", err)
	}
	return entries, nil
}

func (s *LedgerEntryStore) query(ctx context.Context, query string, args ...interface{}) ([]domain.LedgerEntry, error) {
	rows, err := s.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.LedgerEntry
	for rows.Next() {
		var (
			digest, sender string
			amount         decimal.Decimal
			timestampMs    int64
		)
		if err := rows.Scan(&digest, &sender, &amount, &timestampMs); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		out = append(out, domain.LedgerEntry{
			Sender:      domain.Address(sender),
			Digest:      domain.Digest(digest),
			Amount:      amount,
			TimestampMs: timestampMs,
		})
	}
	return out, rows.Err()
}

package postgres

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sui-refund-ledger/internal/domain"
	"sui-refund-ledger/internal/storage"
)

func entry(digest, sender, amount string, ts int64) domain.LedgerEntry {
	return domain.LedgerEntry{
		Sender:      domain.Address(sender),
		Digest:      domain.Digest(digest),
		Amount:      decimal.RequireFromString(amount),
		TimestampMs: ts,
	}
}

func TestLedgerEntryStore(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewLedgerEntryStore(pool)
	ctx := context.Background()

	t.Run("upsert and get", func(t *testing.T) {
		require.NoError(t, store.UpsertBulk(ctx, []domain.LedgerEntry{
			entry("d1", "0xa", "18446744073709551615", 100),
			entry("d2", "0xb", "960", 200),
		}))

		got, err := store.GetByDigest(ctx, "d1")
		require.NoError(t, err)
		assert.Equal(t, "18446744073709551615", got.Amount.String())
		assert.Equal(t, domain.Address("0xa"), got.Sender)
	})

	t.Run("last write wins", func(t *testing.T) {
		require.NoError(t, store.UpsertBulk(ctx, []domain.LedgerEntry{entry("d2", "0xb", "1000", 250)}))

		got, err := store.GetByDigest(ctx, "d2")
		require.NoError(t, err)
		assert.Equal(t, "1000", got.Amount.String())
		assert.Equal(t, int64(250), got.TimestampMs)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := store.GetByDigest(ctx, "missing")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("time range and order", func(t *testing.T) {
		got, err := store.GetByTimeRange(ctx, 0, 200)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, domain.Digest("d1"), got[0].Digest)

		all, err := store.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, domain.Digest("d1"), all[0].Digest)
		assert.Equal(t, domain.Digest("d2"), all[1].Digest)
	})

	t.Run("invalid input", func(t *testing.T) {
		err := store.UpsertBulk(ctx, []domain.LedgerEntry{entry("d9", "", "1", 1)})
		assert.ErrorIs(t, err, storage.ErrInvalidInput)
	})
}

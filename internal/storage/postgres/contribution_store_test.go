package postgres

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sui-refund-ledger/internal/domain"
	"sui-refund-ledger/internal/storage"
)

func TestContributionStore(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewContributionStore(pool)
	ctx := context.Background()
	runID := uuid.New()

	_, err := store.GetByRun(ctx, runID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, store.ReplaceRun(ctx, runID, []domain.AggregatedContribution{
		{Address: "0xb", Amount: decimal.NewFromInt(2)},
		{Address: "0xa", Amount: decimal.NewFromInt(1)},
	}))

	got, err := store.GetByRun(ctx, runID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, domain.Address("0xa"), got[0].Address)
	assert.Equal(t, "2", got[1].Amount.String())

	require.NoError(t, store.ReplaceRun(ctx, runID, nil))
	got, err = store.GetByRun(ctx, runID)
	require.NoError(t, err)
	assert.Empty(t, got)
}

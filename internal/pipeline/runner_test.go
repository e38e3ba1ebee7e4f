package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sui-refund-ledger/internal/domain"
	"sui-refund-ledger/internal/reconcile"
	"sui-refund-ledger/internal/reporting"
	"sui-refund-ledger/internal/storage/memory"
	"sui-refund-ledger/internal/sui"
	"sui-refund-ledger/internal/sui/stub"
	"sui-refund-ledger/internal/validation"
)

const (
	target  = "0x444ea5358d83d13c837e2dc7d4caa563cb764f514a86999cf5330abc2f4ca466"
	senderA = "0x0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a"
	senderB = "0x0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b"
	senderC = "0x0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c"
	poolID  = "0x82544a2f83c6ed1c1092d4b0e92837e2c3bd983228dd6529da632070b6657a97"
	tableID = "0x7d1c6a1e5b8c4f27a9e2d3b4c5a6f7e8d9c0b1a2f3e4d5c6b7a8998877665544"
)

var (
	fixedTime = time.Date(2024, 3, 19, 12, 0, 0, 0, time.UTC)
	fixedRun  = uuid.MustParse("0f8fad5b-d9cb-469f-a165-70867728950e")
)

func transfer(seed, sender, amount string, ts int64) sui.TransactionBlock {
	return *stub.Transfer{
		Seed:        seed,
		Sender:      sender,
		Target:      target,
		SenderDelta: "-" + amount,
		TargetDelta: amount,
		TimestampMs: ts,
	}.Block()
}

func strPtr(s string) *string { return &s }

// ledgerChain serves two transaction pages: A twice, B once, and one
// transfer that fails on chain.
func ledgerChain() *stub.RPCClient {
	client := stub.NewRPCClient()

	failed := transfer("failed", senderC, "700", 150)
	failed.Effects.Status.Status = "failure"

	client.TransactionPages[""] = &sui.Page[sui.TransactionBlock]{
		Data:        []sui.TransactionBlock{transfer("a-1", senderA, "1000000000", 300), failed},
		HasNextPage: true,
		NextCursor:  strPtr("c1"),
	}
	client.TransactionPages["c1"] = &sui.Page[sui.TransactionBlock]{
		Data: []sui.TransactionBlock{
			transfer("a-2", senderA, "500000000", 200),
			transfer("b-1", senderB, "250000000", 100),
		},
	}
	return client
}

type recordingMetrics struct {
	phases     map[string]string
	pages      int
	rejections map[validation.Reason]int
	ledgerSize int
	snapshots  int
	reconciled []bool
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{
		phases:     make(map[string]string),
		rejections: make(map[validation.Reason]int),
	}
}

func (m *recordingMetrics) ObservePage(error, int, time.Time)           { m.pages++ }
func (m *recordingMetrics) ObserveRejection(reason validation.Reason)   { m.rejections[reason]++ }
func (m *recordingMetrics) ObserveLedgerSize(entries int)               { m.ledgerSize = entries }
func (m *recordingMetrics) ObserveSnapshot(error, int)                  { m.snapshots++ }
func (m *recordingMetrics) ObserveReconciliation(passed bool, _, _ int) { m.reconciled = append(m.reconciled, passed) }

func (m *recordingMetrics) RecordPipelineRun(phase, status string, _ float64) {
	m.phases[phase] = status
}

func newRunner(client *stub.RPCClient, opts Options) *Runner {
	opts.Client = client
	return NewRunner(opts).WithClock(func() time.Time { return fixedTime }).WithRunID(fixedRun)
}

func TestRunner_Run_Reconciled(t *testing.T) {
	client := ledgerChain()
	client.AddPool(poolID, tableID, senderA, senderB)

	entries := memory.NewLedgerEntryStore()
	contributions := memory.NewContributionStore()
	metrics := newRecordingMetrics()
	dir := t.TempDir()

	result, err := newRunner(client, Options{
		Entries:       entries,
		Contributions: contributions,
		Metrics:       metrics,
	}).Run(context.Background(), Config{
		Target:       target,
		PoolObjectID: poolID,
		OutputDir:    dir,
	})
	require.NoError(t, err)

	assert.Equal(t, fixedRun, result.RunID)
	assert.Equal(t, 3, result.Ledger.Len())
	assert.Equal(t, 1, result.Stats.Rejected)
	assert.True(t, result.Aggregation.AggregateTotal.Equal(decimal.NewFromInt(1_750_000_000)))
	assert.True(t, result.Distribution.Boosted.Equal(decimal.NewFromInt(875_000_000)))
	assert.True(t, result.Distribution.Total.Equal(decimal.NewFromInt(2_625_000_000)))

	require.Len(t, result.Repeated, 1)
	assert.Equal(t, domain.Address(senderA), result.Repeated[0].Sender)

	require.NotNil(t, result.Reconciliation)
	assert.True(t, result.Reconciliation.Passed)

	ctx := context.Background()
	stored, err := entries.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 3)

	runContribs, err := contributions.GetByRun(ctx, fixedRun)
	require.NoError(t, err)
	require.Len(t, runContribs, 2)
	assert.Equal(t, domain.Address(senderA), runContribs[0].Address)
	assert.True(t, runContribs[0].Amount.Equal(decimal.NewFromInt(1_500_000_000)))

	assert.Len(t, result.Files, 7)
	md, err := os.ReadFile(filepath.Join(dir, reporting.FileReport))
	require.NoError(t, err)
	assert.Contains(t, string(md), "| Status | PASS |")
	assert.Contains(t, string(md), fixedRun.String())

	assert.Equal(t, "success", metrics.phases[PhaseRun])
	assert.Equal(t, "success", metrics.phases[PhaseReconcile])
	assert.Equal(t, 2, metrics.pages)
	assert.Equal(t, 1, metrics.rejections[validation.ReasonFailedStatus])
	assert.Equal(t, []bool{true}, metrics.reconciled)
}

func TestRunner_Run_MismatchStillReports(t *testing.T) {
	client := ledgerChain()
	client.AddPool(poolID, tableID, senderA, senderC)
	dir := t.TempDir()

	result, err := newRunner(client, Options{}).Run(context.Background(), Config{
		Target:       target,
		PoolObjectID: poolID,
		OutputDir:    dir,
	})

	var mismatch *reconcile.MismatchError
	require.True(t, errors.As(err, &mismatch), "got %v", err)
	require.NotNil(t, result)
	assert.False(t, result.Reconciliation.Passed)
	assert.Equal(t, []domain.Address{senderB}, result.Reconciliation.MissingOnChain)
	assert.Equal(t, []domain.Address{senderC}, result.Reconciliation.MissingInLedger)

	md, err := os.ReadFile(filepath.Join(dir, reporting.FileReport))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(md), "| Status | FAIL |"))
}

func TestRunner_Run_TimeWindow(t *testing.T) {
	start, end := int64(150), int64(250)

	result, err := newRunner(ledgerChain(), Options{}).Run(context.Background(), Config{
		Target:  target,
		StartMs: &start,
		EndMs:   &end,
	})
	require.NoError(t, err)

	require.Equal(t, 1, result.Ledger.Len())
	_, ok := result.Ledger.Get(domain.Digest(stub.Digest("a-2")))
	assert.True(t, ok)
	assert.Empty(t, result.Repeated)
	assert.Nil(t, result.Reconciliation)
	assert.Nil(t, result.Files)
	assert.Nil(t, result.Report.Reconciliation)
}

func TestRunner_Run_WalkErrorAborts(t *testing.T) {
	client := stub.NewRPCClient()
	client.TransactionPages[""] = &sui.Page[sui.TransactionBlock]{HasNextPage: true, NextCursor: strPtr("missing")}
	metrics := newRecordingMetrics()
	entries := memory.NewLedgerEntryStore()

	result, err := newRunner(client, Options{Entries: entries, Metrics: metrics}).Run(context.Background(), Config{
		Target: target,
	})
	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, stub.ErrNotFound)
	assert.Equal(t, "error", metrics.phases[PhaseWalk])
	assert.Equal(t, "error", metrics.phases[PhaseRun])

	stored, err := entries.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestRunner_Run_SnapshotErrorIsFatal(t *testing.T) {
	client := ledgerChain()

	result, err := newRunner(client, Options{}).Run(context.Background(), Config{
		Target:       target,
		PoolObjectID: poolID,
	})
	require.Error(t, err)
	assert.Nil(t, result)

	var mismatch *reconcile.MismatchError
	assert.False(t, errors.As(err, &mismatch))
}

func TestRunner_Run_RequiresTarget(t *testing.T) {
	_, err := newRunner(stub.NewRPCClient(), Options{}).Run(context.Background(), Config{})
	require.Error(t, err)
}

func TestRunner_Run_Idempotent(t *testing.T) {
	cfg := Config{Target: target}

	first, err := newRunner(ledgerChain(), Options{}).Run(context.Background(), cfg)
	require.NoError(t, err)
	second, err := newRunner(ledgerChain(), Options{}).Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, first.Report.Summary.LedgerFingerprint, second.Report.Summary.LedgerFingerprint)
	assert.Equal(t, first.Report.Summary.ContributionsFingerprint, second.Report.Summary.ContributionsFingerprint)
	assert.Equal(t,
		reporting.RenderContributionsCSV(first.Report.Contributions),
		reporting.RenderContributionsCSV(second.Report.Contributions))
}

// Package pipeline runs fetch, validate, aggregate and reconcile end to end.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sui-refund-ledger/internal/aggregation"
	"sui-refund-ledger/internal/domain"
	"sui-refund-ledger/internal/ingestion"
	"sui-refund-ledger/internal/reconcile"
	"sui-refund-ledger/internal/reporting"
	"sui-refund-ledger/internal/storage"
	"sui-refund-ledger/internal/sui"
	"sui-refund-ledger/internal/validation"
)

// Config describes one run.
type Config struct {
	Target    domain.Address
	PageSize  int
	Ascending bool

	// Inclusive timestamp window; nil bounds are open.
	StartMs *int64
	EndMs   *int64

	// Empty skips reconciliation.
	PoolObjectID string

	// Empty skips writing report files.
	OutputDir string
}

// Options configures a Runner.
type Options struct {
	Client        sui.RPCClient
	Entries       storage.LedgerEntryStore  // optional
	Contributions storage.ContributionStore // optional
	Metrics       Metrics                   // optional
	Logger        *zap.Logger
}

// RunResult holds everything one run produced.
type RunResult struct {
	RunID          uuid.UUID
	Ledger         domain.Ledger
	Stats          *ingestion.WalkStats
	Repeated       []ingestion.RepeatedSender
	Aggregation    *aggregation.Aggregation
	Distribution   aggregation.Distribution
	Reconciliation *reconcile.Result
	Report         *reporting.Report
	Files          []string
}

// Runner orchestrates a ledger run.
type Runner struct {
	client        sui.RPCClient
	entries       storage.LedgerEntryStore
	contributions storage.ContributionStore
	metrics       Metrics
	logger        *zap.Logger
	clock         func() time.Time
	newRunID      func() uuid.UUID
}

// NewRunner creates a new pipeline runner.
func NewRunner(opts Options) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		client:        opts.Client,
		entries:       opts.Entries,
		contributions: opts.Contributions,
		metrics:       opts.Metrics,
		logger:        logger.Named("pipeline"),
		clock:         func() time.Time { return time.Now().UTC() },
		newRunID:      uuid.New,
	}
}

// WithClock sets a custom clock function for deterministic output.
func (r *Runner) WithClock(clock func() time.Time) *Runner {
	r.clock = clock
	return r
}

// WithRunID fixes the run identifier instead of generating one.
func (r *Runner) WithRunID(id uuid.UUID) *Runner {
	r.newRunID = func() uuid.UUID { return id }
	return r
}

// Run walks every page for cfg.Target, aggregates the validated ledger,
// persists it, writes reports and, when a pool is configured, reconciles the
// aggregate against the on-chain table.
//
// A reconciliation mismatch returns the full result together with a
// *reconcile.MismatchError; reports are written before it is returned.
func (r *Runner) Run(ctx context.Context, cfg Config) (result *RunResult, err error) {
	started := time.Now()
	defer func() {
		r.record(PhaseRun, err, started)
	}()

	if cfg.Target == "" {
		return nil, fmt.Errorf("target address is required")
	}

	runID := r.newRunID()
	logger := r.logger.With(zap.String("runId", runID.String()))
	result = &RunResult{RunID: runID}

	// 1. Fetch and validate
	phaseStart := time.Now()
	walker := ingestion.NewWalker(ingestion.WalkerOptions{
		Source:    r.client,
		Validator: validation.New(cfg.Target),
		Target:    cfg.Target,
		PageSize:  cfg.PageSize,
		Ascending: cfg.Ascending,
		Metrics:   r.walkerMetrics(),
		Logger:    logger,
	})
	ledger, stats, err := walker.Walk(ctx)
	r.record(PhaseWalk, err, phaseStart)
	if err != nil {
		return nil, fmt.Errorf("walk transactions: %w", err)
	}
	result.Stats = stats

	// 2. Time window
	before := ledger.Len()
	ledger = ingestion.FilterByTimeRange(ledger, cfg.StartMs, cfg.EndMs)
	if dropped := before - ledger.Len(); dropped > 0 {
		logger.Info("entries outside time window dropped", zap.Int("dropped", dropped), zap.Int("kept", ledger.Len()))
	}
	result.Ledger = ledger

	// 3. Sender diagnostics
	result.Repeated = ingestion.RepeatedSenders(ledger)
	for _, rs := range result.Repeated {
		digests := make([]string, len(rs.Digests))
		for i, d := range rs.Digests {
			digests[i] = string(d)
		}
		logger.Warn("repeated sender", zap.String("sender", string(rs.Sender)), zap.Strings("digests", digests))
	}

	// 4. Aggregate
	agg := aggregation.Aggregate(ledger)
	if !agg.Conserved() {
		return nil, fmt.Errorf("aggregation not conserved: ledger %s, aggregate %s", agg.LedgerTotal, agg.AggregateTotal)
	}
	result.Aggregation = agg
	result.Distribution = aggregation.Distribute(agg.AggregateTotal)
	r.logTotals(logger, agg, result.Distribution)

	// 5. Persist
	phaseStart = time.Now()
	err = r.persist(ctx, runID, ledger, agg)
	r.record(PhasePersist, err, phaseStart)
	if err != nil {
		return nil, err
	}

	// 6. Reconcile
	var mismatch *reconcile.MismatchError
	if cfg.PoolObjectID != "" {
		phaseStart = time.Now()
		rec := reconcile.NewReconciler(reconcile.Options{
			Source:  r.client,
			Metrics: r.reconcileMetrics(),
			Logger:  logger,
		})
		res, recErr := rec.Reconcile(ctx, cfg.PoolObjectID, agg.Contributions)
		r.record(PhaseReconcile, recErr, phaseStart)
		if recErr != nil && !errors.As(recErr, &mismatch) {
			return nil, fmt.Errorf("reconcile: %w", recErr)
		}
		result.Reconciliation = res
	} else {
		logger.Warn("no pool object configured, funding figures are unverified")
	}

	// 7. Reports
	phaseStart = time.Now()
	result.Report = reporting.NewGenerator().WithClock(r.clock).Generate(reporting.Input{
		RunID:          runID,
		Target:         cfg.Target,
		Window:         reporting.TimeWindow{StartMs: cfg.StartMs, EndMs: cfg.EndMs},
		Ledger:         ledger,
		Aggregation:    agg,
		Distribution:   result.Distribution,
		Stats:          stats,
		Repeated:       result.Repeated,
		PoolObjectID:   cfg.PoolObjectID,
		Reconciliation: result.Reconciliation,
	})
	if cfg.OutputDir != "" {
		files, werr := reporting.WriteAll(cfg.OutputDir, result.Report)
		r.record(PhaseReport, werr, phaseStart)
		if werr != nil {
			return nil, fmt.Errorf("write reports: %w", werr)
		}
		result.Files = files
		logger.Info("reports written", zap.String("dir", cfg.OutputDir), zap.Int("files", len(files)))
	}

	if mismatch != nil {
		return result, mismatch
	}
	return result, nil
}

func (r *Runner) persist(ctx context.Context, runID uuid.UUID, ledger domain.Ledger, agg *aggregation.Aggregation) error {
	if r.entries != nil {
		if err := r.entries.UpsertBulk(ctx, ledger.Entries()); err != nil {
			return fmt.Errorf("persist ledger entries: %w", err)
		}
	}
	if r.contributions != nil {
		if err := r.contributions.ReplaceRun(ctx, runID, agg.Contributions); err != nil {
			return fmt.Errorf("persist contributions: %w", err)
		}
	}
	return nil
}

func (r *Runner) logTotals(logger *zap.Logger, agg *aggregation.Aggregation, dist aggregation.Distribution) {
	logger.Info("ledger totals",
		zap.Int("entries", agg.Entries),
		zap.Int("contributors", len(agg.Contributions)),
		zap.String("totalMist", agg.LedgerTotal.String()),
		zap.String("totalSui", domain.FormatSUI(agg.LedgerTotal)),
		zap.String("aggregatedMist", agg.AggregateTotal.String()),
		zap.String("aggregatedSui", domain.FormatSUI(agg.AggregateTotal)),
	)
	logger.Info("funding",
		zap.String("baseMist", dist.Base.String()),
		zap.String("baseSui", domain.FormatSUI(dist.Base)),
		zap.String("boostedMist", dist.Boosted.String()),
		zap.String("boostedSui", domain.FormatSUI(dist.Boosted)),
		zap.String("totalMist", dist.Total.String()),
		zap.String("totalSui", domain.FormatSUI(dist.Total)),
	)
}

func (r *Runner) record(phase string, err error, started time.Time) {
	if r.metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	r.metrics.RecordPipelineRun(phase, status, time.Since(started).Seconds())
}

// walkerMetrics avoids handing a nil Metrics to the walker as a non-nil interface.
func (r *Runner) walkerMetrics() ingestion.WalkerMetrics {
	if r.metrics == nil {
		return nil
	}
	return r.metrics
}

func (r *Runner) reconcileMetrics() reconcile.Metrics {
	if r.metrics == nil {
		return nil
	}
	return r.metrics
}

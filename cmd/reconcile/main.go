package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"

	"sui-refund-ledger/internal/domain"
	"sui-refund-ledger/internal/observability"
	"sui-refund-ledger/internal/pipeline"
	"sui-refund-ledger/internal/reconcile"
	pgstore "sui-refund-ledger/internal/storage/postgres"
	"sui-refund-ledger/internal/sui"
)

type config struct {
	RPCURL       string        `long:"rpc-url" env:"LEDGER_RPC_URL" description:"Sui full node JSON-RPC URL" default:"https://fullnode.mainnet.sui.io:443"`
	PoolObjectID string        `long:"pool-object-id" env:"LEDGER_POOL_OBJECT_ID" description:"refund pool object holding the unclaimed table" required:"true"`
	Target       string        `long:"target" env:"LEDGER_TARGET" description:"collection address; rebuilds the ledger before reconciling"`
	RunID        string        `long:"run-id" env:"LEDGER_RUN_ID" description:"reconcile contributions persisted by an earlier run instead of rebuilding"`
	PostgresDSN  string        `long:"postgres-dsn" env:"LEDGER_POSTGRES_DSN" description:"PostgreSQL DSN (required with --run-id)"`
	PageSize     int           `long:"page-size" env:"LEDGER_PAGE_SIZE" description:"transactions per page" default:"50"`
	StartMs      int64         `long:"start-ms" env:"LEDGER_START_MS" description:"inclusive lower timestamp bound in ms (0 = open)"`
	EndMs        int64         `long:"end-ms" env:"LEDGER_END_MS" description:"inclusive upper timestamp bound in ms (0 = open)"`
	OutputDir    string        `long:"output-dir" env:"LEDGER_OUTPUT_DIR" description:"directory for reports when rebuilding" default:"output"`
	HTTPTimeout  time.Duration `long:"http-timeout" env:"LEDGER_HTTP_TIMEOUT" description:"timeout per RPC request" default:"30s"`
	MaxRetries   int           `long:"max-retries" env:"LEDGER_MAX_RETRIES" description:"retries per RPC call" default:"3"`
	RateLimit    int           `long:"rate-limit" env:"LEDGER_RATE_LIMIT" description:"max RPC requests per second (0 = unlimited)"`
}

func main() {
	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("failed to parse flags", zap.Error(err))
	}

	if (cfg.Target == "") == (cfg.RunID == "") {
		logger.Fatal("exactly one of --target and --run-id is required")
	}

	result, err := run(ctx, cfg, logger)
	if err != nil {
		var mismatch *reconcile.MismatchError
		if errors.As(err, &mismatch) {
			logger.Error("reconciliation failed",
				zap.Strings("missingOnChain", addressStrings(mismatch.Result.MissingOnChain)),
				zap.Strings("missingInLedger", addressStrings(mismatch.Result.MissingInLedger)),
				zap.Error(err),
			)
			os.Exit(2)
		}
		logger.Fatal("reconcile failed", zap.Error(err))
	}

	logger.Info("reconciliation passed",
		zap.String("tableId", result.TableID),
		zap.Int("addresses", result.LedgerCount),
	)
}

func run(ctx context.Context, cfg config, logger *zap.Logger) (*reconcile.Result, error) {
	metrics := observability.DefaultMetrics
	client := sui.NewHTTPClient(cfg.RPCURL,
		sui.WithTimeout(cfg.HTTPTimeout),
		sui.WithMaxRetries(cfg.MaxRetries),
		sui.WithRateLimit(cfg.RateLimit),
		sui.WithObserver(metrics),
	)

	if cfg.RunID != "" {
		return reconcileStoredRun(ctx, cfg, client, metrics, logger)
	}

	result, err := pipeline.NewRunner(pipeline.Options{
		Client:  client,
		Metrics: metrics,
		Logger:  logger,
	}).Run(ctx, pipeline.Config{
		Target:       domain.Address(cfg.Target),
		PageSize:     cfg.PageSize,
		StartMs:      optionalMs(cfg.StartMs),
		EndMs:        optionalMs(cfg.EndMs),
		PoolObjectID: cfg.PoolObjectID,
		OutputDir:    cfg.OutputDir,
	})
	if err != nil {
		return nil, err
	}
	return result.Reconciliation, nil
}

func reconcileStoredRun(ctx context.Context, cfg config, client sui.RPCClient, metrics *observability.Metrics, logger *zap.Logger) (*reconcile.Result, error) {
	if cfg.PostgresDSN == "" {
		return nil, fmt.Errorf("--postgres-dsn is required with --run-id")
	}
	runID, err := uuid.Parse(cfg.RunID)
	if err != nil {
		return nil, fmt.Errorf("parse run id: %w", err)
	}

	pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}
	defer pool.Close()
	pool.WithMetrics(metrics)

	contributions, err := pgstore.NewContributionStore(pool).GetByRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("load run %s: %w", runID, err)
	}
	logger.Info("loaded stored contributions", zap.String("runId", runID.String()), zap.Int("addresses", len(contributions)))

	return reconcile.NewReconciler(reconcile.Options{
		Source:  client,
		Metrics: metrics,
		Logger:  logger,
	}).Reconcile(ctx, cfg.PoolObjectID, contributions)
}

func optionalMs(ms int64) *int64 {
	if ms == 0 {
		return nil
	}
	return &ms
}

func addressStrings(addrs []domain.Address) []string {
	out := make([]string, len(addrs))
	for i, a := range addrs {
		out[i] = string(a)
	}
	return out
}

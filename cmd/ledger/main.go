package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"

	"sui-refund-ledger/internal/domain"
	"sui-refund-ledger/internal/observability"
	"sui-refund-ledger/internal/pipeline"
	"sui-refund-ledger/internal/reconcile"
	"sui-refund-ledger/internal/storage"
	chstore "sui-refund-ledger/internal/storage/clickhouse"
	pgstore "sui-refund-ledger/internal/storage/postgres"
	"sui-refund-ledger/internal/sui"
)

type config struct {
	RPCURL        string        `long:"rpc-url" env:"LEDGER_RPC_URL" description:"Sui full node JSON-RPC URL" default:"https://fullnode.mainnet.sui.io:443"`
	Target        string        `long:"target" env:"LEDGER_TARGET" description:"collection address receiving contributions" required:"true"`
	PoolObjectID  string        `long:"pool-object-id" env:"LEDGER_POOL_OBJECT_ID" description:"refund pool object to reconcile against (optional)"`
	PageSize      int           `long:"page-size" env:"LEDGER_PAGE_SIZE" description:"transactions per page" default:"50"`
	Ascending     bool          `long:"ascending" env:"LEDGER_ASCENDING" description:"walk oldest transactions first"`
	StartMs       int64         `long:"start-ms" env:"LEDGER_START_MS" description:"inclusive lower timestamp bound in ms (0 = open)"`
	EndMs         int64         `long:"end-ms" env:"LEDGER_END_MS" description:"inclusive upper timestamp bound in ms (0 = open)"`
	OutputDir     string        `long:"output-dir" env:"LEDGER_OUTPUT_DIR" description:"directory for JSON, CSV and markdown reports" default:"output"`
	PostgresDSN   string        `long:"postgres-dsn" env:"LEDGER_POSTGRES_DSN" description:"PostgreSQL DSN for ledger entries and contributions (optional)"`
	ClickhouseDSN string        `long:"clickhouse-dsn" env:"LEDGER_CLICKHOUSE_DSN" description:"ClickHouse DSN for ledger entries (optional)"`
	HTTPTimeout   time.Duration `long:"http-timeout" env:"LEDGER_HTTP_TIMEOUT" description:"timeout per RPC request" default:"30s"`
	MaxRetries    int           `long:"max-retries" env:"LEDGER_MAX_RETRIES" description:"retries per RPC call" default:"3"`
	RateLimit     int           `long:"rate-limit" env:"LEDGER_RATE_LIMIT" description:"max RPC requests per second (0 = unlimited)"`
	MetricsAddr   string        `long:"metrics-addr" env:"LEDGER_METRICS_ADDR" description:"address for the Prometheus metrics server (empty = disabled)"`
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

	if err := run(ctx, cfg, logger); err != nil {
		var mismatch *reconcile.MismatchError
		if errors.As(err, &mismatch) {
			logger.Error("ledger does not match the on-chain pool, funding figures must not be used", zap.Error(err))
			os.Exit(2)
		}
		logger.Fatal("ledger run failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	if cfg.MetricsAddr != "" {
		startMetricsServer(ctx, cfg.MetricsAddr, logger)
	}
	metrics := observability.DefaultMetrics

	client := sui.NewHTTPClient(cfg.RPCURL,
		sui.WithTimeout(cfg.HTTPTimeout),
		sui.WithMaxRetries(cfg.MaxRetries),
		sui.WithRateLimit(cfg.RateLimit),
		sui.WithObserver(metrics),
	)

	opts := pipeline.Options{
		Client:  client,
		Metrics: metrics,
		Logger:  logger,
	}

	var entryStores []storage.LedgerEntryStore
	if cfg.PostgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
		if err != nil {
			return err
		}
		defer pool.Close()
		pool.WithMetrics(metrics)

		entryStores = append(entryStores, pgstore.NewLedgerEntryStore(pool))
		opts.Contributions = pgstore.NewContributionStore(pool)
	}
	if cfg.ClickhouseDSN != "" {
		conn, err := chstore.NewConn(ctx, cfg.ClickhouseDSN)
		if err != nil {
			return err
		}
		defer conn.Close()
		conn.WithMetrics(metrics)

		entryStores = append(entryStores, chstore.NewLedgerEntryStore(conn))
	}
	if len(entryStores) > 0 {
		opts.Entries = storage.NewLedgerEntryFanout(entryStores...)
	}

	result, err := pipeline.NewRunner(opts).Run(ctx, pipeline.Config{
		Target:       domain.Address(cfg.Target),
		PageSize:     cfg.PageSize,
		Ascending:    cfg.Ascending,
		StartMs:      optionalMs(cfg.StartMs),
		EndMs:        optionalMs(cfg.EndMs),
		PoolObjectID: cfg.PoolObjectID,
		OutputDir:    cfg.OutputDir,
	})
	if result != nil {
		logger.Info("run finished",
			zap.String("runId", result.RunID.String()),
			zap.Int("entries", result.Ledger.Len()),
			zap.Int("contributors", len(result.Aggregation.Contributions)),
			zap.String("totalMist", result.Distribution.Total.String()),
		)
	}
	if err != nil {
		return fmt.Errorf("run pipeline: %w", err)
	}
	return nil
}

func optionalMs(ms int64) *int64 {
	if ms == 0 {
		return nil
	}
	return &ms
}

func startMetricsServer(ctx context.Context, addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("starting metrics server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown metrics server", zap.Error(err))
		}
	}()
}

// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sui-refund-ledger/internal/validation"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// RPC metrics
	RPCCallsTotal  *prometheus.CounterVec
	RPCCallLatency *prometheus.HistogramVec

	// Ingestion metrics
	PagesFetched         *prometheus.CounterVec
	TransactionsSeen     prometheus.Counter
	TransactionsRejected *prometheus.CounterVec
	PageLatency          prometheus.Histogram
	LedgerEntries        prometheus.Gauge

	// Reconciliation metrics
	SnapshotsFetched     *prometheus.CounterVec
	OnChainAddresses     prometheus.Gauge
	ReconciliationsTotal *prometheus.CounterVec
	AddressesMissing     *prometheus.GaugeVec

	// Pipeline metrics
	PipelineRunsTotal *prometheus.CounterVec
	PipelineDuration  *prometheus.HistogramVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	LastSuccessfulRun prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "sui_refund_ledger"
	}

	return &Metrics{
		// RPC metrics
		RPCCallsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rpc",
			Name:      "calls_total",
			Help:      "Total number of Sui RPC calls by method and status",
		}, []string{"method", "status"}),
		RPCCallLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "rpc",
			Name:      "call_latency_seconds",
			Help:      "Sui RPC call latency in seconds, retries included",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),

		// Ingestion metrics
		PagesFetched: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "pages_fetched_total",
			Help:      "Total number of transaction pages fetched by status",
		}, []string{"status"}),
		TransactionsSeen: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "transactions_seen_total",
			Help:      "Total number of transactions received from pages",
		}),
		TransactionsRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "transactions_rejected_total",
			Help:      "Total number of transactions rejected by validation stage",
		}, []string{"stage"}),
		PageLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "page_latency_seconds",
			Help:      "Latency of fetching one transaction page in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		LedgerEntries: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "ledger_entries",
			Help:      "Number of entries in the last built ledger",
		}),

		// Reconciliation metrics
		SnapshotsFetched: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reconcile",
			Name:      "snapshots_fetched_total",
			Help:      "Total number of pool snapshots fetched by status",
		}, []string{"status"}),
		OnChainAddresses: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "reconcile",
			Name:      "onchain_addresses",
			Help:      "Number of addresses in the last pool snapshot",
		}),
		ReconciliationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reconcile",
			Name:      "runs_total",
			Help:      "Total number of reconciliations by verdict",
		}, []string{"verdict"}),
		AddressesMissing: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "reconcile",
			Name:      "addresses_missing",
			Help:      "Addresses present on one side only in the last reconciliation",
		}, []string{"side"}),

		// Pipeline metrics
		PipelineRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Total number of pipeline runs by status",
		}, []string{"phase", "status"}),
		PipelineDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "duration_seconds",
			Help:      "Pipeline execution duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}, []string{"phase"}),

		// Database metrics
		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		// Health metrics
		LastSuccessfulRun: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_run_timestamp",
			Help:      "Unix timestamp of last successful pipeline run",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// Observe records a single RPC call outcome and duration.
func (m *Metrics) Observe(method string, err error, started time.Time) {
	m.RPCCallsTotal.WithLabelValues(method, status(err)).Inc()
	m.RPCCallLatency.WithLabelValues(method).Observe(time.Since(started).Seconds())
}

// ObservePage records one transaction page fetch.
func (m *Metrics) ObservePage(err error, items int, started time.Time) {
	m.PagesFetched.WithLabelValues(status(err)).Inc()
	m.PageLatency.Observe(time.Since(started).Seconds())
	m.TransactionsSeen.Add(float64(items))
}

// ObserveRejection counts a transaction rejected at the given stage.
func (m *Metrics) ObserveRejection(reason validation.Reason) {
	m.TransactionsRejected.WithLabelValues(string(reason)).Inc()
}

// ObserveLedgerSize records the size of the built ledger.
func (m *Metrics) ObserveLedgerSize(entries int) {
	m.LedgerEntries.Set(float64(entries))
}

// ObserveSnapshot records a pool snapshot fetch.
func (m *Metrics) ObserveSnapshot(err error, addresses int) {
	m.SnapshotsFetched.WithLabelValues(status(err)).Inc()
	if err == nil {
		m.OnChainAddresses.Set(float64(addresses))
	}
}

// ObserveReconciliation records a reconciliation verdict.
func (m *Metrics) ObserveReconciliation(passed bool, missingOnChain, missingInLedger int) {
	verdict := "fail"
	if passed {
		verdict = "pass"
	}
	m.ReconciliationsTotal.WithLabelValues(verdict).Inc()
	m.AddressesMissing.WithLabelValues("onchain").Set(float64(missingOnChain))
	m.AddressesMissing.WithLabelValues("ledger").Set(float64(missingInLedger))
}

// RecordPipelineRun records a pipeline phase run.
func (m *Metrics) RecordPipelineRun(phase, status string, durationSeconds float64) {
	m.PipelineRunsTotal.WithLabelValues(phase, status).Inc()
	m.PipelineDuration.WithLabelValues(phase).Observe(durationSeconds)
	if phase == "run" && status == "success" {
		m.LastSuccessfulRun.SetToCurrentTime()
	}
}

// RecordDBQuery records database query metrics.
func (m *Metrics) RecordDBQuery(database, operation string, started time.Time, err error) {
	m.DBQueryDuration.WithLabelValues(database, operation).Observe(time.Since(started).Seconds())
	if err != nil {
		m.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}

package pipeline

import (
	"sui-refund-ledger/internal/ingestion"
	"sui-refund-ledger/internal/reconcile"
)

// Metrics receives every observation a run produces.
type Metrics interface {
	ingestion.WalkerMetrics
	reconcile.Metrics
	RecordPipelineRun(phase, status string, durationSeconds float64)
}

// Run phases reported to Metrics.
const (
	PhaseWalk      = "walk"
	PhasePersist   = "persist"
	PhaseReconcile = "reconcile"
	PhaseReport    = "report"
	PhaseRun       = "run"
)

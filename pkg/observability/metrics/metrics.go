package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "fitcomp"

// OperationMetrics records the lifecycle of service operations.
type OperationMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation, service string)
	RecordOperationSuccess(ctx context.Context, operation, service string)
	RecordOperationFailure(ctx context.Context, operation, service string)
	RecordOperationDuration(ctx context.Context, operation, service string, duration time.Duration)
}

// ScoringMetrics adds ledger write counters for the recalculation trigger.
type ScoringMetrics interface {
	OperationMetrics
	RecordReconciliation(ctx context.Context, event string, inserted, updated, deleted int)
	RecordConflictRetry(ctx context.Context, event string)
}

// StatsMetrics adds cache counters for the aggregation engine.
type StatsMetrics interface {
	OperationMetrics
	RecordCacheHit(ctx context.Context)
	RecordCacheMiss(ctx context.Context)
}

type operationMetrics struct {
	attempts  *prometheus.CounterVec
	successes *prometheus.CounterVec
	failures  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

func newOperationMetrics(reg prometheus.Registerer, subsystem string) *operationMetrics {
	labels := []string{"operation", "service"}
	m := &operationMetrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "operation_attempts_total",
			Help:      "Service operations started.",
		}, labels),
		successes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "operation_success_total",
			Help:      "Service operations completed without infrastructure error.",
		}, labels),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "operation_failures_total",
			Help:      "Service operations that returned an error or panicked.",
		}, labels),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "operation_duration_seconds",
			Help:      "Service operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, labels),
	}
	reg.MustRegister(m.attempts, m.successes, m.failures, m.duration)
	return m
}

func (m *operationMetrics) RecordOperationAttempt(_ context.Context, operation, service string) {
	m.attempts.WithLabelValues(operation, service).Inc()
}

func (m *operationMetrics) RecordOperationSuccess(_ context.Context, operation, service string) {
	m.successes.WithLabelValues(operation, service).Inc()
}

func (m *operationMetrics) RecordOperationFailure(_ context.Context, operation, service string) {
	m.failures.WithLabelValues(operation, service).Inc()
}

func (m *operationMetrics) RecordOperationDuration(_ context.Context, operation, service string, duration time.Duration) {
	m.duration.WithLabelValues(operation, service).Observe(duration.Seconds())
}

// NewOperationMetrics returns Prometheus-backed operation metrics, or a noop when reg is nil.
func NewOperationMetrics(reg prometheus.Registerer, subsystem string) OperationMetrics {
	if reg == nil {
		return NewNoop()
	}
	return newOperationMetrics(reg, subsystem)
}

type scoringMetrics struct {
	*operationMetrics
	rows      *prometheus.CounterVec
	conflicts *prometheus.CounterVec
}

// NewScoringMetrics returns Prometheus-backed scoring metrics, or a noop when reg is nil.
func NewScoringMetrics(reg prometheus.Registerer) ScoringMetrics {
	if reg == nil {
		return NewNoop()
	}
	m := &scoringMetrics{
		operationMetrics: newOperationMetrics(reg, "scoring"),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "point_rows_total",
			Help:      "Point ledger rows written by the recalculation trigger.",
		}, []string{"event", "action"}),
		conflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "conflict_retries_total",
			Help:      "Reconciliations retried after a concurrent modification.",
		}, []string{"event"}),
	}
	reg.MustRegister(m.rows, m.conflicts)
	return m
}

func (m *scoringMetrics) RecordReconciliation(_ context.Context, event string, inserted, updated, deleted int) {
	m.rows.WithLabelValues(event, "insert").Add(float64(inserted))
	m.rows.WithLabelValues(event, "update").Add(float64(updated))
	m.rows.WithLabelValues(event, "delete").Add(float64(deleted))
}

func (m *scoringMetrics) RecordConflictRetry(_ context.Context, event string) {
	m.conflicts.WithLabelValues(event).Inc()
}

type statsMetrics struct {
	*operationMetrics
	cache *prometheus.CounterVec
}

// NewStatsMetrics returns Prometheus-backed stats metrics, or a noop when reg is nil.
func NewStatsMetrics(reg prometheus.Registerer) StatsMetrics {
	if reg == nil {
		return NewNoop()
	}
	m := &statsMetrics{
		operationMetrics: newOperationMetrics(reg, "stats"),
		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stats",
			Name:      "cache_lookups_total",
			Help:      "Competition stats cache lookups by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.cache)
	return m
}

func (m *statsMetrics) RecordCacheHit(_ context.Context) {
	m.cache.WithLabelValues("hit").Inc()
}

func (m *statsMetrics) RecordCacheMiss(_ context.Context) {
	m.cache.WithLabelValues("miss").Inc()
}

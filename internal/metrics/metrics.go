// Package metrics defines Prometheus metrics for manifest-analyzer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "mfa"

// HTTP metrics.
var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})

	HealthzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "healthz_up",
		Help:      "1 if the last /healthz probe succeeded, 0 otherwise.",
	})

	ReadyzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "readyz_up",
		Help:      "1 if the last /readyz probe succeeded, 0 otherwise.",
	})

	PanicsRecoveredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_panics_recovered_total",
		Help:      "Total handler panics recovered by the HTTP server.",
	})
)

// Analysis metrics.
var (
	ManifestsAnalyzedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "manifests_analyzed_total",
		Help:      "Total number of manifests analyzed to completion.",
	})

	ManifestsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "manifests_failed_total",
		Help:      "Total number of manifest analyses that failed, by reason.",
	}, []string{"reason"})

	ItemsEnrichedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "items_enriched_total",
		Help:      "Total number of manifest items enriched.",
	})

	ItemsDegradedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "items_degraded_total",
		Help:      "Total number of enriched items with at least one fallback estimate.",
	})

	AnalysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "analysis_duration_seconds",
		Help:      "Duration of full manifest analyses in seconds.",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 14), // 50ms .. ~7m
	})

	ManifestItemsHistogram = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "manifest_items",
		Help:      "Number of valid items per analyzed manifest.",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 8), // 1 .. 16384
	})
)

// Estimator metrics.
var (
	EstimatorCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "estimator_call_duration_seconds",
		Help:      "Duration of primary estimator calls in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"subtask"})

	EstimatorErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "estimator_errors_total",
		Help:      "Total number of failed primary estimator calls.",
	}, []string{"subtask"})

	EstimatorFallbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "estimator_fallbacks_total",
		Help:      "Total number of estimates answered by the rule fallback.",
	}, []string{"subtask"})

	LLMBudgetRemaining = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "llm_daily_budget_remaining",
		Help:      "LLM calls left in the rolling 24-hour budget, -1 when unlimited.",
	})
)

// Store metrics.
var (
	StoreErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_errors_total",
		Help:      "Total number of analysis store errors, by operation.",
	}, []string{"op"})

	RetentionDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "retention_deleted_total",
		Help:      "Total number of analyses removed by the retention sweep.",
	})

	RetentionLastRunTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "retention_last_run_timestamp",
		Help:      "Unix timestamp of the last successful retention sweep.",
	})
)

// Notification metrics.
var (
	NotificationsSentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_sent_total",
		Help:      "Total number of analysis notifications delivered.",
	})

	NotificationFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_failures_total",
		Help:      "Total number of analysis notifications that failed to send.",
	})
)

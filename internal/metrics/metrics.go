// Package metrics holds the Prometheus instrumentation for the pipeline and
// the serve API.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamerules_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gamerules_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Filter Metrics
	FilterDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gamerules_filter_duration_seconds",
			Help:    "Duration of rule filter evaluations in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
	)

	FilterMatchedRules = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gamerules_filter_matched_rules",
			Help:    "Number of rules returned by a filter evaluation",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8), // 1 .. 16384
		},
	)

	// Rule Table Metrics
	RulesLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gamerules_rules_loaded",
			Help: "Number of rules in the served rule table",
		},
	)

	TransactionsLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gamerules_transactions_loaded",
			Help: "Number of transactions behind the served rule table",
		},
	)

	// Pipeline Metrics
	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gamerules_stage_duration_seconds",
			Help:    "Duration of pipeline stages in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stage"}, // "load", "encode", "mine", "process", "persist"
	)
)

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, route, status string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, status).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordFilter records one filter evaluation.
func RecordFilter(duration time.Duration, matched int) {
	FilterDuration.Observe(duration.Seconds())
	FilterMatchedRules.Observe(float64(matched))
}

// SetRuleTable records the size of the served rule table.
func SetRuleTable(rules, transactions int) {
	RulesLoaded.Set(float64(rules))
	TransactionsLoaded.Set(float64(transactions))
}

// RecordStage records the duration of a pipeline stage.
func RecordStage(stage string, duration time.Duration) {
	StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

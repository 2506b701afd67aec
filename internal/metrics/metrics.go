// Tradewinds - B2B Trade Matchmaking and Scoring Engine
// Copyright 2026 Arjun M. (arjunm-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/arjunm-dev/tradewinds

// Package metrics exposes Prometheus instrumentation for the matchmaking
// pipeline: scoring/matching throughput, model training behaviour and the
// DuckDB store.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Matching Metrics
	PairsScored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tradewinds_pairs_scored_total",
			Help: "Total number of exporter-buyer pairs scored by the matchmaking engine",
		},
	)

	MatchesUpserted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tradewinds_matches_upserted_total",
			Help: "Total number of match rows upserted into the store",
		},
	)

	// Model Metrics
	ModelTrainingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tradewinds_model_training_duration_seconds",
			Help:    "Model training duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"model"}, // "intent_exporter", "intent_buyer", "match"
	)

	IntentFallbackActivations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tradewinds_intent_fallback_activations_total",
			Help: "Times intent training fell back to the engineered composite target",
		},
		[]string{"side"}, // "exporter", "buyer"
	)

	UnknownEntitySubstitutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tradewinds_unknown_entity_substitutions_total",
			Help: "Pair rows whose exporter or buyer ID was absent at feature build time",
		},
		[]string{"kind"}, // "exporter", "buyer"
	)

	// Store Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tradewinds_duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tradewinds_duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table"},
	)
)

// RecordDBQuery records query latency and any error for one store call.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordTraining records one model training run.
func RecordTraining(model string, duration time.Duration) {
	ModelTrainingDuration.WithLabelValues(model).Observe(duration.Seconds())
}

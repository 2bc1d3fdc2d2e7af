// Package ml provides Prometheus metrics for model operations.
package ml

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ModelPredictionsTotal tracks total predictions per model type
	ModelPredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ml_predictions_total",
			Help: "Total number of predictions made",
		},
		[]string{"model_type", "cache_hit"},
	)

	// ModelPredictionLatency tracks prediction latency
	ModelPredictionLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ml_prediction_latency_seconds",
			Help:    "Prediction latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"model_type"},
	)

	// PredictionCacheHitRatio tracks cache hit ratio
	PredictionCacheHitRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ml_cache_hit_ratio",
			Help: "Prediction cache hit ratio",
		},
	)

	// ModelTrainingJobsTotal tracks training jobs
	ModelTrainingJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ml_training_jobs_total",
			Help: "Total number of training jobs",
		},
		[]string{"model_type", "status"},
	)

	// FallbackPredictionsTotal tracks rating-gap fallback predictions
	FallbackPredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ml_fallback_predictions_total",
			Help: "Total number of rating-gap fallback predictions",
		},
		[]string{"sport"},
	)
)

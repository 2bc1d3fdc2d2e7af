// Package metrics defines signal-quality metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Signal-quality counter vectors
var (
	PredictionOutcomesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "betpulse",
		Name:      "prediction_outcomes_total",
		Help:      "Total number of predictions by sport, predicted outcome and confidence bucket",
	}, []string{"sport", "outcome", "confidence_bucket"})
)

// Signal-quality histogram vectors
var (
	SignalConfidenceScore = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "betpulse",
		Name:      "signal_confidence_score",
		Help:      "Confidence scores of generated signals",
		Buckets:   []float64{0.5, 0.55, 0.6, 0.65, 0.7, 0.75, 0.8, 0.85, 0.9, 0.95, 1.0},
	}, []string{"sport"})

	SignalValueScore = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "betpulse",
		Name:      "signal_value_score",
		Help:      "Value scores of generated signals",
		Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
	}, []string{"sport"})
)

// RecordPredictionOutcome records a prediction outcome with its confidence bucket.
func RecordPredictionOutcome(sport, outcome, bucket string) {
	PredictionOutcomesTotal.WithLabelValues(sport, outcome, bucket).Inc()
}

// ObserveSignalQuality records confidence and value scores for a generated signal.
func ObserveSignalQuality(sport string, confidence, valueScore float64) {
	SignalConfidenceScore.WithLabelValues(sport).Observe(confidence)
	SignalValueScore.WithLabelValues(sport).Observe(valueScore)
}

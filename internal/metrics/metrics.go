// Package metrics provides centralized Prometheus metrics registry for the signals pipeline.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	MatchesIngestedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "betpulse",
		Name:      "matches_ingested_total",
		Help:      "Total number of matches ingested by sport and source",
	}, []string{"sport", "source"})
	PredictionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "betpulse",
		Name:      "predictions_total",
		Help:      "Total number of ensemble predictions by sport",
	}, []string{"sport"})
	SignalsGeneratedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "betpulse",
		Name:      "signals_generated_total",
		Help:      "Total number of signals generated by sport",
	}, []string{"sport"})
	SignalsPublishedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "betpulse",
		Name:      "signals_published_total",
		Help:      "Total number of signals published by sport and channel",
	}, []string{"sport", "channel"})
	SignalsSettledTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "betpulse",
		Name:      "signals_settled_total",
		Help:      "Total number of signals settled by sport and result",
	}, []string{"sport", "result"})
	CircuitBreakerTripsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "betpulse",
		Name:      "circuit_breaker_trips_total",
		Help:      "Total number of circuit breaker trips",
	})
	ModelTrainingsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "betpulse",
		Name:      "model_trainings_total",
		Help:      "Total number of model training runs by sport and outcome",
	}, []string{"sport", "outcome"})
)

// Gauge metrics
var (
	UpcomingMatches = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "betpulse",
		Name:      "upcoming_matches",
		Help:      "Number of upcoming matches per sport",
	}, []string{"sport"})
	DailySignalQuotaUsed = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "betpulse",
		Name:      "daily_signal_quota_used",
		Help:      "Signals counted against the daily quota per sport",
	}, []string{"sport"})
	SignalWinRate = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "betpulse",
		Name:      "signal_win_rate",
		Help:      "Trailing win rate of settled signals per sport",
	}, []string{"sport"})
	ActiveModels = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "betpulse",
		Name:      "active_models",
		Help:      "Number of active models per sport",
	}, []string{"sport"})
	CircuitBreakerOpen = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "betpulse",
		Name:      "circuit_breaker_open",
		Help:      "Whether the publication circuit breaker is open (1) or closed (0)",
	})
)

// Histogram metrics
var (
	AnalysisDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "betpulse",
		Name:      "analysis_duration_seconds",
		Help:      "Duration of a full analysis pass in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	PublishLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "betpulse",
		Name:      "publish_latency_seconds",
		Help:      "Latency of signal publication in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	TrainingDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "betpulse",
		Name:      "training_duration_seconds",
		Help:      "Duration of model training runs in seconds",
		Buckets:   []float64{1, 5, 10, 30, 60, 300, 600, 1800},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(MatchesIngestedTotal)
		registry.MustRegister(PredictionsTotal)
		registry.MustRegister(SignalsGeneratedTotal)
		registry.MustRegister(SignalsPublishedTotal)
		registry.MustRegister(SignalsSettledTotal)
		registry.MustRegister(CircuitBreakerTripsTotal)
		registry.MustRegister(ModelTrainingsTotal)

		// Register gauge metrics
		registry.MustRegister(UpcomingMatches)
		registry.MustRegister(DailySignalQuotaUsed)
		registry.MustRegister(SignalWinRate)
		registry.MustRegister(ActiveModels)
		registry.MustRegister(CircuitBreakerOpen)

		// Register histogram metrics
		registry.MustRegister(AnalysisDuration)
		registry.MustRegister(PublishLatency)
		registry.MustRegister(TrainingDuration)

		// Register signal quality metrics
		registry.MustRegister(SignalConfidenceScore)
		registry.MustRegister(SignalValueScore)
		registry.MustRegister(PredictionOutcomesTotal)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordMatchIngested records a match ingestion event.
func RecordMatchIngested(sport, source string) {
	MatchesIngestedTotal.WithLabelValues(sport, source).Inc()
}

// RecordPrediction records an ensemble prediction event.
func RecordPrediction(sport string) {
	PredictionsTotal.WithLabelValues(sport).Inc()
}

// RecordSignalGenerated records a signal generation event.
func RecordSignalGenerated(sport string) {
	SignalsGeneratedTotal.WithLabelValues(sport).Inc()
}

// RecordSignalPublished records a signal publication event.
func RecordSignalPublished(sport, channel string, latencySeconds float64) {
	SignalsPublishedTotal.WithLabelValues(sport, channel).Inc()
	PublishLatency.Observe(latencySeconds)
}

// RecordSignalSettled records a signal settlement event.
func RecordSignalSettled(sport, result string) {
	SignalsSettledTotal.WithLabelValues(sport, result).Inc()
}

// RecordCircuitBreakerTrip records a circuit breaker trip event.
func RecordCircuitBreakerTrip() {
	CircuitBreakerTripsTotal.Inc()
	CircuitBreakerOpen.Set(1)
}

// RecordCircuitBreakerReset records the circuit breaker closing again.
func RecordCircuitBreakerReset() {
	CircuitBreakerOpen.Set(0)
}

// RecordModelTraining records a model training run.
func RecordModelTraining(sport, outcome string, durationSeconds float64) {
	ModelTrainingsTotal.WithLabelValues(sport, outcome).Inc()
	TrainingDuration.Observe(durationSeconds)
}

// RecordAnalysisDuration records the duration of a full analysis pass.
func RecordAnalysisDuration(durationSeconds float64) {
	AnalysisDuration.Observe(durationSeconds)
}

// UpdateUpcomingMatches updates the upcoming matches gauge for a sport.
func UpdateUpcomingMatches(sport string, count float64) {
	UpcomingMatches.WithLabelValues(sport).Set(count)
}

// UpdateDailyQuotaUsed updates the daily quota gauge for a sport.
func UpdateDailyQuotaUsed(sport string, count float64) {
	DailySignalQuotaUsed.WithLabelValues(sport).Set(count)
}

// UpdateSignalWinRate updates the trailing win rate gauge for a sport.
func UpdateSignalWinRate(sport string, rate float64) {
	SignalWinRate.WithLabelValues(sport).Set(rate)
}

// UpdateActiveModels updates the active models gauge for a sport.
func UpdateActiveModels(sport string, count float64) {
	ActiveModels.WithLabelValues(sport).Set(count)
}

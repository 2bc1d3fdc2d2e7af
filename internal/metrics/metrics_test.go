package metrics

import (
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRegistry(t *testing.T) {
	// Initialize the registry
	InitRegistry()
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
}

func TestRecordSignalGenerated(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordSignalGenerated("cs2")
	})
}

func TestRecordSignalPublished(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordSignalPublished("cs2", "@cs2_signals", 0.12)
	})
}

func TestRecordAnalysisDuration(t *testing.T) {
	InitRegistry()
	durationSeconds := 0.5

	assert.NotPanics(t, func() {
		RecordAnalysisDuration(durationSeconds)
	})
}

func TestUpdateSignalWinRate(t *testing.T) {
	InitRegistry()

	tests := []struct {
		name string
		rate float64
	}{
		{
			name: "normal win rate",
			rate: 0.58,
		},
		{
			name: "zero win rate",
			rate: 0,
		},
		{
			name: "perfect win rate",
			rate: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				UpdateSignalWinRate("khl", tt.rate)
			})
		})
	}
}

func TestUpdateDailyQuotaUsed(t *testing.T) {
	InitRegistry()

	tests := []struct {
		name  string
		count float64
	}{
		{
			name:  "partial quota",
			count: 4,
		},
		{
			name:  "full quota",
			count: 10,
		},
		{
			name:  "empty quota",
			count: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				UpdateDailyQuotaUsed("cs2", tt.count)
			})
		})
	}
}

func TestRecordCircuitBreakerTrip(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordCircuitBreakerTrip()
	})
}

func TestObserveSignalQuality(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		ObserveSignalQuality("cs2", 0.74, 0.52)
	})
}

func TestMetricsHandler(t *testing.T) {
	InitRegistry()

	handler := Handler()
	assert.NotNil(t, handler)
	assert.Implements(t, (*http.Handler)(nil), handler)
}

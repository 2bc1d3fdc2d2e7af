package logger

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	if err != nil {
		return nil
	}
	return logEntry
}

func TestSignalLoggerGenerated(t *testing.T) {
	log, buf := setupTestLogger()
	signalLogger := NewSignalLogger(log)

	signalLogger.LogSignalGenerated(
		"signal_001",
		"cs2",
		"match_123",
		"team1",
		0.82,
		0.61,
	)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "signal_001", logEntry["signal_id"])
	assert.Equal(t, "signal", logEntry["component"])
}

func TestSignalLoggerSkipped(t *testing.T) {
	log, buf := setupTestLogger()
	signalLogger := NewSignalLogger(log)

	signalLogger.LogSignalSkipped("cs2", "match_123", "below_threshold")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "below_threshold", logEntry["reason"])
}

func TestSignalLoggerPublished(t *testing.T) {
	log, buf := setupTestLogger()
	signalLogger := NewSignalLogger(log)

	signalLogger.LogSignalPublished("signal_001", "khl", "@betpulse_khl", 120.5)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "signal_001", logEntry["signal_id"])
	assert.Equal(t, "@betpulse_khl", logEntry["channel"])
}

func TestSignalLoggerDailyLimit(t *testing.T) {
	log, buf := setupTestLogger()
	signalLogger := NewSignalLogger(log)

	signalLogger.LogDailyLimitReached("cs2", 10)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, float64(10), logEntry["limit"])
	assert.Equal(t, "warning", logEntry["level"])
}

func TestMLLoggerPredictionRequest(t *testing.T) {
	log, buf := setupTestLogger()
	mlLogger := NewMLLogger(log)

	mlLogger.LogMLPredictionRequest("cs2", "ensemble", 8, true, 0.45)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "ensemble", logEntry["model_type"])
	assert.Equal(t, true, logEntry["cache_hit"])
}

func TestMLLoggerEnsembleResult(t *testing.T) {
	log, buf := setupTestLogger()
	mlLogger := NewMLLogger(log)

	mlLogger.LogEnsembleResult("khl", "team2", 0.78, 2)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "team2", logEntry["label"])
	assert.Equal(t, float64(2), logEntry["models_used"])
}

func TestMLLoggerModelTraining(t *testing.T) {
	log, buf := setupTestLogger()
	mlLogger := NewMLLogger(log)

	mlLogger.LogModelTraining(
		"cs2_logistic_regression",
		120.5,
		map[string]float64{"accuracy": 0.847, "auc": 0.821},
		map[string]interface{}{"learning_rate": 0.01, "epochs": 1000},
	)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "cs2_logistic_regression", logEntry["model_name"])
}

func TestMLLoggerTrainingDataFallback(t *testing.T) {
	log, buf := setupTestLogger()
	mlLogger := NewMLLogger(log)

	mlLogger.LogTrainingDataFallback("khl", 12, 500)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, float64(12), logEntry["have_samples"])
	assert.Equal(t, float64(500), logEntry["synthetic_samples"])
}

func TestAuditLoggerSignalPublication(t *testing.T) {
	log, buf := setupTestLogger()
	auditLogger := NewAuditLogger(log)

	auditLogger.LogSignalPublication(
		"signal_001",
		"cs2",
		"@betpulse_cs2",
		"team1",
		0.82,
		time.Date(2024, 2, 3, 12, 0, 0, 0, time.UTC),
		false,
	)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "signal_001", logEntry["signal_id"])
	assert.Equal(t, false, logEntry["simulated"])
}

func TestAuditLoggerModelActivation(t *testing.T) {
	log, buf := setupTestLogger()
	auditLogger := NewAuditLogger(log)

	auditLogger.LogModelActivation(
		"model_001",
		"cs2",
		"random_forest",
		"v20240203",
		"trainer",
	)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "v20240203", logEntry["version"])
}

func TestAuditLoggerCircuitBreakerEvent(t *testing.T) {
	log, buf := setupTestLogger()
	auditLogger := NewAuditLogger(log)

	auditLogger.LogCircuitBreakerEvent(
		"OPENED",
		"max_consecutive_losses_exceeded",
		map[string]interface{}{"consecutive_losses": 6, "threshold": 5},
		"PAUSE_PUBLISHING",
	)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "OPENED", logEntry["event_type"])
}

func TestAuditLoggerDataRetentionRun(t *testing.T) {
	log, buf := setupTestLogger()
	auditLogger := NewAuditLogger(log)

	auditLogger.LogDataRetentionRun(42, 17, time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC))

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, float64(42), logEntry["deleted_matches"])
	assert.Equal(t, float64(17), logEntry["deleted_signals"])
}

func TestLoggerJSONFormat(t *testing.T) {
	log, buf := setupTestLogger()
	signalLogger := NewSignalLogger(log)

	signalLogger.LogSignalGenerated(
		"signal_001",
		"cs2",
		"match_123",
		"team1",
		0.82,
		0.61,
	)

	// Verify output is valid JSON
	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	assert.NoError(t, err)
	assert.NotEmpty(t, logEntry)
}

func BenchmarkSignalLoggerGenerated(b *testing.B) {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})
	signalLogger := NewSignalLogger(log)

	for i := 0; i < b.N; i++ {
		signalLogger.LogSignalGenerated(
			"signal_001",
			"cs2",
			"match_123",
			"team1",
			0.82,
			0.61,
		)
	}
}

func BenchmarkAuditLoggerSignalPublication(b *testing.B) {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})
	auditLogger := NewAuditLogger(log)

	for i := 0; i < b.N; i++ {
		auditLogger.LogSignalPublication(
			"signal_001",
			"cs2",
			"@betpulse_cs2",
			"team1",
			0.82,
			time.Now(),
			false,
		)
	}
}

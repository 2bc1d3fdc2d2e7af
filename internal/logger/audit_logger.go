// Package logger provides audit logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AuditLogger provides dedicated audit trail logging.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogSignalPublication logs a signal publication event.
func (al *AuditLogger) LogSignalPublication(signalID, sport, channel, outcome string, confidence float64, timestamp time.Time, simulated bool) {
	al.WithFields(logrus.Fields{
		"signal_id":  signalID,
		"sport":      sport,
		"channel":    channel,
		"outcome":    outcome,
		"confidence": confidence,
		"timestamp":  timestamp.Unix(),
		"simulated":  simulated,
	}).Info("Signal publication recorded")
}

// LogModelActivation logs activation of a model version.
func (al *AuditLogger) LogModelActivation(modelID, sport, modelType, version, activatedBy string) {
	al.WithFields(logrus.Fields{
		"model_id":     modelID,
		"sport":        sport,
		"model_type":   modelType,
		"version":      version,
		"activated_by": activatedBy,
	}).Info("Model activation recorded")
}

// LogCircuitBreakerEvent logs circuit breaker events.
func (al *AuditLogger) LogCircuitBreakerEvent(eventType, reason string, metricsSnapshot map[string]interface{}, actionTaken string) {
	al.WithFields(logrus.Fields{
		"event_type":       eventType,
		"reason":           reason,
		"metrics_snapshot": metricsSnapshot,
		"action_taken":     actionTaken,
	}).Warn("Circuit breaker event recorded")
}

// LogDataRetentionRun logs a cleanup pass over expired records.
func (al *AuditLogger) LogDataRetentionRun(deletedMatches, deletedSignals int64, cutoff time.Time) {
	al.WithFields(logrus.Fields{
		"deleted_matches": deletedMatches,
		"deleted_signals": deletedSignals,
		"cutoff":          cutoff.Format(time.RFC3339),
	}).Info("Data retention run completed")
}

// LogEmergencyShutdown logs emergency shutdown events with system state.
func (al *AuditLogger) LogEmergencyShutdown(reason string, systemState map[string]interface{}) {
	al.WithFields(logrus.Fields{
		"reason":       reason,
		"system_state": systemState,
	}).Fatal("Emergency shutdown initiated")
}

// Package logger provides signal-specific logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// SignalLogger provides dedicated logging for signal lifecycle events.
type SignalLogger struct {
	*logrus.Entry
}

// NewSignalLogger creates a new signal logger.
func NewSignalLogger(baseLogger *logrus.Logger) *SignalLogger {
	return &SignalLogger{
		Entry: baseLogger.WithField("component", "signal"),
	}
}

// LogSignalGenerated logs a newly generated signal.
func (sl *SignalLogger) LogSignalGenerated(signalID, sport, matchID, outcome string, confidence, valueScore float64) {
	sl.WithFields(logrus.Fields{
		"signal_id":   signalID,
		"sport":       sport,
		"match_id":    matchID,
		"outcome":     outcome,
		"confidence":  confidence,
		"value_score": valueScore,
	}).Info("Signal generated")
}

// LogSignalSkipped logs a match skipped by a generation gate.
func (sl *SignalLogger) LogSignalSkipped(sport, matchID, reason string) {
	sl.WithFields(logrus.Fields{
		"sport":    sport,
		"match_id": matchID,
		"reason":   reason,
	}).Debug("Signal generation skipped")
}

// LogSignalPublished logs a successful channel publication.
func (sl *SignalLogger) LogSignalPublished(signalID, sport, channel string, latencyMs float64) {
	sl.WithFields(logrus.Fields{
		"signal_id":  signalID,
		"sport":      sport,
		"channel":    channel,
		"latency_ms": latencyMs,
	}).Info("Signal published")
}

// LogSignalSettled logs a settled signal result.
func (sl *SignalLogger) LogSignalSettled(signalID, sport, result string, roi float64) {
	sl.WithFields(logrus.Fields{
		"signal_id": signalID,
		"sport":     sport,
		"result":    result,
		"roi":       roi,
	}).Info("Signal settled")
}

// LogDailyLimitReached logs the daily signal quota being hit.
func (sl *SignalLogger) LogDailyLimitReached(sport string, limit int) {
	sl.WithFields(logrus.Fields{
		"sport": sport,
		"limit": limit,
	}).Warn("Daily signal limit reached")
}

// LogCooldownActive logs a match still inside its signal cooldown.
func (sl *SignalLogger) LogCooldownActive(sport, matchID string, remaining time.Duration) {
	sl.WithFields(logrus.Fields{
		"sport":         sport,
		"match_id":      matchID,
		"remaining_sec": remaining.Seconds(),
	}).Debug("Match cooldown active")
}

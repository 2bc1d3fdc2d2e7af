package bot

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/betpulse/internal/logger"
	"github.com/yourusername/betpulse/internal/metrics"
	"github.com/yourusername/betpulse/internal/models"
)

// CircuitState represents the state of the circuit breaker
type CircuitState int

const (
	// CircuitClosed means publishing is active
	CircuitClosed CircuitState = iota
	// CircuitHalfOpen means publishing is resuming after cooldown
	CircuitHalfOpen
	// CircuitOpen means publishing is halted
	CircuitOpen
)

// String returns string representation of circuit state
func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "CLOSED"
	case CircuitHalfOpen:
		return "HALF_OPEN"
	case CircuitOpen:
		return "OPEN"
	default:
		return "UNKNOWN"
	}
}

// CircuitBreakerConfig defines circuit breaker thresholds
type CircuitBreakerConfig struct {
	MaxConsecutiveLosses int           `json:"max_consecutive_losses"`
	MinTrailingAccuracy  float64       `json:"min_trailing_accuracy"`
	MinSampleSize        int           `json:"min_sample_size"`
	CooldownPeriod       time.Duration `json:"cooldown_period"`
}

// TripCallback is called when the breaker opens
type TripCallback func(reason string) error

// CircuitBreaker halts signal publishing when live outcomes degrade
type CircuitBreaker struct {
	config            CircuitBreakerConfig
	state             CircuitState
	consecutiveLosses int
	trailingAccuracy  float64
	trailingSamples   int
	openedAt          time.Time
	mu                sync.Mutex
	logger            *logrus.Logger
	auditLogger       *logger.AuditLogger
	callbacks         []TripCallback
}

// NewCircuitBreaker creates a new outcome circuit breaker
func NewCircuitBreaker(config CircuitBreakerConfig, baseLogger *logrus.Logger, auditLogger *logger.AuditLogger) *CircuitBreaker {
	if config.CooldownPeriod <= 0 {
		config.CooldownPeriod = time.Hour
	}
	if config.MinSampleSize <= 0 {
		config.MinSampleSize = 10
	}

	return &CircuitBreaker{
		config:           config,
		state:            CircuitClosed,
		trailingAccuracy: -1,
		logger:           baseLogger,
		auditLogger:      auditLogger,
		callbacks:        make([]TripCallback, 0),
	}
}

// RecordOutcome tracks a settled signal outcome for loss streaks
func (cb *CircuitBreaker) RecordOutcome(sport, result string, confidence float64) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch result {
	case models.ResultLoss:
		cb.consecutiveLosses++

		cb.logger.WithFields(logrus.Fields{
			"sport":              sport,
			"consecutive_losses": cb.consecutiveLosses,
			"max_allowed":        cb.config.MaxConsecutiveLosses,
			"confidence":         confidence,
		}).Warn("Consecutive signal loss recorded")

		if cb.state == CircuitHalfOpen {
			cb.tripLocked(fmt.Sprintf("loss during half-open probation (%s)", sport))
			return
		}

		if cb.consecutiveLosses >= cb.config.MaxConsecutiveLosses {
			cb.tripLocked(fmt.Sprintf(
				"max consecutive losses exceeded (%d >= %d)",
				cb.consecutiveLosses, cb.config.MaxConsecutiveLosses,
			))
		}

	case models.ResultWin:
		cb.consecutiveLosses = 0
		if cb.state == CircuitHalfOpen {
			cb.closeLocked("win during half-open probation")
		}
	}
	// pushes leave the streak untouched
}

// RecordTrailingAccuracy feeds the trailing-window accuracy rollup.
// Accuracy below the configured floor trips the breaker once the sample
// size is meaningful; negative accuracy means no decided signals yet.
func (cb *CircuitBreaker) RecordTrailingAccuracy(sport string, accuracy float64, samples int) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.trailingAccuracy = accuracy
	cb.trailingSamples = samples

	if accuracy < 0 || samples < cb.config.MinSampleSize {
		return
	}

	if accuracy < cb.config.MinTrailingAccuracy && cb.state == CircuitClosed {
		cb.tripLocked(fmt.Sprintf(
			"trailing accuracy below floor (%.3f < %.3f over %d signals, %s)",
			accuracy, cb.config.MinTrailingAccuracy, samples, sport,
		))
	}
}

// AllowPublishing reports whether signal publication may proceed
func (cb *CircuitBreaker) AllowPublishing() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == CircuitOpen && time.Since(cb.openedAt) > cb.config.CooldownPeriod {
		cb.state = CircuitHalfOpen
		metrics.RecordCircuitBreakerReset()
		cb.logger.Info("Circuit breaker entering half-open state after cooldown")
		if cb.auditLogger != nil {
			cb.auditLogger.LogCircuitBreakerEvent("half_open", "cooldown elapsed",
				cb.snapshotLocked(), "publishing resumed on probation")
		}
	}

	return cb.state != CircuitOpen
}

// GetState returns current circuit state
func (cb *CircuitBreaker) GetState() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Reset manually resets circuit breaker to closed state
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.closeLocked("manual reset")
}

// RegisterTripCallback registers a callback executed when the breaker opens
func (cb *CircuitBreaker) RegisterTripCallback(callback TripCallback) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.callbacks = append(cb.callbacks, callback)
}

// Trip opens the circuit with an operator-supplied reason
func (cb *CircuitBreaker) Trip(reason string) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.tripLocked(reason)
}

func (cb *CircuitBreaker) tripLocked(reason string) {
	if cb.state == CircuitOpen {
		return
	}

	oldState := cb.state
	cb.state = CircuitOpen
	cb.openedAt = time.Now()

	metrics.RecordCircuitBreakerTrip()

	cb.logger.WithFields(logrus.Fields{
		"old_state":          oldState.String(),
		"new_state":          cb.state.String(),
		"reason":             reason,
		"consecutive_losses": cb.consecutiveLosses,
		"trailing_accuracy":  cb.trailingAccuracy,
		"cooldown_period":    cb.config.CooldownPeriod,
	}).Error("Circuit breaker tripped, publishing halted")

	if cb.auditLogger != nil {
		cb.auditLogger.LogCircuitBreakerEvent("tripped", reason,
			cb.snapshotLocked(), "publishing halted")
	}

	for i, callback := range cb.callbacks {
		if err := callback(reason); err != nil {
			cb.logger.WithFields(logrus.Fields{
				"callback_index": i,
				"error":          err.Error(),
			}).Error("Trip callback failed")
		}
	}
}

func (cb *CircuitBreaker) closeLocked(reason string) {
	if cb.state == CircuitClosed {
		return
	}

	oldState := cb.state
	cb.state = CircuitClosed
	cb.consecutiveLosses = 0

	metrics.RecordCircuitBreakerReset()

	cb.logger.WithFields(logrus.Fields{
		"old_state": oldState.String(),
		"reason":    reason,
	}).Info("Circuit breaker closed")

	if cb.auditLogger != nil {
		cb.auditLogger.LogCircuitBreakerEvent("closed", reason,
			cb.snapshotLocked(), "publishing resumed")
	}
}

func (cb *CircuitBreaker) snapshotLocked() map[string]interface{} {
	return map[string]interface{}{
		"state":              cb.state.String(),
		"consecutive_losses": cb.consecutiveLosses,
		"trailing_accuracy":  cb.trailingAccuracy,
		"trailing_samples":   cb.trailingSamples,
	}
}

package bot

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/yourusername/betpulse/internal/models"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testBreaker(maxLosses int, cooldown time.Duration) *CircuitBreaker {
	return NewCircuitBreaker(CircuitBreakerConfig{
		MaxConsecutiveLosses: maxLosses,
		MinTrailingAccuracy:  0.45,
		MinSampleSize:        10,
		CooldownPeriod:       cooldown,
	}, testLogger(), nil)
}

func TestCircuitBreakerTripsOnConsecutiveLosses(t *testing.T) {
	cb := testBreaker(3, time.Hour)

	cb.RecordOutcome("cs2", models.ResultLoss, 0.75)
	cb.RecordOutcome("cs2", models.ResultLoss, 0.72)
	assert.Equal(t, CircuitClosed, cb.GetState())
	assert.True(t, cb.AllowPublishing())

	cb.RecordOutcome("khl", models.ResultLoss, 0.71)
	assert.Equal(t, CircuitOpen, cb.GetState())
	assert.False(t, cb.AllowPublishing())
}

func TestCircuitBreakerWinResetsStreak(t *testing.T) {
	cb := testBreaker(3, time.Hour)

	cb.RecordOutcome("cs2", models.ResultLoss, 0.75)
	cb.RecordOutcome("cs2", models.ResultLoss, 0.75)
	cb.RecordOutcome("cs2", models.ResultWin, 0.80)
	cb.RecordOutcome("cs2", models.ResultLoss, 0.75)
	cb.RecordOutcome("cs2", models.ResultLoss, 0.75)

	assert.Equal(t, CircuitClosed, cb.GetState())
}

func TestCircuitBreakerPushLeavesStreakUntouched(t *testing.T) {
	cb := testBreaker(3, time.Hour)

	cb.RecordOutcome("khl", models.ResultLoss, 0.75)
	cb.RecordOutcome("khl", models.ResultLoss, 0.75)
	cb.RecordOutcome("khl", models.ResultPush, 0.75)
	assert.Equal(t, CircuitClosed, cb.GetState())

	cb.RecordOutcome("khl", models.ResultLoss, 0.75)
	assert.Equal(t, CircuitOpen, cb.GetState())
}

func TestCircuitBreakerTripsOnTrailingAccuracy(t *testing.T) {
	cb := testBreaker(5, time.Hour)

	// Below sample floor: no trip yet
	cb.RecordTrailingAccuracy("cs2", 0.30, 5)
	assert.Equal(t, CircuitClosed, cb.GetState())

	// No decided signals: sentinel accuracy ignored
	cb.RecordTrailingAccuracy("cs2", -1, 20)
	assert.Equal(t, CircuitClosed, cb.GetState())

	cb.RecordTrailingAccuracy("cs2", 0.30, 20)
	assert.Equal(t, CircuitOpen, cb.GetState())
}

func TestCircuitBreakerHalfOpenProbation(t *testing.T) {
	cb := testBreaker(2, 10*time.Millisecond)

	cb.RecordOutcome("cs2", models.ResultLoss, 0.75)
	cb.RecordOutcome("cs2", models.ResultLoss, 0.75)
	assert.Equal(t, CircuitOpen, cb.GetState())
	assert.False(t, cb.AllowPublishing())

	time.Sleep(20 * time.Millisecond)

	// Cooldown elapsed: publishing resumes on probation
	assert.True(t, cb.AllowPublishing())
	assert.Equal(t, CircuitHalfOpen, cb.GetState())

	// A loss during probation re-opens immediately
	cb.RecordOutcome("cs2", models.ResultLoss, 0.70)
	assert.Equal(t, CircuitOpen, cb.GetState())
}

func TestCircuitBreakerHalfOpenClosesOnWin(t *testing.T) {
	cb := testBreaker(2, 10*time.Millisecond)

	cb.Trip("operator test")
	assert.Equal(t, CircuitOpen, cb.GetState())

	time.Sleep(20 * time.Millisecond)
	assert.True(t, cb.AllowPublishing())

	cb.RecordOutcome("cs2", models.ResultWin, 0.80)
	assert.Equal(t, CircuitClosed, cb.GetState())
}

func TestCircuitBreakerTripCallback(t *testing.T) {
	cb := testBreaker(1, time.Hour)

	var gotReason string
	cb.RegisterTripCallback(func(reason string) error {
		gotReason = reason
		return nil
	})

	cb.RecordOutcome("cs2", models.ResultLoss, 0.75)
	assert.Equal(t, CircuitOpen, cb.GetState())
	assert.Contains(t, gotReason, "max consecutive losses")
}

func TestCircuitBreakerManualReset(t *testing.T) {
	cb := testBreaker(1, time.Hour)

	cb.RecordOutcome("cs2", models.ResultLoss, 0.75)
	assert.Equal(t, CircuitOpen, cb.GetState())

	cb.Reset()
	assert.Equal(t, CircuitClosed, cb.GetState())
	assert.True(t, cb.AllowPublishing())
}

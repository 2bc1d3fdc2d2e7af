// Package signal gates ensemble predictions into persisted betting signals.
package signal

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/betpulse/internal/logger"
	"github.com/yourusername/betpulse/internal/metrics"
	"github.com/yourusername/betpulse/internal/ml"
	"github.com/yourusername/betpulse/internal/models"
	"github.com/yourusername/betpulse/internal/repository"
)

// Skip reasons reported by the generator gates
const (
	SkipLowConfidence  = "low_confidence"
	SkipLowValue       = "low_value_score"
	SkipStartingSoon   = "starting_soon"
	SkipCooldownActive = "cooldown_active"
	SkipDailyLimit     = "daily_limit_reached"
	SkipAlreadyStarted = "already_started"
)

// Config carries the generation gates.
type Config struct {
	ConfidenceThreshold float64
	MinValueScore       float64
	SkipStartWindow     time.Duration
	MatchCooldown       time.Duration
	DailyLimit          int
}

// Generator turns qualifying predictions into persisted signals.
type Generator struct {
	cfg        Config
	signalRepo repository.SignalRepository
	limits     *Limits
	logger     *logger.SignalLogger
}

// NewGenerator creates a signal generator.
func NewGenerator(cfg Config, signalRepo repository.SignalRepository, signalLogger *logger.SignalLogger) *Generator {
	return &Generator{
		cfg:        cfg,
		signalRepo: signalRepo,
		limits:     NewLimits(cfg.MatchCooldown, cfg.DailyLimit, signalRepo),
		logger:     signalLogger,
	}
}

// Generate applies every gate to a prediction and persists the signal when
// all of them pass. A non-empty skip reason means no signal was created.
func (g *Generator) Generate(ctx context.Context, match *models.Match, prediction *ml.PredictionResult, features map[string]float64) (*models.Signal, string, error) {
	if !match.IsUpcoming() {
		return nil, SkipAlreadyStarted, nil
	}
	if match.StartsWithin(g.cfg.SkipStartWindow) {
		g.logger.LogSignalSkipped(match.Sport, match.ID.String(), SkipStartingSoon)
		return nil, SkipStartingSoon, nil
	}
	if prediction.Confidence < g.cfg.ConfidenceThreshold {
		g.logger.LogSignalSkipped(match.Sport, match.ID.String(), SkipLowConfidence)
		return nil, SkipLowConfidence, nil
	}
	if prediction.ValueScore < g.cfg.MinValueScore {
		g.logger.LogSignalSkipped(match.Sport, match.ID.String(), SkipLowValue)
		return nil, SkipLowValue, nil
	}

	if remaining, active := g.limits.CooldownRemaining(match.ID); active {
		g.logger.LogCooldownActive(match.Sport, match.ID.String(), remaining)
		return nil, SkipCooldownActive, nil
	}

	allowed, used, err := g.limits.WithinDailyQuota(ctx, match.Sport)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check daily quota: %w", err)
	}
	metrics.UpdateDailyQuotaUsed(match.Sport, float64(used))
	if !allowed {
		g.logger.LogDailyLimitReached(match.Sport, g.cfg.DailyLimit)
		return nil, SkipDailyLimit, nil
	}

	featuresJSON, err := json.Marshal(features)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal signal features: %w", err)
	}

	sig := &models.Signal{
		ID:           uuid.New(),
		MatchID:      match.ID,
		Sport:        match.Sport,
		Outcome:      prediction.Label,
		Probability:  prediction.Probabilities[prediction.Label],
		Confidence:   prediction.Confidence,
		ValueScore:   prediction.ValueScore,
		Explanation:  BuildExplanation(match, prediction, features),
		Features:     featuresJSON,
		ModelVersion: prediction.ModelVersion,
		CreatedAt:    time.Now().UTC(),
	}

	if err := g.signalRepo.Create(ctx, sig); err != nil {
		return nil, "", fmt.Errorf("failed to persist signal: %w", err)
	}

	g.limits.StartCooldown(match.ID)
	metrics.RecordSignalGenerated(match.Sport)
	metrics.ObserveSignalQuality(match.Sport, sig.Confidence, sig.ValueScore)
	metrics.RecordPredictionOutcome(match.Sport, sig.Outcome, sig.ConfidenceBucket())
	g.logger.LogSignalGenerated(sig.ID.String(), sig.Sport, match.ID.String(), sig.Outcome, sig.Confidence, sig.ValueScore)

	return sig, "", nil
}

package ml

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/betpulse/internal/logger"
)

// Predictor produces an outcome prediction for a match's feature vector.
type Predictor interface {
	Predict(ctx context.Context, sport string, matchID uuid.UUID, features map[string]float64) (*PredictionResult, error)
	Version(sport string) string
}

// Manager holds the loaded per-sport ensembles and serves predictions,
// falling back to the rating-gap estimate when a sport has no model.
type Manager struct {
	modelsDir string
	mu        sync.RWMutex
	ensembles map[string]*Ensemble
	logger    *logger.MLLogger
}

// NewManager creates a model manager over the given models directory.
func NewManager(modelsDir string, mlLogger *logger.MLLogger) *Manager {
	return &Manager{
		modelsDir: modelsDir,
		ensembles: make(map[string]*Ensemble),
		logger:    mlLogger,
	}
}

// Load reads the persisted ensemble for a sport from disk. A missing model
// is not fatal: predictions fall back to the rating gap.
func (m *Manager) Load(sport string) error {
	ensemble, err := LoadEnsemble(m.modelsDir, sport)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.ensembles[sport] = ensemble
	m.mu.Unlock()
	return nil
}

// Set installs a freshly trained ensemble for a sport.
func (m *Manager) Set(sport string, ensemble *Ensemble) {
	m.mu.Lock()
	m.ensembles[sport] = ensemble
	m.mu.Unlock()
}

// Get returns the loaded ensemble for a sport.
func (m *Manager) Get(sport string) (*Ensemble, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.ensembles[sport]
	return e, ok
}

// Version returns the active model version for a sport, or "fallback".
func (m *Manager) Version(sport string) string {
	if e, ok := m.Get(sport); ok {
		return e.Version
	}
	return "fallback"
}

// Predict runs the sport's ensemble over the feature vector.
func (m *Manager) Predict(ctx context.Context, sport string, matchID uuid.UUID, features map[string]float64) (*PredictionResult, error) {
	start := time.Now()

	ensemble, ok := m.Get(sport)
	if !ok {
		result := FallbackPredict(features)
		FallbackPredictionsTotal.WithLabelValues(sport).Inc()
		if m.logger != nil {
			m.logger.LogMLPredictionRequest(sport, "fallback", len(features), false, float64(time.Since(start).Milliseconds()))
		}
		return result, nil
	}

	result, err := ensemble.Predict(features)
	if err != nil {
		if m.logger != nil {
			m.logger.LogMLPredictionError("ensemble", err.Error())
		}
		return nil, err
	}

	ModelPredictionsTotal.WithLabelValues("ensemble", "false").Inc()
	ModelPredictionLatency.WithLabelValues("ensemble").Observe(time.Since(start).Seconds())
	if m.logger != nil {
		m.logger.LogEnsembleResult(sport, result.Label, result.Confidence, result.ModelsUsed)
	}

	return result, nil
}

// CachedPredictor wraps a Predictor with a TTL prediction cache keyed by
// match and model version.
type CachedPredictor struct {
	predictor Predictor
	cache     *PredictionCache
}

// NewCachedPredictor creates a caching wrapper around a predictor.
func NewCachedPredictor(predictor Predictor, ttl time.Duration, maxSize int) *CachedPredictor {
	return &CachedPredictor{
		predictor: predictor,
		cache:     NewPredictionCache(ttl, maxSize),
	}
}

// Predict serves from cache when the match was already scored by the same
// model version.
func (cp *CachedPredictor) Predict(ctx context.Context, sport string, matchID uuid.UUID, features map[string]float64) (*PredictionResult, error) {
	key := CacheKey{
		MatchID:      matchID,
		Sport:        sport,
		ModelVersion: cp.predictor.Version(sport),
	}

	if cached := cp.cache.Get(ctx, key); cached != nil {
		ModelPredictionsTotal.WithLabelValues("ensemble", "true").Inc()
		return cached, nil
	}

	result, err := cp.predictor.Predict(ctx, sport, matchID, features)
	if err != nil {
		return nil, err
	}

	cp.cache.Set(ctx, key, result)
	return result, nil
}

// Version returns the underlying predictor's model version for a sport.
func (cp *CachedPredictor) Version(sport string) string {
	return cp.predictor.Version(sport)
}

// InvalidateSport drops cached predictions for a sport after a retrain.
func (cp *CachedPredictor) InvalidateSport(ctx context.Context, sport string) {
	cp.cache.InvalidateSport(ctx, sport)
}

// CacheStats exposes cache hit statistics.
func (cp *CachedPredictor) CacheStats() (hits, misses uint64, ratio float64) {
	return cp.cache.Stats()
}

// Package ml provides caching for predictions.
package ml

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"
)

// CacheKey represents a unique key for caching predictions
type CacheKey struct {
	MatchID      uuid.UUID
	Sport        string
	ModelVersion string
}

// String returns string representation of cache key
func (k CacheKey) String() string {
	return fmt.Sprintf("%s:%s:%s", k.Sport, k.MatchID, k.ModelVersion)
}

// PredictionCache provides in-memory caching for predictions
type PredictionCache struct {
	cache     *cache.Cache
	ttl       time.Duration
	maxSize   int
	mu        sync.RWMutex
	hitCount  uint64
	missCount uint64
}

// NewPredictionCache creates a new prediction cache
func NewPredictionCache(ttl time.Duration, maxSize int) *PredictionCache {
	return &PredictionCache{
		cache:   cache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Get retrieves a cached prediction
func (pc *PredictionCache) Get(ctx context.Context, key CacheKey) *PredictionResult {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	if result, found := pc.cache.Get(key.String()); found {
		pc.hitCount++
		pc.updateMetrics()
		if pred, ok := result.(*PredictionResult); ok {
			return pred
		}
	}

	pc.missCount++
	pc.updateMetrics()
	return nil
}

// Set stores a prediction in cache
func (pc *PredictionCache) Set(ctx context.Context, key CacheKey, prediction *PredictionResult) {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	// Check size limit
	if pc.cache.ItemCount() >= pc.maxSize {
		// Remove expired items first
		pc.cache.DeleteExpired()
	}

	pc.cache.Set(key.String(), prediction, pc.ttl)
}

// InvalidateSport removes all cache entries for a sport. Called after a
// retrain so stale model versions stop serving.
func (pc *PredictionCache) InvalidateSport(ctx context.Context, sport string) {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	prefix := sport + ":"
	for k := range pc.cache.Items() {
		if strings.HasPrefix(k, prefix) {
			pc.cache.Delete(k)
		}
	}
}

// Clear flushes the entire cache
func (pc *PredictionCache) Clear() {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	pc.cache.Flush()
	pc.hitCount = 0
	pc.missCount = 0
}

// Stats returns cache statistics
func (pc *PredictionCache) Stats() (hits, misses uint64, ratio float64) {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	hits = pc.hitCount
	misses = pc.missCount
	total := hits + misses
	if total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// updateMetrics updates Prometheus metrics
func (pc *PredictionCache) updateMetrics() {
	total := pc.hitCount + pc.missCount
	if total > 0 {
		PredictionCacheHitRatio.Set(float64(pc.hitCount) / float64(total))
	}
}

// ItemCount returns the number of items in cache
func (pc *PredictionCache) ItemCount() int {
	return pc.cache.ItemCount()
}

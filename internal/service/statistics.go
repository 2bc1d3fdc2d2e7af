package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/yourusername/betpulse/internal/metrics"
	"github.com/yourusername/betpulse/internal/models"
	"github.com/yourusername/betpulse/internal/repository"
)

// StatisticsService maintains per-sport rollups and trailing-window performance
type StatisticsService struct {
	sports     []string
	signalRepo repository.SignalRepository
	statRepo   repository.StatisticRepository
	window     time.Duration
	logger     *log.Logger
}

// SportPerformance is the trailing-window view of one sport's signals
type SportPerformance struct {
	Sport         string
	WindowDays    int
	Settled       int
	Wins          int
	Losses        int
	Pushes        int
	WinRate       float64
	ROI           float64
	AvgConfidence float64
	Buckets       map[string]BucketStats
}

// BucketStats aggregates outcomes within one confidence bucket
type BucketStats struct {
	Total int
	Wins  int
}

// WinRate returns the bucket's win rate over decided signals
func (b BucketStats) WinRate() float64 {
	decided := b.Total
	if decided == 0 {
		return 0
	}
	return float64(b.Wins) / float64(decided)
}

// NewStatisticsService creates a new statistics service
func NewStatisticsService(
	sports []string,
	signalRepo repository.SignalRepository,
	statRepo repository.StatisticRepository,
	windowDays int,
	logger *log.Logger,
) *StatisticsService {
	if windowDays <= 0 {
		windowDays = 30
	}

	return &StatisticsService{
		sports:     sports,
		signalRepo: signalRepo,
		statRepo:   statRepo,
		window:     time.Duration(windowDays) * 24 * time.Hour,
		logger:     logger,
	}
}

// Run recomputes per-sport statistics and refreshes the win-rate gauges
func (s *StatisticsService) Run(ctx context.Context) error {
	for _, sport := range s.sports {
		stat, err := s.statRepo.Recompute(ctx, sport)
		if err != nil {
			s.logger.Printf("Statistics rollup for %s failed: %v", sport, err)
			continue
		}

		metrics.UpdateSignalWinRate(sport, stat.GetWinRate())
	}

	return nil
}

// TrailingPerformance computes the trailing-window performance for one sport
func (s *StatisticsService) TrailingPerformance(ctx context.Context, sport string) (*SportPerformance, error) {
	since := time.Now().UTC().Add(-s.window)

	settled, err := s.signalRepo.GetSettledSince(ctx, sport, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load settled signals: %w", err)
	}

	perf := &SportPerformance{
		Sport:      sport,
		WindowDays: int(s.window.Hours() / 24),
		Buckets: map[string]BucketStats{
			models.BucketHigh:   {},
			models.BucketMedium: {},
			models.BucketLow:    {},
		},
	}

	roiSum := 0.0
	confidenceSum := 0.0
	for _, sig := range settled {
		if sig.Result == nil {
			continue
		}

		perf.Settled++
		confidenceSum += sig.Confidence

		bucket := perf.Buckets[sig.ConfidenceBucket()]
		bucket.Total++

		switch *sig.Result {
		case models.ResultWin:
			perf.Wins++
			bucket.Wins++
			// modeled flat-stake return at fair odds 1/p
			if sig.Probability > 0 {
				roiSum += 1.0/sig.Probability - 1.0
			}
		case models.ResultLoss:
			perf.Losses++
			roiSum -= 1.0
		case models.ResultPush:
			perf.Pushes++
		}

		perf.Buckets[sig.ConfidenceBucket()] = bucket
	}

	decided := perf.Wins + perf.Losses
	if decided > 0 {
		perf.WinRate = float64(perf.Wins) / float64(decided)
		perf.ROI = roiSum / float64(decided)
	}
	if perf.Settled > 0 {
		perf.AvgConfidence = confidenceSum / float64(perf.Settled)
	}

	return perf, nil
}

// TrailingAccuracy returns the decided-signal win rate over the window,
// or -1 when there were no decided signals.
func (s *StatisticsService) TrailingAccuracy(ctx context.Context, sport string) (float64, int, error) {
	perf, err := s.TrailingPerformance(ctx, sport)
	if err != nil {
		return 0, 0, err
	}

	decided := perf.Wins + perf.Losses
	if decided == 0 {
		return -1, 0, nil
	}
	return perf.WinRate, decided, nil
}

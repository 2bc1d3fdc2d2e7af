package service

import (
	"context"
	"fmt"
	"log"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/yourusername/betpulse/internal/config"
	"github.com/yourusername/betpulse/internal/logger"
	"github.com/yourusername/betpulse/internal/metrics"
	"github.com/yourusername/betpulse/internal/models"
	"github.com/yourusername/betpulse/internal/repository"
	"github.com/yourusername/betpulse/internal/telegram"
)

// publishBatchLimit caps how many pending signals one cycle publishes per sport
const publishBatchLimit = 20

// PublishGate lets an outcome circuit breaker pause publication
type PublishGate interface {
	AllowPublishing() bool
}

// PublisherService delivers persisted signals to per-sport Telegram channels
type PublisherService struct {
	cfg          config.TelegramConfig
	enabled      bool
	client       *telegram.Client
	signalRepo   repository.SignalRepository
	matchRepo    repository.MatchRepository
	statRepo     repository.StatisticRepository
	gate         PublishGate
	cooldowns    *gocache.Cache
	maxAge       time.Duration
	signalLogger *logger.SignalLogger
	auditLogger  *logger.AuditLogger
	logger       *log.Logger
}

// NewPublisherService creates a new publisher service
func NewPublisherService(
	cfg config.TelegramConfig,
	publishingEnabled bool,
	maxSignalAge time.Duration,
	client *telegram.Client,
	signalRepo repository.SignalRepository,
	matchRepo repository.MatchRepository,
	statRepo repository.StatisticRepository,
	gate PublishGate,
	signalLogger *logger.SignalLogger,
	auditLogger *logger.AuditLogger,
	stdLogger *log.Logger,
) *PublisherService {
	cooldown := time.Duration(cfg.ChannelCooldownMinutes) * time.Minute

	return &PublisherService{
		cfg:          cfg,
		enabled:      publishingEnabled,
		client:       client,
		signalRepo:   signalRepo,
		matchRepo:    matchRepo,
		statRepo:     statRepo,
		gate:         gate,
		cooldowns:    gocache.New(cooldown, 10*time.Minute),
		maxAge:       maxSignalAge,
		signalLogger: signalLogger,
		auditLogger:  auditLogger,
		logger:       stdLogger,
	}
}

// Run publishes pending signals for every configured channel
func (s *PublisherService) Run(ctx context.Context) error {
	if s.gate != nil && !s.gate.AllowPublishing() {
		s.logger.Printf("Publishing paused: circuit breaker open")
		return nil
	}

	for sport, channel := range s.cfg.Channels {
		if err := s.publishSport(ctx, sport, channel); err != nil {
			s.logger.Printf("Publishing for %s failed: %v", sport, err)
		}
	}

	return nil
}

func (s *PublisherService) publishSport(ctx context.Context, sport, channel string) error {
	signals, err := s.signalRepo.GetUnpublished(ctx, sport, publishBatchLimit)
	if err != nil {
		return fmt.Errorf("failed to load unpublished signals: %w", err)
	}

	sent := 0
	for _, sig := range signals {
		if sig.Age() > s.maxAge {
			s.skipStale(ctx, sig, channel)
			continue
		}

		if _, onCooldown := s.cooldowns.Get(channel); onCooldown {
			break
		}

		if sent > 0 && s.cfg.SendDelaySeconds > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(s.cfg.SendDelaySeconds) * time.Second):
			}
		}

		if err := s.publishSignal(ctx, sig, channel); err != nil {
			s.logger.Printf("Failed to publish signal %s: %v", sig.ID, err)
			continue
		}

		s.cooldowns.SetDefault(channel, sig.ID.String())
		sent++
	}

	return nil
}

// publishSignal formats and delivers one signal, then flags it published
func (s *PublisherService) publishSignal(ctx context.Context, sig *models.Signal, channel string) error {
	match, err := s.matchRepo.GetByID(ctx, sig.MatchID)
	if err != nil {
		return fmt.Errorf("failed to load match for signal: %w", err)
	}

	text := telegram.FormatSignalMessage(match, sig, s.cfg.DisclaimerEnabled)

	start := time.Now()
	simulated := !s.enabled
	if s.enabled {
		if _, err := s.client.SendMessage(ctx, channel, text); err != nil {
			return fmt.Errorf("failed to send signal message: %w", err)
		}
	}
	latency := time.Since(start)

	publishedAt := time.Now().UTC()
	if err := s.signalRepo.MarkPublished(ctx, sig.ID, publishedAt); err != nil {
		return fmt.Errorf("failed to mark signal published: %w", err)
	}

	metrics.RecordSignalPublished(sig.Sport, channel, latency.Seconds())
	s.signalLogger.LogSignalPublished(sig.ID.String(), sig.Sport, channel, float64(latency.Milliseconds()))
	s.auditLogger.LogSignalPublication(sig.ID.String(), sig.Sport, channel, "published", sig.Confidence, publishedAt, simulated)

	return nil
}

// skipStale retires a signal that aged past the publish window without sending it
func (s *PublisherService) skipStale(ctx context.Context, sig *models.Signal, channel string) {
	publishedAt := time.Now().UTC()
	if err := s.signalRepo.MarkPublished(ctx, sig.ID, publishedAt); err != nil {
		s.logger.Printf("Failed to retire stale signal %s: %v", sig.ID, err)
		return
	}

	s.auditLogger.LogSignalPublication(sig.ID.String(), sig.Sport, channel, "stale_skipped", sig.Confidence, publishedAt, true)
}

// PublishDailySummary sends the daily performance recap to every channel
func (s *PublisherService) PublishDailySummary(ctx context.Context) error {
	stats, err := s.statRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load statistics: %w", err)
	}

	midnight := time.Now().UTC().Truncate(24 * time.Hour)

	totalToday := 0
	confidenceSum := 0.0
	confidenceCount := 0
	for sport := range s.cfg.Channels {
		count, err := s.signalRepo.CountCreatedSince(ctx, sport, midnight)
		if err == nil {
			totalToday += count
		}

		published, err := s.signalRepo.GetPublishedSince(ctx, sport, midnight)
		if err == nil {
			for _, sig := range published {
				confidenceSum += sig.Confidence
				confidenceCount++
			}
		}
	}

	avgConfidence := 0.0
	if confidenceCount > 0 {
		avgConfidence = confidenceSum / float64(confidenceCount)
	}

	text := telegram.FormatDailySummary(time.Now().UTC(), stats, totalToday, avgConfidence)

	for sport, channel := range s.cfg.Channels {
		if !s.enabled {
			s.logger.Printf("Daily summary for %s suppressed: publishing disabled", sport)
			continue
		}

		if _, err := s.client.SendMessage(ctx, channel, text); err != nil {
			s.logger.Printf("Failed to send daily summary to %s: %v", channel, err)
		}
	}

	return nil
}

package livefeed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/yourusername/betpulse/internal/models"
	"github.com/yourusername/betpulse/internal/repository"
)

// feedSource is recorded when a feed event carries no source of its own
const feedSource = "livefeed"

// Collector consumes live score events and applies them to stored matches
type Collector struct {
	streamClient *StreamClient
	matchRepo    repository.MatchRepository
	applyTimeout time.Duration
	mu           sync.Mutex
	metrics      *CollectorMetrics
	logger       *log.Logger
}

// CollectorMetrics tracks collector performance
type CollectorMetrics struct {
	EventsProcessed int64
	MatchesUpdated  int64
	UnknownMatches  int64
	Errors          int64
	LastEventTime   time.Time
}

// NewCollector creates a new live score collector
func NewCollector(
	streamClient *StreamClient,
	matchRepo repository.MatchRepository,
	applyTimeout time.Duration,
	logger *log.Logger,
) *Collector {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	if applyTimeout <= 0 {
		applyTimeout = 10 * time.Second
	}

	return &Collector{
		streamClient: streamClient,
		matchRepo:    matchRepo,
		applyTimeout: applyTimeout,
		metrics:      &CollectorMetrics{},
		logger:       logger,
	}
}

// Start registers the collector on the stream and keeps the feed running
// until the context is cancelled.
func (c *Collector) Start(ctx context.Context, sports []string) error {
	if len(sports) == 0 {
		return fmt.Errorf("at least one sport required")
	}

	c.logger.Printf("Starting live score collector for %d sports", len(sports))

	c.streamClient.AddHandler(c.onEvent)

	go func() {
		if err := c.streamClient.Run(ctx, sports); err != nil && ctx.Err() == nil {
			c.logger.Printf("Live feed stopped: %v", err)
		}
	}()

	return nil
}

// onEvent applies a single score event to the matching stored match
func (c *Collector) onEvent(event ScoreEvent) error {
	c.mu.Lock()
	c.metrics.EventsProcessed++
	c.metrics.LastEventTime = time.Now()
	c.mu.Unlock()

	switch event.Op {
	case "score", "status":
	case "heartbeat", "subscribed", "pong", "":
		return nil
	default:
		return nil
	}

	if event.ExternalID == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.applyTimeout)
	defer cancel()

	source := event.Source
	if source == "" {
		source = feedSource
	}

	match, err := c.matchRepo.GetByExternalID(ctx, source, event.ExternalID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.mu.Lock()
			c.metrics.UnknownMatches++
			c.mu.Unlock()
			return nil
		}
		c.recordError()
		return fmt.Errorf("failed to look up match %s: %w", event.ExternalID, err)
	}

	if match.IsFinished() {
		return nil
	}

	changed := c.applyEvent(match, event)
	if !changed {
		return nil
	}

	if err := c.matchRepo.Update(ctx, match); err != nil {
		c.recordError()
		return fmt.Errorf("failed to update match %s: %w", match.ID, err)
	}

	c.mu.Lock()
	c.metrics.MatchesUpdated++
	c.mu.Unlock()

	return nil
}

// applyEvent mutates the match from the event, returning whether anything changed
func (c *Collector) applyEvent(match *models.Match, event ScoreEvent) bool {
	changed := false

	if event.ScoreTeam1 != match.ScoreTeam1 || event.ScoreTeam2 != match.ScoreTeam2 {
		match.ScoreTeam1 = event.ScoreTeam1
		match.ScoreTeam2 = event.ScoreTeam2
		changed = true
	}

	switch event.Status {
	case models.MatchStatusLive:
		if match.Status == models.MatchStatusUpcoming {
			now := time.Now().UTC()
			match.Status = models.MatchStatusLive
			match.StartedAt = &now
			changed = true
		}
	case models.MatchStatusFinished, models.MatchStatusCancelled:
		if match.Status != event.Status {
			match.Status = event.Status
			changed = true
		}
	}

	if changed {
		match.UpdatedAt = time.Now().UTC()
	}

	return changed
}

func (c *Collector) recordError() {
	c.mu.Lock()
	c.metrics.Errors++
	c.mu.Unlock()
}

// Stop shuts down the collector and closes the feed
func (c *Collector) Stop() error {
	c.logger.Printf("Stopping live score collector")

	if err := c.streamClient.Close(); err != nil {
		c.logger.Printf("Error closing live feed: %v", err)
	}

	return nil
}

// GetMetrics returns current collector metrics
func (c *Collector) GetMetrics() CollectorMetrics {
	c.mu.Lock()
	defer c.mu.Unlock()
	return *c.metrics
}

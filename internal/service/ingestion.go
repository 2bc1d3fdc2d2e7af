package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/yourusername/betpulse/internal/datasource"
	"github.com/yourusername/betpulse/internal/metrics"
	"github.com/yourusername/betpulse/internal/models"
	"github.com/yourusername/betpulse/internal/repository"
)

// IngestionService handles the match ingestion workflow
type IngestionService struct {
	sources    []datasource.MatchSource
	matchRepo  repository.MatchRepository
	validator  *DataValidator
	normalizer *DataNormalizer
	metrics    *IngestionMetrics
	logger     *log.Logger
}

// NewIngestionService creates a new ingestion service
func NewIngestionService(
	sources []datasource.MatchSource,
	matchRepo repository.MatchRepository,
	validator *DataValidator,
	normalizer *DataNormalizer,
	logger *log.Logger,
) *IngestionService {
	return &IngestionService{
		sources:    sources,
		matchRepo:  matchRepo,
		validator:  validator,
		normalizer: normalizer,
		metrics:    NewIngestionMetrics(),
		logger:     logger,
	}
}

// IngestAll fetches and ingests upcoming matches from every enabled source
func (s *IngestionService) IngestAll(ctx context.Context) (*IngestionMetrics, error) {
	s.metrics.Reset()
	startTime := time.Now()

	var errs []error
	for _, source := range s.sources {
		if !source.IsEnabled() {
			continue
		}

		if err := s.ingestSource(ctx, source); err != nil {
			s.logger.Printf("Ingestion from %s failed: %v", source.Name(), err)
			errs = append(errs, err)
		}
	}

	s.metrics.Duration = time.Since(startTime)
	s.logger.Printf("Ingestion complete: %s", s.metrics)

	return s.metrics, errors.Join(errs...)
}

// IngestSource fetches and ingests upcoming matches from a single named source
func (s *IngestionService) IngestSource(ctx context.Context, sourceName string) error {
	for _, source := range s.sources {
		if source.Name() == sourceName {
			return s.ingestSource(ctx, source)
		}
	}
	return fmt.Errorf("data source not found: %s", sourceName)
}

func (s *IngestionService) ingestSource(ctx context.Context, source datasource.MatchSource) error {
	fetched, err := source.FetchUpcoming(ctx)
	if err != nil {
		s.metrics.RecordError()
		return fmt.Errorf("failed to fetch matches from %s: %w", source.Name(), err)
	}

	s.logger.Printf("Fetched %d matches from %s", len(fetched), source.Name())
	s.metrics.mu.Lock()
	s.metrics.TotalMatches += len(fetched)
	s.metrics.mu.Unlock()

	for i := range fetched {
		if err := s.processMatch(ctx, &fetched[i], source.Name()); err != nil {
			s.metrics.RecordError()
			s.logger.Printf("Error processing match %s: %v", fetched[i].SourceID, err)
			continue
		}
	}

	return nil
}

// processMatch processes a single match: normalize, validate, dedupe, persist
func (s *IngestionService) processMatch(ctx context.Context, sourceMatch *datasource.MatchData, sourceName string) error {
	match, err := s.normalizer.NormalizeMatch(sourceMatch, sourceName)
	if err != nil {
		return fmt.Errorf("failed to normalize match: %w", err)
	}

	if validationErrors := s.validator.ValidateMatch(match); len(validationErrors) > 0 {
		s.metrics.RecordValidationError()
		return fmt.Errorf("match validation failed: %v", validationErrors)
	}

	if featureErrors := s.validator.ValidateFeatures(sourceMatch.Features); len(featureErrors) > 0 {
		s.metrics.RecordValidationError()
		return fmt.Errorf("feature validation failed: %v", featureErrors)
	}

	existing, err := s.matchRepo.GetByExternalID(ctx, match.Source, match.ExternalID)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("duplicate check failed: %w", err)
	}

	if existing != nil {
		return s.refreshExisting(ctx, existing, match)
	}

	if err := s.matchRepo.Create(ctx, match); err != nil {
		return fmt.Errorf("failed to create match: %w", err)
	}

	metrics.RecordMatchIngested(match.Sport, match.Source)
	s.metrics.RecordMatch()
	return nil
}

// refreshExisting updates schedule and odds on an already-known upcoming match
func (s *IngestionService) refreshExisting(ctx context.Context, existing, incoming *models.Match) error {
	if !existing.IsUpcoming() {
		s.metrics.RecordDuplicate()
		return nil
	}

	changed := false
	if !existing.ScheduledAt.Equal(incoming.ScheduledAt) {
		existing.ScheduledAt = incoming.ScheduledAt
		changed = true
	}
	if incoming.OddsTeam1 != nil || incoming.OddsTeam2 != nil {
		existing.OddsTeam1 = incoming.OddsTeam1
		existing.OddsTeam2 = incoming.OddsTeam2
		changed = true
	}
	if incoming.Features != nil {
		existing.Features = incoming.Features
		changed = true
	}

	if !changed {
		s.metrics.RecordDuplicate()
		return nil
	}

	existing.UpdatedAt = time.Now().UTC()
	if err := s.matchRepo.Update(ctx, existing); err != nil {
		return fmt.Errorf("failed to refresh match: %w", err)
	}

	s.metrics.RecordUpdate()
	return nil
}

// GetMetrics returns current ingestion metrics
func (s *IngestionService) GetMetrics() *IngestionMetrics {
	return s.metrics
}

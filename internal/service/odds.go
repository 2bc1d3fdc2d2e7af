package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yourusername/betpulse/internal/cache"
	"github.com/yourusername/betpulse/internal/models"
	"github.com/yourusername/betpulse/internal/repository"
)

// oddsDriftBasisPoints bounds per-cycle odds movement in simulation mode
const oddsDriftBasisPoints = 300

// OddsService refreshes match odds, records snapshots, and keeps the
// current-odds cache warm.
type OddsService struct {
	sports        []string
	matchRepo     repository.MatchRepository
	oddsRepo      repository.OddsRepository
	oddsCache     cache.OddsCache
	simulateDrift bool
	logger        *log.Logger
}

// NewOddsService creates a new odds refresh service
func NewOddsService(
	sports []string,
	matchRepo repository.MatchRepository,
	oddsRepo repository.OddsRepository,
	oddsCache cache.OddsCache,
	simulateDrift bool,
	logger *log.Logger,
) *OddsService {
	return &OddsService{
		sports:        sports,
		matchRepo:     matchRepo,
		oddsRepo:      oddsRepo,
		oddsCache:     oddsCache,
		simulateDrift: simulateDrift,
		logger:        logger,
	}
}

// Run performs one odds-refresh cycle across all sports
func (s *OddsService) Run(ctx context.Context) error {
	refreshed := 0

	for _, sport := range s.sports {
		matches, err := s.matchRepo.GetUpcoming(ctx, sport, liveBatchLimit)
		if err != nil {
			s.logger.Printf("Odds refresh for %s failed: %v", sport, err)
			continue
		}

		live, err := s.matchRepo.GetLive(ctx, sport)
		if err == nil {
			matches = append(matches, live...)
		}

		for _, match := range matches {
			if match.OddsTeam1 == nil || match.OddsTeam2 == nil {
				continue
			}

			if err := s.refreshMatch(ctx, match); err != nil {
				s.logger.Printf("Failed to refresh odds for match %s: %v", match.ID, err)
				continue
			}
			refreshed++
		}
	}

	s.logger.Printf("Odds refresh complete: %d matches", refreshed)
	return nil
}

// refreshMatch applies drift, persists a snapshot, and writes through the cache
func (s *OddsService) refreshMatch(ctx context.Context, match *models.Match) error {
	odds1, odds2 := match.OddsTeam1, match.OddsTeam2

	if s.simulateDrift {
		odds1 = driftOdds(odds1, match.ID.ID())
		odds2 = driftOdds(odds2, match.ID.ID()+1)

		if err := s.matchRepo.UpdateOdds(ctx, match.ID, odds1, odds2); err != nil {
			return fmt.Errorf("failed to update match odds: %w", err)
		}
	}

	snapshot := &models.OddsSnapshot{
		Time:      time.Now().UTC(),
		MatchID:   match.ID,
		Source:    match.Source,
		OddsTeam1: odds1,
		OddsTeam2: odds2,
	}

	if err := s.oddsRepo.Insert(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to store odds snapshot: %w", err)
	}

	if s.oddsCache != nil {
		if err := s.oddsCache.SetCurrent(ctx, snapshot); err != nil {
			// Cache failures must not block the snapshot path
			s.logger.Printf("Odds cache write failed for match %s: %v", match.ID, err)
		}
	}

	return nil
}

// CurrentOdds returns the freshest odds for a match, preferring the cache
func (s *OddsService) CurrentOdds(ctx context.Context, match *models.Match) (*models.OddsSnapshot, error) {
	if s.oddsCache != nil {
		if snapshot, err := s.oddsCache.GetCurrent(ctx, match.ID); err == nil {
			return snapshot, nil
		}
	}

	return s.oddsRepo.GetLatest(ctx, match.ID)
}

// driftOdds nudges a price by a bounded pseudo-random amount, floored at 1.01
func driftOdds(odds *decimal.Decimal, seed uint32) *decimal.Decimal {
	if odds == nil {
		return nil
	}

	// deterministic small drift in [-3%, +3%] derived from the seed
	bp := int64(seed%(2*oddsDriftBasisPoints)) - oddsDriftBasisPoints
	factor := decimal.NewFromInt(10000 + bp).Div(decimal.NewFromInt(10000))

	drifted := odds.Mul(factor).Round(2)
	floor := decimal.NewFromFloat(1.01)
	if drifted.LessThan(floor) {
		drifted = floor
	}
	return &drifted
}

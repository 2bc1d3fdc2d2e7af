package service

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/yourusername/betpulse/internal/models"
	"github.com/yourusername/betpulse/internal/repository"
)

// liveBatchLimit caps how many matches one live cycle examines per sport
const liveBatchLimit = 100

// LiveUpdateService transitions match lifecycle states and keeps live
// scores moving when no real feed is attached.
type LiveUpdateService struct {
	sports       []string
	matchRepo    repository.MatchRepository
	simulateLive bool
	rng          *rand.Rand
	logger       *log.Logger
}

// NewLiveUpdateService creates a new live update service
func NewLiveUpdateService(
	sports []string,
	matchRepo repository.MatchRepository,
	simulateLive bool,
	logger *log.Logger,
) *LiveUpdateService {
	return &LiveUpdateService{
		sports:       sports,
		matchRepo:    matchRepo,
		simulateLive: simulateLive,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:       logger,
	}
}

// Run performs one live-update cycle across all sports
func (s *LiveUpdateService) Run(ctx context.Context) error {
	for _, sport := range s.sports {
		if err := s.startDueMatches(ctx, sport); err != nil {
			s.logger.Printf("Live transition for %s failed: %v", sport, err)
		}

		if err := s.updateLiveMatches(ctx, sport); err != nil {
			s.logger.Printf("Live update for %s failed: %v", sport, err)
		}
	}
	return nil
}

// startDueMatches moves upcoming matches past their scheduled time to live
func (s *LiveUpdateService) startDueMatches(ctx context.Context, sport string) error {
	matches, err := s.matchRepo.GetUpcoming(ctx, sport, liveBatchLimit)
	if err != nil {
		return fmt.Errorf("failed to load upcoming matches: %w", err)
	}

	now := time.Now().UTC()
	for _, match := range matches {
		if match.ScheduledAt.After(now) {
			continue
		}

		match.Status = models.MatchStatusLive
		startedAt := match.ScheduledAt
		match.StartedAt = &startedAt
		match.UpdatedAt = now

		if err := s.matchRepo.Update(ctx, match); err != nil {
			s.logger.Printf("Failed to start match %s: %v", match.ID, err)
			continue
		}

		s.logger.Printf("Match live: %s vs %s (%s)", match.Team1, match.Team2, match.Sport)
	}

	return nil
}

// updateLiveMatches mutates scores of in-progress matches and finishes them
// once their expected duration has elapsed. Only active in simulation mode;
// with a real live feed attached the collector owns these transitions.
func (s *LiveUpdateService) updateLiveMatches(ctx context.Context, sport string) error {
	if !s.simulateLive {
		return nil
	}

	matches, err := s.matchRepo.GetLive(ctx, sport)
	if err != nil {
		return fmt.Errorf("failed to load live matches: %w", err)
	}

	now := time.Now().UTC()
	for _, match := range matches {
		if s.shouldFinish(match, now) {
			s.finishMatch(ctx, match, now)
			continue
		}

		if s.advanceScore(match) {
			match.UpdatedAt = now
			if err := s.matchRepo.Update(ctx, match); err != nil {
				s.logger.Printf("Failed to update live match %s: %v", match.ID, err)
			}
		}
	}

	return nil
}

// shouldFinish reports whether a live match has run past its expected duration
func (s *LiveUpdateService) shouldFinish(match *models.Match, now time.Time) bool {
	if match.StartedAt == nil {
		return false
	}

	if winBy, done := seriesDecided(match); done && winBy > 0 {
		return true
	}

	return now.Sub(*match.StartedAt) >= expectedDuration(match)
}

// advanceScore randomly increments one side's score, at most one map/goal per cycle
func (s *LiveUpdateService) advanceScore(match *models.Match) bool {
	// roughly one score event per three cycles
	if s.rng.Float64() > 0.33 {
		return false
	}

	if s.rng.Float64() < team1ScoreBias(match) {
		match.ScoreTeam1++
	} else {
		match.ScoreTeam2++
	}
	return true
}

// finishMatch settles a live match's terminal state
func (s *LiveUpdateService) finishMatch(ctx context.Context, match *models.Match, now time.Time) {
	// Break ties before finishing so settlement sees a winner for
	// formats that cannot draw.
	if match.ScoreTeam1 == match.ScoreTeam2 && match.Sport == models.SportCS2 {
		if s.rng.Float64() < team1ScoreBias(match) {
			match.ScoreTeam1++
		} else {
			match.ScoreTeam2++
		}
	}

	match.Status = models.MatchStatusFinished
	match.UpdatedAt = now

	if err := s.matchRepo.Update(ctx, match); err != nil {
		s.logger.Printf("Failed to finish match %s: %v", match.ID, err)
		return
	}

	s.logger.Printf("Match finished: %s %d:%d %s (%s)",
		match.Team1, match.ScoreTeam1, match.ScoreTeam2, match.Team2, match.Sport)
}

// team1ScoreBias derives a scoring probability for team1 from the rating gap
func team1ScoreBias(match *models.Match) float64 {
	bag, err := match.FeatureMap()
	if err != nil {
		return 0.5
	}

	diff := bag["team1_rating"] - bag["team2_rating"]
	bias := 0.5 + diff/2000
	if bias < 0.2 {
		bias = 0.2
	}
	if bias > 0.8 {
		bias = 0.8
	}
	return bias
}

// seriesDecided reports whether one side has reached the series-winning score
func seriesDecided(match *models.Match) (lead int, decided bool) {
	bestOf := formatBestOf(match.Format)
	if bestOf == 0 {
		return 0, false
	}

	needed := bestOf/2 + 1
	if match.ScoreTeam1 >= needed {
		return match.ScoreTeam1 - match.ScoreTeam2, true
	}
	if match.ScoreTeam2 >= needed {
		return match.ScoreTeam2 - match.ScoreTeam1, true
	}
	return 0, false
}

// formatBestOf parses the series length out of a BO<n> format string
func formatBestOf(format string) int {
	if !strings.HasPrefix(format, "BO") {
		return 0
	}
	n, err := strconv.Atoi(format[2:])
	if err != nil {
		return 0
	}
	return n
}

// expectedDuration estimates how long a match runs from its format
func expectedDuration(match *models.Match) time.Duration {
	switch formatBestOf(match.Format) {
	case 5:
		return 4 * time.Hour
	case 3:
		return 3 * time.Hour
	default:
		return 2 * time.Hour
	}
}

package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/yourusername/betpulse/internal/logger"
	"github.com/yourusername/betpulse/internal/metrics"
	"github.com/yourusername/betpulse/internal/models"
	"github.com/yourusername/betpulse/internal/repository"
)

// OutcomeSink receives settled outcomes, feeding the circuit breaker
type OutcomeSink interface {
	RecordOutcome(sport, result string, confidence float64)
}

// ResultsService settles signals against finished matches
type ResultsService struct {
	matchRepo    repository.MatchRepository
	signalRepo   repository.SignalRepository
	statRepo     repository.StatisticRepository
	sink         OutcomeSink
	signalLogger *logger.SignalLogger
	logger       *log.Logger
}

// SettlementReport summarizes one settlement cycle
type SettlementReport struct {
	Settled int
	Wins    int
	Losses  int
	Pushes  int
	Errors  int
}

// NewResultsService creates a new settlement service
func NewResultsService(
	matchRepo repository.MatchRepository,
	signalRepo repository.SignalRepository,
	statRepo repository.StatisticRepository,
	sink OutcomeSink,
	signalLogger *logger.SignalLogger,
	stdLogger *log.Logger,
) *ResultsService {
	return &ResultsService{
		matchRepo:    matchRepo,
		signalRepo:   signalRepo,
		statRepo:     statRepo,
		sink:         sink,
		signalLogger: signalLogger,
		logger:       stdLogger,
	}
}

// Run settles every unsettled signal whose match has finished
func (s *ResultsService) Run(ctx context.Context) (*SettlementReport, error) {
	report := &SettlementReport{}

	unsettled, err := s.signalRepo.GetUnsettled(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load unsettled signals: %w", err)
	}

	touchedSports := make(map[string]bool)
	for _, sig := range unsettled {
		match, err := s.matchRepo.GetByID(ctx, sig.MatchID)
		if err != nil {
			report.Errors++
			s.logger.Printf("Failed to load match for signal %s: %v", sig.ID, err)
			continue
		}

		result, ready := settlementResult(match, sig)
		if !ready {
			continue
		}

		if err := s.settle(ctx, sig, match, result, report); err != nil {
			report.Errors++
			s.logger.Printf("Failed to settle signal %s: %v", sig.ID, err)
			continue
		}

		touchedSports[sig.Sport] = true
	}

	for sport := range touchedSports {
		if _, err := s.statRepo.Recompute(ctx, sport); err != nil {
			report.Errors++
			s.logger.Printf("Failed to recompute statistics for %s: %v", sport, err)
		}
	}

	if report.Settled > 0 {
		s.logger.Printf("Settlement complete: %d settled (%dW/%dL/%dP), %d errors",
			report.Settled, report.Wins, report.Losses, report.Pushes, report.Errors)
	}

	return report, nil
}

// settlementResult maps a finished match and its signal to a result
func settlementResult(match *models.Match, sig *models.Signal) (string, bool) {
	switch match.Status {
	case models.MatchStatusCancelled:
		return models.ResultPush, true
	case models.MatchStatusFinished:
	default:
		return "", false
	}

	winner := match.Winner()
	if winner == "" {
		// drawn scoreline, possible in regulation hockey
		return models.ResultPush, true
	}

	if winner == sig.Outcome {
		return models.ResultWin, true
	}
	return models.ResultLoss, true
}

func (s *ResultsService) settle(ctx context.Context, sig *models.Signal, match *models.Match, result string, report *SettlementReport) error {
	settledAt := time.Now().UTC()
	if err := s.signalRepo.Settle(ctx, sig.ID, result, settledAt); err != nil {
		return err
	}

	report.Settled++
	switch result {
	case models.ResultWin:
		report.Wins++
	case models.ResultLoss:
		report.Losses++
	case models.ResultPush:
		report.Pushes++
	}

	roi := signalROI(sig, match, result)

	metrics.RecordSignalSettled(sig.Sport, result)
	metrics.RecordPredictionOutcome(sig.Sport, result, sig.ConfidenceBucket())
	s.signalLogger.LogSignalSettled(sig.ID.String(), sig.Sport, result, roi)

	if s.sink != nil {
		s.sink.RecordOutcome(sig.Sport, result, sig.Confidence)
	}

	return nil
}

// signalROI computes the flat-stake return for a settled signal
func signalROI(sig *models.Signal, match *models.Match, result string) float64 {
	switch result {
	case models.ResultLoss:
		return -1.0
	case models.ResultPush:
		return 0.0
	}

	odds := match.OddsTeam1
	if sig.Outcome == models.OutcomeTeam2 {
		odds = match.OddsTeam2
	}
	if odds == nil {
		return 0.0
	}

	f, _ := odds.Float64()
	if f <= 1.0 {
		return 0.0
	}
	return f - 1.0
}

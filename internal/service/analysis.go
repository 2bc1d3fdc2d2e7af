package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/yourusername/betpulse/internal/metrics"
	"github.com/yourusername/betpulse/internal/ml"
	"github.com/yourusername/betpulse/internal/models"
	"github.com/yourusername/betpulse/internal/repository"
	"github.com/yourusername/betpulse/internal/signal"
	"github.com/yourusername/betpulse/internal/tracing"
)

// analysisBatchLimit caps how many upcoming matches one cycle examines per sport
const analysisBatchLimit = 50

// AnalysisService runs the prediction pipeline over upcoming matches
type AnalysisService struct {
	sports    []string
	matchRepo repository.MatchRepository
	engineer  *ml.FeatureEngineer
	predictor ml.Predictor
	generator *signal.Generator
	logger    *log.Logger
}

// AnalysisReport summarizes one analysis cycle
type AnalysisReport struct {
	MatchesAnalyzed int
	SignalsCreated  int
	Skipped         map[string]int
	Errors          int
	Duration        time.Duration
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(
	sports []string,
	matchRepo repository.MatchRepository,
	predictor ml.Predictor,
	generator *signal.Generator,
	logger *log.Logger,
) *AnalysisService {
	return &AnalysisService{
		sports:    sports,
		matchRepo: matchRepo,
		engineer:  ml.NewFeatureEngineer(),
		predictor: predictor,
		generator: generator,
		logger:    logger,
	}
}

// Run analyzes upcoming matches for every configured sport
func (s *AnalysisService) Run(ctx context.Context) (*AnalysisReport, error) {
	startTime := time.Now()
	report := &AnalysisReport{Skipped: make(map[string]int)}

	for _, sport := range s.sports {
		if err := s.analyzeSport(ctx, sport, report); err != nil {
			s.logger.Printf("Analysis for %s failed: %v", sport, err)
			report.Errors++
		}
	}

	report.Duration = time.Since(startTime)
	metrics.RecordAnalysisDuration(report.Duration.Seconds())

	s.logger.Printf("Analysis complete: %d matches, %d signals, %d errors in %v",
		report.MatchesAnalyzed, report.SignalsCreated, report.Errors, report.Duration)

	return report, nil
}

func (s *AnalysisService) analyzeSport(ctx context.Context, sport string, report *AnalysisReport) error {
	ctx, seg := tracing.StartSubsegment(ctx, "analysis."+sport)
	tracing.AddAnnotation(ctx, "sport", sport)

	matches, err := s.matchRepo.GetUpcoming(ctx, sport, analysisBatchLimit)
	if err != nil {
		err = fmt.Errorf("failed to load upcoming matches: %w", err)
		seg.Close(err)
		return err
	}

	metrics.UpdateUpcomingMatches(sport, float64(len(matches)))

	for _, match := range matches {
		if err := s.analyzeMatch(ctx, match, report); err != nil {
			report.Errors++
			tracing.AddError(ctx, err)
			s.logger.Printf("Error analyzing match %s: %v", match.ID, err)
		}
	}

	seg.Close(nil)
	return nil
}

func (s *AnalysisService) analyzeMatch(ctx context.Context, match *models.Match, report *AnalysisReport) error {
	bag, err := match.FeatureMap()
	if err != nil {
		return fmt.Errorf("failed to decode feature bag: %w", err)
	}

	features := s.engineer.Extract(bag)

	prediction, err := s.predictor.Predict(ctx, match.Sport, match.ID, features)
	if err != nil {
		return fmt.Errorf("prediction failed: %w", err)
	}

	report.MatchesAnalyzed++
	metrics.RecordPrediction(match.Sport)

	sig, skipReason, err := s.generator.Generate(ctx, match, prediction, features)
	if err != nil {
		return fmt.Errorf("signal generation failed: %w", err)
	}

	if skipReason != "" {
		report.Skipped[skipReason]++
		return nil
	}

	if sig != nil {
		report.SignalsCreated++
	}

	return nil
}

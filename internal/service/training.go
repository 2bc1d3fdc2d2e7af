package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/yourusername/betpulse/internal/config"
	"github.com/yourusername/betpulse/internal/logger"
	"github.com/yourusername/betpulse/internal/metrics"
	"github.com/yourusername/betpulse/internal/ml"
	"github.com/yourusername/betpulse/internal/models"
	"github.com/yourusername/betpulse/internal/repository"
)

// trainingFetchLimit caps how many labeled matches one retraining run loads
const trainingFetchLimit = 5000

// CacheInvalidator drops cached predictions after a model swap
type CacheInvalidator interface {
	InvalidateSport(ctx context.Context, sport string)
}

// TrainingService runs the per-sport retraining loop
type TrainingService struct {
	cfg         config.MLConfig
	sports      []string
	matchRepo   repository.MatchRepository
	modelRepo   repository.ModelRepository
	manager     *ml.Manager
	invalidator CacheInvalidator
	engineer    *ml.FeatureEngineer
	trainer     *ml.Trainer
	mlLogger    *logger.MLLogger
	logger      *log.Logger
}

// NewTrainingService creates a new training service
func NewTrainingService(
	cfg config.MLConfig,
	sports []string,
	matchRepo repository.MatchRepository,
	modelRepo repository.ModelRepository,
	manager *ml.Manager,
	invalidator CacheInvalidator,
	mlLogger *logger.MLLogger,
	stdLogger *log.Logger,
) *TrainingService {
	trainer := ml.NewTrainer(ml.TrainerConfig{
		TestSplit:  cfg.TestSplit,
		CVFolds:    cfg.CrossValidationFolds,
		MinSamples: cfg.MinTrainingSamples,
		Seed:       cfg.Seed,
	}, mlLogger)

	return &TrainingService{
		cfg:         cfg,
		sports:      sports,
		matchRepo:   matchRepo,
		modelRepo:   modelRepo,
		manager:     manager,
		invalidator: invalidator,
		engineer:    ml.NewFeatureEngineer(),
		trainer:     trainer,
		mlLogger:    mlLogger,
		logger:      stdLogger,
	}
}

// Run retrains every sport's model set
func (s *TrainingService) Run(ctx context.Context) error {
	for _, sport := range s.sports {
		report, err := s.TrainSport(ctx, sport)
		if err != nil {
			s.logger.Printf("Retraining for %s failed: %v", sport, err)
			metrics.RecordModelTraining(sport, "failure", 0)
			continue
		}

		metrics.RecordModelTraining(sport, "success", report.Duration.Seconds())
	}
	return nil
}

// TrainSport trains, persists, and activates a fresh model set for one sport
func (s *TrainingService) TrainSport(ctx context.Context, sport string) (*ml.TrainingReport, error) {
	X, y, err := s.collectDataset(ctx, sport)
	if err != nil {
		return nil, err
	}

	synthetic := false
	if len(X) < s.cfg.MinTrainingSamples {
		s.mlLogger.LogTrainingDataFallback(sport, len(X), s.cfg.SyntheticSamples)
		X, y = ml.SyntheticDataset(s.cfg.SyntheticSamples, s.cfg.Seed)
		synthetic = true
	}

	ensemble, report, err := s.trainer.Train(sport, X, y, synthetic)
	if err != nil {
		return nil, fmt.Errorf("training failed: %w", err)
	}

	trainedAt := time.Now().UTC()
	if err := ml.SaveEnsemble(s.cfg.ModelsDir, ensemble, trainedAt); err != nil {
		return nil, fmt.Errorf("failed to persist models: %w", err)
	}

	if err := s.catalogModels(ctx, ensemble, report, trainedAt); err != nil {
		// catalog failures don't invalidate the trained weights on disk
		s.logger.Printf("Model catalog update for %s failed: %v", sport, err)
	}

	s.manager.Set(sport, ensemble)
	if s.invalidator != nil {
		s.invalidator.InvalidateSport(ctx, sport)
	}

	metrics.UpdateActiveModels(sport, float64(len(ensemble.Models)))

	s.logger.Printf("Retrained %s: version %s, %d samples (synthetic=%v), logreg acc=%.3f, forest acc=%.3f",
		sport, ensemble.Version, report.Samples, synthetic,
		report.HoldoutAccuracy[models.ModelTypeLogistic],
		report.HoldoutAccuracy[models.ModelTypeForest])

	return report, nil
}

// collectDataset builds the labeled feature matrix from finished matches
func (s *TrainingService) collectDataset(ctx context.Context, sport string) (X [][]float64, y []int, err error) {
	matches, err := s.matchRepo.GetFinishedWithFeatures(ctx, sport, trainingFetchLimit)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load training matches: %w", err)
	}

	for _, match := range matches {
		winner := match.Winner()
		if winner == "" {
			continue
		}

		bag, err := match.FeatureMap()
		if err != nil {
			continue
		}

		features := s.engineer.Extract(bag)
		X = append(X, ml.Vector(features))

		label := 0
		if winner == models.OutcomeTeam1 {
			label = 1
		}
		y = append(y, label)
	}

	return X, y, nil
}

// catalogModels writes and activates the models-table rows for both classifiers
func (s *TrainingService) catalogModels(ctx context.Context, ensemble *ml.Ensemble, report *ml.TrainingReport, trainedAt time.Time) error {
	for _, modelType := range []string{models.ModelTypeLogistic, models.ModelTypeForest} {
		path := ml.ModelPath(s.cfg.ModelsDir, ensemble.Sport, modelType)

		row, err := ml.CatalogRow(ensemble, modelType, path, report, trainedAt)
		if err != nil {
			return err
		}

		if err := s.modelRepo.Create(ctx, row); err != nil {
			return fmt.Errorf("failed to create model row: %w", err)
		}

		if err := s.modelRepo.SetActive(ctx, row.ID); err != nil {
			return fmt.Errorf("failed to activate model: %w", err)
		}

		s.mlLogger.LogModelPromotion(ensemble.Sport, modelType, ensemble.Version,
			report.HoldoutAccuracy[modelType])
	}

	return nil
}

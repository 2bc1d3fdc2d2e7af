// Package main provides the model training CLI.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/betpulse/internal/config"
	"github.com/yourusername/betpulse/internal/database"
	applogger "github.com/yourusername/betpulse/internal/logger"
	"github.com/yourusername/betpulse/internal/metrics"
	"github.com/yourusername/betpulse/internal/ml"
	"github.com/yourusername/betpulse/internal/repository"
	"github.com/yourusername/betpulse/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	sport      string
	logger     *logrus.Logger
	cfg        *config.Config
	db         *database.DB
	repos      *repository.Repositories
	training   *service.TrainingService
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().StringVarP(&sport, "sport", "s", "", "Train a single sport (default: all configured sports)")
}

var rootCmd = &cobra.Command{
	Use:     "train",
	Short:   "Train and activate prediction models",
	Long:    `Trains the per-sport model ensembles from finished matches, persists the weights, and activates the new catalog rows.`,
	Version: fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		return setupDependencies(cmd.Context())
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTraining(cmd.Context())
	},
}

func main() {
	ctx := context.Background()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig() error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}
	return config.Validate(cfg)
}

func setupDependencies(ctx context.Context) error {
	logger = applogger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	stdLog := log.New(os.Stdout, "train: ", log.LstdFlags)

	var err error
	db, err = database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := database.EnsureSchema(ctx, db); err != nil {
		return fmt.Errorf("failed to bootstrap schema: %w", err)
	}

	repos, err = repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	metrics.InitRegistry()

	mlLogger := applogger.NewMLLogger(logger)
	manager := ml.NewManager(cfg.ML.ModelsDir, mlLogger)

	training = service.NewTrainingService(
		cfg.ML,
		configuredSports(),
		repos.Match,
		repos.Model,
		manager,
		nil,
		mlLogger,
		stdLog,
	)

	return nil
}

func runTraining(ctx context.Context) error {
	defer db.Close()

	sports := configuredSports()
	if sport != "" {
		sports = []string{sport}
	}

	for _, s := range sports {
		report, err := training.TrainSport(ctx, s)
		if err != nil {
			logger.WithError(err).WithField("sport", s).Error("Training failed")
			return err
		}

		fmt.Printf("✓ Trained %s: %d samples (synthetic=%v) in %v\n",
			s, report.Samples, report.Synthetic, report.Duration)
		for modelType, accuracy := range report.HoldoutAccuracy {
			fmt.Printf("  %-20s holdout acc %.3f  auc %.3f  cv %.3f±%.3f\n",
				modelType, accuracy,
				report.HoldoutAUC[modelType],
				report.CVMeanAccuracy[modelType],
				report.CVStdAccuracy[modelType])
		}
	}

	return nil
}

func configuredSports() []string {
	seen := make(map[string]bool)
	var sports []string
	for _, src := range cfg.DataIngestion.Sources {
		if seen[src.Sport] {
			continue
		}
		seen[src.Sport] = true
		sports = append(sports, src.Sport)
	}
	return sports
}

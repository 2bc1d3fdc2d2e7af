// Package main provides the model catalog status CLI.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/betpulse/internal/config"
	"github.com/yourusername/betpulse/internal/database"
	applogger "github.com/yourusername/betpulse/internal/logger"
	"github.com/yourusername/betpulse/internal/ml"
	"github.com/yourusername/betpulse/internal/repository"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	logger     *logrus.Logger
	cfg        *config.Config
	db         *database.DB
	repos      *repository.Repositories
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
}

var rootCmd = &cobra.Command{
	Use:     "ml-status",
	Short:   "Show the active model catalog",
	Long:    `Displays the active models per sport with their catalog metrics and whether the weights are loadable from disk.`,
	Version: fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		return setupDependencies(cmd.Context())
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return displayStatus(cmd.Context())
	},
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
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

	return nil
}

func displayStatus(ctx context.Context) error {
	defer db.Close()

	for _, sport := range configuredSports() {
		fmt.Printf("Sport: %s\n", sport)

		active, err := repos.Model.GetActive(ctx, sport)
		if err != nil {
			logger.WithError(err).WithField("sport", sport).Error("Failed to load active models")
			continue
		}

		if len(active) == 0 {
			fmt.Println("  no active models (predictions use the rating fallback)")
			continue
		}

		for _, model := range active {
			accuracy, _ := model.GetMetric("holdout_accuracy")
			fmt.Printf("  %-20s version %s  trained %s  accuracy %v\n",
				model.ModelType,
				model.Version,
				model.TrainedAt.UTC().Format("2006-01-02 15:04"),
				accuracy,
			)
		}

		if _, err := ml.LoadEnsemble(cfg.ML.ModelsDir, sport); err != nil {
			fmt.Printf("  ⚠ weights not loadable from %s: %v\n", cfg.ML.ModelsDir, err)
		} else {
			fmt.Printf("  ✓ weights loadable from %s\n", cfg.ML.ModelsDir)
		}

		fmt.Println()
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

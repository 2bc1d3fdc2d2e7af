// Package main provides the one-off match ingestion CLI.
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
	"github.com/yourusername/betpulse/internal/datasource"
	applogger "github.com/yourusername/betpulse/internal/logger"
	"github.com/yourusername/betpulse/internal/metrics"
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
	sourceName string
	logger     *logrus.Logger
	cfg        *config.Config
	db         *database.DB
	ingestion  *service.IngestionService
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().StringVarP(&sourceName, "source", "s", "", "Ingest from a single named source (default: all enabled sources)")
}

var rootCmd = &cobra.Command{
	Use:     "backfill",
	Short:   "Run a one-off match ingestion cycle",
	Long:    `Fetches upcoming matches from the configured data sources and ingests them outside the scheduled pipeline.`,
	Version: fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		return setupDependencies(cmd.Context())
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBackfill(cmd.Context())
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
	stdLog := log.New(os.Stdout, "backfill: ", log.LstdFlags)

	var err error
	db, err = database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := database.EnsureSchema(ctx, db); err != nil {
		return fmt.Errorf("failed to bootstrap schema: %w", err)
	}

	repos, err := repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	metrics.InitRegistry()

	httpClient := datasource.NewRateLimitedHTTPClient(datasource.DefaultHTTPClientConfig(), stdLog)
	factory := datasource.NewFactory(stdLog)
	sources, err := factory.NewMatchSources(cfg.DataIngestion, httpClient)
	if err != nil {
		return fmt.Errorf("failed to create data sources: %w", err)
	}

	ingestion = service.NewIngestionService(
		sources,
		repos.Match,
		service.NewDataValidator(stdLog),
		service.NewDataNormalizer(stdLog),
		stdLog,
	)

	return nil
}

func runBackfill(ctx context.Context) error {
	defer db.Close()

	if sourceName != "" {
		if err := ingestion.IngestSource(ctx, sourceName); err != nil {
			return err
		}
		fmt.Printf("✓ %s\n", ingestion.GetMetrics())
		return nil
	}

	result, err := ingestion.IngestAll(ctx)
	if err != nil {
		logger.WithError(err).Warn("Ingestion finished with errors")
	}
	fmt.Printf("✓ %s\n", result)
	return nil
}

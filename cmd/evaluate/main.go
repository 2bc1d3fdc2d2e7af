// Package main provides the historical signal evaluation CLI.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/betpulse/internal/config"
	"github.com/yourusername/betpulse/internal/database"
	"github.com/yourusername/betpulse/internal/evaluation"
	applogger "github.com/yourusername/betpulse/internal/logger"
	"github.com/yourusername/betpulse/internal/models"
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
	sport      string
	windowDays int
	iterations int
	seed       int64
	bankroll   float64
	csvPath    string
	simulate   bool
	logger     *logrus.Logger
	cfg        *config.Config
	db         *database.DB
	repos      *repository.Repositories
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().StringVarP(&sport, "sport", "s", "", "Sport to evaluate (required)")
	rootCmd.Flags().IntVarP(&windowDays, "days", "d", 90, "Evaluation window in days")
	rootCmd.Flags().BoolVar(&simulate, "monte-carlo", true, "Run the Monte Carlo bankroll simulation")
	rootCmd.Flags().IntVar(&iterations, "iterations", 1000, "Monte Carlo iterations")
	rootCmd.Flags().Int64Var(&seed, "seed", 0, "Monte Carlo RNG seed (0 = time-based)")
	rootCmd.Flags().Float64Var(&bankroll, "bankroll", 100, "Starting bankroll in stake units")
	rootCmd.Flags().StringVar(&csvPath, "csv", "", "Export the performance report to a CSV file")
	rootCmd.MarkFlagRequired("sport")
}

var rootCmd = &cobra.Command{
	Use:     "evaluate",
	Short:   "Evaluate historical signal performance",
	Long:    `Computes win rate, ROI, and streak metrics over settled signals and optionally resimulates the history with a flat-stake Monte Carlo run.`,
	Version: fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		return setupDependencies(cmd.Context())
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEvaluation(cmd.Context())
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

func runEvaluation(ctx context.Context) error {
	defer db.Close()

	since := time.Now().UTC().AddDate(0, 0, -windowDays)
	signals, err := repos.Signal.GetSettledSince(ctx, sport, since)
	if err != nil {
		return fmt.Errorf("failed to load settled signals: %w", err)
	}
	if len(signals) == 0 {
		fmt.Printf("No settled signals for %s in the last %d days\n", sport, windowDays)
		return nil
	}

	records := buildRecords(ctx, signals)
	report := evaluation.CalculatePerformance(sport, records)

	var sim *evaluation.MonteCarloResult
	if simulate {
		result, err := evaluation.RunMonteCarlo(ctx, records, evaluation.MonteCarloConfig{
			Iterations:      iterations,
			Seed:            seed,
			InitialBankroll: bankroll,
			StakeSize:       1,
		})
		if err != nil {
			return fmt.Errorf("simulation failed: %w", err)
		}
		sim = &result
	}

	fmt.Print(evaluation.GenerateConsoleReport(report, sim))

	if csvPath != "" {
		if err := evaluation.GenerateCSVExport(report, csvPath); err != nil {
			return fmt.Errorf("failed to write CSV export: %w", err)
		}
		fmt.Printf("\nCSV report written to %s\n", csvPath)
	}

	return nil
}

// buildRecords joins each settled signal with the closing odds of its pick
func buildRecords(ctx context.Context, signals []*models.Signal) []evaluation.Record {
	records := make([]evaluation.Record, 0, len(signals))

	for _, sig := range signals {
		if sig.Result == nil || sig.SettledAt == nil {
			continue
		}

		rec := evaluation.Record{
			Sport:       sig.Sport,
			Outcome:     sig.Outcome,
			Confidence:  sig.Confidence,
			Probability: sig.Probability,
			Result:      *sig.Result,
			SettledAt:   *sig.SettledAt,
		}

		match, err := repos.Match.GetByID(ctx, sig.MatchID)
		if err == nil {
			switch sig.Outcome {
			case models.OutcomeTeam1:
				if match.OddsTeam1 != nil {
					rec.Odds = match.OddsTeam1.InexactFloat64()
				}
			case models.OutcomeTeam2:
				if match.OddsTeam2 != nil {
					rec.Odds = match.OddsTeam2.InexactFloat64()
				}
			}
		} else {
			logger.WithError(err).WithField("match_id", sig.MatchID).Debug("Match lookup failed, using fair odds")
		}

		records = append(records, rec)
	}

	return records
}

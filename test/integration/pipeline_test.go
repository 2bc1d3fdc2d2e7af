//go:build integration

package integration

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/betpulse/internal/database"
	"github.com/yourusername/betpulse/internal/datasource"
	"github.com/yourusername/betpulse/internal/logger"
	"github.com/yourusername/betpulse/internal/ml"
	"github.com/yourusername/betpulse/internal/models"
	"github.com/yourusername/betpulse/internal/repository"
	"github.com/yourusername/betpulse/internal/service"
	"github.com/yourusername/betpulse/internal/signal"
)

// stubSource feeds deterministic fixtures into the ingestion service
type stubSource struct {
	sport   string
	matches []datasource.MatchData
}

func (s *stubSource) FetchUpcoming(ctx context.Context) ([]datasource.MatchData, error) {
	return s.matches, nil
}

func (s *stubSource) Name() string    { return "stub" }
func (s *stubSource) Sport() string   { return s.sport }
func (s *stubSource) IsEnabled() bool { return true }

func discardLoggers() (*log.Logger, *logrus.Logger) {
	std := log.New(io.Discard, "", 0)
	base := logrus.New()
	base.SetOutput(io.Discard)
	return std, base
}

// TestIngestAnalyzeSettleFlow exercises the core pipeline end to end against
// a real database: fixtures come in, a signal comes out, the match finishes
// and the signal settles into the sport statistics.
func TestIngestAnalyzeSettleFlow(t *testing.T) {
	if testing.Short() {
		t.Skip(skipIntegration)
	}

	ctx := context.Background()
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)
	truncateAll(t, ctx, db)

	repos, err := repository.NewRepositories(db)
	require.NoError(t, err)

	stdLog, baseLog := discardLoggers()

	odds1 := decimal.NewFromFloat(1.25)
	odds2 := decimal.NewFromFloat(3.80)
	source := &stubSource{
		sport: models.SportCS2,
		matches: []datasource.MatchData{
			{
				SourceID:    "stub-1",
				Sport:       models.SportCS2,
				Team1:       "Favourites",
				Team2:       "Underdogs",
				Tournament:  "Stub Invitational",
				Stage:       "final",
				Format:      "BO5",
				ScheduledAt: time.Now().UTC().Add(4 * time.Hour),
				OddsTeam1:   &odds1,
				OddsTeam2:   &odds2,
				Features: map[string]float64{
					"team1_rating": 1200,
					"team2_rating": 800,
				},
				CreatedAt: time.Now().UTC(),
			},
		},
	}

	// Ingest
	ingestion := service.NewIngestionService(
		[]datasource.MatchSource{source},
		repos.Match,
		service.NewDataValidator(stdLog),
		service.NewDataNormalizer(stdLog),
		stdLog,
	)

	metrics, err := ingestion.IngestAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, metrics.SuccessfulMatches)

	upcoming, err := repos.Match.GetUpcoming(ctx, models.SportCS2, 10)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	match := upcoming[0]

	// Analyze: no persisted models, so the rating fallback drives the
	// prediction. A 400-point rating gap clears the confidence gate.
	manager := ml.NewManager(t.TempDir(), logger.NewMLLogger(baseLog))
	generator := signal.NewGenerator(signal.Config{
		ConfidenceThreshold: 0.70,
		MinValueScore:       0.10,
		SkipStartWindow:     30 * time.Minute,
		MatchCooldown:       30 * time.Minute,
		DailyLimit:          10,
	}, repos.Signal, logger.NewSignalLogger(baseLog))

	analysis := service.NewAnalysisService([]string{models.SportCS2}, repos.Match, manager, generator, stdLog)

	report, err := analysis.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.MatchesAnalyzed)
	require.Equal(t, 1, report.SignalsCreated, "skip reasons: %v", report.Skipped)

	signals, err := repos.Signal.GetByMatchID(ctx, match.ID)
	require.NoError(t, err)
	require.Len(t, signals, 1)
	assert.Equal(t, models.OutcomeTeam1, signals[0].Outcome)
	assert.GreaterOrEqual(t, signals[0].Confidence, 0.70)
	assert.Equal(t, "fallback", signals[0].ModelVersion)

	// Re-running analysis must not duplicate the signal
	report, err = analysis.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, report.SignalsCreated)
	assert.Positive(t, report.Skipped[signal.SkipCooldownActive])

	// Finish the match in favour of the pick and settle
	match.Status = models.MatchStatusFinished
	match.ScoreTeam1 = 3
	match.ScoreTeam2 = 1
	started := time.Now().UTC().Add(-2 * time.Hour)
	match.StartedAt = &started
	require.NoError(t, repos.Match.Update(ctx, match))

	results := service.NewResultsService(repos.Match, repos.Signal, repos.Statistic, nil, logger.NewSignalLogger(baseLog), stdLog)
	settlement, err := results.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, settlement.Settled)
	assert.Equal(t, 1, settlement.Wins)

	settled, err := repos.Signal.GetSettledSince(ctx, models.SportCS2, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, settled, 1)
	assert.True(t, settled[0].IsWin())

	// Statistics reflect the settled win
	stats := service.NewStatisticsService([]string{models.SportCS2}, repos.Signal, repos.Statistic, 30, stdLog)
	require.NoError(t, stats.Run(ctx))

	perf, err := stats.TrailingPerformance(ctx, models.SportCS2)
	require.NoError(t, err)
	assert.Equal(t, 1, perf.Wins)
	assert.Equal(t, 0, perf.Losses)
	assert.InDelta(t, 1.0, perf.WinRate, 0.001)
}

//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/betpulse/internal/config"
	"github.com/yourusername/betpulse/internal/database"
	"github.com/yourusername/betpulse/internal/models"
	"github.com/yourusername/betpulse/internal/repository"
	"github.com/yourusername/betpulse/test/helpers"
)

const skipIntegration = "Skipping integration test in short mode"

func truncateAll(t *testing.T, ctx context.Context, db *database.DB) {
	t.Helper()
	for _, table := range []string{"odds_snapshots", "signals", "sport_statistics", "models", "matches"} {
		if _, err := db.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			t.Logf("Warning: failed to truncate table %s: %v", table, err)
		}
	}
}

// TestDatabaseRepositoryIntegration tests all repositories against a real Postgres
func TestDatabaseRepositoryIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip(skipIntegration)
	}

	ctx := context.Background()
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)
	truncateAll(t, ctx, db)

	repos, err := repository.NewRepositories(db)
	require.NoError(t, err)

	t.Run("MatchRepository", func(t *testing.T) {
		match := helpers.UpcomingMatch(t, models.SportCS2)

		err := repos.Match.Create(ctx, match)
		require.NoError(t, err)

		retrieved, err := repos.Match.GetByID(ctx, match.ID)
		require.NoError(t, err)
		assert.Equal(t, match.Team1, retrieved.Team1)
		assert.Equal(t, match.Team2, retrieved.Team2)
		assert.Equal(t, models.MatchStatusUpcoming, retrieved.Status)
		require.NotNil(t, retrieved.OddsTeam1)
		assert.True(t, retrieved.OddsTeam1.Equal(*match.OddsTeam1))

		// Upsert with the same source/external ID must update, not duplicate
		match.ScoreTeam1 = 2
		match.ScoreTeam2 = 1
		match.Status = models.MatchStatusFinished
		err = repos.Match.Upsert(ctx, match)
		require.NoError(t, err)

		bySource, err := repos.Match.GetByExternalID(ctx, match.Source, match.ExternalID)
		require.NoError(t, err)
		assert.Equal(t, models.MatchStatusFinished, bySource.Status)
		assert.Equal(t, 2, bySource.ScoreTeam1)

		// Odds update
		newOdds1 := decimal.NewFromFloat(1.72)
		newOdds2 := decimal.NewFromFloat(2.10)
		err = repos.Match.UpdateOdds(ctx, match.ID, &newOdds1, &newOdds2)
		require.NoError(t, err)

		updated, err := repos.Match.GetByID(ctx, match.ID)
		require.NoError(t, err)
		require.NotNil(t, updated.OddsTeam1)
		assert.True(t, updated.OddsTeam1.Equal(newOdds1))

		// Upcoming listing excludes the now-finished match
		upcoming := helpers.UpcomingMatch(t, models.SportCS2)
		require.NoError(t, repos.Match.Create(ctx, upcoming))

		list, err := repos.Match.GetUpcoming(ctx, models.SportCS2, 10)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, upcoming.ID, list[0].ID)
	})

	t.Run("SignalRepository", func(t *testing.T) {
		match := helpers.UpcomingMatch(t, models.SportKHL)
		require.NoError(t, repos.Match.Create(ctx, match))

		sig := helpers.PendingSignal(t, match.ID, models.SportKHL)
		err := repos.Signal.Create(ctx, sig)
		require.NoError(t, err)

		unpublished, err := repos.Signal.GetUnpublished(ctx, models.SportKHL, 10)
		require.NoError(t, err)
		require.Len(t, unpublished, 1)
		assert.Equal(t, sig.ID, unpublished[0].ID)

		count, err := repos.Signal.CountCreatedSince(ctx, models.SportKHL, time.Now().Add(-time.Hour))
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		publishedAt := time.Now().UTC()
		err = repos.Signal.MarkPublished(ctx, sig.ID, publishedAt)
		require.NoError(t, err)

		unpublished, err = repos.Signal.GetUnpublished(ctx, models.SportKHL, 10)
		require.NoError(t, err)
		assert.Empty(t, unpublished)

		unsettled, err := repos.Signal.GetUnsettled(ctx)
		require.NoError(t, err)
		require.Len(t, unsettled, 1)

		err = repos.Signal.Settle(ctx, sig.ID, models.ResultWin, time.Now().UTC())
		require.NoError(t, err)

		settled, err := repos.Signal.GetSettledSince(ctx, models.SportKHL, time.Now().Add(-time.Hour))
		require.NoError(t, err)
		require.Len(t, settled, 1)
		require.NotNil(t, settled[0].Result)
		assert.Equal(t, models.ResultWin, *settled[0].Result)
		assert.True(t, settled[0].IsSettled())
	})

	t.Run("StatisticRepository", func(t *testing.T) {
		stat := &models.SportStatistic{
			Sport:        models.SportCS2,
			TotalSignals: 20,
			Wins:         12,
			Losses:       7,
			Pushes:       1,
			NetROI:       decimal.NewFromFloat(0.15),
			UpdatedAt:    time.Now().UTC(),
		}

		err := repos.Statistic.Upsert(ctx, stat)
		require.NoError(t, err)

		retrieved, err := repos.Statistic.GetBySport(ctx, models.SportCS2)
		require.NoError(t, err)
		assert.Equal(t, 20, retrieved.TotalSignals)
		assert.Equal(t, 12, retrieved.Wins)
		assert.InDelta(t, 63.16, retrieved.GetWinRate(), 0.01)

		// Upsert overwrites the existing row
		stat.Wins = 13
		stat.Losses = 6
		err = repos.Statistic.Upsert(ctx, stat)
		require.NoError(t, err)

		retrieved, err = repos.Statistic.GetBySport(ctx, models.SportCS2)
		require.NoError(t, err)
		assert.Equal(t, 13, retrieved.Wins)

		all, err := repos.Statistic.GetAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("ModelRepository", func(t *testing.T) {
		metrics, err := json.Marshal(map[string]float64{
			"holdout_accuracy": 0.71,
			"holdout_auc":      0.76,
		})
		require.NoError(t, err)

		model := &models.Model{
			ID:        uuid.New(),
			Name:      "cs2-ensemble",
			Sport:     models.SportCS2,
			Version:   "v1",
			ModelType: models.ModelTypeLogistic,
			Path:      "testdata/models/cs2",
			Metrics:   metrics,
			TrainedAt: time.Now().UTC(),
			Active:    false,
		}

		err = repos.Model.Create(ctx, model)
		require.NoError(t, err)

		active, err := repos.Model.GetActive(ctx, models.SportCS2)
		require.NoError(t, err)
		assert.Empty(t, active)

		err = repos.Model.SetActive(ctx, model.ID)
		require.NoError(t, err)

		active, err = repos.Model.GetActive(ctx, models.SportCS2)
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.Equal(t, model.Version, active[0].Version)

		acc, err := active[0].GetMetric("holdout_accuracy")
		require.NoError(t, err)
		assert.InDelta(t, 0.71, acc.(float64), 0.001)
	})

	t.Run("OddsRepository", func(t *testing.T) {
		match := helpers.UpcomingMatch(t, models.SportCS2)
		require.NoError(t, repos.Match.Create(ctx, match))

		odds1 := decimal.NewFromFloat(1.80)
		odds2 := decimal.NewFromFloat(2.00)
		first := &models.OddsSnapshot{
			Time:      time.Now().UTC().Add(-10 * time.Minute),
			MatchID:   match.ID,
			Source:    "test",
			OddsTeam1: &odds1,
			OddsTeam2: &odds2,
		}
		require.NoError(t, repos.Odds.Insert(ctx, first))

		drifted1 := decimal.NewFromFloat(1.70)
		drifted2 := decimal.NewFromFloat(2.15)
		second := &models.OddsSnapshot{
			Time:      time.Now().UTC(),
			MatchID:   match.ID,
			Source:    "test",
			OddsTeam1: &drifted1,
			OddsTeam2: &drifted2,
		}
		require.NoError(t, repos.Odds.Insert(ctx, second))

		latest, err := repos.Odds.GetLatest(ctx, match.ID)
		require.NoError(t, err)
		require.NotNil(t, latest.OddsTeam1)
		assert.True(t, latest.OddsTeam1.Equal(drifted1))

		history, err := repos.Odds.GetByMatchID(ctx, match.ID, time.Now().Add(-time.Hour), time.Now().Add(time.Minute))
		require.NoError(t, err)
		assert.Len(t, history, 2)
	})
}

// TestInitializeBootstrapsSchema drops every table and verifies Initialize
// recreates the full schema the repositories depend on, as the binaries do
// on a fresh deployment
func TestInitializeBootstrapsSchema(t *testing.T) {
	if testing.Short() {
		t.Skip(skipIntegration)
	}

	ctx := context.Background()

	cfg, err := config.Load("../../config/config.yaml.test")
	require.NoError(t, err)

	setup := database.SetupTestDB(t)
	for _, table := range []string{"odds_snapshots", "signals", "sport_statistics", "models", "matches"} {
		_, err := setup.Exec(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE")
		require.NoError(t, err)
	}
	database.TeardownTestDB(t, setup)

	db, err := database.Initialize(ctx, cfg)
	require.NoError(t, err)
	defer db.Close()

	repos, err := repository.NewRepositories(db)
	require.NoError(t, err)

	_, err = repos.Match.GetUpcoming(ctx, models.SportCS2, 1)
	assert.NoError(t, err)
	_, err = repos.Signal.GetUnsettled(ctx)
	assert.NoError(t, err)
	_, err = repos.Statistic.GetAll(ctx)
	assert.NoError(t, err)
	_, err = repos.Model.GetActive(ctx, models.SportCS2)
	assert.NoError(t, err)
}

// TestMatchRetentionCleanup verifies old finished matches are purged while
// recent ones survive
func TestMatchRetentionCleanup(t *testing.T) {
	if testing.Short() {
		t.Skip(skipIntegration)
	}

	ctx := context.Background()
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)
	truncateAll(t, ctx, db)

	repos, err := repository.NewRepositories(db)
	require.NoError(t, err)

	old := helpers.FinishedMatch(t, models.SportCS2, 2, 0)
	stale := time.Now().UTC().Add(-90 * 24 * time.Hour)
	old.ScheduledAt = stale
	old.StartedAt = &stale
	require.NoError(t, repos.Match.Create(ctx, old))

	recent := helpers.FinishedMatch(t, models.SportCS2, 1, 2)
	require.NoError(t, repos.Match.Create(ctx, recent))

	deleted, err := repos.Match.DeleteFinishedBefore(ctx, time.Now().Add(-30*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = repos.Match.GetByID(ctx, recent.ID)
	assert.NoError(t, err)
}

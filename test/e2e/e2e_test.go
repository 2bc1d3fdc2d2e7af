//go:build e2e

package e2e

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/betpulse/internal/bot"
	"github.com/yourusername/betpulse/internal/config"
	"github.com/yourusername/betpulse/internal/database"
	"github.com/yourusername/betpulse/internal/models"
	"github.com/yourusername/betpulse/internal/repository"
	"github.com/yourusername/betpulse/test/helpers"
)

const skipE2E = "Skipping E2E test in short mode"

func setupE2E(t *testing.T) (*config.Config, *database.DB, *repository.Repositories) {
	t.Helper()

	cfg, err := config.LoadWithDefaults("../../config/config.yaml.test")
	require.NoError(t, err)

	// The providers are unreachable in CI, so the source clients fall back
	// to simulated fixtures. Publishing stays off.
	cfg.ML.ModelsDir = t.TempDir()
	cfg.Features.PublishingEnabled = false
	cfg.Features.LiveFeedEnabled = false

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		t.Skipf("test database unavailable: %v", err)
	}
	t.Cleanup(db.Close)

	require.NoError(t, database.EnsureSchema(ctx, db))

	repos, err := repository.NewRepositories(db)
	require.NoError(t, err)

	return cfg, db, repos
}

// TestOrchestratorLifecycle boots the full pipeline, runs an ingestion
// cycle and shuts everything down cleanly.
func TestOrchestratorLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip(skipE2E)
	}

	cfg, db, repos := setupE2E(t)

	baseLogger := logrus.New()
	baseLogger.SetOutput(io.Discard)
	stdLogger := log.New(io.Discard, "", 0)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	orchestrator, err := bot.NewOrchestrator(ctx, cfg, db, repos, baseLogger, stdLogger)
	require.NoError(t, err)

	require.NoError(t, orchestrator.Start(ctx))
	defer orchestrator.Stop()

	assert.True(t, orchestrator.IsRunning())

	status := orchestrator.GetStatus()
	assert.True(t, status.Running)
	assert.False(t, status.PublishingEnabled)
	assert.ElementsMatch(t, []string{models.SportCS2, models.SportKHL}, status.Sports)
	assert.NotEmpty(t, status.ScheduledJobs)
	assert.Contains(t, status.ScheduledJobs, "analysis")
	assert.Contains(t, status.ScheduledJobs, "settlement")

	// One manual ingestion cycle; simulated fixtures guarantee matches
	metrics, err := orchestrator.IngestNow(ctx)
	require.NoError(t, err)
	assert.Positive(t, metrics.TotalMatches)

	helpers.WaitForCondition(t, 10*time.Second, func() bool {
		upcoming, err := repos.Match.GetUpcoming(ctx, models.SportCS2, 5)
		return err == nil && len(upcoming) > 0
	}, "ingested matches should be queryable")

	require.NoError(t, orchestrator.Stop())
	assert.False(t, orchestrator.IsRunning())
}

// TestOrchestratorStartStopContract verifies a second Start is rejected
// while running and a second Stop is a no-op.
func TestOrchestratorStartStopContract(t *testing.T) {
	if testing.Short() {
		t.Skip(skipE2E)
	}

	cfg, db, repos := setupE2E(t)

	baseLogger := logrus.New()
	baseLogger.SetOutput(io.Discard)
	stdLogger := log.New(io.Discard, "", 0)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	orchestrator, err := bot.NewOrchestrator(ctx, cfg, db, repos, baseLogger, stdLogger)
	require.NoError(t, err)

	require.NoError(t, orchestrator.Start(ctx))
	assert.Error(t, orchestrator.Start(ctx))

	require.NoError(t, orchestrator.Stop())
	assert.NoError(t, orchestrator.Stop())
	assert.False(t, orchestrator.IsRunning())
}

package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/betpulse/internal/cache"
	"github.com/yourusername/betpulse/internal/config"
	"github.com/yourusername/betpulse/internal/database"
	"github.com/yourusername/betpulse/internal/datasource"
	"github.com/yourusername/betpulse/internal/livefeed"
	"github.com/yourusername/betpulse/internal/logger"
	"github.com/yourusername/betpulse/internal/ml"
	"github.com/yourusername/betpulse/internal/repository"
	"github.com/yourusername/betpulse/internal/scheduler"
	"github.com/yourusername/betpulse/internal/service"
	"github.com/yourusername/betpulse/internal/signal"
	"github.com/yourusername/betpulse/internal/telegram"
)

// OrchestratorStatus represents current pipeline status
type OrchestratorStatus struct {
	Running             bool           `json:"running"`
	PublishingEnabled   bool           `json:"publishing_enabled"`
	Sports              []string       `json:"sports"`
	CircuitBreakerState CircuitState   `json:"circuit_breaker_state"`
	MonitorMetrics      MonitorMetrics `json:"monitor_metrics"`
	ScheduledJobs       []string       `json:"scheduled_jobs"`
	NextRun             time.Time      `json:"next_run"`
	LastUpdate          time.Time      `json:"last_update"`
}

// Orchestrator wires the full signal pipeline together and drives it
// through the cron scheduler
type Orchestrator struct {
	config         *config.Config
	db             *database.DB
	repos          *repository.Repositories
	sports         []string
	ingestion      *service.IngestionService
	analysis       *service.AnalysisService
	live           *service.LiveUpdateService
	odds           *service.OddsService
	publisher      *service.PublisherService
	results        *service.ResultsService
	statistics     *service.StatisticsService
	training       *service.TrainingService
	cleanup        *service.CleanupService
	manager        *ml.Manager
	oddsCache      cache.OddsCache
	feedCollector  *livefeed.Collector
	circuitBreaker *CircuitBreaker
	monitor        *Monitor
	scheduler      *scheduler.Scheduler
	logger         *logrus.Logger
	stdLogger      *log.Logger
	done           chan struct{}
	running        bool
	mu             sync.RWMutex
}

// NewOrchestrator creates a fully wired pipeline orchestrator
func NewOrchestrator(
	ctx context.Context,
	cfg *config.Config,
	db *database.DB,
	repos *repository.Repositories,
	baseLogger *logrus.Logger,
	stdLogger *log.Logger,
) (*Orchestrator, error) {
	if repos == nil {
		return nil, fmt.Errorf("repositories are required")
	}

	mlLogger := logger.NewMLLogger(baseLogger)
	signalLogger := logger.NewSignalLogger(baseLogger)
	auditLogger := logger.NewAuditLogger(baseLogger)

	sports := sportsFromSources(cfg.DataIngestion.Sources)
	if len(sports) == 0 {
		return nil, fmt.Errorf("no sports configured")
	}

	// Shared HTTP client for data sources and Telegram
	httpClient := datasource.NewRateLimitedHTTPClient(datasource.DefaultHTTPClientConfig(), stdLogger)

	factory := datasource.NewFactory(stdLogger)
	sources, err := factory.NewMatchSources(cfg.DataIngestion, httpClient)
	if err != nil {
		return nil, fmt.Errorf("failed to create data sources: %w", err)
	}

	ingestion := service.NewIngestionService(
		sources,
		repos.Match,
		service.NewDataValidator(stdLogger),
		service.NewDataNormalizer(stdLogger),
		stdLogger,
	)

	// Model manager with per-sport ensembles loaded from disk. Missing
	// models are fine: predictions fall back to the rating gap until the
	// first retrain.
	manager := ml.NewManager(cfg.ML.ModelsDir, mlLogger)
	for _, sport := range sports {
		if err := manager.Load(sport); err != nil {
			baseLogger.WithFields(logrus.Fields{
				"sport": sport,
				"error": err.Error(),
			}).Warn("No persisted model for sport, using rating fallback")
		}
	}

	predictor := ml.NewCachedPredictor(
		manager,
		time.Duration(cfg.ML.CacheTTLSeconds)*time.Second,
		cfg.ML.CacheMaxSize,
	)

	generator := signal.NewGenerator(signal.Config{
		ConfidenceThreshold: cfg.ML.ConfidenceThreshold,
		MinValueScore:       cfg.Signals.MinValueScore,
		SkipStartWindow:     time.Duration(cfg.Signals.SkipStartWindowMinutes) * time.Minute,
		MatchCooldown:       time.Duration(cfg.Signals.MatchCooldownMinutes) * time.Minute,
		DailyLimit:          cfg.Signals.DailyLimit,
	}, repos.Signal, signalLogger)

	oddsCache, err := cache.New(ctx, &cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to create odds cache: %w", err)
	}

	circuitBreaker := NewCircuitBreaker(CircuitBreakerConfig{
		MaxConsecutiveLosses: cfg.Bot.MaxConsecutiveLosses,
		MinTrailingAccuracy:  cfg.Bot.MinTrailingAccuracy,
		CooldownPeriod:       time.Duration(cfg.Bot.CooldownMinutes) * time.Minute,
	}, baseLogger, auditLogger)

	telegramClient := telegram.NewClient(&cfg.Telegram, httpClient, stdLogger)

	statistics := service.NewStatisticsService(
		sports,
		repos.Signal,
		repos.Statistic,
		cfg.Signals.RetentionDays,
		stdLogger,
	)

	o := &Orchestrator{
		config:    cfg,
		db:        db,
		repos:     repos,
		sports:    sports,
		ingestion: ingestion,
		analysis: service.NewAnalysisService(
			sports, repos.Match, predictor, generator, stdLogger,
		),
		live: service.NewLiveUpdateService(
			sports, repos.Match, cfg.Features.SimulationEnabled, stdLogger,
		),
		odds: service.NewOddsService(
			sports, repos.Match, repos.Odds, oddsCache,
			cfg.Features.SimulationEnabled, stdLogger,
		),
		publisher: service.NewPublisherService(
			cfg.Telegram,
			cfg.Features.PublishingEnabled,
			time.Duration(cfg.Signals.MaxMatchAgeHours)*time.Hour,
			telegramClient,
			repos.Signal, repos.Match, repos.Statistic,
			circuitBreaker,
			signalLogger, auditLogger, stdLogger,
		),
		results: service.NewResultsService(
			repos.Match, repos.Signal, repos.Statistic,
			circuitBreaker, signalLogger, stdLogger,
		),
		statistics: statistics,
		training: service.NewTrainingService(
			cfg.ML, sports, repos.Match, repos.Model,
			manager, predictor, mlLogger, stdLogger,
		),
		cleanup: service.NewCleanupService(
			repos.Match, repos.Signal, cfg.Signals.RetentionDays,
			auditLogger, stdLogger,
		),
		manager:        manager,
		oddsCache:      oddsCache,
		circuitBreaker: circuitBreaker,
		monitor: NewMonitor(
			sports, statistics, circuitBreaker,
			time.Duration(cfg.Bot.PerformanceUpdateInterval)*time.Second,
			baseLogger,
		),
		scheduler: scheduler.NewScheduler(stdLogger),
		logger:    baseLogger,
		stdLogger: stdLogger,
		done:      make(chan struct{}),
	}

	if cfg.Features.LiveFeedEnabled {
		streamClient := livefeed.NewStreamClient(cfg.LiveFeed.Host, cfg.LiveFeed.APIKey, stdLogger)
		o.feedCollector = livefeed.NewCollector(streamClient, repos.Match, 10*time.Second, stdLogger)
	}

	if err := o.registerJobs(); err != nil {
		return nil, fmt.Errorf("failed to register scheduled jobs: %w", err)
	}

	baseLogger.WithFields(logrus.Fields{
		"sports":     sports,
		"sources":    len(sources),
		"publishing": cfg.Features.PublishingEnabled,
		"live_feed":  cfg.Features.LiveFeedEnabled,
	}).Info("Orchestrator initialized")

	return o, nil
}

// registerJobs installs the recurring pipeline jobs on the scheduler
func (o *Orchestrator) registerJobs() error {
	sched := o.config.DataIngestion.Schedule

	// Per-source ingestion at each source's own poll interval
	for _, src := range o.config.DataIngestion.Sources {
		if !src.Enabled {
			continue
		}

		name := src.Name
		interval := time.Duration(src.PollIntervalMinutes) * time.Minute
		err := o.scheduler.ScheduleEvery("ingest-"+name, interval, 2*time.Minute, func(ctx context.Context) error {
			return o.ingestion.IngestSource(ctx, name)
		})
		if err != nil {
			return err
		}
	}

	jobs := []struct {
		name     string
		interval time.Duration
		timeout  time.Duration
		run      scheduler.JobFunc
	}{
		{"analysis", time.Duration(sched.AnalysisIntervalMinutes) * time.Minute, 2 * time.Minute,
			func(ctx context.Context) error {
				_, err := o.analysis.Run(ctx)
				return err
			}},
		{"live-updates", time.Duration(sched.LiveIntervalMinutes) * time.Minute, time.Minute,
			o.live.Run},
		{"odds-refresh", time.Duration(sched.OddsIntervalMinutes) * time.Minute, time.Minute,
			o.odds.Run},
		{"publisher", time.Duration(sched.AnalysisIntervalMinutes) * time.Minute, 3 * time.Minute,
			o.publisher.Run},
		{"settlement", time.Duration(sched.ResultsIntervalMinutes) * time.Minute, 2 * time.Minute,
			func(ctx context.Context) error {
				_, err := o.results.Run(ctx)
				return err
			}},
		{"statistics", time.Duration(sched.StatsIntervalMinutes) * time.Minute, time.Minute,
			o.statistics.Run},
		{"retraining", time.Duration(o.config.ML.RetrainingIntervalHours) * time.Hour, 30 * time.Minute,
			o.training.Run},
	}

	for _, job := range jobs {
		if err := o.scheduler.ScheduleEvery(job.name, job.interval, job.timeout, job.run); err != nil {
			return err
		}
	}

	cleanupExpr := fmt.Sprintf("0 %d * * *", sched.CleanupHourUTC)
	if err := o.scheduler.ScheduleCron("cleanup", cleanupExpr, 10*time.Minute, o.cleanup.Run); err != nil {
		return err
	}

	summaryExpr := fmt.Sprintf("0 %d * * *", o.config.Telegram.SummaryHourUTC)
	return o.scheduler.ScheduleCron("daily-summary", summaryExpr, 5*time.Minute, o.publisher.PublishDailySummary)
}

// Start starts the scheduler, monitor, and optional live feed
func (o *Orchestrator) Start(ctx context.Context) error {
	o.mu.Lock()
	if o.running {
		o.mu.Unlock()
		return fmt.Errorf("orchestrator is already running")
	}
	o.running = true
	o.mu.Unlock()

	o.logger.WithFields(logrus.Fields{
		"jobs":            o.scheduler.JobNames(),
		"circuit_breaker": o.circuitBreaker.GetState().String(),
	}).Info("Starting orchestrator")

	if err := o.scheduler.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	go func() {
		if err := o.monitor.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			o.logger.WithError(err).Error("Performance monitor stopped")
		}
	}()

	if o.feedCollector != nil {
		if err := o.feedCollector.Start(ctx, o.sports); err != nil {
			o.logger.WithError(err).Warn("Live feed collector failed to start")
		}
	}

	// Prime current stats so the first publish cycle has fresh gates
	if err := o.statistics.Run(ctx); err != nil {
		o.logger.WithError(err).Warn("Initial statistics refresh failed")
	}

	o.logger.Info("Orchestrator started")

	return nil
}

// Stop gracefully stops all components
func (o *Orchestrator) Stop() error {
	o.mu.Lock()
	if !o.running {
		o.mu.Unlock()
		return nil
	}
	o.running = false
	o.mu.Unlock()

	o.logger.Info("Stopping orchestrator")

	close(o.done)

	if err := o.scheduler.Stop(); err != nil {
		o.logger.WithError(err).Error("Failed to stop scheduler")
	}

	if err := o.monitor.Stop(); err != nil {
		o.logger.WithError(err).Error("Failed to stop monitor")
	}

	if o.feedCollector != nil {
		if err := o.feedCollector.Stop(); err != nil {
			o.logger.WithError(err).Error("Failed to stop live feed collector")
		}
	}

	if err := o.oddsCache.Close(); err != nil {
		o.logger.WithError(err).Error("Failed to close odds cache")
	}

	o.logger.Info("Orchestrator stopped")

	return nil
}

// IsRunning reports whether the orchestrator has been started
func (o *Orchestrator) IsRunning() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.running
}

// IngestNow runs a one-off ingestion cycle outside the schedule
func (o *Orchestrator) IngestNow(ctx context.Context) (*service.IngestionMetrics, error) {
	return o.ingestion.IngestAll(ctx)
}

// TrainNow runs a one-off retraining cycle outside the schedule
func (o *Orchestrator) TrainNow(ctx context.Context) error {
	return o.training.Run(ctx)
}

// GetStatus returns current orchestrator status
func (o *Orchestrator) GetStatus() *OrchestratorStatus {
	o.mu.RLock()
	defer o.mu.RUnlock()

	return &OrchestratorStatus{
		Running:             o.running,
		PublishingEnabled:   o.config.Features.PublishingEnabled,
		Sports:              o.sports,
		CircuitBreakerState: o.circuitBreaker.GetState(),
		MonitorMetrics:      o.monitor.GetMetrics(),
		ScheduledJobs:       o.scheduler.JobNames(),
		NextRun:             o.scheduler.GetNextRun(),
		LastUpdate:          time.Now(),
	}
}

// sportsFromSources derives the unique sport list from configured sources
func sportsFromSources(sources []config.DataSourceConfig) []string {
	seen := make(map[string]bool)
	var sports []string
	for _, src := range sources {
		if !src.Enabled || seen[src.Sport] {
			continue
		}
		seen[src.Sport] = true
		sports = append(sports, src.Sport)
	}
	sort.Strings(sports)
	return sports
}

// Package config provides configuration management for the BetPulse application.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App           AppConfig           `mapstructure:"app" validate:"required"`
	Database      DatabaseConfig      `mapstructure:"database" validate:"required"`
	Telegram      TelegramConfig      `mapstructure:"telegram" validate:"required"`
	ML            MLConfig            `mapstructure:"ml" validate:"required"`
	Signals       SignalsConfig       `mapstructure:"signals" validate:"required"`
	DataIngestion DataIngestionConfig `mapstructure:"data_ingestion" validate:"required"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Metrics       MetricsConfig       `mapstructure:"metrics" validate:"required"`
	Features      FeaturesConfig      `mapstructure:"features" validate:"required"`
	Bot           BotConfig           `mapstructure:"bot" validate:"required"`
	LiveFeed      LiveFeedConfig      `mapstructure:"live_feed"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// TelegramConfig represents Telegram publishing configuration
type TelegramConfig struct {
	APIURL                 string            `mapstructure:"api_url" validate:"required,url"`
	BotToken               string            `mapstructure:"bot_token" validate:"required"`
	Channels               map[string]string `mapstructure:"channels" validate:"required,sportkeys"`
	ChannelCooldownMinutes int               `mapstructure:"channel_cooldown_minutes" validate:"required,gt=0"`
	SendDelaySeconds       int               `mapstructure:"send_delay_seconds" validate:"gte=0"`
	SummaryHourUTC         int               `mapstructure:"summary_hour_utc" validate:"gte=0,lte=23"`
	DisclaimerEnabled      bool              `mapstructure:"disclaimer_enabled"`
	TimeoutSeconds         int               `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	RetryAttempts          int               `mapstructure:"retry_attempts" validate:"gte=0"`
}

// MLConfig represents in-process model training and prediction configuration
type MLConfig struct {
	ModelsDir               string  `mapstructure:"models_dir" validate:"required"`
	ConfidenceThreshold     float64 `mapstructure:"confidence_threshold" validate:"required,gte=0.5,lte=1"`
	MinTrainingSamples      int     `mapstructure:"min_training_samples" validate:"required,gt=0"`
	SyntheticSamples        int     `mapstructure:"synthetic_samples" validate:"required,gt=0"`
	TestSplit               float64 `mapstructure:"test_split" validate:"required,gt=0,lt=1"`
	CrossValidationFolds    int     `mapstructure:"cross_validation_folds" validate:"required,gt=1"`
	RetrainingIntervalHours int     `mapstructure:"retraining_interval_hours" validate:"required,gt=0"`
	CacheTTLSeconds         int     `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
	CacheMaxSize            int     `mapstructure:"cache_max_size" validate:"required,gt=0"`
	Seed                    int64   `mapstructure:"seed"`
}

// SignalsConfig represents signal generation gates and retention
type SignalsConfig struct {
	MinValueScore          float64 `mapstructure:"min_value_score" validate:"gte=0"`
	SkipStartWindowMinutes int     `mapstructure:"skip_start_window_minutes" validate:"gte=0"`
	MatchCooldownMinutes   int     `mapstructure:"match_cooldown_minutes" validate:"required,gt=0"`
	DailyLimit             int     `mapstructure:"daily_limit" validate:"required,gt=0"`
	MaxMatchAgeHours       int     `mapstructure:"max_match_age_hours" validate:"required,gt=0"`
	RetentionDays          int     `mapstructure:"retention_days" validate:"required,gt=0"`
}

// DataIngestionConfig represents data ingestion configuration
type DataIngestionConfig struct {
	Sources  []DataSourceConfig `mapstructure:"sources" validate:"required,min=1"`
	Schedule ScheduleConfig     `mapstructure:"schedule" validate:"required"`
}

// DataSourceConfig represents a single data source configuration
type DataSourceConfig struct {
	Name                string `mapstructure:"name" validate:"required"`
	Sport               string `mapstructure:"sport" validate:"required,sport"`
	BaseURL             string `mapstructure:"base_url" validate:"omitempty,url"`
	Enabled             bool   `mapstructure:"enabled"`
	BatchSize           int    `mapstructure:"batch_size" validate:"omitempty,gt=0"`
	APIKey              string `mapstructure:"api_key"`
	PollIntervalMinutes int    `mapstructure:"poll_interval_minutes" validate:"required,gt=0"`
}

// ScheduleConfig represents pipeline job scheduling
type ScheduleConfig struct {
	AnalysisIntervalMinutes int `mapstructure:"analysis_interval_minutes" validate:"required,gt=0"`
	LiveIntervalMinutes     int `mapstructure:"live_interval_minutes" validate:"required,gt=0"`
	OddsIntervalMinutes     int `mapstructure:"odds_interval_minutes" validate:"required,gt=0"`
	ResultsIntervalMinutes  int `mapstructure:"results_interval_minutes" validate:"required,gt=0"`
	StatsIntervalMinutes    int `mapstructure:"stats_interval_minutes" validate:"required,gt=0"`
	CleanupHourUTC          int `mapstructure:"cleanup_hour_utc" validate:"gte=0,lte=23"`
}

// RedisConfig represents the odds cache configuration
type RedisConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Addr       string `mapstructure:"addr" validate:"required_if=Enabled true"`
	Password   string `mapstructure:"password"`
	DB         int    `mapstructure:"db" validate:"gte=0"`
	TTLSeconds int    `mapstructure:"ttl_seconds" validate:"omitempty,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// FeaturesConfig represents feature flags
type FeaturesConfig struct {
	PublishingEnabled        bool `mapstructure:"publishing_enabled"`
	LiveFeedEnabled          bool `mapstructure:"live_feed_enabled"`
	SimulationEnabled        bool `mapstructure:"simulation_enabled"`
	AdvancedAnalyticsEnabled bool `mapstructure:"advanced_analytics_enabled"`
}

// BotConfig represents orchestrator-level configuration
type BotConfig struct {
	PerformanceUpdateInterval int     `mapstructure:"performance_update_interval" validate:"required,gt=0"`
	MaxConsecutiveLosses      int     `mapstructure:"max_consecutive_losses" validate:"required,gt=0"`
	MinTrailingAccuracy       float64 `mapstructure:"min_trailing_accuracy" validate:"required,gt=0,lt=1"`
	CooldownMinutes           int     `mapstructure:"cooldown_minutes" validate:"omitempty,gt=0"`
	RiskFreeRate              float64 `mapstructure:"risk_free_rate" validate:"gte=0,lte=1"`
}

// LiveFeedConfig represents the optional WebSocket score feed
type LiveFeedConfig struct {
	Host   string `mapstructure:"host"`
	APIKey string `mapstructure:"api_key"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetChannel returns the Telegram channel for a sport, or empty string
func (c *Config) GetChannel(sport string) string {
	return c.Telegram.Channels[sport]
}

// GetRedisTTLSeconds returns the odds cache TTL with a fallback default
func (c *Config) GetRedisTTLSeconds() int {
	if c.Redis.TTLSeconds <= 0 {
		return 300
	}
	return c.Redis.TTLSeconds
}

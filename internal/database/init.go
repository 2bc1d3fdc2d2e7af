package database

import (
	"context"
	"fmt"

	"github.com/yourusername/betpulse/internal/config"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS matches (
		id UUID PRIMARY KEY,
		sport TEXT NOT NULL,
		external_id TEXT NOT NULL,
		source TEXT NOT NULL,
		team1 TEXT NOT NULL,
		team2 TEXT NOT NULL,
		tournament TEXT NOT NULL DEFAULT '',
		stage TEXT NOT NULL DEFAULT '',
		format TEXT NOT NULL DEFAULT '',
		scheduled_at TIMESTAMPTZ NOT NULL,
		started_at TIMESTAMPTZ,
		status TEXT NOT NULL DEFAULT 'upcoming',
		score_team1 INT NOT NULL DEFAULT 0,
		score_team2 INT NOT NULL DEFAULT 0,
		odds_team1 NUMERIC(8,3),
		odds_team2 NUMERIC(8,3),
		features JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (source, external_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_matches_sport_status ON matches (sport, status)`,
	`CREATE INDEX IF NOT EXISTS idx_matches_scheduled_at ON matches (scheduled_at)`,
	`CREATE TABLE IF NOT EXISTS signals (
		id UUID PRIMARY KEY,
		match_id UUID NOT NULL REFERENCES matches (id) ON DELETE CASCADE,
		sport TEXT NOT NULL,
		outcome TEXT NOT NULL,
		probability DOUBLE PRECISION NOT NULL,
		confidence DOUBLE PRECISION NOT NULL,
		value_score DOUBLE PRECISION NOT NULL DEFAULT 0,
		explanation TEXT NOT NULL DEFAULT '',
		features JSONB,
		model_version TEXT NOT NULL DEFAULT '',
		published BOOLEAN NOT NULL DEFAULT FALSE,
		published_at TIMESTAMPTZ,
		result TEXT,
		settled_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_signals_match_id ON signals (match_id)`,
	`CREATE INDEX IF NOT EXISTS idx_signals_sport_created_at ON signals (sport, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_signals_unsettled ON signals (sport) WHERE result IS NULL`,
	`CREATE TABLE IF NOT EXISTS sport_statistics (
		sport TEXT PRIMARY KEY,
		total_signals INT NOT NULL DEFAULT 0,
		wins INT NOT NULL DEFAULT 0,
		losses INT NOT NULL DEFAULT 0,
		pushes INT NOT NULL DEFAULT 0,
		net_roi NUMERIC(12,4) NOT NULL DEFAULT 0,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS models (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		sport TEXT NOT NULL,
		version TEXT NOT NULL,
		model_type TEXT NOT NULL,
		path TEXT NOT NULL,
		metrics JSONB,
		hyperparameters JSONB,
		trained_at TIMESTAMPTZ NOT NULL,
		active BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (sport, model_type, version)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_models_sport_active ON models (sport, active)`,
	`CREATE TABLE IF NOT EXISTS odds_snapshots (
		time TIMESTAMPTZ NOT NULL,
		match_id UUID NOT NULL REFERENCES matches (id) ON DELETE CASCADE,
		source TEXT NOT NULL DEFAULT '',
		odds_team1 NUMERIC(8,3),
		odds_team2 NUMERIC(8,3),
		PRIMARY KEY (time, match_id)
	)`,
}

// EnsureSchema creates the tables and indexes the pipeline depends on
func EnsureSchema(ctx context.Context, db *DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}

// Initialize creates a database connection pool and bootstraps the schema
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	// Create connection pool
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	// Check whether any trained models are registered yet
	var modelCount int
	err = db.pool.QueryRow(ctx, "SELECT COUNT(*) FROM models WHERE active = TRUE").Scan(&modelCount)
	if err != nil {
		// Table was just created, counting should not fail
		return db, nil
	}

	if modelCount == 0 {
		fmt.Println("Warning: no active models registered. Run the train command before expecting signals.")
	}

	return db, nil
}

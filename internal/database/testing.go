package database

import (
	"context"
	"testing"
	"time"

	"github.com/yourusername/betpulse/internal/config"
)

// SetupTestDB creates a test database connection and bootstraps the schema
func SetupTestDB(t *testing.T) *DB {
	// Load config for test database
	cfg, err := config.Load("../../config/config.yaml.test")
	if err != nil {
		t.Fatalf("failed to load test config: %v", err)
	}

	// Create context for connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		t.Skipf("test database unavailable: %v", err)
	}

	// Verify connection and apply schema
	setupCtx, setupCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer setupCancel()

	if err := db.Ping(setupCtx); err != nil {
		t.Fatalf("failed to ping test database: %v", err)
	}

	if err := EnsureSchema(setupCtx, db); err != nil {
		t.Fatalf("failed to bootstrap test schema: %v", err)
	}

	return db
}

// TeardownTestDB closes the database connection cleanly
func TeardownTestDB(t *testing.T, db *DB) {
	db.Close()
}

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/yourusername/betpulse/internal/database"
	"github.com/yourusername/betpulse/internal/models"
)

func TestNewRepositoriesRequiresDB(t *testing.T) {
	repos, err := NewRepositories(nil)
	if err == nil {
		t.Fatal("expected error for nil database connection")
	}
	if repos != nil {
		t.Fatal("expected nil repositories on error")
	}
}

func TestNewRepositoriesWiresAll(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repos, err := NewRepositories(db)
	if err != nil {
		t.Fatalf("failed to create repositories: %v", err)
	}

	if repos.Match == nil || repos.Signal == nil || repos.Statistic == nil ||
		repos.Model == nil || repos.Odds == nil {
		t.Fatal("expected every repository to be wired")
	}

	// Smoke check one round trip so schema drift surfaces here
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := repos.Match.GetUpcoming(ctx, models.SportCS2, 1); err != nil {
		t.Fatalf("upcoming query failed: %v", err)
	}
}

package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/yourusername/betpulse/internal/logger"
	"github.com/yourusername/betpulse/internal/repository"
)

// CleanupService enforces the data retention window
type CleanupService struct {
	matchRepo   repository.MatchRepository
	signalRepo  repository.SignalRepository
	retention   time.Duration
	auditLogger *logger.AuditLogger
	logger      *log.Logger
}

// NewCleanupService creates a new cleanup service
func NewCleanupService(
	matchRepo repository.MatchRepository,
	signalRepo repository.SignalRepository,
	retentionDays int,
	auditLogger *logger.AuditLogger,
	stdLogger *log.Logger,
) *CleanupService {
	if retentionDays <= 0 {
		retentionDays = 30
	}

	return &CleanupService{
		matchRepo:   matchRepo,
		signalRepo:  signalRepo,
		retention:   time.Duration(retentionDays) * 24 * time.Hour,
		auditLogger: auditLogger,
		logger:      stdLogger,
	}
}

// Run deletes matches and signals older than the retention window
func (s *CleanupService) Run(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-s.retention)

	// signals reference matches, so they go first
	deletedSignals, err := s.signalRepo.DeleteBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to delete old signals: %w", err)
	}

	deletedMatches, err := s.matchRepo.DeleteFinishedBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to delete old matches: %w", err)
	}

	s.logger.Printf("Cleanup complete: %d matches, %d signals removed (cutoff %s)",
		deletedMatches, deletedSignals, cutoff.Format(time.RFC3339))
	s.auditLogger.LogDataRetentionRun(deletedMatches, deletedSignals, cutoff)

	return nil
}

package service

import (
	"fmt"
	"sync"
	"time"
)

// IngestionMetrics tracks statistics about a data ingestion run
type IngestionMetrics struct {
	mu                sync.RWMutex
	StartTime         time.Time
	Duration          time.Duration
	TotalMatches      int
	SuccessfulMatches int
	UpdatedMatches    int
	Duplicates        int
	ValidationErrors  int
	Errors            int
}

// NewIngestionMetrics creates a new metrics tracker
func NewIngestionMetrics() *IngestionMetrics {
	return &IngestionMetrics{
		StartTime: time.Now(),
	}
}

// Reset resets all metrics
func (m *IngestionMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.StartTime = time.Now()
	m.Duration = 0
	m.TotalMatches = 0
	m.SuccessfulMatches = 0
	m.UpdatedMatches = 0
	m.Duplicates = 0
	m.ValidationErrors = 0
	m.Errors = 0
}

// RecordMatch increments successful match count
func (m *IngestionMetrics) RecordMatch() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SuccessfulMatches++
}

// RecordUpdate increments updated match count
func (m *IngestionMetrics) RecordUpdate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdatedMatches++
}

// RecordDuplicate increments duplicate count
func (m *IngestionMetrics) RecordDuplicate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Duplicates++
}

// RecordError increments error count
func (m *IngestionMetrics) RecordError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors++
}

// RecordValidationError increments validation error count
func (m *IngestionMetrics) RecordValidationError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ValidationErrors++
}

// String returns a formatted string representation of metrics
func (m *IngestionMetrics) String() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	successRate := float64(0)
	if m.TotalMatches > 0 {
		successRate = float64(m.SuccessfulMatches) / float64(m.TotalMatches) * 100
	}

	return fmt.Sprintf(
		"IngestionMetrics{Total=%d, New=%d (%.1f%%), Updated=%d, Duplicates=%d, ValidationErrors=%d, Errors=%d, Duration=%v}",
		m.TotalMatches,
		m.SuccessfulMatches,
		successRate,
		m.UpdatedMatches,
		m.Duplicates,
		m.ValidationErrors,
		m.Errors,
		m.Duration,
	)
}

package bot

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/betpulse/internal/service"
)

// MonitorMetrics tracks monitoring statistics
type MonitorMetrics struct {
	UpdatesPerformed int64     `json:"updates_performed"`
	LastUpdateTime   time.Time `json:"last_update_time"`
	UpdateErrors     int64     `json:"update_errors"`
}

// Monitor periodically rolls up live signal performance per sport and
// feeds the trailing accuracy into the circuit breaker
type Monitor struct {
	sports         []string
	stats          *service.StatisticsService
	circuitBreaker *CircuitBreaker
	updateInterval time.Duration
	logger         *logrus.Logger
	metrics        *MonitorMetrics
	performance    map[string]*service.SportPerformance
	mu             sync.RWMutex
	done           chan struct{}
}

// NewMonitor creates a new performance monitor
func NewMonitor(
	sports []string,
	stats *service.StatisticsService,
	circuitBreaker *CircuitBreaker,
	updateInterval time.Duration,
	logger *logrus.Logger,
) *Monitor {
	if updateInterval <= 0 {
		updateInterval = time.Minute
	}

	return &Monitor{
		sports:         sports,
		stats:          stats,
		circuitBreaker: circuitBreaker,
		updateInterval: updateInterval,
		logger:         logger,
		metrics: &MonitorMetrics{
			LastUpdateTime: time.Now(),
		},
		performance: make(map[string]*service.SportPerformance),
		done:        make(chan struct{}),
	}
}

// Start begins the monitoring loop
func (m *Monitor) Start(ctx context.Context) error {
	m.logger.WithField("update_interval", m.updateInterval).Info("Starting performance monitor")

	ticker := time.NewTicker(m.updateInterval)
	defer ticker.Stop()

	if err := m.UpdatePerformance(ctx); err != nil {
		m.logger.WithError(err).Error("Initial performance update failed")
	}

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("Performance monitor stopped by context")
			return ctx.Err()

		case <-m.done:
			m.logger.Info("Performance monitor stopped")
			return nil

		case <-ticker.C:
			if err := m.UpdatePerformance(ctx); err != nil {
				m.logger.WithError(err).Error("Performance update failed")
			}
		}
	}
}

// Stop gracefully stops the monitor
func (m *Monitor) Stop() error {
	close(m.done)
	return nil
}

// UpdatePerformance recomputes each sport's trailing performance once
func (m *Monitor) UpdatePerformance(ctx context.Context) error {
	var lastErr error

	for _, sport := range m.sports {
		perf, err := m.stats.TrailingPerformance(ctx, sport)
		if err != nil {
			m.mu.Lock()
			m.metrics.UpdateErrors++
			m.mu.Unlock()
			lastErr = err
			continue
		}

		m.mu.Lock()
		m.performance[sport] = perf
		m.mu.Unlock()

		decided := perf.Wins + perf.Losses
		accuracy := perf.WinRate
		if decided == 0 {
			accuracy = -1
		}

		if m.circuitBreaker != nil {
			m.circuitBreaker.RecordTrailingAccuracy(sport, accuracy, decided)
		}

		m.logger.WithFields(logrus.Fields{
			"sport":       sport,
			"settled":     perf.Settled,
			"wins":        perf.Wins,
			"losses":      perf.Losses,
			"win_rate":    perf.WinRate,
			"roi":         perf.ROI,
			"window_days": perf.WindowDays,
		}).Debug("Performance rollup updated")
	}

	m.mu.Lock()
	m.metrics.UpdatesPerformed++
	m.metrics.LastUpdateTime = time.Now()
	m.mu.Unlock()

	return lastErr
}

// GetPerformance returns the latest rollup for one sport
func (m *Monitor) GetPerformance(sport string) (*service.SportPerformance, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	perf, ok := m.performance[sport]
	return perf, ok
}

// GetMetrics returns current monitor metrics
func (m *Monitor) GetMetrics() MonitorMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return *m.metrics
}

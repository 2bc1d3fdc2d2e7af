package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/betpulse/internal/database"
	"github.com/yourusername/betpulse/internal/models"
)

// PostgresStatisticRepository implements StatisticRepository for PostgreSQL
type PostgresStatisticRepository struct {
	db *database.DB
}

// NewPostgresStatisticRepository creates a new statistic repository
func NewPostgresStatisticRepository(db *database.DB) StatisticRepository {
	return &PostgresStatisticRepository{db: db}
}

// Upsert inserts or replaces the statistics row for a sport
func (r *PostgresStatisticRepository) Upsert(ctx context.Context, stat *models.SportStatistic) error {
	query := `
		INSERT INTO sport_statistics (sport, total_signals, wins, losses, pushes, net_roi, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (sport) DO UPDATE SET
			total_signals = EXCLUDED.total_signals,
			wins = EXCLUDED.wins,
			losses = EXCLUDED.losses,
			pushes = EXCLUDED.pushes,
			net_roi = EXCLUDED.net_roi,
			updated_at = NOW()
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		stat.Sport, stat.TotalSignals, stat.Wins, stat.Losses, stat.Pushes, stat.NetROI,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert statistics: %w", err)
	}

	return nil
}

// GetBySport retrieves the statistics row for a sport
func (r *PostgresStatisticRepository) GetBySport(ctx context.Context, sport string) (*models.SportStatistic, error) {
	query := `
		SELECT sport, total_signals, wins, losses, pushes, net_roi, updated_at
		FROM sport_statistics WHERE sport = $1
	`

	stat := &models.SportStatistic{}
	err := r.db.GetPool().QueryRow(ctx, query, sport).Scan(
		&stat.Sport, &stat.TotalSignals, &stat.Wins, &stat.Losses, &stat.Pushes,
		&stat.NetROI, &stat.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get statistics: %w", err)
	}

	return stat, nil
}

// GetAll retrieves statistics for every sport
func (r *PostgresStatisticRepository) GetAll(ctx context.Context) ([]*models.SportStatistic, error) {
	query := `
		SELECT sport, total_signals, wins, losses, pushes, net_roi, updated_at
		FROM sport_statistics
		ORDER BY sport ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query statistics: %w", err)
	}
	defer rows.Close()

	var stats []*models.SportStatistic
	for rows.Next() {
		stat := &models.SportStatistic{}
		err := rows.Scan(
			&stat.Sport, &stat.TotalSignals, &stat.Wins, &stat.Losses, &stat.Pushes,
			&stat.NetROI, &stat.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan statistics: %w", err)
		}
		stats = append(stats, stat)
	}

	return stats, rows.Err()
}

// Recompute rebuilds the statistics row for a sport from the signals table
// and persists it in a single statement
func (r *PostgresStatisticRepository) Recompute(ctx context.Context, sport string) (*models.SportStatistic, error) {
	query := `
		INSERT INTO sport_statistics (sport, total_signals, wins, losses, pushes, net_roi, updated_at)
		SELECT
			$1,
			COUNT(*),
			COUNT(*) FILTER (WHERE result = 'win'),
			COUNT(*) FILTER (WHERE result = 'loss'),
			COUNT(*) FILTER (WHERE result = 'push'),
			COALESCE(SUM(CASE
				WHEN s.result = 'win' THEN
					CASE WHEN s.outcome = 'team1' THEN COALESCE(m.odds_team1, 2.0) - 1
					     ELSE COALESCE(m.odds_team2, 2.0) - 1 END
				WHEN s.result = 'loss' THEN -1
				ELSE 0
			END), 0),
			NOW()
		FROM signals s
		LEFT JOIN matches m ON m.id = s.match_id
		WHERE s.sport = $1
		ON CONFLICT (sport) DO UPDATE SET
			total_signals = EXCLUDED.total_signals,
			wins = EXCLUDED.wins,
			losses = EXCLUDED.losses,
			pushes = EXCLUDED.pushes,
			net_roi = EXCLUDED.net_roi,
			updated_at = NOW()
		RETURNING sport, total_signals, wins, losses, pushes, net_roi, updated_at
	`

	stat := &models.SportStatistic{}
	err := r.db.GetPool().QueryRow(ctx, query, sport).Scan(
		&stat.Sport, &stat.TotalSignals, &stat.Wins, &stat.Losses, &stat.Pushes,
		&stat.NetROI, &stat.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to recompute statistics: %w", err)
	}

	return stat, nil
}

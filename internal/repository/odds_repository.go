package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/betpulse/internal/database"
	"github.com/yourusername/betpulse/internal/models"
)

// PostgresOddsRepository implements OddsRepository for PostgreSQL
type PostgresOddsRepository struct {
	db *database.DB
}

// NewPostgresOddsRepository creates a new odds repository
func NewPostgresOddsRepository(db *database.DB) OddsRepository {
	return &PostgresOddsRepository{db: db}
}

// Insert inserts a single odds snapshot
func (o *PostgresOddsRepository) Insert(ctx context.Context, odds *models.OddsSnapshot) error {
	query := `
		INSERT INTO odds_snapshots (time, match_id, source, odds_team1, odds_team2)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (time, match_id) DO NOTHING
	`

	_, err := o.db.GetPool().Exec(ctx, query,
		odds.Time, odds.MatchID, odds.Source, odds.OddsTeam1, odds.OddsTeam2,
	)
	if err != nil {
		return fmt.Errorf("failed to insert odds snapshot: %w", err)
	}

	return nil
}

// InsertBatch inserts multiple odds snapshots using high-performance batch insert
func (o *PostgresOddsRepository) InsertBatch(ctx context.Context, odds []*models.OddsSnapshot) error {
	if len(odds) == 0 {
		return nil
	}

	// Use COPY for high-performance bulk insert
	columns := []string{"time", "match_id", "source", "odds_team1", "odds_team2"}

	copyFromSource := make([][]interface{}, len(odds))
	for i, snapshot := range odds {
		copyFromSource[i] = []interface{}{
			snapshot.Time, snapshot.MatchID, snapshot.Source, snapshot.OddsTeam1, snapshot.OddsTeam2,
		}
	}

	count, err := o.db.GetPool().CopyFrom(ctx, pgx.Identifier{"odds_snapshots"}, columns, pgx.CopyFromRows(copyFromSource))
	if err != nil {
		return fmt.Errorf("failed to batch insert odds snapshots: %w", err)
	}

	if count != int64(len(odds)) {
		return fmt.Errorf("inserted %d rows, expected %d", count, len(odds))
	}

	return nil
}

// GetByMatchID retrieves odds snapshots for a match within a time range
func (o *PostgresOddsRepository) GetByMatchID(ctx context.Context, matchID uuid.UUID, start, end time.Time) ([]*models.OddsSnapshot, error) {
	query := `
		SELECT time, match_id, source, odds_team1, odds_team2
		FROM odds_snapshots
		WHERE match_id = $1 AND time >= $2 AND time <= $3
		ORDER BY time ASC
	`

	rows, err := o.db.GetPool().Query(ctx, query, matchID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query odds by match: %w", err)
	}
	defer rows.Close()

	var snapshots []*models.OddsSnapshot
	for rows.Next() {
		snapshot := &models.OddsSnapshot{}
		err := rows.Scan(
			&snapshot.Time, &snapshot.MatchID, &snapshot.Source, &snapshot.OddsTeam1, &snapshot.OddsTeam2,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan odds: %w", err)
		}
		snapshots = append(snapshots, snapshot)
	}

	return snapshots, rows.Err()
}

// GetLatest retrieves the most recent odds snapshot for a match
func (o *PostgresOddsRepository) GetLatest(ctx context.Context, matchID uuid.UUID) (*models.OddsSnapshot, error) {
	query := `
		SELECT time, match_id, source, odds_team1, odds_team2
		FROM odds_snapshots
		WHERE match_id = $1
		ORDER BY time DESC
		LIMIT 1
	`

	snapshot := &models.OddsSnapshot{}
	err := o.db.GetPool().QueryRow(ctx, query, matchID).Scan(
		&snapshot.Time, &snapshot.MatchID, &snapshot.Source, &snapshot.OddsTeam1, &snapshot.OddsTeam2,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest odds: %w", err)
	}

	return snapshot, nil
}

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/yourusername/betpulse/internal/database"
	"github.com/yourusername/betpulse/internal/models"
)

const (
	errScanMatch = "failed to scan match: %w"

	matchColumns = `id, sport, external_id, source, team1, team2, tournament, stage, format,
	       scheduled_at, started_at, status, score_team1, score_team2,
	       odds_team1, odds_team2, features, created_at, updated_at`
)

// PostgresMatchRepository implements MatchRepository for PostgreSQL
type PostgresMatchRepository struct {
	db *database.DB
}

// NewPostgresMatchRepository creates a new match repository
func NewPostgresMatchRepository(db *database.DB) MatchRepository {
	return &PostgresMatchRepository{db: db}
}

func scanMatch(row pgx.Row) (*models.Match, error) {
	match := &models.Match{}
	err := row.Scan(
		&match.ID, &match.Sport, &match.ExternalID, &match.Source, &match.Team1, &match.Team2,
		&match.Tournament, &match.Stage, &match.Format, &match.ScheduledAt, &match.StartedAt,
		&match.Status, &match.ScoreTeam1, &match.ScoreTeam2, &match.OddsTeam1, &match.OddsTeam2,
		&match.Features, &match.CreatedAt, &match.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return match, nil
}

// Create inserts a new match
func (r *PostgresMatchRepository) Create(ctx context.Context, match *models.Match) error {
	query := `
		INSERT INTO matches (id, sport, external_id, source, team1, team2, tournament, stage, format,
		                     scheduled_at, started_at, status, score_team1, score_team2,
		                     odds_team1, odds_team2, features)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		match.ID, match.Sport, match.ExternalID, match.Source, match.Team1, match.Team2,
		match.Tournament, match.Stage, match.Format, match.ScheduledAt, match.StartedAt,
		match.Status, match.ScoreTeam1, match.ScoreTeam2, match.OddsTeam1, match.OddsTeam2,
		match.Features,
	)
	if err != nil {
		return fmt.Errorf("failed to create match: %w", err)
	}

	return nil
}

// Upsert inserts a match or refreshes the mutable columns when the
// (source, external_id) pair already exists
func (r *PostgresMatchRepository) Upsert(ctx context.Context, match *models.Match) error {
	query := `
		INSERT INTO matches (id, sport, external_id, source, team1, team2, tournament, stage, format,
		                     scheduled_at, started_at, status, score_team1, score_team2,
		                     odds_team1, odds_team2, features)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (source, external_id) DO UPDATE SET
			team1 = EXCLUDED.team1,
			team2 = EXCLUDED.team2,
			tournament = EXCLUDED.tournament,
			stage = EXCLUDED.stage,
			format = EXCLUDED.format,
			scheduled_at = EXCLUDED.scheduled_at,
			status = EXCLUDED.status,
			updated_at = NOW()
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		match.ID, match.Sport, match.ExternalID, match.Source, match.Team1, match.Team2,
		match.Tournament, match.Stage, match.Format, match.ScheduledAt, match.StartedAt,
		match.Status, match.ScoreTeam1, match.ScoreTeam2, match.OddsTeam1, match.OddsTeam2,
		match.Features,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert match: %w", err)
	}

	return nil
}

// GetByID retrieves a match by ID
func (r *PostgresMatchRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Match, error) {
	query := fmt.Sprintf("SELECT %s FROM matches WHERE id = $1", matchColumns)

	match, err := scanMatch(r.db.GetPool().QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}

	return match, nil
}

// GetByExternalID retrieves a match by its source identifier
func (r *PostgresMatchRepository) GetByExternalID(ctx context.Context, source, externalID string) (*models.Match, error) {
	query := fmt.Sprintf("SELECT %s FROM matches WHERE source = $1 AND external_id = $2", matchColumns)

	match, err := scanMatch(r.db.GetPool().QueryRow(ctx, query, source, externalID))
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match by external id: %w", err)
	}

	return match, nil
}

// GetUpcoming retrieves upcoming matches for a sport ordered by start time
func (r *PostgresMatchRepository) GetUpcoming(ctx context.Context, sport string, limit int) ([]*models.Match, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM matches
		WHERE sport = $1 AND status = 'upcoming' AND scheduled_at > NOW()
		ORDER BY scheduled_at ASC
		LIMIT $2
	`, matchColumns)

	rows, err := r.db.GetPool().Query(ctx, query, sport, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query upcoming matches: %w", err)
	}
	defer rows.Close()

	return collectMatches(rows)
}

// GetLive retrieves matches currently in progress for a sport
func (r *PostgresMatchRepository) GetLive(ctx context.Context, sport string) ([]*models.Match, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM matches
		WHERE sport = $1 AND status = 'live'
		ORDER BY scheduled_at ASC
	`, matchColumns)

	rows, err := r.db.GetPool().Query(ctx, query, sport)
	if err != nil {
		return nil, fmt.Errorf("failed to query live matches: %w", err)
	}
	defer rows.Close()

	return collectMatches(rows)
}

// GetFinishedSince retrieves matches finished after the given time
func (r *PostgresMatchRepository) GetFinishedSince(ctx context.Context, since time.Time) ([]*models.Match, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM matches
		WHERE status = 'finished' AND updated_at >= $1
		ORDER BY updated_at ASC
	`, matchColumns)

	rows, err := r.db.GetPool().Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query finished matches: %w", err)
	}
	defer rows.Close()

	return collectMatches(rows)
}

// GetFinishedWithFeatures retrieves finished matches carrying a feature vector,
// newest first, for model training
func (r *PostgresMatchRepository) GetFinishedWithFeatures(ctx context.Context, sport string, limit int) ([]*models.Match, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM matches
		WHERE sport = $1 AND status = 'finished' AND features IS NOT NULL
		      AND score_team1 != score_team2
		ORDER BY scheduled_at DESC
		LIMIT $2
	`, matchColumns)

	rows, err := r.db.GetPool().Query(ctx, query, sport, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query training matches: %w", err)
	}
	defer rows.Close()

	return collectMatches(rows)
}

// Update updates the mutable fields of an existing match
func (r *PostgresMatchRepository) Update(ctx context.Context, match *models.Match) error {
	query := `
		UPDATE matches SET
			started_at = $2, status = $3, score_team1 = $4, score_team2 = $5,
			features = $6, updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := r.db.GetPool().Exec(ctx, query,
		match.ID, match.StartedAt, match.Status, match.ScoreTeam1, match.ScoreTeam2, match.Features,
	)
	if err != nil {
		return fmt.Errorf("failed to update match: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// UpdateOdds refreshes the current odds columns for a match
func (r *PostgresMatchRepository) UpdateOdds(ctx context.Context, id uuid.UUID, oddsTeam1, oddsTeam2 *decimal.Decimal) error {
	query := `
		UPDATE matches SET odds_team1 = $2, odds_team2 = $3, updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := r.db.GetPool().Exec(ctx, query, id, oddsTeam1, oddsTeam2)
	if err != nil {
		return fmt.Errorf("failed to update match odds: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// DeleteFinishedBefore removes finished and cancelled matches older than the cutoff
func (r *PostgresMatchRepository) DeleteFinishedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		DELETE FROM matches
		WHERE status IN ('finished', 'cancelled') AND scheduled_at < $1
	`

	commandTag, err := r.db.GetPool().Exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired matches: %w", err)
	}

	return commandTag.RowsAffected(), nil
}

func collectMatches(rows pgx.Rows) ([]*models.Match, error) {
	var matches []*models.Match
	for rows.Next() {
		match, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf(errScanMatch, err)
		}
		matches = append(matches, match)
	}

	return matches, rows.Err()
}

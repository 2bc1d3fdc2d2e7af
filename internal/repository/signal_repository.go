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

const (
	errScanSignal = "failed to scan signal: %w"

	signalColumns = `id, match_id, sport, outcome, probability, confidence, value_score,
	       explanation, features, model_version, published, published_at,
	       result, settled_at, created_at`
)

// PostgresSignalRepository implements SignalRepository for PostgreSQL
type PostgresSignalRepository struct {
	db *database.DB
}

// NewPostgresSignalRepository creates a new signal repository
func NewPostgresSignalRepository(db *database.DB) SignalRepository {
	return &PostgresSignalRepository{db: db}
}

func scanSignal(row pgx.Row) (*models.Signal, error) {
	signal := &models.Signal{}
	err := row.Scan(
		&signal.ID, &signal.MatchID, &signal.Sport, &signal.Outcome, &signal.Probability,
		&signal.Confidence, &signal.ValueScore, &signal.Explanation, &signal.Features,
		&signal.ModelVersion, &signal.Published, &signal.PublishedAt, &signal.Result,
		&signal.SettledAt, &signal.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return signal, nil
}

// Create inserts a new signal
func (r *PostgresSignalRepository) Create(ctx context.Context, signal *models.Signal) error {
	query := `
		INSERT INTO signals (id, match_id, sport, outcome, probability, confidence, value_score,
		                     explanation, features, model_version, published)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		signal.ID, signal.MatchID, signal.Sport, signal.Outcome, signal.Probability,
		signal.Confidence, signal.ValueScore, signal.Explanation, signal.Features,
		signal.ModelVersion, signal.Published,
	)
	if err != nil {
		return fmt.Errorf("failed to create signal: %w", err)
	}

	return nil
}

// GetByID retrieves a signal by ID
func (r *PostgresSignalRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Signal, error) {
	query := fmt.Sprintf("SELECT %s FROM signals WHERE id = $1", signalColumns)

	signal, err := scanSignal(r.db.GetPool().QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get signal: %w", err)
	}

	return signal, nil
}

// GetByMatchID retrieves all signals for a match, newest first
func (r *PostgresSignalRepository) GetByMatchID(ctx context.Context, matchID uuid.UUID) ([]*models.Signal, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM signals
		WHERE match_id = $1
		ORDER BY created_at DESC
	`, signalColumns)

	rows, err := r.db.GetPool().Query(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query signals by match: %w", err)
	}
	defer rows.Close()

	return collectSignals(rows)
}

// GetUnpublished retrieves unpublished signals for a sport, oldest first
func (r *PostgresSignalRepository) GetUnpublished(ctx context.Context, sport string, limit int) ([]*models.Signal, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM signals
		WHERE sport = $1 AND published = FALSE
		ORDER BY created_at ASC
		LIMIT $2
	`, signalColumns)

	rows, err := r.db.GetPool().Query(ctx, query, sport, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query unpublished signals: %w", err)
	}
	defer rows.Close()

	return collectSignals(rows)
}

// CountCreatedSince counts signals created for a sport after the given time
func (r *PostgresSignalRepository) CountCreatedSince(ctx context.Context, sport string, since time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM signals
		WHERE sport = $1 AND created_at >= $2
	`

	var count int
	err := r.db.GetPool().QueryRow(ctx, query, sport, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count signals: %w", err)
	}

	return count, nil
}

// MarkPublished flags a signal as published
func (r *PostgresSignalRepository) MarkPublished(ctx context.Context, id uuid.UUID, publishedAt time.Time) error {
	query := `
		UPDATE signals SET published = TRUE, published_at = $2
		WHERE id = $1
	`

	commandTag, err := r.db.GetPool().Exec(ctx, query, id, publishedAt)
	if err != nil {
		return fmt.Errorf("failed to mark signal published: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// GetUnsettled retrieves signals without a recorded result
func (r *PostgresSignalRepository) GetUnsettled(ctx context.Context) ([]*models.Signal, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM signals
		WHERE result IS NULL
		ORDER BY created_at ASC
	`, signalColumns)

	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query unsettled signals: %w", err)
	}
	defer rows.Close()

	return collectSignals(rows)
}

// Settle records the result for a signal
func (r *PostgresSignalRepository) Settle(ctx context.Context, id uuid.UUID, result string, settledAt time.Time) error {
	query := `
		UPDATE signals SET result = $2, settled_at = $3
		WHERE id = $1 AND result IS NULL
	`

	commandTag, err := r.db.GetPool().Exec(ctx, query, id, result, settledAt)
	if err != nil {
		return fmt.Errorf("failed to settle signal: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// GetSettledSince retrieves settled signals for a sport after the given time
func (r *PostgresSignalRepository) GetSettledSince(ctx context.Context, sport string, since time.Time) ([]*models.Signal, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM signals
		WHERE sport = $1 AND result IS NOT NULL AND settled_at >= $2
		ORDER BY settled_at ASC
	`, signalColumns)

	rows, err := r.db.GetPool().Query(ctx, query, sport, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query settled signals: %w", err)
	}
	defer rows.Close()

	return collectSignals(rows)
}

// GetPublishedSince retrieves published signals for a sport after the given time
func (r *PostgresSignalRepository) GetPublishedSince(ctx context.Context, sport string, since time.Time) ([]*models.Signal, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM signals
		WHERE sport = $1 AND published = TRUE AND published_at >= $2
		ORDER BY published_at ASC
	`, signalColumns)

	rows, err := r.db.GetPool().Query(ctx, query, sport, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query published signals: %w", err)
	}
	defer rows.Close()

	return collectSignals(rows)
}

// DeleteBefore removes signals created before the cutoff
func (r *PostgresSignalRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := "DELETE FROM signals WHERE created_at < $1"

	commandTag, err := r.db.GetPool().Exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired signals: %w", err)
	}

	return commandTag.RowsAffected(), nil
}

func collectSignals(rows pgx.Rows) ([]*models.Signal, error) {
	var signals []*models.Signal
	for rows.Next() {
		signal, err := scanSignal(rows)
		if err != nil {
			return nil, fmt.Errorf(errScanSignal, err)
		}
		signals = append(signals, signal)
	}

	return signals, rows.Err()
}

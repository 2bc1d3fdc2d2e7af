package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yourusername/betpulse/internal/models"
)

// MatchRepository defines the interface for match data access
type MatchRepository interface {
	Create(ctx context.Context, match *models.Match) error
	Upsert(ctx context.Context, match *models.Match) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Match, error)
	GetByExternalID(ctx context.Context, source, externalID string) (*models.Match, error)
	GetUpcoming(ctx context.Context, sport string, limit int) ([]*models.Match, error)
	GetLive(ctx context.Context, sport string) ([]*models.Match, error)
	GetFinishedSince(ctx context.Context, since time.Time) ([]*models.Match, error)
	GetFinishedWithFeatures(ctx context.Context, sport string, limit int) ([]*models.Match, error)
	Update(ctx context.Context, match *models.Match) error
	UpdateOdds(ctx context.Context, id uuid.UUID, oddsTeam1, oddsTeam2 *decimal.Decimal) error
	DeleteFinishedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// SignalRepository defines the interface for signal data access
type SignalRepository interface {
	Create(ctx context.Context, signal *models.Signal) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Signal, error)
	GetByMatchID(ctx context.Context, matchID uuid.UUID) ([]*models.Signal, error)
	GetUnpublished(ctx context.Context, sport string, limit int) ([]*models.Signal, error)
	CountCreatedSince(ctx context.Context, sport string, since time.Time) (int, error)
	MarkPublished(ctx context.Context, id uuid.UUID, publishedAt time.Time) error
	GetUnsettled(ctx context.Context) ([]*models.Signal, error)
	Settle(ctx context.Context, id uuid.UUID, result string, settledAt time.Time) error
	GetSettledSince(ctx context.Context, sport string, since time.Time) ([]*models.Signal, error)
	GetPublishedSince(ctx context.Context, sport string, since time.Time) ([]*models.Signal, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// StatisticRepository defines the interface for per-sport statistics
type StatisticRepository interface {
	Upsert(ctx context.Context, stat *models.SportStatistic) error
	GetBySport(ctx context.Context, sport string) (*models.SportStatistic, error)
	GetAll(ctx context.Context) ([]*models.SportStatistic, error)
	Recompute(ctx context.Context, sport string) (*models.SportStatistic, error)
}

// ModelRepository defines the interface for ML model data access
type ModelRepository interface {
	Create(ctx context.Context, model *models.Model) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Model, error)
	GetActive(ctx context.Context, sport string) ([]*models.Model, error)
	GetByVersion(ctx context.Context, name, version string) (*models.Model, error)
	Update(ctx context.Context, model *models.Model) error
	SetActive(ctx context.Context, id uuid.UUID) error
}

// OddsRepository defines the interface for odds snapshot data access
type OddsRepository interface {
	Insert(ctx context.Context, odds *models.OddsSnapshot) error
	InsertBatch(ctx context.Context, odds []*models.OddsSnapshot) error
	GetByMatchID(ctx context.Context, matchID uuid.UUID, start, end time.Time) ([]*models.OddsSnapshot, error)
	GetLatest(ctx context.Context, matchID uuid.UUID) (*models.OddsSnapshot, error)
}

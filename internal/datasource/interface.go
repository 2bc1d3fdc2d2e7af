package datasource

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// MatchSource defines the interface for fetching match data from external providers
type MatchSource interface {
	// FetchUpcoming retrieves upcoming matches from the provider
	FetchUpcoming(ctx context.Context) ([]MatchData, error)

	// Name returns the name of the data source
	Name() string

	// Sport returns the sport this source covers
	Sport() string

	// IsEnabled returns whether this data source is currently enabled
	IsEnabled() bool
}

// MatchData represents normalized match data from any data source
type MatchData struct {
	SourceID    string             `json:"source_id"`    // Provider's unique match ID
	Sport       string             `json:"sport"`        // Sport code (cs2, khl)
	Team1       string             `json:"team1"`        // First team name
	Team2       string             `json:"team2"`        // Second team name
	Tournament  string             `json:"tournament"`   // Tournament or league name
	Stage       string             `json:"stage"`        // Stage (group, playoff, final)
	Format      string             `json:"format"`       // Match format (BO1, BO3, BO5)
	ScheduledAt time.Time          `json:"scheduled_at"` // Start time UTC
	OddsTeam1   *decimal.Decimal   `json:"odds_team1"`   // Decimal odds if available
	OddsTeam2   *decimal.Decimal   `json:"odds_team2"`   // Decimal odds if available
	Features    map[string]float64 `json:"features"`     // Raw feature bag (ratings, form, h2h)
	CreatedAt   time.Time          `json:"created_at"`   // When data was fetched
}

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
	ErrCodeUnknown              = "unknown"
)

// Error constructors
var (
	ErrRateLimitExceeded    = errors.New("rate limit exceeded")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrNotFound             = errors.New("data not found")
	ErrInvalidData          = errors.New("invalid data format")
	ErrNetworkError         = errors.New("network error")
	ErrServerError          = errors.New("server error")
)

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

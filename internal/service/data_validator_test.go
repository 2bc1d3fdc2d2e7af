package service

import (
	"log"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/betpulse/internal/models"
)

const validatorPrefix = "validator: "

func newTestValidator() *DataValidator {
	logger := log.New(os.Stderr, validatorPrefix, log.LstdFlags)
	return NewDataValidator(logger)
}

func validMatch() *models.Match {
	odds1 := decimal.NewFromFloat(1.85)
	odds2 := decimal.NewFromFloat(1.95)
	return &models.Match{
		ID:          uuid.New(),
		Sport:       models.SportCS2,
		ExternalID:  "hltv-2371001",
		Source:      "cs2",
		Team1:       "Natus Vincere",
		Team2:       "FaZe",
		Tournament:  "IEM Katowice",
		Stage:       "semifinal",
		Format:      "BO3",
		ScheduledAt: time.Now().Add(6 * time.Hour),
		Status:      models.MatchStatusUpcoming,
		OddsTeam1:   &odds1,
		OddsTeam2:   &odds2,
	}
}

// TestMatchValidation tests match validation rules using the production validator
func TestMatchValidation(t *testing.T) {
	validator := newTestValidator()

	lowOdds := decimal.NewFromFloat(0.95)

	tests := []struct {
		name        string
		mutate      func(*models.Match)
		expectValid bool
		shouldHave  string // error message substring to check
	}{
		{
			name:        "Valid match data",
			mutate:      func(m *models.Match) {},
			expectValid: true,
		},
		{
			name:        "Unsupported sport",
			mutate:      func(m *models.Match) { m.Sport = "nba" },
			expectValid: false,
			shouldHave:  "unsupported sport",
		},
		{
			name:        "Missing external ID",
			mutate:      func(m *models.Match) { m.ExternalID = "" },
			expectValid: false,
			shouldHave:  "external_id is required",
		},
		{
			name:        "Missing team1",
			mutate:      func(m *models.Match) { m.Team1 = "" },
			expectValid: false,
			shouldHave:  "team1 is required",
		},
		{
			name:        "Identical teams",
			mutate:      func(m *models.Match) { m.Team2 = m.Team1 },
			expectValid: false,
			shouldHave:  "must differ",
		},
		{
			name:        "Missing scheduled time",
			mutate:      func(m *models.Match) { m.ScheduledAt = time.Time{} },
			expectValid: false,
			shouldHave:  "scheduled_at is required",
		},
		{
			name:        "Scheduled too far in the past",
			mutate:      func(m *models.Match) { m.ScheduledAt = time.Now().Add(-48 * time.Hour) },
			expectValid: false,
			shouldHave:  "scheduled in past",
		},
		{
			name:        "Scheduled too far in the future",
			mutate:      func(m *models.Match) { m.ScheduledAt = time.Now().Add(120 * 24 * time.Hour) },
			expectValid: false,
			shouldHave:  "90 days in future",
		},
		{
			name:        "Odds below 1.0",
			mutate:      func(m *models.Match) { m.OddsTeam1 = &lowOdds },
			expectValid: false,
			shouldHave:  "must be greater than 1.0",
		},
		{
			name: "Nil odds are allowed",
			mutate: func(m *models.Match) {
				m.OddsTeam1 = nil
				m.OddsTeam2 = nil
			},
			expectValid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match := validMatch()
			tt.mutate(match)

			errs := validator.ValidateMatch(match)
			if tt.expectValid {
				assert.Empty(t, errs, "expected no validation errors, got %v", errs)
				return
			}

			require.NotEmpty(t, errs, "expected validation errors")
			found := false
			for _, msg := range errs {
				if strings.Contains(msg, tt.shouldHave) {
					found = true
					break
				}
			}
			assert.True(t, found, "expected error containing %q, got %v", tt.shouldHave, errs)
		})
	}
}

func TestFeatureValidation(t *testing.T) {
	validator := newTestValidator()

	tests := []struct {
		name        string
		features    map[string]float64
		expectValid bool
	}{
		{
			name: "Valid features",
			features: map[string]float64{
				"team1_rating":      1100,
				"team2_rating":      1050,
				"h2h_team1_winrate": 0.6,
			},
			expectValid: true,
		},
		{
			name:        "Negative rating",
			features:    map[string]float64{"team1_rating": -5},
			expectValid: false,
		},
		{
			name:        "Win rate out of range",
			features:    map[string]float64{"h2h_team1_winrate": 1.4},
			expectValid: false,
		},
		{
			name:        "Empty bag is valid",
			features:    map[string]float64{},
			expectValid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := validator.ValidateFeatures(tt.features)
			if tt.expectValid {
				assert.Empty(t, errs)
			} else {
				assert.NotEmpty(t, errs)
			}
		})
	}
}

func TestSportAndFormatHelpers(t *testing.T) {
	validator := newTestValidator()

	assert.True(t, validator.IsValidSport(models.SportCS2))
	assert.True(t, validator.IsValidSport(models.SportKHL))
	assert.False(t, validator.IsValidSport("tennis"))

	assert.True(t, validator.IsValidFormat("BO3"))
	assert.False(t, validator.IsValidFormat("BO2"))

	assert.True(t, validator.IsValidStatus(models.MatchStatusLive))
	assert.False(t, validator.IsValidStatus("postponed"))
}

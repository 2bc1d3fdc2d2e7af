package service

import (
	"io"
	"log"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/betpulse/internal/datasource"
	"github.com/yourusername/betpulse/internal/models"
)

func newTestNormalizer() *DataNormalizer {
	return NewDataNormalizer(log.New(io.Discard, "", 0))
}

func TestNormalizeMatch(t *testing.T) {
	normalizer := newTestNormalizer()

	odds := decimal.NewFromFloat(1.72)
	scheduled := time.Date(2026, 9, 2, 18, 0, 0, 0, time.FixedZone("CEST", 2*3600))

	source := &datasource.MatchData{
		SourceID:    "hltv-2371001",
		Sport:       " CS2 ",
		Team1:       "  NAVI ",
		Team2:       "9INE Esports",
		Tournament:  " IEM Katowice ",
		Stage:       "Semi-final",
		Format:      "bo3",
		ScheduledAt: scheduled,
		OddsTeam1:   &odds,
		Features:    map[string]float64{"team1_rating": 1100},
	}

	match, err := normalizer.NormalizeMatch(source, "cs2")
	require.NoError(t, err)

	assert.Equal(t, models.SportCS2, match.Sport)
	assert.Equal(t, "Natus Vincere", match.Team1)
	assert.Equal(t, "9INE Esports", match.Team2, "unknown spellings pass through trimmed")
	assert.Equal(t, "IEM Katowice", match.Tournament)
	assert.Equal(t, "semifinal", match.Stage)
	assert.Equal(t, "BO3", match.Format)
	assert.Equal(t, models.MatchStatusUpcoming, match.Status)
	assert.Equal(t, time.UTC, match.ScheduledAt.Location())
	assert.Equal(t, scheduled.UTC(), match.ScheduledAt)
	require.NotNil(t, match.OddsTeam1)

	bag, err := match.FeatureMap()
	require.NoError(t, err)
	assert.Equal(t, 1100.0, bag["team1_rating"])
}

func TestNormalizeMatchNil(t *testing.T) {
	normalizer := newTestNormalizer()

	_, err := normalizer.NormalizeMatch(nil, "cs2")
	require.Error(t, err)
}

func TestNormalizeTeamName(t *testing.T) {
	normalizer := newTestNormalizer()

	tests := []struct {
		in   string
		want string
	}{
		{"NAVI", "Natus Vincere"},
		{"natus vincere", "Natus Vincere"},
		{"FAZE CLAN", "FaZe"},
		{"ska st. petersburg", "SKA St. Petersburg"},
		{"  Team   Liquid  ", "Team Liquid"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizer.normalizeTeamName(tt.in), "input %q", tt.in)
	}
}

func TestNormalizeStage(t *testing.T) {
	normalizer := newTestNormalizer()

	tests := []struct {
		in   string
		want string
	}{
		{"Grand Final", "final"},
		{"semi-final", "semifinal"},
		{"Regular Season", "group"},
		{"Playoffs", "playoff"},
		{"showmatch", "showmatch"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizer.normalizeStage(tt.in), "input %q", tt.in)
	}
}

func TestNormalizeOdds(t *testing.T) {
	normalizer := newTestNormalizer()

	odds := normalizer.NormalizeOdds("2.50")
	require.NotNil(t, odds)
	assert.Equal(t, "2.5", odds.String())

	assert.Nil(t, normalizer.NormalizeOdds(""))
	assert.Nil(t, normalizer.NormalizeOdds("0.80"), "odds at or below 1.0 are rejected")
	assert.Nil(t, normalizer.NormalizeOdds("not-a-number"))
}

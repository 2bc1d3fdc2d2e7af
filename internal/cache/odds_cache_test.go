package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/betpulse/internal/config"
	"github.com/yourusername/betpulse/internal/models"
)

func TestMemoryOddsCacheRoundTrip(t *testing.T) {
	c := NewMemoryOddsCache(time.Minute)
	matchID := uuid.New()
	odds1 := decimal.NewFromFloat(1.85)
	odds2 := decimal.NewFromFloat(2.05)

	snapshot := &models.OddsSnapshot{
		Time:      time.Now().UTC(),
		MatchID:   matchID,
		Source:    "hltv",
		OddsTeam1: &odds1,
		OddsTeam2: &odds2,
	}

	require.NoError(t, c.SetCurrent(context.Background(), snapshot))

	got, err := c.GetCurrent(context.Background(), matchID)
	require.NoError(t, err)
	assert.Equal(t, matchID, got.MatchID)
	assert.True(t, got.OddsTeam1.Equal(odds1))
}

func TestMemoryOddsCacheMiss(t *testing.T) {
	c := NewMemoryOddsCache(time.Minute)

	_, err := c.GetCurrent(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrOddsNotCached)
}

func TestNewDisabledRedisFallsBackToMemory(t *testing.T) {
	c, err := New(context.Background(), &config.RedisConfig{Enabled: false})
	require.NoError(t, err)

	_, ok := c.(*MemoryOddsCache)
	assert.True(t, ok)
}

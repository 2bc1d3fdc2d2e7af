package helpers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/betpulse/internal/models"
)

// UpcomingMatch builds a valid upcoming match fixture for the given sport.
func UpcomingMatch(t *testing.T, sport string) *models.Match {
	t.Helper()

	odds1 := decimal.NewFromFloat(1.85)
	odds2 := decimal.NewFromFloat(1.95)
	features, err := json.Marshal(map[string]float64{
		"team1_rating":      1050,
		"team2_rating":      980,
		"tournament_tier":   2,
		"format_importance": 0.6,
		"h2h_team1_winrate": 0.55,
	})
	require.NoError(t, err)

	now := time.Now().UTC()
	return &models.Match{
		ID:          uuid.New(),
		Sport:       sport,
		ExternalID:  fmt.Sprintf("test-%s", uuid.New().String()[:8]),
		Source:      "test",
		Team1:       "Team Alpha",
		Team2:       "Team Beta",
		Tournament:  "Test Cup",
		Stage:       "group",
		Format:      "BO3",
		ScheduledAt: now.Add(6 * time.Hour).Truncate(time.Second),
		Status:      models.MatchStatusUpcoming,
		OddsTeam1:   &odds1,
		OddsTeam2:   &odds2,
		Features:    features,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// FinishedMatch builds a match fixture that has already completed with the
// given score.
func FinishedMatch(t *testing.T, sport string, score1, score2 int) *models.Match {
	t.Helper()

	match := UpcomingMatch(t, sport)
	started := time.Now().UTC().Add(-3 * time.Hour)
	match.ScheduledAt = started
	match.StartedAt = &started
	match.Status = models.MatchStatusFinished
	match.ScoreTeam1 = score1
	match.ScoreTeam2 = score2
	return match
}

// PendingSignal builds an unpublished, unsettled signal for a match.
func PendingSignal(t *testing.T, matchID uuid.UUID, sport string) *models.Signal {
	t.Helper()

	features, err := json.Marshal(map[string]float64{
		"rating_diff": 70,
		"value_score": 0.18,
	})
	require.NoError(t, err)

	return &models.Signal{
		ID:           uuid.New(),
		MatchID:      matchID,
		Sport:        sport,
		Outcome:      models.OutcomeTeam1,
		Probability:  0.64,
		Confidence:   0.78,
		ValueScore:   0.18,
		Explanation:  "Team Alpha rating edge with favourable head-to-head record",
		Features:     features,
		ModelVersion: "v1-test",
		CreatedAt:    time.Now().UTC(),
	}
}

// SettledSignal builds a signal that has been published and settled with the
// given result.
func SettledSignal(t *testing.T, matchID uuid.UUID, sport, result string, confidence float64) *models.Signal {
	t.Helper()

	sig := PendingSignal(t, matchID, sport)
	sig.Confidence = confidence
	publishedAt := time.Now().UTC().Add(-2 * time.Hour)
	settledAt := time.Now().UTC().Add(-1 * time.Hour)
	sig.Published = true
	sig.PublishedAt = &publishedAt
	sig.Result = &result
	sig.SettledAt = &settledAt
	return sig
}

// MockCS2FeedServer creates a mock HTTP server imitating the CS2 upcoming
// matches feed.
func MockCS2FeedServer(t *testing.T) *httptest.Server {
	t.Helper()

	odds1 := "1.62"
	odds2 := "2.30"

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/matches/upcoming" {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]map[string]interface{}{
			{
				"id": "cs2-mock-1",
				"team1": map[string]interface{}{
					"name":    "NaVi",
					"ranking": 2,
					"rating":  1.12,
				},
				"team2": map[string]interface{}{
					"name":    "FaZe",
					"ranking": 5,
					"rating":  1.05,
				},
				"event":           "Mock Masters",
				"stage":           "group",
				"bestOf":          3,
				"startTime":       time.Now().UTC().Add(8 * time.Hour).Format(time.RFC3339),
				"odds1":           &odds1,
				"odds2":           &odds2,
				"h2hTeam1Winrate": 0.58,
				"eventTier":       1,
			},
		})
	})

	return httptest.NewServer(handler)
}

// MockTelegramServer creates a mock HTTP server that accepts sendMessage
// calls for any bot token and records how many were received.
func MockTelegramServer(t *testing.T, received *int) *httptest.Server {
	t.Helper()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if received != nil {
			*received++
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"ok": true,
			"result": map[string]interface{}{
				"message_id": 1001,
			},
		})
	})

	return httptest.NewServer(handler)
}

// WaitForCondition waits for a condition to become true or times out.
func WaitForCondition(t *testing.T, timeout time.Duration, condition func() bool, message string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(100 * time.Millisecond)
	}

	require.Fail(t, "condition not met within timeout", message)
}

// CreateTestContext creates a context with a timeout for testing.
func CreateTestContext(t *testing.T, timeout time.Duration) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)

	return ctx
}

// GetEnvOrDefault returns environment variable value or a default.
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// SkipIfShort skips test if running in short mode.
func SkipIfShort(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test in short mode")
	}
}

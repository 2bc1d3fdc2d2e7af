package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/betpulse/internal/config"
	"github.com/yourusername/betpulse/internal/datasource"
	"github.com/yourusername/betpulse/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	httpClient := datasource.NewRateLimitedHTTPClient(datasource.HTTPClientConfig{
		Timeout:           5 * time.Second,
		MaxRetries:        0,
		RetryWaitMin:      time.Millisecond,
		RetryWaitMax:      time.Millisecond,
		RateLimit:         100,
		CircuitBreakerMax: 5,
	}, nil)

	return NewClient(&config.TelegramConfig{
		APIURL:   server.URL,
		BotToken: "test-token",
	}, httpClient, nil)
}

func TestNewClientDefaultLoggerWrites(t *testing.T) {
	client := NewClient(&config.TelegramConfig{
		APIURL:   "https://api.telegram.org",
		BotToken: "test-token",
	}, nil, nil)

	require.NotNil(t, client.logger)
	assert.NotPanics(t, func() {
		client.logger.Printf("default logger must accept writes")
	})
}

func TestSendMessageSuccess(t *testing.T) {
	var received sendMessageRequest

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bottest-token/sendMessage", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":42,"chat":{"id":-100123}}}`))
	})

	sent, err := client.SendMessage(context.Background(), "@cs2_signals", "<b>hello</b>")
	require.NoError(t, err)

	assert.Equal(t, int64(42), sent.MessageID)
	assert.Equal(t, "@cs2_signals", received.ChatID)
	assert.Equal(t, "<b>hello</b>", received.Text)
	assert.Equal(t, "HTML", received.ParseMode)
	assert.True(t, received.DisableWebPagePreview)
}

func TestSendMessageAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`))
	})

	_, err := client.SendMessage(context.Background(), "@missing", "hi")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.ErrorCode)
	assert.Contains(t, apiErr.Description, "chat not found")
}

func TestSendMessageRateLimited(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"ok":false,"error_code":429,"description":"Too Many Requests","parameters":{"retry_after":7}}`))
	})

	_, err := client.SendMessage(context.Background(), "@busy", "hi")
	require.Error(t, err)

	var rateErr *RateLimitedError
	require.ErrorAs(t, err, &rateErr)
	assert.Equal(t, 7, rateErr.RetryAfter)
}

func TestSendMessageConfigurationErrors(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := client.SendMessage(context.Background(), "", "hi")
	var cfgErr *ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestFormatSignalMessage(t *testing.T) {
	match := &models.Match{
		Sport:       models.SportCS2,
		Team1:       "NAVI",
		Team2:       "FaZe",
		Tournament:  "IEM Katowice",
		ScheduledAt: time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC),
	}
	sig := &models.Signal{
		Sport:       models.SportCS2,
		Outcome:     models.OutcomeTeam2,
		Confidence:  0.74,
		Explanation: "FaZe dominates the head-to-head record",
	}

	msg := FormatSignalMessage(match, sig, true)

	assert.Contains(t, msg, "<b>CS2 signal</b>")
	assert.Contains(t, msg, "NAVI vs FaZe")
	assert.Contains(t, msg, "IEM Katowice")
	assert.Contains(t, msg, "Pick: <b>FaZe</b>")
	assert.Contains(t, msg, "Confidence: 74%")
	assert.Contains(t, msg, "Bet responsibly")
}

func TestFormatDailySummary(t *testing.T) {
	stats := []*models.SportStatistic{
		{Sport: models.SportCS2, Wins: 6, Losses: 3, Pushes: 1},
		{Sport: models.SportKHL}, // nothing settled, omitted
	}

	msg := FormatDailySummary(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), stats, 12, 0.73)

	assert.Contains(t, msg, "Signals today: 12")
	assert.Contains(t, msg, "Average confidence: 73%")
	assert.Contains(t, msg, "<b>CS2</b>: 6W-3L-1P")
	assert.NotContains(t, msg, "<b>KHL</b>")
}

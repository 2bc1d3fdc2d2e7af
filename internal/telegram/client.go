// Package telegram implements the outbound Bot API client used to publish signals.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/yourusername/betpulse/internal/config"
	"github.com/yourusername/betpulse/internal/datasource"
)

// Client sends messages through the Telegram Bot API
type Client struct {
	httpClient *datasource.RateLimitedHTTPClient
	apiURL     string
	botToken   string
	logger     *log.Logger
}

// sendMessageRequest is the Bot API sendMessage payload
type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode,omitempty"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview,omitempty"`
}

// apiResponse is the Bot API response envelope
type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result,omitempty"`
	ErrorCode   int             `json:"error_code,omitempty"`
	Description string          `json:"description,omitempty"`
	Parameters  *struct {
		RetryAfter int `json:"retry_after,omitempty"`
	} `json:"parameters,omitempty"`
}

// SentMessage carries the identifiers of a delivered message
type SentMessage struct {
	MessageID int64 `json:"message_id"`
	Chat      struct {
		ID int64 `json:"id"`
	} `json:"chat"`
}

// NewClient creates a new Telegram Bot API client
func NewClient(cfg *config.TelegramConfig, httpClient *datasource.RateLimitedHTTPClient, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	return &Client{
		httpClient: httpClient,
		apiURL:     cfg.APIURL,
		botToken:   cfg.BotToken,
		logger:     logger,
	}
}

// SendMessage delivers an HTML-formatted message to the given channel.
func (c *Client) SendMessage(ctx context.Context, chatID, text string) (*SentMessage, error) {
	if c.botToken == "" {
		return nil, NewConfigurationError("bot token is not set", nil)
	}
	if chatID == "" {
		return nil, NewConfigurationError("chat id is empty", nil)
	}

	start := time.Now()

	result, err := c.call(ctx, "sendMessage", sendMessageRequest{
		ChatID:                chatID,
		Text:                  text,
		ParseMode:             "HTML",
		DisableWebPagePreview: true,
	})
	if err != nil {
		MessagesSendErrorsTotal.WithLabelValues(chatID).Inc()
		return nil, err
	}

	var sent SentMessage
	if err := json.Unmarshal(result, &sent); err != nil {
		return nil, fmt.Errorf("failed to decode sendMessage result: %w", err)
	}

	MessagesSentTotal.WithLabelValues(chatID).Inc()
	MessageSendLatency.Observe(time.Since(start).Seconds())
	c.logger.Printf("Telegram message %d delivered to %s", sent.MessageID, chatID)

	return &sent, nil
}

// call performs a Bot API method invocation.
func (c *Client) call(ctx context.Context, method string, payload interface{}) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("%s/bot%s/%s", c.apiURL, url.PathEscape(c.botToken), method)

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if !apiResp.OK {
		if apiResp.ErrorCode == http.StatusTooManyRequests && apiResp.Parameters != nil {
			return nil, NewRateLimitedError(apiResp.Description, apiResp.Parameters.RetryAfter)
		}
		return nil, NewAPIError(apiResp.Description, apiResp.ErrorCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return apiResp.Result, nil
}

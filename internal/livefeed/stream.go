package livefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// StreamClient handles the WebSocket connection to a live score feed
type StreamClient struct {
	conn            *websocket.Conn
	apiKey          string
	baseURL         string
	mu              sync.RWMutex
	isConnected     bool
	handlers        []EventHandler
	reconnectConfig ReconnectConfig
	lastMessageTime time.Time
	logger          *log.Logger
}

// ReconnectConfig controls reconnection behavior
type ReconnectConfig struct {
	MaxRetries        int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
}

// EventHandler is called for each event received from the feed
type EventHandler func(event ScoreEvent) error

// ScoreEvent represents a live score update from the feed
type ScoreEvent struct {
	Op         string `json:"op"`
	Source     string `json:"source,omitempty"`
	Sport      string `json:"sport,omitempty"`
	ExternalID string `json:"matchId,omitempty"`
	ScoreTeam1 int    `json:"scoreTeam1,omitempty"`
	ScoreTeam2 int    `json:"scoreTeam2,omitempty"`
	Status     string `json:"status,omitempty"`
	Timestamp  int64  `json:"ts,omitempty"`
}

// DefaultReconnectConfig returns default reconnection configuration
func DefaultReconnectConfig() ReconnectConfig {
	return ReconnectConfig{
		MaxRetries:        10,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 1.5,
	}
}

// NewStreamClient creates a new live feed stream client
func NewStreamClient(feedURL, apiKey string, logger *log.Logger) *StreamClient {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	return &StreamClient{
		apiKey:          apiKey,
		baseURL:         feedURL,
		handlers:        make([]EventHandler, 0),
		reconnectConfig: DefaultReconnectConfig(),
		logger:          logger,
	}
}

// Connect establishes the WebSocket connection to the feed
func (s *StreamClient) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isConnected {
		return fmt.Errorf("already connected")
	}

	wsURL := fmt.Sprintf("wss://%s/live", s.baseURL)

	s.logger.Printf("Connecting to live feed: %s", wsURL)

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to live feed: %w", err)
	}

	s.conn = conn
	s.isConnected = true
	s.lastMessageTime = time.Now()

	s.logger.Printf("Connected to live feed")

	go s.readMessages()

	return nil
}

// Run keeps the feed connected, reconnecting with exponential backoff
// until the context is cancelled or the retry budget is exhausted.
func (s *StreamClient) Run(ctx context.Context, sports []string) error {
	backoff := s.reconnectConfig.InitialBackoff
	retries := 0

	for {
		if err := s.Connect(ctx); err != nil {
			retries++
			if s.reconnectConfig.MaxRetries > 0 && retries > s.reconnectConfig.MaxRetries {
				return fmt.Errorf("live feed reconnect budget exhausted: %w", err)
			}

			s.logger.Printf("Live feed connect failed (attempt %d), retrying in %s: %v", retries, backoff, err)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}

			backoff = time.Duration(float64(backoff) * s.reconnectConfig.BackoffMultiplier)
			if backoff > s.reconnectConfig.MaxBackoff {
				backoff = s.reconnectConfig.MaxBackoff
			}
			continue
		}

		retries = 0
		backoff = s.reconnectConfig.InitialBackoff

		if err := s.Subscribe(ctx, sports); err != nil {
			s.logger.Printf("Live feed subscribe failed: %v", err)
			s.Close()
			continue
		}

		// Wait for disconnect or shutdown
		ticker := time.NewTicker(5 * time.Second)
	monitor:
		for {
			select {
			case <-ctx.Done():
				ticker.Stop()
				return s.Close()
			case <-ticker.C:
				if !s.IsConnected() {
					ticker.Stop()
					s.logger.Printf("Live feed disconnected, reconnecting")
					break monitor
				}
			}
		}
	}
}

// Subscribe sends a subscription message for the given sports
func (s *StreamClient) Subscribe(ctx context.Context, sports []string) error {
	s.mu.RLock()
	if !s.isConnected || s.conn == nil {
		s.mu.RUnlock()
		return fmt.Errorf("not connected to live feed")
	}
	s.mu.RUnlock()

	subMsg := map[string]interface{}{
		"op":        "subscribe",
		"apiKey":    s.apiKey,
		"sports":    sports,
		"heartbeat": true,
	}

	s.logger.Printf("Subscribing to live feed for %d sports", len(sports))
	return s.sendMessage(subMsg)
}

// AddHandler registers an event handler
func (s *StreamClient) AddHandler(handler EventHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, handler)
}

// readMessages reads events from the WebSocket connection
func (s *StreamClient) readMessages() {
	defer s.Close()

	for {
		var raw json.RawMessage
		err := s.conn.ReadJSON(&raw)
		if err != nil {
			s.logger.Printf("Error reading live feed message: %v", err)
			s.mu.Lock()
			s.isConnected = false
			s.mu.Unlock()
			return
		}

		s.mu.Lock()
		s.lastMessageTime = time.Now()
		s.mu.Unlock()

		var event ScoreEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			s.logger.Printf("Failed to unmarshal live feed event: %v", err)
			continue
		}

		s.mu.RLock()
		handlers := s.handlers
		s.mu.RUnlock()

		for _, handler := range handlers {
			if err := handler(event); err != nil {
				s.logger.Printf("Live feed handler error: %v", err)
			}
		}
	}
}

// sendMessage sends a JSON message to the feed
func (s *StreamClient) sendMessage(msg interface{}) error {
	s.mu.RLock()
	if !s.isConnected || s.conn == nil {
		s.mu.RUnlock()
		return fmt.Errorf("not connected")
	}
	conn := s.conn
	s.mu.RUnlock()

	return conn.WriteJSON(msg)
}

// IsConnected returns whether the feed is connected
func (s *StreamClient) IsConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isConnected
}

// LastMessageTime returns the time of the last received event
func (s *StreamClient) LastMessageTime() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastMessageTime
}

// Close closes the feed connection
func (s *StreamClient) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil
	}

	s.isConnected = false
	return s.conn.Close()
}

// Ping sends a ping message to keep the connection alive
func (s *StreamClient) Ping() error {
	return s.sendMessage(map[string]interface{}{
		"op": "ping",
	})
}

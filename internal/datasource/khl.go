package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yourusername/betpulse/internal/models"
)

// KHLClient implements MatchSource for the KHL calendar feed
type KHLClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	enabled    bool
	logger     *log.Logger
	simulated  *SimulatedFixtures
}

// khlGame represents a game entry from the KHL feed
type khlGame struct {
	ID        string   `json:"id"`
	HomeTeam  khlTeam  `json:"homeTeam"`
	AwayTeam  khlTeam  `json:"awayTeam"`
	StartAt   int64    `json:"startAt"` // unix millis
	Stage     string   `json:"stageName"`
	Odds      *khlOdds `json:"odds"`
	H2HSeries float64  `json:"h2hHomeWinShare"`
}

// khlTeam represents a team entry from the KHL feed
type khlTeam struct {
	Name   string  `json:"name"`
	Points int     `json:"points"`
	Rating float64 `json:"rating"`
}

// khlOdds represents bookmaker odds from the KHL feed
type khlOdds struct {
	Home string `json:"home"`
	Away string `json:"away"`
}

// NewKHLClient creates a new KHL calendar client
func NewKHLClient(httpClient *RateLimitedHTTPClient, baseURL string, enabled bool, logger *log.Logger) *KHLClient {
	if baseURL == "" {
		baseURL = "https://khl-api.example.com/v2"
	}
	return &KHLClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		enabled:    enabled,
		logger:     logger,
		simulated:  NewSimulatedFixtures(models.SportKHL),
	}
}

// FetchUpcoming retrieves upcoming KHL games, falling back to generated
// sample fixtures when the provider is unreachable.
func (c *KHLClient) FetchUpcoming(ctx context.Context) ([]MatchData, error) {
	if !c.enabled {
		return nil, NewDataSourceError("khl", ErrCodeNetworkError, dataSourceDisabledMsg, nil)
	}

	matches, err := c.fetchFromProvider(ctx)
	if err != nil {
		if c.logger != nil {
			c.logger.Printf("KHL provider fetch failed, using simulated fixtures: %v", err)
		}
		return c.simulated.Upcoming(), nil
	}
	return matches, nil
}

func (c *KHLClient) fetchFromProvider(ctx context.Context) ([]MatchData, error) {
	url := fmt.Sprintf("%s/calendar/upcoming", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, NewDataSourceError("khl", ErrCodeNetworkError, "failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, NewDataSourceError("khl", ErrCodeNetworkError, "failed to fetch calendar", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, NewDataSourceError("khl", ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, NewDataSourceError("khl", ErrCodeServerError, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	var feed []khlGame
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, NewDataSourceError("khl", ErrCodeInvalidData, "failed to parse response", err)
	}

	matches := make([]MatchData, 0, len(feed))
	for _, g := range feed {
		if g.HomeTeam.Name == "" || g.AwayTeam.Name == "" {
			continue
		}

		match := MatchData{
			SourceID:    g.ID,
			Sport:       models.SportKHL,
			Team1:       g.HomeTeam.Name,
			Team2:       g.AwayTeam.Name,
			Tournament:  "KHL",
			Stage:       g.Stage,
			Format:      "BO1",
			ScheduledAt: time.UnixMilli(g.StartAt).UTC(),
			Features: map[string]float64{
				"team1_rating":      g.HomeTeam.Rating,
				"team2_rating":      g.AwayTeam.Rating,
				"team1_points":      float64(g.HomeTeam.Points),
				"team2_points":      float64(g.AwayTeam.Points),
				"team1_home":        1,
				"tournament_tier":   2,
				"format_importance": 1,
				"stage_importance":  stageImportance(g.Stage),
				"h2h_team1_winrate": g.H2HSeries,
			},
			CreatedAt: time.Now().UTC(),
		}

		if g.Odds != nil {
			if odds, err := decimal.NewFromString(g.Odds.Home); err == nil {
				match.OddsTeam1 = &odds
			}
			if odds, err := decimal.NewFromString(g.Odds.Away); err == nil {
				match.OddsTeam2 = &odds
			}
		}

		matches = append(matches, match)
	}

	return matches, nil
}

// Name returns the data source name
func (c *KHLClient) Name() string {
	return "khl"
}

// Sport returns the sport this source covers
func (c *KHLClient) Sport() string {
	return models.SportKHL
}

// IsEnabled returns whether this data source is enabled
func (c *KHLClient) IsEnabled() bool {
	return c.enabled
}

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

const dataSourceDisabledMsg = "data source is disabled"

// CS2Client implements MatchSource for an HLTV-style CS2 match feed
type CS2Client struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	enabled    bool
	logger     *log.Logger
	simulated  *SimulatedFixtures
}

// cs2Match represents a match entry from the CS2 feed
type cs2Match struct {
	ID         string  `json:"id"`
	Team1      cs2Team `json:"team1"`
	Team2      cs2Team `json:"team2"`
	Event      string  `json:"event"`
	Stage      string  `json:"stage"`
	BestOf     int     `json:"bestOf"`
	StartTime  string  `json:"startTime"`
	Odds1      *string `json:"odds1"`
	Odds2      *string `json:"odds2"`
	H2HWinrate float64 `json:"h2hTeam1Winrate"`
	Tier       int     `json:"eventTier"`
}

// cs2Team represents a team entry from the CS2 feed
type cs2Team struct {
	Name    string  `json:"name"`
	Ranking int     `json:"ranking"`
	Rating  float64 `json:"rating"`
}

// NewCS2Client creates a new CS2 match feed client
func NewCS2Client(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, enabled bool, logger *log.Logger) *CS2Client {
	if baseURL == "" {
		baseURL = "https://hltv-api.example.com/v1"
	}
	return &CS2Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		enabled:    enabled,
		logger:     logger,
		simulated:  NewSimulatedFixtures(models.SportCS2),
	}
}

// FetchUpcoming retrieves upcoming CS2 matches. When the provider is
// unreachable the client falls back to generated sample fixtures so the
// pipeline keeps flowing.
func (c *CS2Client) FetchUpcoming(ctx context.Context) ([]MatchData, error) {
	if !c.enabled {
		return nil, NewDataSourceError("cs2", ErrCodeNetworkError, dataSourceDisabledMsg, nil)
	}

	matches, err := c.fetchFromProvider(ctx)
	if err != nil {
		if c.logger != nil {
			c.logger.Printf("CS2 provider fetch failed, using simulated fixtures: %v", err)
		}
		return c.simulated.Upcoming(), nil
	}
	return matches, nil
}

func (c *CS2Client) fetchFromProvider(ctx context.Context) ([]MatchData, error) {
	url := fmt.Sprintf("%s/matches/upcoming", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, NewDataSourceError("cs2", ErrCodeNetworkError, "failed to create request", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, NewDataSourceError("cs2", ErrCodeNetworkError, "failed to fetch matches", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, NewDataSourceError("cs2", ErrCodeAuthenticationFailed, "invalid API key", nil)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, NewDataSourceError("cs2", ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, NewDataSourceError("cs2", ErrCodeServerError, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	var feed []cs2Match
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, NewDataSourceError("cs2", ErrCodeInvalidData, "failed to parse response", err)
	}

	matches := make([]MatchData, 0, len(feed))
	for _, m := range feed {
		match, err := c.convertMatch(m)
		if err != nil {
			if c.logger != nil {
				c.logger.Printf("Skipping malformed CS2 match %s: %v", m.ID, err)
			}
			continue
		}
		matches = append(matches, match)
	}

	return matches, nil
}

func (c *CS2Client) convertMatch(m cs2Match) (MatchData, error) {
	if m.Team1.Name == "" || m.Team2.Name == "" {
		return MatchData{}, ErrInvalidData
	}

	scheduledAt, err := time.Parse(time.RFC3339, m.StartTime)
	if err != nil {
		return MatchData{}, fmt.Errorf("bad start time %q: %w", m.StartTime, err)
	}

	match := MatchData{
		SourceID:    m.ID,
		Sport:       models.SportCS2,
		Team1:       m.Team1.Name,
		Team2:       m.Team2.Name,
		Tournament:  m.Event,
		Stage:       m.Stage,
		Format:      fmt.Sprintf("BO%d", m.BestOf),
		ScheduledAt: scheduledAt.UTC(),
		Features: map[string]float64{
			"team1_rating":      m.Team1.Rating,
			"team2_rating":      m.Team2.Rating,
			"team1_ranking":     float64(m.Team1.Ranking),
			"team2_ranking":     float64(m.Team2.Ranking),
			"tournament_tier":   float64(m.Tier),
			"format_importance": formatImportance(m.BestOf),
			"stage_importance":  stageImportance(m.Stage),
			"h2h_team1_winrate": m.H2HWinrate,
		},
		CreatedAt: time.Now().UTC(),
	}

	if m.Odds1 != nil {
		if odds, err := decimal.NewFromString(*m.Odds1); err == nil {
			match.OddsTeam1 = &odds
		}
	}
	if m.Odds2 != nil {
		if odds, err := decimal.NewFromString(*m.Odds2); err == nil {
			match.OddsTeam2 = &odds
		}
	}

	return match, nil
}

// Name returns the data source name
func (c *CS2Client) Name() string {
	return "cs2"
}

// Sport returns the sport this source covers
func (c *CS2Client) Sport() string {
	return models.SportCS2
}

// IsEnabled returns whether this data source is enabled
func (c *CS2Client) IsEnabled() bool {
	return c.enabled
}

func formatImportance(bestOf int) float64 {
	switch {
	case bestOf >= 5:
		return 3
	case bestOf >= 3:
		return 2
	default:
		return 1
	}
}

func stageImportance(stage string) float64 {
	switch stage {
	case "final", "grand_final":
		return 3
	case "playoff", "semifinal", "quarterfinal":
		return 2
	case "group", "group_stage":
		return 1
	default:
		return 0
	}
}

package service

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yourusername/betpulse/internal/datasource"
	"github.com/yourusername/betpulse/internal/models"
)

// DataNormalizer normalizes match data from various sources to standard format
type DataNormalizer struct {
	teamNameMap map[string]string // Maps provider team names to canonical names
	logger      *log.Logger
}

// NewDataNormalizer creates a new data normalizer
func NewDataNormalizer(logger *log.Logger) *DataNormalizer {
	return &DataNormalizer{
		teamNameMap: buildTeamNameMap(),
		logger:      logger,
	}
}

// NormalizeMatch converts MatchData from any source to the internal Match model
func (n *DataNormalizer) NormalizeMatch(sourceMatch *datasource.MatchData, sourceName string) (*models.Match, error) {
	if sourceMatch == nil {
		return nil, fmt.Errorf("source match is nil")
	}

	features, err := json.Marshal(sourceMatch.Features)
	if err != nil {
		return nil, fmt.Errorf("failed to encode features: %w", err)
	}

	now := time.Now().UTC()
	match := &models.Match{
		ID:          uuid.New(),
		Sport:       strings.ToLower(strings.TrimSpace(sourceMatch.Sport)),
		ExternalID:  sourceMatch.SourceID,
		Source:      sourceName,
		Team1:       n.normalizeTeamName(sourceMatch.Team1),
		Team2:       n.normalizeTeamName(sourceMatch.Team2),
		Tournament:  strings.TrimSpace(sourceMatch.Tournament),
		Stage:       n.normalizeStage(sourceMatch.Stage),
		Format:      n.normalizeFormat(sourceMatch.Format),
		ScheduledAt: sourceMatch.ScheduledAt.UTC(),
		Status:      models.MatchStatusUpcoming,
		OddsTeam1:   sourceMatch.OddsTeam1,
		OddsTeam2:   sourceMatch.OddsTeam2,
		Features:    features,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	return match, nil
}

// normalizeTeamName converts provider-specific team names to canonical format
func (n *DataNormalizer) normalizeTeamName(name string) string {
	trimmed := strings.Join(strings.Fields(name), " ")
	if trimmed == "" {
		return ""
	}

	if canonical, ok := n.teamNameMap[strings.ToUpper(trimmed)]; ok {
		return canonical
	}

	return trimmed
}

// normalizeStage collapses provider stage spellings to a small canonical set
func (n *DataNormalizer) normalizeStage(stage string) string {
	normalized := strings.ToLower(strings.TrimSpace(stage))

	stageMap := map[string]string{
		"grand final":    "final",
		"grand_final":    "final",
		"final":          "final",
		"semi-final":     "semifinal",
		"semi final":     "semifinal",
		"semifinal":      "semifinal",
		"quarter-final":  "quarterfinal",
		"quarter final":  "quarterfinal",
		"quarterfinal":   "quarterfinal",
		"playoff":        "playoff",
		"playoffs":       "playoff",
		"regular":        "group",
		"regular season": "group",
		"group":          "group",
		"group stage":    "group",
		"swiss":          "group",
	}

	if mapped, ok := stageMap[normalized]; ok {
		return mapped
	}

	return normalized
}

// normalizeFormat canonicalizes match formats to BO<n>
func (n *DataNormalizer) normalizeFormat(format string) string {
	normalized := strings.ToUpper(strings.TrimSpace(format))
	if normalized == "" {
		return "BO1"
	}

	switch normalized {
	case "BO1", "BO3", "BO5", "BO7":
		return normalized
	case "BEST OF 1":
		return "BO1"
	case "BEST OF 3":
		return "BO3"
	case "BEST OF 5":
		return "BO5"
	}

	return normalized
}

// NormalizeOdds converts an odds string to decimal, rejecting non-positive prices
func (n *DataNormalizer) NormalizeOdds(oddsStr string) *decimal.Decimal {
	if oddsStr == "" {
		return nil
	}

	d, err := decimal.NewFromString(oddsStr)
	if err == nil && d.GreaterThan(decimal.NewFromInt(1)) {
		return &d
	}

	return nil
}

// NormalizeScheduledTime ensures the scheduled time is in UTC
func (n *DataNormalizer) NormalizeScheduledTime(t time.Time) time.Time {
	return t.UTC()
}

// buildTeamNameMap returns mapping of team name variations to canonical names
func buildTeamNameMap() map[string]string {
	return map[string]string{
		// CS2 org name variations
		"NATUS VINCERE":      "Natus Vincere",
		"NAVI":               "Natus Vincere",
		"FAZE CLAN":          "FaZe",
		"FAZE":               "FaZe",
		"TEAM VITALITY":      "Vitality",
		"VITALITY":           "Vitality",
		"TEAM SPIRIT":        "Spirit",
		"SPIRIT":             "Spirit",
		"G2 ESPORTS":         "G2",
		"G2":                 "G2",
		"MOUZ":               "MOUZ",
		"MOUSESPORTS":        "MOUZ",
		"VIRTUS.PRO":         "Virtus.pro",
		"VIRTUS PRO":         "Virtus.pro",
		"HEROIC":             "HEROIC",
		"ASTRALIS":           "Astralis",
		"COMPLEXITY":         "Complexity",
		"COMPLEXITY GAMING":  "Complexity",
		"FURIA":              "FURIA",
		"FURIA ESPORTS":      "FURIA",
		"THE MONGOLZ":        "The MongolZ",
		"MONGOLZ":            "The MongolZ",
		// KHL club name variations
		"CSKA":                "CSKA Moscow",
		"CSKA MOSCOW":         "CSKA Moscow",
		"SKA":                 "SKA St. Petersburg",
		"SKA ST. PETERSBURG":  "SKA St. Petersburg",
		"SKA SAINT PETERSBURG": "SKA St. Petersburg",
		"AK BARS":             "Ak Bars Kazan",
		"AK BARS KAZAN":       "Ak Bars Kazan",
		"METALLURG":           "Metallurg Magnitogorsk",
		"METALLURG MAGNITOGORSK": "Metallurg Magnitogorsk",
		"DYNAMO MOSCOW":       "Dynamo Moscow",
		"DINAMO MOSCOW":       "Dynamo Moscow",
		"LOKOMOTIV":           "Lokomotiv Yaroslavl",
		"LOKOMOTIV YAROSLAVL": "Lokomotiv Yaroslavl",
		"AVANGARD":            "Avangard Omsk",
		"AVANGARD OMSK":       "Avangard Omsk",
		"SALAVAT YULAEV":      "Salavat Yulaev Ufa",
		"SALAVAT YULAEV UFA":  "Salavat Yulaev Ufa",
		"TRAKTOR":             "Traktor Chelyabinsk",
		"TRAKTOR CHELYABINSK": "Traktor Chelyabinsk",
		"SPARTAK MOSCOW":      "Spartak Moscow",
	}
}

package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/yourusername/betpulse/internal/models"
)

func finishedMatch(score1, score2 int) *models.Match {
	odds1 := decimal.NewFromFloat(1.80)
	odds2 := decimal.NewFromFloat(2.10)
	return &models.Match{
		ID:         uuid.New(),
		Sport:      models.SportKHL,
		Status:     models.MatchStatusFinished,
		ScoreTeam1: score1,
		ScoreTeam2: score2,
		OddsTeam1:  &odds1,
		OddsTeam2:  &odds2,
	}
}

func TestSettlementResult(t *testing.T) {
	tests := []struct {
		name       string
		match      *models.Match
		outcome    string
		wantResult string
		wantReady  bool
	}{
		{
			name:       "Predicted winner won",
			match:      finishedMatch(3, 1),
			outcome:    models.OutcomeTeam1,
			wantResult: models.ResultWin,
			wantReady:  true,
		},
		{
			name:       "Predicted winner lost",
			match:      finishedMatch(1, 3),
			outcome:    models.OutcomeTeam1,
			wantResult: models.ResultLoss,
			wantReady:  true,
		},
		{
			name:       "Draw settles as push",
			match:      finishedMatch(2, 2),
			outcome:    models.OutcomeTeam2,
			wantResult: models.ResultPush,
			wantReady:  true,
		},
		{
			name: "Cancelled match settles as push",
			match: &models.Match{
				Status: models.MatchStatusCancelled,
			},
			outcome:    models.OutcomeTeam1,
			wantResult: models.ResultPush,
			wantReady:  true,
		},
		{
			name: "Live match is not ready",
			match: &models.Match{
				Status:     models.MatchStatusLive,
				ScoreTeam1: 2,
			},
			outcome:   models.OutcomeTeam1,
			wantReady: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := &models.Signal{Outcome: tt.outcome}

			result, ready := settlementResult(tt.match, sig)
			assert.Equal(t, tt.wantReady, ready)
			if tt.wantReady {
				assert.Equal(t, tt.wantResult, result)
			}
		})
	}
}

func TestSignalROI(t *testing.T) {
	match := finishedMatch(3, 1)

	winTeam1 := signalROI(&models.Signal{Outcome: models.OutcomeTeam1}, match, models.ResultWin)
	assert.InDelta(t, 0.80, winTeam1, 1e-9)

	winTeam2 := signalROI(&models.Signal{Outcome: models.OutcomeTeam2}, match, models.ResultWin)
	assert.InDelta(t, 1.10, winTeam2, 1e-9)

	loss := signalROI(&models.Signal{Outcome: models.OutcomeTeam1}, match, models.ResultLoss)
	assert.Equal(t, -1.0, loss)

	push := signalROI(&models.Signal{Outcome: models.OutcomeTeam1}, match, models.ResultPush)
	assert.Equal(t, 0.0, push)

	noOdds := finishedMatch(3, 1)
	noOdds.OddsTeam1 = nil
	assert.Equal(t, 0.0, signalROI(&models.Signal{Outcome: models.OutcomeTeam1}, noOdds, models.ResultWin))
}

func TestSeriesDecided(t *testing.T) {
	match := &models.Match{Format: "BO3", ScoreTeam1: 2, ScoreTeam2: 0}
	lead, decided := seriesDecided(match)
	assert.True(t, decided)
	assert.Equal(t, 2, lead)

	match = &models.Match{Format: "BO3", ScoreTeam1: 1, ScoreTeam2: 1}
	_, decided = seriesDecided(match)
	assert.False(t, decided)

	match = &models.Match{Format: "", ScoreTeam1: 9, ScoreTeam2: 0}
	_, decided = seriesDecided(match)
	assert.False(t, decided, "unknown formats never auto-decide")
}

//go:build standalone

// Standalone test for settled-signal aggregation logic.
// Run with: go test -tags standalone -v ./test/unit/
package unit

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/betpulse/internal/models"
)

type bucketTally struct {
	total int
	wins  int
}

// Mirror of the statistics rollup: settled signals grouped by confidence
// bucket, pushes excluded from the win rate.
func aggregateByBucket(signals []*models.Signal) map[string]bucketTally {
	buckets := make(map[string]bucketTally)

	for _, sig := range signals {
		if !sig.IsSettled() {
			continue
		}
		if *sig.Result == models.ResultPush {
			continue
		}

		tally := buckets[sig.ConfidenceBucket()]
		tally.total++
		if sig.IsWin() {
			tally.wins++
		}
		buckets[sig.ConfidenceBucket()] = tally
	}

	return buckets
}

func settledSignal(confidence float64, result string) *models.Signal {
	settledAt := time.Now().UTC()
	return &models.Signal{
		ID:         uuid.New(),
		MatchID:    uuid.New(),
		Sport:      models.SportCS2,
		Outcome:    models.OutcomeTeam1,
		Confidence: confidence,
		Result:     &result,
		SettledAt:  &settledAt,
	}
}

func TestAggregateByBucket(t *testing.T) {
	signals := []*models.Signal{
		settledSignal(0.85, models.ResultWin),
		settledSignal(0.82, models.ResultWin),
		settledSignal(0.81, models.ResultLoss),
		settledSignal(0.75, models.ResultWin),
		settledSignal(0.72, models.ResultLoss),
		settledSignal(0.65, models.ResultLoss),
		settledSignal(0.90, models.ResultPush),
		{ID: uuid.New(), Confidence: 0.88}, // unsettled, must be ignored
	}

	buckets := aggregateByBucket(signals)

	high := buckets[models.BucketHigh]
	if high.total != 3 || high.wins != 2 {
		t.Errorf("high bucket: expected 3 decided / 2 wins, got %d / %d", high.total, high.wins)
	}

	medium := buckets[models.BucketMedium]
	if medium.total != 2 || medium.wins != 1 {
		t.Errorf("medium bucket: expected 2 decided / 1 win, got %d / %d", medium.total, medium.wins)
	}

	low := buckets[models.BucketLow]
	if low.total != 1 || low.wins != 0 {
		t.Errorf("low bucket: expected 1 decided / 0 wins, got %d / %d", low.total, low.wins)
	}
}

func TestAggregateByBucketEmpty(t *testing.T) {
	buckets := aggregateByBucket(nil)
	if len(buckets) != 0 {
		t.Errorf("expected no buckets for empty input, got %d", len(buckets))
	}
}

func TestBucketBoundaries(t *testing.T) {
	cases := []struct {
		confidence float64
		want       string
	}{
		{0.80, models.BucketHigh},
		{0.7999, models.BucketMedium},
		{0.70, models.BucketMedium},
		{0.6999, models.BucketLow},
		{0.0, models.BucketLow},
	}

	for _, tc := range cases {
		sig := &models.Signal{Confidence: tc.confidence}
		if got := sig.ConfidenceBucket(); got != tc.want {
			t.Errorf("confidence %.4f: expected bucket %s, got %s", tc.confidence, tc.want, got)
		}
	}
}

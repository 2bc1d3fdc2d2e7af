// Package evaluation computes historical signal performance and runs
// bankroll simulations over settled signals.
package evaluation

import (
	"encoding/json"
	"math"
	"time"

	"github.com/yourusername/betpulse/internal/models"
)

// Record is one settled signal joined with the closing odds of its pick.
// Odds of zero mean the match carried no line; fair odds derived from the
// model probability are used instead.
type Record struct {
	Sport       string    `json:"sport"`
	Outcome     string    `json:"outcome"`
	Confidence  float64   `json:"confidence"`
	Probability float64   `json:"probability"`
	Odds        float64   `json:"odds"`
	Result      string    `json:"result"`
	SettledAt   time.Time `json:"settled_at"`
}

// StakeReturn is the flat-stake profit of one record: odds-1 on a win,
// -1 on a loss, 0 on a push.
func (r Record) StakeReturn() float64 {
	switch r.Result {
	case models.ResultWin:
		return r.effectiveOdds() - 1
	case models.ResultLoss:
		return -1
	default:
		return 0
	}
}

func (r Record) effectiveOdds() float64 {
	if r.Odds > 1 {
		return r.Odds
	}
	if r.Probability > 0 {
		return 1 / r.Probability
	}
	return 1
}

// BucketReport holds per-confidence-bucket performance
type BucketReport struct {
	Total   int     `json:"total"`
	Wins    int     `json:"wins"`
	Losses  int     `json:"losses"`
	WinRate float64 `json:"win_rate"`
	ROI     float64 `json:"roi"`
}

// PerformanceReport represents historical signal performance metrics
type PerformanceReport struct {
	Sport          string                  `json:"sport"`
	TotalSignals   int                     `json:"total_signals"`
	Wins           int                     `json:"wins"`
	Losses         int                     `json:"losses"`
	Pushes         int                     `json:"pushes"`
	WinRate        float64                 `json:"win_rate"`
	ROI            float64                 `json:"roi"`
	ProfitFactor   float64                 `json:"profit_factor"`
	Expectancy     float64                 `json:"expectancy"`
	AvgConfidence  float64                 `json:"avg_confidence"`
	AvgOdds        float64                 `json:"avg_odds"`
	LongestWinRun  int                     `json:"longest_win_run"`
	LongestLossRun int                     `json:"longest_loss_run"`
	Buckets        map[string]BucketReport `json:"buckets"`
	StartDate      time.Time               `json:"start_date"`
	EndDate        time.Time               `json:"end_date"`
}

// CalculatePerformance computes performance metrics over settled records.
// Records are expected in settlement order for the streak counters.
func CalculatePerformance(sport string, records []Record) PerformanceReport {
	report := PerformanceReport{
		Sport:   sport,
		Buckets: make(map[string]BucketReport),
	}

	if len(records) == 0 {
		return report
	}

	report.StartDate = records[0].SettledAt
	report.EndDate = records[len(records)-1].SettledAt

	grossProfit := 0.0
	grossLoss := 0.0
	netReturn := 0.0
	confidenceSum := 0.0
	oddsSum := 0.0
	winRun := 0
	lossRun := 0

	buckets := make(map[string]*BucketReport)

	for _, rec := range records {
		report.TotalSignals++
		confidenceSum += rec.Confidence
		oddsSum += rec.effectiveOdds()

		ret := rec.StakeReturn()
		netReturn += ret
		if ret > 0 {
			grossProfit += ret
		} else {
			grossLoss += math.Abs(ret)
		}

		bucket := confidenceBucket(rec.Confidence)
		if buckets[bucket] == nil {
			buckets[bucket] = &BucketReport{}
		}
		buckets[bucket].Total++

		switch rec.Result {
		case models.ResultWin:
			report.Wins++
			buckets[bucket].Wins++
			winRun++
			lossRun = 0
			if winRun > report.LongestWinRun {
				report.LongestWinRun = winRun
			}
		case models.ResultLoss:
			report.Losses++
			buckets[bucket].Losses++
			lossRun++
			winRun = 0
			if lossRun > report.LongestLossRun {
				report.LongestLossRun = lossRun
			}
		default:
			report.Pushes++
			// pushes break neither streak
		}
	}

	decided := report.Wins + report.Losses
	if decided > 0 {
		report.WinRate = float64(report.Wins) / float64(decided)
	}
	report.ROI = netReturn / float64(report.TotalSignals)
	report.ProfitFactor = profitFactor(grossProfit, grossLoss)
	report.Expectancy = netReturn / float64(report.TotalSignals)
	report.AvgConfidence = confidenceSum / float64(report.TotalSignals)
	report.AvgOdds = oddsSum / float64(report.TotalSignals)

	for name, b := range buckets {
		bucketDecided := b.Wins + b.Losses
		if bucketDecided > 0 {
			b.WinRate = float64(b.Wins) / float64(bucketDecided)
		}
		bucketReturn := 0.0
		for _, rec := range records {
			if confidenceBucket(rec.Confidence) == name {
				bucketReturn += rec.StakeReturn()
			}
		}
		b.ROI = bucketReturn / float64(b.Total)
		report.Buckets[name] = *b
	}

	return report
}

// ToJSON exports the report to JSON
func (p PerformanceReport) ToJSON() string {
	data, _ := json.Marshal(p)
	return string(data)
}

func confidenceBucket(confidence float64) string {
	switch {
	case confidence >= 0.80:
		return models.BucketHigh
	case confidence >= 0.70:
		return models.BucketMedium
	default:
		return models.BucketLow
	}
}

func profitFactor(grossProfit, grossLoss float64) float64 {
	if grossLoss == 0 {
		if grossProfit > 0 {
			return 999
		}
		return 0
	}
	return grossProfit / grossLoss
}

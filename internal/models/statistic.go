package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SportStatistic aggregates settled signal outcomes for a single sport
type SportStatistic struct {
	Sport        string          `db:"sport" json:"sport" validate:"required,oneof=cs2 khl"`
	TotalSignals int             `db:"total_signals" json:"total_signals" validate:"gte=0"`
	Wins         int             `db:"wins" json:"wins" validate:"gte=0"`
	Losses       int             `db:"losses" json:"losses" validate:"gte=0"`
	Pushes       int             `db:"pushes" json:"pushes" validate:"gte=0"`
	NetROI       decimal.Decimal `db:"net_roi" json:"net_roi"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}

// Settled returns the number of signals with a recorded result
func (st *SportStatistic) Settled() int {
	return st.Wins + st.Losses + st.Pushes
}

// GetWinRate calculates the win rate as a percentage, excluding pushes
func (st *SportStatistic) GetWinRate() float64 {
	decided := st.Wins + st.Losses
	if decided == 0 {
		return 0
	}
	return (float64(st.Wins) / float64(decided)) * 100
}

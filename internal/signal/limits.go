package signal

import (
	"context"
	"time"

	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/betpulse/internal/repository"
)

// Limits enforces the per-match cooldown and the per-sport daily quota.
// The cooldown lives in memory; the quota is counted from the database so
// restarts do not reset it.
type Limits struct {
	cooldown   time.Duration
	dailyLimit int
	cooldowns  *cache.Cache
	signalRepo repository.SignalRepository
}

// NewLimits creates the limit tracker.
func NewLimits(cooldown time.Duration, dailyLimit int, signalRepo repository.SignalRepository) *Limits {
	return &Limits{
		cooldown:   cooldown,
		dailyLimit: dailyLimit,
		cooldowns:  cache.New(cooldown, cooldown*2),
		signalRepo: signalRepo,
	}
}

// CooldownRemaining reports whether the match is still inside its signal
// cooldown and how long remains.
func (l *Limits) CooldownRemaining(matchID uuid.UUID) (time.Duration, bool) {
	if started, found := l.cooldowns.Get(matchID.String()); found {
		elapsed := time.Since(started.(time.Time))
		if elapsed < l.cooldown {
			return l.cooldown - elapsed, true
		}
	}
	return 0, false
}

// StartCooldown marks the match as having just produced a signal.
func (l *Limits) StartCooldown(matchID uuid.UUID) {
	l.cooldowns.Set(matchID.String(), time.Now(), l.cooldown)
}

// WithinDailyQuota reports whether the sport can still emit a signal today
// (UTC midnight boundary) and how many it has already used.
func (l *Limits) WithinDailyQuota(ctx context.Context, sport string) (allowed bool, used int, err error) {
	now := time.Now().UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	used, err = l.signalRepo.CountCreatedSince(ctx, sport, midnight)
	if err != nil {
		return false, 0, err
	}
	return used < l.dailyLimit, used, nil
}

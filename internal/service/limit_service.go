package service

import (
	"log/slog"
	"time"

	"github.com/neo-v-dev/postx/internal/models"
)

type Remaining struct {
	Daily   int `json:"daily"`
	Monthly int `json:"monthly"`
}

// LimitService tracks the rolling daily/monthly posting quotas. Counter
// resets are lazy: Refresh runs at the top of every query so the state is
// current without any background timer.
type LimitService interface {
	Refresh()
	CanPost() bool
	Increment()
	Remaining() Remaining
}

type limitService struct {
	stats        *models.Stats
	dailyLimit   int
	monthlyLimit int
	loc          *time.Location
	now          func() time.Time
}

func NewLimitService(stats *models.Stats, dailyLimit, monthlyLimit int, loc *time.Location) LimitService {
	return &limitService{
		stats:        stats,
		dailyLimit:   dailyLimit,
		monthlyLimit: monthlyLimit,
		loc:          loc,
		now:          time.Now,
	}
}

// Refresh zeroes counters whose reset boundary has passed and advances the
// boundary: daily to the next local midnight, monthly to the 1st of the
// next local month. A zero boundary (fresh store) is treated as due.
func (s *limitService) Refresh() {
	now := s.now().In(s.loc)

	if resetDue(now, s.stats.DailyResetAt, s.loc) {
		s.stats.DailyCount = 0
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc).AddDate(0, 0, 1)
		s.stats.DailyResetAt = models.NewTime(midnight)
		slog.Info("daily post counter reset", "next_reset", midnight)
	}

	if resetDue(now, s.stats.MonthlyResetAt, s.loc) {
		s.stats.MonthlyCount = 0
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc).AddDate(0, 1, 0)
		s.stats.MonthlyResetAt = models.NewTime(first)
		slog.Info("monthly post counter reset", "next_reset", first)
	}
}

func resetDue(now time.Time, at models.Time, loc *time.Location) bool {
	return at.IsZero() || !now.Before(at.In(loc))
}

func (s *limitService) CanPost() bool {
	s.Refresh()

	if s.stats.DailyCount >= s.dailyLimit {
		slog.Warn("daily post limit reached", "count", s.stats.DailyCount, "limit", s.dailyLimit)
		return false
	}
	if s.stats.MonthlyCount >= s.monthlyLimit {
		slog.Warn("monthly post limit reached", "count", s.stats.MonthlyCount, "limit", s.monthlyLimit)
		return false
	}
	return true
}

// Increment bumps both counters. The caller must have just confirmed
// CanPost; no refresh happens here.
func (s *limitService) Increment() {
	s.stats.DailyCount++
	s.stats.MonthlyCount++
}

func (s *limitService) Remaining() Remaining {
	s.Refresh()
	return Remaining{
		Daily:   s.dailyLimit - s.stats.DailyCount,
		Monthly: s.monthlyLimit - s.stats.MonthlyCount,
	}
}

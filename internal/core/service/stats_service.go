package service

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/habittracker/habit-tracker-backend/internal/core/domain"
	"github.com/habittracker/habit-tracker-backend/internal/core/ports"
)

// StatsService assembles per-user statistics from habits and completions. It
// is read-only and tolerates concurrent toggles: the report is a best-effort
// view, not a snapshot.
type StatsService struct {
	habits           ports.HabitRepository
	completions      ports.CompletionRepository
	weeklyWindowDays int
	topLimit         int
	now              func() time.Time
	logger           zerolog.Logger
}

func NewStatsService(
	habits ports.HabitRepository,
	completions ports.CompletionRepository,
	weeklyWindowDays, topLimit int,
	logger zerolog.Logger,
) *StatsService {
	if weeklyWindowDays <= 0 {
		weeklyWindowDays = domain.DefaultWeeklyWindowDays
	}
	if topLimit <= 0 {
		topLimit = 5
	}
	return &StatsService{
		habits:           habits,
		completions:      completions,
		weeklyWindowDays: weeklyWindowDays,
		topLimit:         topLimit,
		now:              func() time.Time { return time.Now().UTC() },
		logger:           logger,
	}
}

func (s *StatsService) UserStatistics(ctx context.Context, userID string) (*ports.StatsReport, error) {
	all, err := s.habits.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	active, err := s.habits.FindByUserAndActive(ctx, userID, true)
	if err != nil {
		return nil, err
	}

	report := &ports.StatsReport{
		TotalHabits:          len(all),
		ActiveHabits:         len(active),
		InactiveHabits:       len(all) - len(active),
		CategoryDistribution: make(map[string]int),
	}

	var rateSum float64
	for _, h := range active {
		rateSum += h.CompletionRate
		if h.Streak > report.CurrentMaxStreak {
			report.CurrentMaxStreak = h.Streak
		}
		report.CategoryDistribution[h.Category]++
	}
	// Mean over active habits only, 0.0 when there are none.
	if len(active) > 0 {
		report.OverallCompletionRate = math.Round(rateSum/float64(len(active))*100) / 100
	}

	weekly, err := s.weeklyProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	report.WeeklyProgress = weekly

	return report, nil
}

// weeklyProgress counts completions per calendar day across all the user's
// habits for the trailing window ending today, oldest day first.
func (s *StatsService) weeklyProgress(ctx context.Context, userID string) ([]ports.DailyProgress, error) {
	today := s.now()
	start := today.AddDate(0, 0, -(s.weeklyWindowDays - 1))

	records, err := s.completions.FindByUserAndPeriod(ctx, userID, domain.DateKey(start), domain.DateKey(today))
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(records))
	for _, r := range records {
		counts[r.Date]++
	}

	progress := make([]ports.DailyProgress, 0, s.weeklyWindowDays)
	for i := 0; i < s.weeklyWindowDays; i++ {
		key := domain.DateKey(start.AddDate(0, 0, i))
		progress = append(progress, ports.DailyProgress{Date: key, Count: counts[key]})
	}
	return progress, nil
}

func (s *StatsService) TopPerformingHabits(ctx context.Context, userID string) ([]*domain.Habit, error) {
	return s.habits.FindTopByStreak(ctx, userID, s.topLimit)
}

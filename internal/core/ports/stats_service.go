package ports

import (
	"context"

	"github.com/habittracker/habit-tracker-backend/internal/core/domain"
)

// DailyProgress is one day of the weekly histogram: the civil date and the
// number of completions recorded across all of the user's habits on that day.
type DailyProgress struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// StatsReport is the per-user summary assembled by the statistics aggregator.
type StatsReport struct {
	TotalHabits           int            `json:"totalHabits"`
	ActiveHabits          int            `json:"activeHabits"`
	InactiveHabits        int            `json:"inactiveHabits"`
	OverallCompletionRate float64        `json:"overallCompletionRate"`
	CurrentMaxStreak      int            `json:"currentMaxStreak"`
	CategoryDistribution  map[string]int `json:"categoryDistribution"`
	// WeeklyProgress holds exactly one entry per day of the trailing week,
	// oldest first, today last.
	WeeklyProgress []DailyProgress `json:"weeklyProgress"`
}

// StatsService computes read-only statistics over a user's habits and
// completions. It needs no consistent snapshot: toggles may run concurrently.
type StatsService interface {
	UserStatistics(ctx context.Context, userID string) (*StatsReport, error)
	// TopPerformingHabits returns the user's active habits ordered by streak
	// descending (ties broken by habit id ascending), capped at the configured
	// limit.
	TopPerformingHabits(ctx context.Context, userID string) ([]*domain.Habit, error)
}

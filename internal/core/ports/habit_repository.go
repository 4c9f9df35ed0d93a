package ports

import (
	"context"

	"github.com/habittracker/habit-tracker-backend/internal/core/domain"
)

// HabitRepository defines persistence operations for habit definitions.
type HabitRepository interface {
	// Save inserts the habit when it has no ID yet, otherwise replaces the
	// stored document. Returns the persisted habit with its ID set.
	Save(ctx context.Context, h *domain.Habit) (*domain.Habit, error)
	FindByID(ctx context.Context, id string) (*domain.Habit, error)
	FindByUser(ctx context.Context, userID string) ([]*domain.Habit, error)
	FindByUserAndActive(ctx context.Context, userID string, active bool) ([]*domain.Habit, error)
	FindActiveByUserAndCategory(ctx context.Context, userID, category string) ([]*domain.Habit, error)
	CountActiveByUser(ctx context.Context, userID string) (int64, error)
	// FindTopByStreak returns up to limit active habits of the user ordered by
	// streak descending; equal streaks break ties by habit id ascending.
	FindTopByStreak(ctx context.Context, userID string, limit int) ([]*domain.Habit, error)
	DeleteByID(ctx context.Context, id string) error
	// FindActiveIDs returns the ids of every active habit across all users.
	// Used by the nightly stats refresher.
	FindActiveIDs(ctx context.Context) ([]string, error)
}
